package postgresql

import (
	"context"
	"fmt"

	"github.com/ems-suite/ems-backend-go/internal/domain/notification"
	"github.com/ems-suite/ems-backend-go/internal/pkg/database"
)

type notificationRepositoryImpl struct {
	db *database.DB
}

func NewNotificationRepository(db *database.DB) notification.Repository {
	return &notificationRepositoryImpl{db: db}
}

// Create implements notification.Repository.
func (r *notificationRepositoryImpl) Create(ctx context.Context, n *notification.Notification) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO notifications (recipient_id, sender_id, type, title, message, data)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		n.RecipientID, n.SenderID, n.Type, n.Title, n.Message, n.Data,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// CreateBatch implements notification.Repository. One multi-row insert per
// flush keeps the background workers cheap.
func (r *notificationRepositoryImpl) CreateBatch(ctx context.Context, notifications []*notification.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO notifications (id, recipient_id, sender_id, type, title, message, data)
		SELECT * FROM unnest($1::text[], $2::text[], $3::text[], $4::text[], $5::text[], $6::text[], $7::jsonb[])
	`

	ids := make([]string, len(notifications))
	recipients := make([]string, len(notifications))
	senders := make([]*string, len(notifications))
	types := make([]string, len(notifications))
	titles := make([]string, len(notifications))
	messages := make([]string, len(notifications))
	data := make([]map[string]interface{}, len(notifications))

	for i, n := range notifications {
		ids[i] = n.ID
		recipients[i] = n.RecipientID
		senders[i] = n.SenderID
		types[i] = string(n.Type)
		titles[i] = n.Title
		messages[i] = n.Message
		data[i] = n.Data
	}

	_, err := q.Exec(ctx, query, ids, recipients, senders, types, titles, messages, data)
	if err != nil {
		return fmt.Errorf("failed to batch create notifications: %w", err)
	}
	return nil
}

// GetByUserID implements notification.Repository.
func (r *notificationRepositoryImpl) GetByUserID(ctx context.Context, userID string, page, limit int, unreadOnly bool) ([]*notification.Notification, int, error) {
	q := GetQuerier(ctx, r.db)

	where := ` WHERE recipient_id = $1`
	if unreadOnly {
		where += ` AND is_read = FALSE`
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM notifications` + where
	if err := q.QueryRow(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	query := `
		SELECT id, recipient_id, sender_id, type, title, message, data,
			   is_read, read_at, created_at
		FROM notifications` + where + `
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := q.Query(ctx, query, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*notification.Notification
	for rows.Next() {
		var n notification.Notification
		err := rows.Scan(
			&n.ID, &n.RecipientID, &n.SenderID, &n.Type, &n.Title, &n.Message, &n.Data,
			&n.IsRead, &n.ReadAt, &n.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate notifications: %w", err)
	}

	return notifications, total, nil
}

// GetUnreadCount implements notification.Repository.
func (r *notificationRepositoryImpl) GetUnreadCount(ctx context.Context, userID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	query := `SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND is_read = FALSE`
	if err := q.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkAsRead implements notification.Repository.
func (r *notificationRepositoryImpl) MarkAsRead(ctx context.Context, ids []string, userID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE notifications
		SET is_read = TRUE, read_at = NOW()
		WHERE id = ANY($1) AND recipient_id = $2 AND is_read = FALSE
	`

	if _, err := q.Exec(ctx, query, ids, userID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

// MarkAllAsRead implements notification.Repository.
func (r *notificationRepositoryImpl) MarkAllAsRead(ctx context.Context, userID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE notifications
		SET is_read = TRUE, read_at = NOW()
		WHERE recipient_id = $1 AND is_read = FALSE
	`

	if _, err := q.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to mark all notifications read: %w", err)
	}
	return nil
}

// Delete implements notification.Repository.
func (r *notificationRepositoryImpl) Delete(ctx context.Context, id string, userID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM notifications WHERE id = $1 AND recipient_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notification.ErrNotificationNotFound
	}
	return nil
}
