package postgresql

import (
	"context"
	"fmt"

	"github.com/ems-suite/ems-backend-go/internal/domain/announcement"
	"github.com/ems-suite/ems-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type announcementRepositoryImpl struct {
	db *database.DB
}

func NewAnnouncementRepository(db *database.DB) announcement.Repository {
	return &announcementRepositoryImpl{db: db}
}

// Create implements announcement.Repository.
func (r *announcementRepositoryImpl) Create(ctx context.Context, a announcement.Announcement) (announcement.Announcement, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO announcements (organization, title, body, priority, departments, created_by, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		a.Organization, a.Title, a.Body, a.Priority, a.Departments, a.CreatedBy, a.ExpiresAt,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)

	if err != nil {
		return announcement.Announcement{}, fmt.Errorf("failed to create announcement: %w", err)
	}

	return a, nil
}

// GetByID implements announcement.Repository.
func (r *announcementRepositoryImpl) GetByID(ctx context.Context, id string) (announcement.Announcement, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT a.id, a.organization, a.title, a.body, a.priority, a.departments,
			   a.created_by, a.expires_at, a.created_at, a.updated_at,
			   u.name AS author_name,
			   (SELECT COUNT(*) FROM announcement_reads ar WHERE ar.announcement_id = a.id) AS read_count
		FROM announcements a
		LEFT JOIN users u ON u.id = a.created_by
		WHERE a.id = $1
	`

	var a announcement.Announcement
	err := q.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.Organization, &a.Title, &a.Body, &a.Priority, &a.Departments,
		&a.CreatedBy, &a.ExpiresAt, &a.CreatedAt, &a.UpdatedAt,
		&a.AuthorName, &a.ReadCount,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return announcement.Announcement{}, announcement.ErrAnnouncementNotFound
		}
		return announcement.Announcement{}, fmt.Errorf("failed to get announcement: %w", err)
	}

	return a, nil
}

// List implements announcement.Repository.
func (r *announcementRepositoryImpl) List(ctx context.Context, organization string) ([]announcement.Announcement, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT a.id, a.organization, a.title, a.body, a.priority, a.departments,
			   a.created_by, a.expires_at, a.created_at, a.updated_at,
			   u.name AS author_name,
			   (SELECT COUNT(*) FROM announcement_reads ar WHERE ar.announcement_id = a.id) AS read_count
		FROM announcements a
		LEFT JOIN users u ON u.id = a.created_by
		WHERE a.organization = $1
		ORDER BY a.created_at DESC
	`

	rows, err := q.Query(ctx, query, organization)
	if err != nil {
		return nil, fmt.Errorf("failed to list announcements: %w", err)
	}
	defer rows.Close()

	var all []announcement.Announcement
	for rows.Next() {
		var a announcement.Announcement
		err := rows.Scan(
			&a.ID, &a.Organization, &a.Title, &a.Body, &a.Priority, &a.Departments,
			&a.CreatedBy, &a.ExpiresAt, &a.CreatedAt, &a.UpdatedAt,
			&a.AuthorName, &a.ReadCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan announcement: %w", err)
		}
		all = append(all, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate announcements: %w", err)
	}

	return all, nil
}

// ListForUser implements announcement.Repository.
func (r *announcementRepositoryImpl) ListForUser(ctx context.Context, organization string, userID string, department *string) ([]announcement.Announcement, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT a.id, a.organization, a.title, a.body, a.priority, a.departments,
			   a.created_by, a.expires_at, a.created_at, a.updated_at,
			   u.name AS author_name,
			   EXISTS(SELECT 1 FROM announcement_reads ar WHERE ar.announcement_id = a.id AND ar.user_id = $2) AS is_read,
			   (SELECT COUNT(*) FROM announcement_reads ar WHERE ar.announcement_id = a.id) AS read_count
		FROM announcements a
		LEFT JOIN users u ON u.id = a.created_by
		WHERE a.organization = $1
		  AND (a.expires_at IS NULL OR a.expires_at > NOW())
		  AND (a.departments = '{}' OR $3::text = ANY(a.departments))
		ORDER BY a.created_at DESC
	`

	rows, err := q.Query(ctx, query, organization, userID, department)
	if err != nil {
		return nil, fmt.Errorf("failed to list announcements for user: %w", err)
	}
	defer rows.Close()

	var all []announcement.Announcement
	for rows.Next() {
		var a announcement.Announcement
		err := rows.Scan(
			&a.ID, &a.Organization, &a.Title, &a.Body, &a.Priority, &a.Departments,
			&a.CreatedBy, &a.ExpiresAt, &a.CreatedAt, &a.UpdatedAt,
			&a.AuthorName, &a.IsRead, &a.ReadCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan announcement: %w", err)
		}
		all = append(all, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate announcements: %w", err)
	}

	return all, nil
}

// Update implements announcement.Repository.
func (r *announcementRepositoryImpl) Update(ctx context.Context, a announcement.Announcement) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE announcements
		SET title = $1, body = $2, priority = $3, departments = $4,
			expires_at = $5, updated_at = NOW()
		WHERE id = $6
	`

	tag, err := q.Exec(ctx, query, a.Title, a.Body, a.Priority, a.Departments, a.ExpiresAt, a.ID)
	if err != nil {
		return fmt.Errorf("failed to update announcement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return announcement.ErrAnnouncementNotFound
	}
	return nil
}

// Delete implements announcement.Repository.
func (r *announcementRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete announcement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return announcement.ErrAnnouncementNotFound
	}
	return nil
}

// MarkRead implements announcement.Repository.
func (r *announcementRepositoryImpl) MarkRead(ctx context.Context, announcementID, userID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO announcement_reads (announcement_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (announcement_id, user_id) DO NOTHING
	`

	if _, err := q.Exec(ctx, query, announcementID, userID); err != nil {
		return fmt.Errorf("failed to mark announcement read: %w", err)
	}
	return nil
}
