package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/ems-suite/ems-backend-go/internal/domain/audit"
	"github.com/ems-suite/ems-backend-go/internal/pkg/database"
)

type auditRepositoryImpl struct {
	db *database.DB
}

func NewAuditRepository(db *database.DB) audit.Repository {
	return &auditRepositoryImpl{db: db}
}

// Create implements audit.Repository.
func (r *auditRepositoryImpl) Create(ctx context.Context, e audit.Entry) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO audit_logs (action, actor_id, entity, entity_id, success, detail)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := q.Exec(ctx, query, e.Action, e.ActorID, e.Entity, e.EntityID, e.Success, e.Detail)
	if err != nil {
		return fmt.Errorf("failed to create audit entry: %w", err)
	}
	return nil
}

// List implements audit.Repository.
func (r *auditRepositoryImpl) List(ctx context.Context, filter audit.Filter) ([]audit.Entry, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if filter.Action != nil && *filter.Action != "" {
		conditions = append(conditions, fmt.Sprintf("action = $%d", argPos))
		args = append(args, *filter.Action)
		argPos++
	}
	if filter.ActorID != nil && *filter.ActorID != "" {
		conditions = append(conditions, fmt.Sprintf("actor_id = $%d", argPos))
		args = append(args, *filter.ActorID)
		argPos++
	}

	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM audit_logs`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count audit entries: %w", err)
	}

	query := `
		SELECT id, action, actor_id, entity, entity_id, success, detail, created_at
		FROM audit_logs` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var e audit.Entry
		if err := rows.Scan(&e.ID, &e.Action, &e.ActorID, &e.Entity, &e.EntityID, &e.Success, &e.Detail, &e.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate audit entries: %w", err)
	}

	return entries, total, nil
}
