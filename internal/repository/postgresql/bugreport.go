package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/ems-suite/ems-backend-go/internal/domain/bugreport"
	"github.com/ems-suite/ems-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type bugReportRepositoryImpl struct {
	db *database.DB
}

func NewBugReportRepository(db *database.DB) bugreport.Repository {
	return &bugReportRepositoryImpl{db: db}
}

const bugReportColumns = `
	b.id, b.organization, b.reported_by, b.title, b.description, b.severity,
	b.status, b.admin_notes, b.resolved_by, b.resolved_at, b.created_at, b.updated_at,
	u.name AS reporter_name
`

const bugReportJoins = `
	FROM bug_reports b
	JOIN users u ON u.id = b.reported_by
`

func scanBugReport(row pgx.Row) (bugreport.BugReport, error) {
	var b bugreport.BugReport
	err := row.Scan(
		&b.ID, &b.Organization, &b.ReportedBy, &b.Title, &b.Description, &b.Severity,
		&b.Status, &b.AdminNotes, &b.ResolvedBy, &b.ResolvedAt, &b.CreatedAt, &b.UpdatedAt,
		&b.ReporterName,
	)
	return b, err
}

// Create implements bugreport.Repository.
func (r *bugReportRepositoryImpl) Create(ctx context.Context, b bugreport.BugReport) (bugreport.BugReport, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO bug_reports (organization, reported_by, title, description, severity, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		b.Organization, b.ReportedBy, b.Title, b.Description, b.Severity, b.Status,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)

	if err != nil {
		return bugreport.BugReport{}, fmt.Errorf("failed to create bug report: %w", err)
	}

	return b, nil
}

// GetByID implements bugreport.Repository.
func (r *bugReportRepositoryImpl) GetByID(ctx context.Context, id string) (bugreport.BugReport, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + bugReportColumns + bugReportJoins + ` WHERE b.id = $1`

	b, err := scanBugReport(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return bugreport.BugReport{}, bugreport.ErrBugReportNotFound
		}
		return bugreport.BugReport{}, fmt.Errorf("failed to get bug report: %w", err)
	}
	return b, nil
}

func (r *bugReportRepositoryImpl) list(ctx context.Context, conditions []string, args []interface{}, filter bugreport.BugReportFilter) ([]bugreport.BugReport, int, error) {
	q := GetQuerier(ctx, r.db)

	argPos := len(args) + 1
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("b.status = $%d", argPos))
		args = append(args, filter.Status)
		argPos++
	}
	if filter.Severity != "" {
		conditions = append(conditions, fmt.Sprintf("b.severity = $%d", argPos))
		args = append(args, filter.Severity)
		argPos++
	}

	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int
	countQuery := `SELECT COUNT(*)` + bugReportJoins + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count bug reports: %w", err)
	}

	query := `SELECT ` + bugReportColumns + bugReportJoins + where +
		fmt.Sprintf(" ORDER BY b.created_at DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bug reports: %w", err)
	}
	defer rows.Close()

	var reports []bugreport.BugReport
	for rows.Next() {
		b, err := scanBugReport(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan bug report: %w", err)
		}
		reports = append(reports, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate bug reports: %w", err)
	}

	return reports, total, nil
}

// List implements bugreport.Repository.
func (r *bugReportRepositoryImpl) List(ctx context.Context, organization string, filter bugreport.BugReportFilter) ([]bugreport.BugReport, int, error) {
	return r.list(ctx, []string{"b.organization = $1"}, []interface{}{organization}, filter)
}

// ListByReporter implements bugreport.Repository.
func (r *bugReportRepositoryImpl) ListByReporter(ctx context.Context, reporterID string, filter bugreport.BugReportFilter) ([]bugreport.BugReport, int, error) {
	return r.list(ctx, []string{"b.reported_by = $1"}, []interface{}{reporterID}, filter)
}

// Update implements bugreport.Repository.
func (r *bugReportRepositoryImpl) Update(ctx context.Context, b bugreport.BugReport) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE bug_reports
		SET status = $1, admin_notes = $2, resolved_by = $3, resolved_at = $4,
			updated_at = NOW()
		WHERE id = $5
	`

	tag, err := q.Exec(ctx, query, b.Status, b.AdminNotes, b.ResolvedBy, b.ResolvedAt, b.ID)
	if err != nil {
		return fmt.Errorf("failed to update bug report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return bugreport.ErrBugReportNotFound
	}
	return nil
}
