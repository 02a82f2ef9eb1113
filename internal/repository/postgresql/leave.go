package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ems-suite/ems-backend-go/internal/domain/leave"
	"github.com/ems-suite/ems-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.Repository {
	return &leaveRepositoryImpl{db: db}
}

const leaveColumns = `
	lr.id, lr.employee_id, lr.type, lr.start_date, lr.end_date, lr.days,
	lr.reason, lr.status, lr.reviewed_by, lr.reviewed_at, lr.review_comment,
	lr.created_at, lr.updated_at,
	e.name AS employee_name, rv.name AS reviewer_name
`

const leaveJoins = `
	FROM leave_requests lr
	JOIN users e ON e.id = lr.employee_id
	LEFT JOIN users rv ON rv.id = lr.reviewed_by
`

func scanLeaveRequest(row pgx.Row) (leave.Request, error) {
	var lr leave.Request
	err := row.Scan(
		&lr.ID, &lr.EmployeeID, &lr.Type, &lr.StartDate, &lr.EndDate, &lr.Days,
		&lr.Reason, &lr.Status, &lr.ReviewedBy, &lr.ReviewedAt, &lr.ReviewComment,
		&lr.CreatedAt, &lr.UpdatedAt,
		&lr.EmployeeName, &lr.ReviewerName,
	)
	return lr, err
}

// Create implements leave.Repository.
func (r *leaveRepositoryImpl) Create(ctx context.Context, req leave.Request) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			employee_id, type, start_date, end_date, days, reason, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		req.EmployeeID,
		req.Type,
		req.StartDate,
		req.EndDate,
		req.Days,
		req.Reason,
		req.Status,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)

	if err != nil {
		return leave.Request{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return req, nil
}

// GetByID implements leave.Repository.
func (r *leaveRepositoryImpl) GetByID(ctx context.Context, id string) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveColumns + leaveJoins + ` WHERE lr.id = $1`

	lr, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.Request{}, leave.ErrRequestNotFound
		}
		return leave.Request{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return lr, nil
}

// Update implements leave.Repository.
func (r *leaveRepositoryImpl) Update(ctx context.Context, req leave.Request) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $1, reviewed_by = $2, reviewed_at = $3, review_comment = $4,
			updated_at = NOW()
		WHERE id = $5
	`

	tag, err := q.Exec(ctx, query,
		req.Status, req.ReviewedBy, req.ReviewedAt, req.ReviewComment, req.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update leave request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrRequestNotFound
	}
	return nil
}

func buildLeaveFilter(base []string, args []interface{}, filter leave.RequestFilter) ([]string, []interface{}, int) {
	argPos := len(args) + 1
	conditions := base

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("lr.employee_id = $%d", argPos))
		args = append(args, *filter.EmployeeID)
		argPos++
	}
	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("lr.status = $%d", argPos))
		args = append(args, *filter.Status)
		argPos++
	}
	if filter.Type != nil && *filter.Type != "" {
		conditions = append(conditions, fmt.Sprintf("lr.type = $%d", argPos))
		args = append(args, *filter.Type)
		argPos++
	}
	return conditions, args, argPos
}

func (r *leaveRepositoryImpl) list(ctx context.Context, conditions []string, args []interface{}, argPos int, filter leave.RequestFilter) ([]leave.Request, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM leave_requests lr JOIN users e ON e.id = lr.employee_id` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave requests: %w", err)
	}

	query := `SELECT ` + leaveColumns + leaveJoins + where +
		fmt.Sprintf(" ORDER BY lr.created_at DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.Request
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, lr)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate leave requests: %w", err)
	}

	return requests, total, nil
}

// List implements leave.Repository.
func (r *leaveRepositoryImpl) List(ctx context.Context, organization string, filter leave.RequestFilter) ([]leave.Request, int64, error) {
	conditions, args, argPos := buildLeaveFilter(
		[]string{"e.organization = $1"},
		[]interface{}{organization},
		filter,
	)
	return r.list(ctx, conditions, args, argPos, filter)
}

// ListByEmployee implements leave.Repository.
func (r *leaveRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, filter leave.RequestFilter) ([]leave.Request, int64, error) {
	conditions, args, argPos := buildLeaveFilter(
		[]string{"lr.employee_id = $1"},
		[]interface{}{employeeID},
		filter,
	)
	return r.list(ctx, conditions, args, argPos, filter)
}

// HasOverlap implements leave.Repository.
func (r *leaveRepositoryImpl) HasOverlap(ctx context.Context, employeeID string, start, end time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS(
			SELECT 1 FROM leave_requests
			WHERE employee_id = $1
			  AND status IN ('pending', 'approved')
			  AND start_date <= $3
			  AND end_date >= $2
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, start, end).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check leave overlap: %w", err)
	}
	return exists, nil
}

// UsedDays implements leave.Repository.
func (r *leaveRepositoryImpl) UsedDays(ctx context.Context, employeeID string, leaveType leave.LeaveType, yearStart, yearEnd time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(days), 0)
		FROM leave_requests
		WHERE employee_id = $1
		  AND type = $2
		  AND status = 'approved'
		  AND start_date >= $3
		  AND start_date <= $4
	`

	var used int
	if err := q.QueryRow(ctx, query, employeeID, leaveType, yearStart, yearEnd).Scan(&used); err != nil {
		return 0, fmt.Errorf("failed to sum used leave days: %w", err)
	}
	return used, nil
}
