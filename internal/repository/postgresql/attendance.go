package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ems-suite/ems-backend-go/internal/domain/attendance"
	"github.com/ems-suite/ems-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

const attendanceColumns = `
	a.id, a.employee_id, a.organization, a.date, a.clock_in, a.clock_out,
	a.status, a.remarks, a.location_type, a.latitude, a.longitude, a.address,
	a.notes, a.created_at, a.updated_at
`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := row.Scan(
		&att.ID, &att.EmployeeID, &att.Organization, &att.Date, &att.ClockIn, &att.ClockOut,
		&att.Status, &att.Remarks, &att.LocationType, &att.Latitude, &att.Longitude, &att.Address,
		&att.Notes, &att.CreatedAt, &att.UpdatedAt,
	)
	return att, err
}

// loadBreaks attaches break intervals to the given records in one query.
func (r *attendanceRepositoryImpl) loadBreaks(ctx context.Context, records []attendance.Attendance) error {
	if len(records) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	ids := make([]string, len(records))
	index := make(map[string]int, len(records))
	for i, rec := range records {
		ids[i] = rec.ID
		index[rec.ID] = i
	}

	query := `
		SELECT id, attendance_id, start_time, end_time, reason
		FROM attendance_breaks
		WHERE attendance_id = ANY($1)
		ORDER BY start_time ASC
	`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to load breaks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var b attendance.Break
		if err := rows.Scan(&b.ID, &b.AttendanceID, &b.StartTime, &b.EndTime, &b.Reason); err != nil {
			return fmt.Errorf("failed to scan break: %w", err)
		}
		if i, ok := index[b.AttendanceID]; ok {
			records[i].Breaks = append(records[i].Breaks, b)
		}
	}
	return rows.Err()
}

// Create implements attendance.AttendanceRepository. The unique
// (employee_id, date) constraint turns a concurrent duplicate clock-in into
// ErrAlreadyClockedIn instead of a second row.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (
			employee_id, organization, date, clock_in, status, remarks,
			location_type, latitude, longitude, address
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		a.EmployeeID,
		a.Organization,
		a.Date,
		a.ClockIn,
		a.Status,
		a.Remarks,
		a.LocationType,
		a.Latitude,
		a.Longitude,
		a.Address,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return attendance.Attendance{}, attendance.ErrAlreadyClockedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return a, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.employee_id = $1 AND a.date = $2
		LIMIT 1
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}

	records := []attendance.Attendance{att}
	if err := r.loadBreaks(ctx, records); err != nil {
		return nil, err
	}
	return &records[0], nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.id = $1
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by id: %w", err)
	}

	records := []attendance.Attendance{att}
	if err := r.loadBreaks(ctx, records); err != nil {
		return attendance.Attendance{}, err
	}
	return records[0], nil
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Update(ctx context.Context, a attendance.Attendance) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances
		SET clock_out = $1, status = $2, remarks = $3, notes = $4, updated_at = NOW()
		WHERE id = $5
	`

	tag, err := q.Exec(ctx, query, a.ClockOut, a.Status, a.Remarks, a.Notes, a.ID)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// AddBreak implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) AddBreak(ctx context.Context, b attendance.Break) (attendance.Break, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_breaks (attendance_id, start_time, reason)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := q.QueryRow(ctx, query, b.AttendanceID, b.StartTime, b.Reason).Scan(&b.ID)
	if err != nil {
		return attendance.Break{}, fmt.Errorf("failed to add break: %w", err)
	}
	return b, nil
}

// CloseBreak implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) CloseBreak(ctx context.Context, breakID string, end time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_breaks
		SET end_time = $1
		WHERE id = $2 AND end_time IS NULL
	`

	tag, err := q.Exec(ctx, query, end, breakID)
	if err != nil {
		return fmt.Errorf("failed to close break: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrNoOpenBreak
	}
	return nil
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, organization string, filter attendance.AttendanceFilter, employeeIDs []string) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"a.organization = $1"}
	args := []interface{}{organization}
	argPos := 2

	if len(employeeIDs) > 0 {
		conditions = append(conditions, fmt.Sprintf("a.employee_id = ANY($%d)", argPos))
		args = append(args, employeeIDs)
		argPos++
	}
	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("a.employee_id = $%d", argPos))
		args = append(args, *filter.EmployeeID)
		argPos++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		conditions = append(conditions, fmt.Sprintf("a.date >= $%d", argPos))
		args = append(args, *filter.StartDate)
		argPos++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		conditions = append(conditions, fmt.Sprintf("a.date <= $%d", argPos))
		args = append(args, *filter.EndDate)
		argPos++
	}
	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", argPos))
		args = append(args, *filter.Status)
		argPos++
	}

	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM attendances a` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	query := `SELECT ` + attendanceColumns + ` FROM attendances a` + where +
		fmt.Sprintf(" ORDER BY a.date DESC, a.clock_in DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, att)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate attendances: %w", err)
	}

	if err := r.loadBreaks(ctx, records); err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// ListRange implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListRange(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.employee_id = $1 AND a.date >= $2 AND a.date <= $3
		ORDER BY a.date ASC
	`

	rows, err := q.Query(ctx, query, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance range: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance range: %w", err)
	}

	if err := r.loadBreaks(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}

// ListAll implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListAll(ctx context.Context, organization string, filter attendance.AllAttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"a.organization = $1"}
	args := []interface{}{organization}
	argPos := 2

	if filter.StartDate != nil && *filter.StartDate != "" {
		conditions = append(conditions, fmt.Sprintf("a.date >= $%d", argPos))
		args = append(args, *filter.StartDate)
		argPos++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		conditions = append(conditions, fmt.Sprintf("a.date <= $%d", argPos))
		args = append(args, *filter.EndDate)
		argPos++
	}
	if filter.Department != nil && *filter.Department != "" {
		conditions = append(conditions, fmt.Sprintf("u.department = $%d", argPos))
		args = append(args, *filter.Department)
		argPos++
	}
	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", argPos))
		args = append(args, *filter.Status)
		argPos++
	}

	where := " WHERE " + strings.Join(conditions, " AND ")
	join := ` FROM attendances a JOIN users u ON u.id = a.employee_id`

	var total int64
	countQuery := `SELECT COUNT(*)` + join + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count all attendances: %w", err)
	}

	query := `SELECT ` + attendanceColumns + `, u.name, u.department` + join + where +
		fmt.Sprintf(" ORDER BY a.date DESC, u.name ASC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list all attendances: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		var att attendance.Attendance
		err := rows.Scan(
			&att.ID, &att.EmployeeID, &att.Organization, &att.Date, &att.ClockIn, &att.ClockOut,
			&att.Status, &att.Remarks, &att.LocationType, &att.Latitude, &att.Longitude, &att.Address,
			&att.Notes, &att.CreatedAt, &att.UpdatedAt,
			&att.EmployeeName, &att.EmployeeDepartment,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, att)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate all attendances: %w", err)
	}

	if err := r.loadBreaks(ctx, records); err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// ListOpenSessions implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListOpenSessions(ctx context.Context, organization string, date time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.organization = $1
		  AND a.date = $2
		  AND a.clock_in IS NOT NULL
		  AND a.clock_out IS NULL
	`

	rows, err := q.Query(ctx, query, organization, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list open sessions: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan open session: %w", err)
		}
		records = append(records, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate open sessions: %w", err)
	}

	if err := r.loadBreaks(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}
