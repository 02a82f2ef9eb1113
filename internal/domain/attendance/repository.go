package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access for daily records. The
// (employee_id, date) pair is the natural key: Create surfaces a duplicate
// day as ErrAlreadyClockedIn via the unique constraint, so concurrent
// clock-ins cannot both commit.
type AttendanceRepository interface {
	Create(ctx context.Context, a Attendance) (Attendance, error)

	// GetByEmployeeAndDate loads the record (with breaks) for one day, or
	// nil when the employee has not clocked in.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	GetByID(ctx context.Context, id string) (Attendance, error)

	// Update persists clock-out, status, remarks and notes.
	Update(ctx context.Context, a Attendance) error

	// AddBreak appends a break interval to a record.
	AddBreak(ctx context.Context, b Break) (Break, error)

	// CloseBreak sets the end time of an open break.
	CloseBreak(ctx context.Context, breakID string, end time.Time) error

	// List returns the organization's records (with breaks) restricted to
	// the given employee ids; an empty restriction means no restriction.
	List(ctx context.Context, organization string, filter AttendanceFilter, employeeIDs []string) ([]Attendance, int64, error)

	// ListRange returns one employee's records between two dates inclusive,
	// ordered by date.
	ListRange(ctx context.Context, employeeID string, start, end time.Time) ([]Attendance, error)

	// ListAll joins employee details for the organization-wide dashboard.
	ListAll(ctx context.Context, organization string, filter AllAttendanceFilter) ([]Attendance, int64, error)

	// ListOpenSessions returns records with a clock-in but no clock-out for
	// the organization on the given date. Used by the auto clock-out and
	// missed-clock-out jobs.
	ListOpenSessions(ctx context.Context, organization string, date time.Time) ([]Attendance, error)
}

// AttendanceService defines the daily-record state machine and read side.
type AttendanceService interface {
	ClockIn(ctx context.Context, req ClockInRequest) (AttendanceResponse, error)
	ClockOut(ctx context.Context, req ClockOutRequest) (AttendanceResponse, error)
	StartBreak(ctx context.Context, req StartBreakRequest) (AttendanceResponse, error)
	EndBreak(ctx context.Context) (AttendanceResponse, error)

	GetToday(ctx context.Context) (TodayResponse, error)
	List(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)
	GetStats(ctx context.Context, employeeID *string, periodDays int) (StatsResponse, error)
	GetHistory(ctx context.Context, month, year int) (HistoryResponse, error)
	ListAll(ctx context.Context, filter AllAttendanceFilter) (ListAttendanceResponse, error)
}
