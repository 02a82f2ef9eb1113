package attendance

import (
	"time"

	"github.com/ems-suite/ems-backend-go/internal/domain/company"
)

// Break is one interval inside a daily record. At most one break per record
// may have a nil EndTime (the open break).
type Break struct {
	ID           string
	AttendanceID string
	StartTime    time.Time
	EndTime      *time.Time
	Reason       *string
}

// Attendance is the daily record for one employee. Identity is the
// composite (EmployeeID, Date) key; Date is normalized to midnight in the
// organization's timezone.
type Attendance struct {
	ID           string
	EmployeeID   string
	Organization string
	Date         time.Time
	ClockIn      *time.Time
	ClockOut     *time.Time
	Breaks       []Break
	Status       string
	Remarks      *string
	LocationType string
	Latitude     *float64
	Longitude    *float64
	Address      *string
	Notes        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Joined fields
	EmployeeName       *string
	EmployeeDepartment *string
}

// OpenBreak returns the break without an end time, or nil.
func (a *Attendance) OpenBreak() *Break {
	for i := len(a.Breaks) - 1; i >= 0; i-- {
		if a.Breaks[i].EndTime == nil {
			return &a.Breaks[i]
		}
	}
	return nil
}

// PreBreakStatus returns the status a record reverts to when its open break
// ends: Clocked Out if the session already closed, otherwise the band the
// clock-in earned.
func (a *Attendance) PreBreakStatus(settings *company.Settings) string {
	if a.ClockOut != nil {
		return company.StatusClockedOut
	}
	if a.ClockIn == nil {
		return company.StatusAbsent
	}
	if settings != nil {
		return settings.CalculateAttendanceStatus(*a.ClockIn, nil).Status
	}
	return company.CalculateDefaultStatus(*a.ClockIn, nil).Status
}

// TotalBreakMinutes sums all break intervals; an open break counts up to
// asOf.
func (a *Attendance) TotalBreakMinutes(asOf time.Time) int {
	total := 0.0
	for _, b := range a.Breaks {
		end := asOf
		if b.EndTime != nil {
			end = *b.EndTime
		}
		if end.After(b.StartTime) {
			total += end.Sub(b.StartTime).Minutes()
		}
	}
	return int(total)
}

// TotalWorkMinutes is the clocked duration minus breaks; an open session
// counts up to asOf.
func (a *Attendance) TotalWorkMinutes(asOf time.Time) int {
	if a.ClockIn == nil {
		return 0
	}
	end := asOf
	if a.ClockOut != nil {
		end = *a.ClockOut
	}
	if !end.After(*a.ClockIn) {
		return 0
	}
	worked := int(end.Sub(*a.ClockIn).Minutes()) - a.TotalBreakMinutes(asOf)
	if worked < 0 {
		return 0
	}
	return worked
}

// Action flags consumed by the today endpoint.

func (a *Attendance) CanClockIn() bool {
	return a == nil || a.ClockIn == nil
}

func (a *Attendance) CanClockOut() bool {
	return a != nil && a.ClockIn != nil && a.ClockOut == nil
}

func (a *Attendance) CanStartBreak() bool {
	return a.CanClockOut() && a.OpenBreak() == nil
}

func (a *Attendance) CanEndBreak() bool {
	return a != nil && a.OpenBreak() != nil && a.ClockOut == nil
}
