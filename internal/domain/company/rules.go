package company

import (
	"fmt"
	"math"
	"time"

	"github.com/ems-suite/ems-backend-go/internal/pkg/validator"
)

// Attendance status labels shared across the attendance and reporting layers.
const (
	StatusPresent    = "Present"
	StatusLate       = "Late"
	StatusHalfDay    = "Half Day"
	StatusOnBreak    = "On Break"
	StatusClockedOut = "Clocked Out"
	StatusAbsent     = "Absent"
)

// Fallback constants used when an organization has no settings document.
const (
	DefaultWorkStartTime        = "09:00"
	DefaultLateThresholdMinutes = 15
	DefaultGraceTimeMinutes     = 0
)

// StatusResult is the outcome of a status calculation.
type StatusResult struct {
	Status  string `json:"status"`
	Remarks string `json:"remarks"`
}

// IsWithinWorkHours reports whether an "HH:MM" time falls inside the
// configured work window, bounds inclusive. Times are compared as naive
// minutes-of-day; no timezone conversion is performed.
func (s *Settings) IsWithinWorkHours(clock string) bool {
	start, ok := validator.MinuteOfDay(s.Attendance.WorkStartTime)
	if !ok {
		return false
	}
	end, ok := validator.MinuteOfDay(s.Attendance.WorkEndTime)
	if !ok {
		return false
	}
	t, ok := validator.MinuteOfDay(clock)
	if !ok {
		return false
	}
	return t >= start && t <= end
}

// CalculateAttendanceStatus derives the status label and remark for a
// clock-in (and optional clock-out) against this rule set. Pure function:
// identical inputs always produce identical results.
//
// The grace band counts as Present. Both the late and very-late bands carry
// status "Late"; only the remark text distinguishes them. A supplied
// clock-out below the half-day threshold overrides the status to "Half Day"
// even when the clock-in was on time.
func (s *Settings) CalculateAttendanceStatus(clockIn time.Time, clockOut *time.Time) StatusResult {
	return calculateStatus(
		clockIn, clockOut,
		s.Attendance.WorkStartTime,
		s.Attendance.GraceTimeMinutes,
		s.Attendance.LateThresholdMinutes,
		s.Attendance.HalfDayThresholdHours,
	)
}

// CalculateDefaultStatus applies the hard-coded fallback policy (09:00
// start, 15-minute late threshold, no grace period) for organizations
// without a settings document. The Present/Late boundary semantics match
// CalculateAttendanceStatus exactly.
func CalculateDefaultStatus(clockIn time.Time, clockOut *time.Time) StatusResult {
	return calculateStatus(
		clockIn, clockOut,
		DefaultWorkStartTime,
		DefaultGraceTimeMinutes,
		DefaultLateThresholdMinutes,
		0,
	)
}

func calculateStatus(clockIn time.Time, clockOut *time.Time, workStart string, graceMinutes, lateMinutes int, halfDayHours float64) StatusResult {
	startMin, ok := validator.MinuteOfDay(workStart)
	if !ok {
		startMin, _ = validator.MinuteOfDay(DefaultWorkStartTime)
	}

	workStartTime := time.Date(
		clockIn.Year(), clockIn.Month(), clockIn.Day(),
		startMin/60, startMin%60, 0, 0,
		clockIn.Location(),
	)

	graceDeadline := workStartTime.Add(time.Duration(graceMinutes) * time.Minute)
	lateDeadline := workStartTime.Add(time.Duration(lateMinutes) * time.Minute)

	var result StatusResult
	switch {
	case !clockIn.After(graceDeadline):
		result = StatusResult{Status: StatusPresent, Remarks: "On time"}
	case !clockIn.After(lateDeadline):
		minutesLate := int(math.Round(clockIn.Sub(workStartTime).Minutes()))
		result = StatusResult{
			Status:  StatusLate,
			Remarks: fmt.Sprintf("Late by %d minutes", minutesLate),
		}
	default:
		minutesLate := int(math.Round(clockIn.Sub(workStartTime).Minutes()))
		result = StatusResult{
			Status:  StatusLate,
			Remarks: fmt.Sprintf("Very late by %d minutes", minutesLate),
		}
	}

	if clockOut != nil && halfDayHours > 0 {
		workedHours := clockOut.Sub(clockIn).Hours()
		if workedHours < halfDayHours {
			result.Status = StatusHalfDay
			result.Remarks += fmt.Sprintf(" - Insufficient hours (%.2fh)", workedHours)
		}
	}

	return result
}
