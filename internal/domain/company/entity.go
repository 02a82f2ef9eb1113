package company

import (
	"time"
)

// Location policy values stored on attendance records
const (
	LocationOffice = "Office"
	LocationRemote = "Remote"
)

// FlexibleStartRange bounds the window in which flexible-timing employees
// may start their day.
type FlexibleStartRange struct {
	Earliest string // "HH:MM"
	Latest   string // "HH:MM"
}

// AttendanceRules holds the per-organization clock-in policy.
type AttendanceRules struct {
	WorkStartTime             string // "HH:MM"
	WorkEndTime               string // "HH:MM"
	LateThresholdMinutes      int    // 0-120
	GraceTimeMinutes          int    // 0-60
	HalfDayThresholdHours     float64
	FullDayRequiredHours      float64
	WeeklyOffDays             []int // 0=Sunday .. 6=Saturday
	AllowFlexibleTiming       bool
	FlexibleStartRange        FlexibleStartRange
	AutoClockOutTime          string // "HH:MM", empty disables the job
	AllowRemoteWork           bool
	RequireLocationForClockIn bool
}

// LeaveRules holds annual quotas and application constraints.
type LeaveRules struct {
	CasualLeavePerYear       int
	SickLeavePerYear         int
	EarnedLeavePerYear       int
	MaxConsecutiveLeaveDays  int
	LeaveApplicationLeadDays int
}

// NotificationPrefs controls which automated alerts fire.
type NotificationPrefs struct {
	NotifyOnLateArrival    bool
	NotifyOnMissedClockOut bool
	DailyReportTime        string // "HH:MM"
}

// Settings is the policy document governing attendance and leave for every
// employee tagged with Organization. At most one active document exists per
// organization (unique partial index).
type Settings struct {
	ID           string
	Organization string
	Attendance   AttendanceRules
	Leave        LeaveRules
	Notification NotificationPrefs
	Timezone     string
	IsActive     bool
	CreatedBy    *string
	UpdatedBy    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Location resolves the timezone of the organization, falling back to UTC.
func (s *Settings) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// AnnualQuota returns the yearly allowance for a leave type, or 0 for an
// unknown type.
func (s *Settings) AnnualQuota(leaveType string) int {
	switch leaveType {
	case "casual":
		return s.Leave.CasualLeavePerYear
	case "sick":
		return s.Leave.SickLeavePerYear
	case "earned":
		return s.Leave.EarnedLeavePerYear
	}
	return 0
}

// IsWeeklyOff reports whether the given weekday is a configured off day.
func (s *Settings) IsWeeklyOff(weekday time.Weekday) bool {
	for _, d := range s.Attendance.WeeklyOffDays {
		if d == int(weekday) {
			return true
		}
	}
	return false
}
