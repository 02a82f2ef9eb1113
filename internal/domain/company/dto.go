package company

import (
	"time"

	"github.com/ems-suite/ems-backend-go/internal/pkg/validator"
)

// UpsertSettingsRequest is the allow-listed shape for creating or replacing
// an organization's settings document. Fields absent from the request keep
// their defaults; arbitrary fields are never merged onto the document.
type UpsertSettingsRequest struct {
	WorkStartTime             string   `json:"work_start_time"`
	WorkEndTime               string   `json:"work_end_time"`
	LateThresholdMinutes      int      `json:"late_threshold_minutes"`
	GraceTimeMinutes          int      `json:"grace_time_minutes"`
	HalfDayThresholdHours     float64  `json:"half_day_threshold_hours"`
	FullDayRequiredHours      float64  `json:"full_day_required_hours"`
	WeeklyOffDays             []int    `json:"weekly_off_days"`
	AllowFlexibleTiming       bool     `json:"allow_flexible_timing"`
	FlexibleStartEarliest     string   `json:"flexible_start_earliest,omitempty"`
	FlexibleStartLatest       string   `json:"flexible_start_latest,omitempty"`
	AutoClockOutTime          string   `json:"auto_clock_out_time,omitempty"`
	AllowRemoteWork           bool     `json:"allow_remote_work"`
	RequireLocationForClockIn bool     `json:"require_location_for_clock_in"`
	CasualLeavePerYear        int      `json:"casual_leave_per_year"`
	SickLeavePerYear          int      `json:"sick_leave_per_year"`
	EarnedLeavePerYear        int      `json:"earned_leave_per_year"`
	MaxConsecutiveLeaveDays   int      `json:"max_consecutive_leave_days"`
	LeaveApplicationLeadDays  int      `json:"leave_application_lead_days"`
	NotifyOnLateArrival       bool     `json:"notify_on_late_arrival"`
	NotifyOnMissedClockOut    bool     `json:"notify_on_missed_clock_out"`
	DailyReportTime           string   `json:"daily_report_time,omitempty"`
	Timezone                  string   `json:"timezone,omitempty"`
}

func (r *UpsertSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidClockTime(r.WorkStartTime) {
		errs = append(errs, validator.ValidationError{Field: "work_start_time", Message: "must be a valid HH:MM time"})
	}
	if !validator.IsValidClockTime(r.WorkEndTime) {
		errs = append(errs, validator.ValidationError{Field: "work_end_time", Message: "must be a valid HH:MM time"})
	}
	if r.LateThresholdMinutes < 0 || r.LateThresholdMinutes > 120 {
		errs = append(errs, validator.ValidationError{Field: "late_threshold_minutes", Message: "must be between 0 and 120"})
	}
	if r.GraceTimeMinutes < 0 || r.GraceTimeMinutes > 60 {
		errs = append(errs, validator.ValidationError{Field: "grace_time_minutes", Message: "must be between 0 and 60"})
	}
	if r.HalfDayThresholdHours < 1 || r.HalfDayThresholdHours > 8 {
		errs = append(errs, validator.ValidationError{Field: "half_day_threshold_hours", Message: "must be between 1 and 8"})
	}
	if r.FullDayRequiredHours < 4 || r.FullDayRequiredHours > 12 {
		errs = append(errs, validator.ValidationError{Field: "full_day_required_hours", Message: "must be between 4 and 12"})
	}
	for _, d := range r.WeeklyOffDays {
		if !validator.IsValidWeekday(d) {
			errs = append(errs, validator.ValidationError{Field: "weekly_off_days", Message: "weekdays must be between 0 (Sunday) and 6 (Saturday)"})
			break
		}
	}
	if r.AllowFlexibleTiming {
		if !validator.IsValidClockTime(r.FlexibleStartEarliest) {
			errs = append(errs, validator.ValidationError{Field: "flexible_start_earliest", Message: "must be a valid HH:MM time"})
		}
		if !validator.IsValidClockTime(r.FlexibleStartLatest) {
			errs = append(errs, validator.ValidationError{Field: "flexible_start_latest", Message: "must be a valid HH:MM time"})
		}
	}
	if r.AutoClockOutTime != "" && !validator.IsValidClockTime(r.AutoClockOutTime) {
		errs = append(errs, validator.ValidationError{Field: "auto_clock_out_time", Message: "must be a valid HH:MM time"})
	}
	if r.DailyReportTime != "" && !validator.IsValidClockTime(r.DailyReportTime) {
		errs = append(errs, validator.ValidationError{Field: "daily_report_time", Message: "must be a valid HH:MM time"})
	}
	if r.CasualLeavePerYear < 0 || r.SickLeavePerYear < 0 || r.EarnedLeavePerYear < 0 {
		errs = append(errs, validator.ValidationError{Field: "leave_quotas", Message: "annual quotas must not be negative"})
	}
	if r.Timezone != "" {
		if _, err := time.LoadLocation(r.Timezone); err != nil {
			errs = append(errs, validator.ValidationError{Field: "timezone", Message: "unknown timezone"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToSettings builds a Settings document for the given organization.
func (r *UpsertSettingsRequest) ToSettings(organization string) Settings {
	timezone := r.Timezone
	if timezone == "" {
		timezone = "UTC"
	}
	weeklyOff := r.WeeklyOffDays
	if weeklyOff == nil {
		weeklyOff = []int{0, 6}
	}

	return Settings{
		Organization: organization,
		Attendance: AttendanceRules{
			WorkStartTime:         r.WorkStartTime,
			WorkEndTime:           r.WorkEndTime,
			LateThresholdMinutes:  r.LateThresholdMinutes,
			GraceTimeMinutes:      r.GraceTimeMinutes,
			HalfDayThresholdHours: r.HalfDayThresholdHours,
			FullDayRequiredHours:  r.FullDayRequiredHours,
			WeeklyOffDays:         weeklyOff,
			AllowFlexibleTiming:   r.AllowFlexibleTiming,
			FlexibleStartRange: FlexibleStartRange{
				Earliest: r.FlexibleStartEarliest,
				Latest:   r.FlexibleStartLatest,
			},
			AutoClockOutTime:          r.AutoClockOutTime,
			AllowRemoteWork:           r.AllowRemoteWork,
			RequireLocationForClockIn: r.RequireLocationForClockIn,
		},
		Leave: LeaveRules{
			CasualLeavePerYear:       r.CasualLeavePerYear,
			SickLeavePerYear:         r.SickLeavePerYear,
			EarnedLeavePerYear:       r.EarnedLeavePerYear,
			MaxConsecutiveLeaveDays:  r.MaxConsecutiveLeaveDays,
			LeaveApplicationLeadDays: r.LeaveApplicationLeadDays,
		},
		Notification: NotificationPrefs{
			NotifyOnLateArrival:    r.NotifyOnLateArrival,
			NotifyOnMissedClockOut: r.NotifyOnMissedClockOut,
			DailyReportTime:        r.DailyReportTime,
		},
		Timezone: timezone,
		IsActive: true,
	}
}

// TestRulesRequest drives the what-if endpoint: it evaluates the calculator
// against an arbitrary clock-in/out pair without touching any record.
type TestRulesRequest struct {
	ClockInTime  string  `json:"clock_in_time"`            // RFC3339 or "HH:MM"
	ClockOutTime *string `json:"clock_out_time,omitempty"` // RFC3339 or "HH:MM"
}

func (r *TestRulesRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ClockInTime) {
		errs = append(errs, validator.ValidationError{Field: "clock_in_time", Message: "clock_in_time is required"})
	} else if !validator.IsValidClockTime(r.ClockInTime) {
		if _, ok := validator.IsValidDateTime(r.ClockInTime); !ok {
			errs = append(errs, validator.ValidationError{Field: "clock_in_time", Message: "must be an RFC3339 timestamp or HH:MM time"})
		}
	}

	if r.ClockOutTime != nil && !validator.IsValidClockTime(*r.ClockOutTime) {
		if _, ok := validator.IsValidDateTime(*r.ClockOutTime); !ok {
			errs = append(errs, validator.ValidationError{Field: "clock_out_time", Message: "must be an RFC3339 timestamp or HH:MM time"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TestRulesResponse struct {
	Status            string `json:"status"`
	Remarks           string `json:"remarks"`
	IsWithinWorkHours bool   `json:"is_within_work_hours"`
	UsingDefaults     bool   `json:"using_defaults"`
}

type SettingsResponse struct {
	ID                        string   `json:"id"`
	Organization              string   `json:"organization"`
	WorkStartTime             string   `json:"work_start_time"`
	WorkEndTime               string   `json:"work_end_time"`
	LateThresholdMinutes      int      `json:"late_threshold_minutes"`
	GraceTimeMinutes          int      `json:"grace_time_minutes"`
	HalfDayThresholdHours     float64  `json:"half_day_threshold_hours"`
	FullDayRequiredHours      float64  `json:"full_day_required_hours"`
	WeeklyOffDays             []int    `json:"weekly_off_days"`
	AllowFlexibleTiming       bool     `json:"allow_flexible_timing"`
	FlexibleStartEarliest     string   `json:"flexible_start_earliest,omitempty"`
	FlexibleStartLatest       string   `json:"flexible_start_latest,omitempty"`
	AutoClockOutTime          string   `json:"auto_clock_out_time,omitempty"`
	AllowRemoteWork           bool     `json:"allow_remote_work"`
	RequireLocationForClockIn bool     `json:"require_location_for_clock_in"`
	CasualLeavePerYear        int      `json:"casual_leave_per_year"`
	SickLeavePerYear          int      `json:"sick_leave_per_year"`
	EarnedLeavePerYear        int      `json:"earned_leave_per_year"`
	MaxConsecutiveLeaveDays   int      `json:"max_consecutive_leave_days"`
	LeaveApplicationLeadDays  int      `json:"leave_application_lead_days"`
	NotifyOnLateArrival       bool     `json:"notify_on_late_arrival"`
	NotifyOnMissedClockOut    bool     `json:"notify_on_missed_clock_out"`
	DailyReportTime           string   `json:"daily_report_time,omitempty"`
	Timezone                  string   `json:"timezone"`
	IsDefault                 bool     `json:"is_default"`
	UpdatedAt                 string   `json:"updated_at,omitempty"`
}

// ToResponse maps a Settings document to its API shape.
func ToResponse(s Settings, isDefault bool) SettingsResponse {
	resp := SettingsResponse{
		ID:                        s.ID,
		Organization:              s.Organization,
		WorkStartTime:             s.Attendance.WorkStartTime,
		WorkEndTime:               s.Attendance.WorkEndTime,
		LateThresholdMinutes:      s.Attendance.LateThresholdMinutes,
		GraceTimeMinutes:          s.Attendance.GraceTimeMinutes,
		HalfDayThresholdHours:     s.Attendance.HalfDayThresholdHours,
		FullDayRequiredHours:      s.Attendance.FullDayRequiredHours,
		WeeklyOffDays:             s.Attendance.WeeklyOffDays,
		AllowFlexibleTiming:       s.Attendance.AllowFlexibleTiming,
		FlexibleStartEarliest:     s.Attendance.FlexibleStartRange.Earliest,
		FlexibleStartLatest:       s.Attendance.FlexibleStartRange.Latest,
		AutoClockOutTime:          s.Attendance.AutoClockOutTime,
		AllowRemoteWork:           s.Attendance.AllowRemoteWork,
		RequireLocationForClockIn: s.Attendance.RequireLocationForClockIn,
		CasualLeavePerYear:        s.Leave.CasualLeavePerYear,
		SickLeavePerYear:          s.Leave.SickLeavePerYear,
		EarnedLeavePerYear:        s.Leave.EarnedLeavePerYear,
		MaxConsecutiveLeaveDays:   s.Leave.MaxConsecutiveLeaveDays,
		LeaveApplicationLeadDays:  s.Leave.LeaveApplicationLeadDays,
		NotifyOnLateArrival:       s.Notification.NotifyOnLateArrival,
		NotifyOnMissedClockOut:    s.Notification.NotifyOnMissedClockOut,
		DailyReportTime:           s.Notification.DailyReportTime,
		Timezone:                  s.Timezone,
		IsDefault:                 isDefault,
	}
	if !s.UpdatedAt.IsZero() {
		resp.UpdatedAt = s.UpdatedAt.Format("2006-01-02 15:04:05")
	}
	return resp
}
