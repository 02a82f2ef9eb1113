package fixtures

import (
	"github.com/ems-suite/ems-backend-go/internal/domain/company"
)

// DefaultSettings returns the rule set applied to an organization before an
// admin saves its own document. Attendance math falls back to these same
// values, so a fresh organization behaves identically before and after the
// defaults are persisted.
func DefaultSettings(organization string) company.Settings {
	return company.Settings{
		Organization: organization,
		Attendance: company.AttendanceRules{
			WorkStartTime:         company.DefaultWorkStartTime,
			WorkEndTime:           "18:00",
			LateThresholdMinutes:  company.DefaultLateThresholdMinutes,
			GraceTimeMinutes:      company.DefaultGraceTimeMinutes,
			HalfDayThresholdHours: 4,
			FullDayRequiredHours:  8,
			WeeklyOffDays:         []int{0, 6},
			AllowFlexibleTiming:   false,
			FlexibleStartRange: company.FlexibleStartRange{
				Earliest: "07:00",
				Latest:   "10:00",
			},
			AutoClockOutTime:          "",
			AllowRemoteWork:           true,
			RequireLocationForClockIn: false,
		},
		Leave: company.LeaveRules{
			CasualLeavePerYear:       12,
			SickLeavePerYear:         10,
			EarnedLeavePerYear:       15,
			MaxConsecutiveLeaveDays:  15,
			LeaveApplicationLeadDays: 0,
		},
		Notification: company.NotificationPrefs{
			NotifyOnLateArrival:    true,
			NotifyOnMissedClockOut: true,
			DailyReportTime:        "18:30",
		},
		Timezone: "UTC",
		IsActive: true,
	}
}
