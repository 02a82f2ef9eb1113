package company

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testSettings() *Settings {
	return &Settings{
		Organization: "acme",
		Attendance: AttendanceRules{
			WorkStartTime:         "09:00",
			WorkEndTime:           "18:00",
			GraceTimeMinutes:      5,
			LateThresholdMinutes:  15,
			HalfDayThresholdHours: 4,
			FullDayRequiredHours:  8,
			WeeklyOffDays:         []int{0, 6},
		},
		Timezone: "UTC",
		IsActive: true,
	}
}

func clockAt(hour, min int) time.Time {
	return time.Date(2024, 3, 11, hour, min, 0, 0, time.UTC)
}

func TestCalculateAttendanceStatus_OnTime(t *testing.T) {
	s := testSettings()

	// Scenario A: grace 5, clock-in 09:04
	result := s.CalculateAttendanceStatus(clockAt(9, 4), nil)
	assert.Equal(t, StatusPresent, result.Status)
	assert.Equal(t, "On time", result.Remarks)

	// Exactly at the grace deadline still counts as present
	result = s.CalculateAttendanceStatus(clockAt(9, 5), nil)
	assert.Equal(t, StatusPresent, result.Status)

	// Early arrivals are present
	result = s.CalculateAttendanceStatus(clockAt(8, 30), nil)
	assert.Equal(t, StatusPresent, result.Status)
	assert.Equal(t, "On time", result.Remarks)
}

func TestCalculateAttendanceStatus_Late(t *testing.T) {
	s := testSettings()

	// Scenario B: clock-in 09:10 -> Late by 10 minutes
	result := s.CalculateAttendanceStatus(clockAt(9, 10), nil)
	assert.Equal(t, StatusLate, result.Status)
	assert.Equal(t, "Late by 10 minutes", result.Remarks)

	// Exactly at the late deadline stays in the "Late by" band
	result = s.CalculateAttendanceStatus(clockAt(9, 15), nil)
	assert.Equal(t, StatusLate, result.Status)
	assert.Equal(t, "Late by 15 minutes", result.Remarks)
}

func TestCalculateAttendanceStatus_VeryLate(t *testing.T) {
	s := testSettings()

	// Scenario C: clock-in 09:30 -> Very late by 30 minutes.
	// The status value is the same "Late" as the prior band.
	result := s.CalculateAttendanceStatus(clockAt(9, 30), nil)
	assert.Equal(t, StatusLate, result.Status)
	assert.Equal(t, "Very late by 30 minutes", result.Remarks)
}

func TestCalculateAttendanceStatus_HalfDayOverride(t *testing.T) {
	s := testSettings()

	// Scenario D: on-time clock-in with only 3.08h worked
	clockIn := clockAt(8, 55)
	clockOut := clockAt(12, 0)
	result := s.CalculateAttendanceStatus(clockIn, &clockOut)
	assert.Equal(t, StatusHalfDay, result.Status)
	assert.Contains(t, result.Remarks, "On time")
	assert.Contains(t, result.Remarks, "Insufficient hours (3.08h)")

	// A late clock-in below the threshold is also overridden
	clockIn = clockAt(9, 30)
	clockOut = clockAt(11, 0)
	result = s.CalculateAttendanceStatus(clockIn, &clockOut)
	assert.Equal(t, StatusHalfDay, result.Status)
	assert.Contains(t, result.Remarks, "Very late by 30 minutes")

	// A full day keeps the clock-in band
	clockIn = clockAt(9, 0)
	clockOut = clockAt(18, 0)
	result = s.CalculateAttendanceStatus(clockIn, &clockOut)
	assert.Equal(t, StatusPresent, result.Status)
}

func TestCalculateAttendanceStatus_Idempotent(t *testing.T) {
	s := testSettings()

	clockIn := clockAt(9, 12)
	first := s.CalculateAttendanceStatus(clockIn, nil)
	second := s.CalculateAttendanceStatus(clockIn, nil)
	assert.Equal(t, first, second)
}

func TestCalculateAttendanceStatus_Bands(t *testing.T) {
	s := testSettings()

	cases := []struct {
		name        string
		minute      int
		wantStatus  string
		wantRemarks string
	}{
		{"well before start", -30, StatusPresent, "On time"},
		{"at start", 0, StatusPresent, "On time"},
		{"inside grace", 3, StatusPresent, "On time"},
		{"grace boundary", 5, StatusPresent, "On time"},
		{"past grace", 6, StatusLate, "Late by 6 minutes"},
		{"late boundary", 15, StatusLate, "Late by 15 minutes"},
		{"past late threshold", 16, StatusLate, "Very late by 16 minutes"},
		{"an hour late", 60, StatusLate, "Very late by 60 minutes"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			clockIn := clockAt(9, 0).Add(time.Duration(c.minute) * time.Minute)
			result := s.CalculateAttendanceStatus(clockIn, nil)
			assert.Equal(t, c.wantStatus, result.Status)
			assert.Equal(t, c.wantRemarks, result.Remarks)
		})
	}
}

func TestCalculateDefaultStatus(t *testing.T) {
	// Scenario E: no settings document; 09:00 start, 15-minute late
	// threshold, no grace period.
	result := CalculateDefaultStatus(clockAt(9, 20), nil)
	assert.Equal(t, StatusLate, result.Status)
	assert.Equal(t, "Very late by 20 minutes", result.Remarks)

	result = CalculateDefaultStatus(clockAt(9, 0), nil)
	assert.Equal(t, StatusPresent, result.Status)

	result = CalculateDefaultStatus(clockAt(9, 10), nil)
	assert.Equal(t, StatusLate, result.Status)
	assert.Equal(t, "Late by 10 minutes", result.Remarks)
}

func TestIsWithinWorkHours(t *testing.T) {
	s := testSettings()

	cases := []struct {
		clock string
		want  bool
	}{
		{"09:00", true},
		{"18:00", true},
		{"12:30", true},
		{"08:59", false},
		{"18:01", false},
		{"garbage", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, s.IsWithinWorkHours(c.clock), "clock %s", c.clock)
	}
}

func TestIsWeeklyOff(t *testing.T) {
	s := testSettings()

	assert.True(t, s.IsWeeklyOff(time.Sunday))
	assert.True(t, s.IsWeeklyOff(time.Saturday))
	assert.False(t, s.IsWeeklyOff(time.Monday))
}

func TestAnnualQuota(t *testing.T) {
	s := testSettings()
	s.Leave = LeaveRules{CasualLeavePerYear: 12, SickLeavePerYear: 10, EarnedLeavePerYear: 15}

	assert.Equal(t, 12, s.AnnualQuota("casual"))
	assert.Equal(t, 10, s.AnnualQuota("sick"))
	assert.Equal(t, 15, s.AnnualQuota("earned"))
	assert.Equal(t, 0, s.AnnualQuota("sabbatical"))
}
