package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeAttendanceClockIn  NotificationType = "attendance_clock_in"
	TypeAttendanceClockOut NotificationType = "attendance_clock_out"
	TypeAttendanceBreak    NotificationType = "attendance_break"
	TypeLateArrival        NotificationType = "late_arrival"
	TypeMissedClockOut     NotificationType = "missed_clock_out"
	TypeLeaveRequest       NotificationType = "leave_request"
	TypeLeaveApproved      NotificationType = "leave_approved"
	TypeLeaveRejected      NotificationType = "leave_rejected"
	TypeAnnouncement       NotificationType = "announcement"
	TypeAccountApproved    NotificationType = "account_approved"
	TypeBugReportUpdate    NotificationType = "bug_report_update"
)

// Notification represents an in-app notification
type Notification struct {
	ID          string
	RecipientID string
	SenderID    *string
	Type        NotificationType
	Title       string
	Message     string
	Data        map[string]interface{}
	IsRead      bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}
