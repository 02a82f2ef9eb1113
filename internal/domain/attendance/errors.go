package attendance

import "errors"

var (
	// Transition errors
	ErrAlreadyClockedIn  = errors.New("you have already clocked in today")
	ErrNotClockedIn      = errors.New("you have not clocked in yet")
	ErrAlreadyClockedOut = errors.New("you have already clocked out today")
	ErrBreakInProgress   = errors.New("a break is already in progress")
	ErrNoOpenBreak       = errors.New("no break is in progress")
	ErrLocationRequired  = errors.New("location is required to clock in")
	ErrRemoteNotAllowed  = errors.New("remote clock-in is not allowed for this organization")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrUnauthorized       = errors.New("unauthorized to access this attendance record")
)
