package bugreport

import "errors"

var (
	ErrBugReportNotFound = errors.New("bug report not found")
	ErrInvalidTransition = errors.New("invalid bug report status transition")
)
