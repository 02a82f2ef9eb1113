package leave

import "errors"

var (
	ErrRequestNotFound      = errors.New("leave request not found")
	ErrInsufficientQuota    = errors.New("insufficient leave quota")
	ErrAlreadyProcessed     = errors.New("leave request already processed")
	ErrOverlappingRequest   = errors.New("an overlapping leave request already exists")
	ErrTooManyConsecutive   = errors.New("request exceeds the maximum consecutive leave days")
	ErrInsufficientLeadTime = errors.New("leave must be applied for in advance")
	ErrUnauthorized         = errors.New("unauthorized to access this leave request")
)
