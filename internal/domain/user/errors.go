package user

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailExists         = errors.New("email already registered")
	ErrUserNotApproved     = errors.New("account is pending approval")
	ErrUserAlreadyApproved = errors.New("account has already been approved")
	ErrUserInactive        = errors.New("account has been deactivated")
	ErrInvalidRole         = errors.New("invalid role")

	ErrAdminAccessRequired   = errors.New("admin access required")
	ErrHRAccessRequired      = errors.New("admin or hr access required")
	ErrManagerAccessRequired = errors.New("manager access required")
)
