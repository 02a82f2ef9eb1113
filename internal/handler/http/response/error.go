package response

import (
	"errors"
	"net/http"

	"github.com/ems-suite/ems-backend-go/internal/domain/announcement"
	"github.com/ems-suite/ems-backend-go/internal/domain/attendance"
	"github.com/ems-suite/ems-backend-go/internal/domain/auth"
	"github.com/ems-suite/ems-backend-go/internal/domain/bugreport"
	"github.com/ems-suite/ems-backend-go/internal/domain/company"
	"github.com/ems-suite/ems-backend-go/internal/domain/leave"
	"github.com/ems-suite/ems-backend-go/internal/domain/notification"
	"github.com/ems-suite/ems-backend-go/internal/domain/team"
	"github.com/ems-suite/ems-backend-go/internal/domain/user"
	"github.com/ems-suite/ems-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrUserNotApproved):
		Forbidden(w, "Account pending approval")
	case errors.Is(err, user.ErrUserAlreadyApproved):
		Conflict(w, "User already approved")
	case errors.Is(err, user.ErrUserInactive):
		Forbidden(w, "Account deactivated")
	case errors.Is(err, user.ErrInvalidRole):
		BadRequest(w, "Invalid role", nil)
	case errors.Is(err, user.ErrAdminAccessRequired),
		errors.Is(err, user.ErrHRAccessRequired),
		errors.Is(err, user.ErrManagerAccessRequired):
		Forbidden(w, err.Error())

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyClockedIn):
		Conflict(w, "Already clocked in today")
	case errors.Is(err, attendance.ErrNotClockedIn):
		BadRequest(w, "Not clocked in today", nil)
	case errors.Is(err, attendance.ErrAlreadyClockedOut):
		Conflict(w, "Already clocked out today")
	case errors.Is(err, attendance.ErrBreakInProgress):
		Conflict(w, "A break is already in progress")
	case errors.Is(err, attendance.ErrNoOpenBreak):
		BadRequest(w, "No break in progress", nil)
	case errors.Is(err, attendance.ErrLocationRequired):
		BadRequest(w, "Location is required for clock-in", nil)
	case errors.Is(err, attendance.ErrRemoteNotAllowed):
		Forbidden(w, "Remote work is not allowed")
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrUnauthorized):
		Forbidden(w, "Not allowed to access this attendance record")

	// Company settings errors
	case errors.Is(err, company.ErrSettingsNotFound):
		NotFound(w, "Company settings not found")
	case errors.Is(err, company.ErrSettingsAlreadyExists):
		Conflict(w, "Company settings already exist")

	// Leave domain errors
	case errors.Is(err, leave.ErrRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrInsufficientQuota):
		BadRequest(w, "Insufficient leave quota", nil)
	case errors.Is(err, leave.ErrAlreadyProcessed):
		Conflict(w, "Leave request already processed")
	case errors.Is(err, leave.ErrOverlappingRequest):
		Conflict(w, "Overlapping leave request exists")
	case errors.Is(err, leave.ErrTooManyConsecutive):
		BadRequest(w, "Too many consecutive leave days", nil)
	case errors.Is(err, leave.ErrInsufficientLeadTime):
		BadRequest(w, "Leave must be requested further in advance", nil)
	case errors.Is(err, leave.ErrUnauthorized):
		Forbidden(w, "Not allowed to access this leave request")

	// Team domain errors
	case errors.Is(err, team.ErrTeamNotFound):
		NotFound(w, "Team not found")
	case errors.Is(err, team.ErrNameExists):
		Conflict(w, "Team name already exists")
	case errors.Is(err, team.ErrAlreadyMember):
		Conflict(w, "User is already a team member")
	case errors.Is(err, team.ErrNotMember):
		NotFound(w, "User is not a team member")

	// Announcement / notification / bug report errors
	case errors.Is(err, announcement.ErrAnnouncementNotFound):
		NotFound(w, "Announcement not found")
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, "Notification not found")
	case errors.Is(err, bugreport.ErrBugReportNotFound):
		NotFound(w, "Bug report not found")
	case errors.Is(err, bugreport.ErrInvalidTransition):
		Conflict(w, "Invalid bug report status transition")

	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
