package leave

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/ems-suite/ems-backend-go/internal/domain/audit"
	"github.com/ems-suite/ems-backend-go/internal/domain/company"
	"github.com/ems-suite/ems-backend-go/internal/domain/leave"
	"github.com/ems-suite/ems-backend-go/internal/domain/notification"
	"github.com/ems-suite/ems-backend-go/internal/domain/user"
	"github.com/ems-suite/ems-backend-go/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
)

type LeaveServiceImpl struct {
	leaveRepo       leave.Repository
	userRepo        user.UserRepository
	auditRepo       audit.Repository
	settingsService company.SettingsService
	notificator     notification.Service
}

func NewLeaveService(
	leaveRepo leave.Repository,
	userRepo user.UserRepository,
	auditRepo audit.Repository,
	settingsService company.SettingsService,
	notificator notification.Service,
) leave.Service {
	return &LeaveServiceImpl{
		leaveRepo:       leaveRepo,
		userRepo:        userRepo,
		auditRepo:       auditRepo,
		settingsService: settingsService,
		notificator:     notificator,
	}
}

type requester struct {
	userID       string
	organization string
	role         user.Role
}

func requesterFromContext(ctx context.Context) (requester, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return requester{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return requester{}, fmt.Errorf("user_id claim is missing or invalid")
	}
	organization, ok := claims["organization"].(string)
	if !ok || organization == "" {
		return requester{}, fmt.Errorf("organization claim is missing or invalid")
	}
	role, _ := claims["role"].(string)

	return requester{
		userID:       userID,
		organization: organization,
		role:         user.Role(role),
	}, nil
}

// Apply implements leave.Service. The request is validated against the
// organization's leave rules before it is stored as pending.
func (s *LeaveServiceImpl) Apply(ctx context.Context, applyReq leave.ApplyRequest) (leave.RequestResponse, error) {
	req, err := requesterFromContext(ctx)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if err := applyReq.Validate(); err != nil {
		return leave.RequestResponse{}, err
	}

	settings, _, err := s.settingsService.Resolve(ctx, req.organization)
	if err != nil {
		return leave.RequestResponse{}, fmt.Errorf("failed to resolve settings: %w", err)
	}

	start, _ := validator.IsValidDate(applyReq.StartDate)
	end, _ := validator.IsValidDate(applyReq.EndDate)
	days := applyReq.DayCount()

	if max := settings.Leave.MaxConsecutiveLeaveDays; max > 0 && days > max {
		return leave.RequestResponse{}, leave.ErrTooManyConsecutive
	}

	if lead := settings.Leave.LeaveApplicationLeadDays; lead > 0 {
		today := time.Now().In(settings.Location())
		earliest := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, lead)
		if start.Before(earliest) {
			return leave.RequestResponse{}, leave.ErrInsufficientLeadTime
		}
	}

	overlap, err := s.leaveRepo.HasOverlap(ctx, req.userID, start, end)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if overlap {
		return leave.RequestResponse{}, leave.ErrOverlappingRequest
	}

	quota := settings.AnnualQuota(applyReq.Type)
	yearStart, yearEnd := leave.YearBounds(start.Year())
	used, err := s.leaveRepo.UsedDays(ctx, req.userID, leave.LeaveType(applyReq.Type), yearStart, yearEnd)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if used+days > quota {
		return leave.RequestResponse{}, leave.ErrInsufficientQuota
	}

	created, err := s.leaveRepo.Create(ctx, leave.Request{
		EmployeeID: req.userID,
		Type:       leave.LeaveType(applyReq.Type),
		StartDate:  start,
		EndDate:    end,
		Days:       days,
		Reason:     applyReq.Reason,
		Status:     leave.StatusPending,
	})
	if err != nil {
		return leave.RequestResponse{}, err
	}

	// Let the approver know there is something to review.
	if u, err := s.userRepo.GetByID(ctx, req.userID); err == nil && u.ManagerID != nil {
		s.notificator.Notify(notification.CreateNotificationRequest{
			RecipientID: *u.ManagerID,
			SenderID:    &req.userID,
			Type:        notification.TypeLeaveRequest,
			Title:       "Leave request",
			Message:     fmt.Sprintf("%s requested %d day(s) of %s leave", u.Name, days, applyReq.Type),
			Data:        map[string]interface{}{"leave_request_id": created.ID},
		})
	}

	return leave.ToResponse(created), nil
}

// Review implements leave.Service.
func (s *LeaveServiceImpl) Review(ctx context.Context, reviewReq leave.ReviewRequest) (leave.RequestResponse, error) {
	req, err := requesterFromContext(ctx)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if !user.HasPermission(req.role, user.PermissionApproveLeave) {
		return leave.RequestResponse{}, leave.ErrUnauthorized
	}

	request, err := s.leaveRepo.GetByID(ctx, reviewReq.ID)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if request.Status != leave.StatusPending {
		return leave.RequestResponse{}, leave.ErrAlreadyProcessed
	}
	if request.EmployeeID == req.userID {
		return leave.RequestResponse{}, leave.ErrUnauthorized
	}

	now := time.Now()
	request.Status = leave.StatusRejected
	notifyType := notification.TypeLeaveRejected
	if reviewReq.Approve {
		request.Status = leave.StatusApproved
		notifyType = notification.TypeLeaveApproved
	}
	request.ReviewedBy = &req.userID
	request.ReviewedAt = &now
	request.ReviewComment = reviewReq.Comment

	if err := s.leaveRepo.Update(ctx, request); err != nil {
		return leave.RequestResponse{}, err
	}

	s.auditRepo.Create(ctx, audit.Entry{
		Action:   audit.ActionLeaveDecision,
		ActorID:  req.userID,
		Entity:   "leave_request",
		EntityID: &request.ID,
		Success:  true,
		Detail:   &request.Status,
	})

	s.notificator.Notify(notification.CreateNotificationRequest{
		RecipientID: request.EmployeeID,
		SenderID:    &req.userID,
		Type:        notifyType,
		Title:       "Leave request " + request.Status,
		Message:     fmt.Sprintf("Your %s leave request (%s to %s) was %s", request.Type, request.StartDate.Format("2006-01-02"), request.EndDate.Format("2006-01-02"), request.Status),
		Data:        map[string]interface{}{"leave_request_id": request.ID},
	})

	return leave.ToResponse(request), nil
}

// Cancel implements leave.Service. Only the requester may cancel, and only
// while the request is still pending.
func (s *LeaveServiceImpl) Cancel(ctx context.Context, id string) error {
	req, err := requesterFromContext(ctx)
	if err != nil {
		return err
	}

	request, err := s.leaveRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if request.EmployeeID != req.userID {
		return leave.ErrUnauthorized
	}
	if request.Status != leave.StatusPending {
		return leave.ErrAlreadyProcessed
	}

	now := time.Now()
	request.Status = leave.StatusRejected
	comment := "cancelled by requester"
	request.ReviewComment = &comment
	request.ReviewedBy = &req.userID
	request.ReviewedAt = &now

	return s.leaveRepo.Update(ctx, request)
}

// List implements leave.Service.
func (s *LeaveServiceImpl) List(ctx context.Context, filter leave.RequestFilter) (leave.ListRequestsResponse, error) {
	req, err := requesterFromContext(ctx)
	if err != nil {
		return leave.ListRequestsResponse{}, err
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	var requests []leave.Request
	var total int64
	if user.HasPermission(req.role, user.PermissionApproveLeave) {
		requests, total, err = s.leaveRepo.List(ctx, req.organization, filter)
	} else {
		requests, total, err = s.leaveRepo.ListByEmployee(ctx, req.userID, filter)
	}
	if err != nil {
		return leave.ListRequestsResponse{}, err
	}

	responses := make([]leave.RequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, leave.ToResponse(r))
	}

	return leave.ListRequestsResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Requests:   responses,
	}, nil
}

// GetBalance implements leave.Service.
func (s *LeaveServiceImpl) GetBalance(ctx context.Context, employeeID *string, year int) (leave.BalanceResponse, error) {
	req, err := requesterFromContext(ctx)
	if err != nil {
		return leave.BalanceResponse{}, err
	}
	if year == 0 {
		year = time.Now().Year()
	}

	target := req.userID
	if employeeID != nil && *employeeID != "" && *employeeID != req.userID {
		if !user.HasPermission(req.role, user.PermissionApproveLeave) {
			return leave.BalanceResponse{}, leave.ErrUnauthorized
		}
		target = *employeeID
	}

	settings, _, err := s.settingsService.Resolve(ctx, req.organization)
	if err != nil {
		return leave.BalanceResponse{}, fmt.Errorf("failed to resolve settings: %w", err)
	}

	yearStart, yearEnd := leave.YearBounds(year)
	resp := leave.BalanceResponse{Year: year}

	for _, leaveType := range []leave.LeaveType{leave.TypeCasual, leave.TypeSick, leave.TypeEarned} {
		used, err := s.leaveRepo.UsedDays(ctx, target, leaveType, yearStart, yearEnd)
		if err != nil {
			return leave.BalanceResponse{}, err
		}
		annual := settings.AnnualQuota(string(leaveType))
		remaining := annual - used
		if remaining < 0 {
			remaining = 0
		}
		resp.Balances = append(resp.Balances, leave.Balance{
			Type:      leaveType,
			Annual:    annual,
			Used:      used,
			Remaining: remaining,
		})
	}

	return resp, nil
}
