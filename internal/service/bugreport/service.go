package bugreport

import (
	"context"
	"fmt"
	"time"

	"github.com/ems-suite/ems-backend-go/internal/domain/audit"
	"github.com/ems-suite/ems-backend-go/internal/domain/bugreport"
	"github.com/ems-suite/ems-backend-go/internal/domain/notification"
	"github.com/ems-suite/ems-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
)

type BugReportServiceImpl struct {
	bugRepo     bugreport.Repository
	auditRepo   audit.Repository
	notificator notification.Service
}

func NewBugReportService(bugRepo bugreport.Repository, auditRepo audit.Repository, notificator notification.Service) bugreport.Service {
	return &BugReportServiceImpl{
		bugRepo:     bugRepo,
		auditRepo:   auditRepo,
		notificator: notificator,
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

// Create implements bugreport.Service.
func (s *BugReportServiceImpl) Create(ctx context.Context, createReq bugreport.CreateBugReportRequest) (bugreport.BugReportResponse, error) {
	req, err := requesterFromContext(ctx)
	if err != nil {
		return bugreport.BugReportResponse{}, err
	}
	if err := createReq.Validate(); err != nil {
		return bugreport.BugReportResponse{}, err
	}

	severity := createReq.Severity
	if severity == "" {
		severity = bugreport.SeverityMedium
	}

	created, err := s.bugRepo.Create(ctx, bugreport.BugReport{
		Organization: req.organization,
		ReportedBy:   req.userID,
		Title:        createReq.Title,
		Description:  createReq.Description,
		Severity:     severity,
		Status:       bugreport.StatusOpen,
	})
	if err != nil {
		return bugreport.BugReportResponse{}, err
	}

	return bugreport.ToResponse(created), nil
}

// ListMine implements bugreport.Service.
func (s *BugReportServiceImpl) ListMine(ctx context.Context, filter bugreport.BugReportFilter) (bugreport.ListBugReportsResponse, error) {
	req, err := requesterFromContext(ctx)
	if err != nil {
		return bugreport.ListBugReportsResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return bugreport.ListBugReportsResponse{}, err
	}

	reports, total, err := s.bugRepo.ListByReporter(ctx, req.userID, filter)
	if err != nil {
		return bugreport.ListBugReportsResponse{}, err
	}

	return toListResponse(reports, total, filter), nil
}

// ListAll implements bugreport.Service.
func (s *BugReportServiceImpl) ListAll(ctx context.Context, filter bugreport.BugReportFilter) (bugreport.ListBugReportsResponse, error) {
	req, err := requesterFromContext(ctx)
	if err != nil {
		return bugreport.ListBugReportsResponse{}, err
	}
	if !user.HasPermission(req.role, user.PermissionManageBugReports) {
		return bugreport.ListBugReportsResponse{}, user.ErrAdminAccessRequired
	}
	if err := filter.Validate(); err != nil {
		return bugreport.ListBugReportsResponse{}, err
	}

	reports, total, err := s.bugRepo.List(ctx, req.organization, filter)
	if err != nil {
		return bugreport.ListBugReportsResponse{}, err
	}

	return toListResponse(reports, total, filter), nil
}

func toListResponse(reports []bugreport.BugReport, total int, filter bugreport.BugReportFilter) bugreport.ListBugReportsResponse {
	responses := make([]bugreport.BugReportResponse, 0, len(reports))
	for _, b := range reports {
		responses = append(responses, bugreport.ToResponse(b))
	}
	return bugreport.ListBugReportsResponse{
		Reports: responses,
		Total:   total,
		Page:    filter.Page,
		Limit:   filter.Limit,
	}
}

// Update implements bugreport.Service. Status changes notify the reporter
// and land in the audit log.
func (s *BugReportServiceImpl) Update(ctx context.Context, updateReq bugreport.UpdateBugReportRequest) (bugreport.BugReportResponse, error) {
	req, err := requesterFromContext(ctx)
	if err != nil {
		return bugreport.BugReportResponse{}, err
	}
	if !user.HasPermission(req.role, user.PermissionManageBugReports) {
		return bugreport.BugReportResponse{}, user.ErrAdminAccessRequired
	}
	if err := updateReq.Validate(); err != nil {
		return bugreport.BugReportResponse{}, err
	}

	b, err := s.bugRepo.GetByID(ctx, updateReq.ID)
	if err != nil {
		return bugreport.BugReportResponse{}, err
	}
	if b.Organization != req.organization {
		return bugreport.BugReportResponse{}, bugreport.ErrBugReportNotFound
	}
	if b.Status == bugreport.StatusClosed && updateReq.Status != bugreport.StatusClosed {
		return bugreport.BugReportResponse{}, bugreport.ErrInvalidTransition
	}

	statusChanged := b.Status != updateReq.Status
	b.Status = updateReq.Status
	if updateReq.AdminNotes != nil {
		b.AdminNotes = updateReq.AdminNotes
	}
	if updateReq.Status == bugreport.StatusResolved && b.ResolvedAt == nil {
		now := time.Now()
		b.ResolvedBy = &req.userID
		b.ResolvedAt = &now
	}

	if err := s.bugRepo.Update(ctx, b); err != nil {
		return bugreport.BugReportResponse{}, err
	}

	if statusChanged {
		s.auditRepo.Create(ctx, audit.Entry{
			Action:   audit.ActionBugStatusChange,
			ActorID:  req.userID,
			Entity:   "bug_report",
			EntityID: &b.ID,
			Success:  true,
			Detail:   &b.Status,
		})

		s.notificator.Notify(notification.CreateNotificationRequest{
			RecipientID: b.ReportedBy,
			SenderID:    &req.userID,
			Type:        notification.TypeBugReportUpdate,
			Title:       "Bug report updated",
			Message:     fmt.Sprintf("Your bug report %q is now %s", b.Title, b.Status),
			Data:        map[string]interface{}{"bug_report_id": b.ID},
		})
	}

	return bugreport.ToResponse(b), nil
}
