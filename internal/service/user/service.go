package user

import (
	"context"
	"fmt"
	"math"

	"github.com/ems-suite/ems-backend-go/internal/domain/audit"
	"github.com/ems-suite/ems-backend-go/internal/domain/notification"
	"github.com/ems-suite/ems-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
)

type UserServiceImpl struct {
	userRepo    user.UserRepository
	auditRepo   audit.Repository
	notificator notification.Service
}

func NewUserService(userRepo user.UserRepository, auditRepo audit.Repository, notificator notification.Service) user.UserService {
	return &UserServiceImpl{
		userRepo:    userRepo,
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

// GetMe implements user.UserService.
func (s *UserServiceImpl) GetMe(ctx context.Context) (user.UserResponse, error) {
	req, err := requesterFromContext(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}

	u, err := s.userRepo.GetByID(ctx, req.userID)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.ToResponse(u), nil
}

// Get implements user.UserService.
func (s *UserServiceImpl) Get(ctx context.Context, id string) (user.UserResponse, error) {
	req, err := requesterFromContext(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}

	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}
	if u.Organization != req.organization {
		return user.UserResponse{}, user.ErrUserNotFound
	}
	return user.ToResponse(u), nil
}

// List implements user.UserService.
func (s *UserServiceImpl) List(ctx context.Context, filter user.UserFilter) (user.ListUsersResponse, error) {
	req, err := requesterFromContext(ctx)
	if err != nil {
		return user.ListUsersResponse{}, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	users, total, err := s.userRepo.List(ctx, req.organization, filter)
	if err != nil {
		return user.ListUsersResponse{}, err
	}

	responses := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, user.ToResponse(u))
	}

	return user.ListUsersResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Users:      responses,
	}, nil
}

// ListPending implements user.UserService.
func (s *UserServiceImpl) ListPending(ctx context.Context) ([]user.UserResponse, error) {
	req, err := requesterFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !user.HasPermission(req.role, user.PermissionManageUsers) {
		return nil, user.ErrHRAccessRequired
	}

	users, err := s.userRepo.ListPending(ctx, req.organization)
	if err != nil {
		return nil, err
	}

	responses := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, user.ToResponse(u))
	}
	return responses, nil
}

// Update implements user.UserService. Only the fields present in the
// request change; role changes require the manage-users permission.
func (s *UserServiceImpl) Update(ctx context.Context, updateReq user.UpdateUserRequest) (user.UserResponse, error) {
	req, err := requesterFromContext(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}
	if err := updateReq.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	u, err := s.userRepo.GetByID(ctx, updateReq.ID)
	if err != nil {
		return user.UserResponse{}, err
	}
	if u.Organization != req.organization {
		return user.UserResponse{}, user.ErrUserNotFound
	}

	selfUpdate := req.userID == updateReq.ID
	canManage := user.HasPermission(req.role, user.PermissionManageUsers)
	if !selfUpdate && !canManage {
		return user.UserResponse{}, user.ErrHRAccessRequired
	}

	if updateReq.Name != nil {
		u.Name = *updateReq.Name
	}
	if updateReq.Department != nil {
		u.Department = updateReq.Department
	}
	if updateReq.Position != nil {
		u.Position = updateReq.Position
	}
	if updateReq.Phone != nil {
		u.Phone = updateReq.Phone
	}
	if updateReq.Role != nil {
		if !canManage {
			return user.UserResponse{}, user.ErrHRAccessRequired
		}
		u.Role = user.Role(*updateReq.Role)
	}
	if updateReq.ManagerID != nil {
		if !canManage {
			return user.UserResponse{}, user.ErrHRAccessRequired
		}
		u.ManagerID = updateReq.ManagerID
	}
	if updateReq.TeamLeadID != nil {
		if !canManage {
			return user.UserResponse{}, user.ErrHRAccessRequired
		}
		u.TeamLeadID = updateReq.TeamLeadID
	}

	if err := s.userRepo.Update(ctx, u); err != nil {
		return user.UserResponse{}, err
	}

	updated, err := s.userRepo.GetByID(ctx, u.ID)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.ToResponse(updated), nil
}

// Approve implements user.UserService.
func (s *UserServiceImpl) Approve(ctx context.Context, id string) (user.UserResponse, error) {
	req, err := requesterFromContext(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}
	if !user.HasPermission(req.role, user.PermissionManageUsers) {
		return user.UserResponse{}, user.ErrHRAccessRequired
	}

	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}
	if u.Organization != req.organization {
		return user.UserResponse{}, user.ErrUserNotFound
	}
	if u.IsApproved {
		return user.UserResponse{}, user.ErrUserAlreadyApproved
	}

	if err := s.userRepo.SetApproval(ctx, id, true, true); err != nil {
		return user.UserResponse{}, err
	}

	s.auditRepo.Create(ctx, audit.Entry{
		Action:   audit.ActionUserApprove,
		ActorID:  req.userID,
		Entity:   "user",
		EntityID: &id,
		Success:  true,
	})

	s.notificator.Notify(notification.CreateNotificationRequest{
		RecipientID: id,
		SenderID:    &req.userID,
		Type:        notification.TypeAccountApproved,
		Title:       "Account approved",
		Message:     "Your account has been approved. Welcome aboard!",
	})

	u.IsApproved = true
	u.IsActive = true
	return user.ToResponse(u), nil
}

// Reject implements user.UserService. A rejected account is deactivated
// rather than deleted so the registration attempt stays visible.
func (s *UserServiceImpl) Reject(ctx context.Context, id string) error {
	req, err := requesterFromContext(ctx)
	if err != nil {
		return err
	}
	if !user.HasPermission(req.role, user.PermissionManageUsers) {
		return user.ErrHRAccessRequired
	}

	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u.Organization != req.organization {
		return user.ErrUserNotFound
	}
	if u.IsApproved {
		return user.ErrUserAlreadyApproved
	}

	if err := s.userRepo.SetApproval(ctx, id, false, false); err != nil {
		return err
	}

	s.auditRepo.Create(ctx, audit.Entry{
		Action:   audit.ActionUserReject,
		ActorID:  req.userID,
		Entity:   "user",
		EntityID: &id,
		Success:  true,
	})

	return nil
}

// Delete implements user.UserService.
func (s *UserServiceImpl) Delete(ctx context.Context, id string) error {
	req, err := requesterFromContext(ctx)
	if err != nil {
		return err
	}
	if !user.HasPermission(req.role, user.PermissionManageUsers) {
		return user.ErrHRAccessRequired
	}
	if req.userID == id {
		return user.ErrAdminAccessRequired
	}

	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u.Organization != req.organization {
		return user.ErrUserNotFound
	}

	return s.userRepo.Delete(ctx, id)
}
