package announcement

import (
	"context"
	"fmt"
	"time"

	"github.com/ems-suite/ems-backend-go/internal/domain/announcement"
	"github.com/ems-suite/ems-backend-go/internal/domain/notification"
	"github.com/ems-suite/ems-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
)

type AnnouncementServiceImpl struct {
	announcementRepo announcement.Repository
	userRepo         user.UserRepository
	notificator      notification.Service
}

func NewAnnouncementService(
	announcementRepo announcement.Repository,
	userRepo user.UserRepository,
	notificator notification.Service,
) announcement.Service {
	return &AnnouncementServiceImpl{
		announcementRepo: announcementRepo,
		userRepo:         userRepo,
		notificator:      notificator,
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

// Create implements announcement.Service. Targeted users get an in-app
// notification on top of the announcement itself.
func (s *AnnouncementServiceImpl) Create(ctx context.Context, createReq announcement.CreateAnnouncementRequest) (announcement.AnnouncementResponse, error) {
	req, err := requesterFromContext(ctx)
	if err != nil {
		return announcement.AnnouncementResponse{}, err
	}
	if !user.HasPermission(req.role, user.PermissionManageAnnouncements) {
		return announcement.AnnouncementResponse{}, user.ErrHRAccessRequired
	}
	if err := createReq.Validate(); err != nil {
		return announcement.AnnouncementResponse{}, err
	}

	priority := createReq.Priority
	if priority == "" {
		priority = announcement.PriorityNormal
	}
	departments := createReq.Departments
	if departments == nil {
		departments = []string{}
	}

	var expiresAt *time.Time
	if createReq.ExpiresAt != nil {
		t, err := time.Parse(time.RFC3339, *createReq.ExpiresAt)
		if err == nil {
			expiresAt = &t
		}
	}

	created, err := s.announcementRepo.Create(ctx, announcement.Announcement{
		Organization: req.organization,
		Title:        createReq.Title,
		Body:         createReq.Body,
		Priority:     priority,
		Departments:  departments,
		CreatedBy:    req.userID,
		ExpiresAt:    expiresAt,
	})
	if err != nil {
		return announcement.AnnouncementResponse{}, err
	}

	s.fanOut(ctx, req, created)

	return announcement.ToResponse(created), nil
}

// fanOut queues a notification to every user the announcement targets.
func (s *AnnouncementServiceImpl) fanOut(ctx context.Context, req requester, a announcement.Announcement) {
	active := true
	users, _, err := s.userRepo.List(ctx, req.organization, user.UserFilter{
		IsActive: &active,
		Page:     1,
		Limit:    100,
	})
	if err != nil {
		return
	}

	for _, u := range users {
		if u.ID == req.userID || !a.TargetsDepartment(u.Department) {
			continue
		}
		s.notificator.Notify(notification.CreateNotificationRequest{
			RecipientID: u.ID,
			SenderID:    &req.userID,
			Type:        notification.TypeAnnouncement,
			Title:       a.Title,
			Message:     a.Body,
			Data:        map[string]interface{}{"announcement_id": a.ID, "priority": a.Priority},
		})
	}
}

// ListForMe implements announcement.Service.
func (s *AnnouncementServiceImpl) ListForMe(ctx context.Context) ([]announcement.AnnouncementResponse, error) {
	req, err := requesterFromContext(ctx)
	if err != nil {
		return nil, err
	}

	u, err := s.userRepo.GetByID(ctx, req.userID)
	if err != nil {
		return nil, err
	}

	announcements, err := s.announcementRepo.ListForUser(ctx, req.organization, req.userID, u.Department)
	if err != nil {
		return nil, err
	}

	responses := make([]announcement.AnnouncementResponse, 0, len(announcements))
	for _, a := range announcements {
		responses = append(responses, announcement.ToResponse(a))
	}
	return responses, nil
}

// ListAll implements announcement.Service.
func (s *AnnouncementServiceImpl) ListAll(ctx context.Context) ([]announcement.AnnouncementResponse, error) {
	req, err := requesterFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !user.HasPermission(req.role, user.PermissionManageAnnouncements) {
		return nil, user.ErrHRAccessRequired
	}

	announcements, err := s.announcementRepo.List(ctx, req.organization)
	if err != nil {
		return nil, err
	}

	responses := make([]announcement.AnnouncementResponse, 0, len(announcements))
	for _, a := range announcements {
		responses = append(responses, announcement.ToResponse(a))
	}
	return responses, nil
}

// MarkRead implements announcement.Service.
func (s *AnnouncementServiceImpl) MarkRead(ctx context.Context, id string) error {
	req, err := requesterFromContext(ctx)
	if err != nil {
		return err
	}

	a, err := s.announcementRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a.Organization != req.organization {
		return announcement.ErrAnnouncementNotFound
	}

	return s.announcementRepo.MarkRead(ctx, id, req.userID)
}

// Delete implements announcement.Service.
func (s *AnnouncementServiceImpl) Delete(ctx context.Context, id string) error {
	req, err := requesterFromContext(ctx)
	if err != nil {
		return err
	}
	if !user.HasPermission(req.role, user.PermissionManageAnnouncements) {
		return user.ErrHRAccessRequired
	}

	a, err := s.announcementRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a.Organization != req.organization {
		return announcement.ErrAnnouncementNotFound
	}

	return s.announcementRepo.Delete(ctx, id)
}
