package announcement

import (
	"context"
)

// Repository defines data access for announcements and read tracking.
type Repository interface {
	Create(ctx context.Context, a Announcement) (Announcement, error)
	GetByID(ctx context.Context, id string) (Announcement, error)
	List(ctx context.Context, organization string) ([]Announcement, error)

	// ListForUser returns unexpired announcements targeting the user's
	// department, with per-user read flags resolved.
	ListForUser(ctx context.Context, organization string, userID string, department *string) ([]Announcement, error)

	Update(ctx context.Context, a Announcement) error
	Delete(ctx context.Context, id string) error
	MarkRead(ctx context.Context, announcementID, userID string) error
}

// Service defines announcement logic.
type Service interface {
	Create(ctx context.Context, req CreateAnnouncementRequest) (AnnouncementResponse, error)
	ListForMe(ctx context.Context) ([]AnnouncementResponse, error)
	ListAll(ctx context.Context) ([]AnnouncementResponse, error)
	MarkRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
