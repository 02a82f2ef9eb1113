package notification

import (
	"context"
)

// Repository defines the notification repository interface
type Repository interface {
	Create(ctx context.Context, notification *Notification) error
	CreateBatch(ctx context.Context, notifications []*Notification) error
	GetByUserID(ctx context.Context, userID string, page, limit int, unreadOnly bool) ([]*Notification, int, error)
	GetUnreadCount(ctx context.Context, userID string) (int, error)
	MarkAsRead(ctx context.Context, ids []string, userID string) error
	MarkAllAsRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, id string, userID string) error
}

// Service defines the notification business interface. Notify is
// best-effort: it enqueues and never returns an error to the caller.
type Service interface {
	Notify(req CreateNotificationRequest)
	List(ctx context.Context, userID string, page, limit int, unreadOnly bool) (ListNotificationsResponse, error)
	MarkRead(ctx context.Context, userID string, ids []string) error
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, userID string, id string) error
	Shutdown()
}
