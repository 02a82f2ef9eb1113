package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ems-suite/ems-backend-go/internal/domain/notification"
	"github.com/ems-suite/ems-backend-go/internal/pkg/sse"
	"github.com/google/uuid"
)

// Config holds notification service configuration
type Config struct {
	BatchSize     int           // default: 100
	FlushInterval time.Duration // default: 5 seconds
	WorkerCount   int           // default: 2
	QueueSize     int           // default: 1000
}

type service struct {
	repo   notification.Repository
	hub    *sse.Hub
	logger *slog.Logger
	config Config

	queue  chan notification.CreateNotificationRequest
	wg     sync.WaitGroup
	stopCh chan struct{}
}

// NewNotificationService creates a notification service with background
// workers that batch-insert queued notifications and push them over SSE.
func NewNotificationService(repo notification.Repository, hub *sse.Hub, logger *slog.Logger, cfg Config) notification.Service {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval == 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1000
	}

	s := &service{
		repo:   repo,
		hub:    hub,
		logger: logger,
		config: cfg,
		queue:  make(chan notification.CreateNotificationRequest, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	logger.Info("notification service started",
		"workers", cfg.WorkerCount,
		"batch_size", cfg.BatchSize,
		"flush_interval", cfg.FlushInterval,
	)

	return s
}

// worker drains the queue into batched inserts.
func (s *service) worker(id int) {
	defer s.wg.Done()

	batch := make([]notification.CreateNotificationRequest, 0, s.config.BatchSize)
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		notifications := make([]*notification.Notification, len(batch))
		for i, req := range batch {
			notifications[i] = &notification.Notification{
				ID:          uuid.New().String(),
				RecipientID: req.RecipientID,
				SenderID:    req.SenderID,
				Type:        req.Type,
				Title:       req.Title,
				Message:     req.Message,
				Data:        req.Data,
				IsRead:      false,
				CreatedAt:   time.Now(),
			}
		}

		if err := s.repo.CreateBatch(ctx, notifications); err != nil {
			s.logger.Error("notification batch insert failed", "worker", id, "count", len(notifications), "error", err)
		} else {
			for _, n := range notifications {
				s.hub.Publish(n.RecipientID, sse.Event{
					UserID: n.RecipientID,
					Event:  "notification",
					Data:   notification.ToResponse(n),
				})
			}
		}

		batch = batch[:0]
	}

	for {
		select {
		case req := <-s.queue:
			batch = append(batch, req)
			if len(batch) >= s.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.stopCh:
			// Drain whatever is left before exiting.
			for {
				select {
				case req := <-s.queue:
					batch = append(batch, req)
				default:
					flush()
					return
				}
			}
		}
	}
}

// Notify implements notification.Service. Best-effort: a full queue drops
// the notification rather than blocking the caller.
func (s *service) Notify(req notification.CreateNotificationRequest) {
	if req.RecipientID == "" {
		return
	}
	select {
	case s.queue <- req:
	default:
		s.logger.Warn("notification queue full, dropping", "recipient", req.RecipientID, "type", req.Type)
	}
}

// List implements notification.Service.
func (s *service) List(ctx context.Context, userID string, page, limit int, unreadOnly bool) (notification.ListNotificationsResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	notifications, total, err := s.repo.GetByUserID(ctx, userID, page, limit, unreadOnly)
	if err != nil {
		return notification.ListNotificationsResponse{}, err
	}

	unread, err := s.repo.GetUnreadCount(ctx, userID)
	if err != nil {
		return notification.ListNotificationsResponse{}, err
	}

	responses := make([]notification.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, notification.ToResponse(n))
	}

	return notification.ListNotificationsResponse{
		TotalCount:    total,
		UnreadCount:   unread,
		Page:          page,
		Limit:         limit,
		Notifications: responses,
	}, nil
}

// MarkRead implements notification.Service.
func (s *service) MarkRead(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return s.repo.MarkAsRead(ctx, ids, userID)
}

// MarkAllRead implements notification.Service.
func (s *service) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// Delete implements notification.Service.
func (s *service) Delete(ctx context.Context, userID string, id string) error {
	return s.repo.Delete(ctx, id, userID)
}

// Shutdown stops the workers after draining the queue.
func (s *service) Shutdown() {
	close(s.stopCh)
	s.wg.Wait()
	s.logger.Info("notification service stopped")
}
