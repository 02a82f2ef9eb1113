package notification

// CreateNotificationRequest is what producers enqueue; the worker pool
// turns it into a stored Notification and an SSE event.
type CreateNotificationRequest struct {
	RecipientID string
	SenderID    *string
	Type        NotificationType
	Title       string
	Message     string
	Data        map[string]interface{}
}

type NotificationResponse struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
	IsRead    bool                   `json:"is_read"`
	ReadAt    *string                `json:"read_at,omitempty"`
	CreatedAt string                 `json:"created_at"`
}

type ListNotificationsResponse struct {
	TotalCount    int                    `json:"total_count"`
	UnreadCount   int                    `json:"unread_count"`
	Page          int                    `json:"page"`
	Limit         int                    `json:"limit"`
	Notifications []NotificationResponse `json:"notifications"`
}

// ToResponse maps a Notification entity to its API shape
func ToResponse(n *Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Data:      n.Data,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if n.ReadAt != nil {
		readAt := n.ReadAt.Format("2006-01-02 15:04:05")
		resp.ReadAt = &readAt
	}
	return resp
}
