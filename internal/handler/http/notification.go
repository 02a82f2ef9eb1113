package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ems-suite/ems-backend-go/internal/domain/notification"
	"github.com/ems-suite/ems-backend-go/internal/handler/http/response"
	"github.com/ems-suite/ems-backend-go/internal/pkg/jwt"
	"github.com/ems-suite/ems-backend-go/internal/pkg/sse"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
)

type NotificationHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	MarkRead(w http.ResponseWriter, r *http.Request)
	MarkAllRead(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type NotificationHandlerImpl struct {
	notificationService notification.Service
	jwtService          jwt.Service
	hub                 *sse.Hub
}

func NewNotificationHandler(notificationService notification.Service, jwtService jwt.Service, hub *sse.Hub) NotificationHandler {
	return &NotificationHandlerImpl{
		notificationService: notificationService,
		jwtService:          jwtService,
		hub:                 hub,
	}
}

func userIDFromClaims(r *http.Request) (string, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", err
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user_id claim is missing")
	}
	return userID, nil
}

// List implements NotificationHandler.
func (h *NotificationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromClaims(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	unreadOnly := false
	if b := queryBool(r, "unread_only"); b != nil {
		unreadOnly = *b
	}

	result, err := h.notificationService.List(r.Context(), userID, queryInt(r, "page", 1), queryInt(r, "limit", 20), unreadOnly)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// MarkRead implements NotificationHandler.
func (h *NotificationHandlerImpl) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromClaims(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var markReq struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&markReq); err != nil {
		slog.Error("MarkRead decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := h.notificationService.MarkRead(r.Context(), userID, markReq.IDs); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Notifications marked as read", nil)
}

// MarkAllRead implements NotificationHandler.
func (h *NotificationHandlerImpl) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromClaims(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	if err := h.notificationService.MarkAllRead(r.Context(), userID); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "All notifications marked as read", nil)
}

// Delete implements NotificationHandler.
func (h *NotificationHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromClaims(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	if err := h.notificationService.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Notification deleted", nil)
}

// Stream implements NotificationHandler. EventSource cannot set headers,
// so the client authenticates with a short-lived token in the query string.
func (h *NotificationHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		response.Unauthorized(w, "Stream token is required")
		return
	}

	userID, err := h.jwtService.ValidateStreamToken(token)
	if err != nil {
		response.Unauthorized(w, "Invalid stream token")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	events, unsubscribe := h.hub.Subscribe(userID)
	defer unsubscribe()

	fmt.Fprintf(w, "event: connected\ndata: {}\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, open := <-events:
			if !open {
				return
			}
			payload, err := json.Marshal(event.Data)
			if err != nil {
				slog.Error("Stream marshal error", "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, payload)
			flusher.Flush()
		}
	}
}
