package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ems-suite/ems-backend-go/internal/domain/announcement"
	"github.com/ems-suite/ems-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AnnouncementHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	ListForMe(w http.ResponseWriter, r *http.Request)
	ListAll(w http.ResponseWriter, r *http.Request)
	MarkRead(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type AnnouncementHandlerImpl struct {
	announcementService announcement.Service
}

func NewAnnouncementHandler(announcementService announcement.Service) AnnouncementHandler {
	return &AnnouncementHandlerImpl{announcementService: announcementService}
}

// Create implements AnnouncementHandler.
func (h *AnnouncementHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var createReq announcement.CreateAnnouncementRequest

	if err := json.NewDecoder(r.Body).Decode(&createReq); err != nil {
		slog.Error("Create announcement decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.announcementService.Create(r.Context(), createReq)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Announcement published", result)
}

// ListForMe implements AnnouncementHandler.
func (h *AnnouncementHandlerImpl) ListForMe(w http.ResponseWriter, r *http.Request) {
	result, err := h.announcementService.ListForMe(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// ListAll implements AnnouncementHandler.
func (h *AnnouncementHandlerImpl) ListAll(w http.ResponseWriter, r *http.Request) {
	result, err := h.announcementService.ListAll(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// MarkRead implements AnnouncementHandler.
func (h *AnnouncementHandlerImpl) MarkRead(w http.ResponseWriter, r *http.Request) {
	if err := h.announcementService.MarkRead(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Announcement marked as read", nil)
}

// Delete implements AnnouncementHandler.
func (h *AnnouncementHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.announcementService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Announcement deleted", nil)
}
