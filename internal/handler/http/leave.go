package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ems-suite/ems-backend-go/internal/domain/leave"
	"github.com/ems-suite/ems-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	Apply(w http.ResponseWriter, r *http.Request)
	Review(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	GetBalance(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.Service
}

func NewLeaveHandler(leaveService leave.Service) LeaveHandler {
	return &LeaveHandlerImpl{leaveService: leaveService}
}

// Apply implements LeaveHandler.
func (h *LeaveHandlerImpl) Apply(w http.ResponseWriter, r *http.Request) {
	var applyReq leave.ApplyRequest

	if err := json.NewDecoder(r.Body).Decode(&applyReq); err != nil {
		slog.Error("Apply leave decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.leaveService.Apply(r.Context(), applyReq)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Leave request submitted", result)
}

// Review implements LeaveHandler.
func (h *LeaveHandlerImpl) Review(w http.ResponseWriter, r *http.Request) {
	var reviewReq leave.ReviewRequest

	if err := json.NewDecoder(r.Body).Decode(&reviewReq); err != nil {
		slog.Error("Review leave decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	reviewReq.ID = chi.URLParam(r, "id")

	result, err := h.leaveService.Review(r.Context(), reviewReq)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave request reviewed", result)
}

// Cancel implements LeaveHandler.
func (h *LeaveHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.leaveService.Cancel(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave request cancelled", nil)
}

// List implements LeaveHandler.
func (h *LeaveHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := leave.RequestFilter{
		EmployeeID: queryString(r, "employee_id"),
		Status:     queryString(r, "status"),
		Type:       queryString(r, "type"),
		Page:       queryInt(r, "page", 1),
		Limit:      queryInt(r, "limit", 20),
	}

	result, err := h.leaveService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// GetBalance implements LeaveHandler.
func (h *LeaveHandlerImpl) GetBalance(w http.ResponseWriter, r *http.Request) {
	result, err := h.leaveService.GetBalance(r.Context(), queryString(r, "employee_id"), queryInt(r, "year", 0))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
