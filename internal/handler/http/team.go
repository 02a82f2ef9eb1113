package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ems-suite/ems-backend-go/internal/domain/team"
	"github.com/ems-suite/ems-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type TeamHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	AddMember(w http.ResponseWriter, r *http.Request)
	RemoveMember(w http.ResponseWriter, r *http.Request)
	GetMyTeam(w http.ResponseWriter, r *http.Request)
}

type TeamHandlerImpl struct {
	teamService team.Service
}

func NewTeamHandler(teamService team.Service) TeamHandler {
	return &TeamHandlerImpl{teamService: teamService}
}

// Create implements TeamHandler.
func (h *TeamHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var createReq team.CreateTeamRequest

	if err := json.NewDecoder(r.Body).Decode(&createReq); err != nil {
		slog.Error("Create team decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.teamService.Create(r.Context(), createReq)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Team created", result)
}

// Get implements TeamHandler.
func (h *TeamHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.teamService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// List implements TeamHandler.
func (h *TeamHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.teamService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Update implements TeamHandler.
func (h *TeamHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var updateReq team.UpdateTeamRequest

	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		slog.Error("Update team decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	updateReq.ID = chi.URLParam(r, "id")

	result, err := h.teamService.Update(r.Context(), updateReq)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Team updated", result)
}

// Delete implements TeamHandler.
func (h *TeamHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.teamService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Team deleted", nil)
}

// AddMember implements TeamHandler.
func (h *TeamHandlerImpl) AddMember(w http.ResponseWriter, r *http.Request) {
	if err := h.teamService.AddMember(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "userID")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Member added", nil)
}

// RemoveMember implements TeamHandler.
func (h *TeamHandlerImpl) RemoveMember(w http.ResponseWriter, r *http.Request) {
	if err := h.teamService.RemoveMember(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "userID")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Member removed", nil)
}

// GetMyTeam implements TeamHandler.
func (h *TeamHandlerImpl) GetMyTeam(w http.ResponseWriter, r *http.Request) {
	result, err := h.teamService.GetMyTeam(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
