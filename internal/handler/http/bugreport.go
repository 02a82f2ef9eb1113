package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ems-suite/ems-backend-go/internal/domain/bugreport"
	"github.com/ems-suite/ems-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type BugReportHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	ListAll(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
}

type BugReportHandlerImpl struct {
	bugReportService bugreport.Service
}

func NewBugReportHandler(bugReportService bugreport.Service) BugReportHandler {
	return &BugReportHandlerImpl{bugReportService: bugReportService}
}

func bugReportFilterFromQuery(r *http.Request) bugreport.BugReportFilter {
	return bugreport.BugReportFilter{
		Status:   r.URL.Query().Get("status"),
		Severity: r.URL.Query().Get("severity"),
		Page:     queryInt(r, "page", 1),
		Limit:    queryInt(r, "limit", 20),
	}
}

// Create implements BugReportHandler.
func (h *BugReportHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var createReq bugreport.CreateBugReportRequest

	if err := json.NewDecoder(r.Body).Decode(&createReq); err != nil {
		slog.Error("Create bug report decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.bugReportService.Create(r.Context(), createReq)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Bug report submitted", result)
}

// ListMine implements BugReportHandler.
func (h *BugReportHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	result, err := h.bugReportService.ListMine(r.Context(), bugReportFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// ListAll implements BugReportHandler.
func (h *BugReportHandlerImpl) ListAll(w http.ResponseWriter, r *http.Request) {
	result, err := h.bugReportService.ListAll(r.Context(), bugReportFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Update implements BugReportHandler.
func (h *BugReportHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var updateReq bugreport.UpdateBugReportRequest

	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		slog.Error("Update bug report decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	updateReq.ID = chi.URLParam(r, "id")

	result, err := h.bugReportService.Update(r.Context(), updateReq)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Bug report updated", result)
}
