package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ems-suite/ems-backend-go/internal/domain/company"
	"github.com/ems-suite/ems-backend-go/internal/handler/http/response"
)

type CompanyHandler interface {
	GetSettings(w http.ResponseWriter, r *http.Request)
	UpsertSettings(w http.ResponseWriter, r *http.Request)
	TestRules(w http.ResponseWriter, r *http.Request)
	Defaults(w http.ResponseWriter, r *http.Request)
}

type CompanyHandlerImpl struct {
	settingsService company.SettingsService
}

func NewCompanyHandler(settingsService company.SettingsService) CompanyHandler {
	return &CompanyHandlerImpl{settingsService: settingsService}
}

// GetSettings implements CompanyHandler.
func (h *CompanyHandlerImpl) GetSettings(w http.ResponseWriter, r *http.Request) {
	result, err := h.settingsService.Get(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// UpsertSettings implements CompanyHandler.
func (h *CompanyHandlerImpl) UpsertSettings(w http.ResponseWriter, r *http.Request) {
	var upsertReq company.UpsertSettingsRequest

	if err := json.NewDecoder(r.Body).Decode(&upsertReq); err != nil {
		slog.Error("UpsertSettings decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.settingsService.Upsert(r.Context(), upsertReq)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Settings saved", result)
}

// TestRules implements CompanyHandler.
func (h *CompanyHandlerImpl) TestRules(w http.ResponseWriter, r *http.Request) {
	var testReq company.TestRulesRequest

	if err := json.NewDecoder(r.Body).Decode(&testReq); err != nil {
		slog.Error("TestRules decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.settingsService.TestRules(r.Context(), testReq)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Defaults implements CompanyHandler.
func (h *CompanyHandlerImpl) Defaults(w http.ResponseWriter, r *http.Request) {
	result, err := h.settingsService.Defaults(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
