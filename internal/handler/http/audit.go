package http

import (
	"net/http"

	"github.com/ems-suite/ems-backend-go/internal/domain/audit"
	"github.com/ems-suite/ems-backend-go/internal/handler/http/response"
)

type AuditHandler interface {
	List(w http.ResponseWriter, r *http.Request)
}

type AuditHandlerImpl struct {
	auditRepo audit.Repository
}

func NewAuditHandler(auditRepo audit.Repository) AuditHandler {
	return &AuditHandlerImpl{auditRepo: auditRepo}
}

// List implements AuditHandler. Access is restricted by route middleware.
func (h *AuditHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := audit.Filter{
		Action:  queryString(r, "action"),
		ActorID: queryString(r, "actor_id"),
		Page:    queryInt(r, "page", 1),
		Limit:   queryInt(r, "limit", 50),
	}

	entries, total, err := h.auditRepo.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	responses := make([]audit.EntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, audit.ToResponse(e))
	}

	response.SuccessWithMeta(w, responses, &response.Meta{
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalItems: total,
	})
}
