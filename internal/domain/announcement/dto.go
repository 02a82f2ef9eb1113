package announcement

import (
	"github.com/ems-suite/ems-backend-go/internal/pkg/validator"
)

type CreateAnnouncementRequest struct {
	Title       string   `json:"title"`
	Body        string   `json:"body"`
	Priority    string   `json:"priority,omitempty"`
	Departments []string `json:"departments,omitempty"`
	ExpiresAt   *string  `json:"expires_at,omitempty"` // RFC3339
}

func (r *CreateAnnouncementRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Title) {
		errs = append(errs, validator.ValidationError{Field: "title", Message: "title is required"})
	}
	if validator.IsEmpty(r.Body) {
		errs = append(errs, validator.ValidationError{Field: "body", Message: "body is required"})
	}
	if r.Priority != "" && !IsValidPriority(r.Priority) {
		errs = append(errs, validator.ValidationError{Field: "priority", Message: "priority must be low, normal, high or urgent"})
	}
	if r.ExpiresAt != nil {
		if _, ok := validator.IsValidDateTime(*r.ExpiresAt); !ok {
			errs = append(errs, validator.ValidationError{Field: "expires_at", Message: "must be an RFC3339 timestamp"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AnnouncementResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Body        string   `json:"body"`
	Priority    string   `json:"priority"`
	Departments []string `json:"departments,omitempty"`
	AuthorName  *string  `json:"author_name,omitempty"`
	ExpiresAt   *string  `json:"expires_at,omitempty"`
	IsRead      bool     `json:"is_read"`
	ReadCount   int      `json:"read_count"`
	CreatedAt   string   `json:"created_at"`
}

// ToResponse maps an Announcement entity to its API shape
func ToResponse(a Announcement) AnnouncementResponse {
	resp := AnnouncementResponse{
		ID:          a.ID,
		Title:       a.Title,
		Body:        a.Body,
		Priority:    a.Priority,
		Departments: a.Departments,
		AuthorName:  a.AuthorName,
		IsRead:      a.IsRead,
		ReadCount:   a.ReadCount,
		CreatedAt:   a.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if a.ExpiresAt != nil {
		expires := a.ExpiresAt.Format("2006-01-02 15:04:05")
		resp.ExpiresAt = &expires
	}
	return resp
}
