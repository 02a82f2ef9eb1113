package bugreport

import (
	"github.com/ems-suite/ems-backend-go/internal/pkg/validator"
)

type CreateBugReportRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    string `json:"severity,omitempty"`
}

func (r *CreateBugReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Title) {
		errs = append(errs, validator.ValidationError{Field: "title", Message: "title is required"})
	}
	if validator.IsEmpty(r.Description) {
		errs = append(errs, validator.ValidationError{Field: "description", Message: "description is required"})
	}
	if r.Severity != "" && !IsValidSeverity(r.Severity) {
		errs = append(errs, validator.ValidationError{Field: "severity", Message: "severity must be low, medium, high or critical"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateBugReportRequest struct {
	ID         string  `json:"-"`
	Status     string  `json:"status"`
	AdminNotes *string `json:"admin_notes,omitempty"`
}

func (r *UpdateBugReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "must be a valid UUID"})
	}
	if !IsValidStatus(r.Status) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be open, in-progress, resolved or closed"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BugReportFilter struct {
	Status   string
	Severity string
	Page     int
	Limit    int
}

func (f *BugReportFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != "" && !IsValidStatus(f.Status) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be open, in-progress, resolved or closed"})
	}
	if f.Severity != "" && !IsValidSeverity(f.Severity) {
		errs = append(errs, validator.ValidationError{Field: "severity", Message: "severity must be low, medium, high or critical"})
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BugReportResponse struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Severity     string  `json:"severity"`
	Status       string  `json:"status"`
	AdminNotes   *string `json:"admin_notes,omitempty"`
	ReporterName *string `json:"reporter_name,omitempty"`
	ResolvedAt   *string `json:"resolved_at,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

// ToResponse maps a BugReport entity to its API shape
func ToResponse(b BugReport) BugReportResponse {
	resp := BugReportResponse{
		ID:           b.ID,
		Title:        b.Title,
		Description:  b.Description,
		Severity:     b.Severity,
		Status:       b.Status,
		AdminNotes:   b.AdminNotes,
		ReporterName: b.ReporterName,
		CreatedAt:    b.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if b.ResolvedAt != nil {
		resolved := b.ResolvedAt.Format("2006-01-02 15:04:05")
		resp.ResolvedAt = &resolved
	}
	return resp
}

type ListBugReportsResponse struct {
	Reports []BugReportResponse `json:"reports"`
	Total   int                 `json:"total"`
	Page    int                 `json:"page"`
	Limit   int                 `json:"limit"`
}
