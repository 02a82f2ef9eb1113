package leave

import (
	"time"

	"github.com/ems-suite/ems-backend-go/internal/pkg/validator"
)

type ApplyRequest struct {
	Type      string `json:"type"`
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
	Reason    string `json:"reason"`
}

func (r *ApplyRequest) Validate() error {
	var errs validator.ValidationErrors

	if !IsValidType(r.Type) {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "type must be casual, sick or earned"})
	}

	start, okStart := validator.IsValidDate(r.StartDate)
	if !okStart {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be a YYYY-MM-DD date"})
	}
	end, okEnd := validator.IsValidDate(r.EndDate)
	if !okEnd {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be a YYYY-MM-DD date"})
	}
	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must not be before start_date"})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "reason is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DayCount returns the inclusive number of days requested.
func (r *ApplyRequest) DayCount() int {
	start, _ := validator.IsValidDate(r.StartDate)
	end, _ := validator.IsValidDate(r.EndDate)
	return int(end.Sub(start).Hours()/24) + 1
}

type ReviewRequest struct {
	ID      string  `json:"-"`
	Approve bool    `json:"approve"`
	Comment *string `json:"comment,omitempty"`
}

type RequestFilter struct {
	EmployeeID *string
	Status     *string
	Type       *string
	Page       int
	Limit      int
}

type RequestResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  *string `json:"employee_name,omitempty"`
	Type          string  `json:"type"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	Days          int     `json:"days"`
	Reason        string  `json:"reason"`
	Status        string  `json:"status"`
	ReviewedBy    *string `json:"reviewed_by,omitempty"`
	ReviewerName  *string `json:"reviewer_name,omitempty"`
	ReviewedAt    *string `json:"reviewed_at,omitempty"`
	ReviewComment *string `json:"review_comment,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

// ToResponse maps a Request entity to its API shape
func ToResponse(r Request) RequestResponse {
	resp := RequestResponse{
		ID:            r.ID,
		EmployeeID:    r.EmployeeID,
		EmployeeName:  r.EmployeeName,
		Type:          string(r.Type),
		StartDate:     r.StartDate.Format("2006-01-02"),
		EndDate:       r.EndDate.Format("2006-01-02"),
		Days:          r.Days,
		Reason:        r.Reason,
		Status:        r.Status,
		ReviewedBy:    r.ReviewedBy,
		ReviewerName:  r.ReviewerName,
		ReviewComment: r.ReviewComment,
		CreatedAt:     r.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if r.ReviewedAt != nil {
		reviewedAt := r.ReviewedAt.Format("2006-01-02 15:04:05")
		resp.ReviewedAt = &reviewedAt
	}
	return resp
}

type ListRequestsResponse struct {
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
	Requests   []RequestResponse `json:"requests"`
}

type BalanceResponse struct {
	Year     int       `json:"year"`
	Balances []Balance `json:"balances"`
}

// YearBounds returns the first and last day of the given year.
func YearBounds(year int) (time.Time, time.Time) {
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC)
	return start, end
}
