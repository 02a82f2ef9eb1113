package team

import (
	"github.com/ems-suite/ems-backend-go/internal/pkg/validator"
)

type CreateTeamRequest struct {
	Name        string  `json:"name"`
	Department  *string `json:"department,omitempty"`
	Description *string `json:"description,omitempty"`
	TeamLeadID  *string `json:"team_lead_id,omitempty"`
	ManagerID   *string `json:"manager_id,omitempty"`
}

func (r *CreateTeamRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}
	if r.TeamLeadID != nil && !validator.IsValidUUID(*r.TeamLeadID) {
		errs = append(errs, validator.ValidationError{Field: "team_lead_id", Message: "team_lead_id must be a valid id"})
	}
	if r.ManagerID != nil && !validator.IsValidUUID(*r.ManagerID) {
		errs = append(errs, validator.ValidationError{Field: "manager_id", Message: "manager_id must be a valid id"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateTeamRequest struct {
	ID          string  `json:"-"`
	Name        *string `json:"name,omitempty"`
	Department  *string `json:"department,omitempty"`
	Description *string `json:"description,omitempty"`
	TeamLeadID  *string `json:"team_lead_id,omitempty"`
	ManagerID   *string `json:"manager_id,omitempty"`
}

type TeamResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Department   *string `json:"department,omitempty"`
	Description  *string `json:"description,omitempty"`
	TeamLeadID   *string `json:"team_lead_id,omitempty"`
	TeamLeadName *string `json:"team_lead_name,omitempty"`
	ManagerID    *string `json:"manager_id,omitempty"`
	ManagerName  *string `json:"manager_name,omitempty"`
	MemberCount  int     `json:"member_count"`
	CreatedAt    string  `json:"created_at"`
}

// ToResponse maps a Team entity to its API shape
func ToResponse(t Team) TeamResponse {
	return TeamResponse{
		ID:           t.ID,
		Name:         t.Name,
		Department:   t.Department,
		Description:  t.Description,
		TeamLeadID:   t.TeamLeadID,
		TeamLeadName: t.TeamLeadName,
		ManagerID:    t.ManagerID,
		ManagerName:  t.ManagerName,
		MemberCount:  t.MemberCount,
		CreatedAt:    t.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

type TeamDetailResponse struct {
	TeamResponse
	Members []Member `json:"members"`
}
