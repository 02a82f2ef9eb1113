package user

import (
	"github.com/ems-suite/ems-backend-go/internal/pkg/validator"
)

type UpdateUserRequest struct {
	ID         string  `json:"-"`
	Name       *string `json:"name,omitempty"`
	Role       *string `json:"role,omitempty"`
	Department *string `json:"department,omitempty"`
	Position   *string `json:"position,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	ManagerID  *string `json:"manager_id,omitempty"`
	TeamLeadID *string `json:"team_lead_id,omitempty"`
	IsActive   *bool   `json:"is_active,omitempty"`
}

func (r *UpdateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "user id is required"})
	}

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name must not be empty"})
	}

	if r.Role != nil && !IsValidRole(*r.Role) {
		errs = append(errs, validator.ValidationError{Field: "role", Message: "unknown role"})
	}

	if r.ManagerID != nil && !validator.IsValidUUID(*r.ManagerID) {
		errs = append(errs, validator.ValidationError{Field: "manager_id", Message: "manager_id must be a valid id"})
	}

	if r.TeamLeadID != nil && !validator.IsValidUUID(*r.TeamLeadID) {
		errs = append(errs, validator.ValidationError{Field: "team_lead_id", Message: "team_lead_id must be a valid id"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UserFilter struct {
	Search     *string
	Role       *string
	Department *string
	IsApproved *bool
	IsActive   *bool
	Page       int
	Limit      int
}

type UserResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Role         string  `json:"role"`
	Organization string  `json:"organization"`
	Department   *string `json:"department,omitempty"`
	Position     *string `json:"position,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	ManagerID    *string `json:"manager_id,omitempty"`
	ManagerName  *string `json:"manager_name,omitempty"`
	TeamLeadID   *string `json:"team_lead_id,omitempty"`
	TeamLeadName *string `json:"team_lead_name,omitempty"`
	RewardPoints int     `json:"reward_points"`
	IsApproved   bool    `json:"is_approved"`
	IsActive     bool    `json:"is_active"`
	CreatedAt    string  `json:"created_at"`
}

// ToResponse maps a User entity to its API shape
func ToResponse(u User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         string(u.Role),
		Organization: u.Organization,
		Department:   u.Department,
		Position:     u.Position,
		Phone:        u.Phone,
		ManagerID:    u.ManagerID,
		ManagerName:  u.ManagerName,
		TeamLeadID:   u.TeamLeadID,
		TeamLeadName: u.TeamLeadName,
		RewardPoints: u.RewardPoints,
		IsApproved:   u.IsApproved,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

type ListUsersResponse struct {
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
	Users      []UserResponse `json:"users"`
}
