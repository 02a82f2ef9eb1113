package user

import (
	"time"
)

// Role represents a user role within an organization
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleHR       Role = "hr"
	RoleManager  Role = "manager"
	RoleTeamLead Role = "team-lead"
	RoleEmployee Role = "employee"
)

// AllRoles returns every assignable role
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleHR, RoleManager, RoleTeamLead, RoleEmployee}
}

// IsValidRole checks whether s names a known role
func IsValidRole(s string) bool {
	for _, r := range AllRoles() {
		if string(r) == s {
			return true
		}
	}
	return false
}

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Organization string
	Department   *string
	Position     *string
	Phone        *string
	ManagerID    *string
	TeamLeadID   *string
	RewardPoints int
	IsApproved   bool
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Joined fields
	ManagerName  *string
	TeamLeadName *string
}
