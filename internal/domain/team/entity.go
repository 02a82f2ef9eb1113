package team

import (
	"time"
)

type Team struct {
	ID           string
	Name         string
	Organization string
	Department   *string
	Description  *string
	TeamLeadID   *string
	ManagerID    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Joined fields
	TeamLeadName *string
	ManagerName  *string
	MemberCount  int
}

type Member struct {
	UserID     string  `json:"user_id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Role       string  `json:"role"`
	Department *string `json:"department,omitempty"`
	JoinedAt   string  `json:"joined_at"`
}
