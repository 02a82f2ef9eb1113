package leave

import (
	"time"
)

// LeaveType mirrors the annual quota buckets in the company settings.
type LeaveType string

const (
	TypeCasual LeaveType = "casual"
	TypeSick   LeaveType = "sick"
	TypeEarned LeaveType = "earned"
)

func IsValidType(s string) bool {
	switch LeaveType(s) {
	case TypeCasual, TypeSick, TypeEarned:
		return true
	}
	return false
}

// Request statuses
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type Request struct {
	ID            string
	EmployeeID    string
	Type          LeaveType
	StartDate     time.Time
	EndDate       time.Time
	Days          int
	Reason        string
	Status        string
	ReviewedBy    *string
	ReviewedAt    *time.Time
	ReviewComment *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Joined fields
	EmployeeName *string
	ReviewerName *string
}

// Balance is the per-type remaining allowance for one employee and year.
type Balance struct {
	Type      LeaveType `json:"type"`
	Annual    int       `json:"annual"`
	Used      int       `json:"used"`
	Remaining int       `json:"remaining"`
}
