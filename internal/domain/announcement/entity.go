package announcement

import (
	"time"
)

// Priorities
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

func IsValidPriority(s string) bool {
	switch s {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Announcement targets all employees of the organization unless
// Departments narrows it. ExpiresAt hides it from listings once passed.
type Announcement struct {
	ID           string
	Organization string
	Title        string
	Body         string
	Priority     string
	Departments  []string
	CreatedBy    string
	ExpiresAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Joined fields
	AuthorName *string
	IsRead     bool
	ReadCount  int
}

// TargetsDepartment reports whether the announcement reaches a user in the
// given department. An empty Departments list targets everyone.
func (a *Announcement) TargetsDepartment(department *string) bool {
	if len(a.Departments) == 0 {
		return true
	}
	if department == nil {
		return false
	}
	for _, d := range a.Departments {
		if d == *department {
			return true
		}
	}
	return false
}

// IsExpired reports whether the announcement is past its expiry as of now.
func (a *Announcement) IsExpired(now time.Time) bool {
	return a.ExpiresAt != nil && now.After(*a.ExpiresAt)
}
