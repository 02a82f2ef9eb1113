package bugreport

import (
	"time"
)

// Severities
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Statuses
const (
	StatusOpen       = "open"
	StatusInProgress = "in-progress"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"
)

func IsValidSeverity(s string) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

func IsValidStatus(s string) bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

type BugReport struct {
	ID           string
	Organization string
	ReportedBy   string
	Title        string
	Description  string
	Severity     string
	Status       string
	AdminNotes   *string
	ResolvedBy   *string
	ResolvedAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Joined fields
	ReporterName *string
}
