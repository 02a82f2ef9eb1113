package audit

import (
	"context"
	"time"
)

// Entry is one append-only audit row. Writes are best-effort: a failed
// audit write never blocks the action it describes.
type Entry struct {
	ID        string
	Action    string
	ActorID   string
	Entity    string
	EntityID  *string
	Success   bool
	Detail    *string
	CreatedAt time.Time
}

// Well-known action names
const (
	ActionClockIn         = "attendance.clock_in"
	ActionClockOut        = "attendance.clock_out"
	ActionBreakStart      = "attendance.break_start"
	ActionBreakEnd        = "attendance.break_end"
	ActionSettingsUpdate  = "company.settings_update"
	ActionUserApprove     = "user.approve"
	ActionUserReject      = "user.reject"
	ActionLeaveDecision   = "leave.decision"
	ActionBugStatusChange = "bug_report.status_change"
)

type Filter struct {
	Action  *string
	ActorID *string
	Page    int
	Limit   int
}

type EntryResponse struct {
	ID        string  `json:"id"`
	Action    string  `json:"action"`
	ActorID   string  `json:"actor_id"`
	Entity    string  `json:"entity"`
	EntityID  *string `json:"entity_id,omitempty"`
	Success   bool    `json:"success"`
	Detail    *string `json:"detail,omitempty"`
	CreatedAt string  `json:"created_at"`
}

// ToResponse maps an Entry to its API shape
func ToResponse(e Entry) EntryResponse {
	return EntryResponse{
		ID:        e.ID,
		Action:    e.Action,
		ActorID:   e.ActorID,
		Entity:    e.Entity,
		EntityID:  e.EntityID,
		Success:   e.Success,
		Detail:    e.Detail,
		CreatedAt: e.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// Repository defines audit log data access
type Repository interface {
	Create(ctx context.Context, e Entry) error
	List(ctx context.Context, filter Filter) ([]Entry, int64, error)
}
