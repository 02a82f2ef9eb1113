package leave

import (
	"context"
	"time"
)

// Repository defines data access for leave requests.
type Repository interface {
	Create(ctx context.Context, r Request) (Request, error)
	GetByID(ctx context.Context, id string) (Request, error)
	Update(ctx context.Context, r Request) error
	List(ctx context.Context, organization string, filter RequestFilter) ([]Request, int64, error)
	ListByEmployee(ctx context.Context, employeeID string, filter RequestFilter) ([]Request, int64, error)

	// HasOverlap reports whether the employee already has a pending or
	// approved request touching [start, end].
	HasOverlap(ctx context.Context, employeeID string, start, end time.Time) (bool, error)

	// UsedDays sums approved days per type for the employee within a year.
	UsedDays(ctx context.Context, employeeID string, leaveType LeaveType, yearStart, yearEnd time.Time) (int, error)
}

// Service defines the leave workflow.
type Service interface {
	Apply(ctx context.Context, req ApplyRequest) (RequestResponse, error)
	Review(ctx context.Context, req ReviewRequest) (RequestResponse, error)
	Cancel(ctx context.Context, id string) error
	List(ctx context.Context, filter RequestFilter) (ListRequestsResponse, error)
	GetBalance(ctx context.Context, employeeID *string, year int) (BalanceResponse, error)
}
