package user

import (
	"context"
)

// UserRepository defines data access for users
type UserRepository interface {
	Create(ctx context.Context, u User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	List(ctx context.Context, organization string, filter UserFilter) ([]User, int64, error)
	ListPending(ctx context.Context, organization string) ([]User, error)
	Update(ctx context.Context, u User) error
	SetApproval(ctx context.Context, id string, approved bool, active bool) error
	AddRewardPoints(ctx context.Context, id string, points int) error
	Delete(ctx context.Context, id string) error

	// ListSubordinateIDs returns the ids of users whose manager or team lead
	// reference equals supervisorID.
	ListSubordinateIDs(ctx context.Context, supervisorID string) ([]string, error)
}

// UserService defines business logic for user management
type UserService interface {
	GetMe(ctx context.Context) (UserResponse, error)
	Get(ctx context.Context, id string) (UserResponse, error)
	List(ctx context.Context, filter UserFilter) (ListUsersResponse, error)
	ListPending(ctx context.Context) ([]UserResponse, error)
	Update(ctx context.Context, req UpdateUserRequest) (UserResponse, error)
	Approve(ctx context.Context, id string) (UserResponse, error)
	Reject(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
