package team

import (
	"context"
)

// Repository defines data access for teams and memberships.
type Repository interface {
	Create(ctx context.Context, t Team) (Team, error)
	GetByID(ctx context.Context, id string) (Team, error)
	List(ctx context.Context, organization string) ([]Team, error)
	Update(ctx context.Context, t Team) error
	Delete(ctx context.Context, id string) error

	AddMember(ctx context.Context, teamID, userID string) error
	RemoveMember(ctx context.Context, teamID, userID string) error
	ListMembers(ctx context.Context, teamID string) ([]Member, error)
	GetTeamOfUser(ctx context.Context, userID string) (*Team, error)
}

// Service defines team management logic.
type Service interface {
	Create(ctx context.Context, req CreateTeamRequest) (TeamResponse, error)
	Get(ctx context.Context, id string) (TeamDetailResponse, error)
	List(ctx context.Context) ([]TeamResponse, error)
	Update(ctx context.Context, req UpdateTeamRequest) (TeamResponse, error)
	Delete(ctx context.Context, id string) error
	AddMember(ctx context.Context, teamID, userID string) error
	RemoveMember(ctx context.Context, teamID, userID string) error
	GetMyTeam(ctx context.Context) (TeamDetailResponse, error)
}
