package team

import (
	"context"
	"fmt"

	"github.com/ems-suite/ems-backend-go/internal/domain/team"
	"github.com/ems-suite/ems-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
)

type TeamServiceImpl struct {
	teamRepo team.Repository
	userRepo user.UserRepository
}

func NewTeamService(teamRepo team.Repository, userRepo user.UserRepository) team.Service {
	return &TeamServiceImpl{
		teamRepo: teamRepo,
		userRepo: userRepo,
	}
}

type requester struct {
	userID       string
	organization string
	role         user.Role
}

func requesterFromContext(ctx context.Context) (requester, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return requester{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return requester{}, fmt.Errorf("user_id claim is missing or invalid")
	}
	organization, ok := claims["organization"].(string)
	if !ok || organization == "" {
		return requester{}, fmt.Errorf("organization claim is missing or invalid")
	}
	role, _ := claims["role"].(string)

	return requester{
		userID:       userID,
		organization: organization,
		role:         user.Role(role),
	}, nil
}

// Create implements team.Service.
func (s *TeamServiceImpl) Create(ctx context.Context, createReq team.CreateTeamRequest) (team.TeamResponse, error) {
	req, err := requesterFromContext(ctx)
	if err != nil {
		return team.TeamResponse{}, err
	}
	if !user.HasPermission(req.role, user.PermissionManageTeams) {
		return team.TeamResponse{}, user.ErrManagerAccessRequired
	}
	if err := createReq.Validate(); err != nil {
		return team.TeamResponse{}, err
	}

	created, err := s.teamRepo.Create(ctx, team.Team{
		Name:         createReq.Name,
		Organization: req.organization,
		Department:   createReq.Department,
		Description:  createReq.Description,
		TeamLeadID:   createReq.TeamLeadID,
		ManagerID:    createReq.ManagerID,
	})
	if err != nil {
		return team.TeamResponse{}, err
	}
	return team.ToResponse(created), nil
}

// Get implements team.Service.
func (s *TeamServiceImpl) Get(ctx context.Context, id string) (team.TeamDetailResponse, error) {
	req, err := requesterFromContext(ctx)
	if err != nil {
		return team.TeamDetailResponse{}, err
	}

	t, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return team.TeamDetailResponse{}, err
	}
	if t.Organization != req.organization {
		return team.TeamDetailResponse{}, team.ErrTeamNotFound
	}

	members, err := s.teamRepo.ListMembers(ctx, id)
	if err != nil {
		return team.TeamDetailResponse{}, err
	}

	return team.TeamDetailResponse{
		TeamResponse: team.ToResponse(t),
		Members:      members,
	}, nil
}

// List implements team.Service.
func (s *TeamServiceImpl) List(ctx context.Context) ([]team.TeamResponse, error) {
	req, err := requesterFromContext(ctx)
	if err != nil {
		return nil, err
	}

	teams, err := s.teamRepo.List(ctx, req.organization)
	if err != nil {
		return nil, err
	}

	responses := make([]team.TeamResponse, 0, len(teams))
	for _, t := range teams {
		responses = append(responses, team.ToResponse(t))
	}
	return responses, nil
}

// Update implements team.Service.
func (s *TeamServiceImpl) Update(ctx context.Context, updateReq team.UpdateTeamRequest) (team.TeamResponse, error) {
	req, err := requesterFromContext(ctx)
	if err != nil {
		return team.TeamResponse{}, err
	}
	if !user.HasPermission(req.role, user.PermissionManageTeams) {
		return team.TeamResponse{}, user.ErrManagerAccessRequired
	}

	t, err := s.teamRepo.GetByID(ctx, updateReq.ID)
	if err != nil {
		return team.TeamResponse{}, err
	}
	if t.Organization != req.organization {
		return team.TeamResponse{}, team.ErrTeamNotFound
	}

	if updateReq.Name != nil {
		t.Name = *updateReq.Name
	}
	if updateReq.Department != nil {
		t.Department = updateReq.Department
	}
	if updateReq.Description != nil {
		t.Description = updateReq.Description
	}
	if updateReq.TeamLeadID != nil {
		t.TeamLeadID = updateReq.TeamLeadID
	}
	if updateReq.ManagerID != nil {
		t.ManagerID = updateReq.ManagerID
	}

	if err := s.teamRepo.Update(ctx, t); err != nil {
		return team.TeamResponse{}, err
	}

	updated, err := s.teamRepo.GetByID(ctx, t.ID)
	if err != nil {
		return team.TeamResponse{}, err
	}
	return team.ToResponse(updated), nil
}

// Delete implements team.Service.
func (s *TeamServiceImpl) Delete(ctx context.Context, id string) error {
	req, err := requesterFromContext(ctx)
	if err != nil {
		return err
	}
	if !user.HasPermission(req.role, user.PermissionManageTeams) {
		return user.ErrManagerAccessRequired
	}

	t, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if t.Organization != req.organization {
		return team.ErrTeamNotFound
	}

	return s.teamRepo.Delete(ctx, id)
}

// AddMember implements team.Service. Membership also wires the user's
// manager and team lead references so attendance scoping follows.
func (s *TeamServiceImpl) AddMember(ctx context.Context, teamID, userID string) error {
	req, err := requesterFromContext(ctx)
	if err != nil {
		return err
	}
	if !user.HasPermission(req.role, user.PermissionManageTeams) {
		return user.ErrManagerAccessRequired
	}

	t, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return err
	}
	if t.Organization != req.organization {
		return team.ErrTeamNotFound
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u.Organization != req.organization {
		return user.ErrUserNotFound
	}

	if err := s.teamRepo.AddMember(ctx, teamID, userID); err != nil {
		return err
	}

	u.ManagerID = t.ManagerID
	u.TeamLeadID = t.TeamLeadID
	return s.userRepo.Update(ctx, u)
}

// RemoveMember implements team.Service.
func (s *TeamServiceImpl) RemoveMember(ctx context.Context, teamID, userID string) error {
	req, err := requesterFromContext(ctx)
	if err != nil {
		return err
	}
	if !user.HasPermission(req.role, user.PermissionManageTeams) {
		return user.ErrManagerAccessRequired
	}

	t, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return err
	}
	if t.Organization != req.organization {
		return team.ErrTeamNotFound
	}

	return s.teamRepo.RemoveMember(ctx, teamID, userID)
}

// GetMyTeam implements team.Service.
func (s *TeamServiceImpl) GetMyTeam(ctx context.Context) (team.TeamDetailResponse, error) {
	req, err := requesterFromContext(ctx)
	if err != nil {
		return team.TeamDetailResponse{}, err
	}

	t, err := s.teamRepo.GetTeamOfUser(ctx, req.userID)
	if err != nil {
		return team.TeamDetailResponse{}, err
	}
	if t == nil {
		return team.TeamDetailResponse{}, team.ErrTeamNotFound
	}

	members, err := s.teamRepo.ListMembers(ctx, t.ID)
	if err != nil {
		return team.TeamDetailResponse{}, err
	}

	return team.TeamDetailResponse{
		TeamResponse: team.ToResponse(*t),
		Members:      members,
	}, nil
}
