package postgresql

import (
	"context"
	"fmt"

	"github.com/ems-suite/ems-backend-go/internal/domain/team"
	"github.com/ems-suite/ems-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type teamRepositoryImpl struct {
	db *database.DB
}

func NewTeamRepository(db *database.DB) team.Repository {
	return &teamRepositoryImpl{db: db}
}

const teamColumns = `
	t.id, t.name, t.organization, t.department, t.description,
	t.team_lead_id, t.manager_id, t.created_at, t.updated_at,
	tl.name AS team_lead_name, m.name AS manager_name,
	(SELECT COUNT(*) FROM team_members tm WHERE tm.team_id = t.id) AS member_count
`

const teamJoins = `
	FROM teams t
	LEFT JOIN users tl ON tl.id = t.team_lead_id
	LEFT JOIN users m ON m.id = t.manager_id
`

func scanTeam(row pgx.Row) (team.Team, error) {
	var t team.Team
	err := row.Scan(
		&t.ID, &t.Name, &t.Organization, &t.Department, &t.Description,
		&t.TeamLeadID, &t.ManagerID, &t.CreatedAt, &t.UpdatedAt,
		&t.TeamLeadName, &t.ManagerName, &t.MemberCount,
	)
	return t, err
}

// Create implements team.Repository.
func (r *teamRepositoryImpl) Create(ctx context.Context, t team.Team) (team.Team, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO teams (name, organization, department, description, team_lead_id, manager_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		t.Name, t.Organization, t.Department, t.Description, t.TeamLeadID, t.ManagerID,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return team.Team{}, team.ErrNameExists
		}
		return team.Team{}, fmt.Errorf("failed to create team: %w", err)
	}

	return t, nil
}

// GetByID implements team.Repository.
func (r *teamRepositoryImpl) GetByID(ctx context.Context, id string) (team.Team, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + teamColumns + teamJoins + ` WHERE t.id = $1`

	t, err := scanTeam(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return team.Team{}, team.ErrTeamNotFound
		}
		return team.Team{}, fmt.Errorf("failed to get team: %w", err)
	}
	return t, nil
}

// List implements team.Repository.
func (r *teamRepositoryImpl) List(ctx context.Context, organization string) ([]team.Team, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + teamColumns + teamJoins + ` WHERE t.organization = $1 ORDER BY t.name ASC`

	rows, err := q.Query(ctx, query, organization)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []team.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate teams: %w", err)
	}

	return teams, nil
}

// Update implements team.Repository.
func (r *teamRepositoryImpl) Update(ctx context.Context, t team.Team) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE teams
		SET name = $1, department = $2, description = $3,
			team_lead_id = $4, manager_id = $5, updated_at = NOW()
		WHERE id = $6
	`

	tag, err := q.Exec(ctx, query,
		t.Name, t.Department, t.Description, t.TeamLeadID, t.ManagerID, t.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return team.ErrNameExists
		}
		return fmt.Errorf("failed to update team: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return team.ErrTeamNotFound
	}
	return nil
}

// Delete implements team.Repository.
func (r *teamRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return team.ErrTeamNotFound
	}
	return nil
}

// AddMember implements team.Repository.
func (r *teamRepositoryImpl) AddMember(ctx context.Context, teamID, userID string) error {
	q := GetQuerier(ctx, r.db)

	query := `INSERT INTO team_members (team_id, user_id) VALUES ($1, $2)`

	_, err := q.Exec(ctx, query, teamID, userID)
	if err != nil {
		if isUniqueViolation(err) {
			return team.ErrAlreadyMember
		}
		return fmt.Errorf("failed to add team member: %w", err)
	}
	return nil
}

// RemoveMember implements team.Repository.
func (r *teamRepositoryImpl) RemoveMember(ctx context.Context, teamID, userID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM team_members WHERE team_id = $1 AND user_id = $2`, teamID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove team member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return team.ErrNotMember
	}
	return nil
}

// ListMembers implements team.Repository.
func (r *teamRepositoryImpl) ListMembers(ctx context.Context, teamID string) ([]team.Member, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT u.id, u.name, u.email, u.role, u.department,
			   to_char(tm.joined_at, 'YYYY-MM-DD HH24:MI:SS')
		FROM team_members tm
		JOIN users u ON u.id = tm.user_id
		WHERE tm.team_id = $1
		ORDER BY u.name ASC
	`

	rows, err := q.Query(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	defer rows.Close()

	var members []team.Member
	for rows.Next() {
		var m team.Member
		if err := rows.Scan(&m.UserID, &m.Name, &m.Email, &m.Role, &m.Department, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate team members: %w", err)
	}

	return members, nil
}

// GetTeamOfUser implements team.Repository.
func (r *teamRepositoryImpl) GetTeamOfUser(ctx context.Context, userID string) (*team.Team, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + teamColumns + teamJoins + `
		JOIN team_members tm ON tm.team_id = t.id
		WHERE tm.user_id = $1
		LIMIT 1`

	t, err := scanTeam(q.QueryRow(ctx, query, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get team of user: %w", err)
	}
	return &t, nil
}
