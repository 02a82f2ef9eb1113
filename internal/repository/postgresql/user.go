package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/ems-suite/ems-backend-go/internal/domain/user"
	"github.com/ems-suite/ems-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

const userColumns = `
	u.id, u.name, u.email, u.password_hash, u.role, u.organization,
	u.department, u.position, u.phone, u.manager_id, u.team_lead_id,
	u.reward_points, u.is_approved, u.is_active, u.created_at, u.updated_at,
	m.name AS manager_name, tl.name AS team_lead_name
`

const userJoins = `
	FROM users u
	LEFT JOIN users m ON m.id = u.manager_id
	LEFT JOIN users tl ON tl.id = u.team_lead_id
`

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Organization,
		&u.Department, &u.Position, &u.Phone, &u.ManagerID, &u.TeamLeadID,
		&u.RewardPoints, &u.IsApproved, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
		&u.ManagerName, &u.TeamLeadName,
	)
	return u, err
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO users (
			name, email, password_hash, role, organization,
			department, position, phone, manager_id, team_lead_id,
			is_approved, is_active
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		) RETURNING id, reward_points, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		newUser.Name,
		newUser.Email,
		newUser.PasswordHash,
		newUser.Role,
		newUser.Organization,
		newUser.Department,
		newUser.Position,
		newUser.Phone,
		newUser.ManagerID,
		newUser.TeamLeadID,
		newUser.IsApproved,
		newUser.IsActive,
	).Scan(&newUser.ID, &newUser.RewardPoints, &newUser.CreatedAt, &newUser.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return newUser, nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + userJoins + ` WHERE u.id = $1`

	u, err := scanUser(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return u, nil
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + userJoins + ` WHERE LOWER(u.email) = LOWER($1)`

	u, err := scanUser(q.QueryRow(ctx, query, email))
	if err != nil {
		if err == pgx.ErrNoRows {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context, organization string, filter user.UserFilter) ([]user.User, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"u.organization = $1"}
	args := []interface{}{organization}
	argPos := 2

	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(u.name ILIKE $%d OR u.email ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+*filter.Search+"%")
		argPos++
	}
	if filter.Role != nil && *filter.Role != "" {
		conditions = append(conditions, fmt.Sprintf("u.role = $%d", argPos))
		args = append(args, *filter.Role)
		argPos++
	}
	if filter.Department != nil && *filter.Department != "" {
		conditions = append(conditions, fmt.Sprintf("u.department = $%d", argPos))
		args = append(args, *filter.Department)
		argPos++
	}
	if filter.IsApproved != nil {
		conditions = append(conditions, fmt.Sprintf("u.is_approved = $%d", argPos))
		args = append(args, *filter.IsApproved)
		argPos++
	}
	if filter.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("u.is_active = $%d", argPos))
		args = append(args, *filter.IsActive)
		argPos++
	}

	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM users u` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query := `SELECT ` + userColumns + userJoins + where +
		fmt.Sprintf(" ORDER BY u.name ASC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, total, nil
}

// ListPending implements user.UserRepository.
func (r *userRepositoryImpl) ListPending(ctx context.Context, organization string) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + userJoins + `
		WHERE u.organization = $1 AND u.is_approved = FALSE AND u.is_active = TRUE
		ORDER BY u.created_at ASC`

	rows, err := q.Query(ctx, query, organization)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending users: %w", err)
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pending user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pending users: %w", err)
	}

	return users, nil
}

// Update implements user.UserRepository.
func (r *userRepositoryImpl) Update(ctx context.Context, u user.User) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET name = $1, department = $2, position = $3, phone = $4,
			role = $5, manager_id = $6, team_lead_id = $7, updated_at = NOW()
		WHERE id = $8
	`

	tag, err := q.Exec(ctx, query,
		u.Name, u.Department, u.Position, u.Phone,
		u.Role, u.ManagerID, u.TeamLeadID, u.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// SetApproval implements user.UserRepository.
func (r *userRepositoryImpl) SetApproval(ctx context.Context, id string, approved bool, active bool) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET is_approved = $1, is_active = $2, updated_at = NOW()
		WHERE id = $3
	`

	tag, err := q.Exec(ctx, query, approved, active, id)
	if err != nil {
		return fmt.Errorf("failed to set user approval: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// AddRewardPoints implements user.UserRepository.
func (r *userRepositoryImpl) AddRewardPoints(ctx context.Context, id string, points int) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET reward_points = reward_points + $1, updated_at = NOW()
		WHERE id = $2
	`

	tag, err := q.Exec(ctx, query, points, id)
	if err != nil {
		return fmt.Errorf("failed to add reward points: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// Delete implements user.UserRepository.
func (r *userRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	// Soft delete keeps the attendance history attributable.
	query := `
		UPDATE users
		SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// ListSubordinateIDs implements user.UserRepository.
func (r *userRepositoryImpl) ListSubordinateIDs(ctx context.Context, supervisorID string) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id FROM users
		WHERE (manager_id = $1 OR team_lead_id = $1) AND is_active = TRUE
	`

	rows, err := q.Query(ctx, query, supervisorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subordinates: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan subordinate id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate subordinates: %w", err)
	}

	return ids, nil
}
