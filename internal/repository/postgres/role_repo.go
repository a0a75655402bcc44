package postgres

import (
	"context"
	"database/sql"

	"clubconn/internal/domain"
)

// Roles are seeded by the users migration; the table is read-only at runtime.
const (
	roleByCodeQuery = `SELECT id, code FROM roles WHERE code = $1`

	rolesForUserQuery = `
		SELECT r.id, r.code
		FROM roles r
		INNER JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.code
	`
)

type roleRepository struct {
	DB *sql.DB
}

// NewRoleRepository returns a domain.RoleRepository implemented with Postgres.
func NewRoleRepository(db *sql.DB) domain.RoleRepository {
	return &roleRepository{DB: db}
}

func scanRole(row interface{ Scan(...any) error }) (*domain.Role, error) {
	role := &domain.Role{}
	if err := row.Scan(&role.ID, &role.Code); err != nil {
		return nil, err
	}
	return role, nil
}

func (r *roleRepository) GetByCode(ctx context.Context, code string) (*domain.Role, error) {
	role, err := scanRole(r.DB.QueryRowContext(ctx, roleByCodeQuery, code))
	if err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return role, nil
}

// ListByUserID returns the user's roles ordered by code; a user without roles yields an empty slice.
func (r *roleRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Role, error) {
	rows, err := r.DB.QueryContext(ctx, rolesForUserQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := make([]*domain.Role, 0, 2)
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}
