package postgres

import (
	"context"
	"database/sql"

	"clubconn/internal/domain"
)

type clubMemberRepository struct {
	DB *sql.DB
}

// NewClubMemberRepository returns a domain.ClubMemberRepository implemented with Postgres.
func NewClubMemberRepository(db *sql.DB) domain.ClubMemberRepository {
	return &clubMemberRepository{DB: db}
}

func (r *clubMemberRepository) Add(ctx context.Context, clubID, userID, role string) error {
	query := `
		INSERT INTO club_members (club_id, user_id, role)
		VALUES ($1, $2, $3)
	`
	_, err := r.DB.ExecContext(ctx, query, clubID, userID, role)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyMember
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *clubMemberRepository) Get(ctx context.Context, clubID, userID string) (*domain.ClubMember, error) {
	query := `
		SELECT m.club_id, m.user_id, m.role, u.name, u.last_name, m.joined_at
		FROM club_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.club_id = $1 AND m.user_id = $2
	`
	m := &domain.ClubMember{}
	err := r.DB.QueryRowContext(ctx, query, clubID, userID).
		Scan(&m.ClubID, &m.UserID, &m.Role, &m.Name, &m.LastName, &m.JoinedAt)
	if err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return m, nil
}

func (r *clubMemberRepository) ListByClubID(ctx context.Context, clubID string) ([]*domain.ClubMember, error) {
	query := `
		SELECT m.club_id, m.user_id, m.role, u.name, u.last_name, m.joined_at
		FROM club_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.club_id = $1
		ORDER BY m.role DESC, m.joined_at
	`
	rows, err := r.DB.QueryContext(ctx, query, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]*domain.ClubMember, 0)
	for rows.Next() {
		m := &domain.ClubMember{}
		if err := rows.Scan(&m.ClubID, &m.UserID, &m.Role, &m.Name, &m.LastName, &m.JoinedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *clubMemberRepository) SetRole(ctx context.Context, clubID, userID, role string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE club_members SET role = $1 WHERE club_id = $2 AND user_id = $3`, role, clubID, userID)
	if err != nil {
		return err
	}
	return expectOneRow(res, domain.ErrNotFound)
}

func (r *clubMemberRepository) Remove(ctx context.Context, clubID, userID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM club_members WHERE club_id = $1 AND user_id = $2`, clubID, userID)
	if err != nil {
		return err
	}
	return expectOneRow(res, domain.ErrNotFound)
}
