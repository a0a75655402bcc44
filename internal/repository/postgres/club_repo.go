package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"clubconn/internal/domain"
)

type clubRepository struct {
	DB *sql.DB
}

// NewClubRepository returns a domain.ClubRepository implemented with Postgres.
func NewClubRepository(db *sql.DB) domain.ClubRepository {
	return &clubRepository{DB: db}
}

const clubSelect = `
	SELECT c.id, c.name, c.slug, c.description, c.category, c.logo_url, c.contact_email, c.owner_id,
		(SELECT COUNT(*) FROM club_members m WHERE m.club_id = c.id) AS member_count,
		c.created_at, c.updated_at
	FROM clubs c
`

func scanClub(row interface{ Scan(...any) error }) (*domain.Club, error) {
	c := &domain.Club{}
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Category, &c.LogoURL, &c.ContactEmail, &c.OwnerID,
		&c.MemberCount, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Create inserts the club and its owner's officer membership in one transaction.
func (r *clubRepository) Create(ctx context.Context, c *domain.Club) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO clubs (name, slug, description, category, logo_url, contact_email, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, query, c.Name, c.Slug, c.Description, c.Category, c.LogoURL, c.ContactEmail,
		c.OwnerID, c.CreatedAt, c.UpdatedAt).Scan(&c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO club_members (club_id, user_id, role) VALUES ($1, $2, $3)`,
		c.ID, c.OwnerID, domain.ClubRoleOfficer)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: club owner does not exist", domain.ErrInvalidInput)
		}
		return err
	}
	return tx.Commit()
}

func (r *clubRepository) GetByID(ctx context.Context, id string) (*domain.Club, error) {
	c, err := scanClub(r.DB.QueryRowContext(ctx, clubSelect+` WHERE c.id = $1`, id))
	if err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return c, nil
}

func (r *clubRepository) GetBySlug(ctx context.Context, slug string) (*domain.Club, error) {
	c, err := scanClub(r.DB.QueryRowContext(ctx, clubSelect+` WHERE c.slug = $1`, slug))
	if err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return c, nil
}

// clubWhere builds the WHERE clause for a filter; args are numbered from $1.
func clubWhere(filter domain.ClubFilter) (string, []any) {
	var conds []string
	var args []any
	if s := strings.TrimSpace(filter.Search); s != "" {
		args = append(args, "%"+s+"%")
		conds = append(conds, fmt.Sprintf("(c.name ILIKE $%d OR c.description ILIKE $%d)", len(args), len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conds = append(conds, fmt.Sprintf("c.category = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *clubRepository) List(ctx context.Context, filter domain.ClubFilter, params domain.PaginationParams) ([]*domain.Club, int, error) {
	where, args := clubWhere(filter)

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM clubs c`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := clubSelect + where + fmt.Sprintf(" ORDER BY c.name, c.id LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, params.Limit(), params.Offset())
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	clubs := make([]*domain.Club, 0)
	for rows.Next() {
		c, err := scanClub(rows)
		if err != nil {
			return nil, 0, err
		}
		clubs = append(clubs, c)
	}
	return clubs, total, rows.Err()
}

func (r *clubRepository) ListByMember(ctx context.Context, userID string) ([]*domain.Club, error) {
	query := clubSelect + `
		JOIN club_members cm ON cm.club_id = c.id
		WHERE cm.user_id = $1
		ORDER BY c.name
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clubs := make([]*domain.Club, 0)
	for rows.Next() {
		c, err := scanClub(rows)
		if err != nil {
			return nil, err
		}
		clubs = append(clubs, c)
	}
	return clubs, rows.Err()
}

func (r *clubRepository) Update(ctx context.Context, id string, upd domain.ClubUpdate) (*domain.Club, error) {
	query := `
		UPDATE clubs SET
			description = COALESCE($1, description),
			category = COALESCE($2, category),
			logo_url = COALESCE($3, logo_url),
			contact_email = COALESCE($4, contact_email),
			updated_at = NOW()
		WHERE id = $5
	`
	res, err := r.DB.ExecContext(ctx, query, upd.Description, upd.Category, upd.LogoURL, upd.ContactEmail, id)
	if err != nil {
		return nil, err
	}
	if err := expectOneRow(res, domain.ErrNotFound); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *clubRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM clubs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOneRow(res, domain.ErrNotFound)
}
