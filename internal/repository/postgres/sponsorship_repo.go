package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"clubconn/internal/domain"
)

type sponsorshipRepository struct {
	DB *sql.DB
}

// NewSponsorshipRepository returns a domain.SponsorshipRepository implemented with Postgres.
func NewSponsorshipRepository(db *sql.DB) domain.SponsorshipRepository {
	return &sponsorshipRepository{DB: db}
}

const sponsorshipColumns = `s.id, s.sponsor_id, s.club_id, s.package_id, s.status, s.message, s.impressions, s.clicks, s.created_at, s.updated_at`

func scanSponsorship(row interface{ Scan(...any) error }, extra ...any) (*domain.Sponsorship, error) {
	s := &domain.Sponsorship{}
	var pkg sql.NullString
	dest := append([]any{&s.ID, &s.SponsorID, &s.ClubID, &pkg, &s.Status, &s.Message, &s.Impressions, &s.Clicks,
		&s.CreatedAt, &s.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if pkg.Valid {
		s.PackageID = &pkg.String
	}
	return s, nil
}

func (r *sponsorshipRepository) Create(ctx context.Context, s *domain.Sponsorship) error {
	query := `
		INSERT INTO sponsorships (sponsor_id, club_id, package_id, status, message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, s.SponsorID, s.ClubID, s.PackageID, s.Status, s.Message, s.CreatedAt, s.UpdatedAt).
		Scan(&s.ID)
	if isForeignKeyViolation(err) {
		return domain.ErrNotFound
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: an application for this club is already pending or active", domain.ErrConflict)
	}
	return err
}

func (r *sponsorshipRepository) GetByID(ctx context.Context, id string) (*domain.Sponsorship, error) {
	s, err := scanSponsorship(r.DB.QueryRowContext(ctx, `SELECT `+sponsorshipColumns+` FROM sponsorships s WHERE s.id = $1`, id))
	if err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return s, nil
}

// FindOpen returns a pending or active sponsorship for the same sponsor, club and package.
func (r *sponsorshipRepository) FindOpen(ctx context.Context, sponsorID, clubID string, packageID *string) (*domain.Sponsorship, error) {
	query := `SELECT ` + sponsorshipColumns + ` FROM sponsorships s
		WHERE s.sponsor_id = $1 AND s.club_id = $2 AND s.package_id IS NOT DISTINCT FROM $3
			AND s.status IN ('pending', 'active')
		LIMIT 1`
	s, err := scanSponsorship(r.DB.QueryRowContext(ctx, query, sponsorID, clubID, packageID))
	if err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return s, nil
}

// ListByClubID lists a club's sponsorships, newest first; an empty status lists all.
func (r *sponsorshipRepository) ListByClubID(ctx context.Context, clubID, status string) ([]*domain.Sponsorship, error) {
	query := `SELECT ` + sponsorshipColumns + ` FROM sponsorships s
		WHERE s.club_id = $1 AND ($2 = '' OR s.status = $2)
		ORDER BY s.created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, clubID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*domain.Sponsorship, 0)
	for rows.Next() {
		s, err := scanSponsorship(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *sponsorshipRepository) ListActiveWithSponsor(ctx context.Context, clubID string) ([]*domain.ActiveSponsorship, error) {
	query := `SELECT ` + sponsorshipColumns + `, sp.name, sp.website, sp.logo_url
		FROM sponsorships s
		JOIN sponsors sp ON sp.id = s.sponsor_id
		WHERE s.club_id = $1 AND s.status = 'active'
		ORDER BY sp.name`
	rows, err := r.DB.QueryContext(ctx, query, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*domain.ActiveSponsorship, 0)
	for rows.Next() {
		a := &domain.ActiveSponsorship{}
		s, err := scanSponsorship(rows, &a.SponsorName, &a.Website, &a.LogoURL)
		if err != nil {
			return nil, err
		}
		a.Sponsorship = s
		out = append(out, a)
	}
	return out, rows.Err()
}

// SetStatus moves a pending sponsorship to status. Only one caller can win the transition;
// the others get ErrInvalidInput naming the status the row already has.
func (r *sponsorshipRepository) SetStatus(ctx context.Context, id, status string) (*domain.Sponsorship, error) {
	query := `UPDATE sponsorships s SET status = $1, updated_at = NOW()
		WHERE s.id = $2 AND s.status = 'pending'
		RETURNING ` + sponsorshipColumns
	s, err := scanSponsorship(r.DB.QueryRowContext(ctx, query, status, id))
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	var current string
	if err := r.DB.QueryRowContext(ctx, `SELECT status FROM sponsorships WHERE id = $1`, id).Scan(&current); err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return nil, fmt.Errorf("%w: sponsorship is already %s", domain.ErrInvalidInput, current)
}

func (r *sponsorshipRepository) IncrementImpressions(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE sponsorships SET impressions = impressions + 1 WHERE id = $1 AND status = 'active'`, id)
	if err != nil {
		return err
	}
	return expectOneRow(res, domain.ErrNotFound)
}

func (r *sponsorshipRepository) IncrementClicks(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE sponsorships SET clicks = clicks + 1 WHERE id = $1 AND status = 'active'`, id)
	if err != nil {
		return err
	}
	return expectOneRow(res, domain.ErrNotFound)
}
