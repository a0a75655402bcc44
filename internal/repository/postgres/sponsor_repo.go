package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"clubconn/internal/domain"
)

type sponsorRepository struct {
	DB *sql.DB
}

// NewSponsorRepository returns a domain.SponsorRepository implemented with Postgres.
func NewSponsorRepository(db *sql.DB) domain.SponsorRepository {
	return &sponsorRepository{DB: db}
}

const sponsorColumns = `id, owner_id, name, website, logo_url, contact_email, created_at, updated_at`

func scanSponsor(row interface{ Scan(...any) error }) (*domain.Sponsor, error) {
	s := &domain.Sponsor{}
	if err := row.Scan(&s.ID, &s.OwnerID, &s.Name, &s.Website, &s.LogoURL, &s.ContactEmail, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *sponsorRepository) Create(ctx context.Context, s *domain.Sponsor) error {
	query := `
		INSERT INTO sponsors (owner_id, name, website, logo_url, contact_email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, s.OwnerID, s.Name, s.Website, s.LogoURL, s.ContactEmail, s.CreatedAt, s.UpdatedAt).
		Scan(&s.ID)
}

func (r *sponsorRepository) GetByID(ctx context.Context, id string) (*domain.Sponsor, error) {
	s, err := scanSponsor(r.DB.QueryRowContext(ctx, `SELECT `+sponsorColumns+` FROM sponsors WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return s, nil
}

func (r *sponsorRepository) ListByOwnerID(ctx context.Context, ownerID string) ([]*domain.Sponsor, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+sponsorColumns+` FROM sponsors WHERE owner_id = $1 ORDER BY name`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*domain.Sponsor, 0)
	for rows.Next() {
		s, err := scanSponsor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *sponsorRepository) Update(ctx context.Context, id string, upd domain.SponsorUpdate) (*domain.Sponsor, error) {
	query := `
		UPDATE sponsors SET
			name = COALESCE($1, name),
			website = COALESCE($2, website),
			logo_url = COALESCE($3, logo_url),
			contact_email = COALESCE($4, contact_email),
			updated_at = NOW()
		WHERE id = $5
		RETURNING ` + sponsorColumns
	s, err := scanSponsor(r.DB.QueryRowContext(ctx, query, upd.Name, upd.Website, upd.LogoURL, upd.ContactEmail, id))
	if err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return s, nil
}

type sponsorshipPackageRepository struct {
	DB *sql.DB
}

// NewSponsorshipPackageRepository returns a domain.SponsorshipPackageRepository implemented with Postgres.
func NewSponsorshipPackageRepository(db *sql.DB) domain.SponsorshipPackageRepository {
	return &sponsorshipPackageRepository{DB: db}
}

const packageColumns = `id, club_id, title, description, price_cents, perks, created_at, updated_at`

func scanPackage(row interface{ Scan(...any) error }) (*domain.SponsorshipPackage, error) {
	p := &domain.SponsorshipPackage{}
	var perks pq.StringArray
	if err := row.Scan(&p.ID, &p.ClubID, &p.Title, &p.Description, &p.PriceCents, &perks, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Perks = []string(perks)
	if p.Perks == nil {
		p.Perks = []string{}
	}
	return p, nil
}

func (r *sponsorshipPackageRepository) Create(ctx context.Context, p *domain.SponsorshipPackage) error {
	query := `
		INSERT INTO sponsorship_packages (club_id, title, description, price_cents, perks, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, p.ClubID, p.Title, p.Description, p.PriceCents, pq.Array(p.Perks), p.CreatedAt, p.UpdatedAt).
		Scan(&p.ID)
	if isForeignKeyViolation(err) {
		return domain.ErrNotFound
	}
	return err
}

func (r *sponsorshipPackageRepository) GetByID(ctx context.Context, id string) (*domain.SponsorshipPackage, error) {
	p, err := scanPackage(r.DB.QueryRowContext(ctx, `SELECT `+packageColumns+` FROM sponsorship_packages WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return p, nil
}

// List returns packages ordered by price; an empty clubID lists the whole marketplace.
func (r *sponsorshipPackageRepository) List(ctx context.Context, clubID string) ([]*domain.SponsorshipPackage, error) {
	query := `SELECT ` + packageColumns + ` FROM sponsorship_packages
		WHERE ($1 = '' OR club_id::text = $1)
		ORDER BY price_cents, title`
	rows, err := r.DB.QueryContext(ctx, query, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*domain.SponsorshipPackage, 0)
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *sponsorshipPackageRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM sponsorship_packages WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOneRow(res, domain.ErrNotFound)
}
