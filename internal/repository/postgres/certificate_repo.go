package postgres

import (
	"context"
	"database/sql"

	"clubconn/internal/domain"
)

type certificateRepository struct {
	DB *sql.DB
}

// NewCertificateRepository returns a domain.CertificateRepository implemented with Postgres.
func NewCertificateRepository(db *sql.DB) domain.CertificateRepository {
	return &certificateRepository{DB: db}
}

const certificateDetailsSelect = `
	SELECT c.id, c.user_id, c.event_id, c.title, c.recipient_name, COALESCE(c.verification_code, ''), c.issued_by, c.issued_at,
		e.title, e.starts_at, cl.name
	FROM certificates c
	JOIN events e ON e.id = c.event_id
	JOIN clubs cl ON cl.id = e.club_id
`

func scanCertificateDetails(row interface{ Scan(...any) error }) (*domain.CertificateDetails, error) {
	c := &domain.Certificate{}
	d := &domain.CertificateDetails{Certificate: c}
	err := row.Scan(&c.ID, &c.UserID, &c.EventID, &c.Title, &c.RecipientName, &c.VerificationCode, &c.IssuedBy, &c.IssuedAt,
		&d.EventTitle, &d.EventDate, &d.ClubName)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *certificateRepository) Create(ctx context.Context, c *domain.Certificate) error {
	query := `
		INSERT INTO certificates (user_id, event_id, title, recipient_name, verification_code, issued_by, issued_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, c.UserID, c.EventID, c.Title, c.RecipientName, c.VerificationCode, c.IssuedBy, c.IssuedAt).
		Scan(&c.ID)
	if isUniqueViolation(err) {
		return domain.ErrConflict
	}
	if isForeignKeyViolation(err) {
		return domain.ErrNotFound
	}
	return err
}

func (r *certificateRepository) GetByUserAndEvent(ctx context.Context, userID, eventID string) (*domain.Certificate, error) {
	query := `
		SELECT id, user_id, event_id, title, recipient_name, COALESCE(verification_code, ''), issued_by, issued_at
		FROM certificates
		WHERE user_id = $1 AND event_id = $2
	`
	c := &domain.Certificate{}
	err := r.DB.QueryRowContext(ctx, query, userID, eventID).
		Scan(&c.ID, &c.UserID, &c.EventID, &c.Title, &c.RecipientName, &c.VerificationCode, &c.IssuedBy, &c.IssuedAt)
	if err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return c, nil
}

func (r *certificateRepository) GetDetailsByCode(ctx context.Context, code string) (*domain.CertificateDetails, error) {
	d, err := scanCertificateDetails(r.DB.QueryRowContext(ctx, certificateDetailsSelect+` WHERE c.verification_code = $1`, code))
	if err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return d, nil
}

func (r *certificateRepository) ListDetailsByUserID(ctx context.Context, userID string) ([]*domain.CertificateDetails, error) {
	rows, err := r.DB.QueryContext(ctx, certificateDetailsSelect+` WHERE c.user_id = $1 ORDER BY c.issued_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*domain.CertificateDetails, 0)
	for rows.Next() {
		d, err := scanCertificateDetails(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *certificateRepository) ListMissingCodes(ctx context.Context) ([]*domain.Certificate, error) {
	query := `
		SELECT id, user_id, event_id, title, recipient_name, issued_by, issued_at
		FROM certificates
		WHERE verification_code IS NULL OR verification_code = ''
		ORDER BY issued_at
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*domain.Certificate, 0)
	for rows.Next() {
		c := &domain.Certificate{}
		if err := rows.Scan(&c.ID, &c.UserID, &c.EventID, &c.Title, &c.RecipientName, &c.IssuedBy, &c.IssuedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *certificateRepository) SetVerificationCode(ctx context.Context, id, code string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE certificates SET verification_code = $1 WHERE id = $2`, code, id)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return expectOneRow(res, domain.ErrNotFound)
}
