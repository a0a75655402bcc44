package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"clubconn/internal/domain"
)

type eventRegistrationRepository struct {
	DB *sql.DB
}

// NewEventRegistrationRepository returns a domain.EventRegistrationRepository implemented with Postgres.
func NewEventRegistrationRepository(db *sql.DB) domain.EventRegistrationRepository {
	return &eventRegistrationRepository{
		DB: db,
	}
}

const registrationColumns = `r.id, r.event_id, r.user_id, r.kind, r.status, r.attended, r.details, r.created_at, r.updated_at`

func scanRegistration(row interface{ Scan(...any) error }, extra ...any) (*domain.EventRegistration, error) {
	reg := &domain.EventRegistration{}
	var details []byte
	dest := append([]any{&reg.ID, &reg.EventID, &reg.UserID, &reg.Kind, &reg.Status, &reg.Attended, &details,
		&reg.CreatedAt, &reg.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	reg.Details = map[string]string{}
	if len(details) > 0 {
		if err := json.Unmarshal(details, &reg.Details); err != nil {
			return nil, fmt.Errorf("decode registration details: %w", err)
		}
	}
	return reg, nil
}

func encodeDetails(details map[string]string) ([]byte, error) {
	if details == nil {
		details = map[string]string{}
	}
	return json.Marshal(details)
}

// rowQueryer is satisfied by both *sql.DB and *sql.Tx.
type rowQueryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const countActiveExcludingQuery = `
	SELECT COUNT(*) FROM event_registrations
	WHERE event_id = $1 AND kind = $2 AND status = 'active' AND id::text <> $3
`

// withinLimit runs fn while holding the event row lock, after checking that fewer than limit active
// registrations of kind exist (ignoring excludeID). A non-positive limit runs fn without a transaction.
func (r *eventRegistrationRepository) withinLimit(ctx context.Context, eventID, kind, excludeID string, limit int, fn func(q rowQueryer) error) error {
	if limit <= 0 {
		return fn(r.DB)
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var locked string
	if err := tx.QueryRowContext(ctx, `SELECT id FROM events WHERE id = $1 FOR UPDATE`, eventID).Scan(&locked); err != nil {
		return notFound(err, domain.ErrNotFound)
	}
	var n int
	if err := tx.QueryRowContext(ctx, countActiveExcludingQuery, eventID, kind, excludeID).Scan(&n); err != nil {
		return err
	}
	if n >= limit {
		return domain.ErrEventFull
	}
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Create inserts reg. A positive limit caps the event's active registrations of reg.Kind; a full event returns ErrEventFull.
func (r *eventRegistrationRepository) Create(ctx context.Context, reg *domain.EventRegistration, limit int) error {
	details, err := encodeDetails(reg.Details)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO event_registrations (event_id, user_id, kind, status, details, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return r.withinLimit(ctx, reg.EventID, reg.Kind, "", limit, func(q rowQueryer) error {
		err := q.QueryRowContext(ctx, query, reg.EventID, reg.UserID, reg.Kind, reg.Status, details, reg.CreatedAt, reg.UpdatedAt).
			Scan(&reg.ID)
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	})
}

func (r *eventRegistrationRepository) GetByEventUserKind(ctx context.Context, eventID, userID, kind string) (*domain.EventRegistration, error) {
	query := `SELECT ` + registrationColumns + ` FROM event_registrations r
		WHERE r.event_id = $1 AND r.user_id = $2 AND r.kind = $3`
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, eventID, userID, kind))
	if err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return reg, nil
}

// Reactivate marks a cancelled registration active again under the same limit rules as Create.
func (r *eventRegistrationRepository) Reactivate(ctx context.Context, existing *domain.EventRegistration, details map[string]string, limit int) (*domain.EventRegistration, error) {
	encoded, err := encodeDetails(details)
	if err != nil {
		return nil, err
	}
	query := `
		UPDATE event_registrations r
		SET status = 'active', details = $1, updated_at = NOW()
		WHERE r.id = $2
		RETURNING ` + registrationColumns
	var reg *domain.EventRegistration
	err = r.withinLimit(ctx, existing.EventID, existing.Kind, existing.ID, limit, func(q rowQueryer) error {
		var err error
		reg, err = scanRegistration(q.QueryRowContext(ctx, query, encoded, existing.ID))
		return notFound(err, domain.ErrNotFound)
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

func (r *eventRegistrationRepository) Cancel(ctx context.Context, id string) error {
	query := `UPDATE event_registrations SET status = 'cancelled', updated_at = NOW() WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return expectOneRow(res, domain.ErrNotFound)
}

func (r *eventRegistrationRepository) SetAttended(ctx context.Context, id string, attended bool) error {
	query := `UPDATE event_registrations SET attended = $1, updated_at = NOW() WHERE id = $2`
	res, err := r.DB.ExecContext(ctx, query, attended, id)
	if err != nil {
		return err
	}
	return expectOneRow(res, domain.ErrNotFound)
}

func (r *eventRegistrationRepository) CountActive(ctx context.Context, eventID, kind string) (int, error) {
	query := `SELECT COUNT(*) FROM event_registrations WHERE event_id = $1 AND kind = $2 AND status = 'active'`
	var n int
	if err := r.DB.QueryRowContext(ctx, query, eventID, kind).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *eventRegistrationRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.EventRegistration, error) {
	query := `SELECT ` + registrationColumns + ` FROM event_registrations r
		WHERE r.user_id = $1 AND r.status = 'active'
		ORDER BY r.created_at DESC`
	return r.list(ctx, query, userID)
}

func (r *eventRegistrationRepository) ListAttended(ctx context.Context, eventID string) ([]*domain.EventRegistration, error) {
	query := `SELECT ` + registrationColumns + ` FROM event_registrations r
		WHERE r.event_id = $1 AND r.attended AND r.status = 'active'
		ORDER BY r.created_at`
	return r.list(ctx, query, eventID)
}

func (r *eventRegistrationRepository) list(ctx context.Context, query string, args ...any) ([]*domain.EventRegistration, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	regs := make([]*domain.EventRegistration, 0)
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

// ListByEventID lists registrations for an event joined with the submitting user. An empty kind lists all kinds.
func (r *eventRegistrationRepository) ListByEventID(ctx context.Context, eventID, kind string, params domain.PaginationParams) ([]*domain.RegistrationWithUser, int, error) {
	where := ` WHERE r.event_id = $1 AND ($2 = '' OR r.kind = $2)`

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM event_registrations r`+where, eventID, kind).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + registrationColumns + `, u.name, u.last_name, u.email
		FROM event_registrations r
		JOIN users u ON u.id = r.user_id` + where + `
		ORDER BY r.created_at, r.id
		LIMIT $3 OFFSET $4`
	rows, err := r.DB.QueryContext(ctx, query, eventID, kind, params.Limit(), params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]*domain.RegistrationWithUser, 0)
	for rows.Next() {
		ru := &domain.RegistrationWithUser{}
		reg, err := scanRegistration(rows, &ru.Name, &ru.LastName, &ru.Email)
		if err != nil {
			return nil, 0, err
		}
		ru.EventRegistration = reg
		out = append(out, ru)
	}
	return out, total, rows.Err()
}

func (r *eventRegistrationRepository) ListActiveRSVPUsers(ctx context.Context, eventID string) ([]*domain.User, error) {
	query := `
		SELECT u.id, u.email, u.name, u.last_name, u.password_hash, u.salt, u.created_at, u.updated_at
		FROM event_registrations r
		JOIN users u ON u.id = r.user_id
		WHERE r.event_id = $1 AND r.kind = 'rsvp' AND r.status = 'active'
		ORDER BY u.email
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
