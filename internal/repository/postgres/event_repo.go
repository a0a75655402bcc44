package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"clubconn/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

// NewEventRepository returns a domain.EventRepository implemented with Postgres.
func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

const eventColumns = `id, club_id, title, description, location, starts_at, ends_at, capacity, volunteer_slots,
	created_by, reminder_sent_at, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (*domain.Event, error) {
	e := &domain.Event{}
	var reminder sql.NullTime
	err := row.Scan(&e.ID, &e.ClubID, &e.Title, &e.Description, &e.Location, &e.StartsAt, &e.EndsAt,
		&e.Capacity, &e.VolunteerSlots, &e.CreatedBy, &reminder, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if reminder.Valid {
		e.ReminderSentAt = &reminder.Time
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (club_id, title, description, location, starts_at, ends_at, capacity, volunteer_slots, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, e.ClubID, e.Title, e.Description, e.Location, e.StartsAt, e.EndsAt,
		e.Capacity, e.VolunteerSlots, e.CreatedBy, e.CreatedAt, e.UpdatedAt).Scan(&e.ID)
	if isForeignKeyViolation(err) {
		return domain.ErrNotFound
	}
	return err
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	e, err := scanEvent(r.DB.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return e, nil
}

func (r *eventRepository) FindByClubTitleStart(ctx context.Context, clubID, title string, startsAt time.Time) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE club_id = $1 AND title = $2 AND starts_at = $3`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, clubID, title, startsAt))
	if err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return e, nil
}

func eventWhere(filter domain.EventFilter) (string, []any) {
	var conds []string
	var args []any
	if filter.ClubID != "" {
		args = append(args, filter.ClubID)
		conds = append(conds, fmt.Sprintf("club_id = $%d", len(args)))
	}
	if !filter.IncludePast {
		from := filter.From
		if from.IsZero() {
			from = time.Now()
		}
		args = append(args, from)
		conds = append(conds, fmt.Sprintf("ends_at >= $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *eventRepository) List(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	where, args := eventWhere(filter)

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + eventColumns + ` FROM events` + where +
		fmt.Sprintf(" ORDER BY starts_at, id LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, params.Limit(), params.Offset())
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}
	return events, total, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, id string, upd domain.EventUpdate) (*domain.Event, error) {
	query := `
		UPDATE events SET
			title = COALESCE($1, title),
			description = COALESCE($2, description),
			location = COALESCE($3, location),
			starts_at = COALESCE($4, starts_at),
			ends_at = COALESCE($5, ends_at),
			capacity = COALESCE($6, capacity),
			volunteer_slots = COALESCE($7, volunteer_slots),
			updated_at = NOW()
		WHERE id = $8
		RETURNING ` + eventColumns
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, upd.Title, upd.Description, upd.Location,
		upd.StartsAt, upd.EndsAt, upd.Capacity, upd.VolunteerSlots, id))
	if err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return e, nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOneRow(res, domain.ErrNotFound)
}

// ListNeedingReminder returns events starting in [from, to) whose reminder has not been sent.
func (r *eventRepository) ListNeedingReminder(ctx context.Context, from, to time.Time) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events
		WHERE starts_at >= $1 AND starts_at < $2 AND reminder_sent_at IS NULL
		ORDER BY starts_at`
	rows, err := r.DB.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) MarkReminderSent(ctx context.Context, id string, at time.Time) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE events SET reminder_sent_at = $1 WHERE id = $2`, at, id)
	if err != nil {
		return err
	}
	return expectOneRow(res, domain.ErrNotFound)
}
