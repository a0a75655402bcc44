package postgres

import (
	"context"
	"database/sql"

	"clubconn/internal/domain"
)

type statsRepository struct {
	DB *sql.DB
}

// NewStatsRepository returns a domain.StatsRepository that aggregates counters with SQL.
func NewStatsRepository(db *sql.DB) domain.StatsRepository {
	return &statsRepository{DB: db}
}

const userStatsSelect = `
	SELECT u.id, u.name, u.last_name,
		(SELECT COUNT(*) FROM event_registrations r WHERE r.user_id = u.id AND r.kind = 'rsvp' AND r.status = 'active') AS rsvps,
		(SELECT COUNT(DISTINCT r.event_id) FROM event_registrations r WHERE r.user_id = u.id AND r.attended AND r.status = 'active') AS attended,
		(SELECT COUNT(*) FROM event_registrations r WHERE r.user_id = u.id AND r.kind = 'volunteer' AND r.status = 'active') AS volunteered,
		(SELECT COUNT(*) FROM certificates c WHERE c.user_id = u.id) AS certificates,
		(SELECT COUNT(*) FROM club_members m WHERE m.user_id = u.id) AS clubs
	FROM users u
`

func scanUserStats(row interface{ Scan(...any) error }) (*domain.UserStats, error) {
	s := &domain.UserStats{}
	if err := row.Scan(&s.UserID, &s.Name, &s.LastName, &s.RSVPs, &s.EventsAttended, &s.Volunteered, &s.Certificates, &s.ClubsJoined); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *statsRepository) GetUserStats(ctx context.Context, userID string) (*domain.UserStats, error) {
	s, err := scanUserStats(r.DB.QueryRowContext(ctx, userStatsSelect+` WHERE u.id = $1`, userID))
	if err != nil {
		return nil, notFound(err, domain.ErrUserNotFound)
	}
	return s, nil
}

// TopUserStats ranks users with any activity by weighted points in SQL and returns
// those placed within limit. RANK keeps every user tied at the cut.
func (r *statsRepository) TopUserStats(ctx context.Context, limit int, w domain.PointWeights) ([]*domain.UserStats, error) {
	query := `
		WITH stats AS (` + userStatsSelect + `
			WHERE EXISTS (SELECT 1 FROM event_registrations r WHERE r.user_id = u.id)
				OR EXISTS (SELECT 1 FROM certificates c WHERE c.user_id = u.id)
				OR EXISTS (SELECT 1 FROM club_members m WHERE m.user_id = u.id)
		), ranked AS (
			SELECT s.*, RANK() OVER (
				ORDER BY s.rsvps * $2 + s.attended * $3 + s.volunteered * $4 + s.certificates * $5 + s.clubs * $6 DESC
			) AS place
			FROM stats s
		)
		SELECT id, name, last_name, rsvps, attended, volunteered, certificates, clubs
		FROM ranked
		WHERE place <= $1
		ORDER BY place, id
	`
	rows, err := r.DB.QueryContext(ctx, query, limit, w.RSVP, w.Attendance, w.Volunteer, w.Certificate, w.Club)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*domain.UserStats, 0, limit)
	for rows.Next() {
		s, err := scanUserStats(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
