package domain

import "context"

// Badge metrics.
const (
	MetricRSVPs          = "rsvps"
	MetricEventsAttended = "events_attended"
	MetricVolunteered    = "volunteered"
	MetricCertificates   = "certificates"
	MetricClubsJoined    = "clubs_joined"
)

// Badge is a static achievement definition matched against aggregate user statistics.
// swagger:model Badge
type Badge struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Metric      string `json:"metric"`
	Threshold   int    `json:"threshold"`
}

// UserStats are the aggregate counters badges and the leaderboard are computed from.
// swagger:model UserStats
type UserStats struct {
	UserID         string `json:"user_id"`
	Name           string `json:"name,omitempty"`
	LastName       string `json:"last_name,omitempty"`
	RSVPs          int    `json:"rsvps"`
	EventsAttended int    `json:"events_attended"`
	Volunteered    int    `json:"volunteered"`
	Certificates   int    `json:"certificates"`
	ClubsJoined    int    `json:"clubs_joined"`
}

// Value returns the counter for a badge metric, or 0 for an unknown metric.
func (s UserStats) Value(metric string) int {
	switch metric {
	case MetricRSVPs:
		return s.RSVPs
	case MetricEventsAttended:
		return s.EventsAttended
	case MetricVolunteered:
		return s.Volunteered
	case MetricCertificates:
		return s.Certificates
	case MetricClubsJoined:
		return s.ClubsJoined
	}
	return 0
}

// BadgeProgress is a badge with the user's progress toward it.
// swagger:model BadgeProgress
type BadgeProgress struct {
	Badge
	Current int  `json:"current"`
	Percent int  `json:"percent"`
	Earned  bool `json:"earned"`
}

// UserBadges is the badge summary for one user.
// swagger:model UserBadges
type UserBadges struct {
	Stats  UserStats        `json:"stats"`
	Points int              `json:"points"`
	Earned int              `json:"earned"`
	Badges []*BadgeProgress `json:"badges"`
}

// LeaderboardEntry is one ranked row of the leaderboard.
// swagger:model LeaderboardEntry
type LeaderboardEntry struct {
	Rank         int       `json:"rank"`
	Stats        UserStats `json:"stats"`
	Points       int       `json:"points"`
	BadgesEarned int       `json:"badges_earned"`
}

// PointWeights are the leaderboard points awarded per counter.
type PointWeights struct {
	RSVP        int
	Attendance  int
	Volunteer   int
	Certificate int
	Club        int
}

// Points scores s with w.
func (w PointWeights) Points(s UserStats) int {
	return s.RSVPs*w.RSVP +
		s.EventsAttended*w.Attendance +
		s.Volunteered*w.Volunteer +
		s.Certificates*w.Certificate +
		s.ClubsJoined*w.Club
}

// StatsRepository aggregates per-user activity counters.
type StatsRepository interface {
	GetUserStats(ctx context.Context, userID string) (*UserStats, error)
	// TopUserStats returns active users whose weighted score ranks within the first
	// limit places, including everyone tied for the last place, highest score first.
	TopUserStats(ctx context.Context, limit int, weights PointWeights) ([]*UserStats, error)
}

// BadgeService defines badge and leaderboard operations.
type BadgeService interface {
	ListBadges() []Badge
	GetUserBadges(ctx context.Context, userID string) (*UserBadges, error)
	Leaderboard(ctx context.Context, limit int) ([]*LeaderboardEntry, error)
}
