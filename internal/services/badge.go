package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"clubconn/internal/domain"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
)

// badges is the fixed achievement catalogue, in display order.
var badges = []domain.Badge{
	{Code: "first-rsvp", Name: "First RSVP", Description: "RSVP to your first event", Metric: domain.MetricRSVPs, Threshold: 1},
	{Code: "regular", Name: "Regular", Description: "Attend 5 events", Metric: domain.MetricEventsAttended, Threshold: 5},
	{Code: "devoted", Name: "Devoted", Description: "Attend 15 events", Metric: domain.MetricEventsAttended, Threshold: 15},
	{Code: "helping-hand", Name: "Helping Hand", Description: "Volunteer at an event", Metric: domain.MetricVolunteered, Threshold: 1},
	{Code: "volunteer-hero", Name: "Volunteer Hero", Description: "Volunteer at 5 events", Metric: domain.MetricVolunteered, Threshold: 5},
	{Code: "club-hopper", Name: "Club Hopper", Description: "Join 3 clubs", Metric: domain.MetricClubsJoined, Threshold: 3},
	{Code: "certified", Name: "Certified", Description: "Earn your first certificate", Metric: domain.MetricCertificates, Threshold: 1},
	{Code: "scholar", Name: "Scholar", Description: "Earn 5 certificates", Metric: domain.MetricCertificates, Threshold: 5},
}

var pointWeights = domain.PointWeights{
	RSVP:        2,
	Attendance:  10,
	Volunteer:   20,
	Certificate: 15,
	Club:        5,
}

// Points computes the leaderboard score for a set of counters.
func Points(s domain.UserStats) int {
	return pointWeights.Points(s)
}

// Progress returns every badge with the user's progress and the number earned.
// Percent is floor(min(current/threshold, 1) * 100).
func Progress(s domain.UserStats) ([]*domain.BadgeProgress, int) {
	out := make([]*domain.BadgeProgress, 0, len(badges))
	earned := 0
	for _, b := range badges {
		current := s.Value(b.Metric)
		p := &domain.BadgeProgress{Badge: b, Current: current}
		if current >= b.Threshold {
			p.Percent = 100
			p.Earned = true
			earned++
		} else if b.Threshold > 0 && current > 0 {
			p.Percent = current * 100 / b.Threshold
		}
		out = append(out, p)
	}
	return out, earned
}

type badgeService struct {
	statsRepo      domain.StatsRepository
	contextTimeout time.Duration
}

// NewBadgeService creates a BadgeService over the given stats source.
func NewBadgeService(statsRepo domain.StatsRepository, timeout time.Duration) domain.BadgeService {
	return &badgeService{statsRepo: statsRepo, contextTimeout: timeout}
}

func (s *badgeService) ListBadges() []domain.Badge {
	out := make([]domain.Badge, len(badges))
	copy(out, badges)
	return out
}

func (s *badgeService) GetUserBadges(ctx context.Context, userID string) (*domain.UserBadges, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	stats, err := s.statsRepo.GetUserStats(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get user stats: %w", err)
	}
	progress, earned := Progress(*stats)
	return &domain.UserBadges{
		Stats:  *stats,
		Points: Points(*stats),
		Earned: earned,
		Badges: progress,
	}, nil
}

// Leaderboard ranks users by points, then badges earned, then user id.
func (s *badgeService) Leaderboard(ctx context.Context, limit int) ([]*domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	all, err := s.statsRepo.TopUserStats(ctx, limit, pointWeights)
	if err != nil {
		return nil, fmt.Errorf("top user stats: %w", err)
	}

	entries := make([]*domain.LeaderboardEntry, 0, len(all))
	for _, st := range all {
		_, earned := Progress(*st)
		entries = append(entries, &domain.LeaderboardEntry{Stats: *st, Points: Points(*st), BadgesEarned: earned})
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.BadgesEarned != b.BadgesEarned {
			return a.BadgesEarned > b.BadgesEarned
		}
		return a.Stats.UserID < b.Stats.UserID
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	for i, e := range entries {
		e.Rank = i + 1
	}
	return entries, nil
}
