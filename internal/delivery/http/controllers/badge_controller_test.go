package controllers

import (
	"net/http"
	"testing"

	"clubconn/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadgeController_ListBadges(t *testing.T) {
	c := NewBadgeController(testLogger, &fakeBadgeService{badges: []domain.Badge{{Code: "first-rsvp", Threshold: 1}}})

	rr := serve(t, c.ListBadges, testRequest{method: http.MethodGet, target: "/badges"})

	require.Equal(t, http.StatusOK, rr.Code)
	var badges []domain.Badge
	assert.Nil(t, decodeEnvelope(t, rr, &badges))
	require.Len(t, badges, 1)
	assert.Equal(t, "first-rsvp", badges[0].Code)
}

func TestBadgeController_GetMyBadges(t *testing.T) {
	svc := &fakeBadgeService{userBadges: &domain.UserBadges{Points: 42, Earned: 2}}
	c := NewBadgeController(testLogger, svc)

	rr := serve(t, c.GetMyBadges, testRequest{method: http.MethodGet, target: "/users/me/badges", caller: &testCaller})

	require.Equal(t, http.StatusOK, rr.Code)
	var out domain.UserBadges
	assert.Nil(t, decodeEnvelope(t, rr, &out))
	assert.Equal(t, 42, out.Points)
	assert.Equal(t, testUserID, svc.lastUserID)

	rr = serve(t, c.GetMyBadges, testRequest{method: http.MethodGet, target: "/users/me/badges"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestBadgeController_Leaderboard(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantLimit  int
	}{
		{name: "default limit", target: "/leaderboard", wantStatus: http.StatusOK, wantLimit: 0},
		{name: "explicit limit", target: "/leaderboard?limit=25", wantStatus: http.StatusOK, wantLimit: 25},
		{name: "zero limit", target: "/leaderboard?limit=0", wantStatus: http.StatusBadRequest},
		{name: "not a number", target: "/leaderboard?limit=ten", wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeBadgeService{entries: []*domain.LeaderboardEntry{{Rank: 1, Points: 90}}}
			c := NewBadgeController(testLogger, svc)

			rr := serve(t, c.Leaderboard, testRequest{method: http.MethodGet, target: tt.target})

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantLimit, svc.lastLimit)
			}
		})
	}
}
