package services

import (
	"context"
	"testing"
	"time"

	"clubconn/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCatalog(start time.Time) *domain.Catalog {
	return &domain.Catalog{
		Clubs: []domain.CatalogClub{
			{Name: "Robotics Society", Category: "engineering"},
			{Name: "Chess Club", Slug: "chess"},
		},
		Events: []domain.CatalogEvent{
			{ClubSlug: "robotics-society", Title: "Build Night", StartsAt: start, EndsAt: start.Add(3 * time.Hour), Capacity: 20},
			{ClubSlug: "Chess", Title: "Blitz", StartsAt: start, EndsAt: start.Add(time.Hour), VolunteerSlots: 2},
		},
	}
}

func TestCatalogService_ImportIsIdempotent(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	users.add(&domain.User{ID: "owner", Email: "owner@example.com"})
	clubs := newFakeClubRepo()
	members := newFakeClubMemberRepo()
	clubs.members = members
	events := newFakeEventRepo()
	svc := NewCatalogService(users, clubs, events, time.Second)
	start := time.Date(2026, 11, 3, 18, 0, 0, 0, time.UTC)

	result, err := svc.Import(ctx, sampleCatalog(start), "Owner@Example.com")
	require.NoError(t, err)
	assert.Equal(t, &domain.ImportResult{ClubsCreated: 2, EventsCreated: 2}, result)

	robotics, err := clubs.GetBySlug(ctx, "robotics-society")
	require.NoError(t, err)
	assert.Equal(t, "owner", robotics.OwnerID)
	m, err := members.Get(ctx, robotics.ID, "owner")
	require.NoError(t, err)
	assert.Equal(t, domain.ClubRoleOfficer, m.Role)

	result, err = svc.Import(ctx, sampleCatalog(start), "owner@example.com")
	require.NoError(t, err)
	assert.Equal(t, &domain.ImportResult{ClubsSkipped: 2, EventsSkipped: 2}, result)
	assert.Len(t, events.byID, 2)
}

func TestCatalogService_ImportErrors(t *testing.T) {
	ctx := context.Background()
	start := time.Now().Add(24 * time.Hour)

	tests := []struct {
		name    string
		catalog *domain.Catalog
		owner   string
		wantErr error
	}{
		{"nil catalog", nil, "owner@example.com", domain.ErrInvalidInput},
		{"unknown owner", sampleCatalog(start), "ghost@example.com", domain.ErrInvalidInput},
		{"bad owner email", sampleCatalog(start), "ghost", domain.ErrInvalidInput},
		{
			name:    "event for unknown club",
			catalog: &domain.Catalog{Events: []domain.CatalogEvent{{ClubSlug: "nowhere", Title: "x", StartsAt: start, EndsAt: start.Add(time.Hour)}}},
			owner:   "owner@example.com",
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "invalid event",
			catalog: &domain.Catalog{Clubs: []domain.CatalogClub{{Name: "Go"}}, Events: []domain.CatalogEvent{{ClubSlug: "go", Title: "Backwards", StartsAt: start, EndsAt: start.Add(-time.Hour)}}},
			owner:   "owner@example.com",
			wantErr: domain.ErrInvalidInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := newFakeUserRepo()
			users.add(&domain.User{ID: "owner", Email: "owner@example.com"})
			svc := NewCatalogService(users, newFakeClubRepo(), newFakeEventRepo(), time.Second)

			_, err := svc.Import(ctx, tt.catalog, tt.owner)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
