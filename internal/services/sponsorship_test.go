package services

import (
	"context"
	"testing"
	"time"

	"clubconn/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sponsorshipFixture struct {
	sponsors     *fakeSponsorRepo
	packages     *fakePackageRepo
	sponsorships *fakeSponsorshipRepo
	clubs        *fakeClubRepo
	email        *fakeEmailService
	club         *domain.Club
	sponsor      *domain.Sponsor
}

var sponsorOwner = domain.Principal{UserID: "acme-owner"}

func newSponsorshipFixture(t *testing.T) *sponsorshipFixture {
	t.Helper()
	ctx := context.Background()
	f := &sponsorshipFixture{
		sponsors:     newFakeSponsorRepo(),
		packages:     newFakePackageRepo(),
		sponsorships: newFakeSponsorshipRepo(),
		clubs:        newFakeClubRepo(),
		email:        &fakeEmailService{},
	}
	f.club = &domain.Club{Name: "Astronomy", Slug: "astronomy", OwnerID: "owner"}
	require.NoError(t, f.clubs.Create(ctx, f.club))
	f.sponsor = &domain.Sponsor{OwnerID: sponsorOwner.UserID, Name: "Acme", ContactEmail: "hello@acme.test"}
	require.NoError(t, f.sponsors.Create(ctx, f.sponsor))
	return f
}

func (f *sponsorshipFixture) service(manager fakeManager) domain.SponsorshipService {
	return NewSponsorshipService(SponsorshipServiceDeps{
		Sponsors:       f.sponsors,
		Packages:       f.packages,
		Sponsorships:   f.sponsorships,
		Clubs:          f.clubs,
		Managers:       manager,
		Email:          f.email,
		ContextTimeout: time.Second,
	})
}

func TestSponsorshipService_Sponsors(t *testing.T) {
	ctx := context.Background()
	f := newSponsorshipFixture(t)
	svc := f.service(fakeManager{})

	err := svc.CreateSponsor(ctx, &domain.Sponsor{OwnerID: "x", Name: " "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	err = svc.CreateSponsor(ctx, &domain.Sponsor{OwnerID: "x", Name: "Globex", ContactEmail: "nope"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	globex := &domain.Sponsor{OwnerID: sponsorOwner.UserID, Name: " Globex "}
	require.NoError(t, svc.CreateSponsor(ctx, globex))
	assert.Equal(t, "Globex", globex.Name)

	mine, err := svc.ListMySponsors(ctx, sponsorOwner.UserID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	none, err := svc.ListMySponsors(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	site := "https://acme.test"
	updated, err := svc.UpdateSponsor(ctx, f.sponsor.ID, sponsorOwner, domain.SponsorUpdate{Website: &site})
	require.NoError(t, err)
	assert.Equal(t, site, updated.Website)

	_, err = svc.UpdateSponsor(ctx, f.sponsor.ID, domain.Principal{UserID: "rival"}, domain.SponsorUpdate{Website: &site})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	blank := ""
	_, err = svc.UpdateSponsor(ctx, f.sponsor.ID, sponsorOwner, domain.SponsorUpdate{Name: &blank})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.GetSponsor(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSponsorshipService_Packages(t *testing.T) {
	ctx := context.Background()
	f := newSponsorshipFixture(t)

	pkg := &domain.SponsorshipPackage{ClubID: f.club.ID, Title: "Gold", PriceCents: 50000}
	assert.ErrorIs(t, f.service(fakeManager{}).CreatePackage(ctx, pkg, sponsorOwner), domain.ErrForbidden)

	svc := f.service(fakeManager{allow: true})
	assert.ErrorIs(t, svc.CreatePackage(ctx, &domain.SponsorshipPackage{ClubID: f.club.ID}, officer), domain.ErrInvalidInput)
	assert.ErrorIs(t, svc.CreatePackage(ctx, &domain.SponsorshipPackage{ClubID: f.club.ID, Title: "Neg", PriceCents: -1}, officer), domain.ErrInvalidInput)

	require.NoError(t, svc.CreatePackage(ctx, pkg, officer))
	assert.NotNil(t, pkg.Perks)

	list, err := svc.ListPackages(ctx, f.club.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.DeletePackage(ctx, pkg.ID, officer))
	assert.ErrorIs(t, svc.DeletePackage(ctx, pkg.ID, officer), domain.ErrNotFound)
}

func TestSponsorshipService_Apply(t *testing.T) {
	ctx := context.Background()
	f := newSponsorshipFixture(t)
	svc := f.service(fakeManager{allow: true})

	other := &domain.Club{Name: "Drama", Slug: "drama", OwnerID: "owner"}
	require.NoError(t, f.clubs.Create(ctx, other))
	foreignPkg := &domain.SponsorshipPackage{ClubID: other.ID, Title: "Stage"}
	require.NoError(t, f.packages.Create(ctx, foreignPkg))

	tests := []struct {
		name    string
		sp      *domain.Sponsorship
		caller  domain.Principal
		wantErr error
	}{
		{"missing ids", &domain.Sponsorship{}, sponsorOwner, domain.ErrInvalidInput},
		{"not the sponsor owner", &domain.Sponsorship{SponsorID: f.sponsor.ID, ClubID: f.club.ID}, domain.Principal{UserID: "rival"}, domain.ErrForbidden},
		{"unknown club", &domain.Sponsorship{SponsorID: f.sponsor.ID, ClubID: "missing"}, sponsorOwner, domain.ErrNotFound},
		{"package of another club", &domain.Sponsorship{SponsorID: f.sponsor.ID, ClubID: f.club.ID, PackageID: &foreignPkg.ID}, sponsorOwner, domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, svc.Apply(ctx, tt.sp, tt.caller), tt.wantErr)
		})
	}

	sp := &domain.Sponsorship{SponsorID: f.sponsor.ID, ClubID: f.club.ID, Message: " Hi! "}
	require.NoError(t, svc.Apply(ctx, sp, sponsorOwner))
	assert.Equal(t, domain.SponsorshipPending, sp.Status)
	assert.Equal(t, "Hi!", sp.Message)

	dup := &domain.Sponsorship{SponsorID: f.sponsor.ID, ClubID: f.club.ID}
	assert.ErrorIs(t, svc.Apply(ctx, dup, sponsorOwner), domain.ErrConflict)

	// After a decline the sponsor may apply again.
	_, err := svc.Decide(ctx, sp.ID, false, officer)
	require.NoError(t, err)
	require.NoError(t, svc.Apply(ctx, dup, sponsorOwner))
}

func TestSponsorshipService_Decide(t *testing.T) {
	ctx := context.Background()
	f := newSponsorshipFixture(t)
	sp := &domain.Sponsorship{SponsorID: f.sponsor.ID, ClubID: f.club.ID}
	require.NoError(t, f.service(fakeManager{}).Apply(ctx, sp, sponsorOwner))

	_, err := f.service(fakeManager{}).Decide(ctx, sp.ID, true, sponsorOwner)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	svc := f.service(fakeManager{allow: true})
	decided, err := svc.Decide(ctx, sp.ID, true, officer)
	require.NoError(t, err)
	assert.Equal(t, domain.SponsorshipActive, decided.Status)

	require.Len(t, f.email.decisions, 1)
	assert.Equal(t, "hello@acme.test", f.email.decisions[0].Email)
	assert.Equal(t, "Astronomy", f.email.decisions[0].ClubName)
	assert.True(t, f.email.decisions[0].Accepted)

	_, err = svc.Decide(ctx, sp.ID, false, officer)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "only pending sponsorships can be decided")

	_, err = svc.Decide(ctx, "missing", true, officer)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSponsorshipService_DecisionEmailFailureIsIgnored(t *testing.T) {
	ctx := context.Background()
	f := newSponsorshipFixture(t)
	f.email.err = errBoom
	svc := f.service(fakeManager{allow: true})
	sp := &domain.Sponsorship{SponsorID: f.sponsor.ID, ClubID: f.club.ID}
	require.NoError(t, svc.Apply(ctx, sp, sponsorOwner))

	decided, err := svc.Decide(ctx, sp.ID, false, officer)
	require.NoError(t, err)
	assert.Equal(t, domain.SponsorshipDeclined, decided.Status)
}

func TestSponsorshipService_ListsAndCounters(t *testing.T) {
	ctx := context.Background()
	f := newSponsorshipFixture(t)
	svc := f.service(fakeManager{allow: true})
	sp := &domain.Sponsorship{SponsorID: f.sponsor.ID, ClubID: f.club.ID}
	require.NoError(t, svc.Apply(ctx, sp, sponsorOwner))

	assert.ErrorIs(t, svc.RecordImpression(ctx, sp.ID), domain.ErrNotFound, "pending sponsorships are not displayed")

	_, err := svc.Decide(ctx, sp.ID, true, officer)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.RecordImpression(ctx, sp.ID))
	}
	require.NoError(t, svc.RecordClick(ctx, sp.ID))
	assert.ErrorIs(t, svc.RecordClick(ctx, "missing"), domain.ErrNotFound)

	stats, err := svc.GetStats(ctx, sp.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Impressions)
	assert.Equal(t, int64(1), stats.Clicks)
	assert.Equal(t, 33.33, stats.ClickThroughRate)

	active, err := svc.ListActiveSponsorships(ctx, f.club.ID)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	pending, err := svc.ListClubSponsorships(ctx, f.club.ID, domain.SponsorshipPending, officer)
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = svc.ListClubSponsorships(ctx, f.club.ID, "archived", officer)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.service(fakeManager{}).ListClubSponsorships(ctx, f.club.ID, "", sponsorOwner)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// staleSponsorshipRepo serves reads from before a concurrent writer committed.
type staleSponsorshipRepo struct {
	*fakeSponsorshipRepo
}

func (r staleSponsorshipRepo) GetByID(ctx context.Context, id string) (*domain.Sponsorship, error) {
	s, err := r.fakeSponsorshipRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	snapshot := *s
	snapshot.Status = domain.SponsorshipPending
	return &snapshot, nil
}

func (r staleSponsorshipRepo) FindOpen(ctx context.Context, sponsorID, clubID string, packageID *string) (*domain.Sponsorship, error) {
	return nil, domain.ErrNotFound
}

func TestSponsorshipService_ConcurrentDecisionsNotifyOnce(t *testing.T) {
	ctx := context.Background()
	f := newSponsorshipFixture(t)
	sp := &domain.Sponsorship{SponsorID: f.sponsor.ID, ClubID: f.club.ID}
	require.NoError(t, f.service(fakeManager{}).Apply(ctx, sp, sponsorOwner))

	svc := NewSponsorshipService(SponsorshipServiceDeps{
		Sponsors:       f.sponsors,
		Packages:       f.packages,
		Sponsorships:   staleSponsorshipRepo{f.sponsorships},
		Clubs:          f.clubs,
		Managers:       fakeManager{allow: true},
		Email:          f.email,
		ContextTimeout: time.Second,
	})

	_, err := svc.Decide(ctx, sp.ID, true, officer)
	require.NoError(t, err)
	_, err = svc.Decide(ctx, sp.ID, false, officer)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Equal(t, domain.SponsorshipActive, f.sponsorships.byID[sp.ID].Status, "the first decision stands")
	require.Len(t, f.email.decisions, 1)
	assert.True(t, f.email.decisions[0].Accepted)
}

func TestSponsorshipService_ConcurrentApplyConflicts(t *testing.T) {
	ctx := context.Background()
	f := newSponsorshipFixture(t)
	svc := NewSponsorshipService(SponsorshipServiceDeps{
		Sponsors:       f.sponsors,
		Packages:       f.packages,
		Sponsorships:   staleSponsorshipRepo{f.sponsorships},
		Clubs:          f.clubs,
		Managers:       fakeManager{},
		ContextTimeout: time.Second,
	})

	require.NoError(t, svc.Apply(ctx, &domain.Sponsorship{SponsorID: f.sponsor.ID, ClubID: f.club.ID}, sponsorOwner))
	err := svc.Apply(ctx, &domain.Sponsorship{SponsorID: f.sponsor.ID, ClubID: f.club.ID}, sponsorOwner)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Len(t, f.sponsorships.byID, 1)
}
