package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clubconn/internal/delivery/http/helpers"
	"clubconn/internal/delivery/http/middleware"
	"clubconn/internal/domain"

	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

var errBoom = errors.New("boom")

const (
	testUserID  = "11111111-1111-1111-1111-111111111111"
	testClubID  = "22222222-2222-2222-2222-222222222222"
	testEventID = "33333333-3333-3333-3333-333333333333"
	testOtherID = "44444444-4444-4444-4444-444444444444"
)

var testCaller = domain.Principal{UserID: testUserID, Email: "ada@example.com", Roles: []string{domain.RoleMember}}

// testRequest describes a request to send straight to a handler.
type testRequest struct {
	method     string
	target     string
	body       string
	caller     *domain.Principal
	pathValues map[string]string
}

func serve(t *testing.T, handler http.HandlerFunc, tr testRequest) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if tr.body != "" {
		body = bytes.NewBufferString(tr.body)
	}
	req := httptest.NewRequest(tr.method, tr.target, body)
	if tr.body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range tr.pathValues {
		req.SetPathValue(k, v)
	}
	if tr.caller != nil {
		req = req.WithContext(middleware.SetPrincipal(req.Context(), *tr.caller))
	}
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

// decodeEnvelope decodes the response envelope, unmarshalling data into dataOut when non-nil.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, dataOut any) *helpers.APIError {
	t.Helper()
	var raw struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&raw))
	if dataOut != nil {
		require.NoError(t, json.Unmarshal(raw.Data, dataOut))
	}
	return raw.Error
}

// fakeUserService implements domain.UserService for handler tests.
type fakeUserService struct {
	err         error
	user        *domain.User
	token       string
	lastEmail   string
	lastCode    string
	lastRole    string
	lastUpdated *domain.User
}

func (f *fakeUserService) SignUp(_ context.Context, email, _, name, lastName string) (*domain.User, error) {
	f.lastEmail = email
	if f.err != nil {
		return nil, f.err
	}
	return &domain.User{ID: testUserID, Email: email, Name: name, LastName: lastName}, nil
}

func (f *fakeUserService) Login(_ context.Context, email, _ string) (string, *domain.User, error) {
	f.lastEmail = email
	if f.err != nil {
		return "", nil, f.err
	}
	return f.token, f.user, nil
}

func (f *fakeUserService) RequestLoginCode(_ context.Context, email string) error {
	f.lastEmail = email
	return f.err
}

func (f *fakeUserService) VerifyLoginCode(_ context.Context, email, code string) (string, *domain.User, error) {
	f.lastEmail, f.lastCode = email, code
	if f.err != nil {
		return "", nil, f.err
	}
	return f.token, f.user, nil
}

func (f *fakeUserService) GetByID(_ context.Context, id string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.user == nil || f.user.ID != id {
		return nil, domain.ErrUserNotFound
	}
	cp := *f.user
	return &cp, nil
}

func (f *fakeUserService) Update(_ context.Context, user *domain.User) error {
	f.lastUpdated = user
	return nil
}

func (f *fakeUserService) GrantRole(_ context.Context, email, roleCode string) (*domain.User, error) {
	f.lastEmail, f.lastRole = email, roleCode
	if f.err != nil {
		return nil, f.err
	}
	return &domain.User{ID: testOtherID, Email: email}, nil
}

// fakeClubService implements domain.ClubService for handler tests.
type fakeClubService struct {
	err        error
	club       *domain.Club
	clubs      []*domain.Club
	total      int
	members    []*domain.ClubMember
	joined     bool
	lastFilter domain.ClubFilter
	lastParams domain.PaginationParams
	lastCaller domain.Principal
	lastClubID string
	lastUserID string
	lastUpdate domain.ClubUpdate
}

func (f *fakeClubService) CreateClub(_ context.Context, club *domain.Club) error {
	if f.err != nil {
		return f.err
	}
	club.ID = testClubID
	club.Slug = domain.Slugify(club.Name)
	f.club = club
	return nil
}

func (f *fakeClubService) ListClubs(_ context.Context, filter domain.ClubFilter, params domain.PaginationParams) ([]*domain.Club, int, error) {
	f.lastFilter, f.lastParams = filter, params
	return f.clubs, f.total, f.err
}

func (f *fakeClubService) GetClub(_ context.Context, idOrSlug string) (*domain.Club, error) {
	f.lastClubID = idOrSlug
	if f.err != nil {
		return nil, f.err
	}
	return f.club, nil
}

func (f *fakeClubService) UpdateClub(_ context.Context, clubID string, caller domain.Principal, upd domain.ClubUpdate) (*domain.Club, error) {
	f.lastClubID, f.lastCaller, f.lastUpdate = clubID, caller, upd
	if f.err != nil {
		return nil, f.err
	}
	return f.club, nil
}

func (f *fakeClubService) DeleteClub(_ context.Context, clubID string, caller domain.Principal) error {
	f.lastClubID, f.lastCaller = clubID, caller
	return f.err
}

func (f *fakeClubService) JoinClub(_ context.Context, clubID, userID string) (*domain.ClubMember, bool, error) {
	f.lastClubID, f.lastUserID = clubID, userID
	if f.err != nil {
		return nil, false, f.err
	}
	return &domain.ClubMember{ClubID: clubID, UserID: userID, Role: domain.ClubRoleMember}, f.joined, nil
}

func (f *fakeClubService) LeaveClub(_ context.Context, clubID, userID string) error {
	f.lastClubID, f.lastUserID = clubID, userID
	return f.err
}

func (f *fakeClubService) ListMembers(_ context.Context, clubID string) ([]*domain.ClubMember, error) {
	f.lastClubID = clubID
	return f.members, f.err
}

func (f *fakeClubService) ListMyClubs(_ context.Context, userID string) ([]*domain.Club, error) {
	f.lastUserID = userID
	return f.clubs, f.err
}

func (f *fakeClubService) PromoteMember(_ context.Context, clubID, userID string, caller domain.Principal) (*domain.ClubMember, error) {
	f.lastClubID, f.lastUserID, f.lastCaller = clubID, userID, caller
	if f.err != nil {
		return nil, f.err
	}
	return &domain.ClubMember{ClubID: clubID, UserID: userID, Role: domain.ClubRoleOfficer}, nil
}

func (f *fakeClubService) CanManage(context.Context, string, domain.Principal) (bool, error) {
	return f.err == nil, f.err
}

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	err         error
	events      []*domain.Event
	total       int
	withCounts  *domain.EventWithCounts
	updated     *domain.Event
	lastCreated *domain.Event
	lastFilter  domain.EventFilter
	lastParams  domain.PaginationParams
	lastEventID string
	lastCaller  domain.Principal
	lastUpdate  domain.EventUpdate
}

func (f *fakeEventService) CreateEvent(_ context.Context, event *domain.Event, caller domain.Principal) error {
	f.lastCreated, f.lastCaller = event, caller
	if f.err != nil {
		return f.err
	}
	event.ID = testEventID
	event.CreatedBy = caller.UserID
	return nil
}

func (f *fakeEventService) ListEvents(_ context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	f.lastFilter, f.lastParams = filter, params
	return f.events, f.total, f.err
}

func (f *fakeEventService) GetEvent(_ context.Context, eventID string) (*domain.EventWithCounts, error) {
	f.lastEventID = eventID
	if f.err != nil {
		return nil, f.err
	}
	return f.withCounts, nil
}

func (f *fakeEventService) UpdateEvent(_ context.Context, eventID string, caller domain.Principal, upd domain.EventUpdate) (*domain.Event, error) {
	f.lastEventID, f.lastCaller, f.lastUpdate = eventID, caller, upd
	if f.err != nil {
		return nil, f.err
	}
	return f.updated, nil
}

func (f *fakeEventService) DeleteEvent(_ context.Context, eventID string, caller domain.Principal) error {
	f.lastEventID, f.lastCaller = eventID, caller
	return f.err
}

// fakeRegistrationService implements domain.RegistrationService for handler tests.
type fakeRegistrationService struct {
	err          error
	created      bool
	mine         []*domain.EventRegistrationWithEvent
	list         []*domain.RegistrationWithUser
	total        int
	lastEventID  string
	lastUserID   string
	lastKind     string
	lastDetails  map[string]string
	lastAttended bool
	lastParams   domain.PaginationParams
}

func (f *fakeRegistrationService) Submit(_ context.Context, eventID, userID, kind string, details map[string]string) (*domain.EventRegistration, bool, error) {
	f.lastEventID, f.lastUserID, f.lastKind, f.lastDetails = eventID, userID, kind, details
	if f.err != nil {
		return nil, false, f.err
	}
	return domain.NewEventRegistration(eventID, userID, kind, details, testTime, testTime), f.created, nil
}

func (f *fakeRegistrationService) Cancel(_ context.Context, eventID, userID, kind string) error {
	f.lastEventID, f.lastUserID, f.lastKind = eventID, userID, kind
	return f.err
}

func (f *fakeRegistrationService) ListMyRegistrations(_ context.Context, userID string) ([]*domain.EventRegistrationWithEvent, error) {
	f.lastUserID = userID
	return f.mine, f.err
}

func (f *fakeRegistrationService) ListEventRegistrations(_ context.Context, eventID, kind string, _ domain.Principal, params domain.PaginationParams) ([]*domain.RegistrationWithUser, int, error) {
	f.lastEventID, f.lastKind, f.lastParams = eventID, kind, params
	return f.list, f.total, f.err
}

func (f *fakeRegistrationService) MarkAttendance(_ context.Context, eventID, userID string, attended bool, _ domain.Principal) (*domain.EventRegistration, error) {
	f.lastEventID, f.lastUserID, f.lastAttended = eventID, userID, attended
	if f.err != nil {
		return nil, f.err
	}
	reg := domain.NewEventRegistration(eventID, userID, domain.FormRSVP, nil, testTime, testTime)
	reg.Attended = attended
	return reg, nil
}

var testTime = time.Date(2026, 11, 5, 18, 0, 0, 0, time.UTC)

// fakeCertificateService implements domain.CertificateService for handler tests.
type fakeCertificateService struct {
	err         error
	created     bool
	details     *domain.CertificateDetails
	mine        []*domain.CertificateDetails
	bulk        *domain.BulkIssueResult
	contentType string
	rendered    []byte
	lastEventID string
	lastUserID  string
	lastTitle   string
	lastCode    string
}

func (f *fakeCertificateService) Issue(_ context.Context, eventID, userID, title string, caller domain.Principal) (*domain.Certificate, bool, error) {
	f.lastEventID, f.lastUserID, f.lastTitle = eventID, userID, title
	if f.err != nil {
		return nil, false, f.err
	}
	return &domain.Certificate{ID: "c1", EventID: eventID, UserID: userID, Title: title, IssuedBy: caller.UserID,
		VerificationCode: "CC-AAAA-BBBB-CCCC"}, f.created, nil
}

func (f *fakeCertificateService) IssueForAttendees(_ context.Context, eventID, title string, _ domain.Principal) (*domain.BulkIssueResult, error) {
	f.lastEventID, f.lastTitle = eventID, title
	if f.err != nil {
		return nil, f.err
	}
	return f.bulk, nil
}

func (f *fakeCertificateService) Verify(_ context.Context, code string) (*domain.CertificateDetails, error) {
	f.lastCode = code
	if f.err != nil {
		return nil, f.err
	}
	return f.details, nil
}

func (f *fakeCertificateService) ListMine(_ context.Context, userID string) ([]*domain.CertificateDetails, error) {
	f.lastUserID = userID
	return f.mine, f.err
}

func (f *fakeCertificateService) Render(_ context.Context, code string) (string, []byte, error) {
	f.lastCode = code
	if f.err != nil {
		return "", nil, f.err
	}
	return f.contentType, f.rendered, nil
}

func (f *fakeCertificateService) BackfillVerificationCodes(context.Context) (int, error) {
	return 0, f.err
}

// fakeBadgeService implements domain.BadgeService for handler tests.
type fakeBadgeService struct {
	err        error
	badges     []domain.Badge
	userBadges *domain.UserBadges
	entries    []*domain.LeaderboardEntry
	lastUserID string
	lastLimit  int
}

func (f *fakeBadgeService) ListBadges() []domain.Badge { return f.badges }

func (f *fakeBadgeService) GetUserBadges(_ context.Context, userID string) (*domain.UserBadges, error) {
	f.lastUserID = userID
	if f.err != nil {
		return nil, f.err
	}
	return f.userBadges, nil
}

func (f *fakeBadgeService) Leaderboard(_ context.Context, limit int) ([]*domain.LeaderboardEntry, error) {
	f.lastLimit = limit
	return f.entries, f.err
}

// fakeSponsorshipService implements domain.SponsorshipService for handler tests.
type fakeSponsorshipService struct {
	err             error
	sponsor         *domain.Sponsor
	sponsors        []*domain.Sponsor
	packages        []*domain.SponsorshipPackage
	sponsorships    []*domain.Sponsorship
	active          []*domain.ActiveSponsorship
	stats           *domain.SponsorshipStats
	lastID          string
	lastClubID      string
	lastStatus      string
	lastAccept      bool
	lastApply       *domain.Sponsorship
	lastPackage     *domain.SponsorshipPackage
	lastUpdate      domain.SponsorUpdate
	impressions     int
	clicks          int
	lastOwnerID     string
	lastCallerID    string
	deletedPackages []string
}

func (f *fakeSponsorshipService) CreateSponsor(_ context.Context, sponsor *domain.Sponsor) error {
	if f.err != nil {
		return f.err
	}
	sponsor.ID = testOtherID
	f.sponsor = sponsor
	return nil
}

func (f *fakeSponsorshipService) GetSponsor(_ context.Context, id string) (*domain.Sponsor, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	return f.sponsor, nil
}

func (f *fakeSponsorshipService) ListMySponsors(_ context.Context, ownerID string) ([]*domain.Sponsor, error) {
	f.lastOwnerID = ownerID
	return f.sponsors, f.err
}

func (f *fakeSponsorshipService) UpdateSponsor(_ context.Context, id string, caller domain.Principal, upd domain.SponsorUpdate) (*domain.Sponsor, error) {
	f.lastID, f.lastCallerID, f.lastUpdate = id, caller.UserID, upd
	if f.err != nil {
		return nil, f.err
	}
	return f.sponsor, nil
}

func (f *fakeSponsorshipService) CreatePackage(_ context.Context, pkg *domain.SponsorshipPackage, caller domain.Principal) error {
	f.lastPackage, f.lastCallerID = pkg, caller.UserID
	if f.err != nil {
		return f.err
	}
	pkg.ID = testOtherID
	return nil
}

func (f *fakeSponsorshipService) ListPackages(_ context.Context, clubID string) ([]*domain.SponsorshipPackage, error) {
	f.lastClubID = clubID
	return f.packages, f.err
}

func (f *fakeSponsorshipService) DeletePackage(_ context.Context, id string, _ domain.Principal) error {
	if f.err != nil {
		return f.err
	}
	f.deletedPackages = append(f.deletedPackages, id)
	return nil
}

func (f *fakeSponsorshipService) Apply(_ context.Context, s *domain.Sponsorship, caller domain.Principal) error {
	f.lastApply, f.lastCallerID = s, caller.UserID
	if f.err != nil {
		return f.err
	}
	s.ID = testOtherID
	s.Status = domain.SponsorshipPending
	return nil
}

func (f *fakeSponsorshipService) Decide(_ context.Context, id string, accept bool, _ domain.Principal) (*domain.Sponsorship, error) {
	f.lastID, f.lastAccept = id, accept
	if f.err != nil {
		return nil, f.err
	}
	status := domain.SponsorshipDeclined
	if accept {
		status = domain.SponsorshipActive
	}
	return &domain.Sponsorship{ID: id, Status: status}, nil
}

func (f *fakeSponsorshipService) ListClubSponsorships(_ context.Context, clubID, status string, _ domain.Principal) ([]*domain.Sponsorship, error) {
	f.lastClubID, f.lastStatus = clubID, status
	return f.sponsorships, f.err
}

func (f *fakeSponsorshipService) ListActiveSponsorships(_ context.Context, clubID string) ([]*domain.ActiveSponsorship, error) {
	f.lastClubID = clubID
	return f.active, f.err
}

func (f *fakeSponsorshipService) RecordImpression(_ context.Context, id string) error {
	f.lastID = id
	if f.err != nil {
		return f.err
	}
	f.impressions++
	return nil
}

func (f *fakeSponsorshipService) RecordClick(_ context.Context, id string) error {
	f.lastID = id
	if f.err != nil {
		return f.err
	}
	f.clicks++
	return nil
}

func (f *fakeSponsorshipService) GetStats(_ context.Context, id string) (*domain.SponsorshipStats, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	return f.stats, nil
}

// fakeContentService implements domain.ContentService for handler tests.
type fakeContentService struct {
	faq    []domain.FAQEntry
	footer []domain.FooterGroup
}

func (f *fakeContentService) FAQ() []domain.FAQEntry       { return f.faq }
func (f *fakeContentService) Footer() []domain.FooterGroup { return f.footer }
