package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"clubconn/internal/domain"
)

var errBoom = errors.New("boom")

// fakeUserRepo implements domain.UserRepository for tests.
type fakeUserRepo struct {
	byID     map[string]*domain.User
	byEmail  map[string]*domain.User
	assigned map[string][]string // user id -> role ids
	nextID   int
	getErr   error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:     make(map[string]*domain.User),
		byEmail:  make(map[string]*domain.User),
		assigned: make(map[string][]string),
	}
}

func (f *fakeUserRepo) add(u *domain.User) *domain.User {
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return u
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return domain.ErrDuplicateEmail
	}
	f.nextID++
	u.ID = fmt.Sprintf("user-%d", f.nextID)
	f.add(u)
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) Update(ctx context.Context, u *domain.User) error {
	if _, ok := f.byID[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	if existing, ok := f.byEmail[u.Email]; ok && existing.ID != u.ID {
		return domain.ErrDuplicateEmail
	}
	f.add(u)
	return nil
}

func (f *fakeUserRepo) AssignRole(ctx context.Context, userID, roleID string) error {
	f.assigned[userID] = append(f.assigned[userID], roleID)
	return nil
}

// fakeRoleRepo implements domain.RoleRepository for tests.
type fakeRoleRepo struct {
	byCode    map[string]*domain.Role
	listByUID map[string][]*domain.Role
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{
		byCode: map[string]*domain.Role{
			domain.RoleAdmin:  domain.NewRole("role-admin", domain.RoleAdmin),
			domain.RoleMember: domain.NewRole("role-member", domain.RoleMember),
		},
		listByUID: make(map[string][]*domain.Role),
	}
}

func (f *fakeRoleRepo) GetByCode(ctx context.Context, code string) (*domain.Role, error) {
	if r, ok := f.byCode[code]; ok {
		return r, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRoleRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Role, error) {
	return f.listByUID[userID], nil
}

// fakeLoginCodeRepo implements domain.LoginCodeRepository for tests.
type fakeLoginCodeRepo struct {
	codes map[string]string // email -> code hash
}

func newFakeLoginCodeRepo() *fakeLoginCodeRepo {
	return &fakeLoginCodeRepo{codes: make(map[string]string)}
}

func (f *fakeLoginCodeRepo) Create(ctx context.Context, email, codeHash string, expiresAt time.Time) error {
	f.codes[email] = codeHash
	return nil
}

func (f *fakeLoginCodeRepo) Consume(ctx context.Context, email, codeHash string) (bool, error) {
	if f.codes[email] != codeHash {
		return false, nil
	}
	delete(f.codes, email)
	return true, nil
}

func (f *fakeLoginCodeRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

// fakePasswordHasher implements domain.PasswordHasher for tests.
type fakePasswordHasher struct{}

func (fakePasswordHasher) GenerateSalt() (string, error) { return "salt", nil }
func (fakePasswordHasher) Hash(salt, password string) (string, error) {
	return "hash-" + salt + "-" + password, nil
}
func (fakePasswordHasher) Compare(hash, salt, password string) error {
	if hash != "hash-"+salt+"-"+password {
		return errors.New("mismatch")
	}
	return nil
}

// fakeTokenIssuer implements domain.TokenIssuer for tests.
type fakeTokenIssuer struct {
	lastRoles []string
}

func (f *fakeTokenIssuer) Issue(userID, email string, roles []string, expiry time.Duration) (string, error) {
	f.lastRoles = roles
	return "token-" + userID, nil
}

// fakeEmailService records every email it is asked to send.
type fakeEmailService struct {
	mu            sync.Mutex
	err           error
	welcome       []*domain.WelcomeEmailData
	loginCodes    []*domain.LoginCodeEmailData
	confirmations []*domain.EventEmailData
	reminders     []*domain.EventEmailData
	certificates  []*domain.CertificateEmailData
	decisions     []*domain.SponsorshipDecisionEmailData
}

func (f *fakeEmailService) SendWelcome(ctx context.Context, d *domain.WelcomeEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.welcome = append(f.welcome, d)
	return f.err
}

func (f *fakeEmailService) SendLoginCode(ctx context.Context, d *domain.LoginCodeEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loginCodes = append(f.loginCodes, d)
	return f.err
}

func (f *fakeEmailService) SendRSVPConfirmation(ctx context.Context, d *domain.EventEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmations = append(f.confirmations, d)
	return f.err
}

func (f *fakeEmailService) SendEventReminder(ctx context.Context, d *domain.EventEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reminders = append(f.reminders, d)
	return f.err
}

func (f *fakeEmailService) SendCertificateIssued(ctx context.Context, d *domain.CertificateEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.certificates = append(f.certificates, d)
	return f.err
}

func (f *fakeEmailService) SendSponsorshipDecision(ctx context.Context, d *domain.SponsorshipDecisionEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.decisions = append(f.decisions, d)
	return f.err
}

// fakeClubRepo implements domain.ClubRepository for tests.
type fakeClubRepo struct {
	byID      map[string]*domain.Club
	nextID    int
	memberOf  map[string][]string // user id -> club ids
	createErr error
	members   *fakeClubMemberRepo // enrolls the owner on create when set
}

func newFakeClubRepo() *fakeClubRepo {
	return &fakeClubRepo{byID: make(map[string]*domain.Club), memberOf: make(map[string][]string)}
}

func (f *fakeClubRepo) Create(ctx context.Context, c *domain.Club) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.byID {
		if existing.Slug == c.Slug {
			return domain.ErrConflict
		}
	}
	f.nextID++
	id := fmt.Sprintf("club-%d", f.nextID)
	if f.members != nil {
		if err := f.members.Add(ctx, id, c.OwnerID, domain.ClubRoleOfficer); err != nil {
			return err
		}
	}
	c.ID = id
	f.byID[c.ID] = c
	return nil
}

func (f *fakeClubRepo) GetByID(ctx context.Context, id string) (*domain.Club, error) {
	if c, ok := f.byID[id]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeClubRepo) GetBySlug(ctx context.Context, slug string) (*domain.Club, error) {
	for _, c := range f.byID {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeClubRepo) List(ctx context.Context, filter domain.ClubFilter, params domain.PaginationParams) ([]*domain.Club, int, error) {
	var out []*domain.Club
	for _, c := range f.byID {
		if filter.Category != "" && c.Category != filter.Category {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, len(out), nil
}

func (f *fakeClubRepo) ListByMember(ctx context.Context, userID string) ([]*domain.Club, error) {
	var out []*domain.Club
	for _, id := range f.memberOf[userID] {
		out = append(out, f.byID[id])
	}
	return out, nil
}

func (f *fakeClubRepo) Update(ctx context.Context, id string, upd domain.ClubUpdate) (*domain.Club, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.Description != nil {
		c.Description = *upd.Description
	}
	if upd.Category != nil {
		c.Category = *upd.Category
	}
	if upd.LogoURL != nil {
		c.LogoURL = *upd.LogoURL
	}
	if upd.ContactEmail != nil {
		c.ContactEmail = *upd.ContactEmail
	}
	return c, nil
}

func (f *fakeClubRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeClubMemberRepo implements domain.ClubMemberRepository for tests.
type fakeClubMemberRepo struct {
	members map[string]*domain.ClubMember // club id + "/" + user id
	addErr  error
}

func newFakeClubMemberRepo() *fakeClubMemberRepo {
	return &fakeClubMemberRepo{members: make(map[string]*domain.ClubMember)}
}

func (f *fakeClubMemberRepo) Add(ctx context.Context, clubID, userID, role string) error {
	if f.addErr != nil {
		return f.addErr
	}
	key := clubID + "/" + userID
	if _, ok := f.members[key]; ok {
		return domain.ErrAlreadyMember
	}
	f.members[key] = &domain.ClubMember{ClubID: clubID, UserID: userID, Role: role, JoinedAt: time.Now()}
	return nil
}

func (f *fakeClubMemberRepo) Get(ctx context.Context, clubID, userID string) (*domain.ClubMember, error) {
	if m, ok := f.members[clubID+"/"+userID]; ok {
		return m, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeClubMemberRepo) ListByClubID(ctx context.Context, clubID string) ([]*domain.ClubMember, error) {
	var out []*domain.ClubMember
	for _, m := range f.members {
		if m.ClubID == clubID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeClubMemberRepo) SetRole(ctx context.Context, clubID, userID, role string) error {
	m, ok := f.members[clubID+"/"+userID]
	if !ok {
		return domain.ErrNotFound
	}
	m.Role = role
	return nil
}

func (f *fakeClubMemberRepo) Remove(ctx context.Context, clubID, userID string) error {
	key := clubID + "/" + userID
	if _, ok := f.members[key]; !ok {
		return domain.ErrNotFound
	}
	delete(f.members, key)
	return nil
}

// fakeManager implements clubManager with a fixed answer.
type fakeManager struct {
	allow bool
	err   error
}

func (f fakeManager) CanManage(ctx context.Context, clubID string, caller domain.Principal) (bool, error) {
	return f.allow, f.err
}

// fakeEventRepo implements domain.EventRepository for tests.
type fakeEventRepo struct {
	byID     map[string]*domain.Event
	nextID   int
	reminded map[string]time.Time
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{byID: make(map[string]*domain.Event), reminded: make(map[string]time.Time)}
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	f.nextID++
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) FindByClubTitleStart(ctx context.Context, clubID, title string, startsAt time.Time) (*domain.Event, error) {
	for _, e := range f.byID {
		if e.ClubID == clubID && e.Title == title && e.StartsAt.Equal(startsAt) {
			return e, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) List(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	var out []*domain.Event
	for _, e := range f.byID {
		if filter.ClubID != "" && e.ClubID != filter.ClubID {
			continue
		}
		if !filter.IncludePast && e.EndsAt.Before(filter.From) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, len(out), nil
}

func (f *fakeEventRepo) Update(ctx context.Context, id string, upd domain.EventUpdate) (*domain.Event, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.Title != nil {
		e.Title = *upd.Title
	}
	if upd.Description != nil {
		e.Description = *upd.Description
	}
	if upd.Location != nil {
		e.Location = *upd.Location
	}
	if upd.StartsAt != nil {
		e.StartsAt = *upd.StartsAt
	}
	if upd.EndsAt != nil {
		e.EndsAt = *upd.EndsAt
	}
	if upd.Capacity != nil {
		e.Capacity = *upd.Capacity
	}
	if upd.VolunteerSlots != nil {
		e.VolunteerSlots = *upd.VolunteerSlots
	}
	return e, nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeEventRepo) ListNeedingReminder(ctx context.Context, from, to time.Time) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range f.byID {
		if e.ReminderSentAt == nil && !e.StartsAt.Before(from) && e.StartsAt.Before(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) MarkReminderSent(ctx context.Context, id string, at time.Time) error {
	e, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	e.ReminderSentAt = &at
	f.reminded[id] = at
	return nil
}

// fakeRegistrationRepo implements domain.EventRegistrationRepository for tests.
type fakeRegistrationRepo struct {
	byID      map[string]*domain.EventRegistration
	nextID    int
	createErr error
	rsvpUsers map[string][]*domain.User // event id -> users
	limits    []int                     // limit passed to each Create or Reactivate
}

func newFakeRegistrationRepo() *fakeRegistrationRepo {
	return &fakeRegistrationRepo{
		byID:      make(map[string]*domain.EventRegistration),
		rsvpUsers: make(map[string][]*domain.User),
	}
}

// activeExcluding counts active registrations of kind for eventID other than excludeID.
func (f *fakeRegistrationRepo) activeExcluding(eventID, kind, excludeID string) int {
	n := 0
	for _, r := range f.byID {
		if r.EventID == eventID && r.Kind == kind && r.Status == domain.RegistrationActive && r.ID != excludeID {
			n++
		}
	}
	return n
}

func (f *fakeRegistrationRepo) Create(ctx context.Context, r *domain.EventRegistration, limit int) error {
	f.limits = append(f.limits, limit)
	if f.createErr != nil {
		return f.createErr
	}
	if limit > 0 && f.activeExcluding(r.EventID, r.Kind, "") >= limit {
		return domain.ErrEventFull
	}
	f.nextID++
	r.ID = fmt.Sprintf("reg-%d", f.nextID)
	f.byID[r.ID] = r
	return nil
}

func (f *fakeRegistrationRepo) GetByEventUserKind(ctx context.Context, eventID, userID, kind string) (*domain.EventRegistration, error) {
	for _, r := range f.byID {
		if r.EventID == eventID && r.UserID == userID && r.Kind == kind {
			return r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRegistrationRepo) Reactivate(ctx context.Context, existing *domain.EventRegistration, details map[string]string, limit int) (*domain.EventRegistration, error) {
	f.limits = append(f.limits, limit)
	r, ok := f.byID[existing.ID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if limit > 0 && f.activeExcluding(r.EventID, r.Kind, r.ID) >= limit {
		return nil, domain.ErrEventFull
	}
	r.Status = domain.RegistrationActive
	if details != nil {
		r.Details = details
	}
	return r, nil
}

func (f *fakeRegistrationRepo) Cancel(ctx context.Context, id string) error {
	r, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.Status = domain.RegistrationCancelled
	return nil
}

func (f *fakeRegistrationRepo) SetAttended(ctx context.Context, id string, attended bool) error {
	r, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.Attended = attended
	return nil
}

func (f *fakeRegistrationRepo) CountActive(ctx context.Context, eventID, kind string) (int, error) {
	n := 0
	for _, r := range f.byID {
		if r.EventID == eventID && r.Kind == kind && r.Status == domain.RegistrationActive {
			n++
		}
	}
	return n, nil
}

func (f *fakeRegistrationRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.EventRegistration, error) {
	var out []*domain.EventRegistration
	for _, r := range f.byID {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRegistrationRepo) ListByEventID(ctx context.Context, eventID, kind string, params domain.PaginationParams) ([]*domain.RegistrationWithUser, int, error) {
	var out []*domain.RegistrationWithUser
	for _, r := range f.byID {
		if r.EventID == eventID && (kind == "" || r.Kind == kind) {
			out = append(out, &domain.RegistrationWithUser{EventRegistration: r})
		}
	}
	return out, len(out), nil
}

func (f *fakeRegistrationRepo) ListAttended(ctx context.Context, eventID string) ([]*domain.EventRegistration, error) {
	var out []*domain.EventRegistration
	for _, r := range f.byID {
		if r.EventID == eventID && r.Attended && r.Status == domain.RegistrationActive {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRegistrationRepo) ListActiveRSVPUsers(ctx context.Context, eventID string) ([]*domain.User, error) {
	return f.rsvpUsers[eventID], nil
}

// fakeCertificateRepo implements domain.CertificateRepository for tests.
type fakeCertificateRepo struct {
	byID        map[string]*domain.Certificate
	nextID      int
	conflictsOn map[string]bool // codes that collide on create or update
}

func newFakeCertificateRepo() *fakeCertificateRepo {
	return &fakeCertificateRepo{byID: make(map[string]*domain.Certificate), conflictsOn: make(map[string]bool)}
}

func (f *fakeCertificateRepo) Create(ctx context.Context, c *domain.Certificate) error {
	if f.conflictsOn[c.VerificationCode] {
		return domain.ErrConflict
	}
	for _, existing := range f.byID {
		if existing.UserID == c.UserID && existing.EventID == c.EventID {
			return domain.ErrConflict
		}
	}
	f.nextID++
	c.ID = fmt.Sprintf("cert-%d", f.nextID)
	f.byID[c.ID] = c
	return nil
}

func (f *fakeCertificateRepo) GetByUserAndEvent(ctx context.Context, userID, eventID string) (*domain.Certificate, error) {
	for _, c := range f.byID {
		if c.UserID == userID && c.EventID == eventID {
			return c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCertificateRepo) GetDetailsByCode(ctx context.Context, code string) (*domain.CertificateDetails, error) {
	for _, c := range f.byID {
		if c.VerificationCode == code {
			return &domain.CertificateDetails{Certificate: c, EventTitle: "Hack Night"}, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCertificateRepo) ListDetailsByUserID(ctx context.Context, userID string) ([]*domain.CertificateDetails, error) {
	var out []*domain.CertificateDetails
	for _, c := range f.byID {
		if c.UserID == userID {
			out = append(out, &domain.CertificateDetails{Certificate: c})
		}
	}
	return out, nil
}

func (f *fakeCertificateRepo) ListMissingCodes(ctx context.Context) ([]*domain.Certificate, error) {
	var out []*domain.Certificate
	for _, c := range f.byID {
		if c.VerificationCode == "" {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCertificateRepo) SetVerificationCode(ctx context.Context, id, code string) error {
	if f.conflictsOn[code] {
		return domain.ErrConflict
	}
	c, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.VerificationCode = code
	return nil
}

// fakeStatsRepo implements domain.StatsRepository for tests.
type fakeStatsRepo struct {
	stats  []*domain.UserStats
	err    error
	limits []int
}

func (f *fakeStatsRepo) GetUserStats(ctx context.Context, userID string) (*domain.UserStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, s := range f.stats {
		if s.UserID == userID {
			return s, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeStatsRepo) TopUserStats(ctx context.Context, limit int, w domain.PointWeights) ([]*domain.UserStats, error) {
	f.limits = append(f.limits, limit)
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("stats query without deadline")
	}
	sorted := make([]*domain.UserStats, len(f.stats))
	copy(sorted, f.stats)
	sort.SliceStable(sorted, func(i, j int) bool { return w.Points(*sorted[i]) > w.Points(*sorted[j]) })
	for i := range sorted {
		// Keep everyone tied with the last place inside limit.
		if i >= limit && w.Points(*sorted[i]) < w.Points(*sorted[limit-1]) {
			return sorted[:i], nil
		}
	}
	return sorted, nil
}

// fakeSponsorRepo implements domain.SponsorRepository for tests.
type fakeSponsorRepo struct {
	byID   map[string]*domain.Sponsor
	nextID int
}

func newFakeSponsorRepo() *fakeSponsorRepo {
	return &fakeSponsorRepo{byID: make(map[string]*domain.Sponsor)}
}

func (f *fakeSponsorRepo) Create(ctx context.Context, s *domain.Sponsor) error {
	f.nextID++
	s.ID = fmt.Sprintf("sponsor-%d", f.nextID)
	f.byID[s.ID] = s
	return nil
}

func (f *fakeSponsorRepo) GetByID(ctx context.Context, id string) (*domain.Sponsor, error) {
	if s, ok := f.byID[id]; ok {
		return s, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSponsorRepo) ListByOwnerID(ctx context.Context, ownerID string) ([]*domain.Sponsor, error) {
	var out []*domain.Sponsor
	for _, s := range f.byID {
		if s.OwnerID == ownerID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSponsorRepo) Update(ctx context.Context, id string, upd domain.SponsorUpdate) (*domain.Sponsor, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.Name != nil {
		s.Name = *upd.Name
	}
	if upd.Website != nil {
		s.Website = *upd.Website
	}
	if upd.LogoURL != nil {
		s.LogoURL = *upd.LogoURL
	}
	if upd.ContactEmail != nil {
		s.ContactEmail = *upd.ContactEmail
	}
	return s, nil
}

// fakePackageRepo implements domain.SponsorshipPackageRepository for tests.
type fakePackageRepo struct {
	byID   map[string]*domain.SponsorshipPackage
	nextID int
}

func newFakePackageRepo() *fakePackageRepo {
	return &fakePackageRepo{byID: make(map[string]*domain.SponsorshipPackage)}
}

func (f *fakePackageRepo) Create(ctx context.Context, p *domain.SponsorshipPackage) error {
	f.nextID++
	p.ID = fmt.Sprintf("pkg-%d", f.nextID)
	f.byID[p.ID] = p
	return nil
}

func (f *fakePackageRepo) GetByID(ctx context.Context, id string) (*domain.SponsorshipPackage, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakePackageRepo) List(ctx context.Context, clubID string) ([]*domain.SponsorshipPackage, error) {
	var out []*domain.SponsorshipPackage
	for _, p := range f.byID {
		if clubID == "" || p.ClubID == clubID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePackageRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeSponsorshipRepo implements domain.SponsorshipRepository for tests.
type fakeSponsorshipRepo struct {
	byID   map[string]*domain.Sponsorship
	nextID int
}

func newFakeSponsorshipRepo() *fakeSponsorshipRepo {
	return &fakeSponsorshipRepo{byID: make(map[string]*domain.Sponsorship)}
}

func samePackage(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (f *fakeSponsorshipRepo) Create(ctx context.Context, s *domain.Sponsorship) error {
	if _, err := f.FindOpen(ctx, s.SponsorID, s.ClubID, s.PackageID); err == nil {
		return domain.ErrConflict
	}
	f.nextID++
	s.ID = fmt.Sprintf("sp-%d", f.nextID)
	f.byID[s.ID] = s
	return nil
}

func (f *fakeSponsorshipRepo) GetByID(ctx context.Context, id string) (*domain.Sponsorship, error) {
	if s, ok := f.byID[id]; ok {
		return s, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSponsorshipRepo) FindOpen(ctx context.Context, sponsorID, clubID string, packageID *string) (*domain.Sponsorship, error) {
	for _, s := range f.byID {
		if s.SponsorID == sponsorID && s.ClubID == clubID && samePackage(s.PackageID, packageID) && s.Status != domain.SponsorshipDeclined {
			return s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSponsorshipRepo) ListByClubID(ctx context.Context, clubID, status string) ([]*domain.Sponsorship, error) {
	var out []*domain.Sponsorship
	for _, s := range f.byID {
		if s.ClubID == clubID && (status == "" || s.Status == status) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSponsorshipRepo) ListActiveWithSponsor(ctx context.Context, clubID string) ([]*domain.ActiveSponsorship, error) {
	var out []*domain.ActiveSponsorship
	for _, s := range f.byID {
		if s.ClubID == clubID && s.Status == domain.SponsorshipActive {
			out = append(out, &domain.ActiveSponsorship{Sponsorship: s})
		}
	}
	return out, nil
}

func (f *fakeSponsorshipRepo) SetStatus(ctx context.Context, id, status string) (*domain.Sponsorship, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if s.Status != domain.SponsorshipPending {
		return nil, fmt.Errorf("%w: sponsorship is already %s", domain.ErrInvalidInput, s.Status)
	}
	s.Status = status
	return s, nil
}

func (f *fakeSponsorshipRepo) IncrementImpressions(ctx context.Context, id string) error {
	s, ok := f.byID[id]
	if !ok || s.Status != domain.SponsorshipActive {
		return domain.ErrNotFound
	}
	s.Impressions++
	return nil
}

func (f *fakeSponsorshipRepo) IncrementClicks(ctx context.Context, id string) error {
	s, ok := f.byID[id]
	if !ok || s.Status != domain.SponsorshipActive {
		return domain.ErrNotFound
	}
	s.Clicks++
	return nil
}
