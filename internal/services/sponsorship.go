package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"clubconn/internal/domain"
)

// SponsorshipServiceDeps groups the collaborators of the sponsorship service.
type SponsorshipServiceDeps struct {
	Sponsors       domain.SponsorRepository
	Packages       domain.SponsorshipPackageRepository
	Sponsorships   domain.SponsorshipRepository
	Clubs          domain.ClubRepository
	Managers       clubManager
	Email          domain.EmailService
	Logger         *slog.Logger
	ContextTimeout time.Duration
}

type sponsorshipService struct {
	sponsorRepo     domain.SponsorRepository
	packageRepo     domain.SponsorshipPackageRepository
	sponsorshipRepo domain.SponsorshipRepository
	clubRepo        domain.ClubRepository
	managers        clubManager
	emailService    domain.EmailService
	logger          *slog.Logger
	contextTimeout  time.Duration
}

// NewSponsorshipService creates a SponsorshipService.
func NewSponsorshipService(deps SponsorshipServiceDeps) domain.SponsorshipService {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &sponsorshipService{
		sponsorRepo:     deps.Sponsors,
		packageRepo:     deps.Packages,
		sponsorshipRepo: deps.Sponsorships,
		clubRepo:        deps.Clubs,
		managers:        deps.Managers,
		emailService:    deps.Email,
		logger:          deps.Logger,
		contextTimeout:  deps.ContextTimeout,
	}
}

func validateSponsor(name, contactEmail string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if contactEmail != "" {
		if _, err := mail.ParseAddress(contactEmail); err != nil {
			return fmt.Errorf("%w: contact_email is not a valid address", domain.ErrInvalidInput)
		}
	}
	return nil
}

func (s *sponsorshipService) CreateSponsor(ctx context.Context, sponsor *domain.Sponsor) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	sponsor.Name = strings.TrimSpace(sponsor.Name)
	sponsor.ContactEmail = strings.TrimSpace(sponsor.ContactEmail)
	if err := validateSponsor(sponsor.Name, sponsor.ContactEmail); err != nil {
		return err
	}
	if sponsor.OwnerID == "" {
		return fmt.Errorf("sponsor owner is required")
	}
	now := time.Now()
	sponsor.CreatedAt = now
	sponsor.UpdatedAt = now
	if err := s.sponsorRepo.Create(ctx, sponsor); err != nil {
		return fmt.Errorf("create sponsor: %w", err)
	}
	return nil
}

func (s *sponsorshipService) GetSponsor(ctx context.Context, id string) (*domain.Sponsor, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	sponsor, err := s.sponsorRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get sponsor: %w", err)
	}
	return sponsor, nil
}

func (s *sponsorshipService) ListMySponsors(ctx context.Context, ownerID string) ([]*domain.Sponsor, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	sponsors, err := s.sponsorRepo.ListByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list sponsors: %w", err)
	}
	if sponsors == nil {
		sponsors = []*domain.Sponsor{}
	}
	return sponsors, nil
}

// ownedSponsor loads a sponsor and checks the caller owns it (admins pass).
func (s *sponsorshipService) ownedSponsor(ctx context.Context, id string, caller domain.Principal) (*domain.Sponsor, error) {
	sponsor, err := s.sponsorRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get sponsor: %w", err)
	}
	if sponsor.OwnerID != caller.UserID && !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return sponsor, nil
}

func (s *sponsorshipService) UpdateSponsor(ctx context.Context, id string, caller domain.Principal, upd domain.SponsorUpdate) (*domain.Sponsor, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	current, err := s.ownedSponsor(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	name, contact := current.Name, current.ContactEmail
	if upd.Name != nil {
		trimmed := strings.TrimSpace(*upd.Name)
		upd.Name = &trimmed
		name = trimmed
	}
	if upd.ContactEmail != nil {
		trimmed := strings.TrimSpace(*upd.ContactEmail)
		upd.ContactEmail = &trimmed
		contact = trimmed
	}
	if err := validateSponsor(name, contact); err != nil {
		return nil, err
	}
	sponsor, err := s.sponsorRepo.Update(ctx, id, upd)
	if err != nil {
		return nil, fmt.Errorf("update sponsor: %w", err)
	}
	return sponsor, nil
}

func (s *sponsorshipService) CreatePackage(ctx context.Context, pkg *domain.SponsorshipPackage, caller domain.Principal) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	pkg.Title = strings.TrimSpace(pkg.Title)
	if pkg.Title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if pkg.PriceCents < 0 {
		return fmt.Errorf("%w: price_cents must be zero or positive", domain.ErrInvalidInput)
	}
	if err := requireManager(ctx, s.managers, pkg.ClubID, caller); err != nil {
		return err
	}
	if pkg.Perks == nil {
		pkg.Perks = []string{}
	}
	now := time.Now()
	pkg.CreatedAt = now
	pkg.UpdatedAt = now
	if err := s.packageRepo.Create(ctx, pkg); err != nil {
		return fmt.Errorf("create package: %w", err)
	}
	return nil
}

func (s *sponsorshipService) ListPackages(ctx context.Context, clubID string) ([]*domain.SponsorshipPackage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	pkgs, err := s.packageRepo.List(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	if pkgs == nil {
		pkgs = []*domain.SponsorshipPackage{}
	}
	return pkgs, nil
}

func (s *sponsorshipService) DeletePackage(ctx context.Context, id string, caller domain.Principal) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	pkg, err := s.packageRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get package: %w", err)
	}
	if err := requireManager(ctx, s.managers, pkg.ClubID, caller); err != nil {
		return err
	}
	if err := s.packageRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete package: %w", err)
	}
	return nil
}

// Apply files a pending sponsorship for a sponsor the caller owns.
func (s *sponsorshipService) Apply(ctx context.Context, sp *domain.Sponsorship, caller domain.Principal) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if sp.SponsorID == "" || sp.ClubID == "" {
		return fmt.Errorf("%w: sponsor_id and club_id are required", domain.ErrInvalidInput)
	}
	if _, err := s.ownedSponsor(ctx, sp.SponsorID, caller); err != nil {
		return err
	}
	if _, err := s.clubRepo.GetByID(ctx, sp.ClubID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get club: %w", err)
	}
	if sp.PackageID != nil && *sp.PackageID == "" {
		sp.PackageID = nil
	}
	if sp.PackageID != nil {
		pkg, err := s.packageRepo.GetByID(ctx, *sp.PackageID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: package not found", domain.ErrInvalidInput)
			}
			return fmt.Errorf("get package: %w", err)
		}
		if pkg.ClubID != sp.ClubID {
			return fmt.Errorf("%w: package does not belong to this club", domain.ErrInvalidInput)
		}
	}

	_, err := s.sponsorshipRepo.FindOpen(ctx, sp.SponsorID, sp.ClubID, sp.PackageID)
	switch {
	case err == nil:
		return fmt.Errorf("%w: an application for this club is already pending or active", domain.ErrConflict)
	case !errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("find open sponsorship: %w", err)
	}

	now := time.Now()
	sp.Message = strings.TrimSpace(sp.Message)
	sp.Status = domain.SponsorshipPending
	sp.Impressions = 0
	sp.Clicks = 0
	sp.CreatedAt = now
	sp.UpdatedAt = now
	if err := s.sponsorshipRepo.Create(ctx, sp); err != nil {
		return fmt.Errorf("create sponsorship: %w", err)
	}
	return nil
}

// Decide accepts or declines a pending sponsorship and notifies the sponsor.
func (s *sponsorshipService) Decide(ctx context.Context, id string, accept bool, caller domain.Principal) (*domain.Sponsorship, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	sp, err := s.sponsorshipRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get sponsorship: %w", err)
	}
	if err := requireManager(ctx, s.managers, sp.ClubID, caller); err != nil {
		return nil, err
	}
	if sp.Status != domain.SponsorshipPending {
		return nil, fmt.Errorf("%w: sponsorship is already %s", domain.ErrInvalidInput, sp.Status)
	}

	status := domain.SponsorshipDeclined
	if accept {
		status = domain.SponsorshipActive
	}
	updated, err := s.sponsorshipRepo.SetStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("set sponsorship status: %w", err)
	}
	s.notifyDecision(ctx, updated, accept)
	return updated, nil
}

func (s *sponsorshipService) notifyDecision(ctx context.Context, sp *domain.Sponsorship, accepted bool) {
	if s.emailService == nil {
		return
	}
	sponsor, err := s.sponsorRepo.GetByID(ctx, sp.SponsorID)
	if err != nil || sponsor.ContactEmail == "" {
		return
	}
	clubName := ""
	if club, err := s.clubRepo.GetByID(ctx, sp.ClubID); err == nil {
		clubName = club.Name
	}
	err = s.emailService.SendSponsorshipDecision(ctx, &domain.SponsorshipDecisionEmailData{
		Email:       sponsor.ContactEmail,
		SponsorName: sponsor.Name,
		ClubName:    clubName,
		Accepted:    accepted,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "sponsorship decision email failed", "sponsorship_id", sp.ID, "error", err)
	}
}

func validSponsorshipStatus(status string) bool {
	switch status {
	case "", domain.SponsorshipPending, domain.SponsorshipActive, domain.SponsorshipDeclined:
		return true
	}
	return false
}

func (s *sponsorshipService) ListClubSponsorships(ctx context.Context, clubID, status string, caller domain.Principal) ([]*domain.Sponsorship, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !validSponsorshipStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}
	if err := requireManager(ctx, s.managers, clubID, caller); err != nil {
		return nil, err
	}
	list, err := s.sponsorshipRepo.ListByClubID(ctx, clubID, status)
	if err != nil {
		return nil, fmt.Errorf("list sponsorships: %w", err)
	}
	if list == nil {
		list = []*domain.Sponsorship{}
	}
	return list, nil
}

func (s *sponsorshipService) ListActiveSponsorships(ctx context.Context, clubID string) ([]*domain.ActiveSponsorship, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	list, err := s.sponsorshipRepo.ListActiveWithSponsor(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("list active sponsorships: %w", err)
	}
	if list == nil {
		list = []*domain.ActiveSponsorship{}
	}
	return list, nil
}

func (s *sponsorshipService) RecordImpression(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.sponsorshipRepo.IncrementImpressions(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("record impression: %w", err)
	}
	return nil
}

func (s *sponsorshipService) RecordClick(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.sponsorshipRepo.IncrementClicks(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("record click: %w", err)
	}
	return nil
}

func (s *sponsorshipService) GetStats(ctx context.Context, id string) (*domain.SponsorshipStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	sp, err := s.sponsorshipRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get sponsorship: %w", err)
	}
	return &domain.SponsorshipStats{
		SponsorshipID:    sp.ID,
		Impressions:      sp.Impressions,
		Clicks:           sp.Clicks,
		ClickThroughRate: sp.ClickThroughRate(),
	}, nil
}
