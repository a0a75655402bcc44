package domain

import (
	"context"
	"time"
)

// Sponsorship statuses.
const (
	SponsorshipPending  = "pending"
	SponsorshipActive   = "active"
	SponsorshipDeclined = "declined"
)

// Sponsor is a company or organization profile that applies to sponsor clubs.
// swagger:model Sponsor
type Sponsor struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"owner_id"`
	Name         string    `json:"name"`
	Website      string    `json:"website"`
	LogoURL      string    `json:"logo_url"`
	ContactEmail string    `json:"contact_email"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SponsorUpdate carries optional fields for a partial sponsor update.
type SponsorUpdate struct {
	Name         *string
	Website      *string
	LogoURL      *string
	ContactEmail *string
}

// SponsorshipPackage is a sponsorship offer a club lists on the marketplace.
// swagger:model SponsorshipPackage
type SponsorshipPackage struct {
	ID          string    `json:"id"`
	ClubID      string    `json:"club_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents"`
	Perks       []string  `json:"perks"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Sponsorship links a sponsor to a club (optionally through a package) and tracks display counters.
// swagger:model Sponsorship
type Sponsorship struct {
	ID          string    `json:"id"`
	SponsorID   string    `json:"sponsor_id"`
	ClubID      string    `json:"club_id"`
	PackageID   *string   `json:"package_id"`
	Status      string    `json:"status"`
	Message     string    `json:"message"`
	Impressions int64     `json:"impressions"`
	Clicks      int64     `json:"clicks"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SponsorshipStats are the display counters of a sponsorship.
// swagger:model SponsorshipStats
type SponsorshipStats struct {
	SponsorshipID    string  `json:"sponsorship_id"`
	Impressions      int64   `json:"impressions"`
	Clicks           int64   `json:"clicks"`
	ClickThroughRate float64 `json:"click_through_rate"`
}

// ClickThroughRate returns clicks/impressions as a percentage rounded to two decimals.
func (s *Sponsorship) ClickThroughRate() float64 {
	if s.Impressions == 0 {
		return 0
	}
	pct := float64(s.Clicks) / float64(s.Impressions) * 100
	return float64(int64(pct*100+0.5)) / 100
}

// ActiveSponsorship is an active sponsorship joined with the sponsor's display fields.
// swagger:model ActiveSponsorship
type ActiveSponsorship struct {
	*Sponsorship
	SponsorName string `json:"sponsor_name"`
	Website     string `json:"website"`
	LogoURL     string `json:"logo_url"`
}

// SponsorRepository defines storage for sponsors.
type SponsorRepository interface {
	Create(ctx context.Context, sponsor *Sponsor) error
	GetByID(ctx context.Context, id string) (*Sponsor, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]*Sponsor, error)
	Update(ctx context.Context, id string, upd SponsorUpdate) (*Sponsor, error)
}

// SponsorshipPackageRepository defines storage for sponsorship packages.
type SponsorshipPackageRepository interface {
	Create(ctx context.Context, pkg *SponsorshipPackage) error
	GetByID(ctx context.Context, id string) (*SponsorshipPackage, error)
	List(ctx context.Context, clubID string) ([]*SponsorshipPackage, error)
	Delete(ctx context.Context, id string) error
}

// SponsorshipRepository defines storage for sponsorships.
type SponsorshipRepository interface {
	// Create returns ErrConflict when the sponsor already has a pending or active
	// sponsorship for the same club and package.
	Create(ctx context.Context, s *Sponsorship) error
	GetByID(ctx context.Context, id string) (*Sponsorship, error)
	FindOpen(ctx context.Context, sponsorID, clubID string, packageID *string) (*Sponsorship, error)
	ListByClubID(ctx context.Context, clubID, status string) ([]*Sponsorship, error)
	ListActiveWithSponsor(ctx context.Context, clubID string) ([]*ActiveSponsorship, error)
	// SetStatus decides a pending sponsorship. A sponsorship that is no longer pending
	// returns ErrInvalidInput.
	SetStatus(ctx context.Context, id, status string) (*Sponsorship, error)
	// IncrementImpressions and IncrementClicks only touch active sponsorships; ErrNotFound otherwise.
	IncrementImpressions(ctx context.Context, id string) error
	IncrementClicks(ctx context.Context, id string) error
}

// SponsorshipService defines the sponsorship marketplace operations.
type SponsorshipService interface {
	CreateSponsor(ctx context.Context, sponsor *Sponsor) error
	GetSponsor(ctx context.Context, id string) (*Sponsor, error)
	ListMySponsors(ctx context.Context, ownerID string) ([]*Sponsor, error)
	UpdateSponsor(ctx context.Context, id string, caller Principal, upd SponsorUpdate) (*Sponsor, error)

	CreatePackage(ctx context.Context, pkg *SponsorshipPackage, caller Principal) error
	ListPackages(ctx context.Context, clubID string) ([]*SponsorshipPackage, error)
	DeletePackage(ctx context.Context, id string, caller Principal) error

	Apply(ctx context.Context, s *Sponsorship, caller Principal) error
	Decide(ctx context.Context, id string, accept bool, caller Principal) (*Sponsorship, error)
	ListClubSponsorships(ctx context.Context, clubID, status string, caller Principal) ([]*Sponsorship, error)
	ListActiveSponsorships(ctx context.Context, clubID string) ([]*ActiveSponsorship, error)
	RecordImpression(ctx context.Context, id string) error
	RecordClick(ctx context.Context, id string) error
	GetStats(ctx context.Context, id string) (*SponsorshipStats, error)
}
