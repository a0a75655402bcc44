package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"clubconn/internal/domain"
)

type catalogService struct {
	userRepo       domain.UserRepository
	clubRepo       domain.ClubRepository
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
}

// NewCatalogService creates a CatalogService that writes straight to the repositories.
func NewCatalogService(userRepo domain.UserRepository, clubRepo domain.ClubRepository, eventRepo domain.EventRepository, timeout time.Duration) domain.CatalogService {
	return &catalogService{
		userRepo:       userRepo,
		clubRepo:       clubRepo,
		eventRepo:      eventRepo,
		contextTimeout: timeout,
	}
}

// Import creates the catalog's clubs and events owned by ownerEmail.
// Clubs already present by slug and events already present by (club, title, starts_at) are skipped.
func (s *catalogService) Import(ctx context.Context, catalog *domain.Catalog, ownerEmail string) (*domain.ImportResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if catalog == nil {
		return nil, fmt.Errorf("%w: catalog is empty", domain.ErrInvalidInput)
	}
	email, err := normalizeEmail(ownerEmail)
	if err != nil {
		return nil, err
	}
	owner, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: owner %s does not exist", domain.ErrInvalidInput, email)
		}
		return nil, fmt.Errorf("get owner: %w", err)
	}

	result := &domain.ImportResult{}
	clubIDs := make(map[string]string) // slug -> club id

	for _, c := range catalog.Clubs {
		name := strings.TrimSpace(c.Name)
		slug := c.Slug
		if slug == "" {
			slug = name
		}
		slug = domain.Slugify(slug)
		if name == "" || slug == "" {
			return result, fmt.Errorf("%w: club entry needs a name", domain.ErrInvalidInput)
		}

		existing, err := s.clubRepo.GetBySlug(ctx, slug)
		if err == nil {
			clubIDs[slug] = existing.ID
			result.ClubsSkipped++
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return result, fmt.Errorf("get club %s: %w", slug, err)
		}

		now := time.Now()
		club := &domain.Club{
			Name:         name,
			Slug:         slug,
			Description:  c.Description,
			Category:     c.Category,
			LogoURL:      c.LogoURL,
			ContactEmail: c.ContactEmail,
			OwnerID:      owner.ID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.clubRepo.Create(ctx, club); err != nil {
			return result, fmt.Errorf("failed to create club %s: %w", slug, err)
		}
		clubIDs[slug] = club.ID
		result.ClubsCreated++
	}

	for _, e := range catalog.Events {
		slug := domain.Slugify(e.ClubSlug)
		clubID, ok := clubIDs[slug]
		if !ok {
			club, err := s.clubRepo.GetBySlug(ctx, slug)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return result, fmt.Errorf("%w: event %q references unknown club %q", domain.ErrInvalidInput, e.Title, e.ClubSlug)
				}
				return result, fmt.Errorf("get club %s: %w", slug, err)
			}
			clubID = club.ID
			clubIDs[slug] = clubID
		}

		title := strings.TrimSpace(e.Title)
		_, err := s.eventRepo.FindByClubTitleStart(ctx, clubID, title, e.StartsAt)
		if err == nil {
			result.EventsSkipped++
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return result, fmt.Errorf("find event %q: %w", title, err)
		}

		now := time.Now()
		event := &domain.Event{
			ClubID:         clubID,
			Title:          title,
			Description:    e.Description,
			Location:       e.Location,
			StartsAt:       e.StartsAt,
			EndsAt:         e.EndsAt,
			Capacity:       e.Capacity,
			VolunteerSlots: e.VolunteerSlots,
			CreatedBy:      owner.ID,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := validateEvent(event); err != nil {
			return result, fmt.Errorf("event %q: %w", title, err)
		}
		if err := s.eventRepo.Create(ctx, event); err != nil {
			return result, fmt.Errorf("failed to create event %s: %w", title, err)
		}
		result.EventsCreated++
	}

	return result, nil
}
