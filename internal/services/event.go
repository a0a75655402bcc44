package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"clubconn/internal/domain"
)

type eventService struct {
	eventRepo        domain.EventRepository
	registrationRepo domain.EventRegistrationRepository
	clubs            clubManager
	contextTimeout   time.Duration
}

// NewEventService creates an EventService. clubs decides who may manage a club's events.
func NewEventService(eventRepo domain.EventRepository,
	registrationRepo domain.EventRegistrationRepository,
	clubs clubManager,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		clubs:            clubs,
		contextTimeout:   timeout,
	}
}

func validateEvent(e *domain.Event) error {
	var problems []string
	if strings.TrimSpace(e.Title) == "" {
		problems = append(problems, "title is required")
	}
	if e.StartsAt.IsZero() || e.EndsAt.IsZero() {
		problems = append(problems, "starts_at and ends_at are required")
	} else if !e.EndsAt.After(e.StartsAt) {
		problems = append(problems, "ends_at must be after starts_at")
	}
	if e.Capacity < 0 {
		problems = append(problems, "capacity must be zero or positive")
	}
	if e.VolunteerSlots < 0 {
		problems = append(problems, "volunteer_slots must be zero or positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(problems, "; "))
	}
	return nil
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event, caller domain.Principal) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event.Title = strings.TrimSpace(event.Title)
	if err := validateEvent(event); err != nil {
		return err
	}
	if err := requireManager(ctx, s.clubs, event.ClubID, caller); err != nil {
		return err
	}

	now := time.Now()
	event.CreatedBy = caller.UserID
	event.CreatedAt = now
	event.UpdatedAt = now
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (s *eventService) ListEvents(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if filter.From.IsZero() {
		filter.From = time.Now()
	}
	events, total, err := s.eventRepo.List(ctx, filter, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	return events, total, nil
}

func (s *eventService) GetEvent(ctx context.Context, eventID string) (*domain.EventWithCounts, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	rsvps, err := s.registrationRepo.CountActive(ctx, eventID, domain.FormRSVP)
	if err != nil {
		return nil, fmt.Errorf("count rsvps: %w", err)
	}
	volunteers, err := s.registrationRepo.CountActive(ctx, eventID, domain.FormVolunteer)
	if err != nil {
		return nil, fmt.Errorf("count volunteers: %w", err)
	}
	return &domain.EventWithCounts{Event: event, RSVPCount: rsvps, VolunteerCount: volunteers}, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, eventID string, caller domain.Principal, upd domain.EventUpdate) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if err := requireManager(ctx, s.clubs, event.ClubID, caller); err != nil {
		return nil, err
	}

	// Validate the event as it will look after the update.
	merged := *event
	if upd.Title != nil {
		t := strings.TrimSpace(*upd.Title)
		upd.Title = &t
		merged.Title = t
	}
	if upd.StartsAt != nil {
		merged.StartsAt = *upd.StartsAt
	}
	if upd.EndsAt != nil {
		merged.EndsAt = *upd.EndsAt
	}
	if upd.Capacity != nil {
		merged.Capacity = *upd.Capacity
	}
	if upd.VolunteerSlots != nil {
		merged.VolunteerSlots = *upd.VolunteerSlots
	}
	if err := validateEvent(&merged); err != nil {
		return nil, err
	}

	updated, err := s.eventRepo.Update(ctx, eventID, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, eventID string, caller domain.Principal) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if err := requireManager(ctx, s.clubs, event.ClubID, caller); err != nil {
		return err
	}
	return s.eventRepo.Delete(ctx, eventID)
}
