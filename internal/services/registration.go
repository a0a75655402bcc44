package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"clubconn/internal/domain"
)

// RegistrationServiceDeps groups the collaborators of the registration service.
type RegistrationServiceDeps struct {
	Events         domain.EventRepository
	Registrations  domain.EventRegistrationRepository
	Users          domain.UserRepository
	Clubs          domain.ClubRepository
	Managers       clubManager
	Email          domain.EmailService
	AppBaseURL     string
	Logger         *slog.Logger
	ContextTimeout time.Duration
}

type registrationService struct {
	eventRepo        domain.EventRepository
	registrationRepo domain.EventRegistrationRepository
	userRepo         domain.UserRepository
	clubRepo         domain.ClubRepository
	managers         clubManager
	emailService     domain.EmailService
	appBaseURL       string
	logger           *slog.Logger
	contextTimeout   time.Duration
}

// NewRegistrationService creates the RegistrationService handling RSVP, volunteer and sponsor forms.
func NewRegistrationService(deps RegistrationServiceDeps) domain.RegistrationService {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &registrationService{
		eventRepo:        deps.Events,
		registrationRepo: deps.Registrations,
		userRepo:         deps.Users,
		clubRepo:         deps.Clubs,
		managers:         deps.Managers,
		emailService:     deps.Email,
		appBaseURL:       deps.AppBaseURL,
		logger:           deps.Logger,
		contextTimeout:   deps.ContextTimeout,
	}
}

func (s *registrationService) getEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// capacityLimit returns the cap on active forms of kind for event; zero means unlimited.
func capacityLimit(event *domain.Event, kind string) (int, error) {
	switch kind {
	case domain.FormRSVP:
		return event.Capacity, nil
	case domain.FormVolunteer:
		if event.VolunteerSlots == 0 {
			return 0, fmt.Errorf("%w: this event does not accept volunteers", domain.ErrInvalidInput)
		}
		return event.VolunteerSlots, nil
	default:
		return 0, nil
	}
}

func (s *registrationService) Submit(ctx context.Context, eventID, userID, kind string, details map[string]string) (*domain.EventRegistration, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !domain.ValidFormKind(kind) {
		return nil, false, fmt.Errorf("%w: unknown form %q", domain.ErrInvalidInput, kind)
	}
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, false, err
	}
	if event.HasEnded(time.Now()) {
		return nil, false, fmt.Errorf("%w: the event has already ended", domain.ErrInvalidInput)
	}

	limit, err := capacityLimit(event, kind)
	if err != nil {
		return nil, false, err
	}

	existing, err := s.registrationRepo.GetByEventUserKind(ctx, eventID, userID, kind)
	switch {
	case err == nil && existing.Status == domain.RegistrationActive:
		return existing, false, nil
	case err == nil:
		reg, err := s.registrationRepo.Reactivate(ctx, existing, details, limit)
		if err != nil {
			if errors.Is(err, domain.ErrEventFull) {
				return nil, false, err
			}
			return nil, false, fmt.Errorf("reactivate registration: %w", err)
		}
		s.confirm(ctx, event, reg)
		return reg, true, nil
	case !errors.Is(err, domain.ErrNotFound):
		return nil, false, fmt.Errorf("get event registration: %w", err)
	}

	now := time.Now()
	reg := domain.NewEventRegistration(eventID, userID, kind, details, now, now)
	if err := s.registrationRepo.Create(ctx, reg, limit); err != nil {
		if errors.Is(err, domain.ErrEventFull) {
			return nil, false, err
		}
		if errors.Is(err, domain.ErrConflict) {
			// A concurrent submit won; return its row.
			existing, getErr := s.registrationRepo.GetByEventUserKind(ctx, eventID, userID, kind)
			if getErr == nil {
				return existing, false, nil
			}
		}
		return nil, false, fmt.Errorf("create event registration: %w", err)
	}
	s.confirm(ctx, event, reg)
	return reg, true, nil
}

// confirm sends the RSVP confirmation email. Failures are logged, not returned.
func (s *registrationService) confirm(ctx context.Context, event *domain.Event, reg *domain.EventRegistration) {
	if s.emailService == nil || reg.Kind != domain.FormRSVP {
		return
	}
	user, err := s.userRepo.GetByID(ctx, reg.UserID)
	if err != nil {
		s.logger.WarnContext(ctx, "rsvp confirmation skipped", "registration_id", reg.ID, "error", err)
		return
	}
	data := &domain.EventEmailData{
		Email:      user.Email,
		FirstName:  user.Name,
		EventTitle: event.Title,
		Location:   event.Location,
		StartsAt:   event.StartsAt,
		EventURL:   s.appBaseURL + "/events/" + event.ID,
	}
	if club, err := s.clubRepo.GetByID(ctx, event.ClubID); err == nil {
		data.ClubName = club.Name
	}
	if err := s.emailService.SendRSVPConfirmation(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "rsvp confirmation failed", "registration_id", reg.ID, "error", err)
	}
}

func (s *registrationService) Cancel(ctx context.Context, eventID, userID, kind string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !domain.ValidFormKind(kind) {
		return fmt.Errorf("%w: unknown form %q", domain.ErrInvalidInput, kind)
	}
	reg, err := s.registrationRepo.GetByEventUserKind(ctx, eventID, userID, kind)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event registration: %w", err)
	}
	if reg.Status == domain.RegistrationCancelled {
		return nil
	}
	return s.registrationRepo.Cancel(ctx, reg.ID)
}

func (s *registrationService) ListMyRegistrations(ctx context.Context, userID string) ([]*domain.EventRegistrationWithEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	regs, err := s.registrationRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}

	eventsByID := make(map[string]*domain.Event)
	result := make([]*domain.EventRegistrationWithEvent, 0, len(regs))
	for _, reg := range regs {
		ev, ok := eventsByID[reg.EventID]
		if !ok {
			ev, err = s.eventRepo.GetByID(ctx, reg.EventID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					continue
				}
				return nil, fmt.Errorf("get event for registration: %w", err)
			}
			eventsByID[reg.EventID] = ev
		}
		result = append(result, &domain.EventRegistrationWithEvent{Registration: reg, Event: ev})
	}
	return result, nil
}

func (s *registrationService) ListEventRegistrations(ctx context.Context, eventID, kind string, caller domain.Principal, params domain.PaginationParams) ([]*domain.RegistrationWithUser, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if kind != "" && !domain.ValidFormKind(kind) {
		return nil, 0, fmt.Errorf("%w: unknown form %q", domain.ErrInvalidInput, kind)
	}
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, 0, err
	}
	if err := requireManager(ctx, s.managers, event.ClubID, caller); err != nil {
		return nil, 0, err
	}
	regs, total, err := s.registrationRepo.ListByEventID(ctx, eventID, kind, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list event registrations: %w", err)
	}
	return regs, total, nil
}

// MarkAttendance flags the user's active RSVP (or, without one, active volunteer) registration as attended.
func (s *registrationService) MarkAttendance(ctx context.Context, eventID, userID string, attended bool, caller domain.Principal) (*domain.EventRegistration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := requireManager(ctx, s.managers, event.ClubID, caller); err != nil {
		return nil, err
	}

	var reg *domain.EventRegistration
	for _, kind := range []string{domain.FormRSVP, domain.FormVolunteer} {
		candidate, err := s.registrationRepo.GetByEventUserKind(ctx, eventID, userID, kind)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get event registration: %w", err)
		}
		if candidate.Status == domain.RegistrationActive {
			reg = candidate
			break
		}
	}
	if reg == nil {
		return nil, domain.ErrNotFound
	}
	if err := s.registrationRepo.SetAttended(ctx, reg.ID, attended); err != nil {
		return nil, fmt.Errorf("set attendance: %w", err)
	}
	reg.Attended = attended
	return reg, nil
}
