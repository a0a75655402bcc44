package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"clubconn/internal/domain"
)

// Reminder defaults.
const (
	DefaultReminderInterval = 15 * time.Minute
	DefaultReminderWindow   = 24 * time.Hour
)

// ReminderConfig wires a ReminderProcessor. Zero Interval and Window take the defaults.
type ReminderConfig struct {
	Events        domain.EventRepository
	Registrations domain.EventRegistrationRepository
	Clubs         domain.ClubRepository
	Email         domain.EmailService
	Logger        *slog.Logger
	Interval      time.Duration
	Window        time.Duration
	AppBaseURL    string
}

// ReminderProcessor emails every active RSVP of events starting within the window,
// then marks the event so it is reminded only once.
type ReminderProcessor struct {
	events        domain.EventRepository
	registrations domain.EventRegistrationRepository
	clubs         domain.ClubRepository
	email         domain.EmailService
	logger        *slog.Logger
	window        time.Duration
	appBaseURL    string
	now           func() time.Time

	loop *loop
}

// NewReminderProcessor creates a reminder processor. Call Start to schedule it.
func NewReminderProcessor(cfg ReminderConfig) *ReminderProcessor {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultReminderInterval
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultReminderWindow
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	p := &ReminderProcessor{
		events:        cfg.Events,
		registrations: cfg.Registrations,
		clubs:         cfg.Clubs,
		email:         cfg.Email,
		logger:        cfg.Logger,
		window:        cfg.Window,
		appBaseURL:    cfg.AppBaseURL,
		now:           time.Now,
	}
	p.loop = &loop{
		name:     "event_reminders",
		interval: cfg.Interval,
		timeout:  5 * time.Minute,
		logger:   cfg.Logger,
		fn: func(ctx context.Context) error {
			_, err := p.RunOnce(ctx)
			return err
		},
	}
	return p
}

// Start begins the reminder loop. Calling Start on a running processor does nothing.
func (p *ReminderProcessor) Start() { p.loop.start() }

// Stop ends the loop and waits for it to exit. Calling Stop on a stopped processor does nothing.
func (p *ReminderProcessor) Stop() { p.loop.stop() }

// IsRunning returns whether the processor is running
func (p *ReminderProcessor) IsRunning() bool { return p.loop.isRunning() }

// RunOnce sends due reminders and returns how many emails were sent.
// An event whose attendees cannot be listed is left unmarked so the next run retries it.
func (p *ReminderProcessor) RunOnce(ctx context.Context) (int, error) {
	now := p.now()
	events, err := p.events.ListNeedingReminder(ctx, now, now.Add(p.window))
	if err != nil {
		return 0, fmt.Errorf("list events needing reminder: %w", err)
	}

	sent := 0
	var errs []error
	for _, event := range events {
		n, err := p.remind(ctx, event)
		sent += n
		if err != nil {
			errs = append(errs, fmt.Errorf("event %s: %w", event.ID, err))
			continue
		}
		if err := p.events.MarkReminderSent(ctx, event.ID, now); err != nil {
			errs = append(errs, fmt.Errorf("mark reminder sent for event %s: %w", event.ID, err))
		}
	}
	if len(events) > 0 {
		p.logger.InfoContext(ctx, "event reminders processed", "events", len(events), "emails_sent", sent)
	}
	return sent, errors.Join(errs...)
}

func (p *ReminderProcessor) remind(ctx context.Context, event *domain.Event) (int, error) {
	users, err := p.registrations.ListActiveRSVPUsers(ctx, event.ID)
	if err != nil {
		return 0, fmt.Errorf("list rsvp users: %w", err)
	}
	clubName := ""
	if club, err := p.clubs.GetByID(ctx, event.ClubID); err == nil {
		clubName = club.Name
	}

	sent := 0
	for _, u := range users {
		data := &domain.EventEmailData{
			Email:      u.Email,
			FirstName:  u.Name,
			EventTitle: event.Title,
			ClubName:   clubName,
			Location:   event.Location,
			StartsAt:   event.StartsAt,
			EventURL:   p.appBaseURL + "/events/" + event.ID,
		}
		if err := p.email.SendEventReminder(ctx, data); err != nil {
			p.logger.WarnContext(ctx, "event reminder failed", "event_id", event.ID, "user_id", u.ID, "error", err)
			continue
		}
		sent++
	}
	return sent, nil
}
