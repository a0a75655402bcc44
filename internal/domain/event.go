package domain

import (
	"context"
	"time"
)

// Event is a club event that members RSVP, volunteer, or sponsor-sign-up for.
// swagger:model Event
type Event struct {
	ID             string     `json:"id"`
	ClubID         string     `json:"club_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Location       string     `json:"location"`
	StartsAt       time.Time  `json:"starts_at"`
	EndsAt         time.Time  `json:"ends_at"`
	Capacity       int        `json:"capacity"`
	VolunteerSlots int        `json:"volunteer_slots"`
	CreatedBy      string     `json:"created_by"`
	ReminderSentAt *time.Time `json:"reminder_sent_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// HasEnded reports whether the event is over at now.
func (e *Event) HasEnded(now time.Time) bool {
	return !e.EndsAt.IsZero() && e.EndsAt.Before(now)
}

// EventFilter narrows event listings.
type EventFilter struct {
	ClubID      string
	From        time.Time
	IncludePast bool
}

// EventUpdate carries optional fields for a partial event update.
type EventUpdate struct {
	Title          *string
	Description    *string
	Location       *string
	StartsAt       *time.Time
	EndsAt         *time.Time
	Capacity       *int
	VolunteerSlots *int
}

// EventWithCounts bundles an event with its active form counts.
// swagger:model EventWithCounts
type EventWithCounts struct {
	*Event
	RSVPCount      int `json:"rsvp_count"`
	VolunteerCount int `json:"volunteer_count"`
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	FindByClubTitleStart(ctx context.Context, clubID, title string, startsAt time.Time) (*Event, error)
	List(ctx context.Context, filter EventFilter, params PaginationParams) ([]*Event, int, error)
	Update(ctx context.Context, id string, upd EventUpdate) (*Event, error)
	Delete(ctx context.Context, id string) error
	ListNeedingReminder(ctx context.Context, from, to time.Time) ([]*Event, error)
	MarkReminderSent(ctx context.Context, id string, at time.Time) error
}

// EventService defines event operations.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event, caller Principal) error
	ListEvents(ctx context.Context, filter EventFilter, params PaginationParams) ([]*Event, int, error)
	GetEvent(ctx context.Context, eventID string) (*EventWithCounts, error)
	UpdateEvent(ctx context.Context, eventID string, caller Principal, upd EventUpdate) (*Event, error)
	DeleteEvent(ctx context.Context, eventID string, caller Principal) error
}
