package domain

import (
	"context"
	"time"
)

// Form kinds an event accepts.
const (
	FormRSVP      = "rsvp"
	FormVolunteer = "volunteer"
	FormSponsor   = "sponsor"
)

// Registration statuses.
const (
	RegistrationActive    = "active"
	RegistrationCancelled = "cancelled"
)

// ValidFormKind reports whether kind is one of the supported event forms.
func ValidFormKind(kind string) bool {
	switch kind {
	case FormRSVP, FormVolunteer, FormSponsor:
		return true
	}
	return false
}

// EventRegistration is a submitted event form (RSVP, volunteer or sponsor interest).
// swagger:model EventRegistration
type EventRegistration struct {
	ID        string            `json:"id"`
	EventID   string            `json:"event_id"`
	UserID    string            `json:"user_id"`
	Kind      string            `json:"kind"`
	Status    string            `json:"status"`
	Attended  bool              `json:"attended"`
	Details   map[string]string `json:"details"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// NewEventRegistration creates an active EventRegistration. ID is typically set by the repository on create.
func NewEventRegistration(eventID, userID, kind string, details map[string]string, createdAt, updatedAt time.Time) *EventRegistration {
	if details == nil {
		details = map[string]string{}
	}
	return &EventRegistration{
		EventID:   eventID,
		UserID:    userID,
		Kind:      kind,
		Status:    RegistrationActive,
		Details:   details,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// EventRegistrationWithEvent bundles a registration with its related event.
type EventRegistrationWithEvent struct {
	Registration *EventRegistration `json:"registration"`
	Event        *Event             `json:"event"`
}

// RegistrationWithUser bundles a registration with the submitting user's public profile.
type RegistrationWithUser struct {
	*EventRegistration
	Name     string `json:"name"`
	LastName string `json:"last_name"`
	Email    string `json:"email"`
}

// EventRegistrationRepository defines storage operations for event registrations.
type EventRegistrationRepository interface {
	// Create inserts reg. A positive limit caps active registrations of reg.Kind for the event,
	// checked atomically with the insert; exceeding it returns ErrEventFull.
	Create(ctx context.Context, reg *EventRegistration, limit int) error
	GetByEventUserKind(ctx context.Context, eventID, userID, kind string) (*EventRegistration, error)
	Reactivate(ctx context.Context, existing *EventRegistration, details map[string]string, limit int) (*EventRegistration, error)
	Cancel(ctx context.Context, id string) error
	SetAttended(ctx context.Context, id string, attended bool) error
	CountActive(ctx context.Context, eventID, kind string) (int, error)
	ListByUserID(ctx context.Context, userID string) ([]*EventRegistration, error)
	ListByEventID(ctx context.Context, eventID, kind string, params PaginationParams) ([]*RegistrationWithUser, int, error)
	ListAttended(ctx context.Context, eventID string) ([]*EventRegistration, error)
	ListActiveRSVPUsers(ctx context.Context, eventID string) ([]*User, error)
}

// RegistrationService defines event form operations.
type RegistrationService interface {
	// Submit returns (reg, created, err): created is false when an active registration already existed.
	Submit(ctx context.Context, eventID, userID, kind string, details map[string]string) (*EventRegistration, bool, error)
	Cancel(ctx context.Context, eventID, userID, kind string) error
	ListMyRegistrations(ctx context.Context, userID string) ([]*EventRegistrationWithEvent, error)
	ListEventRegistrations(ctx context.Context, eventID, kind string, caller Principal, params PaginationParams) ([]*RegistrationWithUser, int, error)
	MarkAttendance(ctx context.Context, eventID, userID string, attended bool, caller Principal) (*EventRegistration, error)
}
