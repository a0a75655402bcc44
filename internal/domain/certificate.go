package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Certificate is an issued participation record rendered to an image/PDF by the client.
// swagger:model Certificate
type Certificate struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	EventID          string    `json:"event_id"`
	Title            string    `json:"title"`
	RecipientName    string    `json:"recipient_name"`
	VerificationCode string    `json:"verification_code"`
	IssuedBy         string    `json:"issued_by"`
	IssuedAt         time.Time `json:"issued_at"`
}

// CertificateDetails is a certificate plus the context needed to display or verify it.
// swagger:model CertificateDetails
type CertificateDetails struct {
	*Certificate
	EventTitle string    `json:"event_title"`
	EventDate  time.Time `json:"event_date"`
	ClubName   string    `json:"club_name"`
}

// NewVerificationCode returns a code of the form CC-XXXX-XXXX-XXXX built from a random UUID.
func NewVerificationCode() string {
	hex := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "CC-" + hex[0:4] + "-" + hex[4:8] + "-" + hex[8:12]
}

// NormalizeVerificationCode upper-cases and trims a user-supplied code.
func NormalizeVerificationCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// BulkIssueResult reports the outcome of issuing certificates to all attendees of an event.
type BulkIssueResult struct {
	Issued              int `json:"issued"`
	AlreadyIssued       int `json:"already_issued"`
	NotificationsFailed int `json:"notifications_failed"`
}

// CertificateRepository defines storage for certificates.
type CertificateRepository interface {
	Create(ctx context.Context, cert *Certificate) error
	GetByUserAndEvent(ctx context.Context, userID, eventID string) (*Certificate, error)
	GetDetailsByCode(ctx context.Context, code string) (*CertificateDetails, error)
	ListDetailsByUserID(ctx context.Context, userID string) ([]*CertificateDetails, error)
	ListMissingCodes(ctx context.Context) ([]*Certificate, error)
	SetVerificationCode(ctx context.Context, id, code string) error
}

// CertificateRenderer renders a certificate into a printable document.
type CertificateRenderer interface {
	Render(cert *CertificateDetails) (contentType string, body []byte, err error)
}

// CertificateService defines certificate operations.
type CertificateService interface {
	// Issue returns (cert, created, err): created is false when the user already holds a certificate for the event.
	Issue(ctx context.Context, eventID, userID, title string, caller Principal) (*Certificate, bool, error)
	IssueForAttendees(ctx context.Context, eventID, title string, caller Principal) (*BulkIssueResult, error)
	Verify(ctx context.Context, code string) (*CertificateDetails, error)
	ListMine(ctx context.Context, userID string) ([]*CertificateDetails, error)
	Render(ctx context.Context, code string) (contentType string, body []byte, err error)
	BackfillVerificationCodes(ctx context.Context) (int, error)
}
