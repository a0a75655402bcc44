package domain

import (
	"context"
	"time"
)

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// WelcomeEmailData holds data for the welcome email.
type WelcomeEmailData struct {
	Email     string
	FirstName string
	AppURL    string
}

// LoginCodeEmailData holds data for the passwordless login code email.
type LoginCodeEmailData struct {
	Email            string
	Code             string
	ExpiresInMinutes int
}

// EventEmailData is shared by the RSVP confirmation and reminder emails.
type EventEmailData struct {
	Email      string
	FirstName  string
	EventTitle string
	ClubName   string
	Location   string
	StartsAt   time.Time
	EventURL   string
}

// CertificateEmailData holds data for the certificate issued email.
type CertificateEmailData struct {
	Email            string
	FirstName        string
	EventTitle       string
	Title            string
	VerificationCode string
	CertificateURL   string
}

// SponsorshipDecisionEmailData holds data for the sponsorship decision email.
type SponsorshipDecisionEmailData struct {
	Email       string
	SponsorName string
	ClubName    string
	Accepted    bool
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendWelcome(ctx context.Context, data *WelcomeEmailData) error
	SendLoginCode(ctx context.Context, data *LoginCodeEmailData) error
	SendRSVPConfirmation(ctx context.Context, data *EventEmailData) error
	SendEventReminder(ctx context.Context, data *EventEmailData) error
	SendCertificateIssued(ctx context.Context, data *CertificateEmailData) error
	SendSponsorshipDecision(ctx context.Context, data *SponsorshipDecisionEmailData) error
}
