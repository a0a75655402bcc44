package services

import (
	"context"
	"fmt"
	"log/slog"

	"clubconn/internal/domain"
)

// Template names under adapters/email/templates.
const (
	templateWelcome             = "welcome"
	templateLoginCode           = "login_code"
	templateRSVPConfirmation    = "rsvp_confirmation"
	templateEventReminder       = "event_reminder"
	templateCertificateIssued   = "certificate_issued"
	templateSponsorshipDecision = "sponsorship_decision"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	if logger == nil {
		logger = slog.Default()
	}
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

func (s *emailService) send(ctx context.Context, templateName, to string, data any) error {
	if to == "" {
		return fmt.Errorf("%s email: recipient is empty", templateName)
	}
	subject, htmlBody, textBody, err := s.renderer.Render(templateName, data)
	if err != nil {
		return fmt.Errorf("failed to render %s template: %w", templateName, err)
	}
	if err := s.mailer.Send(to, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send %s email: %w", templateName, err)
	}
	s.logger.InfoContext(ctx, "email sent", "template", templateName, "to", to)
	return nil
}

// SendWelcome sends the "welcome" email after sign-up.
func (s *emailService) SendWelcome(ctx context.Context, data *domain.WelcomeEmailData) error {
	if data == nil {
		return fmt.Errorf("welcome email data is nil")
	}
	return s.send(ctx, templateWelcome, data.Email, data)
}

// SendLoginCode sends the passwordless login code email.
func (s *emailService) SendLoginCode(ctx context.Context, data *domain.LoginCodeEmailData) error {
	if data == nil {
		return fmt.Errorf("login code email data is nil")
	}
	return s.send(ctx, templateLoginCode, data.Email, data)
}

func (s *emailService) SendRSVPConfirmation(ctx context.Context, data *domain.EventEmailData) error {
	if data == nil {
		return fmt.Errorf("rsvp confirmation data is nil")
	}
	return s.send(ctx, templateRSVPConfirmation, data.Email, data)
}

func (s *emailService) SendEventReminder(ctx context.Context, data *domain.EventEmailData) error {
	if data == nil {
		return fmt.Errorf("event reminder data is nil")
	}
	return s.send(ctx, templateEventReminder, data.Email, data)
}

func (s *emailService) SendCertificateIssued(ctx context.Context, data *domain.CertificateEmailData) error {
	if data == nil {
		return fmt.Errorf("certificate email data is nil")
	}
	return s.send(ctx, templateCertificateIssued, data.Email, data)
}

func (s *emailService) SendSponsorshipDecision(ctx context.Context, data *domain.SponsorshipDecisionEmailData) error {
	if data == nil {
		return fmt.Errorf("sponsorship decision data is nil")
	}
	return s.send(ctx, templateSponsorshipDecision, data.Email, data)
}
