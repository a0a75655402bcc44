package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"clubconn/internal/domain"
)

const (
	defaultCertificateTitle = "Certificate of Participation"
	codeAttempts            = 3
)

// CertificateServiceDeps groups the collaborators of the certificate service.
type CertificateServiceDeps struct {
	Certificates   domain.CertificateRepository
	Events         domain.EventRepository
	Registrations  domain.EventRegistrationRepository
	Users          domain.UserRepository
	Managers       clubManager
	Renderer       domain.CertificateRenderer
	Email          domain.EmailService
	AppBaseURL     string
	Logger         *slog.Logger
	ContextTimeout time.Duration
}

type certificateService struct {
	certRepo         domain.CertificateRepository
	eventRepo        domain.EventRepository
	registrationRepo domain.EventRegistrationRepository
	userRepo         domain.UserRepository
	managers         clubManager
	renderer         domain.CertificateRenderer
	emailService     domain.EmailService
	appBaseURL       string
	logger           *slog.Logger
	contextTimeout   time.Duration
	newCode          func() string
}

// NewCertificateService creates a CertificateService.
func NewCertificateService(deps CertificateServiceDeps) domain.CertificateService {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &certificateService{
		certRepo:         deps.Certificates,
		eventRepo:        deps.Events,
		registrationRepo: deps.Registrations,
		userRepo:         deps.Users,
		managers:         deps.Managers,
		renderer:         deps.Renderer,
		emailService:     deps.Email,
		appBaseURL:       deps.AppBaseURL,
		logger:           deps.Logger,
		contextTimeout:   deps.ContextTimeout,
		newCode:          domain.NewVerificationCode,
	}
}

func (s *certificateService) managedEvent(ctx context.Context, eventID string, caller domain.Principal) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if err := requireManager(ctx, s.managers, event.ClubID, caller); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *certificateService) Issue(ctx context.Context, eventID, userID, title string, caller domain.Principal) (*domain.Certificate, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.managedEvent(ctx, eventID, caller)
	if err != nil {
		return nil, false, err
	}
	cert, created, _, err := s.issue(ctx, event, userID, title, caller.UserID)
	return cert, created, err
}

// issue creates the certificate unless the user already has one for the event. notified is false when
// the email could not be sent.
func (s *certificateService) issue(ctx context.Context, event *domain.Event, userID, title, issuedBy string) (cert *domain.Certificate, created, notified bool, err error) {
	if existing, err := s.certRepo.GetByUserAndEvent(ctx, userID, event.ID); err == nil {
		return existing, false, true, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, false, fmt.Errorf("get certificate: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, false, false, err
		}
		return nil, false, false, fmt.Errorf("get user: %w", err)
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = defaultCertificateTitle
	}
	cert = &domain.Certificate{
		UserID:        userID,
		EventID:       event.ID,
		Title:         title,
		RecipientName: user.DisplayName(),
		IssuedBy:      issuedBy,
		IssuedAt:      time.Now(),
	}

	for attempt := 1; ; attempt++ {
		cert.VerificationCode = s.newCode()
		err = s.certRepo.Create(ctx, cert)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrConflict) {
			return nil, false, false, fmt.Errorf("create certificate: %w", err)
		}
		// Either a concurrent issue for the same user and event or a code collision.
		if existing, getErr := s.certRepo.GetByUserAndEvent(ctx, userID, event.ID); getErr == nil {
			return existing, false, true, nil
		}
		if attempt == codeAttempts {
			return nil, false, false, fmt.Errorf("create certificate: %w", err)
		}
	}

	notified = true
	if s.emailService != nil {
		data := &domain.CertificateEmailData{
			Email:            user.Email,
			FirstName:        user.Name,
			EventTitle:       event.Title,
			Title:            cert.Title,
			VerificationCode: cert.VerificationCode,
			CertificateURL:   s.appBaseURL + "/certificates/" + cert.VerificationCode,
		}
		if err := s.emailService.SendCertificateIssued(ctx, data); err != nil {
			notified = false
			s.logger.WarnContext(ctx, "certificate email failed", "certificate_id", cert.ID, "error", err)
		}
	}
	return cert, true, notified, nil
}

func (s *certificateService) IssueForAttendees(ctx context.Context, eventID, title string, caller domain.Principal) (*domain.BulkIssueResult, error) {
	event, err := s.managedEvent(ctx, eventID, caller)
	if err != nil {
		return nil, err
	}
	regs, err := s.registrationRepo.ListAttended(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}

	result := &domain.BulkIssueResult{}
	seen := make(map[string]bool, len(regs))
	for _, reg := range regs {
		if seen[reg.UserID] {
			continue
		}
		seen[reg.UserID] = true

		_, created, notified, err := s.issue(ctx, event, reg.UserID, title, caller.UserID)
		if err != nil {
			return result, err
		}
		if !created {
			result.AlreadyIssued++
			continue
		}
		result.Issued++
		if !notified {
			result.NotificationsFailed++
		}
	}
	return result, nil
}

func (s *certificateService) Verify(ctx context.Context, code string) (*domain.CertificateDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	code = domain.NormalizeVerificationCode(code)
	if code == "" {
		return nil, domain.ErrNotFound
	}
	details, err := s.certRepo.GetDetailsByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get certificate: %w", err)
	}
	return details, nil
}

func (s *certificateService) ListMine(ctx context.Context, userID string) ([]*domain.CertificateDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	certs, err := s.certRepo.ListDetailsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}
	return certs, nil
}

func (s *certificateService) Render(ctx context.Context, code string) (string, []byte, error) {
	details, err := s.Verify(ctx, code)
	if err != nil {
		return "", nil, err
	}
	return s.renderer.Render(details)
}

// BackfillVerificationCodes assigns codes to certificates stored without one and returns how many were updated.
func (s *certificateService) BackfillVerificationCodes(ctx context.Context) (int, error) {
	certs, err := s.certRepo.ListMissingCodes(ctx)
	if err != nil {
		return 0, fmt.Errorf("list certificates without code: %w", err)
	}
	updated := 0
	for _, cert := range certs {
		for attempt := 1; ; attempt++ {
			err = s.certRepo.SetVerificationCode(ctx, cert.ID, s.newCode())
			if err == nil {
				updated++
				break
			}
			if !errors.Is(err, domain.ErrConflict) || attempt == codeAttempts {
				return updated, fmt.Errorf("set verification code for %s: %w", cert.ID, err)
			}
		}
	}
	return updated, nil
}
