// Package app wires repositories, adapters and services from configuration.
// Both the API server and clubconnctl build their dependencies through it.
package app

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"clubconn/config"
	"clubconn/internal/adapters/auth"
	"clubconn/internal/adapters/catalog"
	"clubconn/internal/adapters/certificate"
	"clubconn/internal/adapters/content"
	"clubconn/internal/adapters/email"
	"clubconn/internal/domain"
	"clubconn/internal/repository/postgres"
	"clubconn/internal/services"
)

// Repositories holds the Postgres-backed repositories.
type Repositories struct {
	Users         domain.UserRepository
	Roles         domain.RoleRepository
	LoginCodes    domain.LoginCodeRepository
	Clubs         domain.ClubRepository
	Members       domain.ClubMemberRepository
	Events        domain.EventRepository
	Registrations domain.EventRegistrationRepository
	Certificates  domain.CertificateRepository
	Stats         domain.StatsRepository
	Sponsors      domain.SponsorRepository
	Packages      domain.SponsorshipPackageRepository
	Sponsorships  domain.SponsorshipRepository
}

// NewRepositories builds every repository over db.
func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Users:         postgres.NewUserRepository(db),
		Roles:         postgres.NewRoleRepository(db),
		LoginCodes:    postgres.NewLoginCodeRepository(db),
		Clubs:         postgres.NewClubRepository(db),
		Members:       postgres.NewClubMemberRepository(db),
		Events:        postgres.NewEventRepository(db),
		Registrations: postgres.NewEventRegistrationRepository(db),
		Certificates:  postgres.NewCertificateRepository(db),
		Stats:         postgres.NewStatsRepository(db),
		Sponsors:      postgres.NewSponsorRepository(db),
		Packages:      postgres.NewSponsorshipPackageRepository(db),
		Sponsorships:  postgres.NewSponsorshipRepository(db),
	}
}

// App is the fully wired service layer.
type App struct {
	Repos  *Repositories
	Tokens *auth.JWT

	Email        domain.EmailService
	User         domain.UserService
	Club         domain.ClubService
	Event        domain.EventService
	Registration domain.RegistrationService
	Certificate  domain.CertificateService
	Badge        domain.BadgeService
	Sponsorship  domain.SponsorshipService
	Catalog      domain.CatalogService
	Content      domain.ContentService
	Fetcher      domain.CatalogFetcher
}

// New builds the adapters and services for cfg over db.
func New(cfg *config.Config, db *sql.DB, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	repos := NewRepositories(db)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.AWSRegion,
			AccessKeyID:        cfg.Email.AWSAccessKeyID,
			SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Email.InsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create mailer: %w", err)
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)

	renderer, err := certificate.NewHTMLRenderer(cfg.AppBaseURL)
	if err != nil {
		return nil, fmt.Errorf("create certificate renderer: %w", err)
	}

	doc, err := content.Load()
	if err != nil {
		return nil, fmt.Errorf("load site content: %w", err)
	}

	tokens := auth.NewJWT(cfg.JWTSecret)
	timeout := cfg.ContextTimeout

	clubService := services.NewClubService(repos.Clubs, repos.Members, timeout)

	return &App{
		Repos:  repos,
		Tokens: tokens,
		Email:  emailService,
		User: services.NewUserService(services.UserServiceDeps{
			Users:       repos.Users,
			Roles:       repos.Roles,
			LoginCodes:  repos.LoginCodes,
			Hasher:      auth.NewBcryptHasher(0),
			Tokens:      tokens,
			TokenExpiry: cfg.JWTExpiry,
			Email:       emailService,
			AppBaseURL:  cfg.AppBaseURL,
			Logger:      logger,
		}),
		Club:  clubService,
		Event: services.NewEventService(repos.Events, repos.Registrations, clubService, timeout),
		Registration: services.NewRegistrationService(services.RegistrationServiceDeps{
			Events:         repos.Events,
			Registrations:  repos.Registrations,
			Users:          repos.Users,
			Clubs:          repos.Clubs,
			Managers:       clubService,
			Email:          emailService,
			AppBaseURL:     cfg.AppBaseURL,
			Logger:         logger,
			ContextTimeout: timeout,
		}),
		Certificate: services.NewCertificateService(services.CertificateServiceDeps{
			Certificates:   repos.Certificates,
			Events:         repos.Events,
			Registrations:  repos.Registrations,
			Users:          repos.Users,
			Managers:       clubService,
			Renderer:       renderer,
			Email:          emailService,
			AppBaseURL:     cfg.AppBaseURL,
			Logger:         logger,
			ContextTimeout: timeout,
		}),
		Badge: services.NewBadgeService(repos.Stats, timeout),
		Sponsorship: services.NewSponsorshipService(services.SponsorshipServiceDeps{
			Sponsors:       repos.Sponsors,
			Packages:       repos.Packages,
			Sponsorships:   repos.Sponsorships,
			Clubs:          repos.Clubs,
			Managers:       clubService,
			Email:          emailService,
			Logger:         logger,
			ContextTimeout: timeout,
		}),
		Catalog: services.NewCatalogService(repos.Users, repos.Clubs, repos.Events, timeout),
		Content: services.NewContentService(doc.FAQ, doc.Footer),
		Fetcher: catalog.NewFetcher(&http.Client{Timeout: 30 * time.Second}),
	}, nil
}
