package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"clubconn/config"
	"clubconn/internal/app"
	"clubconn/internal/domain"
	"clubconn/internal/repository/postgres"
)

// backend is what the commands need from the database and service layer.
type backend interface {
	Migrate(ctx context.Context, direction string) error
	Seed(ctx context.Context, source, ownerEmail string) (*domain.ImportResult, error)
	BackfillCodes(ctx context.Context) (int, error)
	CreateAdmin(ctx context.Context, email string) (*domain.User, error)
	Close() error
}

type opener func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (backend, error)

type dbBackend struct {
	cfg    *config.Config
	db     *sql.DB
	logger *slog.Logger
	app    *app.App
}

func openBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (backend, error) {
	db, err := postgres.Open(ctx, cfg.DBUrl)
	if err != nil {
		return nil, err
	}
	return &dbBackend{cfg: cfg, db: db, logger: logger}, nil
}

// services builds the service layer on first use so migrate works against an empty schema.
func (b *dbBackend) services() (*app.App, error) {
	if b.app != nil {
		return b.app, nil
	}
	a, err := app.New(b.cfg, b.db, b.logger)
	if err != nil {
		return nil, err
	}
	b.app = a
	return a, nil
}

func (b *dbBackend) Migrate(ctx context.Context, direction string) error {
	return postgres.Migrate(ctx, b.db, direction)
}

func (b *dbBackend) Seed(ctx context.Context, source, ownerEmail string) (*domain.ImportResult, error) {
	a, err := b.services()
	if err != nil {
		return nil, err
	}
	catalog, err := a.Fetcher.Fetch(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return a.Catalog.Import(ctx, catalog, ownerEmail)
}

func (b *dbBackend) BackfillCodes(ctx context.Context) (int, error) {
	a, err := b.services()
	if err != nil {
		return 0, err
	}
	return a.Certificate.BackfillVerificationCodes(ctx)
}

func (b *dbBackend) CreateAdmin(ctx context.Context, email string) (*domain.User, error) {
	a, err := b.services()
	if err != nil {
		return nil, err
	}
	return a.User.GrantRole(ctx, email, domain.RoleAdmin)
}

func (b *dbBackend) Close() error {
	return b.db.Close()
}
