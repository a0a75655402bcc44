package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clubconn/config"
	_ "clubconn/docs"
	"clubconn/internal/app"
	httpDelivery "clubconn/internal/delivery/http"
	"clubconn/internal/delivery/http/controllers"
	"clubconn/internal/delivery/http/middleware"
	"clubconn/internal/jobs"
	"clubconn/internal/repository/postgres"
)

// @title ClubConn API
// @version 1.0
// @description Campus club directory, events, forms, certificates, badges and sponsorships.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db, postgres.MigrateUp); err != nil {
		return err
	}

	a, err := app.New(cfg, db, logger)
	if err != nil {
		return err
	}

	trustedProxies, err := middleware.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return err
	}
	limiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Rate:           cfg.RateLimitPerMinute,
		TrustedProxies: trustedProxies,
	})
	defer limiter.Stop()

	reminders := jobs.NewReminderProcessor(jobs.ReminderConfig{
		Events:        a.Repos.Events,
		Registrations: a.Repos.Registrations,
		Clubs:         a.Repos.Clubs,
		Email:         a.Email,
		Logger:        logger,
		Interval:      cfg.ReminderInterval,
		AppBaseURL:    cfg.AppBaseURL,
	})
	reminders.Start()
	defer reminders.Stop()

	codeCleaner := jobs.NewLoginCodeCleaner(a.Repos.LoginCodes, time.Hour, logger)
	codeCleaner.Start()
	defer codeCleaner.Stop()

	router := httpDelivery.NewRouter(httpDelivery.Controllers{
		Auth:         controllers.NewAuthController(logger, a.User),
		User:         controllers.NewUserController(logger, a.User),
		Club:         controllers.NewClubController(logger, a.Club),
		Event:        controllers.NewEventController(logger, a.Event),
		Registration: controllers.NewRegistrationController(logger, a.Registration),
		Certificate:  controllers.NewCertificateController(logger, a.Certificate),
		Badge:        controllers.NewBadgeController(logger, a.Badge),
		Sponsorship:  controllers.NewSponsorshipController(logger, a.Sponsorship),
		Content:      controllers.NewContentController(a.Content),
	}, httpDelivery.RouterOptions{
		Logger:         logger,
		Verifier:       a.Tokens,
		Limiter:        limiter,
		AllowedOrigins: cfg.AllowedOrigins,
		HealthCheck:    db.PingContext,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
