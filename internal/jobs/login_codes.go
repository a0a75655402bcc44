package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"clubconn/internal/domain"
)

// LoginCodeCleaner deletes expired one-time login codes.
type LoginCodeCleaner struct {
	codes  domain.LoginCodeRepository
	logger *slog.Logger
	now    func() time.Time
	loop   *loop
}

// NewLoginCodeCleaner creates a cleaner that runs every interval (default one hour).
func NewLoginCodeCleaner(codes domain.LoginCodeRepository, interval time.Duration, logger *slog.Logger) *LoginCodeCleaner {
	if interval <= 0 {
		interval = time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &LoginCodeCleaner{codes: codes, logger: logger, now: time.Now}
	c.loop = &loop{
		name:     "login_code_cleanup",
		interval: interval,
		timeout:  time.Minute,
		logger:   logger,
		fn: func(ctx context.Context) error {
			_, err := c.RunOnce(ctx)
			return err
		},
	}
	return c
}

func (c *LoginCodeCleaner) Start() { c.loop.start() }

func (c *LoginCodeCleaner) Stop() { c.loop.stop() }

// RunOnce deletes expired codes and returns how many were removed.
func (c *LoginCodeCleaner) RunOnce(ctx context.Context) (int64, error) {
	n, err := c.codes.DeleteExpired(ctx, c.now())
	if err != nil {
		return 0, fmt.Errorf("delete expired login codes: %w", err)
	}
	if n > 0 {
		c.logger.DebugContext(ctx, "expired login codes deleted", "count", n)
	}
	return n, nil
}
