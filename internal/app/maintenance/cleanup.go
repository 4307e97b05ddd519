package maintenance

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benhaham/findscooter/internal/services"
	"github.com/benhaham/findscooter/pkg/logger"
)

const defaultCleanupSpec = "@hourly"

// Cleaner periodically clears expired verification codes so a stale code can
// never be replayed against an unverified account.
type Cleaner struct {
	accounts *services.AccountService
	cron     *cron.Cron
	log      *zap.Logger
	schedule string
}

// Option customises the Cleaner.
type Option func(*Cleaner)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(cleaner *Cleaner) {
		if c != nil {
			cleaner.cron = c
		}
	}
}

// WithSchedule overrides the cron specification for code cleanup.
func WithSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.schedule = spec
		}
	}
}

// NewCleaner constructs a Cleaner with sensible defaults.
func NewCleaner(accounts *services.AccountService, opts ...Option) *Cleaner {
	cleaner := &Cleaner{
		accounts: accounts,
		schedule: defaultCleanupSpec,
		log:      logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(cleaner)
	}

	if cleaner.cron == nil {
		cleaner.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	return cleaner
}

// Start registers the cleanup job with the cron scheduler and launches it.
func (c *Cleaner) Start() error {
	if c.accounts == nil {
		return nil
	}

	if _, err := c.cron.AddFunc(c.schedule, func() {
		ctx := context.Background()
		cleared, err := c.accounts.ClearExpiredCodes(ctx)
		if err != nil {
			c.log.Warn("verification code cleanup failed", zap.Error(err))
			return
		}
		if cleared > 0 {
			c.log.Info("cleared expired verification codes", zap.Int64("count", cleared))
		}
	}); err != nil {
		return err
	}

	c.cron.Start()
	return nil
}

// Stop halts the underlying scheduler, waiting for any running jobs to complete.
func (c *Cleaner) Stop() context.Context {
	if c.cron == nil {
		return context.Background()
	}
	return c.cron.Stop()
}

// RunOnce executes the cleanup routine immediately. Used in tests and during
// graceful shutdown.
func (c *Cleaner) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var errs error
	if c.accounts != nil {
		if _, err := c.accounts.ClearExpiredCodes(ctx); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}
