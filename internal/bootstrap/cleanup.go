package bootstrap

import (
	"context"
	"time"

	"github.com/jasonlvhit/gocron"
	"github.com/rs/zerolog"
)

// cleanupTimeout bounds one purge round
const cleanupTimeout = 30 * time.Second

// Cleaner purges expired state from the stores
type Cleaner struct {
	deps   *Dependencies
	logger zerolog.Logger
}

// NewCleaner creates a Cleaner over the wired stores
func NewCleaner(deps *Dependencies) *Cleaner {
	return &Cleaner{
		deps:   deps,
		logger: deps.Logger.With().Str("component", "cleanup").Logger(),
	}
}

// Run purges expired revocations, reset tickets and dashboard hand-off rows
func (c *Cleaner) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()

	revocations, err := c.deps.Sessions.PurgeExpired(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to purge session revocations")
	}
	tickets, err := c.deps.PasswordResetService.PurgeExpired(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to purge reset tickets")
	}
	rows := c.deps.Rows.Purge()

	if revocations+tickets > 0 || rows > 0 {
		c.logger.Debug().
			Int64("revocations", revocations).
			Int64("resetTickets", tickets).
			Int("rows", rows).
			Msg("Expired state purged")
	}
}

// StartCleanup schedules Cleaner.Run every interval and returns a function that stops it
func StartCleanup(deps *Dependencies, interval time.Duration) (func(), error) {
	seconds := uint64(interval / time.Second)
	if seconds == 0 {
		seconds = 1
	}

	cleaner := NewCleaner(deps)
	scheduler := gocron.NewScheduler()
	if err := scheduler.Every(seconds).Seconds().Do(cleaner.Run); err != nil {
		return nil, err
	}
	stopped := scheduler.Start()
	deps.Logger.Info().Dur("interval", time.Duration(seconds)*time.Second).Msg("Cleanup scheduler started")

	return func() {
		scheduler.Clear()
		close(stopped)
	}, nil
}
