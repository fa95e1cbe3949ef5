// Package housekeeping periodically purges expired authentication rows.
package housekeeping

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Expirer deletes the rows that expired before now and reports how many were removed
type Expirer interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Runner sweeps its targets once on start and then on every tick
type Runner struct {
	targets  map[string]Expirer
	interval time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewRunner creates a Runner. targets are keyed by a name used in log entries.
func NewRunner(targets map[string]Expirer, interval time.Duration, logger zerolog.Logger) *Runner {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Runner{targets: targets, interval: interval, logger: logger, now: time.Now}
}

// Run blocks until ctx is done
func (r *Runner) Run(ctx context.Context) {
	r.logger.Info().Dur("interval", r.interval).Msg("Housekeeping started")
	r.Sweep(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("Housekeeping stopped")
			return
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// Sweep runs every target once. A failing target does not stop the others.
func (r *Runner) Sweep(ctx context.Context) {
	now := r.now()
	for name, target := range r.targets {
		removed, err := target.DeleteExpired(ctx, now)
		if err != nil {
			r.logger.Error().Err(err).Str("target", name).Msg("Failed to purge expired rows")
			continue
		}
		if removed > 0 {
			r.logger.Info().Str("target", name).Int64("removed", removed).Msg("Purged expired rows")
		}
	}
}
