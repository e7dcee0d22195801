package etl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"salesdw/internal/config"
)

// Schedule calls fn every interval until ctx is done. The first call happens
// one interval after start. A call still running when the next tick fires
// causes that tick to be skipped, so runs never overlap.
func Schedule(ctx context.Context, every time.Duration, fn func(context.Context)) error {
	if every <= 0 {
		return fmt.Errorf("etl: schedule interval must be positive, got %s", every)
	}

	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	if _, err := s.Every(every).WaitForSchedule().Do(fn, ctx); err != nil {
		return fmt.Errorf("etl: schedule: %w", err)
	}

	s.StartAsync()
	slog.Info("etl: scheduler started", "every", every)

	<-ctx.Done()
	s.Stop()
	slog.Info("etl: scheduler stopped")
	return nil
}

// Reload returns a scheduled job that runs one load with cfg and logs the
// outcome. Failures leave the previous warehouse in place.
func Reload(cfg config.Config) func(context.Context) {
	return func(ctx context.Context) {
		sum, err := Run(ctx, cfg)
		if err != nil {
			slog.Error("etl: scheduled load failed", "job", cfg.Job, "err", err)
			return
		}
		slog.Info("etl: scheduled load done", "job", cfg.Job, "run_id", sum.Load.RunID)
	}
}
