package app

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/five82/fleetdash/internal/fleetapi"
	"github.com/five82/fleetdash/internal/logging"
	"github.com/five82/fleetdash/internal/state"
)

const (
	defaultPollInterval = 5 * time.Second
	maxBackoff          = 30 * time.Second
)

// StartPoller launches a background goroutine that refreshes the store. The
// delay between polls doubles with each consecutive failure, up to
// maxBackoff. It returns immediately.
func StartPoller(ctx context.Context, store *state.Store, backend fleetapi.Backend, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	logger = logging.OrNop(logger)
	go func() {
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			_ = refresh(ctx, store, backend, logger)
			timer.Reset(calculateBackoff(store.Snapshot().ConsecutiveFailures, interval))
		}
	}()
}

// calculateBackoff returns base doubled once per failure, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	if failures >= 30 {
		return maxBackoff
	}
	d := base << failures
	if d <= 0 || d > maxBackoff {
		return maxBackoff
	}
	return d
}

func refresh(ctx context.Context, store *state.Store, backend fleetapi.Backend, logger *zap.Logger) error {
	ticket := store.Begin()

	vehicles, vErr := backend.FetchVehicles(ctx)
	if vErr != nil {
		logger.Warn("vehicle poll failed", zap.Error(vErr))
	}
	cards, cErr := backend.FetchDashboardCards(ctx)
	if cErr != nil {
		logger.Warn("dashboard card poll failed", zap.Error(cErr))
	}
	err := errors.Join(vErr, cErr)

	applied := store.Commit(ticket, state.Update{
		Vehicles:    vehicles,
		HasVehicles: vErr == nil,
		Cards:       cards,
		HasCards:    cErr == nil,
		Err:         err,
	})
	if !applied {
		logger.Debug("discarded stale poll result", zap.Uint64("ticket", uint64(ticket)))
	}
	return err
}
