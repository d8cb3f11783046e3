package bootstrap

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"room-allocation-engine/internal/pkg/config"
	"room-allocation-engine/internal/usecase/commands"

	"go.uber.org/fx"
)

var SweeperModule = fx.Module("sweeper",
	fx.Invoke(StartHoldSweeper),
)

// StartHoldSweeper deletes expired holds every HOLD_SWEEP_INTERVAL. Expiry is already enforced
// lazily on every read, so the sweep only reclaims storage.
func StartHoldSweeper(lc fx.Lifecycle, holds commands.HoldCommands, cfg config.Config, logger *slog.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			wg.Add(1)
			go func() {
				defer wg.Done()
				runSweeper(ctx, holds, cfg.Hold.SweepInterval, logger)
			}()
			logger.Info("hold sweeper started", "interval", cfg.Hold.SweepInterval)
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			done := make(chan struct{})
			go func() {
				wg.Wait()
				close(done)
			}()
			select {
			case <-done:
				logger.Info("hold sweeper stopped")
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}

func runSweeper(ctx context.Context, holds commands.HoldCommands, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := holds.SweepExpired(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.Warn("hold sweep failed", "error", err.Error())
				continue
			}
			if n > 0 {
				logger.Debug("expired holds swept", "count", n)
			}
		}
	}
}
