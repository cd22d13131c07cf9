package bootstrap

import (
	"context"
	"log/slog"

	"slot-capacity-engine/internal/pkg/clock"
	"slot-capacity-engine/internal/pkg/config"
	"slot-capacity-engine/internal/usecase/commands"
	"slot-capacity-engine/internal/usecase/shared"

	"go.uber.org/fx"
)

var ReaperModule = fx.Module("reaper",
	fx.Provide(
		NewReaper,
	),
	fx.Invoke(startReaper),
)

func NewReaper(
	uow shared.UnitOfWork,
	retry *shared.Coordinator,
	emitter shared.EventEmitter,
	clk clock.Clock,
	logger *slog.Logger,
	cfg config.Config,
) *commands.Reaper {
	return commands.NewReaper(uow, retry, emitter, clk, logger.With("component", "reaper"), cfg.Reaper)
}

func startReaper(lc fx.Lifecycle, reaper *commands.Reaper, cfg config.Config, logger *slog.Logger) {
	if !cfg.Reaper.Enabled {
		logger.Info("reaper disabled")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				defer close(done)
				reaper.Run(ctx)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}
