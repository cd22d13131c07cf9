package bootstrap

import (
	"context"
	"log/slog"

	"slot-capacity-engine/internal/infra/messaging"
	"slot-capacity-engine/internal/pkg/config"
	"slot-capacity-engine/internal/usecase/shared"

	"go.uber.org/fx"
)

var MessagingModule = fx.Module("messaging",
	fx.Provide(
		NewEventEmitter,
	),
)

// NewEventEmitter publishes to Kafka when brokers are configured and to the log otherwise.
// Either sink sits behind the async queue.
func NewEventEmitter(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) shared.EventEmitter {
	var (
		sink      shared.EventEmitter
		closeSink func() error
	)

	if cfg.Kafka.Enabled() {
		publisher := messaging.NewKafkaPublisher(messaging.NewKafkaWriter(cfg.Kafka, logger), cfg.Kafka)
		sink, closeSink = publisher, publisher.Close
		logger.Info("event emitter: kafka", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	} else {
		sink = messaging.NewLogEmitter(logger)
		logger.Info("event emitter: log only")
	}

	async := messaging.NewAsyncEmitter(sink, cfg.Kafka.QueueSize, cfg.Kafka.WriteTimeout, logger)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := async.Stop(ctx); err != nil {
				logger.Warn("event queue not drained before shutdown", "error", err.Error())
			}
			if closeSink != nil {
				return closeSink()
			}
			return nil
		},
	})

	return async
}
