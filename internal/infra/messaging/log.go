package messaging

import (
	"context"
	"log/slog"

	"slot-capacity-engine/internal/domain/reservation"
)

// LogEmitter writes events to the log. Used when no broker is configured.
type LogEmitter struct {
	logger *slog.Logger
}

func NewLogEmitter(logger *slog.Logger) *LogEmitter {
	return &LogEmitter{logger: logger}
}

func (e *LogEmitter) Emit(ctx context.Context, event reservation.Event) error {
	e.logger.InfoContext(ctx, "reservation event",
		"event_type", string(event.Type()),
		"reservation_id", event.ReservationID(),
		"resource_id", event.ResourceID(),
		"occurred_at", event.OccurredAt())
	return nil
}
