package messaging

import (
	"encoding/json"
	"time"

	"slot-capacity-engine/internal/domain/reservation"
	"slot-capacity-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

const (
	HeaderEventType = "event-type"
	HeaderEventID   = "event-id"
	HeaderSource    = "source"

	DefaultSource = "slot-capacity-engine"
)

// Envelope is the wire form of a reservation event. Data holds the event body.
type Envelope struct {
	ID            uuid.UUID       `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	ReservationID uuid.UUID       `json:"reservation_id"`
	ResourceID    uuid.UUID       `json:"resource_id"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Data          json.RawMessage `json:"data"`
}

func NewEnvelope(event reservation.Event, source string) (Envelope, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return Envelope{}, errs.Wrapf(err, "failed to encode %s", event.Type())
	}
	return Envelope{
		ID:            uuid.New(),
		Type:          string(event.Type()),
		Source:        source,
		ReservationID: event.ReservationID(),
		ResourceID:    event.ResourceID(),
		OccurredAt:    event.OccurredAt().UTC(),
		Data:          data,
	}, nil
}
