package reservation

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventCreated       EventType = "reservation.created"
	EventConfirmed     EventType = "reservation.confirmed"
	EventPaymentFailed EventType = "reservation.payment_failed"
	EventCancelled     EventType = "reservation.cancelled"
	EventCompleted     EventType = "reservation.completed"
)

// Event is a closed set: only the types in this file implement it.
type Event interface {
	Type() EventType
	ReservationID() uuid.UUID
	ResourceID() uuid.UUID
	OccurredAt() time.Time
	isEvent()
}

type eventBase struct {
	Reservation uuid.UUID `json:"reservation_id"`
	Resource    uuid.UUID `json:"resource_id"`
	At          time.Time `json:"occurred_at"`
}

func (b eventBase) ReservationID() uuid.UUID { return b.Reservation }
func (b eventBase) ResourceID() uuid.UUID    { return b.Resource }
func (b eventBase) OccurredAt() time.Time    { return b.At }
func (eventBase) isEvent()                   {}

type Created struct {
	eventBase
	RequesterID uuid.UUID `json:"requester_id"`
	Quantity    int       `json:"quantity"`
	AmountCents int64     `json:"amount_cents"`
	PaymentRef  *string   `json:"payment_ref,omitempty"`
}

func (Created) Type() EventType { return EventCreated }

type Confirmed struct {
	eventBase
	RequesterID uuid.UUID `json:"requester_id"`
}

func (Confirmed) Type() EventType { return EventConfirmed }

type PaymentFailed struct {
	eventBase
	RequesterID uuid.UUID `json:"requester_id"`
	PaymentRef  string    `json:"payment_ref"`
}

func (PaymentFailed) Type() EventType { return EventPaymentFailed }

type Cancelled struct {
	eventBase
	Reason   CancelReason `json:"reason"`
	Released int          `json:"released"`
	RefundID *string      `json:"refund_id,omitempty"`
}

func (Cancelled) Type() EventType { return EventCancelled }

type Completed struct {
	eventBase
	RequesterID uuid.UUID `json:"requester_id"`
}

func (Completed) Type() EventType { return EventCompleted }

func base(r *Reservation, at time.Time) eventBase {
	return eventBase{Reservation: r.id, Resource: r.resourceID, At: at}
}

func NewCreated(r *Reservation) Created {
	return Created{
		eventBase:   base(r, r.createdAt),
		RequesterID: r.requesterID,
		Quantity:    r.Quantity(),
		AmountCents: r.amount.Cents(),
		PaymentRef:  r.paymentRef,
	}
}

func NewConfirmed(r *Reservation) Confirmed {
	return Confirmed{eventBase: base(r, r.updatedAt), RequesterID: r.requesterID}
}

func NewPaymentFailed(r *Reservation) PaymentFailed {
	ref := ""
	if r.paymentRef != nil {
		ref = *r.paymentRef
	}
	return PaymentFailed{eventBase: base(r, r.updatedAt), RequesterID: r.requesterID, PaymentRef: ref}
}

func NewCancelled(r *Reservation, released int, refundID *string) Cancelled {
	reason := CancelByRequester
	if r.cancelReason != nil {
		reason = *r.cancelReason
	}
	return Cancelled{
		eventBase: base(r, r.updatedAt),
		Reason:    reason,
		Released:  released,
		RefundID:  refundID,
	}
}

// NewReapedCancelled builds the event for a hold released in bulk by the reaper.
func NewReapedCancelled(reservationID, resourceID uuid.UUID, released int, at time.Time) Cancelled {
	return Cancelled{
		eventBase: eventBase{Reservation: reservationID, Resource: resourceID, At: at},
		Reason:    CancelByReaper,
		Released:  released,
	}
}

func NewCompleted(r *Reservation) Completed {
	return Completed{eventBase: base(r, r.updatedAt), RequesterID: r.requesterID}
}
