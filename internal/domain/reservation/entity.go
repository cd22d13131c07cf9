package reservation

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrMissingRequester = errors.New("requester is required")
	ErrMissingResource  = errors.New("resource is required")
)

type Reservation struct {
	id              uuid.UUID
	resourceID      uuid.UUID
	requesterID     uuid.UUID
	quantity        Quantity
	amount          Money
	status          Status
	paymentRef      *string
	cancelReason    *CancelReason
	createdAt       time.Time
	confirmedAt     *time.Time
	paymentFailedAt *time.Time
	cancelledAt     *time.Time
	completedAt     *time.Time
	updatedAt       time.Time
}

// NewReservation starts a reservation in PENDING_HOLD. The caller reserves the capacity.
func NewReservation(
	resourceID, requesterID uuid.UUID,
	quantity Quantity,
	amount Money,
	paymentRef *string,
	now time.Time,
) (*Reservation, error) {
	if resourceID == uuid.Nil {
		return nil, ErrMissingResource
	}
	if requesterID == uuid.Nil {
		return nil, ErrMissingRequester
	}
	if quantity.Int() < 1 {
		return nil, ErrInvalidQuantity
	}
	if _, err := Transition("", StatusPendingHold); err != nil {
		return nil, err
	}

	return &Reservation{
		id:          uuid.New(),
		resourceID:  resourceID,
		requesterID: requesterID,
		quantity:    quantity,
		amount:      amount,
		status:      StatusPendingHold,
		paymentRef:  paymentRef,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

type ReconstructParams struct {
	ID              uuid.UUID
	ResourceID      uuid.UUID
	RequesterID     uuid.UUID
	Quantity        int
	AmountCents     int64
	Status          Status
	PaymentRef      *string
	CancelReason    *CancelReason
	CreatedAt       time.Time
	ConfirmedAt     *time.Time
	PaymentFailedAt *time.Time
	CancelledAt     *time.Time
	CompletedAt     *time.Time
	UpdatedAt       time.Time
}

// Reconstruct rebuilds a persisted reservation without re-validating it.
func Reconstruct(p ReconstructParams) *Reservation {
	return &Reservation{
		id:              p.ID,
		resourceID:      p.ResourceID,
		requesterID:     p.RequesterID,
		quantity:        Quantity{units: p.Quantity},
		amount:          Money{cents: p.AmountCents},
		status:          p.Status,
		paymentRef:      p.PaymentRef,
		cancelReason:    p.CancelReason,
		createdAt:       p.CreatedAt,
		confirmedAt:     p.ConfirmedAt,
		paymentFailedAt: p.PaymentFailedAt,
		cancelledAt:     p.CancelledAt,
		completedAt:     p.CompletedAt,
		updatedAt:       p.UpdatedAt,
	}
}

func (r *Reservation) Confirm(now time.Time) error {
	if _, err := r.moveTo(StatusConfirmed, now); err != nil {
		return err
	}
	r.confirmedAt = &now
	return nil
}

func (r *Reservation) MarkPaymentFailed(now time.Time) error {
	if _, err := r.moveTo(StatusPaymentFailed, now); err != nil {
		return err
	}
	r.paymentFailedAt = &now
	return nil
}

// Cancel returns the capacity effect the caller must apply to the resource.
func (r *Reservation) Cancel(reason CancelReason, now time.Time) (CapacityEffect, error) {
	effect, err := r.moveTo(StatusCancelled, now)
	if err != nil {
		return EffectNone, err
	}
	r.cancelledAt = &now
	r.cancelReason = &reason
	return effect, nil
}

func (r *Reservation) Complete(now time.Time) error {
	if _, err := r.moveTo(StatusCompleted, now); err != nil {
		return err
	}
	r.completedAt = &now
	return nil
}

func (r *Reservation) moveTo(to Status, now time.Time) (CapacityEffect, error) {
	effect, err := Transition(r.status, to)
	if err != nil {
		return EffectNone, err
	}
	r.status = to
	r.updatedAt = now
	return effect, nil
}

func (r *Reservation) IsRequestedBy(actorID uuid.UUID) bool {
	return r.requesterID == actorID
}

func (r *Reservation) HoldsCapacity() bool {
	return r.status.HoldsCapacity()
}

func (r *Reservation) HasPayment() bool {
	return r.paymentRef != nil && *r.paymentRef != ""
}

func (r *Reservation) ID() uuid.UUID               { return r.id }
func (r *Reservation) ResourceID() uuid.UUID       { return r.resourceID }
func (r *Reservation) RequesterID() uuid.UUID      { return r.requesterID }
func (r *Reservation) Quantity() int               { return r.quantity.Int() }
func (r *Reservation) Amount() Money               { return r.amount }
func (r *Reservation) Status() Status              { return r.status }
func (r *Reservation) PaymentRef() *string         { return r.paymentRef }
func (r *Reservation) CancelReason() *CancelReason { return r.cancelReason }
func (r *Reservation) CreatedAt() time.Time        { return r.createdAt }
func (r *Reservation) ConfirmedAt() *time.Time     { return r.confirmedAt }
func (r *Reservation) PaymentFailedAt() *time.Time { return r.paymentFailedAt }
func (r *Reservation) CancelledAt() *time.Time     { return r.cancelledAt }
func (r *Reservation) CompletedAt() *time.Time     { return r.completedAt }
func (r *Reservation) UpdatedAt() time.Time        { return r.updatedAt }
