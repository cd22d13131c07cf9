//go:build unit || e2e

package builder

import (
	"time"

	domreservation "slot-capacity-engine/internal/domain/reservation"
	sqlc "slot-capacity-engine/internal/infra/sqlc/generated"
	"slot-capacity-engine/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ReservationBuilder struct {
	ResourceID   uuid.UUID
	ResourceName string
	OwnerID      uuid.UUID
	RequesterID  uuid.UUID
	Quantity     int
	AmountCents  int64
	Status       domreservation.Status
	PaymentRef   *string
	CreatedAt    time.Time
}

func NewReservationBuilder() *ReservationBuilder {
	return &ReservationBuilder{
		ResourceID:   uuid.New(),
		ResourceName: "Conference Room A",
		OwnerID:      uuid.New(),
		RequesterID:  uuid.New(),
		Quantity:     1,
		AmountCents:  1500,
		Status:       domreservation.StatusPendingHold,
		CreatedAt:    time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func (b *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	mutate(b)
	return b
}

func (b *ReservationBuilder) WithResource(resourceID uuid.UUID) *ReservationBuilder {
	b.ResourceID = resourceID
	return b
}

func (b *ReservationBuilder) WithRequester(requesterID uuid.UUID) *ReservationBuilder {
	b.RequesterID = requesterID
	return b
}

func (b *ReservationBuilder) WithQuantity(q int) *ReservationBuilder {
	b.Quantity = q
	return b
}

func (b *ReservationBuilder) WithPaymentRef(ref string) *ReservationBuilder {
	b.PaymentRef = &ref
	return b
}

func (b *ReservationBuilder) WithStatus(status domreservation.Status) *ReservationBuilder {
	b.Status = status
	return b
}

func (b *ReservationBuilder) WithCreatedAt(t time.Time) *ReservationBuilder {
	b.CreatedAt = t
	return b
}

// Build methods

// BuildDomain goes through the constructor for a fresh hold and through
// Reconstruct for any later status.
func (b *ReservationBuilder) BuildDomain() (*domreservation.Reservation, error) {
	if b.Status == domreservation.StatusPendingHold {
		q, err := domreservation.NewQuantity(b.Quantity)
		if err != nil {
			return nil, err
		}
		amount, err := domreservation.NewMoney(b.AmountCents)
		if err != nil {
			return nil, err
		}
		return domreservation.NewReservation(b.ResourceID, b.RequesterID, q, amount, b.PaymentRef, b.CreatedAt)
	}

	return domreservation.Reconstruct(b.reconstructParams(uuid.New())), nil
}

func (b *ReservationBuilder) reconstructParams(id uuid.UUID) domreservation.ReconstructParams {
	p := domreservation.ReconstructParams{
		ID:          id,
		ResourceID:  b.ResourceID,
		RequesterID: b.RequesterID,
		Quantity:    b.Quantity,
		AmountCents: b.AmountCents,
		Status:      b.Status,
		PaymentRef:  b.PaymentRef,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.CreatedAt,
	}
	at := b.CreatedAt.Add(time.Minute)
	switch b.Status {
	case domreservation.StatusConfirmed:
		p.ConfirmedAt = &at
	case domreservation.StatusPaymentFailed:
		p.PaymentFailedAt = &at
	case domreservation.StatusCancelled:
		reason := domreservation.CancelByRequester
		p.CancelledAt = &at
		p.CancelReason = &reason
	case domreservation.StatusCompleted:
		confirmed := b.CreatedAt.Add(30 * time.Second)
		p.ConfirmedAt = &confirmed
		p.CompletedAt = &at
	}
	if b.Status != domreservation.StatusPendingHold {
		p.UpdatedAt = at
	}
	return p
}

func (b *ReservationBuilder) BuildInfra() sqlc.Reservations {
	p := b.reconstructParams(uuid.New())
	row := sqlc.Reservations{
		ID:          p.ID,
		ResourceID:  p.ResourceID,
		RequesterID: p.RequesterID,
		Quantity:    int32(p.Quantity),
		Status:      p.Status.String(),
		AmountCents: p.AmountCents,
		CreatedAt:   pgtype.Timestamptz{Time: p.CreatedAt, Valid: true},
		UpdatedAt:   pgtype.Timestamptz{Time: p.UpdatedAt, Valid: true},
	}
	if p.PaymentRef != nil {
		row.PaymentRef = pgtype.Text{String: *p.PaymentRef, Valid: true}
	}
	if p.CancelReason != nil {
		row.CancelReason = pgtype.Text{String: p.CancelReason.String(), Valid: true}
	}
	row.ConfirmedAt = timestamptz(p.ConfirmedAt)
	row.PaymentFailedAt = timestamptz(p.PaymentFailedAt)
	row.CancelledAt = timestamptz(p.CancelledAt)
	row.CompletedAt = timestamptz(p.CompletedAt)
	return row
}

func (b *ReservationBuilder) BuildView() *queries.ReservationView {
	p := b.reconstructParams(uuid.New())
	view := &queries.ReservationView{
		ID:              p.ID,
		ResourceID:      p.ResourceID,
		ResourceName:    b.ResourceName,
		ResourceOwnerID: b.OwnerID,
		RequesterID:     p.RequesterID,
		Quantity:        p.Quantity,
		Status:          p.Status.String(),
		AmountCents:     p.AmountCents,
		PaymentRef:      p.PaymentRef,
		CreatedAt:       p.CreatedAt,
		ConfirmedAt:     p.ConfirmedAt,
		PaymentFailedAt: p.PaymentFailedAt,
		CancelledAt:     p.CancelledAt,
		CompletedAt:     p.CompletedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	if p.CancelReason != nil {
		reason := p.CancelReason.String()
		view.CancelReason = &reason
	}
	return view
}

func (b *ReservationBuilder) BuildListItem() *queries.ReservationListItem {
	return &queries.ReservationListItem{
		ID:           uuid.New(),
		ResourceID:   b.ResourceID,
		ResourceName: b.ResourceName,
		Quantity:     b.Quantity,
		Status:       b.Status.String(),
		AmountCents:  b.AmountCents,
		CreatedAt:    b.CreatedAt,
	}
}

func timestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}
