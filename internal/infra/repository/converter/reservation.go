package converter

import (
	"fmt"
	"math"

	"slot-capacity-engine/internal/domain/reservation"
	sqlc "slot-capacity-engine/internal/infra/sqlc/generated"
	"slot-capacity-engine/internal/pkg/errs"
	"slot-capacity-engine/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgtype"
)

func ReservationToInfra(res *reservation.Reservation) (sqlc.CreateReservationParams, error) {
	quantity, err := ToInt32(res.Quantity())
	if err != nil {
		return sqlc.CreateReservationParams{}, err
	}
	return sqlc.CreateReservationParams{
		ID:          res.ID(),
		ResourceID:  res.ResourceID(),
		RequesterID: res.RequesterID(),
		Quantity:    quantity,
		Status:      res.Status().String(),
		AmountCents: res.Amount().Cents(),
		PaymentRef:  pgconv.StringPtrToPgtype(res.PaymentRef()),
		CreatedAt:   pgconv.TimeToPgtype(res.CreatedAt()),
	}, nil
}

func ReservationStatusToInfra(res *reservation.Reservation, from reservation.Status) sqlc.UpdateReservationStatusParams {
	reason := pgtype.Text{Valid: false}
	if r := res.CancelReason(); r != nil {
		reason = pgconv.StringToPgtype(r.String())
	}
	return sqlc.UpdateReservationStatusParams{
		Status:          res.Status().String(),
		ConfirmedAt:     pgconv.TimePtrToPgtype(res.ConfirmedAt()),
		PaymentFailedAt: pgconv.TimePtrToPgtype(res.PaymentFailedAt()),
		CancelledAt:     pgconv.TimePtrToPgtype(res.CancelledAt()),
		CompletedAt:     pgconv.TimePtrToPgtype(res.CompletedAt()),
		CancelReason:    reason,
		UpdatedAt:       pgconv.TimeToPgtype(res.UpdatedAt()),
		ID:              res.ID(),
		FromStatus:      from.String(),
	}
}

func ReservationFromInfra(row sqlc.Reservations) (*reservation.Reservation, error) {
	status, err := reservation.ParseStatus(row.Status)
	if err != nil {
		return nil, fmt.Errorf("reservation %s: %w", row.ID, err)
	}

	var reason *reservation.CancelReason
	if row.CancelReason.Valid {
		r := reservation.CancelReason(row.CancelReason.String)
		reason = &r
	}

	return reservation.Reconstruct(reservation.ReconstructParams{
		ID:              row.ID,
		ResourceID:      row.ResourceID,
		RequesterID:     row.RequesterID,
		Quantity:        int(row.Quantity),
		AmountCents:     row.AmountCents,
		Status:          status,
		PaymentRef:      pgconv.StringPtrFromPgtype(row.PaymentRef),
		CancelReason:    reason,
		CreatedAt:       pgconv.TimeFromPgtype(row.CreatedAt),
		ConfirmedAt:     pgconv.TimePtrFromPgtype(row.ConfirmedAt),
		PaymentFailedAt: pgconv.TimePtrFromPgtype(row.PaymentFailedAt),
		CancelledAt:     pgconv.TimePtrFromPgtype(row.CancelledAt),
		CompletedAt:     pgconv.TimePtrFromPgtype(row.CompletedAt),
		UpdatedAt:       pgconv.TimeFromPgtype(row.UpdatedAt),
	}), nil
}

// ToInt32 narrows to the int4 columns. Out-of-range values are a validation error.
func ToInt32(v int) (int32, error) {
	if v > math.MaxInt32 || v < math.MinInt32 {
		return 0, errs.Mark(errs.Newf("value out of int32 range: %d", v), errs.ErrDomainValidation)
	}
	return int32(v), nil
}
