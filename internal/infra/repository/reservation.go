package repository

import (
	"context"
	"time"

	"slot-capacity-engine/internal/domain/reservation"
	"slot-capacity-engine/internal/infra"
	"slot-capacity-engine/internal/infra/repository/converter"
	sqlc "slot-capacity-engine/internal/infra/sqlc/generated"
	"slot-capacity-engine/internal/pkg/errs"
	"slot-capacity-engine/internal/pkg/pgconv"
	"slot-capacity-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type ReservationWriteQueries interface {
	CreateReservation(ctx context.Context, db sqlc.DBTX, arg sqlc.CreateReservationParams) (uuid.UUID, error)
	UpdateReservationStatus(ctx context.Context, db sqlc.DBTX, arg sqlc.UpdateReservationStatusParams) (int64, error)
	CancelStaleHolds(ctx context.Context, db sqlc.DBTX, arg sqlc.CancelStaleHoldsParams) ([]sqlc.CancelStaleHoldsRow, error)
}

type ReservationRepository struct {
	queries ReservationWriteQueries
	db      sqlc.DBTX
}

func NewReservationRepository(queries ReservationWriteQueries, db sqlc.DBTX) *ReservationRepository {
	return &ReservationRepository{
		queries: queries,
		db:      db,
	}
}

func (r *ReservationRepository) Create(ctx context.Context, tx sqlc.DBTX, res *reservation.Reservation) (uuid.UUID, error) {
	params, err := converter.ReservationToInfra(res)
	if err != nil {
		return uuid.Nil, err
	}

	resultID, err := r.queries.CreateReservation(ctx, tx, params)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create reservation", err)
	}

	return resultID, nil
}

// UpdateStatus reports a version conflict when another writer moved the reservation first.
func (r *ReservationRepository) UpdateStatus(ctx context.Context, tx sqlc.DBTX, res *reservation.Reservation, from reservation.Status) error {
	affected, err := r.queries.UpdateReservationStatus(ctx, tx, converter.ReservationStatusToInfra(res, from))
	if err != nil {
		return infra.WrapRepoErr("failed to update reservation status", err)
	}
	if affected == 0 {
		return errs.Mark(
			errs.Newf("reservation %s no longer in status %s", res.ID(), from),
			errs.ErrVersionConflict,
		)
	}
	return nil
}

func (r *ReservationRepository) CancelStale(ctx context.Context, tx sqlc.DBTX, resourceID uuid.UUID, ids []uuid.UUID, cutoff, now time.Time) ([]shared.ReleasedHold, error) {
	rows, err := r.queries.CancelStaleHolds(ctx, tx, sqlc.CancelStaleHoldsParams{
		Now:        pgconv.TimeToPgtype(now),
		Ids:        ids,
		ResourceID: resourceID,
		Cutoff:     pgconv.TimeToPgtype(cutoff),
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to cancel stale holds", err)
	}

	released := make([]shared.ReleasedHold, len(rows))
	for i, row := range rows {
		released[i] = shared.ReleasedHold{ID: row.ID, Quantity: int(row.Quantity)}
	}
	return released, nil
}
