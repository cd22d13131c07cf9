package readstore

import (
	"context"
	"time"

	"slot-capacity-engine/internal/domain/reservation"
	"slot-capacity-engine/internal/infra"
	"slot-capacity-engine/internal/infra/repository/converter"
	sqlc "slot-capacity-engine/internal/infra/sqlc/generated"
	"slot-capacity-engine/internal/pkg/pgconv"
	"slot-capacity-engine/internal/usecase/queries"
	"slot-capacity-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type ReservationReadQueries interface {
	GetReservationByID(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Reservations, error)
	GetReservationViewByID(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.GetReservationViewByIDRow, error)
	ListReservationsByRequesterFirstPage(ctx context.Context, db sqlc.DBTX, arg sqlc.ListReservationsByRequesterFirstPageParams) ([]sqlc.ListReservationsByRequesterFirstPageRow, error)
	ListReservationsByRequesterKeyset(ctx context.Context, db sqlc.DBTX, arg sqlc.ListReservationsByRequesterKeysetParams) ([]sqlc.ListReservationsByRequesterKeysetRow, error)
	ListStaleHolds(ctx context.Context, db sqlc.DBTX, arg sqlc.ListStaleHoldsParams) ([]sqlc.ListStaleHoldsRow, error)
	SumHeldQuantityByResource(ctx context.Context, db sqlc.DBTX, resourceID uuid.UUID) (int32, error)
}

type ReservationReadStore struct {
	queries ReservationReadQueries
	db      sqlc.DBTX
}

func NewReservationReadStore(queries ReservationReadQueries, db sqlc.DBTX) *ReservationReadStore {
	return &ReservationReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	row, err := r.queries.GetReservationByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation by ID", err)
	}

	res, err := converter.ReservationFromInfra(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to decode reservation", err)
	}
	return res, nil
}

func (r *ReservationReadStore) FindViewByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	row, err := r.queries.GetReservationViewByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation view by ID", err)
	}

	return rowToReservationView(row), nil
}

func rowToReservationView(row sqlc.GetReservationViewByIDRow) *queries.ReservationView {
	return &queries.ReservationView{
		ID:              row.ID,
		ResourceID:      row.ResourceID,
		ResourceName:    row.ResourceName,
		ResourceOwnerID: row.ResourceOwnerID,
		RequesterID:     row.RequesterID,
		Quantity:        int(row.Quantity),
		Status:          row.Status,
		AmountCents:     row.AmountCents,
		PaymentRef:      pgconv.StringPtrFromPgtype(row.PaymentRef),
		CancelReason:    pgconv.StringPtrFromPgtype(row.CancelReason),
		CreatedAt:       pgconv.TimeFromPgtype(row.CreatedAt),
		ConfirmedAt:     pgconv.TimePtrFromPgtype(row.ConfirmedAt),
		PaymentFailedAt: pgconv.TimePtrFromPgtype(row.PaymentFailedAt),
		CancelledAt:     pgconv.TimePtrFromPgtype(row.CancelledAt),
		CompletedAt:     pgconv.TimePtrFromPgtype(row.CompletedAt),
		UpdatedAt:       pgconv.TimeFromPgtype(row.UpdatedAt),
	}
}

func (r *ReservationReadStore) FindByRequesterFirstPage(ctx context.Context, requesterID uuid.UUID, limit int32) ([]*queries.ReservationListItem, error) {
	params := sqlc.ListReservationsByRequesterFirstPageParams{
		RequesterID: requesterID,
		Limit:       limit,
	}

	rows, err := r.queries.ListReservationsByRequesterFirstPage(ctx, r.db, params)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find reservations first page", err)
	}

	result := make([]*queries.ReservationListItem, len(rows))
	for i, row := range rows {
		result[i] = toReservationListItemFromFirstPageRow(row)
	}

	return result, nil
}

func (r *ReservationReadStore) FindByRequesterKeyset(ctx context.Context, requesterID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*queries.ReservationListItem, error) {
	params := sqlc.ListReservationsByRequesterKeysetParams{
		RequesterID: requesterID,
		CreatedAt:   pgconv.TimeToPgtype(lastCreatedAt),
		ID:          lastID,
		Limit:       limit,
	}

	rows, err := r.queries.ListReservationsByRequesterKeyset(ctx, r.db, params)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find reservations keyset", err)
	}

	result := make([]*queries.ReservationListItem, len(rows))
	for i, row := range rows {
		result[i] = toReservationListItemFromKeysetRow(row)
	}

	return result, nil
}

func toReservationListItemFromFirstPageRow(row sqlc.ListReservationsByRequesterFirstPageRow) *queries.ReservationListItem {
	return &queries.ReservationListItem{
		ID:           row.ID,
		ResourceID:   row.ResourceID,
		ResourceName: row.ResourceName,
		Quantity:     int(row.Quantity),
		Status:       row.Status,
		AmountCents:  row.AmountCents,
		CreatedAt:    pgconv.TimeFromPgtype(row.CreatedAt),
	}
}

func toReservationListItemFromKeysetRow(row sqlc.ListReservationsByRequesterKeysetRow) *queries.ReservationListItem {
	return &queries.ReservationListItem{
		ID:           row.ID,
		ResourceID:   row.ResourceID,
		ResourceName: row.ResourceName,
		Quantity:     int(row.Quantity),
		Status:       row.Status,
		AmountCents:  row.AmountCents,
		CreatedAt:    pgconv.TimeFromPgtype(row.CreatedAt),
	}
}

// FindStaleHolds returns reapable rows created before cutoff, grouped by resource.
func (r *ReservationReadStore) FindStaleHolds(ctx context.Context, cutoff time.Time, limit int32) ([]shared.StaleHold, error) {
	rows, err := r.queries.ListStaleHolds(ctx, r.db, sqlc.ListStaleHoldsParams{
		Cutoff:     pgconv.TimeToPgtype(cutoff),
		BatchLimit: limit,
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list stale holds", err)
	}

	result := make([]shared.StaleHold, len(rows))
	for i, row := range rows {
		result[i] = shared.StaleHold{
			ID:         row.ID,
			ResourceID: row.ResourceID,
			Quantity:   int(row.Quantity),
			CreatedAt:  pgconv.TimeFromPgtype(row.CreatedAt),
		}
	}
	return result, nil
}

func (r *ReservationReadStore) SumHeld(ctx context.Context, resourceID uuid.UUID) (int, error) {
	total, err := r.queries.SumHeldQuantityByResource(ctx, r.db, resourceID)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to sum held quantity", err)
	}
	return int(total), nil
}
