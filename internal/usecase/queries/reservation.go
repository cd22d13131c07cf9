package queries

import (
	"context"
	"time"

	"slot-capacity-engine/internal/domain/actor"
	"slot-capacity-engine/internal/infra"
	"slot-capacity-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

type ReservationReadStore interface {
	FindViewByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	FindByRequesterFirstPage(ctx context.Context, requesterID uuid.UUID, limit int32) ([]*ReservationListItem, error)
	FindByRequesterKeyset(ctx context.Context, requesterID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*ReservationListItem, error)
}

type ReservationQueries interface {
	GetByID(ctx context.Context, actorID uuid.UUID, role actor.Role, id uuid.UUID) (*ReservationView, error)
	ListMine(ctx context.Context, requesterID uuid.UUID, cursor *Cursor, limit int) ([]*ReservationListItem, *Cursor, error)
}

type reservationQueriesImpl struct {
	store ReservationReadStore
}

func NewReservationQueries(store ReservationReadStore) ReservationQueries {
	return &reservationQueriesImpl{store: store}
}

// GetByID shows a reservation to its requester, the resource owner, or an admin.
func (q *reservationQueriesImpl) GetByID(ctx context.Context, actorID uuid.UUID, role actor.Role, id uuid.UUID) (*ReservationView, error) {
	view, err := q.store.FindViewByID(ctx, id)
	if err != nil {
		return nil, readErr(err, errs.ErrReservationNotFound)
	}

	if role != actor.RoleAdmin && view.RequesterID != actorID && view.ResourceOwnerID != actorID {
		return nil, errs.Mark(errs.Newf("actor %s may not view reservation %s", actorID, id), errs.ErrNotPermitted)
	}
	return view, nil
}

func (q *reservationQueriesImpl) ListMine(ctx context.Context, requesterID uuid.UUID, cursor *Cursor, limit int) ([]*ReservationListItem, *Cursor, error) {
	limit = ValidateLimit(limit)

	var (
		rows []*ReservationListItem
		err  error
	)
	if cursor == nil || cursor.After == "" {
		rows, err = q.store.FindByRequesterFirstPage(ctx, requesterID, int32(limit+1))
	} else {
		lastCreatedAt, lastID, derr := DecodeAfterCursor(cursor.After)
		if derr != nil {
			return nil, nil, derr
		}
		rows, err = q.store.FindByRequesterKeyset(ctx, requesterID, lastCreatedAt, lastID, int32(limit+1))
	}
	if err != nil {
		return nil, nil, readErr(err, errs.ErrReservationNotFound)
	}

	rows, next := page(rows, limit, func(r *ReservationListItem) (time.Time, uuid.UUID) {
		return r.CreatedAt, r.ID
	})
	return rows, next, nil
}

func readErr(err error, notFound error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return errs.Mark(err, notFound)
	}
	return errs.Mark(err, errs.ErrDatabaseOperationFailed)
}
