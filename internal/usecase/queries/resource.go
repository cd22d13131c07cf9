package queries

import (
	"context"

	"slot-capacity-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

type ResourceReadStore interface {
	FindViewByID(ctx context.Context, id uuid.UUID) (*ResourceView, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*ResourceView, error)
}

// HeldCounter sums the quantities attributed to a resource's live reservations.
type HeldCounter interface {
	SumHeld(ctx context.Context, resourceID uuid.UUID) (int, error)
}

// ConsistencyReport compares the stored counter with what the reservations add up to.
type ConsistencyReport struct {
	ResourceID uuid.UUID `json:"resource_id"`
	Committed  int       `json:"committed"`
	Held       int       `json:"held"`
	Version    int64     `json:"version"`
	Consistent bool      `json:"consistent"`
}

type ResourceQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ResourceView, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*ResourceView, error)
	CheckConsistency(ctx context.Context, id uuid.UUID) (*ConsistencyReport, error)
}

type resourceQueriesImpl struct {
	store ResourceReadStore
	held  HeldCounter
}

func NewResourceQueries(store ResourceReadStore, held HeldCounter) ResourceQueries {
	return &resourceQueriesImpl{store: store, held: held}
}

func (q *resourceQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*ResourceView, error) {
	view, err := q.store.FindViewByID(ctx, id)
	if err != nil {
		return nil, readErr(err, errs.ErrResourceNotFound)
	}
	return view, nil
}

func (q *resourceQueriesImpl) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*ResourceView, error) {
	views, err := q.store.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, readErr(err, errs.ErrResourceNotFound)
	}
	return views, nil
}

// CheckConsistency reads the counter and the sum outside a transaction, so a
// write landing in between can report a transient mismatch.
func (q *resourceQueriesImpl) CheckConsistency(ctx context.Context, id uuid.UUID) (*ConsistencyReport, error) {
	view, err := q.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	held, err := q.held.SumHeld(ctx, id)
	if err != nil {
		return nil, readErr(err, errs.ErrResourceNotFound)
	}

	return &ConsistencyReport{
		ResourceID: id,
		Committed:  view.Committed,
		Held:       held,
		Version:    view.Version,
		Consistent: view.Committed == held,
	}, nil
}
