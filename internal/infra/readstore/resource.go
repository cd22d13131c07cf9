package readstore

import (
	"context"

	"slot-capacity-engine/internal/domain/resource"
	"slot-capacity-engine/internal/infra"
	"slot-capacity-engine/internal/infra/repository/converter"
	sqlc "slot-capacity-engine/internal/infra/sqlc/generated"
	"slot-capacity-engine/internal/pkg/pgconv"
	"slot-capacity-engine/internal/usecase/queries"

	"github.com/google/uuid"
)

type ResourceReadQueries interface {
	GetResourceByID(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Resources, error)
	ListResourcesByOwner(ctx context.Context, db sqlc.DBTX, ownerID uuid.UUID) ([]sqlc.Resources, error)
}

type ResourceReadStore struct {
	queries ResourceReadQueries
	db      sqlc.DBTX
}

func NewResourceReadStore(queries ResourceReadQueries, db sqlc.DBTX) *ResourceReadStore {
	return &ResourceReadStore{
		queries: queries,
		db:      db,
	}
}

// FindByID loads the aggregate the command side works on.
func (r *ResourceReadStore) FindByID(ctx context.Context, id uuid.UUID) (*resource.Resource, error) {
	row, err := r.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return converter.ResourceFromInfra(row), nil
}

func (r *ResourceReadStore) FindViewByID(ctx context.Context, id uuid.UUID) (*queries.ResourceView, error) {
	row, err := r.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResourceView(row), nil
}

func (r *ResourceReadStore) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*queries.ResourceView, error) {
	rows, err := r.queries.ListResourcesByOwner(ctx, r.db, ownerID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list resources by owner", err)
	}

	result := make([]*queries.ResourceView, len(rows))
	for i, row := range rows {
		result[i] = toResourceView(row)
	}
	return result, nil
}

func (r *ResourceReadStore) get(ctx context.Context, id uuid.UUID) (sqlc.Resources, error) {
	row, err := r.queries.GetResourceByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return sqlc.Resources{}, infra.WrapRepoErr("resource not found", err, infra.KindNotFound)
		}
		return sqlc.Resources{}, infra.WrapRepoErr("failed to find resource by ID", err)
	}
	return row, nil
}

func toResourceView(row sqlc.Resources) *queries.ResourceView {
	return &queries.ResourceView{
		ID:             row.ID,
		OwnerID:        row.OwnerID,
		Name:           row.Name,
		Capacity:       int(row.Capacity),
		Committed:      int(row.Committed),
		Available:      int(row.Capacity - row.Committed),
		UnitPriceCents: row.UnitPriceCents,
		Version:        row.Version,
		CreatedAt:      pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt:      pgconv.TimeFromPgtype(row.UpdatedAt),
	}
}
