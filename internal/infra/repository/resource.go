package repository

import (
	"context"

	"slot-capacity-engine/internal/domain/resource"
	"slot-capacity-engine/internal/infra"
	"slot-capacity-engine/internal/infra/repository/converter"
	sqlc "slot-capacity-engine/internal/infra/sqlc/generated"
	"slot-capacity-engine/internal/pkg/errs"
	"slot-capacity-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type ResourceWriteQueries interface {
	CreateResource(ctx context.Context, db sqlc.DBTX, arg sqlc.CreateResourceParams) (sqlc.Resources, error)
	AdjustResourceCommitted(ctx context.Context, db sqlc.DBTX, arg sqlc.AdjustResourceCommittedParams) (int64, error)
	GetResourceByID(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Resources, error)
}

// ResourceRepository is the versioned resource store.
type ResourceRepository struct {
	queries ResourceWriteQueries
	db      sqlc.DBTX
}

func NewResourceRepository(queries ResourceWriteQueries, db sqlc.DBTX) *ResourceRepository {
	return &ResourceRepository{
		queries: queries,
		db:      db,
	}
}

func (r *ResourceRepository) Create(ctx context.Context, tx sqlc.DBTX, res *resource.Resource) error {
	params, err := converter.ResourceToInfra(res)
	if err != nil {
		return err
	}
	if _, err := r.queries.CreateResource(ctx, tx, params); err != nil {
		return infra.WrapRepoErr("failed to create resource", err)
	}
	return nil
}

func (r *ResourceRepository) TryAdjust(ctx context.Context, tx sqlc.DBTX, resourceID uuid.UUID, delta int, expectedVersion int64) (int64, error) {
	d, err := converter.ToInt32(delta)
	if err != nil {
		return 0, err
	}
	newVersion, err := r.queries.AdjustResourceCommitted(ctx, tx, sqlc.AdjustResourceCommittedParams{
		Delta:           d,
		ID:              resourceID,
		ExpectedVersion: expectedVersion,
	})
	if err == nil {
		return newVersion, nil
	}
	if !pgconv.IsNoRows(err) {
		return 0, infra.WrapRepoErr("failed to adjust resource capacity", err)
	}

	// No row matched: find out which guard rejected the update.
	return 0, r.classifyRejected(ctx, tx, resourceID, delta, expectedVersion)
}

func (r *ResourceRepository) classifyRejected(ctx context.Context, tx sqlc.DBTX, resourceID uuid.UUID, delta int, expectedVersion int64) error {
	row, err := r.queries.GetResourceByID(ctx, tx, resourceID)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return infra.WrapRepoErr("resource not found", err, infra.KindNotFound)
		}
		return infra.WrapRepoErr("failed to reload resource after rejected adjust", err)
	}

	if row.Version != expectedVersion {
		return errs.Mark(
			errs.Newf("resource %s: expected version %d, found %d", resourceID, expectedVersion, row.Version),
			errs.ErrVersionConflict,
		)
	}

	current := converter.ResourceFromInfra(row)
	if capErr := current.CheckAdjust(delta); capErr != nil {
		return capErr
	}

	// Version and bounds both matched on reload, so a concurrent writer must have
	// moved the row and moved it back between the two statements.
	return errs.Mark(
		errs.Newf("resource %s: adjust rejected at version %d", resourceID, expectedVersion),
		errs.ErrVersionConflict,
	)
}
