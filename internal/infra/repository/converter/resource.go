package converter

import (
	"slot-capacity-engine/internal/domain/resource"
	sqlc "slot-capacity-engine/internal/infra/sqlc/generated"
	"slot-capacity-engine/internal/pkg/errs"
	"slot-capacity-engine/internal/pkg/pgconv"
)

func ResourceToInfra(res *resource.Resource) (sqlc.CreateResourceParams, error) {
	capacity, err := ToInt32(res.Capacity())
	if err != nil {
		return sqlc.CreateResourceParams{}, errs.Wrapf(err, "resource %s capacity", res.ID())
	}
	return sqlc.CreateResourceParams{
		ID:             res.ID(),
		OwnerID:        res.OwnerID(),
		Name:           res.Name(),
		Capacity:       capacity,
		UnitPriceCents: res.UnitPriceCents(),
		CreatedAt:      pgconv.TimeToPgtype(res.CreatedAt()),
	}, nil
}

func ResourceFromInfra(row sqlc.Resources) *resource.Resource {
	return resource.Reconstruct(
		row.ID,
		row.OwnerID,
		row.Name,
		int(row.Capacity),
		int(row.Committed),
		row.UnitPriceCents,
		row.Version,
		pgconv.TimeFromPgtype(row.CreatedAt),
		pgconv.TimeFromPgtype(row.UpdatedAt),
	)
}
