//go:build unit || e2e

package builder

import (
	"time"

	domresource "slot-capacity-engine/internal/domain/resource"
	sqlc "slot-capacity-engine/internal/infra/sqlc/generated"
	"slot-capacity-engine/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ResourceBuilder struct {
	ID             uuid.UUID
	OwnerID        uuid.UUID
	Name           string
	Capacity       int
	Committed      int
	UnitPriceCents int64
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func NewResourceBuilder() *ResourceBuilder {
	now := time.Now()
	return &ResourceBuilder{
		ID:             uuid.New(),
		OwnerID:        uuid.New(),
		Name:           "Conference Room A",
		Capacity:       10,
		Committed:      0,
		UnitPriceCents: 1500,
		Version:        0,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (b *ResourceBuilder) With(mutate func(*ResourceBuilder)) *ResourceBuilder {
	mutate(b)
	return b
}

func (b *ResourceBuilder) WithID(id uuid.UUID) *ResourceBuilder {
	b.ID = id
	return b
}

func (b *ResourceBuilder) WithOwner(ownerID uuid.UUID) *ResourceBuilder {
	b.OwnerID = ownerID
	return b
}

func (b *ResourceBuilder) WithCapacity(capacity int) *ResourceBuilder {
	b.Capacity = capacity
	return b
}

func (b *ResourceBuilder) WithCommitted(committed int) *ResourceBuilder {
	b.Committed = committed
	return b
}

func (b *ResourceBuilder) WithUnitPrice(cents int64) *ResourceBuilder {
	b.UnitPriceCents = cents
	return b
}

func (b *ResourceBuilder) WithVersion(version int64) *ResourceBuilder {
	b.Version = version
	return b
}

// Build methods
func (b *ResourceBuilder) BuildDomain() *domresource.Resource {
	return domresource.Reconstruct(
		b.ID, b.OwnerID, b.Name,
		b.Capacity, b.Committed,
		b.UnitPriceCents, b.Version,
		b.CreatedAt, b.UpdatedAt,
	)
}

func (b *ResourceBuilder) BuildInfra() sqlc.Resources {
	return sqlc.Resources{
		ID:             b.ID,
		OwnerID:        b.OwnerID,
		Name:           b.Name,
		Capacity:       int32(b.Capacity),
		Committed:      int32(b.Committed),
		UnitPriceCents: b.UnitPriceCents,
		Version:        b.Version,
		CreatedAt:      pgtype.Timestamptz{Time: b.CreatedAt, Valid: true},
		UpdatedAt:      pgtype.Timestamptz{Time: b.UpdatedAt, Valid: true},
	}
}

func (b *ResourceBuilder) BuildView() *queries.ResourceView {
	return &queries.ResourceView{
		ID:             b.ID,
		OwnerID:        b.OwnerID,
		Name:           b.Name,
		Capacity:       b.Capacity,
		Committed:      b.Committed,
		Available:      b.Capacity - b.Committed,
		UnitPriceCents: b.UnitPriceCents,
		Version:        b.Version,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}
