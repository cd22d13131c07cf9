package shared

import (
	"context"
	"time"

	"slot-capacity-engine/internal/domain/reservation"
	"slot-capacity-engine/internal/domain/resource"
	sqlc "slot-capacity-engine/internal/infra/sqlc/generated"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations; both capacity and status writes commit together
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Resources() ResourceStore
	Reservations() ReservationRepository
	Reads() CommandReads
	DB() sqlc.DBTX
}

type CommandReads interface {
	ResourceByID(ctx context.Context, id uuid.UUID) (*resource.Resource, error)
	ReservationByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	StaleHolds(ctx context.Context, cutoff time.Time, limit int32) ([]StaleHold, error)
}

// ResourceStore is the versioned store. TryAdjust never holds a lock beyond its own statement.
type ResourceStore interface {
	Create(ctx context.Context, tx sqlc.DBTX, res *resource.Resource) error
	// TryAdjust applies committed += delta only if the stored version equals expectedVersion.
	// Returns errs.ErrVersionConflict on a stale version and *resource.CapacityError when the
	// delta would leave [0, capacity].
	TryAdjust(ctx context.Context, tx sqlc.DBTX, resourceID uuid.UUID, delta int, expectedVersion int64) (int64, error)
}

type ReservationRepository interface {
	Create(ctx context.Context, tx sqlc.DBTX, res *reservation.Reservation) (uuid.UUID, error)
	// UpdateStatus writes the current state only if the stored status still equals from.
	UpdateStatus(ctx context.Context, tx sqlc.DBTX, res *reservation.Reservation, from reservation.Status) error
	CancelStale(ctx context.Context, tx sqlc.DBTX, resourceID uuid.UUID, ids []uuid.UUID, cutoff, now time.Time) ([]ReleasedHold, error)
}
