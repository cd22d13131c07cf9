package resource

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"slot-capacity-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrEmptyResourceName   = errors.New("resource name cannot be empty")
	ErrResourceNameTooLong = errors.New("resource name is too long (max 255 characters)")
	ErrInvalidCapacity     = errors.New("capacity must be between 1 and 2147483647")
	ErrNegativeUnitPrice   = errors.New("unit price cannot be negative")
	ErrMissingOwner        = errors.New("resource owner is required")
)

const (
	MaxResourceNameLength = 255
)

// CapacityError reports a delta that would push committed outside [0, capacity].
type CapacityError struct {
	ResourceID uuid.UUID
	Capacity   int
	Committed  int
	Delta      int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("resource %s: committed %d%+d outside [0, %d]", e.ResourceID, e.Committed, e.Delta, e.Capacity)
}

func (e *CapacityError) Is(target error) bool {
	return target == errs.ErrCapacity
}

// Resource is a bookable slot with a fixed capacity. committed and version
// only move through the versioned store.
type Resource struct {
	id             uuid.UUID
	ownerID        uuid.UUID
	name           string
	capacity       int
	committed      int
	unitPriceCents int64
	version        int64
	createdAt      time.Time
	updatedAt      time.Time
}

func NewResource(ownerID uuid.UUID, name string, capacity int, unitPriceCents int64, now time.Time) (*Resource, error) {
	if ownerID == uuid.Nil {
		return nil, ErrMissingOwner
	}
	if err := validateResourceName(name); err != nil {
		return nil, err
	}
	if capacity <= 0 || capacity > math.MaxInt32 {
		return nil, ErrInvalidCapacity
	}
	if unitPriceCents < 0 {
		return nil, ErrNegativeUnitPrice
	}

	return &Resource{
		id:             uuid.New(),
		ownerID:        ownerID,
		name:           strings.TrimSpace(name),
		capacity:       capacity,
		unitPriceCents: unitPriceCents,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

func Reconstruct(
	id, ownerID uuid.UUID,
	name string,
	capacity, committed int,
	unitPriceCents, version int64,
	createdAt, updatedAt time.Time,
) *Resource {
	return &Resource{
		id:             id,
		ownerID:        ownerID,
		name:           name,
		capacity:       capacity,
		committed:      committed,
		unitPriceCents: unitPriceCents,
		version:        version,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (r *Resource) Available() int {
	return r.capacity - r.committed
}

func (r *Resource) IsAvailable() bool {
	return r.committed < r.capacity
}

// CanHold is the fast-path check done before touching the store.
func (r *Resource) CanHold(quantity int) bool {
	return quantity > 0 && r.committed+quantity <= r.capacity
}

// CheckAdjust validates a delta against the bounds without mutating.
func (r *Resource) CheckAdjust(delta int) error {
	next := r.committed + delta
	if next < 0 || next > r.capacity {
		return &CapacityError{
			ResourceID: r.id,
			Capacity:   r.capacity,
			Committed:  r.committed,
			Delta:      delta,
		}
	}
	return nil
}

func (r *Resource) IsOwnedBy(actorID uuid.UUID) bool {
	return r.ownerID == actorID
}

func (r *Resource) PriceFor(quantity int) int64 {
	return r.unitPriceCents * int64(quantity)
}

func validateResourceName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyResourceName
	}
	if len(name) > MaxResourceNameLength {
		return ErrResourceNameTooLong
	}
	return nil
}

func (r *Resource) ID() uuid.UUID         { return r.id }
func (r *Resource) OwnerID() uuid.UUID    { return r.ownerID }
func (r *Resource) Name() string          { return r.name }
func (r *Resource) Capacity() int         { return r.capacity }
func (r *Resource) Committed() int        { return r.committed }
func (r *Resource) UnitPriceCents() int64 { return r.unitPriceCents }
func (r *Resource) Version() int64        { return r.version }
func (r *Resource) CreatedAt() time.Time  { return r.createdAt }
func (r *Resource) UpdatedAt() time.Time  { return r.updatedAt }
