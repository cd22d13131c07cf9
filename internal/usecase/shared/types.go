package shared

import (
	"time"

	"github.com/google/uuid"
)

// Minimal snapshot of a hold the reaper may reclaim
type StaleHold struct {
	ID         uuid.UUID
	ResourceID uuid.UUID
	Quantity   int
	CreatedAt  time.Time
}

type ReleasedHold struct {
	ID       uuid.UUID
	Quantity int
}
