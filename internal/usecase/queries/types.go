package queries

import (
	"time"

	"github.com/google/uuid"
)

// ReservationView is the detail row shown to the requester or the resource owner.
type ReservationView struct {
	ID              uuid.UUID  `json:"id"`
	ResourceID      uuid.UUID  `json:"resource_id"`
	ResourceName    string     `json:"resource_name"`
	ResourceOwnerID uuid.UUID  `json:"resource_owner_id"`
	RequesterID     uuid.UUID  `json:"requester_id"`
	Quantity        int        `json:"quantity"`
	Status          string     `json:"status"`
	AmountCents     int64      `json:"amount_cents"`
	PaymentRef      *string    `json:"payment_ref,omitempty"`
	CancelReason    *string    `json:"cancel_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	ConfirmedAt     *time.Time `json:"confirmed_at,omitempty"`
	PaymentFailedAt *time.Time `json:"payment_failed_at,omitempty"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type ReservationListItem struct {
	ID           uuid.UUID `json:"id"`
	ResourceID   uuid.UUID `json:"resource_id"`
	ResourceName string    `json:"resource_name"`
	Quantity     int       `json:"quantity"`
	Status       string    `json:"status"`
	AmountCents  int64     `json:"amount_cents"`
	CreatedAt    time.Time `json:"created_at"`
}

// ResourceView carries the capacity counters as of the read.
type ResourceView struct {
	ID             uuid.UUID `json:"id"`
	OwnerID        uuid.UUID `json:"owner_id"`
	Name           string    `json:"name"`
	Capacity       int       `json:"capacity"`
	Committed      int       `json:"committed"`
	Available      int       `json:"available"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	Version        int64     `json:"version"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
