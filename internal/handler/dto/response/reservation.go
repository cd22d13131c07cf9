package response

import (
	"time"

	"slot-capacity-engine/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ReservationResponse struct {
	ID              uuid.UUID  `json:"id"`
	ResourceID      uuid.UUID  `json:"resourceId"`
	ResourceName    string     `json:"resourceName"`
	ResourceOwnerID uuid.UUID  `json:"resourceOwnerId"`
	RequesterID     uuid.UUID  `json:"requesterId"`
	Quantity        int        `json:"quantity"`
	Status          string     `json:"status"`
	AmountCents     int64      `json:"amountCents"`
	PaymentRef      *string    `json:"paymentRef,omitempty"`
	CancelReason    *string    `json:"cancelReason,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	ConfirmedAt     *time.Time `json:"confirmedAt,omitempty"`
	PaymentFailedAt *time.Time `json:"paymentFailedAt,omitempty"`
	CancelledAt     *time.Time `json:"cancelledAt,omitempty"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

type ReservationListItemResponse struct {
	ID           uuid.UUID `json:"id"`
	ResourceID   uuid.UUID `json:"resourceId"`
	ResourceName string    `json:"resourceName"`
	Quantity     int       `json:"quantity"`
	Status       string    `json:"status"`
	AmountCents  int64     `json:"amountCents"`
	CreatedAt    time.Time `json:"createdAt"`
}

type ReservationListResponse struct {
	Items      []ReservationListItemResponse `json:"items"`
	NextCursor *string                       `json:"nextCursor,omitempty"`
}

type CancelReservationResponse struct {
	Reservation      *ReservationResponse `json:"reservation"`
	AlreadyCancelled bool                 `json:"alreadyCancelled"`
	RefundID         *string              `json:"refundId,omitempty"`
}

func FromReservationView(view *queries.ReservationView) (*ReservationResponse, error) {
	var resp ReservationResponse
	if err := copier.Copy(&resp, view); err != nil {
		return nil, err
	}
	return &resp, nil
}

func FromReservationList(items []*queries.ReservationListItem, next *queries.Cursor) (*ReservationListResponse, error) {
	resp := ReservationListResponse{Items: make([]ReservationListItemResponse, 0, len(items))}
	if len(items) > 0 {
		if err := copier.Copy(&resp.Items, items); err != nil {
			return nil, err
		}
	}
	if next != nil {
		resp.NextCursor = &next.After
	}
	return &resp, nil
}
