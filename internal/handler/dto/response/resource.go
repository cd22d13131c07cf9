package response

import (
	"time"

	"slot-capacity-engine/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ResourceResponse struct {
	ID             uuid.UUID `json:"id"`
	OwnerID        uuid.UUID `json:"ownerId"`
	Name           string    `json:"name"`
	Capacity       int       `json:"capacity"`
	Committed      int       `json:"committed"`
	Available      int       `json:"available"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	Version        int64     `json:"version"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type ConsistencyResponse struct {
	ResourceID uuid.UUID `json:"resourceId"`
	Committed  int       `json:"committed"`
	Held       int       `json:"held"`
	Version    int64     `json:"version"`
	Consistent bool      `json:"consistent"`
}

func FromResourceView(view *queries.ResourceView) (*ResourceResponse, error) {
	var resp ResourceResponse
	if err := copier.Copy(&resp, view); err != nil {
		return nil, err
	}
	return &resp, nil
}

func FromResourceViews(views []*queries.ResourceView) ([]ResourceResponse, error) {
	resp := make([]ResourceResponse, 0, len(views))
	if len(views) == 0 {
		return resp, nil
	}
	if err := copier.Copy(&resp, views); err != nil {
		return nil, err
	}
	return resp, nil
}

func FromConsistencyReport(report *queries.ConsistencyReport) (*ConsistencyResponse, error) {
	var resp ConsistencyResponse
	if err := copier.Copy(&resp, report); err != nil {
		return nil, err
	}
	return &resp, nil
}
