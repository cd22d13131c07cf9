package request

type CreateResourceRequest struct {
	Name           string `json:"name" binding:"required,max=255"`
	Capacity       int    `json:"capacity" binding:"required,min=1,max=2147483647"`
	UnitPriceCents int64  `json:"unitPriceCents" binding:"min=0"`
}
