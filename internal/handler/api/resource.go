package api

import (
	"net/http"

	reqdto "slot-capacity-engine/internal/handler/dto/request"
	resdto "slot-capacity-engine/internal/handler/dto/response"
	"slot-capacity-engine/internal/usecase/commands"
	"slot-capacity-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type ResourceHandler struct {
	cmds commands.ResourceCommands
	q    queries.ResourceQueries
}

func NewResourceHandler(cmds commands.ResourceCommands, q queries.ResourceQueries) *ResourceHandler {
	return &ResourceHandler{cmds: cmds, q: q}
}

// @Summary Create resource
// @Description Operators register a bookable slot they own
// @Tags resources
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateResourceRequest true "Resource request"
// @Success 201 {object} resdto.ResourceResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /resources [post]
func (h *ResourceHandler) Create(c *gin.Context) {
	userID, _, ok := currentActor(c)
	if !ok {
		return
	}

	var req reqdto.CreateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err, "Invalid request format")
		return
	}

	res, err := h.cmds.CreateResource(c.Request.Context(), commands.CreateResourceInput{
		OwnerID:        userID,
		Name:           req.Name,
		Capacity:       req.Capacity,
		UnitPriceCents: req.UnitPriceCents,
	})
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), res.ID())
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	h.respond(c, http.StatusCreated, view)
}

// @Summary Get resource
// @Description Capacity counters as of the read
// @Tags resources
// @Produce json
// @Security BearerAuth
// @Param id path string true "Resource ID"
// @Success 200 {object} resdto.ResourceResponse
// @Failure 404 {object} httperr.Response
// @Router /resources/{id} [get]
func (h *ResourceHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), id)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	h.respond(c, http.StatusOK, view)
}

// @Summary List my resources
// @Tags resources
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.ResourceResponse
// @Router /resources [get]
func (h *ResourceHandler) ListMine(c *gin.Context) {
	userID, _, ok := currentActor(c)
	if !ok {
		return
	}

	views, err := h.q.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	resp, err := resdto.FromResourceViews(views)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Check capacity consistency
// @Description Compares committed with the sum of live reservation quantities
// @Tags resources
// @Produce json
// @Security BearerAuth
// @Param id path string true "Resource ID"
// @Success 200 {object} resdto.ConsistencyResponse
// @Failure 404 {object} httperr.Response
// @Router /resources/{id}/consistency [get]
func (h *ResourceHandler) Consistency(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	report, err := h.q.CheckConsistency(c.Request.Context(), id)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	resp, err := resdto.FromConsistencyReport(report)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ResourceHandler) respond(c *gin.Context, status int, view *queries.ResourceView) {
	resp, err := resdto.FromResourceView(view)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(status, resp)
}
