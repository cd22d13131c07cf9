package api

import (
	"net/http"

	"slot-capacity-engine/internal/domain/actor"
	reqdto "slot-capacity-engine/internal/handler/dto/request"
	resdto "slot-capacity-engine/internal/handler/dto/response"
	"slot-capacity-engine/internal/handler/httperr"
	"slot-capacity-engine/internal/handler/middleware"
	"slot-capacity-engine/internal/usecase/commands"
	"slot-capacity-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReservationHandler struct {
	cmds commands.ReservationCommands
	q    queries.ReservationQueries
}

func NewReservationHandler(cmds commands.ReservationCommands, q queries.ReservationQueries) *ReservationHandler {
	return &ReservationHandler{cmds: cmds, q: q}
}

// @Summary Create reservation
// @Description Hold capacity on a resource. Priced resources open a payment intent first.
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateReservationRequest true "Reservation request"
// @Success 201 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response "CAPACITY_EXCEEDED"
// @Failure 502 {object} httperr.Response
// @Failure 503 {object} httperr.Response "CONCURRENCY_EXHAUSTED"
// @Router /reservations [post]
func (h *ReservationHandler) Create(c *gin.Context) {
	userID, role, ok := currentActor(c)
	if !ok {
		return
	}

	var req reqdto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err, "Invalid request format")
		return
	}

	result, err := h.cmds.CreateReservation(c.Request.Context(), commands.CreateReservationInput{
		ResourceID:  req.ResourceID,
		RequesterID: userID,
		Quantity:    req.Quantity,
	})
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	h.respondWithView(c, http.StatusCreated, userID, role, result.Reservation.ID())
}

// @Summary Get reservation
// @Description Visible to the requester, the resource owner and admins
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /reservations/{id} [get]
func (h *ReservationHandler) Get(c *gin.Context) {
	userID, role, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	h.respondWithView(c, http.StatusOK, userID, role, id)
}

// @Summary List my reservations
// @Description Newest first, keyset paginated
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param cursor query string false "Cursor from the previous page"
// @Param limit query int false "Page size (1-100)"
// @Success 200 {object} resdto.ReservationListResponse
// @Failure 400 {object} httperr.Response
// @Router /reservations [get]
func (h *ReservationHandler) ListMine(c *gin.Context) {
	userID, _, ok := currentActor(c)
	if !ok {
		return
	}

	var query reqdto.ListReservationsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		abortBadRequest(c, err, "Invalid query")
		return
	}

	var cursor *queries.Cursor
	if query.Cursor != "" {
		cursor = &queries.Cursor{After: query.Cursor}
	}

	items, next, err := h.q.ListMine(c.Request.Context(), userID, cursor, query.Limit)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	resp, err := resdto.FromReservationList(items, next)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Confirm reservation
// @Description Confirms a held reservation once its payment has succeeded
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 402 {object} httperr.Response "PAYMENT_NOT_COMPLETED"
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /reservations/{id}/confirm [post]
func (h *ReservationHandler) Confirm(c *gin.Context) {
	userID, role, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if _, err := h.cmds.ConfirmReservation(c.Request.Context(), id, userID); err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	h.respondWithView(c, http.StatusOK, userID, role, id)
}

// @Summary Cancel reservation
// @Description Requester or resource owner. Cancelling twice is a no-op.
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.CancelReservationResponse
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /reservations/{id}/cancel [post]
func (h *ReservationHandler) Cancel(c *gin.Context) {
	userID, role, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.cmds.CancelReservation(c.Request.Context(), id, userID)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	view, ok := h.loadView(c, userID, role, id)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, resdto.CancelReservationResponse{
		Reservation:      view,
		AlreadyCancelled: result.AlreadyCancelled,
		RefundID:         result.RefundID,
	})
}

// @Summary Complete reservation
// @Description Resource owner marks a confirmed reservation fulfilled
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /reservations/{id}/complete [post]
func (h *ReservationHandler) Complete(c *gin.Context) {
	userID, role, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if _, err := h.cmds.CompleteReservation(c.Request.Context(), id, userID); err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	h.respondWithView(c, http.StatusOK, userID, role, id)
}

// @Summary Record payment failure
// @Description Gateway callback; keeps the hold until cancel or the reaper
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /reservations/{id}/payment-failed [post]
func (h *ReservationHandler) PaymentFailed(c *gin.Context) {
	userID, role, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if _, err := h.cmds.RecordPaymentFailure(c.Request.Context(), id); err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	h.respondWithView(c, http.StatusOK, userID, role, id)
}

func (h *ReservationHandler) respondWithView(c *gin.Context, status int, userID uuid.UUID, role actor.Role, id uuid.UUID) {
	view, ok := h.loadView(c, userID, role, id)
	if !ok {
		return
	}
	c.JSON(status, view)
}

func (h *ReservationHandler) loadView(c *gin.Context, userID uuid.UUID, role actor.Role, id uuid.UUID) (*resdto.ReservationResponse, bool) {
	view, err := h.q.GetByID(c.Request.Context(), userID, role, id)
	if err != nil {
		abortWithUseCaseError(c, err)
		return nil, false
	}
	resp, err := resdto.FromReservationView(view)
	if err != nil {
		abortWithUseCaseError(c, err)
		return nil, false
	}
	return resp, true
}

func currentActor(c *gin.Context) (uuid.UUID, actor.Role, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return uuid.Nil, "", false
	}
	role, _ := middleware.GetUserRole(c)
	return userID, role, true
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortBadRequest(c, err, "Invalid id")
		return uuid.Nil, false
	}
	return id, true
}
