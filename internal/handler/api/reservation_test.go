//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"slot-capacity-engine/internal/domain/actor"
	domreservation "slot-capacity-engine/internal/domain/reservation"
	"slot-capacity-engine/internal/domain/resource"
	"slot-capacity-engine/internal/handler/api"
	reqdto "slot-capacity-engine/internal/handler/dto/request"
	resdto "slot-capacity-engine/internal/handler/dto/response"
	"slot-capacity-engine/internal/handler/middleware"
	"slot-capacity-engine/internal/pkg/errs"
	"slot-capacity-engine/internal/usecase/commands"
	"slot-capacity-engine/internal/usecase/queries"
	"slot-capacity-engine/tests/common/builder"
	"slot-capacity-engine/tests/common/httptest"
	"slot-capacity-engine/tests/common/testutil"
	commandsmock "slot-capacity-engine/tests/mock/commands"
	queriesmock "slot-capacity-engine/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ReservationHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockReservationCommands
	mockQueries  *queriesmock.MockReservationQueries
	handler      *api.ReservationHandler
	userID       uuid.UUID
	role         actor.Role
}

func (s *ReservationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockReservationCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockReservationQueries(s.mockCtrl)
	s.handler = api.NewReservationHandler(s.mockCommands, s.mockQueries)
	s.userID = uuid.New()
	s.role = actor.RoleViewer

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		middleware.SetActor(c, s.userID, s.role)
		c.Next()
	}

	g := s.router.Group("/reservations", authMiddleware)
	g.POST("", s.handler.Create)
	g.GET("", s.handler.ListMine)
	g.GET("/:id", s.handler.Get)
	g.POST("/:id/confirm", s.handler.Confirm)
	g.POST("/:id/cancel", s.handler.Cancel)
	g.POST("/:id/complete", s.handler.Complete)
	g.POST("/:id/payment-failed", s.handler.PaymentFailed)
}

func (s *ReservationHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestReservationHandlerSuite(t *testing.T) {
	suite.Run(t, new(ReservationHandlerTestSuite))
}

func (s *ReservationHandlerTestSuite) domainFor(view *queries.ReservationView) *domreservation.Reservation {
	return domreservation.Reconstruct(domreservation.ReconstructParams{
		ID:          view.ID,
		ResourceID:  view.ResourceID,
		RequesterID: view.RequesterID,
		Quantity:    view.Quantity,
		AmountCents: view.AmountCents,
		Status:      domreservation.Status(view.Status),
		CreatedAt:   view.CreatedAt,
		UpdatedAt:   view.UpdatedAt,
	})
}

// ================================================================================
// TestCreate
// ================================================================================

func (s *ReservationHandlerTestSuite) TestCreate() {
	url := "/reservations"

	s.Run("success: returns 201 with the stored reservation", func() {
		view := builder.NewReservationBuilder().WithRequester(s.userID).WithQuantity(2).BuildView()
		reqBody := reqdto.CreateReservationRequest{ResourceID: view.ResourceID, Quantity: 2}

		s.mockCommands.EXPECT().CreateReservation(gomock.Any(), commands.CreateReservationInput{
			ResourceID:  view.ResourceID,
			RequesterID: s.userID,
			Quantity:    2,
		}).Return(&commands.CreateReservationResult{Reservation: s.domainFor(view)}, nil).Times(1)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.userID, s.role, view.ID).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var body resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(view.ID, body.ID)
		s.Equal("pending_hold", body.Status)
		s.Equal(2, body.Quantity)
	})

	testCases := []struct {
		name       string
		mutate     func(m map[string]any)
		expectCode int
	}{
		{name: "missing field: resourceId", mutate: testutil.Field("resourceId", nil), expectCode: http.StatusBadRequest},
		{name: "missing field: quantity", mutate: testutil.Field("quantity", nil), expectCode: http.StatusBadRequest},
		{name: "quantity zero", mutate: testutil.Field("quantity", 0), expectCode: http.StatusBadRequest},
		{name: "quantity negative", mutate: testutil.Field("quantity", -1), expectCode: http.StatusBadRequest},
		{name: "resourceId not a uuid", mutate: testutil.Field("resourceId", "room-a"), expectCode: http.StatusBadRequest},
	}
	base := reqdto.CreateReservationRequest{ResourceID: uuid.New(), Quantity: 1}
	for _, tc := range testCases {
		s.Run("error: "+tc.name, func() {
			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, testutil.DtoMap(s.T(), base, tc.mutate), "bearer-token")
			httptest.AssertErrorCode(s.T(), rec, tc.expectCode, api.CodeBadRequest)
		})
	}

	useCaseErrors := []struct {
		name         string
		err          error
		expectCode   int
		expectErrKey string
	}{
		{
			name:         "capacity exceeded maps to 409",
			err:          errs.Mark(&resource.CapacityError{Capacity: 1, Committed: 1, Delta: 1}, errs.ErrCapacityExceeded),
			expectCode:   http.StatusConflict,
			expectErrKey: api.CodeCapacityExceeded,
		},
		{
			name:         "retry exhaustion maps to 503",
			err:          errs.Mark(errs.Mark(errs.New("stale"), errs.ErrVersionConflict), errs.ErrConcurrency),
			expectCode:   http.StatusServiceUnavailable,
			expectErrKey: api.CodeConcurrency,
		},
		{
			name:         "unknown resource maps to 404",
			err:          errs.ErrResourceNotFound,
			expectCode:   http.StatusNotFound,
			expectErrKey: api.CodeNotFound,
		},
		{
			name:         "payment gateway failure maps to 502",
			err:          errs.Mark(errs.New("gateway down"), errs.ErrPayment),
			expectCode:   http.StatusBadGateway,
			expectErrKey: api.CodePaymentError,
		},
		{
			name:         "unexpected failure maps to 500",
			err:          errs.New("boom"),
			expectCode:   http.StatusInternalServerError,
			expectErrKey: api.CodeInternal,
		},
	}
	for _, tc := range useCaseErrors {
		s.Run("error: "+tc.name, func() {
			s.mockCommands.EXPECT().CreateReservation(gomock.Any(), gomock.Any()).Return(nil, tc.err).Times(1)

			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, base, "bearer-token")
			httptest.AssertErrorCode(s.T(), rec, tc.expectCode, tc.expectErrKey)
		})
	}

	s.Run("error: 503 carries Retry-After", func() {
		s.mockCommands.EXPECT().CreateReservation(gomock.Any(), gomock.Any()).
			Return(nil, errs.Mark(errs.New("busy"), errs.ErrConcurrency)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, base, "bearer-token")
		httptest.AssertHeaders(s.T(), rec, map[string]string{"Retry-After": "1"})
	})

	s.Run("error: 401 without a token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, base, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})
}

// ================================================================================
// TestGet
// ================================================================================

func (s *ReservationHandlerTestSuite) TestGet() {
	s.Run("success: returns the reservation", func() {
		view := builder.NewReservationBuilder().WithRequester(s.userID).WithStatus(domreservation.StatusConfirmed).BuildView()
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.userID, s.role, view.ID).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations/"+view.ID.String(), nil, "bearer-token")

		var body resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("confirmed", body.Status)
		s.NotNil(body.ConfirmedAt)
	})

	testCases := []struct {
		name       string
		err        error
		expectCode int
	}{
		{name: "not found", err: errs.ErrReservationNotFound, expectCode: http.StatusNotFound},
		{name: "not permitted", err: errs.ErrNotPermitted, expectCode: http.StatusForbidden},
	}
	for _, tc := range testCases {
		s.Run("error: "+tc.name, func() {
			id := uuid.New()
			s.mockQueries.EXPECT().GetByID(gomock.Any(), s.userID, s.role, id).Return(nil, tc.err).Times(1)

			rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations/"+id.String(), nil, "bearer-token")
			s.Equal(tc.expectCode, rec.Code)
		})
	}

	s.Run("error: 400 on malformed id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations/not-a-uuid", nil, "bearer-token")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, api.CodeBadRequest)
	})
}

// ================================================================================
// TestListMine
// ================================================================================

func (s *ReservationHandlerTestSuite) TestListMine() {
	s.Run("success: passes cursor and limit through", func() {
		items := []*queries.ReservationListItem{
			builder.NewReservationBuilder().BuildListItem(),
			builder.NewReservationBuilder().BuildListItem(),
		}
		next := &queries.Cursor{After: "next-page"}
		s.mockQueries.EXPECT().
			ListMine(gomock.Any(), s.userID, &queries.Cursor{After: "abc"}, 2).
			Return(items, next, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations?cursor=abc&limit=2", nil, "bearer-token")

		var body resdto.ReservationListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Len(body.Items, 2)
		s.Equal(items[0].ID, body.Items[0].ID)
		s.Require().NotNil(body.NextCursor)
		s.Equal("next-page", *body.NextCursor)
	})

	s.Run("success: first page without cursor", func() {
		s.mockQueries.EXPECT().ListMine(gomock.Any(), s.userID, nil, 0).Return(nil, nil, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations", nil, "bearer-token")

		var body resdto.ReservationListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Nil(body.NextCursor)
	})

	s.Run("error: 400 on limit over the maximum", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations?limit=101", nil, "bearer-token")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, api.CodeBadRequest)
	})

	s.Run("error: 400 on a cursor the query rejects", func() {
		s.mockQueries.EXPECT().ListMine(gomock.Any(), s.userID, gomock.Any(), 0).
			Return(nil, nil, errs.Mark(errs.New("bad cursor"), queries.ErrInvalidCursor)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations?cursor=zzz", nil, "bearer-token")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, api.CodeBadRequest)
	})
}

// ================================================================================
// TestConfirm
// ================================================================================

func (s *ReservationHandlerTestSuite) TestConfirm() {
	view := builder.NewReservationBuilder().WithRequester(s.userID).WithStatus(domreservation.StatusConfirmed).BuildView()
	url := "/reservations/" + view.ID.String() + "/confirm"

	s.Run("success: returns the confirmed reservation", func() {
		s.mockCommands.EXPECT().ConfirmReservation(gomock.Any(), view.ID, s.userID).Return(s.domainFor(view), nil).Times(1)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.userID, s.role, view.ID).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		var body resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("confirmed", body.Status)
	})

	testCases := []struct {
		name       string
		err        error
		expectCode int
		expectKey  string
	}{
		{name: "payment still pending", err: errs.ErrPaymentNotCompleted, expectCode: http.StatusPaymentRequired, expectKey: api.CodePaymentNotCompleted},
		{name: "already confirmed", err: errs.ErrInvalidTransition, expectCode: http.StatusConflict, expectKey: api.CodeInvalidTransition},
		{name: "someone else's reservation", err: errs.ErrNotPermitted, expectCode: http.StatusForbidden, expectKey: api.CodeNotPermitted},
	}
	for _, tc := range testCases {
		s.Run("error: "+tc.name, func() {
			s.mockCommands.EXPECT().ConfirmReservation(gomock.Any(), view.ID, s.userID).Return(nil, tc.err).Times(1)

			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
			httptest.AssertErrorCode(s.T(), rec, tc.expectCode, tc.expectKey)
		})
	}
}

// ================================================================================
// TestCancel
// ================================================================================

func (s *ReservationHandlerTestSuite) TestCancel() {
	view := builder.NewReservationBuilder().WithRequester(s.userID).WithStatus(domreservation.StatusCancelled).BuildView()
	url := "/reservations/" + view.ID.String() + "/cancel"

	s.Run("success: reports refund id", func() {
		refundID := "re_123"
		s.mockCommands.EXPECT().CancelReservation(gomock.Any(), view.ID, s.userID).
			Return(&commands.CancelResult{Reservation: s.domainFor(view), RefundID: &refundID}, nil).Times(1)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.userID, s.role, view.ID).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		var body resdto.CancelReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.False(body.AlreadyCancelled)
		s.Require().NotNil(body.RefundID)
		s.Equal(refundID, *body.RefundID)
		s.Require().NotNil(body.Reservation)
		s.Equal("cancelled", body.Reservation.Status)
	})

	s.Run("success: second cancel is a no-op", func() {
		s.mockCommands.EXPECT().CancelReservation(gomock.Any(), view.ID, s.userID).
			Return(&commands.CancelResult{Reservation: s.domainFor(view), AlreadyCancelled: true}, nil).Times(1)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.userID, s.role, view.ID).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		var body resdto.CancelReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.True(body.AlreadyCancelled)
		s.Nil(body.RefundID)
	})

	s.Run("error: 409 on completed reservation", func() {
		s.mockCommands.EXPECT().CancelReservation(gomock.Any(), view.ID, s.userID).
			Return(nil, errs.ErrInvalidTransition).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		httptest.AssertErrorCode(s.T(), rec, http.StatusConflict, api.CodeInvalidTransition)
	})
}

// ================================================================================
// TestComplete / TestPaymentFailed
// ================================================================================

func (s *ReservationHandlerTestSuite) TestComplete() {
	s.role = actor.RoleOperator
	view := builder.NewReservationBuilder().WithStatus(domreservation.StatusCompleted).BuildView()

	s.mockCommands.EXPECT().CompleteReservation(gomock.Any(), view.ID, s.userID).Return(s.domainFor(view), nil).Times(1)
	s.mockQueries.EXPECT().GetByID(gomock.Any(), s.userID, actor.RoleOperator, view.ID).Return(view, nil).Times(1)

	rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/reservations/"+view.ID.String()+"/complete", nil, "bearer-token")

	var body resdto.ReservationResponse
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
	s.Equal("completed", body.Status)
}

func (s *ReservationHandlerTestSuite) TestPaymentFailed() {
	s.role = actor.RoleAdmin
	view := builder.NewReservationBuilder().WithStatus(domreservation.StatusPaymentFailed).BuildView()
	url := "/reservations/" + view.ID.String() + "/payment-failed"

	s.Run("success: reservation moves to payment_failed", func() {
		s.mockCommands.EXPECT().RecordPaymentFailure(gomock.Any(), view.ID).Return(s.domainFor(view), nil).Times(1)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.userID, actor.RoleAdmin, view.ID).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		var body resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("payment_failed", body.Status)
	})

	s.Run("error: 404 on unknown reservation", func() {
		s.mockCommands.EXPECT().RecordPaymentFailure(gomock.Any(), view.ID).Return(nil, errs.ErrReservationNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		httptest.AssertErrorCode(s.T(), rec, http.StatusNotFound, api.CodeNotFound)
	})
}
