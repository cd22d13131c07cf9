//go:build unit

package readstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"slot-capacity-engine/internal/domain/reservation"
	"slot-capacity-engine/internal/infra"
	"slot-capacity-engine/internal/infra/readstore"
	sqlc "slot-capacity-engine/internal/infra/sqlc/generated"
	"slot-capacity-engine/tests/common/builder"
	readstoremock "slot-capacity-engine/tests/mock/readstore"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var errDBConnectionLost = errors.New("database connection lost")

// =============================================================================
// FindViewByID Tests
// =============================================================================

func TestReservationReadStore_FindViewByID(t *testing.T) {
	ctx := context.Background()
	reservationID := uuid.New()

	testCases := []struct {
		name          string
		setupMock     func(*readstoremock.MockReservationReadQueries, uuid.UUID)
		expectedError bool
		expectKind    infra.RepositoryErrorKind
	}{
		{
			name: "success: reservation found",
			setupMock: func(mock *readstoremock.MockReservationReadQueries, id uuid.UUID) {
				row := sqlc.GetReservationViewByIDRow{
					ID:              id,
					ResourceID:      uuid.New(),
					ResourceName:    "Conference Room A",
					ResourceOwnerID: uuid.New(),
					RequesterID:     uuid.New(),
					Quantity:        3,
					Status:          "cancelled",
					AmountCents:     4500,
					PaymentRef:      pgtype.Text{String: "pi_123", Valid: true},
					CancelReason:    pgtype.Text{String: "owner", Valid: true},
					CreatedAt:       pgtype.Timestamptz{Time: time.Now(), Valid: true},
					CancelledAt:     pgtype.Timestamptz{Time: time.Now(), Valid: true},
					UpdatedAt:       pgtype.Timestamptz{Time: time.Now(), Valid: true},
				}
				mock.EXPECT().GetReservationViewByID(ctx, gomock.Any(), id).Return(row, nil)
			},
		},
		{
			name: "error: reservation not found",
			setupMock: func(mock *readstoremock.MockReservationReadQueries, id uuid.UUID) {
				mock.EXPECT().GetReservationViewByID(ctx, gomock.Any(), id).Return(sqlc.GetReservationViewByIDRow{}, pgx.ErrNoRows)
			},
			expectedError: true,
			expectKind:    infra.KindNotFound,
		},
		{
			name: "error: database error",
			setupMock: func(mock *readstoremock.MockReservationReadQueries, id uuid.UUID) {
				mock.EXPECT().GetReservationViewByID(ctx, gomock.Any(), id).Return(sqlc.GetReservationViewByIDRow{}, errDBConnectionLost)
			},
			expectedError: true,
			expectKind:    infra.KindDBFailure,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockQueries := readstoremock.NewMockReservationReadQueries(ctrl)
			store := readstore.NewReservationReadStore(mockQueries, &mockDBTX{})

			tc.setupMock(mockQueries, reservationID)

			result, actualError := store.FindViewByID(ctx, reservationID)

			if tc.expectedError {
				require.Error(t, actualError)
				assert.True(t, infra.IsKind(actualError, tc.expectKind), "expected kind [%v] but got [%T] (%v)", tc.expectKind, actualError, actualError)
				assert.Nil(t, result)
			} else {
				require.NoError(t, actualError)
				require.NotNil(t, result)
				assert.Equal(t, reservationID, result.ID)
				assert.Equal(t, 3, result.Quantity)
				require.NotNil(t, result.CancelReason)
				assert.Equal(t, "owner", *result.CancelReason)
				require.NotNil(t, result.CancelledAt)
				assert.Nil(t, result.ConfirmedAt)
			}
		})
	}
}

// =============================================================================
// FindByID Tests
// =============================================================================

func TestReservationReadStore_FindByID(t *testing.T) {
	ctx := context.Background()

	t.Run("success: row decoded into the aggregate", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockQueries := readstoremock.NewMockReservationReadQueries(ctrl)
		store := readstore.NewReservationReadStore(mockQueries, &mockDBTX{})

		row := builder.NewReservationBuilder().WithStatus(reservation.StatusConfirmed).WithQuantity(2).BuildInfra()
		mockQueries.EXPECT().GetReservationByID(ctx, gomock.Any(), row.ID).Return(row, nil)

		res, err := store.FindByID(ctx, row.ID)
		require.NoError(t, err)
		assert.Equal(t, row.ID, res.ID())
		assert.Equal(t, reservation.StatusConfirmed, res.Status())
		assert.Equal(t, 2, res.Quantity())
		assert.NotNil(t, res.ConfirmedAt())
	})

	t.Run("error: unknown status in row", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockQueries := readstoremock.NewMockReservationReadQueries(ctrl)
		store := readstore.NewReservationReadStore(mockQueries, &mockDBTX{})

		row := builder.NewReservationBuilder().BuildInfra()
		row.Status = "archived"
		mockQueries.EXPECT().GetReservationByID(ctx, gomock.Any(), row.ID).Return(row, nil)

		res, err := store.FindByID(ctx, row.ID)
		require.Error(t, err)
		assert.Nil(t, res)
		assert.ErrorIs(t, err, reservation.ErrInvalidStatus)
	})

	t.Run("error: not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockQueries := readstoremock.NewMockReservationReadQueries(ctrl)
		store := readstore.NewReservationReadStore(mockQueries, &mockDBTX{})

		id := uuid.New()
		mockQueries.EXPECT().GetReservationByID(ctx, gomock.Any(), id).Return(sqlc.Reservations{}, pgx.ErrNoRows)

		_, err := store.FindByID(ctx, id)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})
}

// =============================================================================
// Keyset Pagination Tests
// =============================================================================

func TestReservationReadStore_FindByRequesterKeyset(t *testing.T) {
	ctx := context.Background()
	requesterID := uuid.New()
	lastID := uuid.New()
	lastCreatedAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQueries := readstoremock.NewMockReservationReadQueries(ctrl)
	store := readstore.NewReservationReadStore(mockQueries, &mockDBTX{})

	mockQueries.EXPECT().ListReservationsByRequesterKeyset(ctx, gomock.Any(), sqlc.ListReservationsByRequesterKeysetParams{
		RequesterID: requesterID,
		CreatedAt:   pgtype.Timestamptz{Time: lastCreatedAt, Valid: true},
		ID:          lastID,
		Limit:       3,
	}).Return([]sqlc.ListReservationsByRequesterKeysetRow{
		{ID: uuid.New(), ResourceName: "Room B", Quantity: 1, Status: "confirmed", AmountCents: 1500,
			CreatedAt: pgtype.Timestamptz{Time: lastCreatedAt.Add(-time.Hour), Valid: true}},
		{ID: uuid.New(), ResourceName: "Room C", Quantity: 4, Status: "pending_hold", AmountCents: 6000,
			CreatedAt: pgtype.Timestamptz{Time: lastCreatedAt.Add(-2 * time.Hour), Valid: true}},
	}, nil)

	items, err := store.FindByRequesterKeyset(ctx, requesterID, lastCreatedAt, lastID, 3)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Room B", items[0].ResourceName)
	assert.Equal(t, 4, items[1].Quantity)
	assert.True(t, items[0].CreatedAt.After(items[1].CreatedAt))
}

// =============================================================================
// Reaper Support Tests
// =============================================================================

func TestReservationReadStore_FindStaleHolds(t *testing.T) {
	ctx := context.Background()
	cutoff := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	resourceID := uuid.New()

	testCases := []struct {
		name          string
		rows          []sqlc.ListStaleHoldsRow
		queryErr      error
		expectedCount int
		expectedError bool
	}{
		{
			name: "success: holds converted",
			rows: []sqlc.ListStaleHoldsRow{
				{ID: uuid.New(), ResourceID: resourceID, Quantity: 2, CreatedAt: pgtype.Timestamptz{Time: cutoff.Add(-10 * time.Minute), Valid: true}},
				{ID: uuid.New(), ResourceID: resourceID, Quantity: 1, CreatedAt: pgtype.Timestamptz{Time: cutoff.Add(-time.Minute), Valid: true}},
			},
			expectedCount: 2,
		},
		{
			name:          "success: nothing stale",
			rows:          []sqlc.ListStaleHoldsRow{},
			expectedCount: 0,
		},
		{
			name:          "error: database error",
			queryErr:      errDBConnectionLost,
			expectedError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockQueries := readstoremock.NewMockReservationReadQueries(ctrl)
			store := readstore.NewReservationReadStore(mockQueries, &mockDBTX{})

			mockQueries.EXPECT().ListStaleHolds(ctx, gomock.Any(), sqlc.ListStaleHoldsParams{
				Cutoff:     pgtype.Timestamptz{Time: cutoff, Valid: true},
				BatchLimit: 100,
			}).Return(tc.rows, tc.queryErr)

			holds, err := store.FindStaleHolds(ctx, cutoff, 100)

			if tc.expectedError {
				require.Error(t, err)
				assert.True(t, infra.IsKind(err, infra.KindDBFailure))
				return
			}
			require.NoError(t, err)
			require.Len(t, holds, tc.expectedCount)
			if tc.expectedCount > 0 {
				assert.Equal(t, 2, holds[0].Quantity)
				assert.Equal(t, resourceID, holds[0].ResourceID)
			}
		})
	}
}

// =============================================================================
// Test Helpers
// =============================================================================

type mockDBTX struct{}

func (m *mockDBTX) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (m *mockDBTX) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (m *mockDBTX) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
