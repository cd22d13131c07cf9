//go:build unit

package queries_test

import (
	"context"
	"testing"

	"slot-capacity-engine/internal/infra"
	"slot-capacity-engine/internal/pkg/errs"
	"slot-capacity-engine/internal/usecase/queries"
	queriesmock "slot-capacity-engine/tests/mock/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestResourceQueries_CheckConsistency(t *testing.T) {
	resourceID := uuid.New()
	view := &queries.ResourceView{ID: resourceID, Capacity: 10, Committed: 7, Available: 3, Version: 12}

	testCases := []struct {
		name      string
		held      int
		heldErr   error
		findErr   error
		expected  *queries.ConsistencyReport
		expectErr error
	}{
		{
			name:     "success: counters agree",
			held:     7,
			expected: &queries.ConsistencyReport{ResourceID: resourceID, Committed: 7, Held: 7, Version: 12, Consistent: true},
		},
		{
			name:     "success: drift reported",
			held:     5,
			expected: &queries.ConsistencyReport{ResourceID: resourceID, Committed: 7, Held: 5, Version: 12, Consistent: false},
		},
		{
			name:      "error: resource missing",
			findErr:   infra.WrapRepoErr("resource not found", errs.New("no rows"), infra.KindNotFound),
			expectErr: errs.ErrResourceNotFound,
		},
		{
			name:      "error: sum fails",
			heldErr:   infra.WrapRepoErr("failed to sum held quantity", errs.New("timeout")),
			expectErr: errs.ErrDatabaseOperationFailed,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := queriesmock.NewMockResourceReadStore(ctrl)
			held := queriesmock.NewMockHeldCounter(ctrl)

			if tc.findErr != nil {
				store.EXPECT().FindViewByID(gomock.Any(), resourceID).Return(nil, tc.findErr)
			} else {
				store.EXPECT().FindViewByID(gomock.Any(), resourceID).Return(view, nil)
				held.EXPECT().SumHeld(gomock.Any(), resourceID).Return(tc.held, tc.heldErr)
			}

			report, err := queries.NewResourceQueries(store, held).CheckConsistency(context.Background(), resourceID)

			if tc.expectErr != nil {
				require.Error(t, err)
				assert.True(t, errs.Is(err, tc.expectErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, report)
		})
	}
}

func TestResourceQueries_ListByOwner(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := queriesmock.NewMockResourceReadStore(ctrl)
	ownerID := uuid.New()
	views := []*queries.ResourceView{{ID: uuid.New(), OwnerID: ownerID}, {ID: uuid.New(), OwnerID: ownerID}}
	store.EXPECT().FindByOwner(gomock.Any(), ownerID).Return(views, nil)

	got, err := queries.NewResourceQueries(store, queriesmock.NewMockHeldCounter(ctrl)).ListByOwner(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Equal(t, views, got)
}
