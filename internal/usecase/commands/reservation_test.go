//go:build unit

package commands_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"slot-capacity-engine/internal/domain/reservation"
	"slot-capacity-engine/internal/domain/resource"
	"slot-capacity-engine/internal/infra"
	"slot-capacity-engine/internal/pkg/clock"
	"slot-capacity-engine/internal/pkg/errs"
	"slot-capacity-engine/internal/usecase/commands"
	"slot-capacity-engine/internal/usecase/shared"
	"slot-capacity-engine/tests/common/builder"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	uow     *memUoW
	payment *fakePayment
	emitter *fakeEmitter
	clock   *clock.MockClock
	retry   *shared.Coordinator
	cmds    commands.ReservationCommands
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		uow:     newMemUoW(),
		payment: &fakePayment{},
		emitter: &fakeEmitter{},
		clock:   clock.NewMockClock(baseTime),
	}
	logger := slog.New(slog.DiscardHandler)
	f.retry = shared.NewCoordinator(
		shared.WithSleep(func(context.Context, time.Duration) error { return nil }),
		shared.WithRetryLogger(logger),
	)
	f.cmds = commands.NewReservationUseCase(
		f.uow, f.payment, f.emitter, f.retry, f.clock,
		validator.New(validator.WithRequiredStructEnabled()), logger,
	)
	return f
}

// captureLogs rebuilds the use case with a JSON logger writing into the returned buffer.
func (f *fixture) captureLogs() *bytes.Buffer {
	buf := &bytes.Buffer{}
	f.cmds = commands.NewReservationUseCase(
		f.uow, f.payment, f.emitter, f.retry, f.clock,
		validator.New(validator.WithRequiredStructEnabled()), slog.New(slog.NewJSONHandler(buf, nil)),
	)
	return buf
}

func (f *fixture) seedResource(capacity, committed int, priceCents int64) *resource.Resource {
	res := builder.NewResourceBuilder().
		WithCapacity(capacity).
		WithCommitted(committed).
		WithUnitPrice(priceCents).
		BuildDomain()
	f.uow.seedResource(res)
	return res
}

func (f *fixture) seedReservation(t *testing.T, b *builder.ReservationBuilder) *reservation.Reservation {
	t.Helper()
	r, err := b.BuildDomain()
	require.NoError(t, err)
	f.uow.seedReservation(r)
	return r
}

func assertInvariant(t *testing.T, f *fixture, resourceID uuid.UUID) {
	t.Helper()
	row := f.uow.resource(resourceID)
	assert.Equal(t, f.uow.heldSum(resourceID), row.committed, "committed must equal the held quantities")
	assert.GreaterOrEqual(t, row.committed, 0)
	assert.LessOrEqual(t, row.committed, row.capacity)
}

// =============================================================================
// CreateReservation Tests
// =============================================================================

func TestCreateReservation(t *testing.T) {
	ctx := context.Background()

	t.Run("success: hold placed and priced", func(t *testing.T) {
		f := newFixture(t)
		res := f.seedResource(10, 0, 1500)
		requester := uuid.New()

		result, err := f.cmds.CreateReservation(ctx, commands.CreateReservationInput{
			ResourceID: res.ID(), RequesterID: requester, Quantity: 2,
		})
		require.NoError(t, err)

		r := result.Reservation
		assert.Equal(t, reservation.StatusPendingHold, r.Status())
		assert.Equal(t, 2, r.Quantity())
		assert.Equal(t, int64(3000), r.Amount().Cents())
		require.NotNil(t, r.PaymentRef())
		assert.Equal(t, []int64{3000}, f.payment.intents)

		row := f.uow.resource(res.ID())
		assert.Equal(t, 2, row.committed)
		assert.Equal(t, int64(1), row.version)
		assertInvariant(t, f, res.ID())
		assert.Equal(t, []reservation.EventType{reservation.EventCreated}, f.emitter.types())
	})

	t.Run("success: free resource skips the payment intent", func(t *testing.T) {
		f := newFixture(t)
		res := f.seedResource(3, 0, 0)

		result, err := f.cmds.CreateReservation(ctx, commands.CreateReservationInput{
			ResourceID: res.ID(), RequesterID: uuid.New(), Quantity: 1,
		})
		require.NoError(t, err)
		assert.Nil(t, result.Reservation.PaymentRef())
		assert.Empty(t, f.payment.intents)
	})

	t.Run("error: full resource rejected before touching the store", func(t *testing.T) {
		f := newFixture(t)
		res := f.seedResource(10, 10, 1500)

		_, err := f.cmds.CreateReservation(ctx, commands.CreateReservationInput{
			ResourceID: res.ID(), RequesterID: uuid.New(), Quantity: 1,
		})
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.ErrCapacityExceeded))
		assert.Equal(t, 0, f.uow.adjustCalls)
		assert.Empty(t, f.payment.intents)
		assert.Empty(t, f.emitter.types())
	})

	t.Run("error: quantity larger than what is left", func(t *testing.T) {
		f := newFixture(t)
		res := f.seedResource(5, 3, 0)

		_, err := f.cmds.CreateReservation(ctx, commands.CreateReservationInput{
			ResourceID: res.ID(), RequesterID: uuid.New(), Quantity: 3,
		})
		assert.True(t, errs.Is(err, errs.ErrCapacityExceeded))
		assert.Equal(t, 3, f.uow.resource(res.ID()).committed)
	})

	t.Run("error: unknown resource", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.cmds.CreateReservation(ctx, commands.CreateReservationInput{
			ResourceID: uuid.New(), RequesterID: uuid.New(), Quantity: 1,
		})
		assert.True(t, errs.Is(err, errs.ErrResourceNotFound))
	})

	t.Run("error: zero quantity", func(t *testing.T) {
		f := newFixture(t)
		res := f.seedResource(5, 0, 0)

		_, err := f.cmds.CreateReservation(ctx, commands.CreateReservationInput{
			ResourceID: res.ID(), RequesterID: uuid.New(), Quantity: 0,
		})
		assert.True(t, errs.Is(err, errs.ErrDomainValidation))
	})

	t.Run("error: payment gateway down leaves capacity untouched", func(t *testing.T) {
		f := newFixture(t)
		f.payment.intentErr = errors.New("gateway timeout")
		res := f.seedResource(5, 0, 1000)

		_, err := f.cmds.CreateReservation(ctx, commands.CreateReservationInput{
			ResourceID: res.ID(), RequesterID: uuid.New(), Quantity: 1,
		})
		assert.True(t, errs.Is(err, errs.ErrPayment))
		assert.Equal(t, 0, f.uow.resource(res.ID()).committed)
		assert.Equal(t, 0, f.uow.reservationCount())
	})

	t.Run("success: version conflicts retried until the store accepts", func(t *testing.T) {
		f := newFixture(t)
		res := f.seedResource(5, 0, 0)
		f.uow.conflicts = 2

		_, err := f.cmds.CreateReservation(ctx, commands.CreateReservationInput{
			ResourceID: res.ID(), RequesterID: uuid.New(), Quantity: 1,
		})
		require.NoError(t, err)
		assert.Equal(t, 3, f.uow.adjustCalls)
		assert.Equal(t, 1, f.uow.resource(res.ID()).committed)
		assertInvariant(t, f, res.ID())
	})

	t.Run("error: retries exhausted surface as concurrency error", func(t *testing.T) {
		f := newFixture(t)
		res := f.seedResource(5, 0, 0)
		f.uow.conflicts = f.retry.MaxAttempts()

		_, err := f.cmds.CreateReservation(ctx, commands.CreateReservationInput{
			ResourceID: res.ID(), RequesterID: uuid.New(), Quantity: 1,
		})
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.ErrConcurrency))
		assert.Equal(t, 0, f.uow.resource(res.ID()).committed)
		assert.Equal(t, 0, f.uow.reservationCount())
		assert.Empty(t, f.emitter.types())
	})

	t.Run("success: emitter failure does not undo the hold", func(t *testing.T) {
		f := newFixture(t)
		f.emitter.err = errors.New("broker unavailable")
		res := f.seedResource(5, 0, 0)

		result, err := f.cmds.CreateReservation(ctx, commands.CreateReservationInput{
			ResourceID: res.ID(), RequesterID: uuid.New(), Quantity: 1,
		})
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusPendingHold, result.Reservation.Status())
		assert.Equal(t, 1, f.uow.resource(res.ID()).committed)
	})
}

func TestCreateReservation_Concurrent(t *testing.T) {
	ctx := context.Background()

	t.Run("last unit: exactly one winner", func(t *testing.T) {
		f := newFixture(t)
		res := f.seedResource(1, 0, 0)

		var wg sync.WaitGroup
		errCh := make(chan error, 2)
		for range 2 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := f.cmds.CreateReservation(ctx, commands.CreateReservationInput{
					ResourceID: res.ID(), RequesterID: uuid.New(), Quantity: 1,
				})
				errCh <- err
			}()
		}
		wg.Wait()
		close(errCh)

		var succeeded, exceeded int
		for err := range errCh {
			switch {
			case err == nil:
				succeeded++
			case errs.Is(err, errs.ErrCapacityExceeded):
				exceeded++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		assert.Equal(t, 1, succeeded)
		assert.Equal(t, 1, exceeded)
		assert.Equal(t, 1, f.uow.resource(res.ID()).committed)
		assertInvariant(t, f, res.ID())
	})

	t.Run("many requesters never oversell", func(t *testing.T) {
		f := newFixture(t)
		res := f.seedResource(5, 0, 0)

		var wg sync.WaitGroup
		var mu sync.Mutex
		succeeded := 0
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := f.cmds.CreateReservation(ctx, commands.CreateReservationInput{
					ResourceID: res.ID(), RequesterID: uuid.New(), Quantity: 1,
				})
				if err == nil {
					mu.Lock()
					succeeded++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 5, succeeded)
		assert.Equal(t, 5, f.uow.resource(res.ID()).committed)
		assertInvariant(t, f, res.ID())
	})
}

// =============================================================================
// CancelReservation Tests
// =============================================================================

func TestCancelReservation(t *testing.T) {
	ctx := context.Background()

	seedFull := func(t *testing.T, f *fixture) (*resource.Resource, *reservation.Reservation) {
		res := builder.NewResourceBuilder().WithCapacity(10).WithCommitted(10).WithVersion(4).BuildDomain()
		f.uow.seedResource(res)
		f.seedReservation(t, builder.NewReservationBuilder().WithResource(res.ID()).
			WithQuantity(7).WithStatus(reservation.StatusConfirmed))
		target := f.seedReservation(t, builder.NewReservationBuilder().WithResource(res.ID()).
			WithQuantity(3).WithPaymentRef("pi_42").WithStatus(reservation.StatusConfirmed))
		return res, target
	}

	t.Run("success: full resource releases the quantity", func(t *testing.T) {
		f := newFixture(t)
		res, target := seedFull(t, f)

		result, err := f.cmds.CancelReservation(ctx, target.ID(), target.RequesterID())
		require.NoError(t, err)
		assert.False(t, result.AlreadyCancelled)
		assert.Equal(t, reservation.StatusCancelled, result.Reservation.Status())
		require.NotNil(t, result.RefundID)

		row := f.uow.resource(res.ID())
		assert.Equal(t, 7, row.committed)
		assert.Equal(t, int64(5), row.version)
		assert.Equal(t, reservation.StatusCancelled, f.uow.reservation(target.ID()).Status)
		assertInvariant(t, f, res.ID())

		require.Len(t, f.emitter.events, 1)
		cancelled, ok := f.emitter.events[0].(reservation.Cancelled)
		require.True(t, ok)
		assert.Equal(t, 3, cancelled.Released)
		assert.Equal(t, reservation.CancelByRequester, cancelled.Reason)
	})

	t.Run("success: second cancel is a no-op", func(t *testing.T) {
		f := newFixture(t)
		res, target := seedFull(t, f)

		_, err := f.cmds.CancelReservation(ctx, target.ID(), target.RequesterID())
		require.NoError(t, err)

		again, err := f.cmds.CancelReservation(ctx, target.ID(), target.RequesterID())
		require.NoError(t, err)
		assert.True(t, again.AlreadyCancelled)
		assert.Equal(t, 7, f.uow.resource(res.ID()).committed)
		assert.Equal(t, 1, f.payment.refundCount())
		assert.Len(t, f.emitter.events, 1)
	})

	t.Run("success: resource owner may cancel", func(t *testing.T) {
		f := newFixture(t)
		res, target := seedFull(t, f)

		result, err := f.cmds.CancelReservation(ctx, target.ID(), res.OwnerID())
		require.NoError(t, err)
		require.NotNil(t, result.Reservation.CancelReason())
		assert.Equal(t, reservation.CancelByOwner, *result.Reservation.CancelReason())
	})

	t.Run("success: payment failed hold released without refund", func(t *testing.T) {
		f := newFixture(t)
		res := f.seedResource(4, 2, 500)
		target := f.seedReservation(t, builder.NewReservationBuilder().WithResource(res.ID()).
			WithQuantity(2).WithPaymentRef("pi_7").WithStatus(reservation.StatusPaymentFailed))

		_, err := f.cmds.CancelReservation(ctx, target.ID(), target.RequesterID())
		require.NoError(t, err)
		assert.Equal(t, 0, f.payment.refundCount())
		assert.Equal(t, 0, f.uow.resource(res.ID()).committed)
	})

	t.Run("error: stranger may not cancel", func(t *testing.T) {
		f := newFixture(t)
		res, target := seedFull(t, f)

		_, err := f.cmds.CancelReservation(ctx, target.ID(), uuid.New())
		assert.True(t, errs.Is(err, errs.ErrNotPermitted))
		assert.Equal(t, 10, f.uow.resource(res.ID()).committed)
	})

	t.Run("error: completed reservation cannot be cancelled", func(t *testing.T) {
		f := newFixture(t)
		res := f.seedResource(5, 0, 0)
		target := f.seedReservation(t, builder.NewReservationBuilder().WithResource(res.ID()).
			WithStatus(reservation.StatusCompleted))

		_, err := f.cmds.CancelReservation(ctx, target.ID(), target.RequesterID())
		assert.True(t, errs.Is(err, errs.ErrInvalidTransition))
	})

	t.Run("error: refund failure changes nothing", func(t *testing.T) {
		f := newFixture(t)
		f.payment.refundErr = errors.New("refund rejected")
		res, target := seedFull(t, f)

		_, err := f.cmds.CancelReservation(ctx, target.ID(), target.RequesterID())
		assert.True(t, errs.Is(err, errs.ErrPayment))
		assert.Equal(t, 10, f.uow.resource(res.ID()).committed)
		assert.Equal(t, reservation.StatusConfirmed, f.uow.reservation(target.ID()).Status)
	})

	t.Run("error: status write failure rolls back the release", func(t *testing.T) {
		f := newFixture(t)
		logs := f.captureLogs()
		f.uow.failUpdateStatus = infra.WrapRepoErr("failed to update reservation status", errors.New("connection reset"))
		res, target := seedFull(t, f)

		_, err := f.cmds.CancelReservation(ctx, target.ID(), target.RequesterID())
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.ErrDatabaseOperationFailed), "got %v", err)

		assert.Equal(t, 1, f.uow.adjustCalls)
		row := f.uow.resource(res.ID())
		assert.Equal(t, 10, row.committed)
		assert.Equal(t, int64(4), row.version)
		assert.Equal(t, reservation.StatusConfirmed, f.uow.reservation(target.ID()).Status)
		assertInvariant(t, f, res.ID())
		assert.Empty(t, f.emitter.events)

		assert.Equal(t, 1, f.payment.refundCount())
		assert.Contains(t, logs.String(), "refund issued but reservation still holds capacity")
		assert.Contains(t, logs.String(), `"refund_id":"re_pi_42"`)
	})

	t.Run("error: retries exhausted after refund", func(t *testing.T) {
		f := newFixture(t)
		logs := f.captureLogs()
		f.uow.conflicts = 10
		res, target := seedFull(t, f)

		_, err := f.cmds.CancelReservation(ctx, target.ID(), target.RequesterID())
		assert.True(t, errs.Is(err, errs.ErrConcurrency), "got %v", err)

		row := f.uow.resource(res.ID())
		assert.Equal(t, 10, row.committed)
		assert.Equal(t, int64(4), row.version)
		assert.Equal(t, reservation.StatusConfirmed, f.uow.reservation(target.ID()).Status)
		assert.Contains(t, logs.String(), `"refund_id":"re_pi_42"`)
	})

	t.Run("error: unknown reservation", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.cmds.CancelReservation(ctx, uuid.New(), uuid.New())
		assert.True(t, errs.Is(err, errs.ErrReservationNotFound))
	})
}

// =============================================================================
// ConfirmReservation Tests
// =============================================================================

func TestConfirmReservation(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name          string
		status        shared.PaymentStatus
		statusErr     error
		wantErr       error
		wantStatus    reservation.Status
		wantEvents    []reservation.EventType
		wantCommitted int
	}{
		{
			name:          "success: payment settled",
			status:        shared.PaymentSucceeded,
			wantStatus:    reservation.StatusConfirmed,
			wantEvents:    []reservation.EventType{reservation.EventConfirmed},
			wantCommitted: 2,
		},
		{
			name:          "error: payment still pending",
			status:        shared.PaymentPending,
			wantErr:       errs.ErrPaymentNotCompleted,
			wantStatus:    reservation.StatusPendingHold,
			wantEvents:    []reservation.EventType{},
			wantCommitted: 2,
		},
		{
			name:          "error: payment failed keeps the hold",
			status:        shared.PaymentFailed,
			wantErr:       errs.ErrPaymentNotCompleted,
			wantStatus:    reservation.StatusPaymentFailed,
			wantEvents:    []reservation.EventType{reservation.EventPaymentFailed},
			wantCommitted: 2,
		},
		{
			name:          "error: gateway unreachable",
			statusErr:     errors.New("connection refused"),
			wantErr:       errs.ErrPayment,
			wantStatus:    reservation.StatusPendingHold,
			wantEvents:    []reservation.EventType{},
			wantCommitted: 2,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.payment.status = tc.status
			f.payment.statusErr = tc.statusErr
			res := f.seedResource(5, 2, 1000)
			target := f.seedReservation(t, builder.NewReservationBuilder().WithResource(res.ID()).
				WithQuantity(2).WithPaymentRef("pi_1"))

			confirmed, err := f.cmds.ConfirmReservation(ctx, target.ID(), target.RequesterID())

			if tc.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errs.Is(err, tc.wantErr), "got %v", err)
				assert.Nil(t, confirmed)
			} else {
				require.NoError(t, err)
				require.NotNil(t, confirmed.ConfirmedAt())
			}
			assert.Equal(t, tc.wantStatus, f.uow.reservation(target.ID()).Status)
			assert.Equal(t, tc.wantEvents, f.emitter.types())
			assert.Equal(t, tc.wantCommitted, f.uow.resource(res.ID()).committed)
			assertInvariant(t, f, res.ID())
		})
	}

	t.Run("success: free reservation confirms without the gateway", func(t *testing.T) {
		f := newFixture(t)
		f.payment.statusErr = errors.New("must not be called")
		res := f.seedResource(5, 1, 0)
		target := f.seedReservation(t, builder.NewReservationBuilder().WithResource(res.ID()))

		confirmed, err := f.cmds.ConfirmReservation(ctx, target.ID(), target.RequesterID())
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusConfirmed, confirmed.Status())
	})

	t.Run("error: someone else's reservation", func(t *testing.T) {
		f := newFixture(t)
		res := f.seedResource(5, 1, 0)
		target := f.seedReservation(t, builder.NewReservationBuilder().WithResource(res.ID()))

		_, err := f.cmds.ConfirmReservation(ctx, target.ID(), uuid.New())
		assert.True(t, errs.Is(err, errs.ErrNotPermitted))
	})

	t.Run("error: already confirmed", func(t *testing.T) {
		f := newFixture(t)
		res := f.seedResource(5, 1, 0)
		target := f.seedReservation(t, builder.NewReservationBuilder().WithResource(res.ID()).
			WithStatus(reservation.StatusConfirmed))

		_, err := f.cmds.ConfirmReservation(ctx, target.ID(), target.RequesterID())
		assert.True(t, errs.Is(err, errs.ErrInvalidTransition))
	})
}

// =============================================================================
// RecordPaymentFailure / CompleteReservation Tests
// =============================================================================

func TestRecordPaymentFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	res := f.seedResource(5, 2, 1000)
	target := f.seedReservation(t, builder.NewReservationBuilder().WithResource(res.ID()).
		WithQuantity(2).WithPaymentRef("pi_3"))

	failed, err := f.cmds.RecordPaymentFailure(ctx, target.ID())
	require.NoError(t, err)
	assert.Equal(t, reservation.StatusPaymentFailed, failed.Status())
	assert.Equal(t, 2, f.uow.resource(res.ID()).committed)
	assertInvariant(t, f, res.ID())

	_, err = f.cmds.RecordPaymentFailure(ctx, target.ID())
	assert.True(t, errs.Is(err, errs.ErrInvalidTransition))
}

func TestCompleteReservation(t *testing.T) {
	ctx := context.Background()

	t.Run("success: owner completes a confirmed reservation", func(t *testing.T) {
		f := newFixture(t)
		res := f.seedResource(5, 1, 0)
		target := f.seedReservation(t, builder.NewReservationBuilder().WithResource(res.ID()).
			WithStatus(reservation.StatusConfirmed))

		completed, err := f.cmds.CompleteReservation(ctx, target.ID(), res.OwnerID())
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusCompleted, completed.Status())
		assert.Equal(t, []reservation.EventType{reservation.EventCompleted}, f.emitter.types())
		assert.Equal(t, 1, f.uow.resource(res.ID()).committed, "completed reservations keep their units")
		assertInvariant(t, f, res.ID())
	})

	t.Run("error: requester is not the owner", func(t *testing.T) {
		f := newFixture(t)
		res := f.seedResource(5, 1, 0)
		target := f.seedReservation(t, builder.NewReservationBuilder().WithResource(res.ID()).
			WithStatus(reservation.StatusConfirmed))

		_, err := f.cmds.CompleteReservation(ctx, target.ID(), target.RequesterID())
		assert.True(t, errs.Is(err, errs.ErrNotPermitted))
	})

	t.Run("error: hold not confirmed yet", func(t *testing.T) {
		f := newFixture(t)
		res := f.seedResource(5, 1, 0)
		target := f.seedReservation(t, builder.NewReservationBuilder().WithResource(res.ID()))

		_, err := f.cmds.CompleteReservation(ctx, target.ID(), res.OwnerID())
		assert.True(t, errs.Is(err, errs.ErrInvalidTransition))
		assert.Equal(t, reservation.StatusPendingHold, f.uow.reservation(target.ID()).Status)
	})
}
