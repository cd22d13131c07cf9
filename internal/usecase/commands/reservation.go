package commands

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"slot-capacity-engine/internal/domain/reservation"
	"slot-capacity-engine/internal/domain/resource"
	"slot-capacity-engine/internal/pkg/clock"
	"slot-capacity-engine/internal/pkg/errs"
	"slot-capacity-engine/internal/usecase/shared"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type CreateReservationInput struct {
	ResourceID  uuid.UUID `validate:"required"`
	RequesterID uuid.UUID `validate:"required"`
	Quantity    int       `validate:"required,min=1"`
}

type CreateReservationResult struct {
	Reservation *reservation.Reservation
}

// CancelResult.AlreadyCancelled is set when the call found the reservation
// cancelled and changed nothing.
type CancelResult struct {
	Reservation      *reservation.Reservation
	AlreadyCancelled bool
	RefundID         *string
}

type ReservationCommands interface {
	CreateReservation(ctx context.Context, in CreateReservationInput) (*CreateReservationResult, error)
	ConfirmReservation(ctx context.Context, reservationID, requesterID uuid.UUID) (*reservation.Reservation, error)
	RecordPaymentFailure(ctx context.Context, reservationID uuid.UUID) (*reservation.Reservation, error)
	CancelReservation(ctx context.Context, reservationID, actorID uuid.UUID) (*CancelResult, error)
	CompleteReservation(ctx context.Context, reservationID, ownerID uuid.UUID) (*reservation.Reservation, error)
}

type reservationUseCaseImpl struct {
	uow      shared.UnitOfWork
	payment  shared.PaymentGateway
	emitter  shared.EventEmitter
	retry    *shared.Coordinator
	clock    clock.Clock
	validate *validator.Validate
	logger   *slog.Logger
}

func NewReservationUseCase(
	uow shared.UnitOfWork,
	payment shared.PaymentGateway,
	emitter shared.EventEmitter,
	retry *shared.Coordinator,
	clk clock.Clock,
	validate *validator.Validate,
	logger *slog.Logger,
) ReservationCommands {
	return &reservationUseCaseImpl{
		uow:      uow,
		payment:  payment,
		emitter:  emitter,
		retry:    retry,
		clock:    clk,
		validate: validate,
		logger:   logger,
	}
}

func (uc *reservationUseCaseImpl) CreateReservation(ctx context.Context, in CreateReservationInput) (*CreateReservationResult, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, validationErr(err)
	}
	quantity, err := reservation.NewQuantity(in.Quantity)
	if err != nil {
		return nil, validationErr(err)
	}

	res, err := loadResource(ctx, uc.uow.CommandReads(), in.ResourceID)
	if err != nil {
		return nil, err
	}
	// Fast path: a full resource is rejected without touching the store.
	if err := res.CheckAdjust(quantity.Int()); err != nil {
		return nil, capacityExceeded(err)
	}

	amount, err := reservation.NewMoney(res.PriceFor(quantity.Int()))
	if err != nil {
		return nil, validationErr(err)
	}

	paymentRef, err := uc.openPaymentIntent(ctx, res, in, amount)
	if err != nil {
		return nil, err
	}

	var created *reservation.Reservation
	err = uc.retry.Do(ctx, func(ctx context.Context, attempt int) error {
		return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			current, err := loadResource(ctx, tx.Reads(), in.ResourceID)
			if err != nil {
				return err
			}
			if err := current.CheckAdjust(quantity.Int()); err != nil {
				return capacityExceeded(err)
			}

			if _, err := tx.Resources().TryAdjust(ctx, tx.DB(), current.ID(), quantity.Int(), current.Version()); err != nil {
				if errs.Is(err, errs.ErrCapacity) {
					return capacityExceeded(err)
				}
				return storeErr(err, errs.ErrResourceNotFound)
			}

			r, err := reservation.NewReservation(current.ID(), in.RequesterID, quantity, amount, paymentRef, uc.clock.Now())
			if err != nil {
				return validationErr(err)
			}
			if _, err := tx.Reservations().Create(ctx, tx.DB(), r); err != nil {
				return storeErr(err, errs.ErrResourceNotFound)
			}

			created = r
			return nil
		})
	})
	if err != nil {
		if paymentRef != nil {
			uc.logger.Warn("payment intent left unused",
				"payment_ref", *paymentRef,
				"resource_id", in.ResourceID,
				"error", err.Error())
		}
		return nil, err
	}

	uc.logger.Info("reservation held",
		"reservation_id", created.ID(),
		"resource_id", created.ResourceID(),
		"quantity", created.Quantity())
	uc.emit(ctx, reservation.NewCreated(created))

	return &CreateReservationResult{Reservation: created}, nil
}

// openPaymentIntent runs before any capacity write so a gateway failure has no side effect.
func (uc *reservationUseCaseImpl) openPaymentIntent(
	ctx context.Context,
	res *resource.Resource,
	in CreateReservationInput,
	amount reservation.Money,
) (*string, error) {
	if amount.IsZero() {
		return nil, nil
	}

	ref, err := uc.payment.CreatePaymentIntent(ctx, amount.Cents(), map[string]string{
		"resource_id":  res.ID().String(),
		"requester_id": in.RequesterID.String(),
		"quantity":     strconv.Itoa(in.Quantity),
	})
	if err != nil {
		return nil, paymentErr(err, "failed to create payment intent")
	}
	return &ref, nil
}

func (uc *reservationUseCaseImpl) ConfirmReservation(ctx context.Context, reservationID, requesterID uuid.UUID) (*reservation.Reservation, error) {
	r, err := loadReservation(ctx, uc.uow.CommandReads(), reservationID)
	if err != nil {
		return nil, err
	}
	if !r.IsRequestedBy(requesterID) {
		return nil, notPermitted("reservation %s does not belong to %s", reservationID, requesterID)
	}
	if _, err := reservation.Transition(r.Status(), reservation.StatusConfirmed); err != nil {
		return nil, err
	}

	if r.HasPayment() {
		ref := *r.PaymentRef()
		status, err := uc.payment.GetPaymentStatus(ctx, ref)
		if err != nil {
			return nil, paymentErr(err, "failed to read payment status")
		}

		switch status {
		case shared.PaymentSucceeded:
		case shared.PaymentPending:
			return nil, errs.Mark(errs.Newf("payment %s is still pending", ref), errs.ErrPaymentNotCompleted)
		case shared.PaymentFailed:
			if _, err := uc.RecordPaymentFailure(ctx, reservationID); err != nil {
				return nil, err
			}
			return nil, errs.Mark(errs.Newf("payment %s failed", ref), errs.ErrPaymentNotCompleted)
		default:
			return nil, errs.Mark(errs.Newf("unknown payment status %q", status), errs.ErrPayment)
		}
	}

	confirmed, err := uc.changeStatus(ctx, reservationID, func(r *reservation.Reservation, now time.Time) error {
		return r.Confirm(now)
	})
	if err != nil {
		return nil, err
	}

	uc.emit(ctx, reservation.NewConfirmed(confirmed))
	return confirmed, nil
}

func (uc *reservationUseCaseImpl) RecordPaymentFailure(ctx context.Context, reservationID uuid.UUID) (*reservation.Reservation, error) {
	failed, err := uc.changeStatus(ctx, reservationID, func(r *reservation.Reservation, now time.Time) error {
		return r.MarkPaymentFailed(now)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("payment failed, hold kept",
		"reservation_id", failed.ID(),
		"quantity", failed.Quantity())
	uc.emit(ctx, reservation.NewPaymentFailed(failed))
	return failed, nil
}

func (uc *reservationUseCaseImpl) CancelReservation(ctx context.Context, reservationID, actorID uuid.UUID) (*CancelResult, error) {
	r, err := loadReservation(ctx, uc.uow.CommandReads(), reservationID)
	if err != nil {
		return nil, err
	}

	reason := reservation.CancelByRequester
	if !r.IsRequestedBy(actorID) {
		owner, err := loadResource(ctx, uc.uow.CommandReads(), r.ResourceID())
		if err != nil {
			return nil, err
		}
		if !owner.IsOwnedBy(actorID) {
			return nil, notPermitted("actor %s may not cancel reservation %s", actorID, reservationID)
		}
		reason = reservation.CancelByOwner
	}

	if r.Status() == reservation.StatusCancelled {
		return &CancelResult{Reservation: r, AlreadyCancelled: true}, nil
	}
	if _, err := reservation.Transition(r.Status(), reservation.StatusCancelled); err != nil {
		return nil, err
	}

	refundID, err := uc.refund(ctx, r)
	if err != nil {
		return nil, err
	}

	var (
		cancelled        *reservation.Reservation
		released         int
		alreadyCancelled bool
	)
	err = uc.retry.Do(ctx, func(ctx context.Context, attempt int) error {
		return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			current, err := loadReservation(ctx, tx.Reads(), reservationID)
			if err != nil {
				return err
			}
			if current.Status() == reservation.StatusCancelled {
				cancelled, released, alreadyCancelled = current, 0, true
				return nil
			}

			from := current.Status()
			effect, err := current.Cancel(reason, uc.clock.Now())
			if err != nil {
				return err
			}

			delta := effect.Delta(current.Quantity())
			if delta != 0 {
				res, err := loadResource(ctx, tx.Reads(), current.ResourceID())
				if err != nil {
					return err
				}
				if _, err := tx.Resources().TryAdjust(ctx, tx.DB(), res.ID(), delta, res.Version()); err != nil {
					return storeErr(err, errs.ErrResourceNotFound)
				}
			}

			if err := tx.Reservations().UpdateStatus(ctx, tx.DB(), current, from); err != nil {
				return storeErr(err, errs.ErrReservationNotFound)
			}

			cancelled, released, alreadyCancelled = current, -delta, false
			return nil
		})
	})
	if err != nil {
		if refundID != nil {
			uc.logger.Warn("refund issued but reservation still holds capacity",
				"refund_id", *refundID,
				"reservation_id", reservationID,
				"error", err.Error())
		}
		return nil, err
	}

	if alreadyCancelled {
		return &CancelResult{Reservation: cancelled, AlreadyCancelled: true, RefundID: refundID}, nil
	}

	uc.logger.Info("reservation cancelled",
		"reservation_id", cancelled.ID(),
		"reason", reason.String(),
		"released", released)
	uc.emit(ctx, reservation.NewCancelled(cancelled, released, refundID))

	return &CancelResult{Reservation: cancelled, RefundID: refundID}, nil
}

// refund asks the gateway to return collected money. A hold whose payment failed has nothing to refund.
func (uc *reservationUseCaseImpl) refund(ctx context.Context, r *reservation.Reservation) (*string, error) {
	if !r.HasPayment() || r.Status() == reservation.StatusPaymentFailed {
		return nil, nil
	}

	refundID, err := uc.payment.CreateRefund(ctx, *r.PaymentRef())
	if err != nil {
		return nil, paymentErr(err, "failed to create refund")
	}
	return &refundID, nil
}

func (uc *reservationUseCaseImpl) CompleteReservation(ctx context.Context, reservationID, ownerID uuid.UUID) (*reservation.Reservation, error) {
	r, err := loadReservation(ctx, uc.uow.CommandReads(), reservationID)
	if err != nil {
		return nil, err
	}
	res, err := loadResource(ctx, uc.uow.CommandReads(), r.ResourceID())
	if err != nil {
		return nil, err
	}
	if !res.IsOwnedBy(ownerID) {
		return nil, notPermitted("actor %s does not own resource %s", ownerID, res.ID())
	}

	completed, err := uc.changeStatus(ctx, reservationID, func(r *reservation.Reservation, now time.Time) error {
		return r.Complete(now)
	})
	if err != nil {
		return nil, err
	}

	uc.emit(ctx, reservation.NewCompleted(completed))
	return completed, nil
}

// changeStatus applies a transition with no capacity effect. The status write is
// compare-and-set on the status read in the same attempt.
func (uc *reservationUseCaseImpl) changeStatus(
	ctx context.Context,
	reservationID uuid.UUID,
	apply func(r *reservation.Reservation, now time.Time) error,
) (*reservation.Reservation, error) {
	var updated *reservation.Reservation
	err := uc.retry.Do(ctx, func(ctx context.Context, attempt int) error {
		return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			r, err := loadReservation(ctx, tx.Reads(), reservationID)
			if err != nil {
				return err
			}

			from := r.Status()
			if err := apply(r, uc.clock.Now()); err != nil {
				return err
			}
			if err := tx.Reservations().UpdateStatus(ctx, tx.DB(), r, from); err != nil {
				return storeErr(err, errs.ErrReservationNotFound)
			}

			updated = r
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (uc *reservationUseCaseImpl) emit(ctx context.Context, event reservation.Event) {
	if err := uc.emitter.Emit(ctx, event); err != nil {
		uc.logger.Warn("failed to emit reservation event",
			"event_type", string(event.Type()),
			"reservation_id", event.ReservationID(),
			"error", err.Error())
	}
}

func loadResource(ctx context.Context, reads shared.CommandReads, id uuid.UUID) (*resource.Resource, error) {
	res, err := reads.ResourceByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, errs.ErrResourceNotFound)
	}
	return res, nil
}

func loadReservation(ctx context.Context, reads shared.CommandReads, id uuid.UUID) (*reservation.Reservation, error) {
	r, err := reads.ReservationByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, errs.ErrReservationNotFound)
	}
	return r, nil
}
