package shared

import (
	"context"

	"slot-capacity-engine/internal/domain/reservation"
)

type PaymentStatus string

const (
	PaymentSucceeded PaymentStatus = "succeeded"
	PaymentPending   PaymentStatus = "pending"
	PaymentFailed    PaymentStatus = "failed"
)

// PaymentGateway is the external payment collaborator. Implementations mark failures with errs.ErrPayment.
type PaymentGateway interface {
	CreatePaymentIntent(ctx context.Context, amountCents int64, metadata map[string]string) (string, error)
	GetPaymentStatus(ctx context.Context, ref string) (PaymentStatus, error)
	CreateRefund(ctx context.Context, ref string) (string, error)
}

// EventEmitter is fire-and-forget. Callers log a failed Emit and move on.
type EventEmitter interface {
	Emit(ctx context.Context, event reservation.Event) error
}
