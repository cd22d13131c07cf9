package bootstrap

import (
	"slot-capacity-engine/internal/infra/payment"
	"slot-capacity-engine/internal/pkg/config"
	"slot-capacity-engine/internal/usecase/shared"

	"go.uber.org/fx"
)

var PaymentModule = fx.Module("payment",
	fx.Provide(
		fx.Annotate(
			NewPaymentClient,
			fx.As(new(shared.PaymentGateway)),
		),
	),
)

func NewPaymentClient(cfg config.Config) *payment.Client {
	return payment.NewClient(cfg.Payment)
}
