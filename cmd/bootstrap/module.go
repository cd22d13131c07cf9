package bootstrap

import (
	"slot-capacity-engine/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DBModule,
	JWTModule,
	MessagingModule,
	PaymentModule,
	components.PersistenceModule,
	components.UseCaseModule,
	ReaperModule,
	components.HandlerModule,
)
