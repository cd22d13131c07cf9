package components

import (
	"slot-capacity-engine/internal/handler"
	"slot-capacity-engine/internal/handler/api"
	"slot-capacity-engine/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewResourceHandler,
		api.NewReservationHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
