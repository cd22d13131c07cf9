package components

import (
	"slot-capacity-engine/internal/pkg/clock"
	"slot-capacity-engine/internal/usecase"
	"slot-capacity-engine/internal/usecase/commands"
	"slot-capacity-engine/internal/usecase/queries"
	"slot-capacity-engine/internal/usecase/shared"

	"github.com/go-playground/validator/v10"
	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	shared.NewCoordinatorFromConfig,
	func() *validator.Validate {
		return validator.New(validator.WithRequiredStructEnabled())
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewReservationUseCase,
		commands.NewResourceUseCase,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewReservationQueries,
		queries.NewResourceQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
