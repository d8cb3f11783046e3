package components

import (
	"log/slog"

	"room-allocation-engine/internal/pkg/clock"
	"room-allocation-engine/internal/pkg/config"
	"room-allocation-engine/internal/usecase/commands"
	"room-allocation-engine/internal/usecase/queries"
	"room-allocation-engine/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	NewCalendar,
)

func NewCalendar(clk clock.Clock, cfg config.Config) (shared.Calendar, error) {
	loc, err := cfg.Property.Location()
	if err != nil {
		return shared.Calendar{}, err
	}
	return shared.NewCalendar(clk, loc), nil
}

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewRoomCommands,
		commands.NewReservationCommands,
		func(uow shared.UnitOfWork, cal shared.Calendar, cfg config.Config, logger *slog.Logger) commands.HoldCommands {
			return commands.NewHoldCommands(uow, cal, logger, commands.WithHoldTTL(cfg.Hold.TTL))
		},
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewRoomQueries,
		queries.NewAvailabilityQueries,
		queries.NewReservationQueries,
		queries.NewTimelineQueries,
	),
)
