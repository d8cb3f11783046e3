package components

import (
	"room-allocation-engine/internal/handler"
	"room-allocation-engine/internal/handler/api"
	reqdto "room-allocation-engine/internal/handler/dto/request"
	"room-allocation-engine/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewRoomHandler,
		api.NewAvailabilityHandler,
		api.NewHoldHandler,
		api.NewReservationHandler,
		api.NewTimelineHandler,
		api.NewSessionHandler,
		middleware.NewSessionMiddleware,
		NewHandlers,
	),
	fx.Invoke(
		reqdto.RegisterValidators,
		handler.NewRouter,
	),
)

func NewHandlers(
	rooms *api.RoomHandler,
	availability *api.AvailabilityHandler,
	holds *api.HoldHandler,
	reservations *api.ReservationHandler,
	timeline *api.TimelineHandler,
	sessions *api.SessionHandler,
) handler.Handlers {
	return handler.Handlers{
		Rooms:        rooms,
		Availability: availability,
		Holds:        holds,
		Reservations: reservations,
		Timeline:     timeline,
		Sessions:     sessions,
	}
}
