//go:build unit || e2e

package ledgertest

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"room-allocation-engine/internal/infra/memory"
	"room-allocation-engine/internal/pkg/clock"
	"room-allocation-engine/internal/usecase/commands"
	"room-allocation-engine/internal/usecase/queries"
	"room-allocation-engine/internal/usecase/shared"

	"github.com/stretchr/testify/require"
)

// Start is the fixture's "now": 09:00 UTC on 2024-03-10.
var Start = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

const HoldTTL = 15 * time.Minute

// Fixture wires every command and query over one ledger and a controllable clock.
type Fixture struct {
	UoW   shared.UnitOfWork
	Clock *clock.MockClock
	Cal   shared.Calendar

	Rooms        commands.RoomCommands
	Holds        commands.HoldCommands
	Reservations commands.ReservationCommands

	RoomQueries         queries.RoomQueries
	AvailabilityQueries queries.AvailabilityQueries
	ReservationQueries  queries.ReservationQueries
	Timeline            queries.TimelineQueries
}

func NewLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// New builds a fixture on the in-memory ledger.
func New(t *testing.T) *Fixture {
	t.Helper()
	return NewWith(t, memory.NewLedger(NewLogger()))
}

// NewWith builds a fixture on any ledger backend.
func NewWith(t *testing.T, uow shared.UnitOfWork) *Fixture {
	t.Helper()
	clk := clock.NewMockClock(Start)
	cal := shared.NewCalendar(clk, time.UTC)
	logger := NewLogger()
	return &Fixture{
		UoW:                 uow,
		Clock:               clk,
		Cal:                 cal,
		Rooms:               commands.NewRoomCommands(uow, cal, logger),
		Holds:               commands.NewHoldCommands(uow, cal, logger, commands.WithHoldTTL(HoldTTL)),
		Reservations:        commands.NewReservationCommands(uow, cal, logger),
		RoomQueries:         queries.NewRoomQueries(uow),
		AvailabilityQueries: queries.NewAvailabilityQueries(uow, cal),
		ReservationQueries:  queries.NewReservationQueries(uow),
		Timeline:            queries.NewTimelineQueries(uow, cal),
	}
}

func ptr[T any](v T) *T { return &v }

// AddRooms registers vacant clean rooms in building A, floor taken from the first digit.
func (f *Fixture) AddRooms(t *testing.T, ids ...string) {
	t.Helper()
	for _, id := range ids {
		floor := 0
		if len(id) > 0 && id[0] >= '0' && id[0] <= '9' {
			floor = int(id[0] - '0')
		}
		_, _, err := f.Rooms.RegisterRoom(context.Background(), commands.RegisterRoomInput{
			ID:         id,
			Building:   ptr("A"),
			Floor:      ptr(floor),
			Number:     ptr(id),
			CategoryID: ptr("std"),
		})
		require.NoError(t, err)
	}
}

// Advance moves the clock forward.
func (f *Fixture) Advance(d time.Duration) {
	f.Clock.Set(f.Clock.Now().Add(d))
}

// SetToday moves the clock to 09:00 UTC on the given date.
func (f *Fixture) SetToday(date string) {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	f.Clock.Set(d.Add(9 * time.Hour))
}
