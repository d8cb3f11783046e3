package shared

import (
	"time"

	"room-allocation-engine/internal/domain/stay"
	"room-allocation-engine/internal/pkg/clock"
)

// Calendar turns the injected clock into property-local business dates.
type Calendar struct {
	Clock    clock.Clock
	Location *time.Location
}

func NewCalendar(c clock.Clock, loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{Clock: c, Location: loc}
}

func (c Calendar) Now() time.Time {
	return c.Clock.Now()
}

func (c Calendar) Today() time.Time {
	return stay.Today(c.Clock.Now(), c.Location)
}
