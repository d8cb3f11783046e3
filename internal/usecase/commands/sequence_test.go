//go:build unit

package commands_test

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"room-allocation-engine/internal/domain/reservation"
	"room-allocation-engine/internal/domain/stay"
	"room-allocation-engine/internal/pkg/errs"
	"room-allocation-engine/internal/usecase/queries"
	"room-allocation-engine/tests/common/builder"

	"github.com/google/uuid"
)

type heldRoom struct {
	view  *queries.HoldView
	owner string
}

// sequence drives random operations against the fixture ledger.
type sequence struct {
	s        *ReservationCommandsSuite
	rnd      *rand.Rand
	rooms    []string
	tokens   []string
	holds    []heldRoom
	bookings []*queries.ReservationView
}

var knownRejections = []error{
	errs.ErrNotFound,
	errs.ErrInvalidRange,
	errs.ErrRoomUnavailable,
	errs.ErrRoomConflict,
	errs.ErrHoldExpiredOrNotOwned,
	errs.ErrInvalidComposition,
	errs.ErrInvalidTransition,
	errs.ErrNotOwner,
	errs.ErrRoomInUse,
	errs.ErrValidation,
}

func (q *sequence) expectRejection(op string, err error) bool {
	if err == nil {
		return true
	}
	for _, kind := range knownRejections {
		if errors.Is(err, kind) {
			return false
		}
	}
	q.s.Failf("unexpected error", "%s: %+v", op, err)
	return false
}

func (q *sequence) pick(from []string) string { return from[q.rnd.Intn(len(from))] }

// nights picks one to four nights starting between yesterday and ten days out.
func (q *sequence) nights() stay.DateRange {
	start := q.s.f.Cal.Today().AddDate(0, 0, q.rnd.Intn(12)-1)
	rng, err := stay.NewDateRange(start, start.AddDate(0, 0, 1+q.rnd.Intn(4)))
	q.s.Require().NoError(err)
	return rng
}

func (q *sequence) booking() *queries.ReservationView {
	if len(q.bookings) == 0 {
		return nil
	}
	return q.bookings[q.rnd.Intn(len(q.bookings))]
}

func (q *sequence) place() {
	token := q.pick(q.tokens)
	h, err := q.s.f.Holds.PlaceHold(q.s.ctx, q.pick(q.rooms), q.nights(), token)
	if q.expectRejection("place hold", err) {
		q.holds = append(q.holds, heldRoom{view: h, owner: token})
	}
}

func (q *sequence) release() {
	if len(q.holds) == 0 {
		return
	}
	i := q.rnd.Intn(len(q.holds))
	err := q.s.f.Holds.ReleaseHold(q.s.ctx, q.holds[i].view.ID, q.holds[i].owner)
	q.expectRejection("release hold", err)
	q.holds = append(q.holds[:i], q.holds[i+1:]...)
}

func (q *sequence) commit() {
	b := builder.NewDraftBuilder().WithOwner(q.pick(q.tokens))
	entries := 1
	if q.rnd.Intn(2) == 0 {
		b.WithType(reservation.TypeGroup)
		entries = 2 + q.rnd.Intn(2)
	}
	for range entries {
		entry := reservation.DraftEntry{RoomID: q.pick(q.rooms), Range: q.nights()}
		if len(q.holds) > 0 && q.rnd.Intn(2) == 0 {
			h := q.holds[q.rnd.Intn(len(q.holds))]
			rng, err := stay.NewDateRange(h.view.From, h.view.To)
			q.s.Require().NoError(err)
			b.WithOwner(h.owner)
			entry = reservation.DraftEntry{RoomID: h.view.RoomID, Range: rng, HoldID: &h.view.ID}
		}
		b.With(func(b *builder.DraftBuilder) { b.Entries = append(b.Entries, entry) })
	}
	v, err := q.s.f.Reservations.Commit(q.s.ctx, b.Build())
	if q.expectRejection("commit", err) {
		q.bookings = append(q.bookings, v)
	}
}

func (q *sequence) amend() {
	v := q.booking()
	if v == nil || len(v.Assignments) == 0 {
		return
	}
	a := v.Assignments[q.rnd.Intn(len(v.Assignments))]
	_, err := q.s.f.Reservations.AmendAssignment(q.s.ctx, v.ID, a.ID, q.nights(), q.pick(q.tokens))
	q.expectRejection("amend", err)
}

func (q *sequence) cancel() {
	if v := q.booking(); v != nil {
		_, err := q.s.f.Reservations.Cancel(q.s.ctx, v.ID)
		q.expectRejection("cancel", err)
	}
}

func (q *sequence) checkInOut() {
	v := q.booking()
	if v == nil {
		return
	}
	_, err := q.s.f.Reservations.CheckIn(q.s.ctx, v.ID)
	q.expectRejection("check in", err)
	_, err = q.s.f.Reservations.CheckOut(q.s.ctx, v.ID)
	q.expectRejection("check out", err)
}

func (q *sequence) clean() {
	_, err := q.s.f.Rooms.MarkClean(q.s.ctx, q.pick(q.rooms), true)
	q.expectRejection("mark clean", err)
}

func (q *sequence) sweep() {
	_, err := q.s.f.Holds.SweepExpired(q.s.ctx)
	q.s.Require().NoError(err)
}

func (q *sequence) tick() {
	if q.rnd.Intn(6) == 0 {
		q.s.f.Advance(24 * time.Hour)
		return
	}
	q.s.f.Advance(time.Duration(q.rnd.Intn(10)) * time.Minute)
}

func (s *ReservationCommandsSuite) TestRandomOperationsNeverDoubleBook() {
	for _, seed := range []int64{1, 7, 42, 2024} {
		s.Run(fmt.Sprintf("seed %d", seed), func() {
			s.SetupTest()
			q := &sequence{
				s:      s,
				rnd:    rand.New(rand.NewSource(seed)),
				rooms:  []string{"101", "102", "103"},
				tokens: []string{uuid.NewString(), uuid.NewString(), uuid.NewString()},
			}
			steps := []func(){q.place, q.place, q.release, q.commit, q.commit, q.amend, q.cancel, q.checkInOut, q.clean, q.sweep, q.tick}
			for range 300 {
				steps[q.rnd.Intn(len(steps))]()
				s.assertNoOverlap()
			}
		})
	}
}
