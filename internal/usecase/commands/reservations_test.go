//go:build unit

package commands_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"room-allocation-engine/internal/domain/reservation"
	"room-allocation-engine/internal/domain/room"
	"room-allocation-engine/internal/domain/stay"
	"room-allocation-engine/internal/pkg/errs"
	"room-allocation-engine/internal/usecase/commands"
	"room-allocation-engine/internal/usecase/queries"
	"room-allocation-engine/internal/usecase/shared"
	"room-allocation-engine/tests/common/builder"
	"room-allocation-engine/tests/common/ledgertest"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ReservationCommandsSuite struct {
	suite.Suite
	ctx context.Context
	f   *ledgertest.Fixture
}

func TestReservationCommandsSuite(t *testing.T) {
	suite.Run(t, new(ReservationCommandsSuite))
}

func (s *ReservationCommandsSuite) SetupTest() {
	s.ctx = context.Background()
	s.f = ledgertest.New(s.T())
	s.f.AddRooms(s.T(), "101", "102", "103")
}

func (s *ReservationCommandsSuite) commit(b *builder.DraftBuilder) *queries.ReservationView {
	v, err := s.f.Reservations.Commit(s.ctx, b.Build())
	s.Require().NoError(err)
	return v
}

func (s *ReservationCommandsSuite) roomStatus(id string) string {
	v, err := s.f.RoomQueries.GetRoom(s.ctx, id)
	s.Require().NoError(err)
	return v.Status
}

// assertNoOverlap scans every pair of assignments in the ledger.
func (s *ReservationCommandsSuite) assertNoOverlap() {
	err := s.f.UoW.WithinReadOnly(s.ctx, func(ctx context.Context, tx shared.Tx) error {
		rooms, err := tx.Rooms().List(ctx, room.Filter{})
		s.Require().NoError(err)
		for _, rm := range rooms {
			as, err := tx.Assignments().ListByRoom(ctx, rm.ID())
			s.Require().NoError(err)
			for i := range as {
				for j := i + 1; j < len(as); j++ {
					s.False(as[i].DateRange().Overlaps(as[j].DateRange()),
						"room %s: %s overlaps %s", rm.ID(), as[i].DateRange(), as[j].DateRange())
				}
			}
		}
		return nil
	})
	s.Require().NoError(err)
}

func (s *ReservationCommandsSuite) TestCommitIndividual() {
	v := s.commit(builder.NewDraftBuilder().WithRoom("101", "2024-03-15", "2024-03-17"))

	s.Equal("confirmed", v.Status)
	s.Require().Len(v.Assignments, 1)
	s.Equal("101", v.Assignments[0].RoomID)
	s.Equal(2, v.Assignments[0].Nights)
	s.True(decimal.RequireFromString("150").Equal(v.DepositAmount))

	_, err := s.f.Reservations.Commit(s.ctx, builder.NewDraftBuilder().
		WithOwner("session-b").
		WithRoom("101", "2024-03-16", "2024-03-18").
		Build())
	s.ErrorIs(err, errs.ErrRoomConflict)
	d := detailOf(err)
	s.Equal("101", d.RoomID)
	s.Equal(v.ID.String(), d.ReservationID)
	s.Equal(v.Assignments[0].ID.String(), d.AssignmentID)

	s.commit(builder.NewDraftBuilder().WithRoom("101", "2024-03-17", "2024-03-19"))
	s.assertNoOverlap()
}

func (s *ReservationCommandsSuite) TestGroupCommitIsAllOrNothing() {
	s.commit(builder.NewDraftBuilder().WithRoom("103", "2024-03-16", "2024-03-17"))

	_, err := s.f.Reservations.Commit(s.ctx, builder.NewDraftBuilder().
		WithType(reservation.TypeGroup).
		WithRoom("101", "2024-03-15", "2024-03-17").
		WithRoom("102", "2024-03-15", "2024-03-17").
		WithRoom("103", "2024-03-15", "2024-03-17").
		Build())
	s.ErrorIs(err, errs.ErrRoomConflict)
	s.Equal("103", detailOf(err).RoomID)

	free, err := s.f.AvailabilityQueries.FindAvailable(s.ctx, queries.AvailabilityQuery{
		Range: stay.MustDateRange("2024-03-15", "2024-03-17"),
	})
	s.Require().NoError(err)
	s.Len(free, 2, "rooms 101 and 102 must not be left half-booked")
}

func (s *ReservationCommandsSuite) TestCommitComposition() {
	_, err := s.f.Reservations.Commit(s.ctx, builder.NewDraftBuilder().
		WithRoom("101", "2024-03-15", "2024-03-17").
		WithRoom("102", "2024-03-15", "2024-03-17").
		Build())
	s.ErrorIs(err, errs.ErrInvalidComposition)

	_, err = s.f.Reservations.Commit(s.ctx, builder.NewDraftBuilder().WithType(reservation.TypeGroup).Build())
	s.ErrorIs(err, errs.ErrInvalidComposition)

	_, err = s.f.Reservations.Commit(s.ctx, builder.NewDraftBuilder().WithRoom("999", "2024-03-15", "2024-03-17").Build())
	s.ErrorIs(err, errs.ErrNotFound)
}

func (s *ReservationCommandsSuite) TestConcurrentCommitHasOneWinner() {
	const contenders = 16
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		won    int
		errsOf []error
	)
	for i := range contenders {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.f.Reservations.Commit(s.ctx, builder.NewDraftBuilder().
				WithOwner(fmt.Sprintf("session-%d", i)).
				WithRoom("101", "2024-03-15", "2024-03-17").
				Build())
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				won++
				return
			}
			errsOf = append(errsOf, err)
		}()
	}
	wg.Wait()

	s.Equal(1, won)
	for _, err := range errsOf {
		s.ErrorIs(err, errs.ErrRoomConflict)
	}
	s.assertNoOverlap()
}

func (s *ReservationCommandsSuite) TestCommitConsumesHolds() {
	rng := stay.MustDateRange("2024-03-15", "2024-03-17")
	h, err := s.f.Holds.PlaceHold(s.ctx, "101", rng, "session-a")
	s.Require().NoError(err)

	s.Run("another session cannot book over the hold", func() {
		_, err := s.f.Reservations.Commit(s.ctx, builder.NewDraftBuilder().
			WithOwner("session-b").
			WithRoom("101", "2024-03-15", "2024-03-17").
			Build())
		s.ErrorIs(err, errs.ErrRoomConflict)
		s.Equal(h.ID.String(), detailOf(err).HoldID)
	})

	s.Run("another session cannot spend the hold", func() {
		_, err := s.f.Reservations.Commit(s.ctx, builder.NewDraftBuilder().
			WithOwner("session-b").
			WithHeldRoom("101", "2024-03-15", "2024-03-17", h.ID).
			Build())
		s.Error(err)
	})

	s.commit(builder.NewDraftBuilder().WithHeldRoom("101", "2024-03-15", "2024-03-17", h.ID))

	holds, err := s.f.Holds.ListHolds(s.ctx, "session-a")
	s.Require().NoError(err)
	s.Empty(holds, "the hold is consumed by the commit")
}

func (s *ReservationCommandsSuite) TestCommitWithExpiredHold() {
	h, err := s.f.Holds.PlaceHold(s.ctx, "101", stay.MustDateRange("2024-03-15", "2024-03-17"), "session-a")
	s.Require().NoError(err)
	s.f.Advance(ledgertest.HoldTTL)

	_, err = s.f.Reservations.Commit(s.ctx, builder.NewDraftBuilder().
		WithHeldRoom("101", "2024-03-15", "2024-03-17", h.ID).
		Build())
	s.ErrorIs(err, errs.ErrHoldExpiredOrNotOwned)
	s.Equal(h.ID.String(), detailOf(err).HoldID)
}

func (s *ReservationCommandsSuite) TestCommitLeavesUnnamedHolds() {
	h, err := s.f.Holds.PlaceHold(s.ctx, "101", stay.MustDateRange("2024-03-15", "2024-03-20"), "session-a")
	s.Require().NoError(err)

	s.commit(builder.NewDraftBuilder().WithRoom("101", "2024-03-15", "2024-03-16"))

	holds, err := s.f.Holds.ListHolds(s.ctx, "session-a")
	s.Require().NoError(err)
	s.Require().Len(holds, 1, "a hold is only consumed when an entry names it")
	s.Equal(h.ID, holds[0].ID)

	free, err := s.f.AvailabilityQueries.FindAvailable(s.ctx, queries.AvailabilityQuery{
		Range:      stay.MustDateRange("2024-03-17", "2024-03-20"),
		OwnerToken: "session-b",
	})
	s.Require().NoError(err)
	for _, r := range free {
		s.NotEqual("101", r.ID, "the held nights stay blocked for other sessions")
	}
	_, err = s.f.Holds.PlaceHold(s.ctx, "101", stay.MustDateRange("2024-03-17", "2024-03-20"), "session-b")
	s.ErrorIs(err, errs.ErrRoomUnavailable)
}

func (s *ReservationCommandsSuite) TestCommitHoldMustCoverEntry() {
	h, err := s.f.Holds.PlaceHold(s.ctx, "101", stay.MustDateRange("2024-03-15", "2024-03-17"), "session-a")
	s.Require().NoError(err)

	_, err = s.f.Reservations.Commit(s.ctx, builder.NewDraftBuilder().
		WithHeldRoom("101", "2024-03-16", "2024-03-19", h.ID).
		Build())
	s.ErrorIs(err, errs.ErrHoldExpiredOrNotOwned)
	s.Equal(h.ID.String(), detailOf(err).HoldID)
	s.Equal("[2024-03-16,2024-03-19)", detailOf(err).Range)

	holds, err := s.f.Holds.ListHolds(s.ctx, "session-a")
	s.Require().NoError(err)
	s.Len(holds, 1, "a rejected commit keeps the hold")

	s.commit(builder.NewDraftBuilder().WithHeldRoom("101", "2024-03-15", "2024-03-17", h.ID))
}

func (s *ReservationCommandsSuite) TestCommitReportsConflictBeforeHold() {
	s.commit(builder.NewDraftBuilder().WithOwner("session-b").WithRoom("102", "2024-03-15", "2024-03-17"))
	h, err := s.f.Holds.PlaceHold(s.ctx, "101", stay.MustDateRange("2024-03-15", "2024-03-17"), "session-a")
	s.Require().NoError(err)
	s.f.Advance(ledgertest.HoldTTL)

	_, err = s.f.Reservations.Commit(s.ctx, builder.NewDraftBuilder().
		WithType(reservation.TypeGroup).
		WithHeldRoom("101", "2024-03-15", "2024-03-17", h.ID).
		WithRoom("102", "2024-03-15", "2024-03-17").
		Build())
	s.ErrorIs(err, errs.ErrRoomConflict, "every entry is checked against the ledger first")
	s.Equal("102", detailOf(err).RoomID)
}

func (s *ReservationCommandsSuite) TestSweepRacingCommit() {
	h, err := s.f.Holds.PlaceHold(s.ctx, "101", stay.MustDateRange("2024-03-15", "2024-03-17"), "session-a")
	s.Require().NoError(err)

	var wg sync.WaitGroup
	var commitErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, commitErr = s.f.Reservations.Commit(s.ctx, builder.NewDraftBuilder().
			WithHeldRoom("101", "2024-03-15", "2024-03-17", h.ID).
			Build())
	}()
	go func() {
		defer wg.Done()
		_, _ = s.f.Holds.SweepExpired(s.ctx)
	}()
	wg.Wait()

	s.Require().NoError(commitErr, "the sweep never takes an active hold")
	s.assertNoOverlap()
}

func (s *ReservationCommandsSuite) TestCommitTentative() {
	party, err := reservation.NewParty("", "acme")
	s.Require().NoError(err)
	deposit, err := reservation.NewDeposit(decimal.Zero, "JPY", "")
	s.Require().NoError(err)
	tent, err := s.f.Reservations.OpenTentative(s.ctx, commandsOpen(reservation.TypeCorporate, party, deposit))
	s.Require().NoError(err)
	s.Equal("tentative", tent.Status)

	_, err = s.f.Reservations.Commit(s.ctx, builder.NewDraftBuilder().
		ForReservation(tent.ID).
		WithRoom("101", "2024-03-15", "2024-03-17").
		Build())
	s.ErrorIs(err, errs.ErrInvalidComposition, "type must match the tentative reservation")

	v := s.commit(builder.NewDraftBuilder().
		ForReservation(tent.ID).
		WithType(reservation.TypeCorporate).
		WithRoom("101", "2024-03-15", "2024-03-17"))
	s.Equal(tent.ID, v.ID)
	s.Equal("confirmed", v.Status)

	_, err = s.f.Reservations.Commit(s.ctx, builder.NewDraftBuilder().
		ForReservation(tent.ID).
		WithType(reservation.TypeCorporate).
		WithRoom("102", "2024-03-15", "2024-03-17").
		Build())
	s.ErrorIs(err, errs.ErrInvalidTransition)
}

func (s *ReservationCommandsSuite) TestCancelFreesRooms() {
	v := s.commit(builder.NewDraftBuilder().WithRoom("101", "2024-03-15", "2024-03-17"))

	cancelled, err := s.f.Reservations.Cancel(s.ctx, v.ID)
	s.Require().NoError(err)
	s.Equal("cancelled", cancelled.Status)
	s.Empty(cancelled.Assignments)

	s.commit(builder.NewDraftBuilder().WithOwner("session-b").WithRoom("101", "2024-03-15", "2024-03-17"))

	_, err = s.f.Reservations.Cancel(s.ctx, v.ID)
	s.ErrorIs(err, errs.ErrInvalidTransition)
	s.Equal(v.ID.String(), detailOf(err).ReservationID)

	_, err = s.f.Reservations.Cancel(s.ctx, uuid.New())
	s.ErrorIs(err, errs.ErrNotFound)
}

func (s *ReservationCommandsSuite) TestStayLifecycle() {
	v := s.commit(builder.NewDraftBuilder().
		WithType(reservation.TypeGroup).
		WithRoom("101", "2024-03-15", "2024-03-18").
		WithRoom("102", "2024-03-15", "2024-03-17"))

	_, err := s.f.Reservations.CheckIn(s.ctx, v.ID)
	s.ErrorIs(err, errs.ErrInvalidTransition, "not before arrival")

	s.f.SetToday("2024-03-15")
	in, err := s.f.Reservations.CheckIn(s.ctx, v.ID)
	s.Require().NoError(err)
	s.Equal("checked_in", in.Status)
	s.Equal("occupied", s.roomStatus("101"))
	s.Equal("occupied", s.roomStatus("102"))
	s.Equal("vacant", s.roomStatus("103"))

	s.f.SetToday("2024-03-16")
	out, err := s.f.Reservations.CheckOut(s.ctx, v.ID)
	s.Require().NoError(err)
	s.Equal("checked_out", out.Status)
	for _, a := range out.Assignments {
		s.Equal(1, a.Nights, "early departure releases the unused nights")
	}
	s.Equal("dirty", s.roomStatus("101"))

	s.commit(builder.NewDraftBuilder().WithOwner("session-b").WithRoom("101", "2024-03-17", "2024-03-18"))

	_, err = s.f.Holds.PlaceHold(s.ctx, "101", stay.MustDateRange("2024-03-16", "2024-03-17"), "session-c")
	s.ErrorIs(err, errs.ErrRoomUnavailable, "a dirty room cannot be handed out tonight")
}

func (s *ReservationCommandsSuite) TestMarkNoShow() {
	v := s.commit(builder.NewDraftBuilder().WithRoom("101", "2024-03-15", "2024-03-17"))

	_, err := s.f.Reservations.MarkNoShow(s.ctx, v.ID)
	s.ErrorIs(err, errs.ErrInvalidTransition)

	s.f.SetToday("2024-03-15")
	_, err = s.f.Reservations.MarkNoShow(s.ctx, v.ID)
	s.ErrorIs(err, errs.ErrInvalidTransition, "arrival day has not passed")

	s.f.SetToday("2024-03-16")
	ns, err := s.f.Reservations.MarkNoShow(s.ctx, v.ID)
	s.Require().NoError(err)
	s.Equal("no_show", ns.Status)
	s.Empty(ns.Assignments)
	s.Equal("vacant", s.roomStatus("101"))
}

func (s *ReservationCommandsSuite) TestAmendAssignment() {
	first := s.commit(builder.NewDraftBuilder().WithRoom("101", "2024-03-15", "2024-03-17"))
	s.commit(builder.NewDraftBuilder().WithOwner("session-b").WithRoom("101", "2024-03-19", "2024-03-21"))
	id := first.Assignments[0].ID

	grown, err := s.f.Reservations.AmendAssignment(s.ctx, first.ID, id, stay.MustDateRange("2024-03-15", "2024-03-19"), "session-a")
	s.Require().NoError(err)
	s.Equal(4, grown.Assignments[0].Nights)

	_, err = s.f.Reservations.AmendAssignment(s.ctx, first.ID, id, stay.MustDateRange("2024-03-15", "2024-03-20"), "session-a")
	s.ErrorIs(err, errs.ErrRoomConflict)

	shrunk, err := s.f.Reservations.AmendAssignment(s.ctx, first.ID, id, stay.MustDateRange("2024-03-16", "2024-03-17"), "session-a")
	s.Require().NoError(err)
	s.Equal(1, shrunk.Assignments[0].Nights)

	_, err = s.f.Reservations.AmendAssignment(s.ctx, first.ID, uuid.New(), stay.MustDateRange("2024-03-16", "2024-03-17"), "session-a")
	s.ErrorIs(err, errs.ErrNotFound)

	s.assertNoOverlap()
}

func commandsOpen(t reservation.Type, p reservation.Party, d reservation.Deposit) commands.OpenTentativeInput {
	return commands.OpenTentativeInput{Type: t, Party: p, Deposit: d}
}
