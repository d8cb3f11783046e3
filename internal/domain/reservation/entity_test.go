//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"room-allocation-engine/internal/domain/reservation"
	"room-allocation-engine/internal/domain/stay"
	"room-allocation-engine/internal/pkg/errs"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

func day(s string) time.Time {
	d, err := stay.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newTentative(t *testing.T, kind reservation.Type) *reservation.Reservation {
	t.Helper()
	party, err := reservation.NewParty("guest-1", "")
	require.NoError(t, err)
	deposit, err := reservation.NewDeposit(decimal.RequireFromString("100.00"), "JPY", "rack")
	require.NoError(t, err)
	res, err := reservation.NewTentative(kind, party, deposit, now)
	require.NoError(t, err)
	return res
}

func confirmed(t *testing.T, kind reservation.Type, ranges map[string]string) *reservation.Reservation {
	t.Helper()
	res := newTentative(t, kind)
	var as []reservation.Assignment
	for roomID, span := range ranges {
		from, to := span[:10], span[11:]
		as = append(as, reservation.NewAssignment(res.ID(), roomID, stay.MustDateRange(from, to), now))
	}
	require.NoError(t, res.Confirm(as, now))
	return res
}

func TestStatusTransitions(t *testing.T) {
	legal := map[reservation.Status][]reservation.Status{
		reservation.StatusTentative: {reservation.StatusConfirmed, reservation.StatusCancelled},
		reservation.StatusConfirmed: {reservation.StatusCheckedIn, reservation.StatusCancelled, reservation.StatusNoShow},
		reservation.StatusCheckedIn: {reservation.StatusCheckedOut},
	}
	all := []reservation.Status{
		reservation.StatusTentative, reservation.StatusConfirmed, reservation.StatusCheckedIn,
		reservation.StatusCheckedOut, reservation.StatusCancelled, reservation.StatusNoShow,
	}
	for _, from := range all {
		for _, to := range all {
			want := false
			for _, allowed := range legal[from] {
				if allowed == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
	assert.True(t, reservation.StatusCheckedOut.IsTerminal())
	assert.True(t, reservation.StatusCancelled.IsTerminal())
	assert.True(t, reservation.StatusNoShow.IsTerminal())
	assert.False(t, reservation.StatusConfirmed.IsTerminal())
}

func TestNewParty(t *testing.T) {
	_, err := reservation.NewParty(" ", "")
	assert.ErrorIs(t, err, reservation.ErrMissingParty)

	p, err := reservation.NewParty("", "acme")
	require.NoError(t, err)
	assert.Equal(t, "acme", p.CompanyID())
}

func TestNewDeposit(t *testing.T) {
	_, err := reservation.NewDeposit(decimal.NewFromInt(-1), "JPY", "")
	assert.ErrorIs(t, err, reservation.ErrNegativeDeposit)
}

func TestConfirm(t *testing.T) {
	t.Run("individual takes exactly one room", func(t *testing.T) {
		res := newTentative(t, reservation.TypeIndividual)
		rng := stay.MustDateRange("2024-03-15", "2024-03-17")
		err := res.Confirm([]reservation.Assignment{
			reservation.NewAssignment(res.ID(), "101", rng, now),
			reservation.NewAssignment(res.ID(), "102", rng, now),
		}, now)
		assert.ErrorIs(t, err, errs.ErrInvalidComposition)
		assert.Equal(t, reservation.StatusTentative, res.Status())
	})

	t.Run("no rooms NG", func(t *testing.T) {
		res := newTentative(t, reservation.TypeGroup)
		assert.ErrorIs(t, res.Confirm(nil, now), errs.ErrInvalidComposition)
	})

	t.Run("assignments are ordered by start then room", func(t *testing.T) {
		res := confirmed(t, reservation.TypeGroup, map[string]string{
			"103": "2024-03-16/2024-03-18",
			"101": "2024-03-15/2024-03-17",
			"102": "2024-03-15/2024-03-17",
		})
		var got []string
		for _, a := range res.Assignments() {
			got = append(got, a.RoomID())
		}
		if diff := cmp.Diff([]string{"101", "102", "103"}, got); diff != "" {
			t.Errorf("assignment order mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, "[2024-03-15,2024-03-18)", res.Span().String())
		assert.Equal(t, day("2024-03-15"), res.Arrival())
	})

	t.Run("confirming twice NG", func(t *testing.T) {
		res := confirmed(t, reservation.TypeIndividual, map[string]string{"101": "2024-03-15/2024-03-17"})
		err := res.Confirm(res.Assignments(), now)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}

func TestCheckIn(t *testing.T) {
	res := confirmed(t, reservation.TypeGroup, map[string]string{
		"101": "2024-03-15/2024-03-17",
		"102": "2024-03-16/2024-03-18",
	})

	t.Run("before arrival NG", func(t *testing.T) {
		_, err := res.Clone().CheckIn(day("2024-03-14"), now)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})

	t.Run("returns the rooms booked for today", func(t *testing.T) {
		r := res.Clone()
		current, err := r.CheckIn(day("2024-03-15"), now)
		require.NoError(t, err)
		require.Len(t, current, 1)
		assert.Equal(t, "101", current[0].RoomID())
		assert.Equal(t, reservation.StatusCheckedIn, r.Status())
	})

	t.Run("tentative cannot check in", func(t *testing.T) {
		_, err := newTentative(t, reservation.TypeIndividual).CheckIn(day("2024-03-15"), now)
		var rej *errs.Rejection
		require.ErrorAs(t, err, &rej)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.NotEmpty(t, rej.Detail.ReservationID)
	})
}

func TestCheckOut(t *testing.T) {
	res := confirmed(t, reservation.TypeGroup, map[string]string{
		"101": "2024-03-15/2024-03-18",
		"102": "2024-03-17/2024-03-19",
	})
	_, err := res.CheckIn(day("2024-03-15"), now)
	require.NoError(t, err)

	shortened, released, err := res.CheckOut(day("2024-03-16"), now)
	require.NoError(t, err)

	require.Len(t, shortened, 1)
	assert.Equal(t, "101", shortened[0].RoomID())
	assert.Equal(t, "[2024-03-15,2024-03-16)", shortened[0].DateRange().String())

	require.Len(t, released, 1)
	assert.Equal(t, "102", released[0].RoomID())

	assert.Equal(t, reservation.StatusCheckedOut, res.Status())
	assert.Len(t, res.Assignments(), 1)
}

func TestCancel(t *testing.T) {
	res := confirmed(t, reservation.TypeIndividual, map[string]string{"101": "2024-03-15/2024-03-17"})
	removed, err := res.Cancel(now)
	require.NoError(t, err)
	assert.Len(t, removed, 1)
	assert.Empty(t, res.Assignments())

	_, err = res.Cancel(now)
	assert.ErrorIs(t, err, errs.ErrInvalidTransition, "cancelled is terminal")
}

func TestMarkNoShow(t *testing.T) {
	res := confirmed(t, reservation.TypeIndividual, map[string]string{"101": "2024-03-15/2024-03-17"})

	_, err := res.Clone().MarkNoShow(day("2024-03-14"), now)
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)

	_, err = res.Clone().MarkNoShow(day("2024-03-15"), now)
	assert.ErrorIs(t, err, errs.ErrInvalidTransition, "the guest may still arrive on the arrival day")

	removed, err := res.MarkNoShow(day("2024-03-16"), now)
	require.NoError(t, err)
	assert.Len(t, removed, 1)
	assert.Equal(t, reservation.StatusNoShow, res.Status())
}

func TestAmend(t *testing.T) {
	res := confirmed(t, reservation.TypeIndividual, map[string]string{"101": "2024-03-15/2024-03-17"})
	id := res.Assignments()[0].ID()

	before, after, err := res.Amend(id, stay.MustDateRange("2024-03-15", "2024-03-19"), now)
	require.NoError(t, err)
	assert.Equal(t, 2, before.DateRange().Nights())
	assert.Equal(t, 4, after.DateRange().Nights())
	assert.Equal(t, id, after.ID())

	_, _, err = res.Amend(uuid.New(), stay.MustDateRange("2024-03-15", "2024-03-19"), now)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, err = res.Cancel(now)
	require.NoError(t, err)
	_, _, err = res.Amend(id, stay.MustDateRange("2024-03-15", "2024-03-16"), now)
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
}

func TestDraftChecks(t *testing.T) {
	party, _ := reservation.NewParty("guest-1", "")
	rng := stay.MustDateRange("2024-03-15", "2024-03-17")

	cases := []struct {
		name    string
		draft   reservation.Draft
		compose error
		entries error
	}{
		{
			name:    "empty draft",
			draft:   reservation.Draft{Type: reservation.TypeGroup, Party: party},
			compose: errs.ErrInvalidComposition,
		},
		{
			name: "individual with two rooms",
			draft: reservation.Draft{Type: reservation.TypeIndividual, Party: party, Entries: []reservation.DraftEntry{
				{RoomID: "101", Range: rng}, {RoomID: "102", Range: rng},
			}},
			compose: errs.ErrInvalidComposition,
		},
		{
			name: "same room twice on overlapping nights",
			draft: reservation.Draft{Type: reservation.TypeGroup, Party: party, Entries: []reservation.DraftEntry{
				{RoomID: "101", Range: rng}, {RoomID: "101", Range: stay.MustDateRange("2024-03-16", "2024-03-18")},
			}},
			entries: errs.ErrRoomConflict,
		},
		{
			name: "same room back to back",
			draft: reservation.Draft{Type: reservation.TypeGroup, Party: party, Entries: []reservation.DraftEntry{
				{RoomID: "101", Range: rng}, {RoomID: "101", Range: stay.MustDateRange("2024-03-17", "2024-03-18")},
			}},
		},
		{
			name: "missing range",
			draft: reservation.Draft{Type: reservation.TypeCorporate, Party: party, Entries: []reservation.DraftEntry{
				{RoomID: "101"},
			}},
			entries: errs.ErrInvalidRange,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.draft.CheckComposition()
			if tc.compose != nil {
				assert.ErrorIs(t, err, tc.compose)
				return
			}
			require.NoError(t, err)
			err = tc.draft.CheckEntries()
			if tc.entries != nil {
				assert.ErrorIs(t, err, tc.entries)
				return
			}
			assert.NoError(t, err)
		})
	}
}
