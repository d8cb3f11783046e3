//go:build e2e

package allocation_test

import (
	"fmt"
	"net/http"
	"testing"

	"room-allocation-engine/internal/domain/reservation"
	resdto "room-allocation-engine/internal/handler/dto/response"
	"room-allocation-engine/tests/common/builder"
	"room-allocation-engine/tests/common/httptest"
	"room-allocation-engine/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	sessionsURL     = "/api/sessions"
	roomURL         = "/api/rooms/%s"
	availabilityURL = "/api/availability?from=%s&to=%s"
	holdsURL        = "/api/holds"
	reservationsURL = "/api/reservations"
	reservationURL  = "/api/reservations/%s"
	timelineURL     = "/api/timeline?from=%s&to=%s"
)

type AllocationSuite struct {
	e2e.SharedSuite
}

func TestAllocationSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(AllocationSuite))
}

func (s *AllocationSuite) openSession(t *testing.T, operator string) string {
	t.Helper()
	w := httptest.PerformRequest(t, s.Router, http.MethodPost, sessionsURL, map[string]any{"operator": operator}, "")
	var res resdto.SessionResponse
	httptest.AssertSuccessResponse(t, w, http.StatusCreated, &res)
	httptest.AssertHeaders(t, w, map[string]string{"Content-Type": "application/json; charset=utf-8"})
	require.NotEmpty(t, res.Token)
	return res.Token
}

func (s *AllocationSuite) registerRooms(t *testing.T, ids ...string) {
	t.Helper()
	for i, id := range ids {
		body := map[string]any{"building": "A", "floor": 1, "number": id, "category_id": "std"}
		if i%2 == 1 {
			body["category_id"] = "suite"
		}
		w := httptest.PerformRequest(t, s.Router, http.MethodPut, fmt.Sprintf(roomURL, id), body, "")
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, nil)
	}
}

func (s *AllocationSuite) TestBookingFlow() {
	s.Run("hold, commit, check in and project", func() {
		t := s.T()
		s.registerRooms(t, "101", "102")
		alice := s.openSession(t, "alice")
		bob := s.openSession(t, "bob")

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(availabilityURL, "2024-03-15", "2024-03-17"), nil, "")
		var avail resdto.AvailabilityResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &avail)
		require.Len(t, avail.Rooms, 2)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, holdsURL,
			map[string]any{"room_id": "101", "from": "2024-03-15", "to": "2024-03-17"}, alice)
		var held resdto.HoldResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &held)
		require.Equal(t, "2024-03-10T09:15:00Z", held.ExpiresAt)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, holdsURL,
			map[string]any{"room_id": "101", "from": "2024-03-16", "to": "2024-03-18"}, bob)
		detail := httptest.AssertErrorCode(t, w, http.StatusConflict, "room_unavailable")
		require.Equal(t, held.ID, detail["holdId"])

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(availabilityURL, "2024-03-15", "2024-03-17"), nil, bob)
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &avail)
		require.Len(t, avail.Rooms, 1, "bob does not see alice's held room")

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(availabilityURL, "2024-03-15", "2024-03-17"), nil, alice)
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &avail)
		require.Len(t, avail.Rooms, 2, "alice sees through her own hold")

		body := builder.NewDraftBuilder().
			WithHeldRoom("101", "2024-03-15", "2024-03-17", uuid.MustParse(held.ID)).
			BuildRequestDTO()
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, body, alice)
		var booked resdto.ReservationResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &booked)
		require.Equal(t, "confirmed", booked.Status)
		require.Len(t, booked.Assignments, 1)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, holdsURL, nil, alice)
		var holds []resdto.HoldResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &holds)
		require.Empty(t, holds, "committing spends the hold")

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(timelineURL, "2024-03-15", "2024-03-17"), nil, "")
		var tl resdto.TimelineResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &tl)
		got := make([]int, 0, len(tl.Days))
		for _, d := range tl.Days {
			got = append(got, d.Occupied)
		}
		if diff := cmp.Diff([]int{1, 1}, got); diff != "" {
			t.Errorf("occupied per day mismatch (-want +got):\n%s", diff)
		}

		s.Clock.Set(s.Clock.Now().AddDate(0, 0, 5))
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(reservationURL, booked.ID)+"/check-in", nil, "")
		var in resdto.ReservationResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &in)
		require.Equal(t, "checked_in", in.Status)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(roomURL, "101"), nil, "")
		var rm resdto.RoomResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &rm)
		require.Equal(t, "occupied", rm.Status)
	})
}

func (s *AllocationSuite) TestGroupCommitConflict() {
	s.Run("a group stays unbooked when one room is taken", func() {
		t := s.T()
		s.registerRooms(t, "201", "202")
		alice := s.openSession(t, "alice")

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL,
			builder.NewDraftBuilder().WithRoom("202", "2024-03-16", "2024-03-17").BuildRequestDTO(), alice)
		var first resdto.ReservationResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &first)

		body := builder.NewDraftBuilder().
			WithType(reservation.TypeGroup).
			WithRoom("201", "2024-03-15", "2024-03-17").
			WithRoom("202", "2024-03-15", "2024-03-17").
			BuildRequestDTO()
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, body, alice)
		detail := httptest.AssertErrorCode(t, w, http.StatusConflict, "room_conflict")
		require.Equal(t, "202", detail["roomId"])
		require.Equal(t, first.ID, detail["reservationId"])

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(availabilityURL, "2024-03-15", "2024-03-16"), nil, "")
		var avail resdto.AvailabilityResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &avail)
		require.Len(t, avail.Rooms, 2)
	})
}

func (s *AllocationSuite) TestSessionRequired() {
	s.Run("holds need a session", func() {
		t := s.T()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, holdsURL,
			map[string]any{"room_id": "101", "from": "2024-03-15", "to": "2024-03-17"}, "")
		httptest.AssertErrorResponse(t, w, http.StatusUnauthorized, "Session token required")
	})

	s.Run("unknown reservation", func() {
		t := s.T()
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(reservationURL, uuid.New()), nil, "")
		httptest.AssertErrorCode(t, w, http.StatusNotFound, "not_found")
	})
}
