//go:build unit

package api_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"room-allocation-engine/internal/domain/reservation"
	"room-allocation-engine/internal/handler/api"
	resdto "room-allocation-engine/internal/handler/dto/response"
	"room-allocation-engine/internal/pkg/errs"
	"room-allocation-engine/internal/usecase/queries"
	"room-allocation-engine/tests/common/builder"
	"room-allocation-engine/tests/common/httptest"
	"room-allocation-engine/tests/common/testutil"
	commandsmock "room-allocation-engine/tests/mock/commands"
	queriesmock "room-allocation-engine/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ReservationHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockReservationCommands
	mockQueries  *queriesmock.MockReservationQueries
	session      testSession
}

func (s *ReservationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockReservationCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockReservationQueries(s.mockCtrl)
	s.session = newTestSession(s.T())
	h := api.NewReservationHandler(s.mockCommands, s.mockQueries)

	s.router.POST("/reservations/tentative", h.OpenTentative)
	s.router.POST("/reservations", s.session.middleware.RequireSession(), h.Commit)
	s.router.GET("/reservations/:id", h.Get)
	s.router.POST("/reservations/:id/check-in", h.CheckIn)
	s.router.POST("/reservations/:id/check-out", h.CheckOut)
	s.router.POST("/reservations/:id/cancel", h.Cancel)
	s.router.POST("/reservations/:id/no-show", h.NoShow)
	s.router.PATCH("/reservations/:id/assignments/:assignmentId", s.session.middleware.OptionalSession(), h.Amend)
}

func (s *ReservationHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestReservationHandlerSuite(t *testing.T) {
	suite.Run(t, new(ReservationHandlerTestSuite))
}

func confirmedView(status string) *queries.ReservationView {
	from := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	return &queries.ReservationView{
		ID:            uuid.New(),
		Type:          "individual",
		GuestID:       "guest-1",
		DepositAmount: decimal.RequireFromString("150"),
		CurrencyID:    "JPY",
		Status:        status,
		Assignments: []queries.AssignmentView{
			{ID: uuid.New(), RoomID: "101", From: from, To: from.AddDate(0, 0, 2), Nights: 2},
		},
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}
}

type testCaseReservation struct {
	name       string
	mutate     func(m map[string]any)
	expectCode int
}

// ================================================================================
// TestCommit
// ================================================================================

func (s *ReservationHandlerTestSuite) TestCommit() {
	url := "/reservations"
	reqBody := builder.NewDraftBuilder().WithRoom("101", "2024-03-15", "2024-03-17").BuildRequestDTO()
	view := confirmedView("confirmed")

	s.Run("success: 201 with assignments, owner token from the session", func() {
		s.mockCommands.EXPECT().Commit(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, draft reservation.Draft) (*queries.ReservationView, error) {
				s.Equal(s.session.owner, draft.OwnerToken)
				s.Equal(reservation.TypeIndividual, draft.Type)
				s.Require().Len(draft.Entries, 1)
				s.Equal("[2024-03-15,2024-03-17)", draft.Entries[0].Range.String())
				return view, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, s.session.token)

		var body resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(view.ID.String(), body.ID)
		s.Equal("150.00", body.Deposit.Amount)
		s.Require().Len(body.Assignments, 1)
		s.Equal("2024-03-15", body.Assignments[0].From)
		s.Equal("2024-03-17", body.Assignments[0].To)
	})

	s.Run("error: 401 without a session", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Session token required")
	})

	s.Run("error: 401 with a forged session", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "not-a-jwt")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Invalid or expired session")
	})

	invalid := []testCaseReservation{
		{name: "missing type", mutate: testutil.Field("type", nil), expectCode: http.StatusBadRequest},
		{name: "unknown type", mutate: testutil.Field("type", "suite"), expectCode: http.StatusBadRequest},
		{name: "entry without room", mutate: testutil.Field("entries", []map[string]any{{"from": "2024-03-15", "to": "2024-03-17"}}), expectCode: http.StatusBadRequest},
		{name: "entry with malformed date", mutate: testutil.Field("entries", []map[string]any{{"room_id": "101", "from": "15/03/2024", "to": "2024-03-17"}}), expectCode: http.StatusBadRequest},
		{name: "zero-night entry", mutate: testutil.Field("entries", []map[string]any{{"room_id": "101", "from": "2024-03-15", "to": "2024-03-15"}}), expectCode: http.StatusBadRequest},
		{name: "no party", mutate: testutil.Field("party", map[string]any{}), expectCode: http.StatusBadRequest},
		{name: "negative deposit", mutate: testutil.Field("deposit.amount", "-1"), expectCode: http.StatusBadRequest},
		{name: "unknown field", mutate: testutil.Field("room_count", 3), expectCode: http.StatusBadRequest},
	}

	s.Run("error: 400 before reaching the ledger", func() {
		gin.EnableJsonDecoderDisallowUnknownFields()
		for _, tc := range invalid {
			s.Run(tc.name, func() {
				body := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, s.session.token)
				s.Equal(tc.expectCode, rec.Code, rec.Body.String())
			})
		}
	})

	s.Run("error: domain rejections map to status and carry ids", func() {
		cases := []struct {
			name   string
			err    error
			status int
			code   string
		}{
			{
				name:   "conflict",
				err:    errs.Reject(errs.ErrRoomConflict, errs.Detail{RoomID: "101", ReservationID: view.ID.String()}, "room 101 is booked"),
				status: http.StatusConflict,
				code:   "room_conflict",
			},
			{
				name:   "composition",
				err:    errs.Reject(errs.ErrInvalidComposition, errs.Detail{}, "an individual reservation takes exactly one room"),
				status: http.StatusBadRequest,
				code:   "invalid_composition",
			},
			{
				name:   "hold lapsed",
				err:    errs.Reject(errs.ErrHoldExpiredOrNotOwned, errs.Detail{RoomID: "101", HoldID: uuid.NewString()}, "hold expired"),
				status: http.StatusGone,
				code:   "hold_expired_or_not_owned",
			},
			{
				name:   "storage failure",
				err:    errs.New("connection reset"),
				status: http.StatusInternalServerError,
				code:   "internal",
			},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Commit(gomock.Any(), gomock.Any()).Return(nil, tc.err).Times(1)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, s.session.token)
				detail := httptest.AssertErrorCode(s.T(), rec, tc.status, tc.code)
				if d, ok := errs.DetailOf(tc.err); ok && d.RoomID != "" {
					s.Equal(d.RoomID, detail["roomId"])
				}
			})
		}
	})
}

// ================================================================================
// TestOpenTentative
// ================================================================================

func (s *ReservationHandlerTestSuite) TestOpenTentative() {
	url := "/reservations/tentative"
	body := map[string]any{
		"type":    "corporate",
		"party":   map[string]any{"company_id": "acme"},
		"deposit": map[string]any{"amount": 0},
	}

	s.Run("success: 201", func() {
		view := confirmedView("tentative")
		view.Assignments = nil
		s.mockCommands.EXPECT().OpenTentative(gomock.Any(), gomock.Any()).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")
		var res resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &res)
		s.Equal("tentative", res.Status)
		s.Empty(res.Assignments)
	})

	s.Run("error: 400 without guest or company", func() {
		bad := testutil.DtoMap(s.T(), body, testutil.Field("party", map[string]any{}))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, bad, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, "invalid_composition")
	})
}

// ================================================================================
// TestTransitions
// ================================================================================

func (s *ReservationHandlerTestSuite) TestTransitions() {
	id := uuid.New()

	s.Run("success: check-in", func() {
		s.mockCommands.EXPECT().CheckIn(gomock.Any(), id).Return(confirmedView("checked_in"), nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/reservations/"+id.String()+"/check-in", nil, "")
		var res resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.Equal("checked_in", res.Status)
	})

	s.Run("error: 422 on an illegal transition", func() {
		rej := errs.Reject(errs.ErrInvalidTransition, errs.Detail{ReservationID: id.String()}, "cannot move from cancelled to checked_out")
		s.mockCommands.EXPECT().CheckOut(gomock.Any(), id).Return(nil, rej).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/reservations/"+id.String()+"/check-out", nil, "")
		detail := httptest.AssertErrorCode(s.T(), rec, http.StatusUnprocessableEntity, "invalid_transition")
		s.Equal(id.String(), detail["reservationId"])
	})

	s.Run("success: cancel and no-show", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), id).Return(confirmedView("cancelled"), nil).Times(1)
		s.mockCommands.EXPECT().MarkNoShow(gomock.Any(), id).Return(confirmedView("no_show"), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/reservations/"+id.String()+"/cancel", nil, "")
		s.Equal(http.StatusOK, rec.Code)
		rec = httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/reservations/"+id.String()+"/no-show", nil, "")
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("error: 400 on a malformed id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/reservations/abc/cancel", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid id")
	})

	s.Run("error: 404 on get", func() {
		s.mockQueries.EXPECT().GetReservation(gomock.Any(), id).
			Return(nil, errs.Reject(errs.ErrNotFound, errs.Detail{ReservationID: id.String()}, "reservation not found")).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations/"+id.String(), nil, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusNotFound, "not_found")
	})
}

// ================================================================================
// TestAmend
// ================================================================================

func (s *ReservationHandlerTestSuite) TestAmend() {
	id, assignmentID := uuid.New(), uuid.New()
	url := "/reservations/" + id.String() + "/assignments/" + assignmentID.String()

	s.Run("success: forwards the session owner when present", func() {
		s.mockCommands.EXPECT().AmendAssignment(gomock.Any(), id, assignmentID, gomock.Any(), s.session.owner).
			Return(confirmedView("confirmed"), nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url,
			map[string]any{"from": "2024-03-15", "to": "2024-03-18"}, s.session.token)
		s.Equal(http.StatusOK, rec.Code, rec.Body.String())
	})

	s.Run("success: works without a session", func() {
		s.mockCommands.EXPECT().AmendAssignment(gomock.Any(), id, assignmentID, gomock.Any(), "").
			Return(confirmedView("confirmed"), nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url,
			map[string]any{"from": "2024-03-15", "to": "2024-03-18"}, "")
		s.Equal(http.StatusOK, rec.Code, rec.Body.String())
	})

	s.Run("error: 400 on a reversed range", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url,
			map[string]any{"from": "2024-03-18", "to": "2024-03-15"}, "")
		detail := httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, "invalid_range")
		s.Equal(assignmentID.String(), detail["assignmentId"])
	})
}
