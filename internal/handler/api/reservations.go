package api

import (
	"context"
	"net/http"

	reqdto "room-allocation-engine/internal/handler/dto/request"
	resdto "room-allocation-engine/internal/handler/dto/response"
	"room-allocation-engine/internal/handler/httperr"
	"room-allocation-engine/internal/handler/middleware"
	"room-allocation-engine/internal/usecase/commands"
	"room-allocation-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReservationHandler struct {
	cmds commands.ReservationCommands
	q    queries.ReservationQueries
}

func NewReservationHandler(cmds commands.ReservationCommands, q queries.ReservationQueries) *ReservationHandler {
	return &ReservationHandler{cmds: cmds, q: q}
}

// @Summary Open tentative reservation
// @Description Create a reservation with no rooms. Commit it later with reservation_id.
// @Tags reservations
// @Accept json
// @Produce json
// @Param request body reqdto.OpenTentativeRequest true "Reservation header"
// @Success 201 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Router /reservations/tentative [post]
func (h *ReservationHandler) OpenTentative(c *gin.Context) {
	var req reqdto.OpenTentativeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", reqdto.FieldErrors(err))
		return
	}
	in, err := req.ToInput()
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Invalid reservation")
		return
	}
	view, err := h.cmds.OpenTentative(c.Request.Context(), in)
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Open reservation failed")
		return
	}
	c.JSON(http.StatusCreated, resdto.FromReservationView(view))
}

// @Summary Commit reservation
// @Description Validate the whole draft and write every assignment at once, consuming every hold named by an entry. Nothing is written on failure.
// @Tags reservations
// @Accept json
// @Produce json
// @Security SessionToken
// @Param request body reqdto.CommitReservationRequest true "Wizard draft"
// @Success 201 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 410 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /reservations [post]
func (h *ReservationHandler) Commit(c *gin.Context) {
	var req reqdto.CommitReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", reqdto.FieldErrors(err))
		return
	}
	draft, err := req.ToDraft(middleware.GetOwnerToken(c))
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Invalid draft")
		return
	}
	view, err := h.cmds.Commit(c.Request.Context(), draft)
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Commit failed")
		return
	}
	c.JSON(http.StatusCreated, resdto.FromReservationView(view))
}

// @Summary Get reservation
// @Tags reservations
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /reservations/{id} [get]
func (h *ReservationHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	view, err := h.q.GetReservation(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Get reservation failed")
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

type transitionFunc func(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error)

func (h *ReservationHandler) runTransition(c *gin.Context, fn transitionFunc, failMsg string) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	view, err := fn(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithDomainError(c, err, failMsg)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

// @Summary Check in
// @Description Mark the rooms booked for today occupied
// @Tags reservations
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /reservations/{id}/check-in [post]
func (h *ReservationHandler) CheckIn(c *gin.Context) {
	h.runTransition(c, h.cmds.CheckIn, "Check-in failed")
}

// @Summary Check out
// @Description End the stay. Nights after today are released.
// @Tags reservations
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /reservations/{id}/check-out [post]
func (h *ReservationHandler) CheckOut(c *gin.Context) {
	h.runTransition(c, h.cmds.CheckOut, "Check-out failed")
}

// @Summary Cancel
// @Tags reservations
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /reservations/{id}/cancel [post]
func (h *ReservationHandler) Cancel(c *gin.Context) {
	h.runTransition(c, h.cmds.Cancel, "Cancel failed")
}

// @Summary Mark no-show
// @Tags reservations
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /reservations/{id}/no-show [post]
func (h *ReservationHandler) NoShow(c *gin.Context) {
	h.runTransition(c, h.cmds.MarkNoShow, "No-show failed")
}

// @Summary Amend assignment dates
// @Description Move or resize one assignment. Holds of the current session on the new nights do not block it.
// @Tags reservations
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param assignmentId path string true "Assignment ID"
// @Param request body reqdto.AmendAssignmentRequest true "New dates"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /reservations/{id}/assignments/{assignmentId} [patch]
func (h *ReservationHandler) Amend(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	assignmentID, ok := uuidParam(c, "assignmentId")
	if !ok {
		return
	}
	var req reqdto.AmendAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", reqdto.FieldErrors(err))
		return
	}
	rng, err := req.DateRange(assignmentID)
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Invalid range")
		return
	}
	view, err := h.cmds.AmendAssignment(c.Request.Context(), id, assignmentID, rng, middleware.GetOwnerToken(c))
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Amend failed")
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}
