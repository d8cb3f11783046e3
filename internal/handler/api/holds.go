package api

import (
	"net/http"

	reqdto "room-allocation-engine/internal/handler/dto/request"
	resdto "room-allocation-engine/internal/handler/dto/response"
	"room-allocation-engine/internal/handler/httperr"
	"room-allocation-engine/internal/handler/middleware"
	"room-allocation-engine/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

// HoldHandler serves the wizard's hold operations. Every route runs behind RequireSession,
// and the session id is the owner token.
type HoldHandler struct {
	cmds commands.HoldCommands
}

func NewHoldHandler(cmds commands.HoldCommands) *HoldHandler {
	return &HoldHandler{cmds: cmds}
}

// @Summary List session holds
// @Tags holds
// @Produce json
// @Security SessionToken
// @Success 200 {array} resdto.HoldResponse
// @Failure 401 {object} httperr.Response
// @Router /holds [get]
func (h *HoldHandler) List(c *gin.Context) {
	views, err := h.cmds.ListHolds(c.Request.Context(), middleware.GetOwnerToken(c))
	if err != nil {
		httperr.AbortWithDomainError(c, err, "List holds failed")
		return
	}
	c.JSON(http.StatusOK, resdto.FromHoldViews(views))
}

// @Summary Place hold
// @Description Reserve a room for the session until the hold expires
// @Tags holds
// @Accept json
// @Produce json
// @Security SessionToken
// @Param request body reqdto.PlaceHoldRequest true "Room and dates"
// @Success 201 {object} resdto.HoldResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /holds [post]
func (h *HoldHandler) Place(c *gin.Context) {
	var req reqdto.PlaceHoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", reqdto.FieldErrors(err))
		return
	}
	rng, err := req.DateRange()
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Invalid range")
		return
	}
	view, err := h.cmds.PlaceHold(c.Request.Context(), req.RoomID, rng, middleware.GetOwnerToken(c))
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Place hold failed")
		return
	}
	c.JSON(http.StatusCreated, resdto.FromHoldView(view))
}

// @Summary Extend hold
// @Description Restart the hold's time to live
// @Tags holds
// @Produce json
// @Security SessionToken
// @Param id path string true "Hold ID"
// @Success 200 {object} resdto.HoldResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /holds/{id}/extend [post]
func (h *HoldHandler) Extend(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	view, err := h.cmds.ExtendHold(c.Request.Context(), id, middleware.GetOwnerToken(c))
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Extend hold failed")
		return
	}
	c.JSON(http.StatusOK, resdto.FromHoldView(view))
}

// @Summary Release hold
// @Tags holds
// @Security SessionToken
// @Param id path string true "Hold ID"
// @Success 204 "No Content"
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /holds/{id} [delete]
func (h *HoldHandler) Release(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.cmds.ReleaseHold(c.Request.Context(), id, middleware.GetOwnerToken(c)); err != nil {
		httperr.AbortWithDomainError(c, err, "Release hold failed")
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Release every hold of the session
// @Description Used when the operator abandons the wizard
// @Tags holds
// @Produce json
// @Security SessionToken
// @Success 200 {object} resdto.ReleasedHoldsResponse
// @Router /holds [delete]
func (h *HoldHandler) ReleaseAll(c *gin.Context) {
	n, err := h.cmds.ReleaseAll(c.Request.Context(), middleware.GetOwnerToken(c))
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Release holds failed")
		return
	}
	c.JSON(http.StatusOK, resdto.ReleasedHoldsResponse{Released: n})
}
