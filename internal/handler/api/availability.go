package api

import (
	"net/http"

	reqdto "room-allocation-engine/internal/handler/dto/request"
	resdto "room-allocation-engine/internal/handler/dto/response"
	"room-allocation-engine/internal/handler/httperr"
	"room-allocation-engine/internal/handler/middleware"
	"room-allocation-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	q queries.AvailabilityQueries
}

func NewAvailabilityHandler(q queries.AvailabilityQueries) *AvailabilityHandler {
	return &AvailabilityHandler{q: q}
}

// @Summary Find available rooms
// @Description Rooms free of assignments and foreign holds for every night of [from, to). With a session, rooms held by it count as free.
// @Tags availability
// @Produce json
// @Param from query string true "Arrival date (YYYY-MM-DD)"
// @Param to query string true "Departure date (YYYY-MM-DD)"
// @Param category_id query string false "Category ID"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Router /availability [get]
func (h *AvailabilityHandler) Find(c *gin.Context) {
	var req reqdto.AvailabilityQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", reqdto.FieldErrors(err))
		return
	}
	q, err := req.ToQuery(middleware.GetOwnerToken(c))
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Invalid range")
		return
	}
	views, err := h.q.FindAvailable(c.Request.Context(), q)
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Availability lookup failed")
		return
	}
	c.JSON(http.StatusOK, resdto.AvailabilityResponse{
		From:  req.From,
		To:    req.To,
		Rooms: resdto.FromRoomViews(views),
	})
}
