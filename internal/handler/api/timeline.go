package api

import (
	"net/http"

	reqdto "room-allocation-engine/internal/handler/dto/request"
	resdto "room-allocation-engine/internal/handler/dto/response"
	"room-allocation-engine/internal/handler/httperr"
	"room-allocation-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type TimelineHandler struct {
	q queries.TimelineQueries
}

func NewTimelineHandler(q queries.TimelineQueries) *TimelineHandler {
	return &TimelineHandler{q: q}
}

// @Summary Occupancy timeline
// @Description Per-room booking and hold segments clipped to [from, to), plus per-night counts
// @Tags timeline
// @Produce json
// @Param from query string true "First night (YYYY-MM-DD)"
// @Param to query string true "End of window, exclusive (YYYY-MM-DD)"
// @Param room_id query []string false "Room IDs" collectionFormat(multi)
// @Param category_id query string false "Category ID"
// @Param building query string false "Building"
// @Success 200 {object} resdto.TimelineResponse
// @Failure 400 {object} httperr.Response
// @Router /timeline [get]
func (h *TimelineHandler) Project(c *gin.Context) {
	var req reqdto.TimelineQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", reqdto.FieldErrors(err))
		return
	}
	rng, filter, err := req.ToFilter()
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Invalid range")
		return
	}
	tl, err := h.q.Project(c.Request.Context(), rng, filter)
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Timeline projection failed")
		return
	}
	c.JSON(http.StatusOK, resdto.FromTimeline(tl))
}
