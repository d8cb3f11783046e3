package api

import (
	"net/http"

	"room-allocation-engine/internal/domain/room"
	reqdto "room-allocation-engine/internal/handler/dto/request"
	resdto "room-allocation-engine/internal/handler/dto/response"
	"room-allocation-engine/internal/handler/httperr"
	"room-allocation-engine/internal/usecase/commands"
	"room-allocation-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type RoomHandler struct {
	cmds commands.RoomCommands
	q    queries.RoomQueries
}

func NewRoomHandler(cmds commands.RoomCommands, q queries.RoomQueries) *RoomHandler {
	return &RoomHandler{cmds: cmds, q: q}
}

// @Summary List rooms
// @Description List room inventory ordered by room id
// @Tags rooms
// @Produce json
// @Param category_id query string false "Category ID"
// @Param building query string false "Building"
// @Param status query string false "Room status"
// @Success 200 {array} resdto.RoomResponse
// @Failure 400 {object} httperr.Response
// @Router /rooms [get]
func (h *RoomHandler) List(c *gin.Context) {
	var q reqdto.ListRoomsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", reqdto.FieldErrors(err))
		return
	}
	views, err := h.q.ListRooms(c.Request.Context(), q.ToFilter())
	if err != nil {
		httperr.AbortWithDomainError(c, err, "List rooms failed")
		return
	}
	c.JSON(http.StatusOK, resdto.FromRoomViews(views))
}

// @Summary Get room
// @Tags rooms
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} resdto.RoomResponse
// @Failure 404 {object} httperr.Response
// @Router /rooms/{id} [get]
func (h *RoomHandler) Get(c *gin.Context) {
	view, err := h.q.GetRoom(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Get room failed")
		return
	}
	c.JSON(http.StatusOK, resdto.FromRoomView(view))
}

// @Summary Register room
// @Description Create a room or update its location and category. Omitted fields keep their values.
// @Tags rooms
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param request body reqdto.RegisterRoomRequest true "Room attributes"
// @Success 200 {object} resdto.RoomResponse
// @Success 201 {object} resdto.RoomResponse
// @Failure 400 {object} httperr.Response
// @Router /rooms/{id} [put]
func (h *RoomHandler) Register(c *gin.Context) {
	var req reqdto.RegisterRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", reqdto.FieldErrors(err))
		return
	}
	view, created, err := h.cmds.RegisterRoom(c.Request.Context(), req.ToInput(c.Param("id")))
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Register room failed")
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, resdto.FromRoomView(view))
}

// @Summary Update room housekeeping state
// @Tags rooms
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param request body reqdto.UpdateRoomStatusRequest true "Status and/or clean flag"
// @Success 200 {object} resdto.RoomResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /rooms/{id}/status [patch]
func (h *RoomHandler) UpdateStatus(c *gin.Context) {
	var req reqdto.UpdateRoomStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", reqdto.FieldErrors(err))
		return
	}
	if req.IsEmpty() {
		httperr.AbortWithError(c, http.StatusBadRequest, errEmptyPatch, "status or clean is required", nil)
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")
	var view *queries.RoomView
	var err error
	if req.Status != nil {
		if view, err = h.cmds.SetStatus(ctx, id, room.Status(*req.Status)); err != nil {
			httperr.AbortWithDomainError(c, err, "Update room status failed")
			return
		}
	}
	if req.Clean != nil {
		if view, err = h.cmds.MarkClean(ctx, id, *req.Clean); err != nil {
			httperr.AbortWithDomainError(c, err, "Update room status failed")
			return
		}
	}
	c.JSON(http.StatusOK, resdto.FromRoomView(view))
}

// @Summary Remove room
// @Description Remove a room with no assignments. Its holds are dropped.
// @Tags rooms
// @Param id path string true "Room ID"
// @Success 204 "No Content"
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /rooms/{id} [delete]
func (h *RoomHandler) Remove(c *gin.Context) {
	if err := h.cmds.RemoveRoom(c.Request.Context(), c.Param("id")); err != nil {
		httperr.AbortWithDomainError(c, err, "Remove room failed")
		return
	}
	c.Status(http.StatusNoContent)
}
