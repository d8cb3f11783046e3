package request

import (
	"strings"

	"room-allocation-engine/internal/domain/room"
	"room-allocation-engine/internal/usecase/commands"
)

type RegisterRoomRequest struct {
	Building   *string `json:"building" binding:"omitempty,max=64"`
	Floor      *int    `json:"floor" binding:"omitempty,min=0"`
	Number     *string `json:"number" binding:"omitempty,max=32"`
	CategoryID *string `json:"category_id" binding:"omitempty,max=64"`
}

// ToInput keeps nil fields nil so an existing room keeps its current values.
func (r RegisterRoomRequest) ToInput(id string) commands.RegisterRoomInput {
	return commands.RegisterRoomInput{
		ID:         strings.TrimSpace(id),
		Building:   r.Building,
		Floor:      r.Floor,
		Number:     r.Number,
		CategoryID: r.CategoryID,
	}
}

type UpdateRoomStatusRequest struct {
	Status *string `json:"status" binding:"omitempty,room_status"`
	Clean  *bool   `json:"clean"`
}

func (r UpdateRoomStatusRequest) IsEmpty() bool {
	return r.Status == nil && r.Clean == nil
}

type ListRoomsQuery struct {
	CategoryID string `form:"category_id"`
	Building   string `form:"building"`
	Status     string `form:"status" binding:"omitempty,room_status"`
}

func (q ListRoomsQuery) ToFilter() room.Filter {
	return room.Filter{
		CategoryID: q.CategoryID,
		Building:   q.Building,
		Status:     room.Status(q.Status),
	}
}
