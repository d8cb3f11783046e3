package response

import (
	"room-allocation-engine/internal/usecase/queries"
)

type RoomResponse struct {
	ID         string `json:"id"`
	Building   string `json:"building"`
	Floor      int    `json:"floor"`
	Number     string `json:"number"`
	CategoryID string `json:"category_id"`
	Status     string `json:"status"`
	Clean      bool   `json:"clean"`
	UpdatedAt  string `json:"updated_at"`
}

func FromRoomView(v *queries.RoomView) *RoomResponse {
	var res RoomResponse
	copyInto(&res, v)
	return &res
}

func FromRoomViews(views []*queries.RoomView) []*RoomResponse {
	res := make([]*RoomResponse, len(views))
	for i, v := range views {
		res[i] = FromRoomView(v)
	}
	return res
}

type AvailabilityResponse struct {
	From  string          `json:"from"`
	To    string          `json:"to"`
	Rooms []*RoomResponse `json:"rooms"`
}
