package queries

import (
	"time"

	"room-allocation-engine/internal/domain/hold"
	"room-allocation-engine/internal/domain/reservation"
	"room-allocation-engine/internal/domain/room"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RoomView struct {
	ID         string
	Building   string
	Floor      int
	Number     string
	CategoryID string
	Status     string
	Clean      bool
	UpdatedAt  time.Time
}

func NewRoomView(r *room.Room) *RoomView {
	loc := r.Location()
	return &RoomView{
		ID:         r.ID(),
		Building:   loc.Building,
		Floor:      loc.Floor,
		Number:     loc.Number,
		CategoryID: r.CategoryID(),
		Status:     r.Status().String(),
		Clean:      r.IsClean(),
		UpdatedAt:  r.UpdatedAt(),
	}
}

func NewRoomViews(rooms []*room.Room) []*RoomView {
	out := make([]*RoomView, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, NewRoomView(r))
	}
	return out
}

type AssignmentView struct {
	ID     uuid.UUID
	RoomID string
	From   time.Time
	To     time.Time
	Nights int
}

type ReservationView struct {
	ID            uuid.UUID
	Type          string
	GuestID       string
	CompanyID     string
	DepositAmount decimal.Decimal
	CurrencyID    string
	RateID        string
	Status        string
	Assignments   []AssignmentView
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewReservationView(r *reservation.Reservation) *ReservationView {
	assignments := r.Assignments()
	v := &ReservationView{
		ID:            r.ID(),
		Type:          r.Type().String(),
		GuestID:       r.Party().GuestID(),
		CompanyID:     r.Party().CompanyID(),
		DepositAmount: r.Deposit().Amount(),
		CurrencyID:    r.Deposit().CurrencyID(),
		RateID:        r.Deposit().RateID(),
		Status:        r.Status().String(),
		Assignments:   make([]AssignmentView, 0, len(assignments)),
		CreatedAt:     r.CreatedAt(),
		UpdatedAt:     r.UpdatedAt(),
	}
	for _, a := range assignments {
		v.Assignments = append(v.Assignments, AssignmentView{
			ID:     a.ID(),
			RoomID: a.RoomID(),
			From:   a.DateRange().Start(),
			To:     a.DateRange().End(),
			Nights: a.DateRange().Nights(),
		})
	}
	return v
}

type HoldView struct {
	ID        uuid.UUID
	RoomID    string
	From      time.Time
	To        time.Time
	CreatedAt time.Time
	ExpiresAt time.Time
}

func NewHoldView(h *hold.Hold) *HoldView {
	return &HoldView{
		ID:        h.ID(),
		RoomID:    h.RoomID(),
		From:      h.DateRange().Start(),
		To:        h.DateRange().End(),
		CreatedAt: h.CreatedAt(),
		ExpiresAt: h.ExpiresAt(),
	}
}
