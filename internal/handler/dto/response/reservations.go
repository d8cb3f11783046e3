package response

import (
	"room-allocation-engine/internal/usecase/queries"
)

type HoldResponse struct {
	ID        string `json:"id"`
	RoomID    string `json:"room_id"`
	From      string `json:"from" copier:"-"`
	To        string `json:"to" copier:"-"`
	CreatedAt string `json:"created_at"`
	ExpiresAt string `json:"expires_at"`
}

func FromHoldView(v *queries.HoldView) *HoldResponse {
	var res HoldResponse
	copyInto(&res, v)
	res.From = formatDate(v.From)
	res.To = formatDate(v.To)
	return &res
}

func FromHoldViews(views []*queries.HoldView) []*HoldResponse {
	res := make([]*HoldResponse, len(views))
	for i, v := range views {
		res[i] = FromHoldView(v)
	}
	return res
}

type ReleasedHoldsResponse struct {
	Released int `json:"released"`
}

type AssignmentResponse struct {
	ID     string `json:"id"`
	RoomID string `json:"room_id"`
	From   string `json:"from" copier:"-"`
	To     string `json:"to" copier:"-"`
	Nights int    `json:"nights"`
}

type ReservationResponse struct {
	ID          string               `json:"id"`
	Type        string               `json:"type"`
	GuestID     string               `json:"guest_id,omitempty"`
	CompanyID   string               `json:"company_id,omitempty"`
	Deposit     DepositResponse      `json:"deposit" copier:"-"`
	Status      string               `json:"status"`
	Assignments []AssignmentResponse `json:"assignments" copier:"-"`
	CreatedAt   string               `json:"created_at"`
	UpdatedAt   string               `json:"updated_at"`
}

type DepositResponse struct {
	Amount     string `json:"amount"`
	CurrencyID string `json:"currency_id,omitempty"`
	RateID     string `json:"rate_id,omitempty"`
}

func FromReservationView(v *queries.ReservationView) *ReservationResponse {
	var res ReservationResponse
	copyInto(&res, v)
	res.Deposit = DepositResponse{
		Amount:     v.DepositAmount.StringFixed(2),
		CurrencyID: v.CurrencyID,
		RateID:     v.RateID,
	}
	res.Assignments = make([]AssignmentResponse, len(v.Assignments))
	for i, a := range v.Assignments {
		copyInto(&res.Assignments[i], a)
		res.Assignments[i].From = formatDate(a.From)
		res.Assignments[i].To = formatDate(a.To)
	}
	return &res
}

type SessionResponse struct {
	Token     string `json:"token"`
	SessionID string `json:"session_id"`
	Operator  string `json:"operator,omitempty"`
	ExpiresAt string `json:"expires_at"`
}
