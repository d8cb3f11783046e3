package request

import (
	"room-allocation-engine/internal/domain/stay"
	"room-allocation-engine/internal/pkg/errs"
	"room-allocation-engine/internal/usecase/queries"
)

type PlaceHoldRequest struct {
	RoomID string `json:"room_id" binding:"required,max=64"`
	From   string `json:"from" binding:"required,iso_date"`
	To     string `json:"to" binding:"required,iso_date"`
}

func (r PlaceHoldRequest) DateRange() (stay.DateRange, error) {
	return parseRange(r.From, r.To, errs.Detail{RoomID: r.RoomID})
}

type AvailabilityQuery struct {
	From       string `form:"from" binding:"required,iso_date"`
	To         string `form:"to" binding:"required,iso_date"`
	CategoryID string `form:"category_id"`
}

func (q AvailabilityQuery) ToQuery(ownerToken string) (queries.AvailabilityQuery, error) {
	rng, err := parseRange(q.From, q.To, errs.Detail{})
	if err != nil {
		return queries.AvailabilityQuery{}, err
	}
	return queries.AvailabilityQuery{
		Range:      rng,
		CategoryID: q.CategoryID,
		OwnerToken: ownerToken,
	}, nil
}

type TimelineQuery struct {
	From       string   `form:"from" binding:"required,iso_date"`
	To         string   `form:"to" binding:"required,iso_date"`
	RoomIDs    []string `form:"room_id"`
	CategoryID string   `form:"category_id"`
	Building   string   `form:"building"`
}

func (q TimelineQuery) ToFilter() (stay.DateRange, queries.TimelineFilter, error) {
	rng, err := parseRange(q.From, q.To, errs.Detail{})
	if err != nil {
		return stay.DateRange{}, queries.TimelineFilter{}, err
	}
	return rng, queries.TimelineFilter{
		RoomIDs:    q.RoomIDs,
		CategoryID: q.CategoryID,
		Building:   q.Building,
	}, nil
}
