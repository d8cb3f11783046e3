package response

import (
	"time"

	"room-allocation-engine/internal/usecase/queries"
)

type SegmentResponse struct {
	Kind              string `json:"kind"`
	ID                string `json:"id"`
	RoomID            string `json:"room_id"`
	From              string `json:"from"`
	To                string `json:"to"`
	ReservationID     string `json:"reservation_id,omitempty"`
	ReservationType   string `json:"reservation_type,omitempty"`
	ReservationStatus string `json:"reservation_status,omitempty"`
	GuestID           string `json:"guest_id,omitempty"`
	CompanyID         string `json:"company_id,omitempty"`
	HoldExpiresAt     string `json:"hold_expires_at,omitempty"`
}

type TimelineRowResponse struct {
	Room     *RoomResponse     `json:"room"`
	Segments []SegmentResponse `json:"segments"`
}

type DayBucketResponse struct {
	Date     string `json:"date"`
	Occupied int    `json:"occupied"`
	Held     int    `json:"held"`
	Free     int    `json:"free"`
}

type TimelineResponse struct {
	From string                `json:"from"`
	To   string                `json:"to"`
	Rows []TimelineRowResponse `json:"rows"`
	Days []DayBucketResponse   `json:"days"`
}

func fromSegment(s queries.Segment) SegmentResponse {
	res := SegmentResponse{
		Kind:              string(s.Kind),
		ID:                s.ID.String(),
		RoomID:            s.RoomID,
		From:              formatDate(s.Range.Start()),
		To:                formatDate(s.Range.End()),
		ReservationType:   s.ReservationType.String(),
		ReservationStatus: s.ReservationStatus.String(),
		GuestID:           s.GuestID,
		CompanyID:         s.CompanyID,
	}
	if s.Kind == queries.SegmentBooking {
		res.ReservationID = s.ReservationID.String()
	}
	if !s.HoldExpiresAt.IsZero() {
		res.HoldExpiresAt = s.HoldExpiresAt.UTC().Format(time.RFC3339)
	}
	return res
}

func FromTimeline(tl *queries.Timeline) *TimelineResponse {
	res := &TimelineResponse{
		From: formatDate(tl.Range.Start()),
		To:   formatDate(tl.Range.End()),
		Rows: make([]TimelineRowResponse, len(tl.Rows)),
		Days: make([]DayBucketResponse, len(tl.Days)),
	}
	for i, row := range tl.Rows {
		segs := make([]SegmentResponse, len(row.Segments))
		for j, s := range row.Segments {
			segs[j] = fromSegment(s)
		}
		res.Rows[i] = TimelineRowResponse{Room: FromRoomView(row.Room), Segments: segs}
	}
	for i, d := range tl.Days {
		res.Days[i] = DayBucketResponse{
			Date:     formatDate(d.Date),
			Occupied: d.Occupied,
			Held:     d.Held,
			Free:     d.Free,
		}
	}
	return res
}
