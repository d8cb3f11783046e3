package queries

//go:generate mockgen -source=timeline.go -destination=../../../tests/mock/queries/timeline.go -package=queriesmock

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"room-allocation-engine/internal/domain/reservation"
	"room-allocation-engine/internal/domain/room"
	"room-allocation-engine/internal/domain/stay"
	"room-allocation-engine/internal/pkg/errs"
	"room-allocation-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type SegmentKind string

const (
	SegmentBooking SegmentKind = "booking"
	SegmentHold    SegmentKind = "hold"
)

// Segment is one bar on the timeline, already clipped to the requested window.
type Segment struct {
	Kind   SegmentKind
	RoomID string
	Range  stay.DateRange
	// ID is the assignment id for bookings and the hold id for hold blocks.
	// After a merge it is the smallest id of the merged pieces.
	ID uuid.UUID

	ReservationID     uuid.UUID
	ReservationType   reservation.Type
	ReservationStatus reservation.Status
	GuestID           string
	CompanyID         string

	HoldExpiresAt time.Time

	owner string
}

type TimelineRow struct {
	Room     *RoomView
	Segments []Segment
}

type DayBucket struct {
	Date     time.Time
	Occupied int
	Held     int
	Free     int
}

type Timeline struct {
	Range stay.DateRange
	Rows  []TimelineRow
	Days  []DayBucket
}

// Segments flattens the rows in render order: start date, room id, segment id.
func (t *Timeline) Segments() []Segment {
	var all []Segment
	for _, row := range t.Rows {
		all = append(all, row.Segments...)
	}
	slices.SortFunc(all, compareSegments)
	return all
}

type TimelineFilter struct {
	RoomIDs    []string
	CategoryID string
	Building   string
}

type TimelineQueries interface {
	Project(ctx context.Context, rng stay.DateRange, filter TimelineFilter) (*Timeline, error)
}

type timelineQueriesImpl struct {
	uow shared.UnitOfWork
	cal shared.Calendar
}

func NewTimelineQueries(uow shared.UnitOfWork, cal shared.Calendar) TimelineQueries {
	return &timelineQueriesImpl{uow: uow, cal: cal}
}

func (q *timelineQueriesImpl) Project(ctx context.Context, rng stay.DateRange, filter TimelineFilter) (*Timeline, error) {
	if err := shared.RequireRange(rng); err != nil {
		return nil, err
	}
	now := q.cal.Now()

	tl := &Timeline{Range: rng}
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		rooms, err := tx.Rooms().List(ctx, room.Filter{
			IDs:        filter.RoomIDs,
			CategoryID: filter.CategoryID,
			Building:   filter.Building,
		})
		if err != nil {
			return errs.Wrap(err, "list timeline rooms")
		}
		included := make(map[string]int, len(rooms))
		for i, rm := range rooms {
			included[rm.ID()] = i
			tl.Rows = append(tl.Rows, TimelineRow{Room: NewRoomView(rm)})
		}

		assignments, err := tx.Assignments().ListOverlapping(ctx, rng)
		if err != nil {
			return errs.Wrap(err, "list assignments in window")
		}
		reservations, err := q.loadReservations(ctx, tx, assignments)
		if err != nil {
			return err
		}
		holds, err := tx.Holds().ListOverlapping(ctx, rng)
		if err != nil {
			return errs.Wrap(err, "list holds in window")
		}

		pieces := make(map[string][]Segment, len(rooms))
		for _, a := range assignments {
			if _, ok := included[a.RoomID()]; !ok {
				continue
			}
			clipped, ok := a.DateRange().Clip(rng)
			if !ok {
				continue
			}
			seg := Segment{
				Kind:          SegmentBooking,
				RoomID:        a.RoomID(),
				Range:         clipped,
				ID:            a.ID(),
				ReservationID: a.ReservationID(),
				owner:         a.ReservationID().String(),
			}
			if res, ok := reservations[a.ReservationID()]; ok {
				seg.ReservationType = res.Type()
				seg.ReservationStatus = res.Status()
				seg.GuestID = res.Party().GuestID()
				seg.CompanyID = res.Party().CompanyID()
			}
			pieces[a.RoomID()] = append(pieces[a.RoomID()], seg)
		}
		for _, h := range shared.ActiveHolds(holds, now) {
			if _, ok := included[h.RoomID()]; !ok {
				continue
			}
			clipped, ok := h.DateRange().Clip(rng)
			if !ok {
				continue
			}
			pieces[h.RoomID()] = append(pieces[h.RoomID()], Segment{
				Kind:          SegmentHold,
				RoomID:        h.RoomID(),
				Range:         clipped,
				ID:            h.ID(),
				HoldExpiresAt: h.ExpiresAt(),
				owner:         h.OwnerToken(),
			})
		}

		for roomID, segs := range pieces {
			row := &tl.Rows[included[roomID]]
			row.Segments = mergeSegments(segs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	tl.Days = bucketDays(tl)
	return tl, nil
}

func (q *timelineQueriesImpl) loadReservations(ctx context.Context, tx shared.Tx, assignments []reservation.Assignment) (map[uuid.UUID]*reservation.Reservation, error) {
	ids := make([]uuid.UUID, 0, len(assignments))
	for _, a := range assignments {
		if !slices.Contains(ids, a.ReservationID()) {
			ids = append(ids, a.ReservationID())
		}
	}
	found, err := tx.Reservations().FindByIDs(ctx, ids)
	if err != nil {
		return nil, errs.Wrap(err, "load reservations for timeline")
	}
	out := make(map[uuid.UUID]*reservation.Reservation, len(found))
	for _, r := range found {
		out[r.ID()] = r
	}
	return out, nil
}

func compareSegments(a, b Segment) int {
	return cmp.Or(
		a.Range.Start().Compare(b.Range.Start()),
		strings.Compare(a.RoomID, b.RoomID),
		strings.Compare(a.ID.String(), b.ID.String()),
	)
}

// mergeSegments joins touching or overlapping pieces of the same kind and owner on one room.
func mergeSegments(segs []Segment) []Segment {
	slices.SortFunc(segs, compareSegments)

	type key struct {
		kind  SegmentKind
		owner string
	}
	last := make(map[key]int)
	out := make([]Segment, 0, len(segs))
	for _, s := range segs {
		k := key{s.Kind, s.owner}
		if i, ok := last[k]; ok && out[i].Range.Touches(s.Range) {
			m := &out[i]
			m.Range = m.Range.Union(s.Range)
			if strings.Compare(s.ID.String(), m.ID.String()) < 0 {
				m.ID = s.ID
			}
			if s.HoldExpiresAt.After(m.HoldExpiresAt) {
				m.HoldExpiresAt = s.HoldExpiresAt
			}
			continue
		}
		last[k] = len(out)
		out = append(out, s)
	}
	slices.SortFunc(out, compareSegments)
	return out
}

func bucketDays(tl *Timeline) []DayBucket {
	days := tl.Range.Days()
	buckets := make([]DayBucket, 0, len(days))
	for _, d := range days {
		b := DayBucket{Date: d}
		for _, row := range tl.Rows {
			booked, held := false, false
			for _, s := range row.Segments {
				if !s.Range.Contains(d) {
					continue
				}
				switch s.Kind {
				case SegmentBooking:
					booked = true
				case SegmentHold:
					held = true
				}
			}
			switch {
			case booked:
				b.Occupied++
			case held:
				b.Held++
			default:
				b.Free++
			}
		}
		buckets = append(buckets, b)
	}
	return buckets
}
