package shared

import (
	"context"
	"errors"
	"time"

	"room-allocation-engine/internal/domain/hold"
	"room-allocation-engine/internal/domain/reservation"
	"room-allocation-engine/internal/domain/room"
	"room-allocation-engine/internal/domain/stay"
	"room-allocation-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

// Occupancy is everything the ledger holds against one room.
type Occupancy struct {
	Room        *room.Room
	Assignments []reservation.Assignment
	Holds       []*hold.Hold
}

// Claim describes who asks about which nights.
type Claim struct {
	Range      stay.DateRange
	OwnerToken string
	Now        time.Time
	Today      time.Time
	// IgnoreAssignment skips the assignment being amended
	IgnoreAssignment uuid.UUID
}

func LoadOccupancy(ctx context.Context, tx Tx, roomID string) (*Occupancy, error) {
	rm, err := tx.Rooms().FindByID(ctx, roomID)
	if err != nil {
		return nil, NotFoundOr(err, errs.Detail{RoomID: roomID}, "room %s not found", roomID)
	}
	assignments, err := tx.Assignments().ListByRoom(ctx, roomID)
	if err != nil {
		return nil, errs.Wrapf(err, "list assignments of room %s", roomID)
	}
	holds, err := tx.Holds().ListByRoom(ctx, roomID)
	if err != nil {
		return nil, errs.Wrapf(err, "list holds of room %s", roomID)
	}
	return &Occupancy{Room: rm, Assignments: assignments, Holds: holds}, nil
}

// Blocker returns a rejection of the given kind naming the first committed assignment or
// foreign active hold that overlaps the claim, or nil when the nights are free.
// Every entry is tested; nothing relies on list order.
func (o *Occupancy) Blocker(p Claim, kind error) error {
	roomID := o.Room.ID()
	for _, a := range o.Assignments {
		if a.ID() == p.IgnoreAssignment {
			continue
		}
		if a.DateRange().Overlaps(p.Range) {
			return errs.Reject(kind, errs.Detail{
				RoomID:        roomID,
				ReservationID: a.ReservationID().String(),
				AssignmentID:  a.ID().String(),
				Range:         a.DateRange().String(),
			}, "room %s is booked for %s, requested %s", roomID, a.DateRange(), p.Range)
		}
	}
	for _, h := range o.Holds {
		if h.Blocks(p.Range, p.OwnerToken, p.Now) {
			return errs.Reject(kind, errs.Detail{
				RoomID: roomID,
				HoldID: h.ID().String(),
				Range:  h.DateRange().String(),
			}, "room %s is held by another session for %s, requested %s", roomID, h.DateRange(), p.Range)
		}
	}
	return nil
}

// CheckHousekeeping rejects rooms that cannot be handed out for the claim range.
func (o *Occupancy) CheckHousekeeping(p Claim) error {
	if o.Room.IsAllocatable(p.Range, p.Today) {
		return nil
	}
	return errs.Reject(errs.ErrRoomUnavailable,
		errs.Detail{RoomID: o.Room.ID(), Range: p.Range.String()},
		"room %s is %s (clean=%t)", o.Room.ID(), o.Room.Status(), o.Room.IsClean())
}

func (o *Occupancy) Available(p Claim) bool {
	return o.CheckHousekeeping(p) == nil && o.Blocker(p, errs.ErrRoomUnavailable) == nil
}

// ActiveHolds drops holds that expired before now, swept or not.
func ActiveHolds(holds []*hold.Hold, now time.Time) []*hold.Hold {
	active := make([]*hold.Hold, 0, len(holds))
	for _, h := range holds {
		if h.IsActive(now) {
			active = append(active, h)
		}
	}
	return active
}

// NotFoundOr turns a repository miss into a NotFound rejection carrying detail;
// other failures are wrapped and passed on.
func NotFoundOr(err error, detail errs.Detail, format string, args ...any) error {
	if errors.Is(err, errs.ErrNotFound) {
		return errs.Reject(errs.ErrNotFound, detail, format, args...)
	}
	return errs.Wrap(err, "ledger read failed")
}

// RequireRange rejects the zero range; NewDateRange already guarantees start < end otherwise.
func RequireRange(rng stay.DateRange) error {
	if rng.IsZero() {
		return errs.Reject(errs.ErrInvalidRange, errs.Detail{}, "date range is required")
	}
	return nil
}
