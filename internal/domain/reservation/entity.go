package reservation

import (
	"slices"
	"strings"
	"time"

	"room-allocation-engine/internal/domain/stay"
	"room-allocation-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

// Assignment binds one room to one date range under a reservation. Only cancellation,
// no-show, early check-out and amendment change it.
type Assignment struct {
	id            uuid.UUID
	reservationID uuid.UUID
	roomID        string
	dateRange     stay.DateRange
	createdAt     time.Time
}

func NewAssignment(reservationID uuid.UUID, roomID string, rng stay.DateRange, now time.Time) Assignment {
	return Assignment{
		id:            uuid.New(),
		reservationID: reservationID,
		roomID:        roomID,
		dateRange:     rng,
		createdAt:     now,
	}
}

func ReconstructAssignment(id, reservationID uuid.UUID, roomID string, rng stay.DateRange, createdAt time.Time) Assignment {
	return Assignment{
		id:            id,
		reservationID: reservationID,
		roomID:        roomID,
		dateRange:     rng,
		createdAt:     createdAt,
	}
}

func (a Assignment) ID() uuid.UUID             { return a.id }
func (a Assignment) ReservationID() uuid.UUID  { return a.reservationID }
func (a Assignment) RoomID() string            { return a.roomID }
func (a Assignment) DateRange() stay.DateRange { return a.dateRange }
func (a Assignment) CreatedAt() time.Time      { return a.createdAt }

func (a Assignment) WithRange(rng stay.DateRange) Assignment {
	a.dateRange = rng
	return a
}

// CompareAssignments orders by start date, then room id, then assignment id.
func CompareAssignments(a, b Assignment) int {
	if c := a.dateRange.Start().Compare(b.dateRange.Start()); c != 0 {
		return c
	}
	if c := strings.Compare(a.roomID, b.roomID); c != 0 {
		return c
	}
	return strings.Compare(a.id.String(), b.id.String())
}

type Reservation struct {
	id          uuid.UUID
	kind        Type
	party       Party
	deposit     Deposit
	status      Status
	assignments []Assignment
	createdAt   time.Time
	updatedAt   time.Time
}

func NewTentative(kind Type, party Party, deposit Deposit, now time.Time) (*Reservation, error) {
	if !kind.IsValid() {
		return nil, ErrInvalidType
	}
	return &Reservation{
		id:        uuid.New(),
		kind:      kind,
		party:     party,
		deposit:   deposit,
		status:    StatusTentative,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructReservation(
	id uuid.UUID,
	kind Type,
	party Party,
	deposit Deposit,
	status Status,
	assignments []Assignment,
	createdAt, updatedAt time.Time,
) *Reservation {
	r := &Reservation{
		id:          id,
		kind:        kind,
		party:       party,
		deposit:     deposit,
		status:      status,
		assignments: slices.Clone(assignments),
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
	slices.SortFunc(r.assignments, CompareAssignments)
	return r
}

func (r *Reservation) transition(next Status, now time.Time) error {
	if !r.status.CanTransitionTo(next) {
		return errs.Reject(errs.ErrInvalidTransition,
			errs.Detail{ReservationID: r.id.String()},
			"cannot move reservation from %s to %s", r.status, next)
	}
	r.status = next
	r.updatedAt = now
	return nil
}

// Confirm attaches the committed assignments. The caller has already validated them against the ledger.
func (r *Reservation) Confirm(assignments []Assignment, now time.Time) error {
	if len(assignments) == 0 {
		return errs.Reject(errs.ErrInvalidComposition, errs.Detail{ReservationID: r.id.String()},
			"a confirmed reservation needs at least one room")
	}
	if !r.kind.AllowsMultipleRooms() && len(assignments) != 1 {
		return errs.Reject(errs.ErrInvalidComposition, errs.Detail{ReservationID: r.id.String()},
			"%s reservation takes exactly one room", r.kind)
	}
	if err := r.transition(StatusConfirmed, now); err != nil {
		return err
	}
	r.assignments = slices.Clone(assignments)
	slices.SortFunc(r.assignments, CompareAssignments)
	return nil
}

// CheckIn needs today to be one of the booked nights. It returns the assignments covering today.
func (r *Reservation) CheckIn(today, now time.Time) ([]Assignment, error) {
	if r.status != StatusConfirmed {
		return nil, r.transition(StatusCheckedIn, now)
	}
	var current []Assignment
	for _, a := range r.assignments {
		if a.dateRange.Contains(today) {
			current = append(current, a)
		}
	}
	if len(current) == 0 {
		return nil, errs.Reject(errs.ErrInvalidTransition,
			errs.Detail{ReservationID: r.id.String(), Range: r.Span().String()},
			"check-in on %s is outside the booked stay", today.Format(stay.DateLayout))
	}
	if err := r.transition(StatusCheckedIn, now); err != nil {
		return nil, err
	}
	return current, nil
}

// CheckOut ends the stay. Assignments running past today are cut back to end today (shortened);
// assignments that had not started yet are dropped (released).
func (r *Reservation) CheckOut(today, now time.Time) (shortened []Assignment, released []Assignment, err error) {
	if err := r.transition(StatusCheckedOut, now); err != nil {
		return nil, nil, err
	}
	kept := make([]Assignment, 0, len(r.assignments))
	for _, a := range r.assignments {
		if !a.dateRange.End().After(today) {
			kept = append(kept, a)
			continue
		}
		cut, ok := a.dateRange.WithEnd(today)
		if !ok {
			released = append(released, a)
			continue
		}
		a = a.WithRange(cut)
		shortened = append(shortened, a)
		kept = append(kept, a)
	}
	r.assignments = kept
	return shortened, released, nil
}

// Cancel frees every room. The removed assignments are returned for the ledger to delete.
func (r *Reservation) Cancel(now time.Time) ([]Assignment, error) {
	if err := r.transition(StatusCancelled, now); err != nil {
		return nil, err
	}
	removed := r.assignments
	r.assignments = nil
	return removed, nil
}

// MarkNoShow is only possible once the arrival date has passed. Every assignment is released.
func (r *Reservation) MarkNoShow(today, now time.Time) ([]Assignment, error) {
	if r.status == StatusConfirmed && !today.After(r.Arrival()) {
		return nil, errs.Reject(errs.ErrInvalidTransition,
			errs.Detail{ReservationID: r.id.String(), Range: r.Span().String()},
			"arrival on %s has not passed yet", r.Arrival().Format(stay.DateLayout))
	}
	if err := r.transition(StatusNoShow, now); err != nil {
		return nil, err
	}
	removed := r.assignments
	r.assignments = nil
	return removed, nil
}

// Amend swaps the range of one assignment. Ledger conflicts are checked by the caller.
func (r *Reservation) Amend(assignmentID uuid.UUID, rng stay.DateRange, now time.Time) (before, after Assignment, err error) {
	if !r.status.HoldsRooms() {
		return Assignment{}, Assignment{}, errs.Reject(errs.ErrInvalidTransition,
			errs.Detail{ReservationID: r.id.String(), AssignmentID: assignmentID.String()},
			"cannot amend a %s reservation", r.status)
	}
	for i, a := range r.assignments {
		if a.id != assignmentID {
			continue
		}
		before = a
		after = a.WithRange(rng)
		r.assignments[i] = after
		slices.SortFunc(r.assignments, CompareAssignments)
		r.updatedAt = now
		return before, after, nil
	}
	return Assignment{}, Assignment{}, errs.Reject(errs.ErrNotFound,
		errs.Detail{ReservationID: r.id.String(), AssignmentID: assignmentID.String()},
		"assignment not found on reservation")
}

// Arrival is the earliest assignment start, zero when nothing is assigned.
func (r *Reservation) Arrival() time.Time {
	if len(r.assignments) == 0 {
		return time.Time{}
	}
	arrival := r.assignments[0].dateRange.Start()
	for _, a := range r.assignments[1:] {
		if a.dateRange.Start().Before(arrival) {
			arrival = a.dateRange.Start()
		}
	}
	return arrival
}

// Span covers every assignment. Zero when nothing is assigned.
func (r *Reservation) Span() stay.DateRange {
	if len(r.assignments) == 0 {
		return stay.DateRange{}
	}
	span := r.assignments[0].dateRange
	for _, a := range r.assignments[1:] {
		span = span.Union(a.dateRange)
	}
	return span
}

func (r *Reservation) RoomIDs() []string {
	ids := make([]string, 0, len(r.assignments))
	for _, a := range r.assignments {
		if !slices.Contains(ids, a.roomID) {
			ids = append(ids, a.roomID)
		}
	}
	return ids
}

func (r *Reservation) ID() uuid.UUID        { return r.id }
func (r *Reservation) Type() Type           { return r.kind }
func (r *Reservation) Party() Party         { return r.party }
func (r *Reservation) Deposit() Deposit     { return r.deposit }
func (r *Reservation) Status() Status       { return r.status }
func (r *Reservation) CreatedAt() time.Time { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time { return r.updatedAt }

func (r *Reservation) Assignments() []Assignment {
	return slices.Clone(r.assignments)
}

func (r *Reservation) Clone() *Reservation {
	c := *r
	c.assignments = slices.Clone(r.assignments)
	return &c
}
