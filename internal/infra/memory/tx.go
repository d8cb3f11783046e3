package memory

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"room-allocation-engine/internal/domain/hold"
	"room-allocation-engine/internal/domain/reservation"
	"room-allocation-engine/internal/domain/room"
	"room-allocation-engine/internal/domain/stay"
	"room-allocation-engine/internal/infra"
	"room-allocation-engine/internal/pkg/errs"
	"room-allocation-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

var errReadOnly = errs.New("write attempted in a read-only transaction")

type change[V any] struct {
	value   V
	deleted bool
}

type changes struct {
	rooms        map[string]change[*room.Room]
	holds        map[uuid.UUID]change[*hold.Hold]
	assignments  map[uuid.UUID]change[reservation.Assignment]
	reservations map[uuid.UUID]change[*reservation.Reservation]
}

func (c *changes) size() int {
	return len(c.rooms) + len(c.holds) + len(c.assignments) + len(c.reservations)
}

// tx reads committed state overlaid with its own staged writes.
type tx struct {
	l        *Ledger
	readOnly bool
	changes  *changes
}

func newTx(l *Ledger, readOnly bool) *tx {
	return &tx{
		l:        l,
		readOnly: readOnly,
		changes: &changes{
			rooms:        make(map[string]change[*room.Room]),
			holds:        make(map[uuid.UUID]change[*hold.Hold]),
			assignments:  make(map[uuid.UUID]change[reservation.Assignment]),
			reservations: make(map[uuid.UUID]change[*reservation.Reservation]),
		},
	}
}

func (t *tx) Rooms() shared.RoomRepository               { return roomRepo{t} }
func (t *tx) Holds() shared.HoldRepository               { return holdRepo{t} }
func (t *tx) Assignments() shared.AssignmentRepository   { return assignmentRepo{t} }
func (t *tx) Reservations() shared.ReservationRepository { return reservationRepo{t} }

// read runs fn against committed state. Read-only transactions already hold mu.
func (t *tx) read(fn func()) {
	if t.readOnly {
		fn()
		return
	}
	t.l.mu.RLock()
	defer t.l.mu.RUnlock()
	fn()
}

func (t *tx) writable() error {
	if t.readOnly {
		return errReadOnly
	}
	return nil
}

// overlay replaces committed values by staged ones and appends staged inserts that pass keep.
func overlay[K comparable, V any](committed []V, key func(V) K, staged map[K]change[V], keep func(V) bool) []V {
	out := make([]V, 0, len(committed))
	for _, v := range committed {
		if _, ok := staged[key(v)]; ok {
			continue
		}
		out = append(out, v)
	}
	for _, ch := range staged {
		if !ch.deleted && keep(ch.value) {
			out = append(out, ch.value)
		}
	}
	return out
}

// -----------------------------------------------------------------------------
// rooms
// -----------------------------------------------------------------------------

type roomRepo struct{ t *tx }

func (r roomRepo) FindByID(_ context.Context, id string) (*room.Room, error) {
	if ch, ok := r.t.changes.rooms[id]; ok {
		if ch.deleted {
			return nil, infra.NotFound("room", id)
		}
		return ch.value.Clone(), nil
	}
	var found *room.Room
	r.t.read(func() {
		if rm, ok := r.t.l.rooms[id]; ok {
			found = rm.Clone()
		}
	})
	if found == nil {
		return nil, infra.NotFound("room", id)
	}
	return found, nil
}

func (r roomRepo) List(_ context.Context, filter room.Filter) ([]*room.Room, error) {
	var committed []*room.Room
	r.t.read(func() {
		committed = make([]*room.Room, 0, len(r.t.l.rooms))
		for _, rm := range r.t.l.rooms {
			if filter.Matches(rm) {
				committed = append(committed, rm)
			}
		}
	})
	out := overlay(committed, (*room.Room).ID, r.t.changes.rooms, filter.Matches)
	for i, rm := range out {
		out[i] = rm.Clone()
	}
	slices.SortFunc(out, func(a, b *room.Room) int { return strings.Compare(a.ID(), b.ID()) })
	return out, nil
}

func (r roomRepo) Save(_ context.Context, rm *room.Room) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	r.t.changes.rooms[rm.ID()] = change[*room.Room]{value: rm.Clone()}
	return nil
}

func (r roomRepo) Delete(ctx context.Context, id string) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	r.t.changes.rooms[id] = change[*room.Room]{deleted: true}
	return nil
}

// -----------------------------------------------------------------------------
// holds
// -----------------------------------------------------------------------------

type holdRepo struct{ t *tx }

func compareHolds(a, b *hold.Hold) int {
	if c := a.DateRange().Start().Compare(b.DateRange().Start()); c != 0 {
		return c
	}
	return strings.Compare(a.ID().String(), b.ID().String())
}

func (r holdRepo) FindByID(_ context.Context, id uuid.UUID) (*hold.Hold, error) {
	if ch, ok := r.t.changes.holds[id]; ok {
		if ch.deleted {
			return nil, infra.NotFound("hold", id.String())
		}
		return ch.value.Clone(), nil
	}
	var found *hold.Hold
	r.t.read(func() {
		if h, ok := r.t.l.holds[id]; ok {
			found = h.Clone()
		}
	})
	if found == nil {
		return nil, infra.NotFound("hold", id.String())
	}
	return found, nil
}

func (r holdRepo) list(keep func(*hold.Hold) bool, fromIndex func() []*hold.Hold) []*hold.Hold {
	var committed []*hold.Hold
	r.t.read(func() {
		for _, h := range fromIndex() {
			if keep(h) {
				committed = append(committed, h)
			}
		}
	})
	out := overlay(committed, (*hold.Hold).ID, r.t.changes.holds, keep)
	for i, h := range out {
		out[i] = h.Clone()
	}
	slices.SortFunc(out, compareHolds)
	return out
}

func (r holdRepo) all() []*hold.Hold {
	out := make([]*hold.Hold, 0, len(r.t.l.holds))
	for _, h := range r.t.l.holds {
		out = append(out, h)
	}
	return out
}

func (r holdRepo) ListByRoom(_ context.Context, roomID string) ([]*hold.Hold, error) {
	keep := func(h *hold.Hold) bool { return h.RoomID() == roomID }
	return r.list(keep, func() []*hold.Hold {
		ids := r.t.l.holdsByRoom[roomID]
		out := make([]*hold.Hold, 0, len(ids))
		for id := range ids {
			out = append(out, r.t.l.holds[id])
		}
		return out
	}), nil
}

func (r holdRepo) ListByOwner(_ context.Context, ownerToken string) ([]*hold.Hold, error) {
	return r.list(func(h *hold.Hold) bool { return h.OwnerToken() == ownerToken }, r.all), nil
}

func (r holdRepo) ListOverlapping(_ context.Context, rng stay.DateRange) ([]*hold.Hold, error) {
	return r.list(func(h *hold.Hold) bool { return h.DateRange().Overlaps(rng) }, r.all), nil
}

func (r holdRepo) ListExpired(_ context.Context, now time.Time) ([]*hold.Hold, error) {
	return r.list(func(h *hold.Hold) bool { return !h.IsActive(now) }, r.all), nil
}

func (r holdRepo) Save(_ context.Context, h *hold.Hold) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	r.t.changes.holds[h.ID()] = change[*hold.Hold]{value: h.Clone()}
	return nil
}

func (r holdRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	r.t.changes.holds[id] = change[*hold.Hold]{deleted: true}
	return nil
}

// -----------------------------------------------------------------------------
// assignments
// -----------------------------------------------------------------------------

type assignmentRepo struct{ t *tx }

func (r assignmentRepo) list(keep func(reservation.Assignment) bool, fromIndex func() []reservation.Assignment) []reservation.Assignment {
	var committed []reservation.Assignment
	r.t.read(func() {
		for _, a := range fromIndex() {
			if keep(a) {
				committed = append(committed, a)
			}
		}
	})
	out := overlay(committed, reservation.Assignment.ID, r.t.changes.assignments, keep)
	slices.SortFunc(out, reservation.CompareAssignments)
	return out
}

func (r assignmentRepo) fromSet(ids idSet) []reservation.Assignment {
	out := make([]reservation.Assignment, 0, len(ids))
	for id := range ids {
		out = append(out, r.t.l.assignments[id])
	}
	return out
}

func (r assignmentRepo) ListByRoom(_ context.Context, roomID string) ([]reservation.Assignment, error) {
	keep := func(a reservation.Assignment) bool { return a.RoomID() == roomID }
	return r.list(keep, func() []reservation.Assignment {
		return r.fromSet(r.t.l.assignmentsByRoom[roomID])
	}), nil
}

func (r assignmentRepo) ListOverlapping(_ context.Context, rng stay.DateRange) ([]reservation.Assignment, error) {
	keep := func(a reservation.Assignment) bool { return a.DateRange().Overlaps(rng) }
	return r.list(keep, func() []reservation.Assignment {
		out := make([]reservation.Assignment, 0, len(r.t.l.assignments))
		for _, a := range r.t.l.assignments {
			out = append(out, a)
		}
		return out
	}), nil
}

func (r assignmentRepo) listByReservation(id uuid.UUID) []reservation.Assignment {
	keep := func(a reservation.Assignment) bool { return a.ReservationID() == id }
	return r.list(keep, func() []reservation.Assignment {
		return r.fromSet(r.t.l.assignmentsByResID[id])
	})
}

func (r assignmentRepo) Save(_ context.Context, a reservation.Assignment) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	r.t.changes.assignments[a.ID()] = change[reservation.Assignment]{value: a}
	return nil
}

func (r assignmentRepo) Delete(_ context.Context, id uuid.UUID) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	exists := false
	if ch, ok := r.t.changes.assignments[id]; ok {
		exists = !ch.deleted
	} else {
		r.t.read(func() { _, exists = r.t.l.assignments[id] })
	}
	if !exists {
		return infra.NotFound("assignment", id.String())
	}
	r.t.changes.assignments[id] = change[reservation.Assignment]{deleted: true}
	return nil
}

// -----------------------------------------------------------------------------
// reservations
// -----------------------------------------------------------------------------

type reservationRepo struct{ t *tx }

func (r reservationRepo) header(id uuid.UUID) *reservation.Reservation {
	if ch, ok := r.t.changes.reservations[id]; ok {
		if ch.deleted {
			return nil
		}
		return ch.value
	}
	var found *reservation.Reservation
	r.t.read(func() { found = r.t.l.reservations[id] })
	return found
}

func (r reservationRepo) FindByID(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	h := r.header(id)
	if h == nil {
		return nil, infra.NotFound("reservation", id.String())
	}
	assignments := assignmentRepo(r).listByReservation(id)
	return reservation.ReconstructReservation(
		h.ID(), h.Type(), h.Party(), h.Deposit(), h.Status(), assignments, h.CreatedAt(), h.UpdatedAt(),
	), nil
}

func (r reservationRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*reservation.Reservation, error) {
	out := make([]*reservation.Reservation, 0, len(ids))
	for _, id := range ids {
		res, err := r.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

func (r reservationRepo) Save(_ context.Context, res *reservation.Reservation) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	header := reservation.ReconstructReservation(
		res.ID(), res.Type(), res.Party(), res.Deposit(), res.Status(), nil, res.CreatedAt(), res.UpdatedAt(),
	)
	r.t.changes.reservations[res.ID()] = change[*reservation.Reservation]{value: header}
	return nil
}
