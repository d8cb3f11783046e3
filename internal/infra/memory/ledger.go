package memory

import (
	"context"
	"log/slog"
	"sync"

	"room-allocation-engine/internal/domain/hold"
	"room-allocation-engine/internal/domain/reservation"
	"room-allocation-engine/internal/domain/room"
	"room-allocation-engine/internal/pkg/keylock"
	"room-allocation-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type idSet map[uuid.UUID]struct{}

// Ledger keeps rooms, holds, assignments and reservations in process memory.
//
// Writers are serialised per lock key by a keyed mutex; their changes are staged on the
// transaction and applied under mu in one step, so a reader holding mu.RLock never sees
// half of a commit.
type Ledger struct {
	logger *slog.Logger
	locks  *keylock.Locker

	mu           sync.RWMutex
	rooms        map[string]*room.Room
	holds        map[uuid.UUID]*hold.Hold
	assignments  map[uuid.UUID]reservation.Assignment
	reservations map[uuid.UUID]*reservation.Reservation

	holdsByRoom        map[string]idSet
	assignmentsByRoom  map[string]idSet
	assignmentsByResID map[uuid.UUID]idSet
}

func NewLedger(logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{
		logger:             logger,
		locks:              keylock.New(),
		rooms:              make(map[string]*room.Room),
		holds:              make(map[uuid.UUID]*hold.Hold),
		assignments:        make(map[uuid.UUID]reservation.Assignment),
		reservations:       make(map[uuid.UUID]*reservation.Reservation),
		holdsByRoom:        make(map[string]idSet),
		assignmentsByRoom:  make(map[string]idSet),
		assignmentsByResID: make(map[uuid.UUID]idSet),
	}
}

var _ shared.UnitOfWork = (*Ledger)(nil)

func (l *Ledger) Within(ctx context.Context, keys []shared.LockKey, fn func(ctx context.Context, tx shared.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = string(k)
	}
	unlock, err := l.locks.Lock(ctx, names...)
	if err != nil {
		return err
	}
	defer unlock()

	t := newTx(l, false)
	if err := fn(ctx, t); err != nil {
		return err
	}

	l.mu.Lock()
	l.apply(t.changes)
	l.mu.Unlock()

	l.logger.Debug("ledger commit", "keys", names, "changes", t.changes.size())
	return nil
}

func (l *Ledger) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return fn(ctx, newTx(l, true))
}

// apply runs with mu held for writing.
func (l *Ledger) apply(c *changes) {
	for id, ch := range c.rooms {
		if ch.deleted {
			delete(l.rooms, id)
			continue
		}
		l.rooms[id] = ch.value
	}

	for id, ch := range c.holds {
		if old, ok := l.holds[id]; ok {
			removeFromIndex(l.holdsByRoom, old.RoomID(), id)
			delete(l.holds, id)
		}
		if ch.deleted {
			continue
		}
		l.holds[id] = ch.value
		addToIndex(l.holdsByRoom, ch.value.RoomID(), id)
	}

	for id, ch := range c.assignments {
		if old, ok := l.assignments[id]; ok {
			removeFromIndex(l.assignmentsByRoom, old.RoomID(), id)
			removeFromIndex(l.assignmentsByResID, old.ReservationID(), id)
			delete(l.assignments, id)
		}
		if ch.deleted {
			continue
		}
		l.assignments[id] = ch.value
		addToIndex(l.assignmentsByRoom, ch.value.RoomID(), id)
		addToIndex(l.assignmentsByResID, ch.value.ReservationID(), id)
	}

	for id, ch := range c.reservations {
		if ch.deleted {
			delete(l.reservations, id)
			continue
		}
		l.reservations[id] = ch.value
	}
}

func addToIndex[K comparable](idx map[K]idSet, key K, id uuid.UUID) {
	set, ok := idx[key]
	if !ok {
		set = make(idSet)
		idx[key] = set
	}
	set[id] = struct{}{}
}

func removeFromIndex[K comparable](idx map[K]idSet, key K, id uuid.UUID) {
	set, ok := idx[key]
	if !ok {
		return
	}
	delete(set, id)
	if len(set) == 0 {
		delete(idx, key)
	}
}
