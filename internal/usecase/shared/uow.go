package shared

import (
	"context"
	"time"

	"room-allocation-engine/internal/domain/hold"
	"room-allocation-engine/internal/domain/reservation"
	"room-allocation-engine/internal/domain/room"
	"room-allocation-engine/internal/domain/stay"

	"github.com/google/uuid"
)

// LockKey names a unit of serialisation. Writers holding the same key never overlap.
type LockKey string

func RoomLock(roomID string) LockKey {
	return LockKey("room:" + roomID)
}

func ReservationLock(id uuid.UUID) LockKey {
	return LockKey("reservation:" + id.String())
}

func RoomLocks(roomIDs []string) []LockKey {
	keys := make([]LockKey, 0, len(roomIDs))
	for _, id := range roomIDs {
		keys = append(keys, RoomLock(id))
	}
	return keys
}

type UnitOfWork interface {
	// Within: write transaction holding every key exclusively; all writes apply or none do
	Within(ctx context.Context, keys []LockKey, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: consistent snapshot for multi-room reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Rooms() RoomRepository
	Holds() HoldRepository
	Assignments() AssignmentRepository
	Reservations() ReservationRepository
}

// Repositories report missing rows with an error that matches errs.ErrNotFound.

type RoomRepository interface {
	FindByID(ctx context.Context, id string) (*room.Room, error)
	List(ctx context.Context, filter room.Filter) ([]*room.Room, error)
	Save(ctx context.Context, r *room.Room) error
	Delete(ctx context.Context, id string) error
}

type HoldRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*hold.Hold, error)
	ListByRoom(ctx context.Context, roomID string) ([]*hold.Hold, error)
	ListByOwner(ctx context.Context, ownerToken string) ([]*hold.Hold, error)
	ListOverlapping(ctx context.Context, rng stay.DateRange) ([]*hold.Hold, error)
	ListExpired(ctx context.Context, now time.Time) ([]*hold.Hold, error)
	Save(ctx context.Context, h *hold.Hold) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type AssignmentRepository interface {
	ListByRoom(ctx context.Context, roomID string) ([]reservation.Assignment, error)
	ListOverlapping(ctx context.Context, rng stay.DateRange) ([]reservation.Assignment, error)
	Save(ctx context.Context, a reservation.Assignment) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ReservationRepository interface {
	// FindByID loads the reservation together with its assignments
	FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*reservation.Reservation, error)
	// Save writes the reservation row only; assignments go through AssignmentRepository
	Save(ctx context.Context, r *reservation.Reservation) error
}
