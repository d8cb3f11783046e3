package room

import (
	"errors"
	"strings"
	"time"

	"room-allocation-engine/internal/domain/stay"
)

var (
	ErrEmptyID       = errors.New("room id is required")
	ErrInvalidStatus = errors.New("invalid room status")
	ErrInvalidFloor  = errors.New("floor cannot be negative")
)

type Location struct {
	Building string
	Floor    int
	Number   string
}

type Room struct {
	id         string
	location   Location
	categoryID string
	status     Status
	clean      bool
	updatedAt  time.Time
}

// NewRoom registers inventory. New rooms start vacant and clean.
func NewRoom(id string, loc Location, categoryID string, now time.Time) (*Room, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrEmptyID
	}
	if loc.Floor < 0 {
		return nil, ErrInvalidFloor
	}
	return &Room{
		id:         id,
		location:   loc,
		categoryID: categoryID,
		status:     StatusVacant,
		clean:      true,
		updatedAt:  now,
	}, nil
}

func ReconstructRoom(id string, loc Location, categoryID string, status Status, clean bool, updatedAt time.Time) *Room {
	return &Room{
		id:         id,
		location:   loc,
		categoryID: categoryID,
		status:     status,
		clean:      clean,
		updatedAt:  updatedAt,
	}
}

func (r *Room) Relocate(loc Location, categoryID string, now time.Time) error {
	if loc.Floor < 0 {
		return ErrInvalidFloor
	}
	r.location = loc
	r.categoryID = categoryID
	r.updatedAt = now
	return nil
}

func (r *Room) SetStatus(s Status, now time.Time) error {
	if !s.IsValid() {
		return ErrInvalidStatus
	}
	r.status = s
	if s == StatusDirty {
		r.clean = false
	}
	r.updatedAt = now
	return nil
}

func (r *Room) MarkClean(clean bool, now time.Time) {
	r.clean = clean
	if clean && r.status == StatusDirty {
		r.status = StatusVacant
	}
	r.updatedAt = now
}

func (r *Room) Occupy(now time.Time) {
	r.status = StatusOccupied
	r.updatedAt = now
}

// Vacate is the check-out side effect: the room needs housekeeping before the next arrival.
func (r *Room) Vacate(now time.Time) {
	r.status = StatusDirty
	r.clean = false
	r.updatedAt = now
}

// IsAllocatable reports whether housekeeping state lets the room be handed out for rng.
// Out-of-order rooms never are; an unclean room cannot be given out for a stay starting today or earlier.
func (r *Room) IsAllocatable(rng stay.DateRange, today time.Time) bool {
	if r.status == StatusOutOfOrder {
		return false
	}
	if (!r.clean || r.status == StatusDirty) && !rng.Start().After(today) {
		return false
	}
	return true
}

func (r *Room) ID() string           { return r.id }
func (r *Room) Location() Location   { return r.location }
func (r *Room) CategoryID() string   { return r.categoryID }
func (r *Room) Status() Status       { return r.status }
func (r *Room) IsClean() bool        { return r.clean }
func (r *Room) UpdatedAt() time.Time { return r.updatedAt }

func (r *Room) Clone() *Room {
	c := *r
	return &c
}
