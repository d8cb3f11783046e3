package hold

import (
	"errors"
	"time"

	"room-allocation-engine/internal/domain/stay"

	"github.com/google/uuid"
)

const DefaultTTL = 15 * time.Minute

var (
	ErrEmptyOwner  = errors.New("owner token is required")
	ErrEmptyRoom   = errors.New("room id is required")
	ErrInvalidTTL  = errors.New("hold ttl must be positive")
	ErrHoldExpired = errors.New("hold expired")
)

// Hold keeps a room out of availability for one wizard session until it expires.
type Hold struct {
	id         uuid.UUID
	roomID     string
	dateRange  stay.DateRange
	ownerToken string
	createdAt  time.Time
	expiresAt  time.Time
}

func NewHold(roomID string, rng stay.DateRange, ownerToken string, now time.Time, ttl time.Duration) (*Hold, error) {
	if roomID == "" {
		return nil, ErrEmptyRoom
	}
	if ownerToken == "" {
		return nil, ErrEmptyOwner
	}
	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}
	return &Hold{
		id:         uuid.New(),
		roomID:     roomID,
		dateRange:  rng,
		ownerToken: ownerToken,
		createdAt:  now,
		expiresAt:  now.Add(ttl),
	}, nil
}

func ReconstructHold(id uuid.UUID, roomID string, rng stay.DateRange, ownerToken string, createdAt, expiresAt time.Time) *Hold {
	return &Hold{
		id:         id,
		roomID:     roomID,
		dateRange:  rng,
		ownerToken: ownerToken,
		createdAt:  createdAt,
		expiresAt:  expiresAt,
	}
}

// IsActive is true strictly before expiresAt. A hold read at or after expiry does not exist.
func (h *Hold) IsActive(now time.Time) bool {
	return h.expiresAt.After(now)
}

func (h *Hold) OwnedBy(token string) bool {
	return token != "" && h.ownerToken == token
}

// Blocks reports whether the hold keeps rng unavailable for token at now.
func (h *Hold) Blocks(rng stay.DateRange, token string, now time.Time) bool {
	return h.IsActive(now) && !h.OwnedBy(token) && h.dateRange.Overlaps(rng)
}

func (h *Hold) Extend(now time.Time, ttl time.Duration) error {
	if ttl <= 0 {
		return ErrInvalidTTL
	}
	if !h.IsActive(now) {
		return ErrHoldExpired
	}
	h.expiresAt = now.Add(ttl)
	return nil
}

func (h *Hold) ID() uuid.UUID             { return h.id }
func (h *Hold) RoomID() string            { return h.roomID }
func (h *Hold) DateRange() stay.DateRange { return h.dateRange }
func (h *Hold) OwnerToken() string        { return h.ownerToken }
func (h *Hold) CreatedAt() time.Time      { return h.createdAt }
func (h *Hold) ExpiresAt() time.Time      { return h.expiresAt }

func (h *Hold) Clone() *Hold {
	c := *h
	return &c
}
