package reservation

import (
	"errors"
	"fmt"
	"strings"

	"room-allocation-engine/internal/domain/stay"
	"room-allocation-engine/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrMissingParty    = errors.New("guest or company reference is required")
	ErrNegativeDeposit = errors.New("deposit amount cannot be negative")
	ErrInvalidType     = errors.New("invalid reservation type")
)

// Party points at guest and company records owned by another system.
type Party struct {
	guestID   string
	companyID string
}

func NewParty(guestID, companyID string) (Party, error) {
	guestID, companyID = strings.TrimSpace(guestID), strings.TrimSpace(companyID)
	if guestID == "" && companyID == "" {
		return Party{}, ErrMissingParty
	}
	return Party{guestID: guestID, companyID: companyID}, nil
}

func (p Party) GuestID() string   { return p.guestID }
func (p Party) CompanyID() string { return p.companyID }

// Deposit stores the figure the operator picked. Currency and rate are opaque references.
type Deposit struct {
	amount     decimal.Decimal
	currencyID string
	rateID     string
}

func NewDeposit(amount decimal.Decimal, currencyID, rateID string) (Deposit, error) {
	if amount.IsNegative() {
		return Deposit{}, ErrNegativeDeposit
	}
	return Deposit{amount: amount, currencyID: currencyID, rateID: rateID}, nil
}

func (d Deposit) Amount() decimal.Decimal { return d.amount }
func (d Deposit) CurrencyID() string      { return d.currencyID }
func (d Deposit) RateID() string          { return d.rateID }

type DraftEntry struct {
	RoomID string
	Range  stay.DateRange
	HoldID *uuid.UUID
}

// Draft is everything the booking wizard collected, handed over once for commit.
type Draft struct {
	ReservationID *uuid.UUID
	Type          Type
	Party         Party
	Deposit       Deposit
	OwnerToken    string
	Entries       []DraftEntry
}

// CheckComposition covers the room-count rules: at least one entry, exactly one for individual stays.
func (d Draft) CheckComposition() error {
	if !d.Type.IsValid() {
		return errs.Reject(errs.ErrInvalidComposition, errs.Detail{}, "unknown reservation type %q", d.Type)
	}
	if len(d.Entries) == 0 {
		return errs.Reject(errs.ErrInvalidComposition, errs.Detail{}, "at least one room is required")
	}
	if !d.Type.AllowsMultipleRooms() && len(d.Entries) != 1 {
		return errs.Reject(errs.ErrInvalidComposition, errs.Detail{},
			"%s reservation takes exactly one room, got %d", d.Type, len(d.Entries))
	}
	return nil
}

// CheckEntries rejects malformed ranges and entries that collide with each other on the same room.
func (d Draft) CheckEntries() error {
	for i, e := range d.Entries {
		if e.RoomID == "" {
			return errs.Reject(errs.ErrInvalidComposition, errs.Detail{}, "entry %d has no room", i)
		}
		if e.Range.IsZero() {
			return errs.Reject(errs.ErrInvalidRange, errs.Detail{RoomID: e.RoomID}, "entry %d has no date range", i)
		}
	}
	for i := range d.Entries {
		for j := i + 1; j < len(d.Entries); j++ {
			a, b := d.Entries[i], d.Entries[j]
			if a.RoomID == b.RoomID && a.Range.Overlaps(b.Range) {
				return errs.Reject(errs.ErrRoomConflict,
					errs.Detail{RoomID: a.RoomID, Range: b.Range.String()},
					"draft requests room %s twice for overlapping dates %s and %s", a.RoomID, a.Range, b.Range)
			}
		}
	}
	return nil
}

// RoomIDs lists the distinct rooms of the draft.
func (d Draft) RoomIDs() []string {
	seen := make(map[string]struct{}, len(d.Entries))
	ids := make([]string, 0, len(d.Entries))
	for _, e := range d.Entries {
		if _, ok := seen[e.RoomID]; ok {
			continue
		}
		seen[e.RoomID] = struct{}{}
		ids = append(ids, e.RoomID)
	}
	return ids
}

func (e DraftEntry) String() string {
	return fmt.Sprintf("%s%s", e.RoomID, e.Range)
}
