//go:build unit || e2e

package builder

import (
	"room-allocation-engine/internal/domain/reservation"
	"room-allocation-engine/internal/domain/stay"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DraftBuilder assembles booking wizard drafts for tests.
type DraftBuilder struct {
	ReservationID *uuid.UUID
	Type          reservation.Type
	GuestID       string
	CompanyID     string
	Amount        decimal.Decimal
	CurrencyID    string
	RateID        string
	OwnerToken    string
	Entries       []reservation.DraftEntry
}

func NewDraftBuilder() *DraftBuilder {
	return &DraftBuilder{
		Type:       reservation.TypeIndividual,
		GuestID:    "guest-1",
		Amount:     decimal.RequireFromString("150.00"),
		CurrencyID: "JPY",
		RateID:     "rack",
		OwnerToken: "session-a",
	}
}

func (b *DraftBuilder) With(mutate func(*DraftBuilder)) *DraftBuilder {
	mutate(b)
	return b
}

func (b *DraftBuilder) WithType(t reservation.Type) *DraftBuilder {
	b.Type = t
	return b
}

func (b *DraftBuilder) WithOwner(token string) *DraftBuilder {
	b.OwnerToken = token
	return b
}

// WithRoom adds one entry; from and to are YYYY-MM-DD.
func (b *DraftBuilder) WithRoom(roomID, from, to string) *DraftBuilder {
	b.Entries = append(b.Entries, reservation.DraftEntry{RoomID: roomID, Range: stay.MustDateRange(from, to)})
	return b
}

// WithHeldRoom adds one entry that consumes the given hold.
func (b *DraftBuilder) WithHeldRoom(roomID, from, to string, holdID uuid.UUID) *DraftBuilder {
	b.Entries = append(b.Entries, reservation.DraftEntry{
		RoomID: roomID,
		Range:  stay.MustDateRange(from, to),
		HoldID: &holdID,
	})
	return b
}

func (b *DraftBuilder) ForReservation(id uuid.UUID) *DraftBuilder {
	b.ReservationID = &id
	return b
}

func (b *DraftBuilder) Build() reservation.Draft {
	party, err := reservation.NewParty(b.GuestID, b.CompanyID)
	if err != nil {
		panic(err)
	}
	deposit, err := reservation.NewDeposit(b.Amount, b.CurrencyID, b.RateID)
	if err != nil {
		panic(err)
	}
	return reservation.Draft{
		ReservationID: b.ReservationID,
		Type:          b.Type,
		Party:         party,
		Deposit:       deposit,
		OwnerToken:    b.OwnerToken,
		Entries:       append([]reservation.DraftEntry(nil), b.Entries...),
	}
}

// BuildRequestDTO renders the draft as the JSON body of POST /api/reservations.
func (b *DraftBuilder) BuildRequestDTO() map[string]any {
	entries := make([]map[string]any, 0, len(b.Entries))
	for _, e := range b.Entries {
		m := map[string]any{
			"room_id": e.RoomID,
			"from":    e.Range.Start().Format(stay.DateLayout),
			"to":      e.Range.End().Format(stay.DateLayout),
		}
		if e.HoldID != nil {
			m["hold_id"] = e.HoldID.String()
		}
		entries = append(entries, m)
	}
	body := map[string]any{
		"type":    string(b.Type),
		"party":   map[string]any{"guest_id": b.GuestID, "company_id": b.CompanyID},
		"deposit": map[string]any{"amount": b.Amount.String(), "currency_id": b.CurrencyID, "rate_id": b.RateID},
		"entries": entries,
	}
	if b.ReservationID != nil {
		body["reservation_id"] = b.ReservationID.String()
	}
	return body
}
