package request

import (
	"room-allocation-engine/internal/domain/reservation"
	"room-allocation-engine/internal/domain/stay"
	"room-allocation-engine/internal/pkg/errs"
	"room-allocation-engine/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DepositRequest struct {
	Amount     decimal.Decimal `json:"amount"`
	CurrencyID string          `json:"currency_id" binding:"omitempty,max=64"`
	RateID     string          `json:"rate_id" binding:"omitempty,max=64"`
}

func (d DepositRequest) toDomain() (reservation.Deposit, error) {
	dep, err := reservation.NewDeposit(d.Amount, d.CurrencyID, d.RateID)
	if err != nil {
		return reservation.Deposit{}, errs.Reject(errs.ErrValidation, errs.Detail{}, "%s", err.Error())
	}
	return dep, nil
}

type PartyRequest struct {
	GuestID   string `json:"guest_id" binding:"omitempty,max=64"`
	CompanyID string `json:"company_id" binding:"omitempty,max=64"`
}

func (p PartyRequest) toDomain() (reservation.Party, error) {
	party, err := reservation.NewParty(p.GuestID, p.CompanyID)
	if err != nil {
		return reservation.Party{}, errs.Reject(errs.ErrInvalidComposition, errs.Detail{}, "%s", err.Error())
	}
	return party, nil
}

type OpenTentativeRequest struct {
	Type    string         `json:"type" binding:"required,reservation_type"`
	Party   PartyRequest   `json:"party"`
	Deposit DepositRequest `json:"deposit"`
}

func (r OpenTentativeRequest) ToInput() (commands.OpenTentativeInput, error) {
	party, err := r.Party.toDomain()
	if err != nil {
		return commands.OpenTentativeInput{}, err
	}
	deposit, err := r.Deposit.toDomain()
	if err != nil {
		return commands.OpenTentativeInput{}, err
	}
	return commands.OpenTentativeInput{
		Type:    reservation.Type(r.Type),
		Party:   party,
		Deposit: deposit,
	}, nil
}

type DraftEntryRequest struct {
	RoomID string     `json:"room_id" binding:"required,max=64"`
	From   string     `json:"from" binding:"required,iso_date"`
	To     string     `json:"to" binding:"required,iso_date"`
	HoldID *uuid.UUID `json:"hold_id"`
}

// CommitReservationRequest is the whole wizard draft. Room-count rules are left to the domain
// so they come back as composition errors rather than binding failures.
type CommitReservationRequest struct {
	ReservationID *uuid.UUID          `json:"reservation_id"`
	Type          string              `json:"type" binding:"required,reservation_type"`
	Party         PartyRequest        `json:"party"`
	Deposit       DepositRequest      `json:"deposit"`
	Entries       []DraftEntryRequest `json:"entries" binding:"dive"`
}

func (r CommitReservationRequest) ToDraft(ownerToken string) (reservation.Draft, error) {
	party, err := r.Party.toDomain()
	if err != nil {
		return reservation.Draft{}, err
	}
	deposit, err := r.Deposit.toDomain()
	if err != nil {
		return reservation.Draft{}, err
	}
	entries := make([]reservation.DraftEntry, 0, len(r.Entries))
	for _, e := range r.Entries {
		rng, err := parseRange(e.From, e.To, errs.Detail{RoomID: e.RoomID})
		if err != nil {
			return reservation.Draft{}, err
		}
		entries = append(entries, reservation.DraftEntry{
			RoomID: e.RoomID,
			Range:  rng,
			HoldID: e.HoldID,
		})
	}
	return reservation.Draft{
		ReservationID: r.ReservationID,
		Type:          reservation.Type(r.Type),
		Party:         party,
		Deposit:       deposit,
		OwnerToken:    ownerToken,
		Entries:       entries,
	}, nil
}

type AmendAssignmentRequest struct {
	From string `json:"from" binding:"required,iso_date"`
	To   string `json:"to" binding:"required,iso_date"`
}

func (r AmendAssignmentRequest) DateRange(assignmentID uuid.UUID) (stay.DateRange, error) {
	return parseRange(r.From, r.To, errs.Detail{AssignmentID: assignmentID.String()})
}

type OpenSessionRequest struct {
	Operator string `json:"operator" binding:"omitempty,max=64"`
}
