package converter

import (
	"room-allocation-engine/internal/domain/hold"
	"room-allocation-engine/internal/domain/reservation"
	"room-allocation-engine/internal/domain/room"
	"room-allocation-engine/internal/domain/stay"
	"room-allocation-engine/internal/pkg/errs"
	"room-allocation-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type RoomRow struct {
	ID         string
	Building   string
	Floor      int32
	Number     string
	CategoryID string
	Status     string
	Clean      bool
	UpdatedAt  pgtype.Timestamptz
}

func RoomToDomain(row RoomRow) *room.Room {
	return room.ReconstructRoom(
		row.ID,
		room.Location{Building: row.Building, Floor: int(row.Floor), Number: row.Number},
		row.CategoryID,
		room.Status(row.Status),
		row.Clean,
		pgconv.TimeFromPgtype(row.UpdatedAt),
	)
}

type HoldRow struct {
	ID         uuid.UUID
	RoomID     string
	StartDate  pgtype.Date
	EndDate    pgtype.Date
	OwnerToken string
	CreatedAt  pgtype.Timestamptz
	ExpiresAt  pgtype.Timestamptz
}

func HoldToDomain(row HoldRow) (*hold.Hold, error) {
	rng, err := dateRange(row.StartDate, row.EndDate)
	if err != nil {
		return nil, errs.Wrapf(err, "hold %s", row.ID)
	}
	return hold.ReconstructHold(
		row.ID,
		row.RoomID,
		rng,
		row.OwnerToken,
		pgconv.TimeFromPgtype(row.CreatedAt),
		pgconv.TimeFromPgtype(row.ExpiresAt),
	), nil
}

type AssignmentRow struct {
	ID            uuid.UUID
	ReservationID uuid.UUID
	RoomID        string
	StartDate     pgtype.Date
	EndDate       pgtype.Date
	CreatedAt     pgtype.Timestamptz
}

func AssignmentToDomain(row AssignmentRow) (reservation.Assignment, error) {
	rng, err := dateRange(row.StartDate, row.EndDate)
	if err != nil {
		return reservation.Assignment{}, errs.Wrapf(err, "assignment %s", row.ID)
	}
	return reservation.ReconstructAssignment(
		row.ID,
		row.ReservationID,
		row.RoomID,
		rng,
		pgconv.TimeFromPgtype(row.CreatedAt),
	), nil
}

type ReservationRow struct {
	ID            uuid.UUID
	Type          string
	GuestID       pgtype.Text
	CompanyID     pgtype.Text
	DepositAmount pgtype.Numeric
	CurrencyID    pgtype.Text
	RateID        pgtype.Text
	Status        string
	CreatedAt     pgtype.Timestamptz
	UpdatedAt     pgtype.Timestamptz
}

// ReservationToDomain bypasses the constructors: stored rows were validated when written.
func ReservationToDomain(row ReservationRow, assignments []reservation.Assignment) (*reservation.Reservation, error) {
	amount, err := pgconv.DecimalFromNumeric(row.DepositAmount)
	if err != nil {
		return nil, errs.Wrapf(err, "reservation %s deposit", row.ID)
	}
	party, err := reservation.NewParty(pgconv.StringFromText(row.GuestID), pgconv.StringFromText(row.CompanyID))
	if err != nil {
		return nil, errs.Wrapf(err, "reservation %s party", row.ID)
	}
	deposit, err := reservation.NewDeposit(amount, pgconv.StringFromText(row.CurrencyID), pgconv.StringFromText(row.RateID))
	if err != nil {
		return nil, errs.Wrapf(err, "reservation %s deposit", row.ID)
	}
	return reservation.ReconstructReservation(
		row.ID,
		reservation.Type(row.Type),
		party,
		deposit,
		reservation.Status(row.Status),
		assignments,
		pgconv.TimeFromPgtype(row.CreatedAt),
		pgconv.TimeFromPgtype(row.UpdatedAt),
	), nil
}

func dateRange(start, end pgtype.Date) (stay.DateRange, error) {
	return stay.NewDateRange(pgconv.TimeFromDate(start), pgconv.TimeFromDate(end))
}
