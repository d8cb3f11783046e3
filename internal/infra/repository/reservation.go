package repository

import (
	"context"
	"log/slog"

	"room-allocation-engine/internal/domain/reservation"
	"room-allocation-engine/internal/infra"
	"room-allocation-engine/internal/infra/repository/converter"
	"room-allocation-engine/internal/pkg/pgconv"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var reservationColumns = []string{
	"id", "type", "guest_id", "company_id", "deposit_amount", "currency_id", "rate_id", "status", "created_at", "updated_at",
}

type ReservationRepository struct {
	db          DBTX
	logger      *slog.Logger
	assignments *AssignmentRepository
}

func NewReservationRepository(db DBTX, logger *slog.Logger, assignments *AssignmentRepository) *ReservationRepository {
	return &ReservationRepository{db: db, logger: logger, assignments: assignments}
}

func scanReservationRow(rows pgx.Rows) (converter.ReservationRow, error) {
	var r converter.ReservationRow
	err := rows.Scan(&r.ID, &r.Type, &r.GuestID, &r.CompanyID, &r.DepositAmount, &r.CurrencyID, &r.RateID, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

func (r *ReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	found, err := r.FindByIDs(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, infra.NotFound("reservation", id.String())
	}
	return found[0], nil
}

// FindByIDs skips ids that do not exist. Results follow the order of ids.
func (r *ReservationRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*reservation.Reservation, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := queryAll(ctx, r.db, r.logger, "reservation",
		psql.Select(reservationColumns...).From("reservations").Where(squirrel.Eq{"id": ids}),
		scanReservationRow)
	if err != nil {
		return nil, err
	}
	assignments, err := r.assignments.ListByReservations(ctx, ids)
	if err != nil {
		return nil, err
	}
	byReservation := make(map[uuid.UUID][]reservation.Assignment, len(rows))
	for _, a := range assignments {
		byReservation[a.ReservationID()] = append(byReservation[a.ReservationID()], a)
	}

	byID := make(map[uuid.UUID]*reservation.Reservation, len(rows))
	for _, row := range rows {
		res, err := converter.ReservationToDomain(row, byReservation[row.ID])
		if err != nil {
			return nil, wrap(r.logger, "reservation", "map reservation", err)
		}
		byID[row.ID] = res
	}
	out := make([]*reservation.Reservation, 0, len(byID))
	for _, id := range ids {
		if res, ok := byID[id]; ok {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r *ReservationRepository) Save(ctx context.Context, res *reservation.Reservation) error {
	party, deposit := res.Party(), res.Deposit()
	q := psql.Insert("reservations").
		Columns(reservationColumns...).
		Values(
			res.ID(), res.Type().String(),
			pgconv.OptionalText(party.GuestID()), pgconv.OptionalText(party.CompanyID()),
			pgconv.NumericFromDecimal(deposit.Amount()),
			pgconv.OptionalText(deposit.CurrencyID()), pgconv.OptionalText(deposit.RateID()),
			res.Status().String(),
			pgconv.TimeToPgtype(res.CreatedAt()), pgconv.TimeToPgtype(res.UpdatedAt()),
		).
		Suffix("ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at")
	_, err := exec(ctx, r.db, r.logger, "reservation", "save reservation", q)
	return err
}
