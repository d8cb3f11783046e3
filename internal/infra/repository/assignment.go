package repository

import (
	"context"
	"log/slog"

	"room-allocation-engine/internal/domain/reservation"
	"room-allocation-engine/internal/domain/stay"
	"room-allocation-engine/internal/infra"
	"room-allocation-engine/internal/infra/repository/converter"
	"room-allocation-engine/internal/pkg/pgconv"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var assignmentColumns = []string{"id", "reservation_id", "room_id", "start_date", "end_date", "created_at"}

type AssignmentRepository struct {
	db     DBTX
	logger *slog.Logger
}

func NewAssignmentRepository(db DBTX, logger *slog.Logger) *AssignmentRepository {
	return &AssignmentRepository{db: db, logger: logger}
}

func scanAssignment(rows pgx.Rows) (reservation.Assignment, error) {
	var r converter.AssignmentRow
	if err := rows.Scan(&r.ID, &r.ReservationID, &r.RoomID, &r.StartDate, &r.EndDate, &r.CreatedAt); err != nil {
		return reservation.Assignment{}, err
	}
	return converter.AssignmentToDomain(r)
}

// selectAssignments orders the same way reservation.CompareAssignments does.
func (r *AssignmentRepository) selectAssignments() squirrel.SelectBuilder {
	return psql.Select(assignmentColumns...).From("room_assignments").OrderBy("start_date", `room_id COLLATE "C"`, "id")
}

func (r *AssignmentRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]reservation.Assignment, error) {
	return queryAll(ctx, r.db, r.logger, "assignment", q, scanAssignment)
}

func (r *AssignmentRepository) ListByRoom(ctx context.Context, roomID string) ([]reservation.Assignment, error) {
	return r.list(ctx, r.selectAssignments().Where(squirrel.Eq{"room_id": roomID}))
}

func (r *AssignmentRepository) ListOverlapping(ctx context.Context, rng stay.DateRange) ([]reservation.Assignment, error) {
	return r.list(ctx, r.selectAssignments().
		Where(squirrel.Lt{"start_date": pgconv.DateToPgtype(rng.End())}).
		Where(squirrel.Gt{"end_date": pgconv.DateToPgtype(rng.Start())}))
}

func (r *AssignmentRepository) ListByReservations(ctx context.Context, ids []uuid.UUID) ([]reservation.Assignment, error) {
	return r.list(ctx, r.selectAssignments().Where(squirrel.Eq{"reservation_id": ids}))
}

func (r *AssignmentRepository) Save(ctx context.Context, a reservation.Assignment) error {
	q := psql.Insert("room_assignments").
		Columns(assignmentColumns...).
		Values(
			a.ID(), a.ReservationID(), a.RoomID(),
			pgconv.DateToPgtype(a.DateRange().Start()), pgconv.DateToPgtype(a.DateRange().End()),
			pgconv.TimeToPgtype(a.CreatedAt()),
		).
		Suffix("ON CONFLICT (id) DO UPDATE SET start_date = EXCLUDED.start_date, end_date = EXCLUDED.end_date")
	_, err := exec(ctx, r.db, r.logger, "assignment", "save assignment", q)
	return err
}

func (r *AssignmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := exec(ctx, r.db, r.logger, "assignment", "delete assignment", psql.Delete("room_assignments").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return err
	}
	if n == 0 {
		return infra.NotFound("assignment", id.String())
	}
	return nil
}
