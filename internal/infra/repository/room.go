package repository

import (
	"context"
	"log/slog"

	"room-allocation-engine/internal/domain/room"
	"room-allocation-engine/internal/infra"
	"room-allocation-engine/internal/infra/repository/converter"
	"room-allocation-engine/internal/pkg/pgconv"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

var roomColumns = []string{"id", "building", "floor", "number", "category_id", "status", "clean", "updated_at"}

type RoomRepository struct {
	db     DBTX
	logger *slog.Logger
}

func NewRoomRepository(db DBTX, logger *slog.Logger) *RoomRepository {
	return &RoomRepository{db: db, logger: logger}
}

func scanRoom(row pgx.Row) (*room.Room, error) {
	var r converter.RoomRow
	if err := row.Scan(&r.ID, &r.Building, &r.Floor, &r.Number, &r.CategoryID, &r.Status, &r.Clean, &r.UpdatedAt); err != nil {
		return nil, err
	}
	return converter.RoomToDomain(r), nil
}

func (r *RoomRepository) FindByID(ctx context.Context, id string) (*room.Room, error) {
	query, args, err := psql.Select(roomColumns...).From("rooms").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, wrap(r.logger, "room", "build find room query", err)
	}
	rm, err := scanRoom(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.NotFound("room", id)
		}
		return nil, wrap(r.logger, "room", "find room", err)
	}
	return rm, nil
}

func (r *RoomRepository) List(ctx context.Context, filter room.Filter) ([]*room.Room, error) {
	q := psql.Select(roomColumns...).From("rooms").OrderBy(`id COLLATE "C"`)
	if len(filter.IDs) > 0 {
		q = q.Where(squirrel.Eq{"id": filter.IDs})
	}
	if filter.CategoryID != "" {
		q = q.Where(squirrel.Eq{"category_id": filter.CategoryID})
	}
	if filter.Building != "" {
		q = q.Where(squirrel.Eq{"building": filter.Building})
	}
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"status": filter.Status.String()})
	}
	return queryAll(ctx, r.db, r.logger, "room", q, func(rows pgx.Rows) (*room.Room, error) {
		return scanRoom(rows)
	})
}

func (r *RoomRepository) Save(ctx context.Context, rm *room.Room) error {
	loc := rm.Location()
	q := psql.Insert("rooms").
		Columns(roomColumns...).
		Values(rm.ID(), loc.Building, loc.Floor, loc.Number, rm.CategoryID(), rm.Status().String(), rm.IsClean(), pgconv.TimeToPgtype(rm.UpdatedAt())).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			building = EXCLUDED.building,
			floor = EXCLUDED.floor,
			number = EXCLUDED.number,
			category_id = EXCLUDED.category_id,
			status = EXCLUDED.status,
			clean = EXCLUDED.clean,
			updated_at = EXCLUDED.updated_at`)
	_, err := exec(ctx, r.db, r.logger, "room", "save room", q)
	return err
}

func (r *RoomRepository) Delete(ctx context.Context, id string) error {
	n, err := exec(ctx, r.db, r.logger, "room", "delete room", psql.Delete("rooms").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return err
	}
	if n == 0 {
		return infra.NotFound("room", id)
	}
	return nil
}
