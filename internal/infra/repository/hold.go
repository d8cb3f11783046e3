package repository

import (
	"context"
	"log/slog"
	"time"

	"room-allocation-engine/internal/domain/hold"
	"room-allocation-engine/internal/domain/stay"
	"room-allocation-engine/internal/infra"
	"room-allocation-engine/internal/infra/repository/converter"
	"room-allocation-engine/internal/pkg/pgconv"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var holdColumns = []string{"id", "room_id", "start_date", "end_date", "owner_token", "created_at", "expires_at"}

type HoldRepository struct {
	db     DBTX
	logger *slog.Logger
}

func NewHoldRepository(db DBTX, logger *slog.Logger) *HoldRepository {
	return &HoldRepository{db: db, logger: logger}
}

func scanHold(row pgx.Row) (*hold.Hold, error) {
	var r converter.HoldRow
	if err := row.Scan(&r.ID, &r.RoomID, &r.StartDate, &r.EndDate, &r.OwnerToken, &r.CreatedAt, &r.ExpiresAt); err != nil {
		return nil, err
	}
	return converter.HoldToDomain(r)
}

func (r *HoldRepository) selectHolds() squirrel.SelectBuilder {
	return psql.Select(holdColumns...).From("room_holds").OrderBy("start_date", "id")
}

func (r *HoldRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*hold.Hold, error) {
	return queryAll(ctx, r.db, r.logger, "hold", q, func(rows pgx.Rows) (*hold.Hold, error) {
		return scanHold(rows)
	})
}

func (r *HoldRepository) FindByID(ctx context.Context, id uuid.UUID) (*hold.Hold, error) {
	query, args, err := psql.Select(holdColumns...).From("room_holds").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, wrap(r.logger, "hold", "build find hold query", err)
	}
	h, err := scanHold(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.NotFound("hold", id.String())
		}
		return nil, wrap(r.logger, "hold", "find hold", err)
	}
	return h, nil
}

func (r *HoldRepository) ListByRoom(ctx context.Context, roomID string) ([]*hold.Hold, error) {
	return r.list(ctx, r.selectHolds().Where(squirrel.Eq{"room_id": roomID}))
}

func (r *HoldRepository) ListByOwner(ctx context.Context, ownerToken string) ([]*hold.Hold, error) {
	return r.list(ctx, r.selectHolds().Where(squirrel.Eq{"owner_token": ownerToken}))
}

func (r *HoldRepository) ListOverlapping(ctx context.Context, rng stay.DateRange) ([]*hold.Hold, error) {
	return r.list(ctx, r.selectHolds().
		Where(squirrel.Lt{"start_date": pgconv.DateToPgtype(rng.End())}).
		Where(squirrel.Gt{"end_date": pgconv.DateToPgtype(rng.Start())}))
}

func (r *HoldRepository) ListExpired(ctx context.Context, now time.Time) ([]*hold.Hold, error) {
	return r.list(ctx, r.selectHolds().Where(squirrel.LtOrEq{"expires_at": pgconv.TimeToPgtype(now)}))
}

func (r *HoldRepository) Save(ctx context.Context, h *hold.Hold) error {
	q := psql.Insert("room_holds").
		Columns(holdColumns...).
		Values(
			h.ID(), h.RoomID(),
			pgconv.DateToPgtype(h.DateRange().Start()), pgconv.DateToPgtype(h.DateRange().End()),
			h.OwnerToken(),
			pgconv.TimeToPgtype(h.CreatedAt()), pgconv.TimeToPgtype(h.ExpiresAt()),
		).
		Suffix("ON CONFLICT (id) DO UPDATE SET expires_at = EXCLUDED.expires_at")
	_, err := exec(ctx, r.db, r.logger, "hold", "save hold", q)
	return err
}

func (r *HoldRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := exec(ctx, r.db, r.logger, "hold", "delete hold", psql.Delete("room_holds").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return err
	}
	if n == 0 {
		return infra.NotFound("hold", id.String())
	}
	return nil
}
