package repository

import (
	"context"
	"errors"
	"log/slog"

	"room-allocation-engine/internal/infra"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool, *pgxpool.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func classify(err error) infra.RepositoryErrorKind {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return infra.KindDBFailure
	}
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return infra.KindDuplicateKey
	case pgerrcode.ForeignKeyViolation:
		return infra.KindForeignKeyViolated
	case pgerrcode.ExclusionViolation:
		return infra.KindOverlapViolated
	default:
		return infra.KindDBFailure
	}
}

func wrap(logger *slog.Logger, entity, op string, err error) error {
	return infra.WrapRepoErr(logger, classify(err), entity, op, err)
}

// queryAll runs a built statement and maps every row with scan.
func queryAll[T any](ctx context.Context, db DBTX, logger *slog.Logger, entity string, b squirrel.Sqlizer, scan func(pgx.Rows) (T, error)) ([]T, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, wrap(logger, entity, "build query", err)
	}
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap(logger, entity, "query", err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, wrap(logger, entity, "scan", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(logger, entity, "iterate rows", err)
	}
	return out, nil
}

func exec(ctx context.Context, db DBTX, logger *slog.Logger, entity, op string, b squirrel.Sqlizer) (int64, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, wrap(logger, entity, "build "+op, err)
	}
	tag, err := db.Exec(ctx, query, args...)
	if err != nil {
		return 0, wrap(logger, entity, op, err)
	}
	return tag.RowsAffected(), nil
}
