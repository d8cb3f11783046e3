package components

import (
	"context"
	"log/slog"

	"room-allocation-engine/internal/infra/db"
	"room-allocation-engine/internal/infra/memory"
	"room-allocation-engine/internal/infra/uow"
	"room-allocation-engine/internal/pkg/config"
	"room-allocation-engine/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewUnitOfWork,
	),
)

// NewUnitOfWork picks the ledger backend. The postgres pool is only opened when it is selected.
func NewUnitOfWork(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (shared.UnitOfWork, error) {
	switch cfg.Ledger.Backend {
	case config.LedgerPostgres:
		pool, err := NewDB(lc, cfg, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("ledger backend selected", "backend", cfg.Ledger.Backend, "db", cfg.DB.DBName)
		return uow.NewPostgresUoW(pool, logger), nil
	default:
		logger.Info("ledger backend selected", "backend", cfg.Ledger.Backend)
		return memory.NewLedger(logger), nil
	}
}

func NewDB(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	pool, cleanup, err := db.Connect(context.Background(), cfg.DB, logger)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if cleanup != nil {
				cleanup()
			}
			return nil
		},
	})

	return pool, nil
}
