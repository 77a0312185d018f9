package app

import (
	"context"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/dirty-thirty/internal/config"
	"github.com/riskibarqy/dirty-thirty/internal/domain/kv"
	"github.com/riskibarqy/dirty-thirty/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/dirty-thirty/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/dirty-thirty/internal/platform/logging"
)

const dbPingTimeout = 5 * time.Second

func openStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (kv.Store, func() error, error) {
	if cfg.StoreDriver != config.StorePostgres {
		logger.Info("using in-memory pick store")
		return memory.NewKVStore(), func() error { return nil }, nil
	}

	target := resolvePostgresTarget(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Open("postgres", target.DSN,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(target.Name),
		otelsql.WithQueryFormatter(traceKVQuery),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres: %w", err)
	}
	otelsql.ReportDBStatsMetrics(db.DB)

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping postgres: %w", err)
	}

	logger.Info("using postgres pick store", "db_name", target.Name)
	return postgres.NewKVStore(db), db.Close, nil
}
