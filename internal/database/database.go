package database

import (
	"context"
	"fmt"
	"time"

	zerologadapter "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/newrelic/go-agent/v3/integrations/nrpgx5"
	"github.com/rs/zerolog"

	"github.com/akave-ai/confprompt/internal/config"
)

const pingTimeout = 5 * time.Second

// NewPool opens a pgx pool for cfg. Queries are traced through New Relic
// when withNewRelic is set, otherwise they are logged through logger.
func NewPool(ctx context.Context, cfg *config.DatabaseConfig, logger zerolog.Logger, withNewRelic bool) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	pcfg.MaxConns = int32(cfg.MaxOpenConns)
	pcfg.MinConns = int32(min(cfg.MaxIdleConns, cfg.MaxOpenConns))
	pcfg.MaxConnLifetime = time.Duration(cfg.ConnMaxLifetime) * time.Second
	pcfg.MaxConnIdleTime = time.Duration(cfg.ConnMaxIdleTime) * time.Second
	pcfg.ConnConfig.Tracer = newTracer(logger, withNewRelic)

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

func newTracer(logger zerolog.Logger, withNewRelic bool) pgx.QueryTracer {
	if withNewRelic {
		return nrpgx5.NewTracer()
	}
	level := tracelog.LogLevelWarn
	if logger.GetLevel() <= zerolog.DebugLevel {
		level = tracelog.LogLevelDebug
	}
	return &tracelog.TraceLog{
		Logger:   zerologadapter.NewLogger(logger.With().Str("component", "pgx").Logger()),
		LogLevel: level,
	}
}
