package db

import (
	"context"
	"fmt"
	"time"

	"aimploy/pkg/types"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

const (
	applicationName = "aimploy"
	pingTimeout     = 5 * time.Second
)

// Connect opens a pool against DATABASE_URL and pings it. Unqualified table
// names resolve against the configured schema unless the URL already sets a
// search_path.
func Connect(ctx context.Context, config *types.Config, logger logrus.FieldLogger) (*pgxpool.Pool, error) {
	poolConfig, err := newPoolConfig(config)
	if err != nil {
		return nil, err
	}

	entry := logger.WithFields(logrus.Fields{
		"host":        poolConfig.ConnConfig.Host,
		"database":    poolConfig.ConnConfig.Database,
		"search_path": poolConfig.ConnConfig.RuntimeParams["search_path"],
	})

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		entry.WithError(err).Error("database did not answer ping")
		return nil, fmt.Errorf("ping database %s: %w", poolConfig.ConnConfig.Host, err)
	}

	entry.Info("connected to database")
	return pool, nil
}

func newPoolConfig(config *types.Config) (*pgxpool.Config, error) {
	if config.DatabaseURL == "" {
		return nil, fmt.Errorf("database url is empty")
	}

	poolConfig, err := pgxpool.ParseConfig(config.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	params := poolConfig.ConnConfig.RuntimeParams
	if _, ok := params["search_path"]; !ok && config.DatabaseSchema != "" {
		params["search_path"] = config.DatabaseSchema
	}
	if _, ok := params["application_name"]; !ok {
		params["application_name"] = applicationName
	}

	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.MaxConnLifetime = 30 * time.Minute

	return poolConfig, nil
}
