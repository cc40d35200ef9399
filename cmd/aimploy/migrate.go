package main

import (
	"context"
	"fmt"

	"aimploy/internal/db"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var migrateCommand = &cli.Command{
	Name:  "migrate",
	Usage: "Create the schema and candidates table",
	Action: func(c *cli.Context) error {
		cfg, err := loadDatabaseConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()

		pool, err := db.Connect(ctx, cfg, logrus.StandardLogger())
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		if err := db.Migrate(ctx, pool, cfg.DatabaseSchema, logrus.StandardLogger()); err != nil {
			return err
		}

		logrus.WithField("schema", cfg.DatabaseSchema).Info("database migrated")
		return nil
	},
}
