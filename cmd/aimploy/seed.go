package main

import (
	"context"
	"fmt"
	"time"

	"aimploy/internal/db"
	"aimploy/internal/seed"
	"aimploy/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with demo applications",
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

		candidateRepo := store.NewCandidateRepository(pool)

		inserted, err := seed.SeedCandidates(ctx, candidateRepo, time.Now().UTC())
		if err != nil {
			return err
		}

		logrus.WithField("inserted", inserted).Info("Candidates seeded successfully")
		return nil
	},
}
