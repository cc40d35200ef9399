package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"aimploy/internal/db"
	"aimploy/internal/store"

	"github.com/k0kubun/pp/v3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var candidatesCommand = &cli.Command{
	Name:  "candidates",
	Usage: "List submitted applications, newest first",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Print JSON instead of a pretty dump",
		},
		&cli.StringFlag{
			Name:  "id",
			Usage: "Show a single candidate",
		},
	},
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

		repo := store.NewCandidateRepository(pool)

		var out any
		if id := c.String("id"); id != "" {
			candidate, err := repo.Candidate(ctx, id)
			if err != nil {
				return err
			}
			out = candidate
		} else {
			candidates, err := repo.Candidates(ctx)
			if err != nil {
				return err
			}
			out = candidates
		}

		if c.Bool("json") {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}

		_, err = pp.Println(out)
		return err
	},
}
