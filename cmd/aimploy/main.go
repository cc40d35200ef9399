package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "aimploy",
		Usage: "Job application form, upload service and applicant listing",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env-file",
				Aliases: []string{"e"},
				Usage:   "Environment file loaded before reading configuration",
				Value:   ".env",
			},
		},
		Before: func(c *cli.Context) error {
			// a missing env file is fine; the environment may already be set
			if err := godotenv.Load(c.String("env-file")); err != nil && !os.IsNotExist(err) {
				logrus.WithError(err).Warn("failed to load env file")
			}
			return nil
		},
		Commands: []*cli.Command{
			serveCommand,
			migrateCommand,
			seedCommand,
			candidatesCommand,
			applyCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("application failed")
	}
}
