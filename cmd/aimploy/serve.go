package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aimploy/internal/db"
	"aimploy/internal/server"
	"aimploy/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:  "serve",
	Usage: "Start the HTTP server",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "migrate",
			Usage: "Apply database migrations before serving",
		},
	},
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	config, err := loadDatabaseConfig()
	if err != nil {
		return err
	}

	files, err := newFileStore(ctx, config)
	if err != nil {
		return err
	}

	pool, err := db.Connect(ctx, config, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cCtx.Bool("migrate") {
		if err := db.Migrate(ctx, pool, config.DatabaseSchema, logger); err != nil {
			return err
		}
	}

	candidateRepo := store.NewCandidateRepository(pool)

	srv, err := server.New(config, logger, candidateRepo, files)
	if err != nil {
		return err
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"port":    config.ServerPort,
			"storage": config.StorageBackend,
		}).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}
