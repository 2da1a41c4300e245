package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/civicgrid/grievance-api/config"
	"github.com/civicgrid/grievance-api/internal/repository/postgres"
	"github.com/civicgrid/grievance-api/pkg/logger"
	"github.com/civicgrid/grievance-api/pkg/metrics"
	"github.com/civicgrid/grievance-api/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	base := postgres.NewBaseRepository(db)
	complaintRepo := postgres.NewComplaintNotificationRepository(base)
	commonRepo := postgres.NewCommonNotificationRepository(base)

	m := metrics.NewMetrics("grievance", "worker")

	retention := worker.NewRetentionWorker(
		complaintRepo,
		commonRepo,
		cfg.Retention.Days,
		cfg.Retention.Interval,
		logger.FromZerolog(log.With().Str("component", "retention-worker").Logger()),
		m,
	)

	ctx, cancel := context.WithCancel(context.Background())
	go retention.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down worker...")
	cancel()
}
