package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/civicgrid/grievance-api/config"
	"github.com/civicgrid/grievance-api/internal/handler"
	notificationHandler "github.com/civicgrid/grievance-api/internal/handler/notification"
	"github.com/civicgrid/grievance-api/internal/middleware"
	"github.com/civicgrid/grievance-api/internal/repository/postgres"
	"github.com/civicgrid/grievance-api/internal/router"
	notificationService "github.com/civicgrid/grievance-api/internal/service/notification"
	"github.com/civicgrid/grievance-api/pkg/auth"
	"github.com/civicgrid/grievance-api/pkg/messaging"
	"github.com/civicgrid/grievance-api/pkg/messaging/redis"
	"github.com/civicgrid/grievance-api/pkg/metrics"
	"github.com/civicgrid/grievance-api/pkg/validator"
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
	settingsRepo := postgres.NewNotificationSettingRepository(base)
	userRepo := postgres.NewUserRepository(base)

	// The broker is optional; without Redis the API still persists and
	// serves notifications, it just stops pushing live updates.
	var broker messaging.Broker
	if cfg.Redis.URL != "" {
		brokerLogger := log.With().Str("component", "redis-broker").Logger()
		broker, err = redis.NewRedisBroker(cfg.Redis.ToBrokerConfig(), &brokerLogger)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer broker.Close()
	}

	m := metrics.NewMetrics("grievance", "notifications")

	notificationSvc := notificationService.NewService(
		complaintRepo,
		commonRepo,
		settingsRepo,
		userRepo,
		broker,
		log.With().Str("component", "notification-service").Logger(),
		m,
		cfg.Notifications.SettingsCacheTTL,
	)

	jwtService := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.Security.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.Security.AllowedOrigins
	}
	if len(cfg.Security.AllowedMethods) > 0 {
		corsConfig.AllowMethods = cfg.Security.AllowedMethods
	}
	if len(cfg.Security.AllowedHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.Security.AllowedHeaders
	}

	routerConfig := router.Config{
		RequestTimeout: cfg.Server.RequestTimeout,
		CORSConfig:     corsConfig,
		MetricsPrefix:  cfg.Monitoring.MetricsPrefix,
	}
	if cfg.RateLimit.Enabled {
		routerConfig.RateLimitRPS = cfg.RateLimit.RequestsPerSecond
		routerConfig.RateBurst = cfg.RateLimit.Burst
	}

	r := router.NewRouter(
		authMiddleware,
		notificationHandler.NewHandler(notificationSvc, validator.New()),
		handler.NewHandler(db),
		routerConfig,
	)
	r.Setup()

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        r.Engine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
