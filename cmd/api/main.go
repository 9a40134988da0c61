// Command api runs the technical-records HTTP service.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abelov/technical-records/internal/api"
	"github.com/abelov/technical-records/internal/api/handler"
	"github.com/abelov/technical-records/internal/api/metrics"
	"github.com/abelov/technical-records/internal/core/service"
	"github.com/abelov/technical-records/internal/infrastructure/config"
	mongodb "github.com/abelov/technical-records/internal/infrastructure/db/mongo"
	redisdb "github.com/abelov/technical-records/internal/infrastructure/db/redis"
	"github.com/abelov/technical-records/internal/infrastructure/queue"
	"github.com/abelov/technical-records/internal/pkg/fieldcrypt"
	"github.com/abelov/technical-records/pkg/logger"
	"github.com/abelov/technical-records/pkg/sessiontoken"
)

const (
	tokenTTL        = time.Hour
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: !cfg.IsProduction()})

	secret, err := cfg.ResolveSecret()
	if err != nil {
		log.Fatal().Err(err).Msg("no usable signing secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongo disconnect failed")
		}
	}()

	redisClient, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer redisClient.Close()

	fieldCodec, err := fieldcrypt.New(secret, log)
	if err != nil {
		log.Fatal().Err(err).Msg("field codec initialization failed")
	}
	fieldCodec.OnDecryptFailure(metrics.PIIDecryptFailures.Inc)

	userRepo := mongodb.NewUserRepository(db)
	ticketRepo := mongodb.NewTicketRepository(db, fieldCodec)
	activityRepo := mongodb.NewActivityRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user indexes failed")
	}
	if err := ticketRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("request indexes failed")
	}

	dispatcher := queue.NewDispatcher(activityRepo, 0, 0, log)
	dispatcher.Start()
	defer dispatcher.Stop()

	tokens := sessiontoken.New(secret)
	authSvc := service.NewAuthService(userRepo, tokens, tokenTTL, dispatcher, log)
	ticketSvc := service.NewTicketService(ticketRepo, dispatcher, log)
	adminSvc := service.NewAdminService(userRepo, ticketRepo, cfg.AdminEmail, log)

	limiter := redisdb.NewRateLimiter(redisClient,
		time.Duration(cfg.RateLimit.WindowSeconds)*time.Second,
		int64(cfg.RateLimit.Max), log)

	e := api.NewRouter(api.Dependencies{
		Auth:        handler.NewAuthHandler(authSvc, tokenTTL, cfg.IsProduction(), log),
		Tickets:     handler.NewTicketHandler(ticketSvc, log),
		Admin:       handler.NewAdminHandler(adminSvc, log),
		Health:      handler.NewHealthHandler(mongoClient, redisClient),
		AuthService: authSvc,
		RateLimiter: limiter,
		Log:         log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
