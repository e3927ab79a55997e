// @title           LPPM Portal Auth API
// @version         1.0
// @description     Account registration, login and user administration for the LPPM research portal.
// @BasePath        /api
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/lppm/portal-auth/internal/api"
	"github.com/lppm/portal-auth/internal/api/handler"
	"github.com/lppm/portal-auth/internal/core/service"
	mongostore "github.com/lppm/portal-auth/internal/infrastructure/db/mongo"
	"github.com/lppm/portal-auth/internal/infrastructure/db/postgres"
	redisstore "github.com/lppm/portal-auth/internal/infrastructure/db/redis"
	"github.com/lppm/portal-auth/internal/infrastructure/queue"
	"github.com/lppm/portal-auth/internal/infrastructure/security"
	"github.com/lppm/portal-auth/internal/pkg/config"
	"github.com/lppm/portal-auth/pkg/logger"
)

const serviceName = "lppm-portal-auth"

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("service stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	tokenTTL, err := security.ParseExpiry(cfg.JWT.ExpiresIn)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Stores ---
	pool, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN, MaxConns: cfg.Postgres.MaxConns})
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := postgres.Migrate(pool); err != nil {
		return err
	}
	log.Info().Msg("database migrations applied")

	mongoClient, mongoDB, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  serviceName,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	// --- Background cleanup of orphaned CVs ---
	documents := mongostore.NewDocumentStore(mongoDB)
	cleaner := queue.NewCleaner(cfg.Upload.CleanupWorkers, documents, log)
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	cleaner.Start(workerCtx)
	defer func() {
		cancelWorkers()
		cleaner.Wait()
	}()

	// --- Services ---
	users := postgres.NewUserRepository(pool)
	roles := postgres.NewRoleRepository(pool)
	tokens := security.NewTokenManager(cfg.JWT.Secret)

	authService := service.NewAuthService(service.AuthServiceDeps{
		Users:     users,
		Roles:     roles,
		Hasher:    security.NewBcryptHasher(cfg.Security.BcryptCost),
		Tokens:    tokens,
		Documents: documents,
		Discarder: cleaner,
		TokenTTL:  tokenTTL,
	}, log)

	e := api.NewRouter(api.Deps{
		Config:         cfg,
		Log:            log,
		AuthService:    authService,
		UserService:    service.NewUserService(users, roles, log),
		ProfileService: service.NewProfileService(users, log),
		Tokens:         tokens,
		Limiter:        redisstore.NewRateLimiter(rdb),
		Health: map[string]handler.Pinger{
			"postgres": handler.PostgresPinger(pool),
			"mongodb":  handler.MongoPinger(mongoDB),
			"redis":    handler.RedisPinger(rdb),
		},
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("HTTP server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down HTTP server gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
