// @title        Accounts API
// @version      1.0
// @description  User account registration and login.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/shopkit/accounts-api/internal/api"
	"github.com/shopkit/accounts-api/internal/api/handler"
	"github.com/shopkit/accounts-api/internal/core/domain"
	"github.com/shopkit/accounts-api/internal/core/ports"
	"github.com/shopkit/accounts-api/internal/core/service"
	"github.com/shopkit/accounts-api/internal/infrastructure/config"
	"github.com/shopkit/accounts-api/internal/infrastructure/db/mongo"
	"github.com/shopkit/accounts-api/internal/infrastructure/db/postgres"
	"github.com/shopkit/accounts-api/internal/infrastructure/db/redis"
	"github.com/shopkit/accounts-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := zerolog.New(os.Stderr).With().Timestamp().Logger()
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		File:    cfg.LogFile,
		Service: "accounts-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("accounts api stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	checks := make(map[string]handler.DependencyCheck)

	repo, closeStore, err := openStore(ctx, cfg, checks, log)
	if err != nil {
		return err
	}
	defer closeStore()

	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		checks["redis"] = redis.Ping(rdb)
		repo = redis.NewUserCache(repo, rdb, cfg.Redis.CacheTTL, log)
		log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.CacheTTL).Msg("user cache enabled")
	}

	schema := domain.Schema(cfg.Accounts.Schema)
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.Accounts.TokenTTL)
	accounts := service.NewAccountService(repo, tokens, service.AccountOptions{
		Schema:     schema,
		BcryptCost: cfg.Accounts.BcryptCost,
	}, log)

	e := api.NewRouter(api.Dependencies{
		Accounts: accounts,
		Schema:   accounts.Schema(),
		Checks:   checks,
		Log:      log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("schema", string(schema)).
			Str("store", cfg.Accounts.StoreDriver).
			Msg("accounts api listening")
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

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// openStore connects the configured user store and registers its readiness
// check. The returned func releases the connection.
func openStore(ctx context.Context, cfg *config.Config, checks map[string]handler.DependencyCheck, log zerolog.Logger) (ports.UserRepository, func(), error) {
	switch cfg.Accounts.StoreDriver {
	case config.DriverMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{
			URI:         cfg.Mongo.URI,
			Database:    cfg.Mongo.Database,
			MaxPoolSize: cfg.Mongo.MaxPoolSize,
		})
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() { _ = client.Disconnect(context.Background()) }

		repo := mongo.NewUserRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			closeFn()
			return nil, nil, err
		}
		checks["mongo"] = mongo.Ping(client)
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongo")
		return repo, closeFn, nil

	default:
		pool, err := postgres.Connect(ctx, postgres.Config{URL: cfg.Postgres.URL, MaxConns: cfg.Postgres.MaxConns})
		if err != nil {
			return nil, nil, err
		}
		if cfg.Postgres.AutoMigrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, nil, err
			}
		}
		checks["postgres"] = pool.Ping
		log.Info().Bool("auto_migrate", cfg.Postgres.AutoMigrate).Msg("connected to postgres")
		return postgres.NewUserRepository(pool), pool.Close, nil
	}
}
