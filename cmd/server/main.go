// Command server runs the user service HTTP API.
//
// @title                       User Service API
// @version                     1.0
// @description                 Account, authentication and wallet cascade operations.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/userservice/user-service/internal/api"
	"github.com/userservice/user-service/internal/api/handler"
	"github.com/userservice/user-service/internal/core/service"
	"github.com/userservice/user-service/internal/infrastructure/db/mongo"
	"github.com/userservice/user-service/internal/infrastructure/db/redis"
	"github.com/userservice/user-service/internal/infrastructure/queue"
	"github.com/userservice/user-service/internal/infrastructure/security"
	"github.com/userservice/user-service/internal/infrastructure/wallet"
	"github.com/userservice/user-service/internal/pkg/config"
	"github.com/userservice/user-service/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "user-service",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	codec, err := security.NewJWTCodec(cfg.JWTSecret, cfg.JWTTTL, nil)
	if err != nil {
		return err
	}

	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer func() { _ = rdb.Close() }()

	accountRepo := mongo.NewAccountRepository(db)
	if err := accountRepo.EnsureIndexes(ctx); err != nil {
		return err
	}

	walletClient := wallet.NewClient(wallet.Config{
		AdminURL:   cfg.Wallet.AdminURL,
		WalletsURL: cfg.Wallet.URL,
		Timeout:    cfg.Wallet.Timeout,
	})
	ledger := redis.NewCascadeLedger(rdb)

	workerCtx, cancelWorkers := context.WithCancel(context.WithoutCancel(ctx))
	provisioner := queue.NewProvisioner(cfg.Provision.Workers, walletClient, ledger, cfg.Wallet.Timeout, logger.Component("provisioner"))
	provisioner.Start(workerCtx)
	defer func() {
		cancelWorkers()
		provisioner.Wait()
	}()

	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)
	cascade := service.NewCascadeOrchestrator(walletClient, ledger, cfg.Wallet.Timeout, logger.Component("cascade"))
	accounts := service.NewAccountService(accountRepo, hasher, cascade, logger.Component("accounts"))
	store := service.NewPrincipalStore(accountRepo, hasher)
	auth := service.NewAuthService(accounts, store, codec, provisioner, logger.Component("auth"))
	decider := service.NewAuthDecisionPoint(codec, store, logger.Component("gate"))

	e := api.NewRouter(api.Deps{
		Auth:     auth,
		Accounts: accounts,
		Decider:  decider,
		Wallets:  walletClient,
		Ledger:   ledger,
		HealthChecks: map[string]handler.Check{
			"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		PublicPaths: cfg.PublicPaths,
		Log:         log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server starting")
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
