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
	"golang.org/x/crypto/bcrypt"

	"github.com/wavenet-solutions/invoice-api/internal/api"
	"github.com/wavenet-solutions/invoice-api/internal/core/domain"
	"github.com/wavenet-solutions/invoice-api/internal/core/service"
	"github.com/wavenet-solutions/invoice-api/internal/infrastructure/config"
	mongoinfra "github.com/wavenet-solutions/invoice-api/internal/infrastructure/db/mongo"
	redisinfra "github.com/wavenet-solutions/invoice-api/internal/infrastructure/db/redis"
	"github.com/wavenet-solutions/invoice-api/internal/infrastructure/queue"
	"github.com/wavenet-solutions/invoice-api/pkg/logger"
)

const shutdownGrace = 10 * time.Second

func main() {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	client, db, err := mongoinfra.Connect(ctx, mongoinfra.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb unavailable")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect")
		}
	}()

	rdb, err := redisinfra.Connect(ctx, redisinfra.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis unavailable")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close")
		}
	}()

	// --- Persistence ---
	accountRepo := mongoinfra.NewAccountRepository(client, db)
	invoiceRepo := mongoinfra.NewInvoiceRepository(db)
	auditRepo := mongoinfra.NewAuditRepository(db)
	seqAlloc := redisinfra.NewSequenceAllocator(rdb)

	if err := accountRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("account indexes")
	}
	if err := invoiceRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("invoice indexes")
	}

	if err := seedTopAdmin(ctx, accountRepo, cfg.TopAdmin, log); err != nil {
		log.Fatal().Err(err).Msg("failed to seed top administrator")
	}

	// --- Services ---
	auditService := service.NewAuditService(auditRepo, log)
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, auditService, log)
	dispatcher.Start(ctx)

	tokenService := service.NewTokenService(
		cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL,
	)
	accountService := service.NewAccountService(accountRepo, invoiceRepo, tokenService, dispatcher, log)
	groupService := service.NewGroupService(accountRepo, dispatcher, log)
	invoiceService := service.NewInvoiceService(invoiceRepo, seqAlloc, log)

	e := api.NewRouter(api.Dependencies{
		Accounts: accountService,
		Groups:   groupService,
		Invoices: invoiceService,
		Audit:    auditService,
		Tokens:   tokenService,
		Mongo:    db,
		Redis:    rdb,
		Log:      log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("invoice api listening")

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// seedTopAdmin creates the root administrator on first boot. The account is
// only ever created here; the API offers no path to a topAdmin role.
func seedTopAdmin(ctx context.Context, repo *mongoinfra.AccountRepository, cfg config.TopAdminConfig, log zerolog.Logger) error {
	if cfg.Email == "" || cfg.Password == "" {
		log.Warn().Msg("TOPADMIN_EMAIL/TOPADMIN_PASSWORD not set, skipping seed")
		return nil
	}

	_, err := repo.FindByEmail(ctx, cfg.Email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrAccountNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = repo.Create(ctx, &domain.Account{
		Username:     cfg.Username,
		Email:        cfg.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleTopAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return err
	}
	log.Info().Str("email", cfg.Email).Msg("seeded top administrator")
	return nil
}
