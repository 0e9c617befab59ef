package main

import (
	"context"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/picquest/rewards-backend/api/routes"
	"github.com/picquest/rewards-backend/internal/config"
	"github.com/picquest/rewards-backend/internal/handlers"
	mongorepo "github.com/picquest/rewards-backend/internal/repositories/mongodb"
	"github.com/picquest/rewards-backend/internal/services"
	"github.com/picquest/rewards-backend/pkg/artifactstore"
	"github.com/picquest/rewards-backend/pkg/mongodb"
	"github.com/picquest/rewards-backend/pkg/n8n"
	"github.com/picquest/rewards-backend/pkg/pii"
)

const dispatchTimeout = 30 * time.Second

func main() {
	// Load .env if present; real deployments configure through the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	mongoClient, err := mongodb.NewClient(ctx, cfg.MongoDB.URI)
	cancel()
	if err != nil {
		slog.Error("failed to connect to mongodb", "error", err)
		os.Exit(1)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			slog.Warn("error disconnecting from mongodb", "error", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 30*time.Second)
	if err := mongorepo.EnsureIndexes(indexCtx, db); err != nil {
		slog.Error("failed to ensure indexes", "error", err)
		cancelIndex()
		os.Exit(1)
	}
	cancelIndex()

	// Repositories
	userRepo := mongorepo.NewUserRepository(db)
	submissionRepo := mongorepo.NewSubmissionRepository(db)
	walletRepo := mongorepo.NewWalletRepository(db)
	txRepo := mongorepo.NewWalletTransactionRepository(db)
	redemptionRepo := mongorepo.NewRedemptionRequestRepository(db)
	bankRepo := mongorepo.NewBankDetailsRepository(db)
	webhookRepo := mongorepo.NewWebhookEventRepository(db)
	adminRepo := mongorepo.NewAdminUserRepository(db)

	// PII cipher for bank details at rest
	piiKey, err := hex.DecodeString(cfg.PII.EncKeyHex)
	if err != nil {
		slog.Error("invalid PII_ENC_KEY", "error", err)
		os.Exit(1)
	}
	cipher, err := pii.NewCipher(piiKey)
	if err != nil {
		slog.Error("failed to initialise PII cipher", "error", err)
		os.Exit(1)
	}

	reviewerClient := n8n.NewClient(
		cfg.N8N.WorkflowURL,
		cfg.N8N.APIKey,
		time.Duration(cfg.N8N.TimeoutSeconds)*time.Second,
		cfg.N8N.Mock,
	)

	var store artifactstore.Store
	if cfg.Artifact.Dir != "" {
		store = artifactstore.NewLocalStore(cfg.Artifact.Dir, cfg.Artifact.BaseURL)
	} else {
		store = artifactstore.NewInlineStore()
	}

	// Services
	ledgerService := services.NewLedgerService(walletRepo, txRepo)
	submissionService := services.NewSubmissionService(submissionRepo, walletRepo, ledgerService)
	reviewService := services.NewReviewService(submissionService, submissionRepo, webhookRepo, reviewerClient, cfg.Webhook.Secret, dispatchTimeout)
	submissionService.SetDispatcher(reviewService)
	redemptionService := services.NewRedemptionService(redemptionRepo, ledgerService)
	userService := services.NewUserService(userRepo)
	walletService := services.NewWalletService(walletRepo, txRepo)
	bankService := services.NewBankService(bankRepo, cipher)
	authService := services.NewAuthService(adminRepo, cfg)

	deps := routes.HandlerDependencies{
		AuthHandler:       handlers.NewAuthHandler(authService),
		SubmissionHandler: handlers.NewSubmissionHandler(submissionService, userService),
		WalletHandler:     handlers.NewWalletHandler(walletService, userService),
		RedemptionHandler: handlers.NewRedemptionHandler(redemptionService, userService),
		WebhookHandler:    handlers.NewWebhookHandler(reviewService),
		BankHandler:       handlers.NewBankHandler(bankService, userService),
		UserHandler:       handlers.NewUserHandler(userService),
		UploadHandler:     handlers.NewUploadHandler(store, userService),
	}

	router := routes.SetupRouter(cfg, deps)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server exited")
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
