package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	api "github.com/mayank-anckr/express-kit/internal/api/http"
	httpctx "github.com/mayank-anckr/express-kit/internal/api/http/context"
	"github.com/mayank-anckr/express-kit/internal/config"
	"github.com/mayank-anckr/express-kit/internal/logger"
	"github.com/mayank-anckr/express-kit/internal/metrics"
	"github.com/mayank-anckr/express-kit/internal/notify"
	"github.com/mayank-anckr/express-kit/internal/payment"
	"github.com/mayank-anckr/express-kit/internal/repository/postgres"
	"github.com/mayank-anckr/express-kit/internal/service"
	storage "github.com/mayank-anckr/express-kit/internal/storage/minio"
	"github.com/mayank-anckr/express-kit/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	credentialRepo := postgres.NewCredentialRepository(db)
	profileRepo := postgres.NewProfileRepository(db)
	subscriptionRepo := postgres.NewSubscriptionRepository(db)
	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	emailSender := notify.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	pushSender := notify.NewHTTPPushSender(cfg.Push.Endpoint, cfg.Push.ServerKey)
	dispatcher := notify.NewDispatcher(emailSender, pushSender, logger, 64)
	defer dispatcher.Close()

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to create minio client", "error", err)
	}
	storageClient, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket)
	if err != nil {
		logger.Fatal("failed to initialize storage client", "error", err)
	}

	authService := service.NewAuth(credentialRepo, profileRepo, tokenManager, dispatcher, logger)
	profileService := service.NewProfile(profileRepo, credentialRepo, storageClient, logger)
	fileService := service.NewFile(profileRepo, storageClient, logger)

	stripeService := payment.NewStripe(cfg.Stripe.WebhookSecret, subscriptionRepo, logger)
	phonepeService := payment.NewPhonePe(
		cfg.PhonePe.MerchantID,
		cfg.PhonePe.SecretKey,
		cfg.PhonePe.BaseURL,
		cfg.PhonePe.RedirectURL,
		cfg.PhonePe.CallbackURL,
		logger,
	)

	router, err := api.NewRouter(api.RouterConfig{
		AuthService:    authService,
		ProfileService: profileService,
		FileService:    fileService,
		StripeService:  stripeService,
		PhonePeService: phonepeService,
		PushSender:     pushSender,
		Tokens:         tokenManager,
		ContextManager: httpctx.NewManager(),
		Metrics:        metrics.New(),
		RateLimitRPS:   cfg.RateLimit.RPS,
		RateLimitBurst: cfg.RateLimit.Burst,
		Logger:         logger,
	})
	if err != nil {
		logger.Fatal("failed to build router", "error", err)
	}

	server := api.NewServer(router, fmt.Sprintf(":%s", cfg.HTTP.Port))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("Starting server on", "address", server.Address())
		if err := server.Start(); err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}()

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", server.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
