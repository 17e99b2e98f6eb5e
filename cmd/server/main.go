package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SafeHarborHQ/SafeHarbor/pkg/analyzer"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/cache"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/common"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/config"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/database"
	handlers "github.com/SafeHarborHQ/SafeHarbor/pkg/handlers/http"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/imageclass"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/infra/httpx"
	infraLogger "github.com/SafeHarborHQ/SafeHarbor/pkg/infra/logger"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/infra/providers/factory"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/server"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/store"
	"github.com/joho/godotenv"
)

func main() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	logger := infraLogger.NewLogger()

	// Load configuration
	if err := config.Load("./config"); err != nil {
		logger.Warnf("config: %v", err)
	}
	cfg := config.GetConfig()

	// Remote classifier
	apiKey := cfg.Classifier.APIKey
	if apiKey == "" {
		apiKey = providerAPIKeyFromEnv(cfg.Classifier.Provider)
	}
	client, err := factory.Get(cfg.Classifier.Provider, apiKey)
	if err != nil {
		logger.Fatalf("Failed to initialize classifier client: %v", err)
	}

	// Verdict cache is optional; without redis every analysis hits the
	// classifier.
	var verdictCache *cache.VerdictCache
	if cfg.Redis.Host != "" {
		verdictCache = cache.NewVerdictCache(cache.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, common.VerdictCacheTTL, logger)
	}

	timeout := time.Duration(cfg.Classifier.TimeoutSeconds) * time.Second
	breaker := httpx.NewCircuitBreaker("classifier", timeout, 5)
	contentAnalyzer := analyzer.NewAnalyzer(
		logger,
		client,
		analyzer.ProviderConfig(apiKey, cfg.Classifier.Model),
		breaker,
		verdictCache,
		timeout,
	)

	// Local NSFW classifier; loads lazily on first use.
	classifier := imageclass.NewClassifier(cfg.NSFW.ModelPath, logger)

	// Event storage: postgres when reachable, local files otherwise. The
	// decision is made once here; individual write failures still fall back.
	localStore, err := store.NewLocalStore(cfg.Storage.DataDir, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize local store: %v", err)
	}

	var remoteStore store.Store
	db, err := database.NewDB(&database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		logger.WithError(err).Warn("postgres unavailable, events will be stored locally")
	} else {
		defer db.Close()
		remoteStore = store.NewPostgresStore(db)
	}

	gateway := store.NewGateway(remoteStore, localStore, logger)
	logger.WithField("storage", gateway.Active()).Info("event storage initialized")

	// Handler Transport
	handlerTransport := handlers.HandlerTransport{
		// Analysis
		AnalyzeContentHandler:   handlers.NewAnalyzeContentHandler(logger, contentAnalyzer, gateway),
		AnalyzeBatchHandler:     handlers.NewAnalyzeBatchHandler(logger, contentAnalyzer),
		AnalyzeImageHandler:     handlers.NewAnalyzeImageHandler(logger, contentAnalyzer),
		AnalyzeImageNSFWHandler: handlers.NewAnalyzeImageNSFWHandler(logger, classifier),
		// Flagged events
		CreateFlaggedEventHandler: handlers.NewCreateFlaggedEventHandler(logger, gateway),
		ListFlaggedEventsHandler:  handlers.NewListFlaggedEventsHandler(logger, gateway),
		// Activity logs
		CreateActivityLogHandler: handlers.NewCreateActivityLogHandler(logger, gateway),
		SyncActivityLogsHandler:  handlers.NewSyncActivityLogsHandler(logger, gateway),
		ListActivityLogsHandler:  handlers.NewListActivityLogsHandler(logger, gateway),
		// Blur reveals
		TrackBlurRevealHandler: handlers.NewTrackBlurRevealHandler(logger, gateway),
		ListBlurRevealsHandler: handlers.NewListBlurRevealsHandler(logger, gateway),
	}

	srv := server.NewAPIServer(server.APIServerDI{
		HandlerTransport: handlerTransport,
		Config:           cfg,
		Logger:           logger,
	})

	go func() {
		if err := srv.Run(); err != nil {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	fmt.Println("shutting down server...")
	if err := srv.Shutdown(); err != nil {
		fmt.Println("error shutting down server:", err)
		os.Exit(1)
	}
	fmt.Println("server gracefully stopped")
}

func providerAPIKeyFromEnv(provider string) string {
	switch provider {
	case factory.ProviderGoogle:
		return os.Getenv("GEMINI_API_KEY")
	case factory.ProviderOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	case factory.ProviderAnthropic:
		return os.Getenv("ANTHROPIC_API_KEY")
	default:
		return ""
	}
}
