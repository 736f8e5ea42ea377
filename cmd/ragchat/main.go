package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cubongjay/ragchat/internal/api"
	"github.com/cubongjay/ragchat/internal/config"
	"github.com/cubongjay/ragchat/internal/crypto"
	"github.com/cubongjay/ragchat/internal/llm"
	"github.com/cubongjay/ragchat/internal/repository"
	"github.com/cubongjay/ragchat/internal/service"
	"github.com/cubongjay/ragchat/internal/vectorstore"
)

var (
	configPath = flag.String("config", "", "Path to config file")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database
	db, err := repository.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Message content is encrypted at rest. A missing key gets a generated
	// one, but messages written under it become unreadable after restart.
	encryptionKey := cfg.Security.EncryptionKey
	if encryptionKey == "" {
		encryptionKey, err = crypto.GenerateKey()
		if err != nil {
			logger.Fatal("Failed to generate encryption key", zap.Error(err))
		}
		logger.Warn("No encryption key configured, using an ephemeral key")
	}
	cipher, err := crypto.NewCipher(encryptionKey)
	if err != nil {
		logger.Fatal("Failed to initialize cipher", zap.Error(err))
	}

	// Initialize repositories
	sessionRepo := repository.NewSessionRepository(db)
	messageRepo := repository.NewMessageRepository(db, cipher)
	vectorIndex := vectorstore.New(db)

	// Initialize LLM client
	llmClient := llm.NewClient(cfg.LLM)

	// Initialize services
	sessionService := service.NewSessionService(sessionRepo, messageRepo, logger)
	messageService := service.NewMessageService(messageRepo, sessionRepo, logger)
	generator := service.NewResponseGenerator(
		sessionRepo,
		messageRepo,
		llmClient,
		vectorIndex,
		llmClient,
		cfg.RAG,
		logger,
	)
	ingestService := service.NewIngestService(llmClient, vectorIndex, cfg.RAG, logger)

	// Setup router
	router := api.SetupRouter(sessionService, messageService, generator, ingestService, api.RouterConfig{
		APIKey:       cfg.Auth.APIKey,
		AllowOrigins: cfg.CORS.AllowOrigins,
		RateLimit:    cfg.RateLimit,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting ragchat server", zap.String("address", cfg.Address()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
