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

	"github.com/docfront/docfront/internal/api"
	"github.com/docfront/docfront/internal/backend"
	"github.com/docfront/docfront/internal/chat"
	"github.com/docfront/docfront/internal/config"
	"github.com/docfront/docfront/internal/registry"
	"github.com/docfront/docfront/internal/repository"
	"go.uber.org/zap"
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

	// Backend client and views
	client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout)
	view := registry.NewView(client, logger)

	// Optional chat history store
	var recorder chat.Recorder
	var db *repository.DB
	if cfg.History.Path != "" {
		db, err = repository.NewDB(cfg.History.Path)
		if err != nil {
			logger.Fatal("Failed to initialize history store", zap.Error(err))
		}
		defer db.Close()
		recorder = repository.NewHistoryRepository(db)
	}

	session := chat.NewSession(client, recorder, logger)

	// Setup router
	handler := api.NewHandler(client, view, session, cfg, logger)
	router := api.SetupRouter(handler, api.RouterConfig{
		APIKey:       cfg.Server.APIKey,
		AllowOrigins: []string{"*"},
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting docfront server",
			zap.String("address", cfg.Address()),
			zap.String("backend", cfg.Backend.BaseURL),
		)
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
