package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/SIMPLYBOYS/smart_waste/internal/api"
	"github.com/SIMPLYBOYS/smart_waste/internal/auth"
	"github.com/SIMPLYBOYS/smart_waste/internal/config"
	"github.com/SIMPLYBOYS/smart_waste/internal/db"
	"github.com/SIMPLYBOYS/smart_waste/internal/payment"
	"github.com/SIMPLYBOYS/smart_waste/internal/tasks"
	"github.com/SIMPLYBOYS/smart_waste/internal/websocket"
	"github.com/SIMPLYBOYS/smart_waste/internal/workflow"
	"github.com/SIMPLYBOYS/smart_waste/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	level, err := logger.ParseLevel(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Invalid log level: %v", err)
	}
	logger.SetLevel(level)
	if cfg.Logging.Dir != "" {
		if err := logger.EnableFileLogging(cfg.Logging.Dir); err != nil {
			log.Fatalf("Failed to enable file logging: %v", err)
		}
		defer logger.Default().Close()
	}

	logger.Info("SmartWaste starting...")

	// Initialize database
	store, err := db.NewDBService(db.PostgresOperations{}, cfg.Database.DSN())
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize WebSocket manager
	wsManager := websocket.NewWebSocketManager(cfg.HTTP.FrontendURL)
	go wsManager.Run(ctx)

	wf := workflow.NewService(store, wsManager, payment.NewSimulatedMPesa(nil),
		workflow.WithPaymentBatchSize(cfg.Tasks.PaymentBatchSize),
		workflow.WithLeaderboardSize(cfg.Tasks.LeaderboardSize),
	)

	runner := tasks.NewRunner(tasks.Scheduled(wf, cfg.Tasks)...)
	runner.Start(ctx)

	// Set up and run the API server
	gin.SetMode(cfg.HTTP.GinMode)
	issuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	handler := api.NewHandler(store, wf, issuer, wsManager)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      api.SetupRouter(handler, cfg.HTTP.FrontendURL),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}
	go func() {
		logger.Info("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to run server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed: %v", err)
	}
	runner.Wait()
	wf.Wait()

	logger.Info("SmartWaste stopped")
}
