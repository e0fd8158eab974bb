package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Ak-9647/financial-MAS-Project/api"
	"github.com/Ak-9647/financial-MAS-Project/config"
	"github.com/Ak-9647/financial-MAS-Project/gateway"
	"github.com/Ak-9647/financial-MAS-Project/health"
	"github.com/Ak-9647/financial-MAS-Project/history"
	"github.com/Ak-9647/financial-MAS-Project/policy"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting console...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Coordinator: %s", cfg.CoordinatorURL)
	log.Printf("Database: %s", cfg.DatabaseURL)
	log.Printf("Agents: %d configured", len(cfg.Endpoints))

	// Initialize durable store and ledger
	kv, err := history.NewSQLiteKV(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer kv.Close()
	ledger := history.NewLedger(kv, cfg.HistoryLimit)

	// Initialize health monitor and gateway
	monitor := health.NewMonitor(cfg.Endpoints, cfg.ProbeTimeout)
	gw := gateway.NewClient(cfg.CoordinatorURL, cfg.SubmitTimeout)

	// Initialize policy engine
	ctx := context.Background()
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// Start recurring polling; completed snapshots feed the status hub
	hub := api.NewStatusHub()
	poller := health.StartPoller(monitor, cfg.PollInterval, hub.Broadcast)
	defer poller.Stop()

	// Initialize handler
	h := api.NewHandler(monitor, poller, gw, ledger, policyEngine, hub)

	// Create Echo server
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Register routes
	h.RegisterRoutes(e)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Console API started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down console...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Console stopped")
}
