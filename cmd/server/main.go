// Package main is the entry point for the tatausaha back-office server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"tatausaha/internal/core/id"
	"tatausaha/internal/gateway"
	"tatausaha/internal/gateway/audit"
	"tatausaha/internal/gateway/postgres"
	v1 "tatausaha/internal/http/v1"
	"tatausaha/internal/http/v1/middleware"
	"tatausaha/internal/inventory"
	"tatausaha/internal/numbering"
	"tatausaha/internal/sales"
	"tatausaha/internal/state"
	"tatausaha/pkg/logger"
)

const version = "1.0.0"

func main() {
	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting tatausaha server")

	// --- Backend connection ---
	dsn := mustEnv("DATABASE_URL")
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalw("failed to ping database", "error", err)
	}
	log.Info("database connection established")

	// --- Persistence gateway and dispatcher ---
	gw := postgres.New(pool)
	dispatcher := gateway.NewDispatcher(gw, log, getEnvInt("DISPATCH_BUFFER", 256))
	defer dispatcher.Close()

	auditSvc, err := audit.NewService(dispatcher)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}

	// --- Working set ---
	store := state.NewStore()
	snap, err := gw.LoadSnapshot(ctx)
	if err != nil {
		log.Fatalw("failed to load working set", "error", err)
	}
	store.Load(snap)
	log.Infow("working set loaded",
		"letters", len(snap.Letters),
		"items", len(snap.Items),
		"ledger_entries", len(snap.Ledger),
		"sales", len(snap.Sales),
		"trash", len(snap.Trash),
	)

	// --- Domain services ---
	ids := id.NewGenerator()
	batchDelay := getEnvDuration("BATCH_WRITE_DELAY", 450*time.Millisecond)

	numberingSvc := numbering.NewService(store, dispatcher, ids, auditSvc, batchDelay)
	inventorySvc := inventory.NewService(store, dispatcher, ids, auditSvc)
	salesSvc := sales.NewService(store, dispatcher, ids, auditSvc)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:      log,
		Pool:        pool,
		TokenParser: middleware.NewTokenParser(mustEnv("TOKEN_SECRET")),
		Numbering:   numberingSvc,
		Inventory:   inventorySvc,
		Sales:       salesSvc,
		Version:     version,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	// Drain queued writes before the pool closes.
	dispatcher.Close()

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
