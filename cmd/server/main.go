/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the PTO center server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags, load YAML config
  2. Establish the anonymous session
  3. Initialize SQLite store, seed the roster if empty
  4. Bind the in-memory view to store snapshots
  5. Create the request service and API handler
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  YAML config file path (optional)
  -port    HTTP server port (overrides config)
  -db      SQLite database path (overrides config)
           Use ":memory:" for in-memory database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/pto.db"

  # Run with a config file
  ./server -config=./pto.yaml

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: YAML configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/warp/pto-center/api"
	"github.com/warp/pto-center/auth"
	"github.com/warp/pto-center/config"
	"github.com/warp/pto-center/engine"
	"github.com/warp/pto-center/notify"
	"github.com/warp/pto-center/store/sqlite"
)

func main() {
	// Flags
	configPath := flag.String("config", "", "YAML config file path")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	flag.Parse()

	log, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg := config.Default()
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatal("failed to load config", zap.String("path", *configPath), zap.Error(err))
		}
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *dbPath != "" {
		cfg.Database = *dbPath
	}

	ctx := context.Background()

	// Session bootstrap. A missing project ID is a configuration problem,
	// not a transient failure, so it gets a dedicated message.
	authenticator := auth.Anonymous{ProjectID: cfg.Auth.ProjectID}
	session, err := authenticator.Establish(ctx)
	if err != nil {
		if errors.Is(err, auth.ErrConfiguration) {
			log.Fatal("authentication is not configured; set auth.project_id in the config file", zap.Error(err))
		}
		log.Fatal("failed to establish session", zap.Error(err))
	}
	log.Info("session established", zap.String("project_id", session.ProjectID))

	// Initialize store
	store, err := sqlite.New(cfg.Database)
	if err != nil {
		log.Fatal("failed to initialize database", zap.String("path", cfg.Database), zap.Error(err))
	}
	defer store.Close()

	seeded, err := engine.EnsureSeeded(ctx, store.Employees(), log)
	if err != nil {
		log.Fatal("failed to seed roster", zap.Error(err))
	}
	if seeded {
		log.Info("seeded initial roster")
	}

	// Bind the view to store snapshots. The stores push the current
	// collections on subscribe, so the view is populated before serving.
	view := engine.NewView()
	unbind := view.Bind(store.Employees(), store.Requests())
	defer unbind()

	policy := cfg.AllocationPolicy()
	service := engine.NewService(store.Requests(), view, policy)
	service.Notifier = &notify.LogNotifier{Log: log.Named("notify")}
	service.Log = log.Named("engine")

	// Create router
	handler := api.NewHandler(service, view, policy, log.Named("api"))
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server starting", zap.Int("port", cfg.Port), zap.String("db", cfg.Database))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
