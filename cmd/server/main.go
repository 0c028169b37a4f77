package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/c.mueller/todo-board/internal/api"
	"github.com/c.mueller/todo-board/internal/config"
	"github.com/c.mueller/todo-board/internal/storage"
	"github.com/c.mueller/todo-board/internal/todo"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
)

// slogWriter adapts slog to io.Writer interface for standard log package
type slogWriter struct {
	logger *slog.Logger
}

func (w *slogWriter) Write(p []byte) (n int, err error) {
	w.logger.Info(string(p))
	return len(p), nil
}

func main() {
	// Command line flags
	configFlag := flag.String("config", "", "Path to configuration file (YAML or TOML)")
	portFlag := flag.String("port", "", "HTTP server port (overrides config)")
	dbPathFlag := flag.String("db", "", "Database file path (overrides config)")
	backendFlag := flag.String("backend", "", "Storage backend: sqlite or memory (overrides config)")
	flag.Parse()

	cfg := config.Default()
	var err error

	// Load config file if provided
	if *configFlag != "" {
		log.Printf("Loading configuration from %s", *configFlag)
		cfg, err = config.LoadConfig(*configFlag)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	// Override with command line flags
	if *portFlag != "" {
		port, err := strconv.Atoi(*portFlag)
		if err != nil {
			log.Fatalf("Invalid port: %v", err)
		}
		cfg.HTTP.Port = port
	}
	if *dbPathFlag != "" {
		cfg.Storage.Path = *dbPathFlag
	}
	if *backendFlag != "" {
		cfg.Storage.Backend = *backendFlag
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Setup logger with configured level
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: config.ParseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)
	log.SetFlags(0)
	log.SetOutput(&slogWriter{logger: logger})

	slog.Info("Starting todo-board", "log_level", cfg.LogLevel, "backend", cfg.Storage.Backend)

	store, err := openStore(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	manager := todo.New(context.Background(), store)
	slog.Info("Loaded todo lists", "pending", len(manager.Pending()), "completed", len(manager.Completed()))

	// Create Chi router
	router := chi.NewMux()

	// Create Huma API
	humaAPI := humachi.New(router, huma.DefaultConfig("Todo Board API", "1.0.0"))
	api.NewServer(manager).RegisterRoutes(humaAPI)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting HTTP server on port %d", cfg.HTTP.Port)
		log.Printf("API documentation available at http://localhost:%d/docs", cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func openStore(cfg config.StorageConfig) (storage.Store, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return storage.NewMemory(), nil
	default:
		log.Printf("Initializing database at %s", cfg.Path)
		return storage.NewSQLite(cfg.Path)
	}
}
