// roster-server is the development backend for the contacts client. It
// serves the read-only roster API from SQLite, seeded from a YAML file.
//
//	go run ./cmd/roster-server --config=config/local.yaml
//	CONFIG_PATH=config/local.yaml go run ./cmd/roster-server
//
// Routes:
//
//	GET /api/students        the whole roster
//	GET /api/students/{id}   one student by id
//
// On SIGINT or SIGTERM the server stops accepting connections and gives
// in-flight requests five seconds to finish.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aanand-mishra/student-contacts/internal/config"
	"github.com/aanand-mishra/student-contacts/internal/http/handlers/student"
	"github.com/aanand-mishra/student-contacts/internal/http/middleware"
	"github.com/aanand-mishra/student-contacts/internal/logger"
	"github.com/aanand-mishra/student-contacts/internal/storage"
	"github.com/aanand-mishra/student-contacts/internal/storage/seed"
	"github.com/aanand-mishra/student-contacts/internal/storage/sqlite"
)

const shutdownGrace = 5 * time.Second

func main() {
	cfg := config.MustLoad()

	log := logger.Setup(cfg.Env, os.Stdout)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("roster-server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	log.Info("starting roster-server",
		slog.String("env", cfg.Env),
		slog.String("address", cfg.HTTPServer.Addr),
	)

	store, err := sqlite.New(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := loadSeed(store, cfg.SeedPath); err != nil {
		return fmt.Errorf("seed %s: %w", cfg.SeedPath, err)
	}
	log.Info("roster loaded",
		slog.String("storage", cfg.StoragePath),
		slog.String("seed", cfg.SeedPath))

	server := &http.Server{
		Addr:         cfg.HTTPServer.Addr,
		Handler:      newHandler(store, log),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutdown signal received, draining requests")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}

// newHandler builds the route table wrapped in CORS and request logging.
func newHandler(store storage.Storage, log *slog.Logger) http.Handler {
	router := http.NewServeMux()
	router.HandleFunc("GET /api/students", student.GetList(store))
	router.HandleFunc("GET /api/students/{id}", student.GetByID(store))

	return middleware.Logger(log)(middleware.CORS(router))
}

// loadSeed replaces the stored roster with the seed file, if one is set.
func loadSeed(store storage.Storage, path string) error {
	if path == "" {
		return nil
	}
	students, err := seed.Load(path)
	if err != nil {
		return err
	}
	return store.ReplaceStudents(students)
}
