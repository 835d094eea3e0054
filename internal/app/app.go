// Package app assembles a runnable service: config, logger, store,
// routes and the HTTP server lifecycle. Each binary under cmd/ is a call
// to Main with the routes it serves.
package app

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

	"github.com/sorting-waste-app/services/internal/config"
	"github.com/sorting-waste-app/services/internal/http/handlers/challenge"
	"github.com/sorting-waste-app/services/internal/http/handlers/user"
	"github.com/sorting-waste-app/services/internal/http/handlers/wastecategory"
	"github.com/sorting-waste-app/services/internal/http/handlers/wasteitem"
	"github.com/sorting-waste-app/services/internal/http/middleware"
	"github.com/sorting-waste-app/services/internal/password"
	"github.com/sorting-waste-app/services/internal/service"
	"github.com/sorting-waste-app/services/internal/storage"
	"github.com/sorting-waste-app/services/internal/storage/mongodb"
	"github.com/sorting-waste-app/services/internal/storage/sqlite"
	"github.com/sorting-waste-app/services/internal/utils/response"
)

var errStorageUnavailable = errors.New("storage unavailable")

// Mount registers one service's routes.
type Mount func(mux *http.ServeMux, svc *service.Services, log *slog.Logger)

// MountChallenges mounts the /challenges routes.
func MountChallenges(mux *http.ServeMux, svc *service.Services, log *slog.Logger) {
	challenge.Register(mux, svc.Challenges, log)
}

// MountUsers mounts the /users routes.
func MountUsers(mux *http.ServeMux, svc *service.Services, log *slog.Logger) {
	user.Register(mux, svc.Users, log)
}

// MountWasteCategories mounts the /waste_categories routes.
func MountWasteCategories(mux *http.ServeMux, svc *service.Services, log *slog.Logger) {
	wastecategory.Register(mux, svc.WasteCategories, log)
}

// MountWasteItems mounts the /waste_items routes.
func MountWasteItems(mux *http.ServeMux, svc *service.Services, log *slog.Logger) {
	wasteitem.Register(mux, svc.WasteItems, log)
}

// Main runs the named service until SIGINT or SIGTERM and exits the
// process with a non-zero status if startup or shutdown fails.
func Main(name string, mounts ...Mount) {
	cfg := config.MustLoad()
	log := SetupLogger(cfg.Env).With(slog.String("service", name))

	if err := Run(cfg, log, mounts...); err != nil {
		log.Error("service stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// Run opens the store, serves HTTP on cfg.HTTPServer.Addr and shuts down
// gracefully when a termination signal arrives.
func Run(cfg *config.Config, log *slog.Logger, mounts ...Mount) error {
	log.Info("starting",
		slog.String("env", cfg.Env),
		slog.String("storage", cfg.Storage.Driver),
	)

	connectCtx, cancel := withTimeout(cfg.Storage.ConnectTimeout)
	store, err := OpenStore(connectCtx, cfg.Storage)
	cancel()
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := withTimeout(cfg.HTTPServer.ShutdownTimeout)
		defer cancel()
		if err := store.Close(ctx); err != nil {
			log.Error("failed to close storage", slog.String("error", err.Error()))
		}
	}()
	log.Info("storage initialised")

	hasher, err := password.NewHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:         cfg.HTTPServer.Addr,
		Handler:      NewHandler(store, service.New(store, hasher, log), log, mounts...),
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(done)

	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-done:
	}

	log.Info("shutdown signal received, stopping server")

	ctx, cancel := withTimeout(cfg.HTTPServer.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("server stopped gracefully")
	return nil
}

// NewHandler builds the router for mounts plus GET /health, wrapped in
// the request id, recovery and access log middleware.
func NewHandler(store storage.Store, svc *service.Services, log *slog.Logger, mounts ...Mount) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", Health(store))
	for _, mount := range mounts {
		mount(mux, svc, log)
	}
	return middleware.Chain(mux,
		middleware.RequestID,
		middleware.Logger(log),
		middleware.Recover(log),
	)
}

// OpenStore connects to the store selected by cfg.Driver.
func OpenStore(ctx context.Context, cfg config.Storage) (storage.Store, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		s, err := mongodb.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverSQLite:
		s, err := sqlite.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// withTimeout is context.WithTimeout where zero means no deadline.
func withTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), d)
}

// Health answers 200 while the store responds to a ping and 503
// otherwise.
func Health(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(r.Context()); err != nil {
			_ = response.WriteJSON(w, http.StatusServiceUnavailable, response.GeneralError(errStorageUnavailable))
			return
		}
		_ = response.WriteJSON(w, http.StatusOK, response.Response{Status: response.StatusOK})
	}
}

// SetupLogger returns the logger for env: human-readable text at debug
// level in development, JSON elsewhere, at info level in production.
func SetupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	case "staging":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
