// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/garden/internal/api"
	"github.com/starford/garden/internal/garden"
	"github.com/starford/garden/internal/index"
	"github.com/starford/garden/internal/manifest"
	"github.com/starford/garden/internal/markdown"
	"github.com/starford/garden/internal/sse"
	"github.com/starford/garden/internal/storage"
)

const defaultVersion = "dev"

func newApplication(opts []Option) (*application, error) {
	app := &application{version: defaultVersion, out: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

func newLogger(cfg *Config, w io.Writer) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// runtime holds everything opened for one garden: the collection stores,
// the post index and the service over them.
type runtime struct {
	posts storage.Provider
	dates manifest.Dates
	db    *index.DB
	svc   *garden.Service
}

func (rt *runtime) Close() error {
	return rt.db.Close()
}

// openGarden opens the collections, loads the manifest and brings the post
// index up to date with the posts directory.
func openGarden(cfg *Config, logger *slog.Logger) (*runtime, error) {
	postsDir := cfg.Garden.PostsDir()
	if err := os.MkdirAll(postsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create posts dir: %w", err)
	}
	posts, err := storage.NewFS(postsDir)
	if err != nil {
		return nil, fmt.Errorf("init posts storage: %w", err)
	}

	opts := []garden.Option{
		garden.WithRenderer(markdown.New(markdown.WithAssetRoot(cfg.Garden.AssetRoot))),
		garden.WithHiddenTags(cfg.Garden.HiddenTags...),
		garden.WithLogger(logger),
	}
	if store := optionalStore(cfg.Garden.TrainsDir(), "trains", logger); store != nil {
		opts = append(opts, garden.WithTrains(store))
	}
	if store := optionalStore(cfg.Garden.LabsDir(), "labs", logger); store != nil {
		opts = append(opts, garden.WithLabs(store))
	}

	dates, err := manifest.Load(posts, cfg.Garden.ManifestFile)
	if err != nil {
		// A broken manifest only costs creation dates; fall back to mtimes.
		logger.Warn("manifest load failed", slog.String("error", err.Error()))
		dates = manifest.Dates{}
	}

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init index: %w", err)
	}

	if err := index.Sync(db, posts, dates, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	return &runtime{
		posts: posts,
		dates: dates,
		db:    db,
		svc:   garden.NewService(db, opts...),
	}, nil
}

// optionalStore opens a secondary collection. A disabled or missing directory
// leaves the collection empty.
func optionalStore(dir, name string, logger *slog.Logger) storage.Provider {
	if dir == "" {
		return nil
	}
	store, err := storage.NewFS(dir)
	if err != nil {
		logger.Info("collection disabled", slog.String("collection", name), slog.String("dir", dir))
		return nil
	}
	return store
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger := newLogger(cfg, os.Stdout)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("posts_dir", cfg.Garden.PostsDir()),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	rt, err := openGarden(cfg, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	broker := sse.NewBroker(cfg.Events.TagsThrottle)
	defer broker.Close()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := rt.db.Ping(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", api.NewRouter(rt.svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker))

	// Post assets are public, like the pages that embed them.
	r.Get(strings.TrimSuffix(cfg.Garden.AssetRoot, "/")+"/*", api.NewAssetHandler(rt.posts).ServeFile)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := index.Watch(gCtx, rt.db, rt.posts, rt.dates, logger, func(kind, path string) {
			rt.svc.Invalidate(kind, path)
			broker.PublishPostEvent(kind, path)
		})
		if err != nil {
			// Serving continues without live updates.
			logger.Error("watcher failed", slog.String("error", err.Error()))
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group context so the watcher stops with the server.
var errShutdown = errors.New("shutdown")
