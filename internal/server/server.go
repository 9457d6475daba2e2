// Package server exposes SQL Lab session state over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/sqllab/internal/config"
	"github.com/leapstack-labs/sqllab/internal/server/notifier"
	"github.com/leapstack-labs/sqllab/pkg/core"
)

const (
	defaultShutdownTimeout = 5 * time.Second
	reloadDebounce         = 100 * time.Millisecond
)

// Server is the SQL Lab HTTP server.
type Server struct {
	store           core.Store
	sessionStore    *sessions.CookieStore
	port            int
	watch           bool
	configFile      string
	shutdownTimeout time.Duration
	logger          *slog.Logger
	notifier        *notifier.Notifier
	sqllab          atomic.Pointer[config.SQLLabConfig]
}

// Config holds configuration for the server.
type Config struct {
	Store           core.Store
	Port            int
	Watch           bool
	SessionSecret   string
	ShutdownTimeout time.Duration
	// ConfigFile is reloaded for editor defaults when Watch is set.
	ConfigFile string
	SQLLab     config.SQLLabConfig
	Logger     *slog.Logger
}

// NewServer creates a server instance.
func NewServer(cfg Config) *Server {
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	s := &Server{
		store:           cfg.Store,
		sessionStore:    sessionStore,
		port:            cfg.Port,
		watch:           cfg.Watch,
		configFile:      cfg.ConfigFile,
		shutdownTimeout: timeout,
		logger:          logger,
		notifier:        notifier.New(),
	}

	sqllab := cfg.SQLLab
	config.ApplyDefaults(&sqllab)
	s.sqllab.Store(&sqllab)

	return s
}

// Handler returns the fully routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	SetupRoutes(r, NewHandlers(s.store, s.sessionStore, s.notifier, s.SQLLab, s.logger))
	return r
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch && s.configFile != "" {
		eg.Go(func() error {
			return s.watchConfig(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		s.logger.Debug("shutting down server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// SQLLab returns the editor defaults currently in effect.
func (s *Server) SQLLab() config.SQLLabConfig {
	return *s.sqllab.Load()
}

// Notifier returns the server's change notifier.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// reloadConfig re-reads the editor defaults and pings subscribers.
// A config that fails to load leaves the current defaults in place.
func (s *Server) reloadConfig() {
	cfg, err := config.LoadSQLLab(s.configFile)
	if err != nil {
		s.logger.Error("failed to reload config", "file", s.configFile, "error", err)
		return
	}
	s.sqllab.Store(cfg)
	s.logger.Info("reloaded sqllab config", "file", s.configFile)
	s.notifier.Broadcast()
}

// watchConfig reloads the editor defaults when the config file changes.
// The parent directory is watched so editors that replace the file are seen.
func (s *Server) watchConfig(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	target := filepath.Clean(s.configFile)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		s.logger.Error("failed to watch config directory", "error", err)
		// Serve without reloads.
		<-ctx.Done()
		return nil
	}

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(reloadDebounce, s.reloadConfig)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}
