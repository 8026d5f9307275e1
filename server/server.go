// Package server exposes the overlay page and its API over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JobThompson/Navidrome-OBS-Plugin/config"
	"github.com/JobThompson/Navidrome-OBS-Plugin/core/subsonic"
	"github.com/JobThompson/Navidrome-OBS-Plugin/logger"

	"github.com/gorilla/mux"
)

// Server owns the HTTP listener and wires the handlers to one backend
// client. The configuration is read-only after construction; requests share
// nothing else.
type Server struct {
	cfg     *config.Config
	handler *APIHandler
	router  *mux.Router
}

// New builds a fully routed server for the given configuration.
func New(cfg *config.Config) *Server {
	client := subsonic.NewClient(cfg)
	handler := NewAPIHandler(cfg, client)

	router := mux.NewRouter()
	router.Use(corsMiddleware, requestLogMiddleware)

	router.HandleFunc("/", handler.IndexHandler).Methods(http.MethodGet)
	router.HandleFunc("/index.html", handler.IndexHandler).Methods(http.MethodGet)
	router.HandleFunc("/health", handler.HealthHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/now-playing", handler.NowPlayingHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/theme", handler.ThemeHandler).Methods(http.MethodGet)
	router.PathPrefix("/api/cover/").HandlerFunc(handler.CoverArtHandler).Methods(http.MethodGet)
	router.PathPrefix("/assets/").Handler(NewStaticHandler(cfg)).Methods(http.MethodGet)

	return &Server{cfg: cfg, handler: handler, router: router}
}

// Router exposes the route table, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Run serves until the process receives SIGINT/SIGTERM, then shuts down
// gracefully. A watcher on the env file logs when the configuration changes
// on disk, since the loaded profile stays fixed until restart.
func (s *Server) Run() error {
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.cfg.ServerHost, s.cfg.ServerPort),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		err := config.WatchEnvFile(ctx, s.cfg.EnvFile, func() {
			logger.Warn("configuration file changed on disk; restart the overlay to apply it",
				logger.String("envFile", s.cfg.EnvFile))
		})
		if err != nil {
			logger.Debug("env file watcher unavailable", logger.ErrorField(err))
		}
	}()

	go func() {
		<-ctx.Done()
		logger.Info("shutdown signal received, stopping http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", logger.ErrorField(err))
		}
	}()

	logger.Info("overlay running",
		logger.String("url", fmt.Sprintf("http://%s:%d", s.cfg.ServerHost, s.cfg.ServerPort)),
		logger.Int("refreshSeconds", s.cfg.RefreshSeconds))

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("unable to start server on %s:%d: %w (another app may be using that port; update OVERLAY_PORT or rerun setup)",
			s.cfg.ServerHost, s.cfg.ServerPort, err)
	}
	return nil
}
