package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/inamate/fractalscape/internal/config"
	"github.com/inamate/fractalscape/internal/export"
	"github.com/inamate/fractalscape/internal/gallery"
	mw "github.com/inamate/fractalscape/internal/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	level, _ := config.ParseLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	_, _ = maxprocs.Set(maxprocs.Logger(func(s string, i ...interface{}) {
		slog.Info(fmt.Sprintf(strings.ToLower(s), i...))
	}))

	hub := gallery.NewHub(cfg.Scene, cfg.Seed)
	go hub.Run()

	r := newRouter(cfg, hub)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Disconnect gallery viewers first so their handlers return.
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr, "seed", cfg.Seed, "width", cfg.Scene.Width, "height", cfg.Scene.Height)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func newRouter(cfg *config.Config, hub *gallery.Hub) *mux.Router {
	scenes := &sceneHandler{cfg: cfg.Scene, fixedSeed: cfg.Seed}
	exportHandler := export.NewHandler(cfg.Scene, cfg.Seed, cfg.ExportMaxSize)

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/scene", scenes.Get).Methods("GET", "OPTIONS")
	api.HandleFunc("/rooms", createRoom).Methods("POST", "OPTIONS")
	api.HandleFunc("/config", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, cfg.Scene)
	}).Methods("GET", "OPTIONS")

	r.HandleFunc("/export/png", exportHandler.ExportPNG).Methods("GET", "OPTIONS")

	// WebSocket endpoint
	r.HandleFunc("/ws/gallery/{roomId}", hub.ServeWS(cfg.OriginPatterns()))

	return r
}
