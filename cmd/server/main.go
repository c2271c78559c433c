package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/richmedia/richmedia/backend-go/internal/api"
	"github.com/richmedia/richmedia/backend-go/internal/auth"
	"github.com/richmedia/richmedia/backend-go/internal/config"
	"github.com/richmedia/richmedia/backend-go/internal/geometry"
	mw "github.com/richmedia/richmedia/backend-go/internal/middleware"
	"github.com/richmedia/richmedia/backend-go/internal/preview"
	"github.com/richmedia/richmedia/backend-go/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshots, err := openStore(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("open snapshot store", "error", err)
		os.Exit(1)
	}
	defer snapshots.Close()

	authService, err := auth.NewService(cfg.JWTSecret)
	if err != nil {
		slog.Error("auth service", "error", err)
		os.Exit(1)
	}
	authHandler := auth.NewHandler()

	canvas := geometry.Size{Width: cfg.ReferenceCanvasWidth, Height: cfg.ReferenceCanvasHeight}
	docs := api.NewDocuments(snapshots, canvas)
	apiHandler := api.NewHandler(docs, canvas, cfg.RenderWorkers)

	hub := preview.NewHub()
	previewHandler := preview.NewHandler(hub, authService, cfg.PreviewFPS, canvas, mw.OriginHosts(cfg.Origins()))

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	apiHandler.Routes(r, authService.AuthMiddleware)
	r.Handle("/api/me", authService.AuthMiddleware(http.HandlerFunc(authHandler.Me))).Methods("GET")

	// WebSocket endpoint
	r.Handle("/ws/preview", previewHandler)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server", "previewSessions", hub.Count())
		hub.CloseAll()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr, "canvas", canvas, "previewFPS", cfg.PreviewFPS)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

// openStore uses Postgres when a database URL is configured and an in-memory
// store otherwise.
func openStore(ctx context.Context, databaseURL string) (store.Store, error) {
	if databaseURL == "" {
		slog.Warn("DATABASE_URL not set, snapshots are kept in memory")
		return store.NewMemory(), nil
	}
	pg, err := store.NewPostgres(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return pg, nil
}
