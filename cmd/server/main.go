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
	"github.com/joho/godotenv"

	"github.com/inamate/seatmap/internal/auth"
	"github.com/inamate/seatmap/internal/config"
	"github.com/inamate/seatmap/internal/db"
	"github.com/inamate/seatmap/internal/engine"
	"github.com/inamate/seatmap/internal/export"
	mw "github.com/inamate/seatmap/internal/middleware"
	"github.com/inamate/seatmap/internal/raster"
	"github.com/inamate/seatmap/internal/session"
	"github.com/inamate/seatmap/internal/venue"
)

const snapshotTTL = 10 * time.Minute

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	opts, err := engine.OptionsFromConfig(cfg.Engine)
	if err != nil {
		slog.Error("engine options", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Venue lookup order: directory, database, built-in sample.
	var stores venue.Fallback
	var saver venue.Saver
	if cfg.VenueDir != "" {
		stores = append(stores, venue.FileStore{Dir: cfg.VenueDir})
	}
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		pg := venue.NewPostgresStore(pool)
		stores = append(stores, pg)
		saver = pg
	}
	stores = append(stores, venue.SampleStore{ID: cfg.VenueID})

	var cache export.Cache
	if cfg.RedisAddr != "" {
		client, err := db.NewRedis(ctx, cfg.RedisAddr)
		if err != nil {
			slog.Warn("snapshot cache disabled", "error", err)
		} else {
			defer client.Close()
			cache = export.NewRedisCache(client, snapshotTTL)
		}
	}

	renderer, err := raster.NewRenderer()
	if err != nil {
		slog.Error("create renderer", "error", err)
		os.Exit(1)
	}
	defer renderer.Close()

	authService := auth.NewService(cfg.JWTSecret)
	authHandler := auth.NewHandler(authService, stores, cfg.VenueID)
	venueHandler := venue.NewHandler(stores, saver)
	exportHandler := export.NewHandler(stores, renderer, cache, opts)

	hub := session.NewHub(opts, cfg.Origins())
	go hub.Run()

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok","sessions":%d}`, hub.Sessions(cfg.VenueID))
	}).Methods("GET")

	// Session tokens (public)
	r.HandleFunc("/sessions", authHandler.CreateSession).Methods("POST", "OPTIONS")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.AuthMiddleware)

	api.HandleFunc("/venues", venueHandler.Create).Methods("POST", "OPTIONS")
	api.HandleFunc("/venues/{venueId}", venueHandler.Get).Methods("GET", "OPTIONS")
	api.HandleFunc("/venues/{venueId}/snapshot.png", exportHandler.Snapshot).Methods("GET", "OPTIONS")

	// WebSocket endpoint
	r.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, authService, stores)
	})

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
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr, "venue", cfg.VenueID, "frame_loop", opts.FrameLoop)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

// handleWebSocket authenticates the session token from the query string and
// runs an engine session on the token's venue.
func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *session.Hub, authSvc *auth.Service, stores venue.Store) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := authSvc.ValidateToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	v, _, err := stores.Load(r.Context(), claims.VenueID)
	if err != nil {
		slog.Warn("load venue for session", "venue", claims.VenueID, "error", err)
		http.Error(w, "venue unavailable", http.StatusNotFound)
		return
	}

	hub.Serve(w, r, v, claims.SessionID)
}
