package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"

	"github.com/oqulab/virtlab/internal/api"
	"github.com/oqulab/virtlab/internal/config"
	"github.com/oqulab/virtlab/internal/db"
	"github.com/oqulab/virtlab/internal/lib/slogx"
	"github.com/oqulab/virtlab/internal/middleware"
	"github.com/oqulab/virtlab/internal/token"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	slog.SetDefault(slog.New(slogx.NewHandler(os.Stdout, slog.LevelInfo)))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	sqlDB, err := sql.Open("sqlite3", cfg.DatabasePath)
	if err != nil {
		slog.Error("open database", "error", err)
		os.Exit(1)
	}
	defer sqlDB.Close()
	if err := sqlDB.Ping(); err != nil {
		slog.Error("ping database", "error", err)
		os.Exit(1)
	}
	if err := db.RunMigrations(sqlDB); err != nil {
		slog.Error("run migrations", "error", err)
		os.Exit(1)
	}
	store, err := db.NewSQLStore(sqlDB)
	if err != nil {
		slog.Error("init store", "error", err)
		os.Exit(1)
	}

	signer := token.NewSigner(cfg.JWTSecret, cfg.TokenTTL)
	router := api.NewRouter(store, signer)

	if cfg.Seed {
		created, err := router.LabService().Seed()
		if err != nil {
			slog.Error("seed catalog", "error", err)
			os.Exit(1)
		}
		slog.Info("seeded demonstration catalog", "created", created)
	}

	mux := http.NewServeMux()
	router.Register(mux)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "name": "Virtual Lab API"})
	})

	handler := middleware.CORS(cfg.CORSOrigins,
		middleware.SecureHeaders(middleware.Logging(mux)))

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("virtlab server listening", "addr", cfg.Addr, "token_ttl", cfg.TokenTTL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("shutdown", "error", err)
	}
}
