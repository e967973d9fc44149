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

	"github.com/go-chi/chi/v5"

	"github.com/nestcare/crm/internal/api"
	"github.com/nestcare/crm/internal/api/accounts"
	"github.com/nestcare/crm/internal/api/fields"
	"github.com/nestcare/crm/internal/api/layouts"
	"github.com/nestcare/crm/internal/api/leads"
	"github.com/nestcare/crm/internal/api/metadata"
	"github.com/nestcare/crm/internal/api/objects"
	"github.com/nestcare/crm/internal/api/records"
	"github.com/nestcare/crm/internal/auth"
	"github.com/nestcare/crm/internal/config"
	"github.com/nestcare/crm/internal/conversion"
	"github.com/nestcare/crm/internal/database"
	"github.com/nestcare/crm/internal/seed"
	"github.com/nestcare/crm/internal/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	if err := seed.Seed(ctx, db); err != nil {
		return fmt.Errorf("seed data: %w", err)
	}
	if cfg.SeedDemo {
		if err := seed.Demo(ctx, db); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}

	s := store.New(db)
	authz := auth.ActorPolicy{}
	pipeline := conversion.NewPipeline(s, authz, slog.Default())

	r := chi.NewRouter()
	r.Use(api.Recovery())
	r.Use(api.RequestID())
	r.Use(api.Auth(cfg.AuthSecret))
	r.Use(api.JSONContentType())
	r.Use(api.Logging())

	r.Route("/crm/v1", func(r chi.Router) {
		objects.RegisterRoutes(r, s.Objects, authz)
		fields.RegisterRoutes(r, s.Fields, authz)
		layouts.RegisterRoutes(r, s.Layouts, authz)
		metadata.RegisterRoutes(r, s.Metadata, authz)
		leads.RegisterRoutes(r, s.Records, pipeline, authz)
		accounts.RegisterRoutes(r, s.Records, pipeline, authz)
		records.RegisterRoutes(r, s.Records, authz)
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		api.WriteError(w, http.StatusNotFound, api.NewNotFoundError(
			fmt.Sprintf("No route found for %s %s", req.Method, req.URL.Path),
			api.CorrelationID(req.Context()),
		))
	})

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: r,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		slog.Info("shutting down server")
		if err := srv.Shutdown(context.Background()); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("starting crm server", "addr", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}

	return nil
}
