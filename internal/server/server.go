// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer — it connects handlers, middleware, and routes.
// Think of it as the control centre that decides:
// - Which URL patterns map to which handler functions
// - What middleware runs on which routes
// - How the server starts and stops gracefully
//
// DEPENDENCY INJECTION FLOW:
// main.go reads config and creates the logger, then New() assembles:
//   sqlite.DB → SnippetService / SettingsService → handlers → routes
//
// This is the "composition root" pattern — all dependencies are wired
// in one place, rather than scattered across the codebase.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/im-rahulr/codeshareit/internal/auth"
	"github.com/im-rahulr/codeshareit/internal/handler"
	"github.com/im-rahulr/codeshareit/internal/middleware"
	sqliteRepo "github.com/im-rahulr/codeshareit/internal/repository/sqlite"
	"github.com/im-rahulr/codeshareit/internal/service"
)

// Config holds server configuration. main.go fills it from env vars;
// keeping it a struct means new options don't change any signatures.
type Config struct {
	Port      int
	StaticDir string
	DBPath    string

	// SessionSecret signs admin session tokens. Must be set — the
	// server refuses to start without it rather than falling back to
	// a guessable default.
	SessionSecret string

	// SkipMigrate starts the server without creating tables. Used to
	// exercise the setup-required flow against an unprovisioned store;
	// never set it in normal operation.
	SkipMigrate bool
}

// Server represents the HTTP server and all its dependencies. It owns
// the database handle and closes it on shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server, wiring the full dependency chain. Each layer
// only receives what it needs: services get repository interfaces, not
// the concrete DB; handlers get service interfaces, not repositories.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath, sqliteRepo.Options{SkipMigrate: cfg.SkipMigrate})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	tokens, err := auth.NewTokenService(cfg.SessionSecret)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("configuring sessions: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	passwords := auth.NewPasswordService()

	// Seed the default admin row on a provisioned store so first-run
	// login works. Harmless when a row already exists.
	if !cfg.SkipMigrate {
		hash, err := passwords.Hash(service.DefaultAdminPassword)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("hashing default credentials: %w", err)
		}
		if err := db.SeedAdmin(context.Background(), service.DefaultAdminUsername, hash); err != nil {
			db.Close()
			return nil, fmt.Errorf("seeding admin credentials: %w", err)
		}
	}

	s.setupRoutes(tokens, passwords)
	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE MAP:
//
//	GET    /                                  → sharing page
//	GET    /static/*                          → CSS, JS, images
//	POST   /api/snippets                      → share a snippet        [gated]
//	GET    /api/snippets/{code}               → retrieve by code       [gated]
//	POST   /api/highlight                     → server-side highlight  [gated]
//	GET    /api/status                        → public site status
//	GET    /healthz                           → liveness probe
//	POST   /api/admin/login                   → start a session
//	POST   /api/admin/logout                  → end the session
//	GET    /api/admin/me                      → session check          [auth]
//	GET    /api/admin/snippets?q=             → list / search          [auth]
//	DELETE /api/admin/snippets/{code}         → delete                 [auth]
//	GET    /api/admin/stats                   → dashboard aggregates   [auth]
//	GET    /api/admin/settings/status         → read site switch       [auth]
//	PUT    /api/admin/settings/status         → flip site switch       [auth]
//	PUT    /api/admin/settings/credentials    → change credentials     [auth]
//
// [gated] routes sit behind the site switch; [auth] routes require a
// valid session cookie. Admin, login, status and health stay reachable
// while the site is offline — otherwise nobody could turn it back on.
func (s *Server) setupRoutes(tokens *auth.TokenService, passwords *auth.PasswordService) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// === Static Files ===
	fileServer := http.FileServer(http.Dir(s.config.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))
	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(s.config.StaticDir, "index.html"))
	})

	// === Services ===
	snippetService := service.NewSnippetService(s.db, s.logger)
	settingsService := service.NewSettingsService(s.db, passwords, sqliteRepo.SetupSQL, s.logger)

	// === Handlers ===
	snippetHandler := handler.NewSnippetHandler(snippetService, s.logger)
	highlightHandler := handler.NewHighlightHandler(s.logger)
	adminHandler := handler.NewAdminHandler(snippetService, settingsService, s.logger)
	authHandler := handler.NewAuthHandler(settingsService, tokens, s.logger)
	healthHandler := handler.NewHealthHandler(s.db, settingsService, s.logger)

	s.router.Get("/healthz", healthHandler.HandleHealthz)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/status", healthHandler.HandleSiteStatus)

		// Visitor routes behind the site switch.
		r.Group(func(r chi.Router) {
			r.Use(middleware.SiteGate(settingsService, s.logger))
			r.Post("/snippets", snippetHandler.HandleShare)
			r.Get("/snippets/{code}", snippetHandler.HandleLookup)
			r.Post("/highlight", highlightHandler.HandleHighlight)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", authHandler.HandleLogin)
			r.Post("/logout", authHandler.HandleLogout)

			// Everything else needs a session.
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAdmin(tokens))
				r.Get("/me", authHandler.HandleMe)
				r.Get("/snippets", adminHandler.HandleList)
				r.Delete("/snippets/{code}", adminHandler.HandleDelete)
				r.Get("/stats", adminHandler.HandleStats)
				r.Get("/settings/status", adminHandler.HandleGetStatus)
				r.Put("/settings/status", adminHandler.HandleSetStatus)
				r.Put("/settings/credentials", adminHandler.HandleUpdateCredentials)
			})
		})
	})
}

// Start starts the HTTP server and handles graceful shutdown:
// stop accepting connections, wait for in-flight requests (30s),
// then close the database to flush the WAL and release the file lock.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
