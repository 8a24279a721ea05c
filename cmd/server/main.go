// Package main is the entry point for the codeshareit server.
//
// The main package is kept minimal — its job is to:
// 1. Read configuration (env vars, optionally a .env file)
// 2. Create dependencies (logger)
// 3. Start the application
//
// All actual logic lives in imported packages (internal/server,
// internal/handler, etc.).
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/im-rahulr/codeshareit/internal/server"
)

func main() {
	// Load .env if present. Real env vars win over the file, and a
	// missing file is not an error — production sets the environment
	// directly.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(),
	}))

	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	staticDir, _ := filepath.Abs("web/static")
	if envStatic := os.Getenv("STATIC_DIR"); envStatic != "" {
		staticDir = envStatic
	}

	dbPath := "data/codeshareit.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", filepath.Dir(dbPath)),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// SESSION_SECRET signs admin session cookies. Generate one with:
	//   SESSION_SECRET=$(openssl rand -hex 32)
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		logger.Error("SESSION_SECRET is required")
		os.Exit(1)
	}

	cfg := server.Config{
		Port:          port,
		StaticDir:     staticDir,
		DBPath:        dbPath,
		SessionSecret: secret,
		SkipMigrate:   os.Getenv("SKIP_MIGRATE") == "1",
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (Ctrl+C or SIGTERM).
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func logLevel() slog.Level {
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
