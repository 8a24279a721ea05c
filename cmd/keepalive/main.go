// Package main is the keepalive pinger: a tiny sidecar that hits the
// server's health endpoint on a schedule so free-tier hosts don't spin
// the instance down for inactivity.
//
// It runs as its own binary (cmd/keepalive) rather than a goroutine in
// the server — a server pinging itself keeps nothing alive.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Twice a day is enough to register as activity without showing up as
// meaningful traffic in anyone's dashboards.
const defaultSchedule = "0 */12 * * *"

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	target := os.Getenv("KEEPALIVE_URL")
	if target == "" {
		logger.Error("KEEPALIVE_URL is required (e.g. https://myapp.example.com/healthz)")
		os.Exit(1)
	}

	schedule := os.Getenv("KEEPALIVE_SCHEDULE")
	if schedule == "" {
		schedule = defaultSchedule
	}

	client := &http.Client{Timeout: 30 * time.Second}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() { ping(client, target, logger) })
	if err != nil {
		logger.Error("invalid schedule",
			slog.String("schedule", schedule),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// One immediate ping on startup so a misconfigured URL surfaces now,
	// not twelve hours from now.
	ping(client, target, logger)

	logger.Info("keepalive started",
		slog.String("url", target),
		slog.String("schedule", schedule),
	)
	c.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", slog.String("signal", sig.String()))
	<-c.Stop().Done()
}

func ping(client *http.Client, target string, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		logger.Error("building request", slog.String("error", err.Error()))
		return
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		logger.Error("ping failed",
			slog.String("url", target),
			slog.String("error", err.Error()),
		)
		return
	}
	defer resp.Body.Close()

	logger.Info("ping ok",
		slog.String("url", target),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)
}
