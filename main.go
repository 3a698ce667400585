package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/chazu/sketch/pkg/config"
	"github.com/chazu/sketch/pkg/sketch"
	"github.com/chazu/sketch/pkg/store"
)

// ============================================================
// Sketch Service
// ============================================================

func main() {
	configPath := flag.String("config", getenv("SKETCH_CONFIG", "sketch.yaml"), "path to YAML config")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("sketch service stopped", "err", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel()}))
	slog.SetDefault(log)
	sketch.SetLogger(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	srv := newServer(NewApp(cfg, st), fiber.Config{
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.Engine.Timeout + 10*time.Second,
	})

	go func() {
		<-ctx.Done()
		_ = srv.ShutdownWithTimeout(5 * time.Second)
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("starting sketch service", "addr", addr, "store", cfg.Store.Path)
	return srv.Listen(addr)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
