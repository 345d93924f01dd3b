package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Versifine/wayfarer/internal/app"
	"github.com/Versifine/wayfarer/internal/config"
	"github.com/Versifine/wayfarer/internal/debug"
	"github.com/Versifine/wayfarer/internal/logger"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
		CRLF:   true,
	}); err != nil {
		slog.Warn("Log file unavailable", "error", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sim, err := app.New(cfg)
	if err != nil {
		slog.Error("Failed to assemble simulation", "error", err)
		os.Exit(1)
	}

	console := debug.NewConsole(debug.Deps{
		Actions:    sim.Body.Actions(),
		State:      sim.World,
		Teleporter: sim.Teleport,
		Travel:     sim.Travel,
		Buildings:  sim.Buildings,
		Panel:      sim.Panel,
		Post:       func(fn func()) { sim.Post(ctx, fn) },
	}, os.Stdout)
	sim.Attach(console)

	go func() {
		if err := console.Start(ctx, stop); err != nil {
			slog.Error("Console stopped", "error", err)
			stop()
		}
	}()

	if err := sim.Run(ctx, console.Render); err != nil {
		slog.Error("Simulation failed", "error", err)
		os.Exit(1)
	}
}
