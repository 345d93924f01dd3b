// Command walker-sandbox drives the simulation from a full-screen terminal
// with a top-down view of the level.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Versifine/wayfarer/internal/app"
	"github.com/Versifine/wayfarer/internal/config"
	"github.com/Versifine/wayfarer/internal/logger"
	"github.com/gdamore/tcell/v2"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML config")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "walker-sandbox: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	// The screen owns stdout; records only go to the log file.
	if err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
		Output: io.Discard,
	}); err != nil {
		return err
	}
	defer logger.Close()

	sim, err := app.New(cfg)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.Clear()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sb := newSandbox(sim, screen, stop)
	sim.Attach(sb.pulses)

	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			if !sim.Post(ctx, func() { sb.handle(ev) }) {
				return
			}
		}
	}()

	slog.Info("Sandbox started", "component", "sandbox")
	return sim.Run(ctx, sb.render)
}
