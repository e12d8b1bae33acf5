// Command sky-term animates the weather sky in the terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/i474232898/weather-sky/internal/animation"
	"github.com/i474232898/weather-sky/internal/app"
	"github.com/i474232898/weather-sky/internal/config"
	"github.com/i474232898/weather-sky/internal/log"
	"github.com/i474232898/weather-sky/internal/term"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "sky-term: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	// Log to a file when asked; the terminal belongs to the sky.
	if path := os.Getenv("SKY_TERM_LOG"); path != "" {
		if err := log.InitFile(path, cfg.LogDebug); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
	} else {
		log.Disable()
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := app.New(cfg)
	if err := a.Start(ctx); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	defer a.Stop()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	viewer := term.NewViewer(screen, a.Renderer, animation.WithFPS(cfg.SkyFPS))
	if err := viewer.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
