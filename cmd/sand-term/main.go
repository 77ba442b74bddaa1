package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"

	"mad-sand/internal/app"
	"mad-sand/internal/core"
	_ "mad-sand/internal/sims/sand/scenes"
	"mad-sand/internal/termview"
	"mad-sand/pkg/material"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	logFile := flag.String("log", "", "write logs to this file while the screen is active")
	flag.Parse()

	if err := run(cfg, *logFile); err != nil {
		slog.Error("sand-term", "err", err)
		os.Exit(1)
	}
}

func run(cfg app.Config, logFile string) error {
	var out io.Writer = io.Discard
	if logFile != "" {
		f, err := os.Create(logFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	log := cfg.NewLogger(out)

	sim, err := cfg.NewSim()
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := termview.NewApp(screen, sim, cfg.Seed,
		termview.WithLogger(log),
		termview.WithTPS(cfg.TPS),
		termview.WithBrushes(core.Brushes(material.Default())),
	)
	log.Info("started", "sim", sim.Name(), "w", sim.Size().W, "h", sim.Size().H)
	if err := a.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
