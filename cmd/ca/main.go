//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"

	"mad-sand/internal/app"
	_ "mad-sand/internal/sims/sand/scenes"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	log := cfg.NewLogger(os.Stderr)
	slog.SetDefault(log)

	sim, err := cfg.NewSim()
	if err != nil {
		log.Error("build sim", "err", err)
		os.Exit(1)
	}

	game := app.New(sim, cfg, log)
	size := sim.Size()

	ebiten.SetWindowTitle("mad-sand: " + sim.Name())
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(size.W*cfg.Scale+max(cfg.HUDWidth, 0), size.H*cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Error("run", "err", err)
		os.Exit(1)
	}
}
