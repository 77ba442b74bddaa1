package app

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"mad-sand/internal/core"
	"mad-sand/internal/sims/sand"
)

// ErrUnknownSim is returned by NewSim for a name with no registered factory.
var ErrUnknownSim = errors.New("unknown sim")

// Config holds the flags shared by the window and terminal hosts.
type Config struct {
	Sim        string
	ConfigFile string
	Width      int
	Height     int
	Seed       int64
	TPS        int
	Scale      int
	HUDWidth   int
	Verbose    bool
}

// NewConfig returns the host defaults.
func NewConfig() Config {
	return Config{
		Sim:      "sandbox",
		TPS:      60,
		Scale:    3,
		HUDWidth: 260,
	}
}

// Bind registers the host flags on fs.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "simulation to run ("+strings.Join(core.SimNames(), ", ")+")")
	fs.StringVar(&c.ConfigFile, "config", c.ConfigFile, "YAML world config file")
	fs.IntVar(&c.Width, "w", c.Width, "grid width (overrides the config file)")
	fs.IntVar(&c.Height, "h", c.Height, "grid height (overrides the config file)")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "RNG seed; 0 keeps the configured one")
	fs.IntVar(&c.TPS, "tps", c.TPS, "simulation steps per second")
	fs.IntVar(&c.Scale, "scale", c.Scale, "window pixels per cell")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "HUD panel width in pixels, 0 hides it")
	fs.BoolVar(&c.Verbose, "v", c.Verbose, "debug logging")
}

// Options builds the factory option map: the config file, if any, with the
// size and seed flags layered on top.
func (c Config) Options() (map[string]string, error) {
	opts := map[string]string{}
	if c.ConfigFile != "" {
		cfg, err := sand.LoadConfig(c.ConfigFile)
		if err != nil {
			return nil, err
		}
		opts = cfg.Map()
	}
	if c.Width > 0 {
		opts["w"] = strconv.Itoa(c.Width)
	}
	if c.Height > 0 {
		opts["h"] = strconv.Itoa(c.Height)
	}
	if c.Seed != 0 {
		opts["seed"] = strconv.FormatInt(c.Seed, 10)
	}
	return opts, nil
}

// NewSim builds the selected simulation and lays out its initial state.
func (c Config) NewSim() (core.Sim, error) {
	factory, ok := core.Sims()[c.Sim]
	if !ok {
		return nil, fmt.Errorf("%w %q (have %s)", ErrUnknownSim, c.Sim, strings.Join(core.SimNames(), ", "))
	}
	opts, err := c.Options()
	if err != nil {
		return nil, err
	}
	sim := factory(opts)
	sim.Reset(c.Seed)
	return sim, nil
}

// NewLogger returns a text logger at info level, or debug when Verbose.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
