package core

import (
	"sort"
	"time"
)

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	H int
}

// Sim defines the contract the hosts (window, terminal, sweeps) drive.
type Sim interface {
	Name() string
	Size() Size
	Reset(seed int64)
	Step()
	// Render writes one packed pixel per cell (see pkg/core.Pixel) into dst,
	// which must hold Size().W*Size().H entries.
	Render(dst []uint32)
}

// FrameStats summarises the most recent Step of a sim.
type FrameStats struct {
	Frame         uint64
	Regions       int
	ActiveRegions int
	// Updates counts behaviour dispatches (air and unknown ids excluded).
	Updates  int
	Slept    int
	Duration time.Duration
}

// StatsProvider is implemented by sims that report per-frame statistics.
type StatsProvider interface {
	Stats() FrameStats
}

// Factory constructs a Sim using an optional configuration map.
type Factory func(cfg map[string]string) Sim

var sims = map[string]Factory{}

// Register adds a simulation factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	sims[name] = f
}

// Sims exposes the registry of available simulation factories.
func Sims() map[string]Factory {
	return sims
}

// SimNames lists the registered simulations in sorted order.
func SimNames() []string {
	names := make([]string, 0, len(sims))
	for name := range sims {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
