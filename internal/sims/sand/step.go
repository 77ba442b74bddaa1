package sand

import (
	"time"

	"mad-sand/internal/core"
	"mad-sand/pkg/material"
)

// Stats returns the statistics of the last Step.
func (w *World) Stats() core.FrameStats { return w.stats }

// Step advances the world by one frame.
//
// The sweep visits the regions that were awake when the frame started, band
// by band from the bottom of the grid up, and each band row by row from the
// bottom up. The horizontal direction flips per row (or is drawn from the
// RNG when RandomRows is set). A cell runs only if it holds a material and
// was not already flagged this frame; it is flagged before its behaviour
// runs. Set and Swap flag the cells they write, so a material that moved is
// not dispatched again in the same frame. Regions woken during the sweep are
// picked up on the next frame.
func (w *World) Step() {
	start := time.Now()
	w.frame++
	w.grid.BeginFrame()
	w.regions = w.act.Snapshot(w.regions[:0])

	cols, _ := w.act.Dims()
	updates := 0
	end := len(w.regions)
	for end > 0 {
		band := w.regions[end-1] / cols
		first := end - 1
		for first > 0 && w.regions[first-1]/cols == band {
			first--
		}
		updates += w.sweepBand(w.regions[first:end], band)
		end = first
	}

	slept := w.act.Advance()
	w.stats = core.FrameStats{
		Frame:         w.frame,
		Regions:       w.act.Count(),
		ActiveRegions: len(w.regions),
		Updates:       updates,
		Slept:         slept,
		Duration:      time.Since(start),
	}
	w.log.Debug("frame",
		"frame", w.frame,
		"active", len(w.regions),
		"updates", updates,
		"slept", slept,
		"took", w.stats.Duration,
	)
}

// sweepBand runs the cells of the awake regions in one band. regs is sorted
// by column.
func (w *World) sweepBand(regs []int, band int) int {
	size := w.act.RegionSize()
	y0 := band * size
	y1 := min(y0+size, w.grid.H)
	n := 0
	for y := y1 - 1; y >= y0; y-- {
		if w.leftToRight(y) {
			for _, r := range regs {
				x0, _, x1, _ := w.act.Bounds(r)
				for x := x0; x < x1; x++ {
					n += w.visit(x, y)
				}
			}
			continue
		}
		for i := len(regs) - 1; i >= 0; i-- {
			x0, _, x1, _ := w.act.Bounds(regs[i])
			for x := x1 - 1; x >= x0; x-- {
				n += w.visit(x, y)
			}
		}
	}
	return n
}

func (w *World) leftToRight(y int) bool {
	if w.cfg.Params.RandomRows {
		return w.rng.Bool()
	}
	return (uint64(y)+w.frame)%2 == 0
}

func (w *World) visit(x, y int) int {
	id := w.grid.ID(x, y)
	if id == material.Air || w.grid.Touched(x, y) {
		return 0
	}
	w.grid.Touch(x, y)
	if w.reg.Dispatch(id, x, y, w) {
		return 1
	}
	return 0
}

// Run advances the world by n frames.
func (w *World) Run(n int) {
	for i := 0; i < n; i++ {
		w.Step()
	}
}
