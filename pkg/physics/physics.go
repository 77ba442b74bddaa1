// Package physics holds the movement and heat primitives materials are built
// from. Everything here goes through material.World, so bounds checks,
// touched flags and activity tracking are handled by the engine.
package physics

import (
	"math"

	"mad-sand/pkg/material"
)

// CanSink reports whether a mover of density mover may swap downward into a
// cell of density target: the target is empty, or lighter and not immovable.
// Only positive densities sink.
func CanSink(mover, target float64) bool {
	if mover <= 0 || !movable(mover) {
		return false
	}
	if target == 0 {
		return true
	}
	return target < mover && !math.IsInf(target, 1)
}

// CanRise is the buoyant mirror of CanSink: a lighter mover rises into an
// empty cell or through a denser, movable one. Negative densities rise
// through air too.
func CanRise(mover, target float64) bool {
	if !movable(mover) {
		return false
	}
	if target == 0 {
		return true
	}
	return target > mover && !math.IsInf(target, 1)
}

// movable rejects air, immovable solids and NaN.
func movable(d float64) bool {
	return d != 0 && !math.IsInf(d, 0) && !math.IsNaN(d)
}

// Fall moves the cell at (x, y) one row down when CanSink allows it.
func Fall(w material.World, x, y int) bool {
	return tryMove(w, x, y, x, y+1, CanSink)
}

// Rise moves the cell at (x, y) one row up when CanRise allows it.
func Rise(w material.World, x, y int) bool {
	return tryMove(w, x, y, x, y-1, CanRise)
}

type gate func(mover, target float64) bool

func tryMove(w material.World, x, y, nx, ny int, ok gate) bool {
	if !w.InBounds(nx, ny) {
		return false
	}
	if !ok(w.Density(x, y), w.Density(nx, ny)) {
		return false
	}
	w.Swap(x, y, nx, ny)
	return true
}

// offset is a candidate move relative to the mover. The dx sign is flipped
// by the per-call direction draw.
type offset struct{ dx, dy int }

var (
	slideOffsets = []offset{{1, 1}}
	flowOffsets  = []offset{{1, 1}, {1, 0}}
	driftOffsets = []offset{{1, -1}, {1, 0}}
)

// spread tries each offset with a random left/right tie-break, then the
// mirrored side, returning on the first admissible move.
func spread(w material.World, x, y int, offsets []offset, dir int, ok gate) bool {
	mover := w.Density(x, y)
	for _, o := range offsets {
		for _, s := range [2]int{dir, -dir} {
			nx, ny := x+o.dx*s, y+o.dy
			if !w.InBounds(nx, ny) {
				continue
			}
			if ok(mover, w.Density(nx, ny)) {
				w.Swap(x, y, nx, ny)
				return true
			}
		}
	}
	return false
}

// Slide tries the two diagonal-down cells in random order.
func Slide(w material.World, x, y int) bool {
	return spread(w, x, y, slideOffsets, w.Rand().Dir(), CanSink)
}

// Flow tries diagonal-down, then horizontal neighbours, in random order.
func Flow(w material.World, x, y int) bool {
	return spread(w, x, y, flowOffsets, w.Rand().Dir(), CanSink)
}

// Drift tries diagonal-up, then horizontal neighbours. The side is chosen by
// the ambient wind when it is strong enough, otherwise at random.
func Drift(w material.World, x, y int) bool {
	return spread(w, x, y, driftOffsets, WindDir(w), CanRise)
}

// Powder falls straight down, else slides diagonally: sand, ash, snow.
func Powder(w material.World, x, y int) bool {
	return Fall(w, x, y) || Slide(w, x, y)
}

// Liquid falls, else flows sideways: water, oil, lava.
func Liquid(w material.World, x, y int) bool {
	return Fall(w, x, y) || Flow(w, x, y)
}

// Gas rises, else drifts with the wind: steam, smoke.
func Gas(w material.World, x, y int) bool {
	return Rise(w, x, y) || Drift(w, x, y)
}

// WindDir picks a horizontal direction. With probability equal to the wind
// strength the sign of the wind's x component is used; otherwise, or when
// there is no horizontal wind, the side is random.
func WindDir(w material.World) int {
	dx, _ := w.Wind()
	rng := w.Rand()
	if dx != 0 && rng.Chance(w.WindStrength()) {
		if dx > 0 {
			return 1
		}
		return -1
	}
	return rng.Dir()
}
