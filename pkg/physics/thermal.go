package physics

import "mad-sand/pkg/material"

var neighbours4 = [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// Diffuse exchanges heat between (x, y) and each in-bounds 4-neighbour with
// probability chance per neighbour. Each exchange moves k of the difference:
// the cell gains (tn-ts)*k and the neighbour loses the same amount, so the
// pair's total heat is unchanged. Over many frames this converges like a
// diffusion solve without moving all heat in one tick.
func Diffuse(w material.World, x, y int, chance, k float64) {
	if chance <= 0 || k == 0 {
		return
	}
	rng := w.Rand()
	for _, n := range neighbours4 {
		nx, ny := x+n[0], y+n[1]
		if !w.InBounds(nx, ny) {
			continue
		}
		if !rng.Chance(chance) {
			continue
		}
		delta := (w.Temp(nx, ny) - w.Temp(x, y)) * k
		if delta == 0 {
			continue
		}
		w.AddTemp(x, y, delta)
		w.AddTemp(nx, ny, -delta)
	}
}

// HeatSource is implemented by worlds that carry default diffusion settings.
type HeatSource interface {
	HeatExchange() (chance, k float64)
}

// DiffuseDefault diffuses with the world's configured chance and rate, or does
// nothing when the world does not expose them.
func DiffuseDefault(w material.World, x, y int) {
	hs, ok := w.(HeatSource)
	if !ok {
		return
	}
	chance, k := hs.HeatExchange()
	Diffuse(w, x, y, chance, k)
}

// Relax pulls the cell's temperature toward target by fraction k.
func Relax(w material.World, x, y int, target, k float64) {
	w.AddTemp(x, y, (target-w.Temp(x, y))*k)
}
