package core

import (
	pcore "mad-sand/pkg/core"
	"mad-sand/pkg/material"
)

// Painter is implemented by sims that accept brush strokes from a host.
type Painter interface {
	Paint(cx, cy, radius int, id material.ID)
}

// WindController is implemented by sims with an adjustable ambient wind.
type WindController interface {
	Wind() (dx, dy float64)
	WindStrength() float64
	SetWind(dx, dy, strength float64)
}

// Brush binds a host key to a material. Color is the swatch a palette shows.
type Brush struct {
	Key   rune
	ID    material.ID
	Name  string
	Color pcore.Pixel
}

const brushKeys = "1234567890-="

// Brushes assigns the number-row keys to the registered materials in id
// order. Materials past the last key get no brush.
func Brushes(reg *material.Registry) []Brush {
	ids := reg.IDs()
	n := min(len(ids), len(brushKeys))
	out := make([]Brush, 0, n)
	for i, k := range brushKeys[:n] {
		id := ids[i]
		out = append(out, Brush{Key: k, ID: id, Name: reg.Name(id), Color: reg.Color(id)})
	}
	return out
}

// NudgeWind moves the wind x component by dx and raises the strength to at
// least the new magnitude, so a key press is always felt.
func NudgeWind(w WindController, dx float64) {
	x, y := w.Wind()
	x += dx
	strength := w.WindStrength()
	if ax := abs(x); ax > strength {
		strength = ax
	}
	w.SetWind(x, y, strength)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
