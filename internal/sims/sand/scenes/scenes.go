// Package scenes registers preset sand worlds built from the reference
// materials.
package scenes

import (
	"mad-sand/internal/core"
	"mad-sand/internal/sims/sand"
	"mad-sand/pkg/materials"
)

// Scene lays out the initial cells of a world.
type Scene struct {
	Name  string
	Build func(w *sand.World)
}

// All lists the preset scenes.
func All() []Scene {
	return []Scene{
		{Name: "sandbox", Build: Sandbox},
		{Name: "hourglass", Build: Hourglass},
		{Name: "volcano", Build: Volcano},
	}
}

// Lookup returns the scene registered under name.
func Lookup(name string) (Scene, bool) {
	for _, s := range All() {
		if s.Name == name {
			return s, true
		}
	}
	return Scene{}, false
}

func init() {
	for _, s := range All() {
		core.Register(s.Name, func(cfg map[string]string) core.Sim {
			return New(s, sand.FromMap(cfg))
		})
	}
}

// New builds a world for the scene from cfg. The scene is laid out on every
// Reset.
func New(s Scene, cfg sand.Config, opts ...sand.Option) *sand.World {
	opts = append([]sand.Option{sand.WithName(s.Name), sand.WithScene(s.Build)}, opts...)
	return sand.NewWithConfig(cfg, opts...)
}

// Sandbox is a walled box with a sand heap, a pool of water under a film of
// oil, and a heater in the corner.
func Sandbox(w *sand.World) {
	W, H := w.Width(), w.Height()
	frame(w)
	w.Fill(1, H*3/4, W/2, H-1, materials.Water)
	w.Fill(1, H*3/4-3, W/2, H*3/4, materials.Oil)
	w.Paint(W*3/4, H/3, W/8, materials.Sand)
	w.Fill(W-6, H-6, W-2, H-2, materials.Heater)
	rng := w.Rand()
	for i := 0; i < W; i++ {
		x, y := rng.IntN(W-2)+1, rng.IntN(H/4)+1
		if w.IsEmpty(x, y) {
			w.Place(x, y, materials.Sand)
		}
	}
}

// Hourglass is two wall funnels meeting at a one-cell neck with the top half
// full of sand.
func Hourglass(w *sand.World) {
	W, H := w.Width(), w.Height()
	frame(w)
	cx, mid := W/2, H/2
	for y := 1; y < H-1; y++ {
		half := abs(y-mid) * (W / 2) / max(mid, 1)
		for x := 1; x < W-1; x++ {
			if abs(x-cx) > half {
				w.Place(x, y, materials.Wall)
			}
		}
	}
	for y := 1; y < mid-2; y++ {
		for x := 1; x < W-1; x++ {
			if w.IsEmpty(x, y) {
				w.Place(x, y, materials.Sand)
			}
		}
	}
}

// Volcano is a stone cone around a lava vent and chamber with a heater bed
// under it, a lake on one side and a layer of sand on the other.
func Volcano(w *sand.World) {
	W, H := w.Width(), w.Height()
	frame(w)
	cx, base := W/2, H-2
	peak := H / 3
	slope := max((base-peak)/max(W/4, 1), 1)
	for y := peak; y <= base; y++ {
		half := (y - peak) / slope
		for x := cx - half; x <= cx+half; x++ {
			if w.InBounds(x, y) && x > 0 && x < W-1 {
				w.Place(x, y, materials.Stone)
			}
		}
	}
	for y := peak; y < base-2; y++ {
		w.Place(cx, y, materials.Lava)
	}
	w.Paint(cx, base-H/8, max(H/12, 2), materials.Lava)
	w.Fill(cx-2, base, cx+3, base+1, materials.Heater)
	w.Fill(1, base-H/10, cx/2, base+1, materials.Water)
	w.Fill(cx+cx/2, base-H/16, W-1, base+1, materials.Sand)
}

// frame walls the outer ring of cells.
func frame(w *sand.World) {
	W, H := w.Width(), w.Height()
	w.Fill(0, 0, W, 1, materials.Wall)
	w.Fill(0, H-1, W, H, materials.Wall)
	w.Fill(0, 0, 1, H, materials.Wall)
	w.Fill(W-1, 0, W, H, materials.Wall)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
