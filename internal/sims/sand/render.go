package sand

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	pcore "mad-sand/pkg/core"
	"mad-sand/pkg/material"
)

// Render writes one packed pixel per cell into dst: the material's colour, or
// the background for air. dst must hold Width*Height entries; shorter buffers
// are filled as far as they reach.
func (w *World) Render(dst []uint32) {
	w.renderRows(dst, 0, w.grid.H)
}

// RenderParallel is Render split into row bands across up to workers
// goroutines. It only reads the grid, so it must not overlap a Step.
func (w *World) RenderParallel(dst []uint32, workers int) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	h := w.grid.H
	if workers == 1 || h < 2*workers {
		w.renderRows(dst, 0, h)
		return
	}
	band := (h + workers - 1) / workers
	var g errgroup.Group
	g.SetLimit(workers)
	for y0 := 0; y0 < h; y0 += band {
		y0, y1 := y0, min(y0+band, h)
		g.Go(func() error {
			w.renderRows(dst, y0, y1)
			return nil
		})
	}
	// Band workers only read the grid and always return nil.
	_ = g.Wait()
}

func (w *World) renderRows(dst []uint32, y0, y1 int) {
	ids := w.grid.IDs()
	start := y0 * w.grid.W
	end := min(y1*w.grid.W, len(dst), len(ids))
	for i := start; i < end; i++ {
		dst[i] = uint32(w.pixelFor(ids[i]))
	}
}

func (w *World) pixelFor(id material.ID) pcore.Pixel {
	if id == material.Air {
		return w.background
	}
	return w.reg.Color(id)
}
