package core

import "mad-sand/pkg/material"

// Grid stores the per-cell record of the sand world in row-major parallel
// planes: material id, temperature, age, an aux slot owned by the occupying
// material, and the frame stamp used for the touched flag.
type Grid struct {
	W, H int

	ids   []material.ID
	temp  []float64
	age   []uint32
	aux   []int32
	stamp []uint32
	frame uint32
}

// NewGrid allocates a grid with every cell empty at the ambient temperature.
func NewGrid(w, h int, ambient float64) *Grid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	n := w * h
	g := &Grid{
		W:     w,
		H:     h,
		ids:   make([]material.ID, n),
		temp:  make([]float64, n),
		age:   make([]uint32, n),
		aux:   make([]int32, n),
		stamp: make([]uint32, n),
		frame: 1,
	}
	g.Clear(ambient)
	return g
}

// IDs exposes the material plane for read-only consumers such as renderers.
func (g *Grid) IDs() []material.ID { return g.ids }

// Temps exposes the temperature plane for read-only consumers.
func (g *Grid) Temps() []float64 { return g.temp }

// Index returns the linear slice index for coordinates (x, y).
func (g *Grid) Index(x, y int) int { return y*g.W + x }

// InBounds reports whether (x, y) lies inside the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.W && y < g.H
}

// ID returns the material at (x, y), or air outside the grid.
func (g *Grid) ID(x, y int) material.ID {
	if !g.InBounds(x, y) {
		return material.Air
	}
	return g.ids[g.Index(x, y)]
}

// SetID replaces the material at (x, y). Age and aux are reset; temperature
// carries over to the new material.
func (g *Grid) SetID(x, y int, id material.ID) bool {
	if !g.InBounds(x, y) {
		return false
	}
	i := g.Index(x, y)
	g.ids[i] = id
	g.age[i] = 0
	g.aux[i] = 0
	return true
}

// Swap exchanges the whole cell records at two coordinates. The touched
// stamps stay with their positions.
func (g *Grid) Swap(x1, y1, x2, y2 int) bool {
	if !g.InBounds(x1, y1) || !g.InBounds(x2, y2) {
		return false
	}
	a, b := g.Index(x1, y1), g.Index(x2, y2)
	if a == b {
		return false
	}
	g.ids[a], g.ids[b] = g.ids[b], g.ids[a]
	g.temp[a], g.temp[b] = g.temp[b], g.temp[a]
	g.age[a], g.age[b] = g.age[b], g.age[a]
	g.aux[a], g.aux[b] = g.aux[b], g.aux[a]
	return true
}

// Temp returns the temperature at (x, y), 0 outside the grid.
func (g *Grid) Temp(x, y int) float64 {
	if !g.InBounds(x, y) {
		return 0
	}
	return g.temp[g.Index(x, y)]
}

// SetTemp overwrites the temperature at (x, y).
func (g *Grid) SetTemp(x, y int, t float64) bool {
	if !g.InBounds(x, y) {
		return false
	}
	g.temp[g.Index(x, y)] = t
	return true
}

// AddTemp adds d to the temperature at (x, y).
func (g *Grid) AddTemp(x, y int, d float64) bool {
	if !g.InBounds(x, y) {
		return false
	}
	g.temp[g.Index(x, y)] += d
	return true
}

// Age returns the lifecycle counter at (x, y).
func (g *Grid) Age(x, y int) int {
	if !g.InBounds(x, y) {
		return 0
	}
	return int(g.age[g.Index(x, y)])
}

// SetAge stores age at (x, y); negative values are stored as 0.
func (g *Grid) SetAge(x, y, age int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	if age < 0 {
		age = 0
	}
	g.age[g.Index(x, y)] = uint32(age)
	return true
}

// Aux returns the aux slot at (x, y).
func (g *Grid) Aux(x, y int) int32 {
	if !g.InBounds(x, y) {
		return 0
	}
	return g.aux[g.Index(x, y)]
}

// SetAux stores v in the aux slot at (x, y).
func (g *Grid) SetAux(x, y int, v int32) bool {
	if !g.InBounds(x, y) {
		return false
	}
	g.aux[g.Index(x, y)] = v
	return true
}

// BeginFrame starts a new frame, clearing every touched flag.
func (g *Grid) BeginFrame() {
	g.frame++
	if g.frame == 0 {
		clear(g.stamp)
		g.frame = 1
	}
}

// Touch flags (x, y) as handled for the current frame.
func (g *Grid) Touch(x, y int) {
	if !g.InBounds(x, y) {
		return
	}
	g.stamp[g.Index(x, y)] = g.frame
}

// Touched reports whether (x, y) was flagged during the current frame.
func (g *Grid) Touched(x, y int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	return g.stamp[g.Index(x, y)] == g.frame
}

// Clear empties every cell and sets all temperatures to ambient.
func (g *Grid) Clear(ambient float64) {
	clear(g.ids)
	clear(g.age)
	clear(g.aux)
	clear(g.stamp)
	for i := range g.temp {
		g.temp[i] = ambient
	}
	g.frame = 1
}
