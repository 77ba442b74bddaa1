// Package material defines the contract between the sand engine and the
// behaviours plugged into it: the Material interface a behaviour implements,
// the World interface the engine exposes to it, and the id registry that
// routes a cell to its behaviour.
package material

import (
	"math"

	"mad-sand/pkg/core"
)

// ID identifies a material. Zero is air.
type ID uint16

// Air is the empty material. It always has density 0.
const Air ID = 0

// Immovable is the density of solids that are never displaced.
var Immovable = math.Inf(1)

// Material is implemented by every simulated substance.
type Material interface {
	ID() ID
	Name() string
	// Density orders displacement: 0 is empty, larger sinks through smaller,
	// +Inf never moves and is never displaced.
	Density() float64
	// Color is called once per rendered cell per displayed frame. It has no
	// effect on the simulation and must be safe for concurrent calls.
	Color() core.Pixel
	// Update runs at most once per frame for the cell at (x, y).
	Update(x, y int, w World)
}

// World is the engine surface available to a material during Update.
// Every coordinate is bounds-checked: reads outside the grid return zero
// values (Density returns +Inf) and writes are ignored.
type World interface {
	Width() int
	Height() int

	Get(x, y int) ID
	// Set replaces the material at (x, y), resetting age and aux but keeping
	// temperature.
	Set(x, y int, id ID)
	// Swap exchanges the full cell records at the two coordinates.
	Swap(x1, y1, x2, y2 int)
	IsEmpty(x, y int) bool
	InBounds(x, y int) bool
	IsUpdated(x, y int) bool
	MarkUpdated(x, y int)

	Density(x, y int) float64
	Temp(x, y int) float64
	SetTemp(x, y int, t float64)
	AddTemp(x, y int, d float64)

	Age(x, y int) int
	SetAge(x, y int, age int)
	// Aux is a per-cell scratch slot owned by the material occupying the
	// cell. It moves with Swap and is cleared by Set.
	Aux(x, y int) int32
	SetAux(x, y int, v int32)

	Wind() (dx, dy float64)
	WindStrength() float64
	WakeArea(x, y int)

	Rand() *core.RNG
}

// Initializer is implemented by materials that seed per-cell state such as
// temperature or lifetime when a brush or scene places them.
type Initializer interface {
	Init(x, y int, w World)
}

// Def is a Material assembled from plain values and callbacks, convenient for
// init-time registration.
type Def struct {
	Key     ID
	Label   string
	Weight  float64
	Paint   core.Pixel
	OnColor func() core.Pixel
	OnInit  func(x, y int, w World)
	Step    func(x, y int, w World)
}

// ID implements Material.
func (d *Def) ID() ID { return d.Key }

// Name implements Material.
func (d *Def) Name() string { return d.Label }

// Density implements Material.
func (d *Def) Density() float64 { return d.Weight }

// Color implements Material.
func (d *Def) Color() core.Pixel {
	if d.OnColor != nil {
		return d.OnColor()
	}
	return d.Paint
}

// Update implements Material.
func (d *Def) Update(x, y int, w World) {
	if d.Step != nil {
		d.Step(x, y, w)
	}
}

// Init implements Initializer.
func (d *Def) Init(x, y int, w World) {
	if d.OnInit != nil {
		d.OnInit(x, y, w)
	}
}
