// Package sand is the falling-sand engine: a grid of material cells swept
// once per frame over the regions the activity tracker keeps awake, with
// each cell dispatched to its material behaviour at most once per frame.
package sand

import (
	"image"
	"log/slog"
	"math"

	"mad-sand/internal/core"
	pcore "mad-sand/pkg/core"
	"mad-sand/pkg/material"
)

// World owns the grid, the activity tracker, the RNG and the registry the
// behaviours are dispatched through. It implements material.World and
// core.Sim. It is not safe for concurrent use.
type World struct {
	cfg  Config
	name string

	reg  *material.Registry
	grid *core.Grid
	act  *core.Activity
	rng  *pcore.RNG
	log  *slog.Logger

	scene func(*World)

	frame   uint64
	stats   core.FrameStats
	regions []int

	background pcore.Pixel
}

// Option customises a World at construction.
type Option func(*World)

// WithRegistry dispatches through reg instead of material.Default().
func WithRegistry(reg *material.Registry) Option {
	return func(w *World) { w.reg = reg }
}

// WithLogger routes engine logs to l.
func WithLogger(l *slog.Logger) Option {
	return func(w *World) { w.log = l }
}

// WithName overrides the simulation name reported to hosts.
func WithName(name string) Option {
	return func(w *World) { w.name = name }
}

// WithScene runs fn after every Reset to lay out the initial cells.
func WithScene(fn func(*World)) Option {
	return func(w *World) { w.scene = fn }
}

// WithBackground sets the pixel rendered for air.
func WithBackground(p pcore.Pixel) Option {
	return func(w *World) { w.background = p }
}

// DefaultBackground is the pixel rendered for air unless overridden.
var DefaultBackground = pcore.RGB(12, 12, 16)

// New returns a world with the provided dimensions using defaults.
func New(w, h int, opts ...Option) *World {
	cfg := DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	return NewWithConfig(cfg, opts...)
}

// NewWithConfig returns a world configured from cfg. The registry is frozen:
// materials must be registered before the first world is built.
func NewWithConfig(cfg Config, opts ...Option) *World {
	cfg.Normalize()
	w := &World{
		cfg:        cfg,
		name:       "sand",
		reg:        material.Default(),
		log:        slog.Default(),
		background: DefaultBackground,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.reg.Freeze()
	w.grid = core.NewGrid(cfg.Width, cfg.Height, cfg.Params.AmbientTemp)
	w.act = core.NewActivity(cfg.Width, cfg.Height, cfg.Params.RegionSize, cfg.Params.SleepFrames)
	w.rng = pcore.NewRNG(cfg.Seed)
	return w
}

// Name returns the simulation identifier.
func (w *World) Name() string { return w.name }

// Size reports the grid dimensions.
func (w *World) Size() core.Size { return core.Size{W: w.grid.W, H: w.grid.H} }

// Config returns the active configuration.
func (w *World) Config() Config { return w.cfg }

// Registry returns the registry behaviours are dispatched through.
func (w *World) Registry() *material.Registry { return w.reg }

// Grid exposes the cell store for read-only inspection.
func (w *World) Grid() *core.Grid { return w.grid }

// Activity exposes the region tracker for read-only inspection.
func (w *World) Activity() *core.Activity { return w.act }

// Frame returns the number of completed Steps since the last Reset.
func (w *World) Frame() uint64 { return w.frame }

// Reset clears the world and re-seeds the RNG. A zero seed selects the
// configured one. The scene, if any, is laid out afterwards.
func (w *World) Reset(seed int64) {
	effective := seed
	if effective == 0 {
		effective = w.cfg.Seed
	}
	w.rng.Reseed(effective)
	w.grid.Clear(w.cfg.Params.AmbientTemp)
	w.act = core.NewActivity(w.grid.W, w.grid.H, w.cfg.Params.RegionSize, w.cfg.Params.SleepFrames)
	w.frame = 0
	w.stats = core.FrameStats{}
	if w.scene != nil {
		w.scene(w)
	}
	w.log.Debug("world reset", "name", w.name, "seed", effective, "w", w.grid.W, "h", w.grid.H, "regions", w.act.Count())
}

// Width implements material.World.
func (w *World) Width() int { return w.grid.W }

// Height implements material.World.
func (w *World) Height() int { return w.grid.H }

// InBounds implements material.World.
func (w *World) InBounds(x, y int) bool { return w.grid.InBounds(x, y) }

// Get implements material.World.
func (w *World) Get(x, y int) material.ID { return w.grid.ID(x, y) }

// IsEmpty reports whether (x, y) is in bounds and holds air.
func (w *World) IsEmpty(x, y int) bool {
	return w.grid.InBounds(x, y) && w.grid.ID(x, y) == material.Air
}

// Set replaces the material at (x, y). The cell is flagged as updated so the
// new occupant does not also run this frame, and its neighbourhood is kept
// awake so it runs on the next one.
func (w *World) Set(x, y int, id material.ID) {
	if !w.grid.SetID(x, y, id) {
		return
	}
	w.grid.Touch(x, y)
	w.act.Touch(x, y)
}

// Swap exchanges the two cell records, flagging both positions as updated.
func (w *World) Swap(x1, y1, x2, y2 int) {
	if !w.grid.Swap(x1, y1, x2, y2) {
		return
	}
	w.grid.Touch(x1, y1)
	w.grid.Touch(x2, y2)
	w.act.Touch(x1, y1)
	w.act.Touch(x2, y2)
}

// IsUpdated implements material.World.
func (w *World) IsUpdated(x, y int) bool { return w.grid.Touched(x, y) }

// MarkUpdated flags (x, y) as handled this frame and keeps its region awake.
func (w *World) MarkUpdated(x, y int) {
	if !w.grid.InBounds(x, y) {
		return
	}
	w.grid.Touch(x, y)
	w.act.Touch(x, y)
}

// WakeArea wakes the region holding (x, y) and its neighbours.
func (w *World) WakeArea(x, y int) { w.act.Wake(x, y) }

// Density returns the density of the material at (x, y). Outside the grid it
// is +Inf so nothing moves there.
func (w *World) Density(x, y int) float64 {
	if !w.grid.InBounds(x, y) {
		return math.Inf(1)
	}
	return w.reg.Density(w.grid.ID(x, y))
}

// Temp implements material.World.
func (w *World) Temp(x, y int) float64 { return w.grid.Temp(x, y) }

// SetTemp implements material.World.
func (w *World) SetTemp(x, y int, t float64) {
	old := w.grid.Temp(x, y)
	if !w.grid.SetTemp(x, y, t) {
		return
	}
	w.thermalActivity(x, y, t-old)
}

// AddTemp implements material.World.
func (w *World) AddTemp(x, y int, d float64) {
	if !w.grid.AddTemp(x, y, d) {
		return
	}
	w.thermalActivity(x, y, d)
}

func (w *World) thermalActivity(x, y int, change float64) {
	if math.Abs(change) > w.cfg.Params.ThermalEpsilon {
		w.act.Touch(x, y)
	}
}

// Age implements material.World.
func (w *World) Age(x, y int) int { return w.grid.Age(x, y) }

// SetAge stores a lifecycle counter. A changed value counts as activity so
// timed effects keep their region awake until they expire.
func (w *World) SetAge(x, y int, age int) {
	old := w.grid.Age(x, y)
	if !w.grid.SetAge(x, y, age) {
		return
	}
	if w.grid.Age(x, y) != old {
		w.act.Touch(x, y)
	}
}

// Aux implements material.World.
func (w *World) Aux(x, y int) int32 { return w.grid.Aux(x, y) }

// SetAux implements material.World.
func (w *World) SetAux(x, y int, v int32) {
	old := w.grid.Aux(x, y)
	if !w.grid.SetAux(x, y, v) {
		return
	}
	if v != old {
		w.act.Touch(x, y)
	}
}

// Wind implements material.World.
func (w *World) Wind() (dx, dy float64) { return w.cfg.Params.WindX, w.cfg.Params.WindY }

// WindStrength implements material.World.
func (w *World) WindStrength() float64 { return w.cfg.Params.WindStrength }

// SetWind sets the ambient wind vector and its strength in [0, 1]. Only
// hosts and weather collaborators call it; materials see it read-only.
func (w *World) SetWind(dx, dy, strength float64) {
	w.cfg.Params.WindX = clamp(dx, -1, 1)
	w.cfg.Params.WindY = clamp(dy, -1, 1)
	w.cfg.Params.WindStrength = clamp(strength, 0, 1)
}

// HeatExchange returns the configured diffusion chance and rate.
func (w *World) HeatExchange() (chance, k float64) {
	return w.cfg.Params.HeatChance, w.cfg.Params.HeatRate
}

// Rand returns the world RNG.
func (w *World) Rand() *pcore.RNG { return w.rng }

// Place puts id at (x, y), runs its initializer and wakes the area.
func (w *World) Place(x, y int, id material.ID) {
	if !w.grid.InBounds(x, y) {
		return
	}
	w.Set(x, y, id)
	if m, ok := w.reg.Lookup(id); ok {
		if in, ok := m.(material.Initializer); ok {
			in.Init(x, y, w)
		}
	}
	w.act.Wake(x, y)
}

// Paint places id on every cell of the disc of the given radius. Painting
// air erases.
func (w *World) Paint(cx, cy, radius int, id material.ID) {
	if radius < 0 {
		radius = 0
	}
	r2 := radius * radius
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > r2 {
				continue
			}
			w.Place(cx+dx, cy+dy, id)
		}
	}
}

// Fill places id on every cell of the rectangle [x0,x1) x [y0,y1).
func (w *World) Fill(x0, y0, x1, y1 int, id material.ID) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			w.Place(x, y, id)
		}
	}
}

// AwakeRegions appends the cell rectangles of awake regions to dst.
func (w *World) AwakeRegions(dst []image.Rectangle) []image.Rectangle {
	for r := 0; r < w.act.Count(); r++ {
		if !w.act.IsAwake(r) {
			continue
		}
		x0, y0, x1, y1 := w.act.Bounds(r)
		dst = append(dst, image.Rect(x0, y0, x1, y1))
	}
	return dst
}

// TemperatureField exposes the temperature plane in row-major order.
func (w *World) TemperatureField() []float64 { return w.grid.Temps() }

// AmbientTemp is the temperature cells are cleared to.
func (w *World) AmbientTemp() float64 { return w.cfg.Params.AmbientTemp }

var _ material.World = (*World)(nil)

func init() {
	core.Register("sand", func(cfg map[string]string) core.Sim {
		return NewWithConfig(FromMap(cfg))
	})
}
