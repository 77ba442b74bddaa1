package sand

import (
	"io"
	"log/slog"
	"math"
	"slices"
	"testing"

	pcore "mad-sand/pkg/core"
	"mad-sand/pkg/material"
	"mad-sand/pkg/physics"
)

const (
	idTally material.ID = iota + 1
	idHeavy
	idLight
	idFaller
	idWall
	idJitter
	idBomb
	idCountdown
	idConductor
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestWorld(t *testing.T, w, h int, reg *material.Registry, tweak func(*Config)) *World {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	cfg.Seed = 42
	if tweak != nil {
		tweak(&cfg)
	}
	world := NewWithConfig(cfg, WithRegistry(reg), WithLogger(quietLogger()))
	world.Reset(0)
	return world
}

func mustRegister(t *testing.T, reg *material.Registry, defs ...material.Material) {
	t.Helper()
	for _, d := range defs {
		if err := reg.Register(d); err != nil {
			t.Fatal(err)
		}
	}
}

func powder(id material.ID, density float64) *material.Def {
	return &material.Def{
		Key:    id,
		Label:  "powder",
		Weight: density,
		Paint:  pcore.RGB(200, 180, 90),
		Step: func(x, y int, w material.World) {
			physics.Powder(w, x, y)
		},
	}
}

type counter map[[2]int]int

func tally(id material.ID, calls counter) *material.Def {
	return &material.Def{
		Key:    id,
		Label:  "tally",
		Weight: math.Inf(1),
		Step: func(x, y int, w material.World) {
			calls[[2]int{x, y}]++
		},
	}
}

func (c counter) total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

func TestFreeFallOneRowPerFrame(t *testing.T) {
	const h = 20
	reg := material.NewRegistry()
	mustRegister(t, reg, powder(idFaller, 2.5))
	w := newTestWorld(t, 5, h, reg, nil)
	w.Place(2, 0, idFaller)

	for f := 1; f <= h-1; f++ {
		w.Step()
		if got := w.Get(2, f); got != idFaller {
			t.Fatalf("frame %d: cell (2,%d) = %d, want faller", f, f, got)
		}
		if w.Get(2, f-1) != material.Air {
			t.Fatalf("frame %d: faller left a copy at (2,%d)", f, f-1)
		}
	}
	w.Step()
	if w.Get(2, h-1) != idFaller {
		t.Fatal("faller moved off the floor")
	}
}

func TestDensityInversionSettles(t *testing.T) {
	reg := material.NewRegistry()
	mustRegister(t, reg, powder(idHeavy, 2.0), powder(idLight, 1.0))
	w := newTestWorld(t, 1, 3, reg, nil)
	w.Place(0, 1, idHeavy)
	w.Place(0, 2, idLight)

	swaps := 0
	prev := slices.Clone(w.Grid().IDs())
	for f := 0; f < 110; f++ {
		w.Step()
		cur := w.Grid().IDs()
		if !slices.Equal(prev, cur) {
			swaps++
			if f > 5 {
				t.Fatalf("layout changed at frame %d: %v", f+1, cur)
			}
		}
		prev = slices.Clone(cur)
	}
	if swaps != 1 {
		t.Fatalf("observed %d swaps, want exactly 1", swaps)
	}
	if w.Get(0, 2) != idHeavy || w.Get(0, 1) != idLight {
		t.Fatalf("final column = %v", w.Grid().IDs())
	}
}

func TestDensityGatingInWorld(t *testing.T) {
	cases := []struct {
		name    string
		target  float64
		swapped bool
	}{
		{"empty", 0, true},
		{"lighter", 1.0, true},
		{"equal", 2.0, false},
		{"denser", 3.0, false},
		{"immovable", math.Inf(1), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reg := material.NewRegistry()
			mustRegister(t, reg,
				powder(idHeavy, 2.0),
				&material.Def{Key: idLight, Label: "target", Weight: tc.target},
			)
			w := newTestWorld(t, 1, 2, reg, nil)
			w.Place(0, 0, idHeavy)
			if tc.target != 0 {
				w.Place(0, 1, idLight)
			}
			w.Step()
			if got := w.Get(0, 1) == idHeavy; got != tc.swapped {
				t.Fatalf("target density %v: swapped=%v, want %v", tc.target, got, tc.swapped)
			}
		})
	}
}

func TestWakeAreaRunsSleepingCell(t *testing.T) {
	const sleep = 3
	calls := counter{}
	reg := material.NewRegistry()
	mustRegister(t, reg, tally(idTally, calls))
	w := newTestWorld(t, 32, 32, reg, func(c *Config) {
		c.Params.RegionSize = 16
		c.Params.SleepFrames = sleep
	})
	w.Place(5, 5, idTally)

	frames := 0
	for w.Activity().AwakeCount() > 0 && frames < 20 {
		w.Step()
		frames++
	}
	if frames != 1+sleep {
		t.Fatalf("regions slept after %d frames, want %d", frames, 1+sleep)
	}
	ran := calls.total()
	if ran != frames {
		t.Fatalf("tally ran %d times in %d awake frames", ran, frames)
	}

	for i := 0; i < 10; i++ {
		w.Step()
		if w.Stats().ActiveRegions != 0 {
			t.Fatalf("sleeping world swept %d regions", w.Stats().ActiveRegions)
		}
	}
	if calls.total() != ran {
		t.Fatal("tally in a sleeping region ran")
	}

	w.WakeArea(5, 5)
	w.Step()
	if calls[[2]int{5, 5}] != ran+1 {
		t.Fatalf("tally calls after wake = %d, want %d", calls[[2]int{5, 5}], ran+1)
	}
	if w.Stats().ActiveRegions != 4 {
		t.Fatalf("wake swept %d regions, want 4", w.Stats().ActiveRegions)
	}
}

func TestEachParticleRunsOncePerFrame(t *testing.T) {
	for _, random := range []bool{false, true} {
		calls := map[int32]int{}
		jitter := &material.Def{
			Key:    idJitter,
			Label:  "jitter",
			Weight: 1,
			Step: func(x, y int, w material.World) {
				calls[w.Aux(x, y)]++
				rng := w.Rand()
				nx, ny := x+rng.IntN(3)-1, y+rng.IntN(3)-1
				if w.IsEmpty(nx, ny) {
					w.Swap(x, y, nx, ny)
				}
			},
		}
		reg := material.NewRegistry()
		mustRegister(t, reg, jitter)
		w := newTestWorld(t, 24, 24, reg, func(c *Config) {
			c.Params.RegionSize = 8
			c.Params.SleepFrames = 0
			c.Params.RandomRows = random
		})
		var tag int32
		for i := 0; i < 24*24; i += 5 {
			tag++
			x, y := i%24, i/24
			w.Place(x, y, idJitter)
			w.SetAux(x, y, tag)
		}

		for f := 0; f < 60; f++ {
			clear(calls)
			w.Step()
			for id := int32(1); id <= tag; id++ {
				if calls[id] != 1 {
					t.Fatalf("random=%v frame %d: particle %d ran %d times", random, f, id, calls[id])
				}
			}
			if w.Stats().Updates != int(tag) {
				t.Fatalf("random=%v frame %d: %d updates for %d particles", random, f, w.Stats().Updates, tag)
			}
		}
	}
}

func TestAreaEffectDoesNotRecurse(t *testing.T) {
	calls := counter{}
	bomb := &material.Def{
		Key:    idBomb,
		Label:  "bomb",
		Weight: math.Inf(1),
		Step: func(x, y int, w material.World) {
			const radius = 2
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					if dx*dx+dy*dy > radius*radius || (dx == 0 && dy == 0) {
						continue
					}
					w.Set(x+dx, y+dy, idTally)
				}
			}
			w.Set(x, y, material.Air)
		},
	}
	reg := material.NewRegistry()
	mustRegister(t, reg, bomb, tally(idTally, calls))
	w := newTestWorld(t, 12, 12, reg, nil)
	w.Place(5, 6, idBomb)

	w.Step()
	if calls.total() != 0 {
		t.Fatalf("cells set by the blast ran in the same frame: %v", calls)
	}
	tallies := 0
	for _, id := range w.Grid().IDs() {
		if id == idTally {
			tallies++
		}
	}
	if tallies != 12 {
		t.Fatalf("blast produced %d tallies, want 12", tallies)
	}
	w.Step()
	if calls.total() != tallies {
		t.Fatalf("next frame ran %d tallies, want %d", calls.total(), tallies)
	}
	for pos, n := range calls {
		if n != 1 {
			t.Fatalf("tally at %v ran %d times", pos, n)
		}
	}
}

func TestMarkUpdatedClaimsCell(t *testing.T) {
	calls := counter{}
	claimed := false
	claimer := &material.Def{
		Key:    idHeavy,
		Label:  "claimer",
		Weight: math.Inf(1),
		Step: func(x, y int, w material.World) {
			w.MarkUpdated(x, y-1)
			claimed = w.IsUpdated(x, y-1)
		},
	}
	reg := material.NewRegistry()
	mustRegister(t, reg, claimer, tally(idTally, calls))
	w := newTestWorld(t, 4, 4, reg, nil)
	w.Place(1, 3, idHeavy)
	w.Place(1, 2, idTally)

	w.Step()
	if !claimed {
		t.Fatal("IsUpdated false right after MarkUpdated")
	}
	if calls[[2]int{1, 2}] != 0 {
		t.Fatal("claimed cell ran in the same frame")
	}
	if w.IsUpdated(-1, 0) {
		t.Fatal("out of bounds cell reported updated")
	}
}

func TestLifecycleDecaysOncePerFrame(t *testing.T) {
	const life = 10
	countdown := &material.Def{
		Key:    idCountdown,
		Label:  "countdown",
		Weight: math.Inf(1),
		OnInit: func(x, y int, w material.World) { w.SetAge(x, y, life) },
		Step: func(x, y int, w material.World) {
			age := w.Age(x, y) - 1
			if age <= 0 {
				w.Set(x, y, material.Air)
				return
			}
			w.SetAge(x, y, age)
		},
	}
	reg := material.NewRegistry()
	mustRegister(t, reg, countdown)
	w := newTestWorld(t, 16, 16, reg, func(c *Config) {
		c.Params.SleepFrames = 2
	})
	w.Place(3, 3, idCountdown)
	for f := 1; f < life; f++ {
		w.Step()
		if w.Get(3, 3) != idCountdown || w.Age(3, 3) != life-f {
			t.Fatalf("frame %d: id=%d age=%d, want age %d", f, w.Get(3, 3), w.Age(3, 3), life-f)
		}
	}
	w.Step()
	if w.Get(3, 3) != material.Air {
		t.Fatalf("countdown still alive after %d frames", life)
	}
	w.Run(3)
	if w.Activity().AwakeCount() != 0 {
		t.Fatal("region stayed awake after the effect expired")
	}
}

func TestSetResetsAgeSwapKeepsIt(t *testing.T) {
	reg := material.NewRegistry()
	mustRegister(t, reg, powder(idHeavy, 2), powder(idLight, 1))
	w := newTestWorld(t, 3, 3, reg, nil)
	w.Set(1, 1, idHeavy)
	w.SetAge(1, 1, 7)
	w.SetTemp(1, 1, 300)
	w.SetAux(1, 1, 5)
	w.Set(1, 1, idLight)
	if w.Age(1, 1) != 0 || w.Aux(1, 1) != 0 {
		t.Fatalf("Set kept age=%d aux=%d", w.Age(1, 1), w.Aux(1, 1))
	}
	if w.Temp(1, 1) != 300 {
		t.Fatalf("Set changed temperature to %v", w.Temp(1, 1))
	}

	w.SetAge(1, 1, 9)
	w.Swap(1, 1, 2, 2)
	if w.Age(2, 2) != 9 || w.Temp(2, 2) != 300 || w.Get(2, 2) != idLight {
		t.Fatalf("Swap lost state: id=%d age=%d temp=%v", w.Get(2, 2), w.Age(2, 2), w.Temp(2, 2))
	}
	w.Swap(2, 2, 1, 1)
	if w.Age(1, 1) != 9 || w.Temp(1, 1) != 300 || w.Get(1, 1) != idLight || w.Get(2, 2) != material.Air {
		t.Fatal("Swap round trip did not restore the cells")
	}
}

func TestOutOfBoundsWorldCalls(t *testing.T) {
	reg := material.NewRegistry()
	mustRegister(t, reg, powder(idHeavy, 2))
	w := newTestWorld(t, 2, 2, reg, nil)
	w.Set(-1, 0, idHeavy)
	w.Swap(0, 0, 5, 5)
	w.SetTemp(9, 9, 1000)
	w.AddTemp(-3, 1, 5)
	w.SetAge(2, 0, 3)
	w.SetAux(0, 2, 3)
	w.MarkUpdated(7, 7)
	w.WakeArea(-5, -5)
	w.Paint(-10, -10, 2, idHeavy)
	if !math.IsInf(w.Density(-1, 0), 1) {
		t.Fatal("out of bounds density must be +Inf")
	}
	if w.IsEmpty(2, 0) {
		t.Fatal("out of bounds cell reported empty")
	}
	for i, id := range w.Grid().IDs() {
		if id != material.Air {
			t.Fatalf("cell %d written by an out of bounds call", i)
		}
	}
	if w.Density(0, 0) != 0 {
		t.Fatal("air density must be 0")
	}
}

func TestUnknownMaterialIsInert(t *testing.T) {
	w := newTestWorld(t, 3, 3, material.NewRegistry(), nil)
	w.Set(1, 0, 999)
	w.Run(5)
	if w.Get(1, 0) != 999 {
		t.Fatal("unknown material moved")
	}
	if w.Stats().Updates != 0 {
		t.Fatalf("unknown material dispatched %d times", w.Stats().Updates)
	}
}

func TestReplayIsDeterministic(t *testing.T) {
	build := func() *World {
		reg := material.NewRegistry()
		mustRegister(t, reg,
			powder(idHeavy, 2.5),
			&material.Def{Key: idLight, Label: "liquid", Weight: 1, Step: func(x, y int, w material.World) {
				physics.Liquid(w, x, y)
			}},
		)
		w := newTestWorld(t, 32, 32, reg, func(c *Config) { c.Params.RandomRows = true })
		w.Fill(4, 0, 28, 6, idLight)
		w.Paint(16, 10, 3, idHeavy)
		return w
	}
	a, b := build(), build()
	a.Run(80)
	b.Run(80)
	if !slices.Equal(a.Grid().IDs(), b.Grid().IDs()) {
		t.Fatal("equal seeds produced different grids")
	}

	a.Reset(0)
	a.Fill(4, 0, 28, 6, idLight)
	a.Paint(16, 10, 3, idHeavy)
	a.Run(80)
	if !slices.Equal(a.Grid().IDs(), b.Grid().IDs()) {
		t.Fatal("Reset with the configured seed did not replay")
	}
}

func TestDiffusionConservesHeat(t *testing.T) {
	conductor := &material.Def{
		Key:    idConductor,
		Label:  "conductor",
		Weight: math.Inf(1),
		Step: func(x, y int, w material.World) {
			physics.DiffuseDefault(w, x, y)
		},
	}
	reg := material.NewRegistry()
	mustRegister(t, reg, conductor)
	w := newTestWorld(t, 8, 8, reg, func(c *Config) {
		c.Params.HeatChance = 0.5
		c.Params.HeatRate = 0.2
	})
	w.Fill(0, 0, 8, 8, idConductor)
	w.SetTemp(4, 4, 1000)

	sum := func() float64 {
		s := 0.0
		for _, v := range w.TemperatureField() {
			s += v
		}
		return s
	}
	spread := func() float64 {
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, v := range w.TemperatureField() {
			lo, hi = min(lo, v), max(hi, v)
		}
		return hi - lo
	}
	want := sum()
	before := spread()
	w.Run(200)
	if got := sum(); math.Abs(got-want) > 1e-6 {
		t.Fatalf("total heat %v, want %v", got, want)
	}
	if after := spread(); after >= before/10 {
		t.Fatalf("temperature spread %v did not shrink from %v", after, before)
	}
}

func TestPaintRunsInitializer(t *testing.T) {
	inits := 0
	hot := &material.Def{
		Key:    idHeavy,
		Label:  "hot",
		Weight: math.Inf(1),
		OnInit: func(x, y int, w material.World) {
			inits++
			w.SetTemp(x, y, 900)
		},
	}
	reg := material.NewRegistry()
	mustRegister(t, reg, hot)
	w := newTestWorld(t, 10, 10, reg, nil)
	w.Paint(5, 5, 1, idHeavy)
	if inits != 5 {
		t.Fatalf("radius-1 brush placed %d cells, want 5", inits)
	}
	if w.Temp(5, 4) != 900 || w.Temp(4, 4) != w.Config().Params.AmbientTemp {
		t.Fatal("initializer temperatures wrong")
	}
	w.Paint(5, 5, 1, material.Air)
	if w.Get(5, 5) != material.Air || w.Temp(5, 5) != 900 {
		t.Fatal("erasing must clear the id and keep temperature")
	}
}

func TestRenderUsesMaterialColors(t *testing.T) {
	reg := material.NewRegistry()
	mustRegister(t, reg, powder(idHeavy, 2))
	w := newTestWorld(t, 6, 40, reg, nil)
	w.Fill(0, 20, 6, 40, idHeavy)
	w.Set(0, 0, 4321)

	serial := make([]uint32, 6*40)
	w.Render(serial)
	if serial[1] != uint32(DefaultBackground) {
		t.Fatalf("air rendered as %#x", serial[1])
	}
	if serial[0] != uint32(pcore.Transparent) {
		t.Fatalf("unknown id rendered as %#x", serial[0])
	}
	if serial[25*6] != uint32(pcore.RGB(200, 180, 90)) {
		t.Fatalf("material rendered as %#x", serial[25*6])
	}
	parallel := make([]uint32, len(serial))
	w.RenderParallel(parallel, 4)
	if !slices.Equal(serial, parallel) {
		t.Fatal("parallel render differs from serial render")
	}
}

func TestSetWindClamps(t *testing.T) {
	w := newTestWorld(t, 2, 2, material.NewRegistry(), nil)
	w.SetWind(3, -0.5, 4)
	dx, dy := w.Wind()
	if dx != 1 || dy != -0.5 || w.WindStrength() != 1 {
		t.Fatalf("wind = %v,%v strength %v", dx, dy, w.WindStrength())
	}
}
