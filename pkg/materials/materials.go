// Package materials is the reference material catalogue. Importing it
// registers every material into material.Default().
package materials

import (
	"math/rand/v2"

	"mad-sand/pkg/core"
	"mad-sand/pkg/material"
	"mad-sand/pkg/physics"
)

// Material ids. Air is material.Air (0).
const (
	Stone material.ID = iota + 1
	Wall
	Sand
	Water
	Ice
	Oil
	Fire
	Smoke
	Steam
	Lava
	Spark
	Heater
)

// Phase-change thresholds in degrees.
const (
	BoilPoint     = 100.0
	CondensePoint = 95.0
	FreezePoint   = 0.0
	MeltPoint     = 0.5
	OilIgnition   = 300.0
	StoneMelt     = 1100.0
	LavaSolidify  = 800.0
	LavaTemp      = 1200.0
	FireTemp      = 800.0
	HeaterTemp    = 400.0
)

var fireShades = [...]core.Pixel{
	core.RGB(255, 96, 16),
	core.RGB(255, 140, 24),
	core.RGB(255, 190, 48),
	core.RGB(230, 60, 12),
}

// All returns the catalogue in id order.
func All() []*material.Def {
	return []*material.Def{
		{Key: Stone, Label: "stone", Weight: material.Immovable, Paint: core.RGB(120, 120, 128), Step: stepStone},
		{Key: Wall, Label: "wall", Weight: material.Immovable, Paint: core.RGB(70, 64, 60)},
		{Key: Sand, Label: "sand", Weight: 2.5, Paint: core.RGB(214, 190, 120), Step: stepSand},
		{Key: Water, Label: "water", Weight: 1.0, Paint: core.RGB(40, 110, 220), Step: stepWater},
		{Key: Ice, Label: "ice", Weight: 0.92, Paint: core.RGB(180, 220, 250), Step: stepIce},
		{Key: Oil, Label: "oil", Weight: 0.8, Paint: core.RGB(90, 70, 30), Step: stepOil},
		{Key: Fire, Label: "fire", Weight: 0.02, OnColor: fireColor, OnInit: initFire, Step: stepFire},
		{Key: Smoke, Label: "smoke", Weight: 0.03, Paint: core.Pack(80, 80, 84, 200), Step: stepSmoke},
		{Key: Steam, Label: "steam", Weight: 0.05, Paint: core.Pack(200, 210, 220, 180), OnInit: initSteam, Step: stepSteam},
		{Key: Lava, Label: "lava", Weight: 3.0, Paint: core.RGB(240, 90, 20), OnInit: initLava, Step: stepLava},
		{Key: Spark, Label: "spark", Weight: 0.5, Paint: core.RGB(255, 240, 160), Step: stepSpark},
		{Key: Heater, Label: "heater", Weight: material.Immovable, Paint: core.RGB(170, 40, 40), Step: stepHeater},
	}
}

func init() {
	for _, d := range All() {
		material.Register(d)
	}
}

func fireColor() core.Pixel {
	return fireShades[rand.IntN(len(fireShades))]
}

func stepStone(x, y int, w material.World) {
	physics.DiffuseDefault(w, x, y)
	if w.Temp(x, y) > StoneMelt {
		w.Set(x, y, Lava)
	}
}

func stepSand(x, y int, w material.World) {
	physics.DiffuseDefault(w, x, y)
	physics.Powder(w, x, y)
}

func stepWater(x, y int, w material.World) {
	physics.DiffuseDefault(w, x, y)
	switch t := w.Temp(x, y); {
	case t >= BoilPoint:
		w.Set(x, y, Steam)
		return
	case t <= FreezePoint:
		w.Set(x, y, Ice)
		return
	}
	physics.Liquid(w, x, y)
}

func stepIce(x, y int, w material.World) {
	physics.DiffuseDefault(w, x, y)
	if w.Temp(x, y) > MeltPoint {
		w.Set(x, y, Water)
	}
}

func stepOil(x, y int, w material.World) {
	physics.DiffuseDefault(w, x, y)
	if w.Temp(x, y) > OilIgnition {
		w.Set(x, y, Fire)
		w.SetTemp(x, y, FireTemp)
		return
	}
	physics.Liquid(w, x, y)
}

func initFire(x, y int, w material.World) { w.SetTemp(x, y, FireTemp) }

func stepFire(x, y int, w material.World) {
	if touching(w, x, y, Water) {
		w.Set(x, y, Smoke)
		return
	}
	if expired(w, x, y, 20, 40) {
		w.Set(x, y, Smoke)
		return
	}
	if w.Temp(x, y) < FireTemp {
		w.SetTemp(x, y, FireTemp)
	}
	physics.DiffuseDefault(w, x, y)
	if w.Rand().Chance(0.5) {
		physics.Gas(w, x, y)
	}
}

func stepSmoke(x, y int, w material.World) {
	if expired(w, x, y, 60, 120) {
		w.Set(x, y, material.Air)
		return
	}
	physics.Gas(w, x, y)
}

func initSteam(x, y int, w material.World) {
	if w.Temp(x, y) < BoilPoint {
		w.SetTemp(x, y, BoilPoint)
	}
}

func stepSteam(x, y int, w material.World) {
	physics.DiffuseDefault(w, x, y)
	if w.Temp(x, y) < CondensePoint && w.Rand().Chance(0.05) {
		w.Set(x, y, Water)
		return
	}
	physics.Gas(w, x, y)
}

func initLava(x, y int, w material.World) { w.SetTemp(x, y, LavaTemp) }

func stepLava(x, y int, w material.World) {
	physics.DiffuseDefault(w, x, y)
	if w.Temp(x, y) < LavaSolidify {
		w.Set(x, y, Stone)
		return
	}
	if w.Rand().Chance(0.5) {
		physics.Liquid(w, x, y)
	}
}

func stepSpark(x, y int, w material.World) {
	if expired(w, x, y, 8, 16) {
		w.Set(x, y, material.Air)
		return
	}
	for _, n := range neighbours4 {
		nx, ny := x+n[0], y+n[1]
		if w.Get(nx, ny) != material.Air {
			w.AddTemp(nx, ny, 60)
		}
	}
	physics.Powder(w, x, y)
}

func stepHeater(x, y int, w material.World) {
	physics.Relax(w, x, y, HeaterTemp, 0.5)
	physics.DiffuseDefault(w, x, y)
}

var neighbours4 = [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

func touching(w material.World, x, y int, id material.ID) bool {
	for _, n := range neighbours4 {
		if w.Get(x+n[0], y+n[1]) == id {
			return true
		}
	}
	return false
}

// expired advances the cell's age and reports whether it reached its
// lifetime. The lifetime is drawn from [lo, hi] on first use and kept in the
// aux slot, so it travels with the cell and resets when the cell is replaced.
func expired(w material.World, x, y, lo, hi int) bool {
	life := int(w.Aux(x, y))
	if life <= 0 {
		life = w.Rand().Range(lo, hi)
		w.SetAux(x, y, int32(life))
	}
	age := w.Age(x, y) + 1
	w.SetAge(x, y, age)
	return age >= life
}
