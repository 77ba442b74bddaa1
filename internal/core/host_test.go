package core

import (
	"testing"

	pcore "mad-sand/pkg/core"
	"mad-sand/pkg/material"
)

type windStub struct{ x, y, s float64 }

func (w *windStub) Wind() (float64, float64) { return w.x, w.y }
func (w *windStub) WindStrength() float64 { return w.s }
func (w *windStub) SetWind(dx, dy, s float64) {
	w.x, w.y, w.s = dx, dy, s
}

func TestBrushesFollowIDOrder(t *testing.T) {
	reg := material.NewRegistry()
	for _, id := range []material.ID{9, 2, 40} {
		if err := reg.Register(&material.Def{Key: id, Label: "m", Paint: pcore.RGB(uint8(id), 0, 0)}); err != nil {
			t.Fatal(err)
		}
	}
	got := Brushes(reg)
	want := []Brush{
		{Key: '1', ID: 2, Name: "m", Color: pcore.RGB(2, 0, 0)},
		{Key: '2', ID: 9, Name: "m", Color: pcore.RGB(9, 0, 0)},
		{Key: '3', ID: 40, Name: "m", Color: pcore.RGB(40, 0, 0)},
	}
	if len(got) != len(want) {
		t.Fatalf("brushes = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("brush %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestNudgeWindRaisesStrength(t *testing.T) {
	w := &windStub{x: 0.2, y: 0.1, s: 0.1}
	NudgeWind(w, 0.3)
	if w.x != 0.5 || w.y != 0.1 || w.s != 0.5 {
		t.Fatalf("wind = %+v", *w)
	}
	NudgeWind(w, -0.2)
	if w.s != 0.5 {
		t.Fatalf("strength dropped to %v", w.s)
	}
}
