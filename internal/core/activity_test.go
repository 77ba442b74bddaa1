package core

import (
	"slices"
	"testing"
)

func TestActivityStartsAwake(t *testing.T) {
	a := NewActivity(40, 20, 16, 3)
	cols, rows := a.Dims()
	if cols != 3 || rows != 2 {
		t.Fatalf("dims = %dx%d, want 3x2", cols, rows)
	}
	if a.AwakeCount() != a.Count() {
		t.Fatalf("awake %d of %d at start", a.AwakeCount(), a.Count())
	}
	x0, y0, x1, y1 := a.Bounds(5)
	if x0 != 32 || y0 != 16 || x1 != 40 || y1 != 20 {
		t.Fatalf("Bounds(5) = %d,%d,%d,%d", x0, y0, x1, y1)
	}
}

func TestQuietRegionsSleepAfterThreshold(t *testing.T) {
	const sleep = 4
	a := NewActivity(32, 32, 16, sleep)
	a.Advance() // frame of creation counts as activity
	for f := 1; f < sleep; f++ {
		a.Advance()
		if a.AwakeCount() != a.Count() {
			t.Fatalf("regions slept after %d quiet frames", f)
		}
	}
	if slept := a.Advance(); slept != a.Count() {
		t.Fatalf("Advance reported %d sleepers, want %d", slept, a.Count())
	}
	if got := a.Snapshot(nil); len(got) != 0 {
		t.Fatalf("snapshot after sleep = %v", got)
	}
	for i := 0; i < 10; i++ {
		a.Advance()
	}
	if a.AwakeCount() != 0 {
		t.Fatal("sleeping regions woke without events")
	}
}

func TestTouchKeepsRegionAwake(t *testing.T) {
	a := NewActivity(32, 16, 16, 2)
	for f := 0; f < 10; f++ {
		a.Touch(3, 3)
		a.Advance()
	}
	if !a.Awake(3, 3) {
		t.Fatal("touched region fell asleep")
	}
	if a.Awake(20, 3) {
		t.Fatal("untouched region still awake")
	}
}

func TestTouchOnEdgeWakesNeighbour(t *testing.T) {
	a := NewActivity(32, 32, 16, 1)
	a.Advance()
	a.Advance()
	if a.AwakeCount() != 0 {
		t.Fatalf("expected all asleep, %d awake", a.AwakeCount())
	}
	a.Touch(15, 16)
	got := a.Snapshot(nil)
	if !slices.Equal(got, []int{0, 1, 2, 3}) {
		t.Fatalf("corner touch woke %v, want all four regions", got)
	}
	a.Advance()
	a.Advance()
	a.Touch(5, 5)
	if got := a.Snapshot(nil); !slices.Equal(got, []int{0}) {
		t.Fatalf("interior touch woke %v", got)
	}
}

func TestWakeCoversNeighbours(t *testing.T) {
	a := NewActivity(48, 48, 16, 1)
	a.Advance()
	a.Advance()
	a.Wake(20, 20)
	if a.AwakeCount() != 9 {
		t.Fatalf("centre wake woke %d regions, want 9", a.AwakeCount())
	}
	a.Advance()
	a.Advance()
	a.Wake(0, 0)
	if got := a.Snapshot(nil); !slices.Equal(got, []int{0, 1, 3, 4}) {
		t.Fatalf("corner wake woke %v", got)
	}
	a.Wake(-1, 3)
	a.Touch(48, 0)
	if a.AwakeCount() != 4 {
		t.Fatal("out of bounds events changed activity")
	}
}

func TestSleepDisabled(t *testing.T) {
	a := NewActivity(16, 16, 8, 0)
	for i := 0; i < 50; i++ {
		a.Advance()
	}
	if a.AwakeCount() != a.Count() {
		t.Fatal("regions slept with sleeping disabled")
	}
}
