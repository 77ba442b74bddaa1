package termview

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"mad-sand/internal/core"
	"mad-sand/internal/sims/sand"
	pcore "mad-sand/pkg/core"
	"mad-sand/pkg/material"
)

// stripes is a 2x3 sim whose pixel i is colourOf(i).
type stripes struct{ steps int }

func colourOf(i int) uint32 { return uint32(pcore.RGB(uint8(10*i+10), uint8(i), 200)) }

func (s *stripes) Name() string    { return "stripes" }
func (s *stripes) Size() core.Size { return core.Size{W: 2, H: 3} }
func (s *stripes) Reset(int64)     {}
func (s *stripes) Step()           { s.steps++ }
func (s *stripes) Render(dst []uint32) {
	for i := range dst {
		dst[i] = colourOf(i)
	}
}

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return screen
}

func rgb(p uint32) tcell.Color {
	r, g, b, _ := pcore.Pixel(p).Unpack()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func TestViewDrawsHalfBlocks(t *testing.T) {
	screen := newScreen(t, 4, 3)
	v := NewView(screen, &stripes{})
	v.Draw("ok")

	cells, w, _ := screen.GetContents()
	at := func(c, r int) tcell.SimCell { return cells[r*w+c] }

	for c := 0; c < 2; c++ {
		cell := at(c, 0)
		if len(cell.Runes) == 0 || cell.Runes[0] != halfBlock {
			t.Fatalf("cell (%d,0) runes %q", c, cell.Runes)
		}
		fg, bg, _ := cell.Style.Decompose()
		if fg != rgb(colourOf(c)) || bg != rgb(colourOf(2+c)) {
			t.Fatalf("cell (%d,0) fg %v bg %v", c, fg, bg)
		}
	}
	_, bg, _ := at(1, 1).Style.Decompose()
	if bg != tcell.ColorBlack {
		t.Fatalf("row past the grid has background %v", bg)
	}
	if fg, _, _ := at(0, 1).Style.Decompose(); fg != rgb(colourOf(4)) {
		t.Fatalf("second row foreground %v", fg)
	}
	if at(0, 2).Runes[0] != 'o' || at(1, 2).Runes[0] != 'k' {
		t.Fatalf("status line = %q%q", at(0, 2).Runes, at(1, 2).Runes)
	}
}

func TestGridAtSkipsStatusLine(t *testing.T) {
	screen := newScreen(t, 4, 3)
	v := NewView(screen, &stripes{})
	if x, y, ok := v.GridAt(1, 1); !ok || x != 1 || y != 2 {
		t.Fatalf("GridAt(1,1) = %d,%d,%v", x, y, ok)
	}
	for _, p := range [][2]int{{2, 0}, {0, 2}, {-1, 0}} {
		if _, _, ok := v.GridAt(p[0], p[1]); ok {
			t.Fatalf("GridAt(%d,%d) mapped outside the grid", p[0], p[1])
		}
	}
}

func newSandApp(t *testing.T) (*App, *sand.World) {
	t.Helper()
	const (
		idSand material.ID = 1
		idWall material.ID = 2
	)
	reg := material.NewRegistry()
	for _, d := range []*material.Def{
		{Key: idSand, Label: "sand", Weight: 2, Paint: pcore.RGB(200, 180, 90)},
		{Key: idWall, Label: "wall", Weight: material.Immovable},
	} {
		if err := reg.Register(d); err != nil {
			t.Fatal(err)
		}
	}
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	w := sand.New(10, 10, sand.WithRegistry(reg), sand.WithLogger(quiet))
	w.Reset(1)
	screen := newScreen(t, 20, 8)
	return NewApp(screen, w, 1, WithBrushes(core.Brushes(reg)), WithLogger(quiet)), w
}

func TestAppKeysAndMousePaint(t *testing.T) {
	app, w := newSandApp(t)
	if app.Brush() != 1 {
		t.Fatalf("default brush %d", app.Brush())
	}
	app.HandleEvent(tcell.NewEventKey(tcell.KeyRune, '2', tcell.ModNone))
	if app.Brush() != 2 {
		t.Fatalf("brush after '2' = %d", app.Brush())
	}
	app.HandleEvent(tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone))
	app.HandleEvent(tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone))
	if app.Radius() != 0 {
		t.Fatalf("radius = %d", app.Radius())
	}
	app.HandleEvent(tcell.NewEventMouse(3, 2, tcell.Button1, tcell.ModNone))
	if w.Get(3, 4) != 2 {
		t.Fatalf("click did not paint wall at (3,4): %d", w.Get(3, 4))
	}
	app.HandleEvent(tcell.NewEventMouse(3, 2, tcell.Button2, tcell.ModNone))
	if w.Get(3, 4) != material.Air {
		t.Fatal("secondary button did not erase")
	}

	app.HandleEvent(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone))
	if !app.Paused() {
		t.Fatal("space did not pause")
	}
	app.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'n', tcell.ModNone))
	if w.Frame() != 1 {
		t.Fatalf("single step ran %d frames", w.Frame())
	}
	app.HandleEvent(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone))
	if dx, _ := w.Wind(); dx <= 0 || w.WindStrength() < dx {
		t.Fatalf("wind after right arrow = %v (strength %v)", dx, w.WindStrength())
	}
	app.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone))
	if w.Frame() != 0 {
		t.Fatal("reset key did not reset")
	}
	if app.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)) {
		t.Fatal("q did not quit")
	}
	if app.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Fatal("escape did not quit")
	}
}

func TestAppTickRespectsPause(t *testing.T) {
	sim := &stripes{}
	screen := newScreen(t, 4, 3)
	app := NewApp(screen, sim, 0)
	now := time.Unix(1000, 0)
	app.timer.SetClock(func() time.Time { return now })
	app.Tick()
	now = now.Add(3 * app.timer.Interval())
	app.Tick()
	if sim.steps != 4 {
		t.Fatalf("ran %d steps, want 4", sim.steps)
	}
	app.HandleEvent(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone))
	now = now.Add(2 * app.timer.Interval())
	app.Tick()
	if sim.steps != 4 {
		t.Fatal("paused app stepped")
	}
}
