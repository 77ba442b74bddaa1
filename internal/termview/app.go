package termview

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"mad-sand/internal/core"
	"mad-sand/pkg/material"
)

const (
	maxRadius = 16
	windStep  = 0.1
)

// App drives a sim from terminal input: it steps on a fixed clock, paints
// with the mouse and maps keys to host actions.
type App struct {
	screen tcell.Screen
	sim    core.Sim
	view   *View
	timer  *core.FixedStep
	log    *slog.Logger

	brushes []core.Brush
	brush   material.ID
	radius  int
	paused  bool
	seed    int64
}

// Option customises an App.
type Option func(*App)

// WithLogger routes host logs to l.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) { a.log = l }
}

// WithBrushes sets the key to material bindings.
func WithBrushes(b []core.Brush) Option {
	return func(a *App) { a.brushes = b }
}

// WithTPS sets the simulation rate.
func WithTPS(tps int) Option {
	return func(a *App) { a.timer.SetTPS(tps) }
}

// NewApp returns an app showing sim on screen. seed is used by the reset key.
func NewApp(screen tcell.Screen, sim core.Sim, seed int64, opts ...Option) *App {
	a := &App{
		screen: screen,
		sim:    sim,
		view:   NewView(screen, sim),
		timer:  core.NewFixedStep(60),
		log:    slog.Default(),
		radius: 2,
		seed:   seed,
	}
	for _, opt := range opts {
		opt(a)
	}
	if len(a.brushes) > 0 {
		a.brush = a.brushes[0].ID
	}
	return a
}

// Run processes input and steps the sim until ctx is done or the user quits.
func (a *App) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	defer close(quit)
	go a.screen.ChannelEvents(events, quit)

	ticker := time.NewTicker(a.timer.Interval())
	defer ticker.Stop()

	a.screen.EnableMouse()
	a.Tick()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok || !a.HandleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			a.Tick()
		}
	}
}

// Tick steps the frames the clock says are due and redraws.
func (a *App) Tick() {
	due := a.timer.Due()
	if !a.paused {
		for i := 0; i < due; i++ {
			a.sim.Step()
		}
	}
	a.view.Draw(a.Status())
}

// HandleEvent applies one input event and reports whether the app keeps
// running.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(ev)
	case *tcell.EventMouse:
		a.handleMouse(ev)
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		a.nudgeWind(-windStep)
	case tcell.KeyRight:
		a.nudgeWind(windStep)
	case tcell.KeyUp:
		a.radius = min(a.radius+1, maxRadius)
	case tcell.KeyDown:
		a.radius = max(a.radius-1, 0)
	case tcell.KeyRune:
		return a.handleRune(ev.Rune())
	}
	return true
}

func (a *App) handleRune(r rune) bool {
	switch r {
	case 'q':
		return false
	case ' ':
		a.paused = !a.paused
	case 'n':
		a.sim.Step()
	case 'r':
		a.sim.Reset(a.seed)
		a.log.Info("reset", "sim", a.sim.Name(), "seed", a.seed)
	case 'e':
		a.brush = material.Air
	default:
		for _, b := range a.brushes {
			if b.Key == r {
				a.brush = b.ID
				break
			}
		}
	}
	return true
}

func (a *App) handleMouse(ev *tcell.EventMouse) {
	buttons := ev.Buttons()
	if buttons&(tcell.Button1|tcell.Button2) == 0 {
		return
	}
	p, ok := a.sim.(core.Painter)
	if !ok {
		return
	}
	x, y, ok := a.view.GridAt(ev.Position())
	if !ok {
		return
	}
	id := a.brush
	if buttons&tcell.Button2 != 0 {
		id = material.Air
	}
	p.Paint(x, y, a.radius, id)
}

func (a *App) nudgeWind(dx float64) {
	if w, ok := a.sim.(core.WindController); ok {
		core.NudgeWind(w, dx)
	}
}

// Brush returns the selected material.
func (a *App) Brush() material.ID { return a.brush }

// Radius returns the brush radius.
func (a *App) Radius() int { return a.radius }

// Paused reports whether stepping is paused.
func (a *App) Paused() bool { return a.paused }

// Status is the text of the status line.
func (a *App) Status() string {
	name := "erase"
	for _, b := range a.brushes {
		if b.ID == a.brush {
			name = b.Name
			break
		}
	}
	state := "running"
	if a.paused {
		state = "paused"
	}
	s := fmt.Sprintf("%s | %s | brush %s r%d", a.sim.Name(), state, name, a.radius)
	if w, ok := a.sim.(core.WindController); ok {
		dx, _ := w.Wind()
		s += fmt.Sprintf(" | wind %+.1f", dx)
	}
	return s
}
