//go:build ebiten

package app

import (
	"fmt"
	"log/slog"
	"time"

	"mad-sand/internal/core"
	"mad-sand/internal/render"
	"mad-sand/internal/ui"
	"mad-sand/pkg/material"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	maxRadius = 16
	windStep  = 0.1
)

// Game adapts a core simulation to the ebiten.Game interface.
type Game struct {
	sim     core.Sim
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD
	log     *slog.Logger

	brushes []core.Brush
	brush   material.ID
	radius  int
	chars   []rune

	scale    int
	hudWidth int
	paused   bool
	tickOnce bool
	seed     int64
}

// New constructs a Game for the provided simulation.
func New(sim core.Sim, cfg Config, log *slog.Logger) *Game {
	if log == nil {
		log = slog.Default()
	}
	scale := max(cfg.Scale, 1)
	g := &Game{
		sim:      sim,
		painter:  render.NewGridPainter(sim.Size().W, sim.Size().H),
		overlay:  ui.NewOverlay(sim, scale),
		log:      log,
		brushes:  core.Brushes(material.Default()),
		radius:   2,
		scale:    scale,
		hudWidth: max(cfg.HUDWidth, 0),
		seed:     cfg.Seed,
	}
	if len(g.brushes) > 0 {
		g.brush = g.brushes[0].ID
	}
	g.hud = ui.NewHUD(sim, cfg.HUDWidth, g.brushes)
	return g
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.sim.Reset(seed)
	g.tickOnce = false
	g.log.Info("reset", "sim", g.sim.Name(), "seed", seed)
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	g.handleBrushKeys()
	g.handleWind()
	g.handlePaint()

	g.overlay.Update()
	g.hud.SetStatus(g.status())
	if id, ok := g.hud.Update(g.viewWidth()); ok {
		g.brush = id
	}
	g.hud.SetBrush(g.brush)

	if !g.paused || g.tickOnce {
		g.sim.Step()
		g.tickOnce = false
	}
	return nil
}

func (g *Game) handleBrushKeys() {
	g.chars = ebiten.AppendInputChars(g.chars[:0])
	for _, r := range g.chars {
		if r == 'e' {
			g.brush = material.Air
			continue
		}
		for _, b := range g.brushes {
			if b.Key == r {
				g.brush = b.ID
				break
			}
		}
	}
	if _, dy := ebiten.Wheel(); dy > 0 {
		g.radius = min(g.radius+1, maxRadius)
	} else if dy < 0 {
		g.radius = max(g.radius-1, 0)
	}
}

func (g *Game) handleWind() {
	w, ok := g.sim.(core.WindController)
	if !ok {
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
		core.NudgeWind(w, -windStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		core.NudgeWind(w, windStep)
	}
}

func (g *Game) handlePaint() {
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	if !left && !right {
		return
	}
	p, ok := g.sim.(core.Painter)
	if !ok {
		return
	}
	mx, my := ebiten.CursorPosition()
	if mx < 0 || my < 0 || mx >= g.viewWidth() {
		return
	}
	x, y := mx/g.scale, my/g.scale
	if y >= g.sim.Size().H {
		return
	}
	id := g.brush
	if right {
		id = material.Air
	}
	p.Paint(x, y, g.radius, id)
}

func (g *Game) status() string {
	name := "erase"
	for _, b := range g.brushes {
		if b.ID == g.brush {
			name = b.Name
			break
		}
	}
	state := "running"
	if g.paused {
		state = "paused"
	}
	return fmt.Sprintf("%s | %s r%d", state, name, g.radius)
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.sim.Render(g.painter.Pixels())
	g.painter.Blit(screen, g.scale)
	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.viewWidth(), g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return g.viewWidth() + g.hudWidth, s.H * g.scale
}

func (g *Game) viewWidth() int { return g.sim.Size().W * g.scale }
