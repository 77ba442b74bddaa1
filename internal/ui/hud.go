//go:build ebiten

package ui

import (
	"image"
	"image/color"
	"strings"

	"mad-sand/internal/core"
	"mad-sand/pkg/material"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

type parameterProvider interface {
	Parameters() core.ParameterSnapshot
}

var (
	panelBG    = color.RGBA{R: 16, G: 16, B: 20, A: 255}
	titleFG    = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	labelFG    = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	dimFG      = color.RGBA{R: 160, G: 160, B: 170, A: 255}
	buttonBG   = color.RGBA{R: 54, G: 56, B: 64, A: 255}
	buttonOff  = color.RGBA{R: 32, G: 34, B: 40, A: 255}
	buttonText = color.RGBA{R: 120, G: 120, B: 130, A: 255}
	selectedFG = color.RGBA{R: 250, G: 220, B: 90, A: 255}
)

// HUD is the side panel of the window host: frame statistics, the tunable
// parameters with +/- buttons, and a clickable brush palette.
type HUD struct {
	sim   core.Sim
	width int
	panel *ebiten.Image
	pixel *ebiten.Image

	title    string
	stats    string
	status   string
	controls []control
	swatches []swatch
	selected material.ID

	statsY   int
	paletteY int
}

// NewHUD builds the panel for sim. It returns nil when width is not
// positive; every method is a no-op on a nil HUD.
func NewHUD(sim core.Sim, width int, brushes []core.Brush) *HUD {
	if width <= 0 {
		return nil
	}
	h := &HUD{sim: sim, width: width, title: "Sand"}
	if name := sim.Name(); name != "" {
		h.title = strings.ToUpper(name[:1]) + name[1:]
	}
	h.pixel = ebiten.NewImage(1, 1)
	h.pixel.Fill(color.White)

	h.statsY = panelPadding + headerBaseline + textLine
	h.controls = newControls(sim)
	bottom := layoutControls(h.controls, h.statsY+panelPadding, width)
	h.paletteY = bottom + textLine
	h.swatches = layoutPalette(brushes, h.paletteY+panelPadding/2, width)
	return h
}

// SetStatus sets the host line drawn at the bottom of the panel.
func (h *HUD) SetStatus(status string) {
	if h != nil {
		h.status = status
	}
}

// SetBrush highlights the palette swatch for id.
func (h *HUD) SetBrush(id material.ID) {
	if h != nil {
		h.selected = id
	}
}

// Update refreshes values from the sim and handles clicks. It reports the
// brush picked from the palette, if any.
func (h *HUD) Update(panelOffsetX int) (material.ID, bool) {
	if h == nil {
		return 0, false
	}
	if p, ok := h.sim.(parameterProvider); ok {
		snap := p.Parameters()
		for i := range h.controls {
			h.controls[i].refresh(snap)
		}
	}
	if s, ok := h.sim.(core.StatsProvider); ok {
		h.stats = statsLine(s.Stats())
	}

	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return 0, false
	}
	mx, my := ebiten.CursorPosition()
	x := mx - panelOffsetX
	if x < 0 {
		return 0, false
	}
	p := image.Pt(x, my)
	for i := range h.controls {
		c := &h.controls[i]
		switch {
		case p.In(c.minus):
			c.adjust(h.sim, -1)
			return 0, false
		case p.In(c.plus):
			c.adjust(h.sim, 1)
			return 0, false
		}
	}
	if b, ok := pickSwatch(h.swatches, x, my); ok {
		h.selected = b.ID
		return b.ID, true
	}
	return 0, false
}

// Draw paints the panel at offsetX, beside a view of the given scale.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, scale int) {
	if h == nil {
		return
	}
	height := h.sim.Size().H * max(scale, 1)
	if height <= 0 {
		return
	}
	if h.panel == nil || h.panel.Bounds().Dy() != height {
		h.panel = ebiten.NewImage(h.width, height)
	}
	h.panel.Fill(panelBG)
	face := basicfont.Face7x13

	text.Draw(h.panel, h.title, face, panelPadding, panelPadding+headerBaseline, titleFG)
	text.Draw(h.panel, h.stats, face, panelPadding, h.statsY, dimFG)

	for i := range h.controls {
		c := &h.controls[i]
		baseline := c.top + lineHeight/2 + 5
		text.Draw(h.panel, c.Label, face, panelPadding, baseline, labelFG)
		fg := labelFG
		if !c.known {
			fg = dimFG
		}
		value := c.text()
		x := c.minus.Min.X - buttonGap - text.BoundString(face, value).Dx()
		text.Draw(h.panel, value, face, x, baseline, fg)
		_, down := c.target(-1)
		_, up := c.target(1)
		h.drawButton(c.minus, "-", down)
		h.drawButton(c.plus, "+", up)
	}

	heading := "Brush: erase (e)"
	for _, s := range h.swatches {
		if s.ID == h.selected {
			heading = "Brush: " + s.Name
		}
	}
	text.Draw(h.panel, heading, face, panelPadding, h.paletteY, labelFG)
	for _, s := range h.swatches {
		h.drawSwatch(s)
	}

	if h.status != "" {
		text.Draw(h.panel, h.status, face, panelPadding, height-panelPadding, dimFG)
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) fill(r image.Rectangle, col color.Color) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(r.Dx()), float64(r.Dy()))
	op.GeoM.Translate(float64(r.Min.X), float64(r.Min.Y))
	op.ColorScale.ScaleWithColor(col)
	h.panel.DrawImage(h.pixel, op)
}

func (h *HUD) drawButton(r image.Rectangle, label string, enabled bool) {
	bg, fg := buttonBG, labelFG
	if !enabled {
		bg, fg = buttonOff, buttonText
	}
	h.fill(r, bg)
	h.drawCentered(r, label, fg)
}

func (h *HUD) drawSwatch(s swatch) {
	if s.ID == h.selected {
		h.fill(s.rect.Inset(-2), selectedFG)
	}
	h.fill(s.rect, buttonOff)
	h.fill(s.rect.Inset(2), s.Color.RGBA())
	h.drawCentered(s.rect, string(s.Key), contrast(s.Color.RGBA()))
}

func (h *HUD) drawCentered(r image.Rectangle, label string, fg color.Color) {
	face := basicfont.Face7x13
	b := text.BoundString(face, label)
	x := r.Min.X + (r.Dx()-b.Dx())/2
	y := r.Min.Y + (r.Dy()-b.Dy())/2 + b.Dy()
	text.Draw(h.panel, label, face, x, y, fg)
}
