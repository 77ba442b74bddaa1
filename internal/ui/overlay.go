//go:build ebiten

package ui

import (
	"image"
	"image/color"
	"math"

	"mad-sand/internal/core"
	"mad-sand/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type regionProvider interface {
	AwakeRegions(dst []image.Rectangle) []image.Rectangle
}

type temperatureProvider interface {
	TemperatureField() []float64
	AmbientTemp() float64
}

// Overlay draws optional debugging visuals on top of the base simulation:
// F1 outlines awake regions, F2 tints cells by temperature, F3 shows the wind.
type Overlay struct {
	sim        core.Sim
	scale      int
	showAwake  bool
	showHeat   bool
	showWind   bool
	regions    []image.Rectangle
	heatImg    *ebiten.Image
	heatBuf    []byte
	heatPixels []uint32
	pixel      *ebiten.Image
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	o := &Overlay{sim: sim, scale: max(scale, 1)}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles the layers from the function keys.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		o.showAwake = !o.showAwake
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF2) {
		o.showHeat = !o.showHeat
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		o.showWind = !o.showWind
	}
}

// Draw renders the enabled layers onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	size := o.sim.Size()
	if size.W <= 0 || size.H <= 0 {
		return
	}
	if o.showHeat {
		if provider, ok := o.sim.(temperatureProvider); ok {
			o.drawHeat(screen, provider, size)
		}
	}
	if o.showAwake {
		if provider, ok := o.sim.(regionProvider); ok {
			o.regions = provider.AwakeRegions(o.regions[:0])
			for _, r := range o.regions {
				o.drawRect(screen, r, color.RGBA{R: 80, G: 220, B: 120, A: 180})
			}
		}
	}
	if o.showWind {
		if w, ok := o.sim.(core.WindController); ok {
			o.drawWind(screen, w, size)
		}
	}
}

func (o *Overlay) drawRect(screen *ebiten.Image, r image.Rectangle, col color.RGBA) {
	s := float64(o.scale)
	x0, y0 := float64(r.Min.X)*s, float64(r.Min.Y)*s
	x1, y1 := float64(r.Max.X)*s, float64(r.Max.Y)*s
	o.drawLine(screen, x0, y0, x1, y0, 1, col)
	o.drawLine(screen, x1, y0, x1, y1, 1, col)
	o.drawLine(screen, x1, y1, x0, y1, 1, col)
	o.drawLine(screen, x0, y1, x0, y0, 1, col)
}

func (o *Overlay) drawHeat(screen *ebiten.Image, provider temperatureProvider, size core.Size) {
	field := provider.TemperatureField()
	total := size.W * size.H
	if len(field) != total {
		return
	}
	if o.heatImg == nil || o.heatImg.Bounds().Dx() != size.W || o.heatImg.Bounds().Dy() != size.H {
		o.heatImg = ebiten.NewImage(size.W, size.H)
		o.heatBuf = make([]byte, 4*total)
		o.heatPixels = make([]uint32, total)
	}
	render.FillHeat(o.heatPixels, field, provider.AmbientTemp())
	render.FillRGBA(o.heatBuf, o.heatPixels)
	o.heatImg.WritePixels(o.heatBuf)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(o.scale), float64(o.scale))
	screen.DrawImage(o.heatImg, op)
}

func (o *Overlay) drawWind(screen *ebiten.Image, w core.WindController, size core.Size) {
	dx, dy := w.Wind()
	strength := w.WindStrength()
	cx := float64(size.W*o.scale) / 2
	cy := float64(o.scale) * 6
	speed := math.Hypot(dx, dy)
	if speed < 1e-3 || strength <= 0 {
		o.drawPoint(screen, cx, cy, float64(o.scale)*2, color.RGBA{R: 90, G: 130, B: 170, A: 160})
		return
	}
	const headAngle = math.Pi / 6
	nx, ny := dx/speed, dy/speed
	length := float64(o.scale) * (6 + 18*min(max(strength, 0), 1))
	tipX, tipY := cx+nx*length/2, cy+ny*length/2
	tailX, tailY := cx-nx*length/2, cy-ny*length/2
	col := color.RGBA{R: 150, G: 220, B: 250, A: 220}
	thickness := math.Max(float64(o.scale)*0.8, 1)
	o.drawLine(screen, tailX, tailY, tipX, tipY, thickness, col)
	head := length * 0.3
	angle := math.Atan2(ny, nx)
	o.drawLine(screen, tipX, tipY, tipX-math.Cos(angle+headAngle)*head, tipY-math.Sin(angle+headAngle)*head, thickness, col)
	o.drawLine(screen, tipX, tipY, tipX-math.Cos(angle-headAngle)*head, tipY-math.Sin(angle-headAngle)*head, thickness, col)
}

func (o *Overlay) drawPoint(screen *ebiten.Image, x, y, size float64, col color.RGBA) {
	if o.pixel == nil || size <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(size, size)
	op.GeoM.Translate(x-size*0.5, y-size*0.5)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	if o.pixel == nil || thickness <= 0 {
		return
	}
	dx := x2 - x1
	dy := y2 - y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}
