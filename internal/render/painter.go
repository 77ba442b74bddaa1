//go:build ebiten

package render

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// GridPainter uploads packed cell pixels into a single image and draws it
// scaled onto the screen.
type GridPainter struct {
	w, h int
	img  *ebiten.Image
	buf  []byte
	px   []uint32
}

// NewGridPainter allocates a painter for a grid of size w*h.
func NewGridPainter(w, h int) *GridPainter {
	gp := &GridPainter{w: w, h: h, buf: make([]byte, 4*w*h), px: make([]uint32, w*h)}
	gp.img = ebiten.NewImage(w, h)
	return gp
}

// Pixels returns the packed pixel buffer the caller renders into before Blit.
func (gp *GridPainter) Pixels() []uint32 { return gp.px }

// Blit uploads the pixel buffer and draws it at the given scale.
func (gp *GridPainter) Blit(dst *ebiten.Image, scale int) {
	FillRGBA(gp.buf, gp.px)
	gp.img.WritePixels(gp.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(gp.img, op)
}

// Size returns the dimensions of the underlying image.
func (gp *GridPainter) Size() (int, int) { return gp.w, gp.h }
