package render

import (
	"math"

	"mad-sand/pkg/core"
)

const (
	heatCold     = -50.0
	heatHot      = 1200.0
	heatBand     = 5.0
	heatMaxAlpha = 160.0
)

// HeatPixel maps a temperature to a translucent premultiplied pixel: blue
// below ambient, clear within a few degrees of it, red through pale yellow
// above.
func HeatPixel(t, ambient float64) core.Pixel {
	var r, g, b, n float64
	switch {
	case t < ambient-heatBand:
		n = clamp01((ambient - t) / (ambient - heatCold))
		r, g, b = 40, 90, 255
	case t > ambient+heatBand:
		n = clamp01((t - ambient) / (heatHot - ambient))
		r, g, b = 255, 60+195*n, 30+180*n*n
	default:
		return core.Transparent
	}
	a := heatMaxAlpha * math.Sqrt(n)
	f := a / 255
	return core.Pack(uint8(r*f), uint8(g*f), uint8(b*f), uint8(a))
}

// FillHeat writes the heat pixel of every temperature in field into dst.
func FillHeat(dst []uint32, field []float64, ambient float64) {
	n := min(len(dst), len(field))
	for i := 0; i < n; i++ {
		dst[i] = uint32(HeatPixel(field[i], ambient))
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
