package core

import "image/color"

// Pixel is a packed colour laid out as alpha(MSB), blue, green, red(LSB).
// Written little-endian it yields the bytes r, g, b, a of an RGBA buffer.
type Pixel uint32

// Transparent is the zero pixel.
const Transparent Pixel = 0

// Pack builds a pixel from its channels.
func Pack(r, g, b, a uint8) Pixel {
	return Pixel(uint32(a)<<24 | uint32(b)<<16 | uint32(g)<<8 | uint32(r))
}

// RGB packs an opaque pixel.
func RGB(r, g, b uint8) Pixel { return Pack(r, g, b, 0xff) }

// Unpack splits a pixel into its channels.
func (p Pixel) Unpack() (r, g, b, a uint8) {
	return uint8(p), uint8(p >> 8), uint8(p >> 16), uint8(p >> 24)
}

// RGBA converts the pixel for use with image/color APIs. The channels are
// treated as already premultiplied.
func (p Pixel) RGBA() color.RGBA {
	r, g, b, a := p.Unpack()
	return color.RGBA{R: r, G: g, B: b, A: a}
}

// FromColor packs any color.Color.
func FromColor(c color.Color) Pixel {
	r, g, b, a := c.RGBA()
	return Pack(uint8(r>>8), uint8(g>>8), uint8(b>>8), uint8(a>>8))
}

// Shade scales the colour channels by factor in [0, 1+], keeping alpha.
func (p Pixel) Shade(factor float64) Pixel {
	r, g, b, a := p.Unpack()
	return Pack(scale8(r, factor), scale8(g, factor), scale8(b, factor), a)
}

func scale8(v uint8, f float64) uint8 {
	s := float64(v)*f + 0.5
	if s < 0 {
		return 0
	}
	if s > 255 {
		return 255
	}
	return uint8(s)
}
