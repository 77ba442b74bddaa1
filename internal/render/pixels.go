// Package render turns packed cell pixels into byte buffers for the hosts.
package render

import "encoding/binary"

// FillRGBA writes px into buf as RGBA bytes. A packed pixel stores red in the
// low byte, so its little-endian encoding is already r, g, b, a. Pixels that
// do not fit in buf are dropped.
func FillRGBA(buf []byte, px []uint32) {
	n := min(len(px), len(buf)/4)
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint32(buf[i*4:], px[i])
	}
}
