package ui

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"

	"mad-sand/internal/core"
)

const (
	panelPadding   = 12
	headerBaseline = 18
	lineHeight     = 28
	buttonSize     = 20
	buttonGap      = 6
	swatchSize     = 28
	swatchGap      = 6
	textLine       = 18
)

const defaultFloatStep = 0.05

// control is one HUD row bound to an adjustable parameter. Bools are held as
// 0 or 1 so every type steps and clamps the same way.
type control struct {
	core.ParameterControl
	value    float64
	known    bool
	settable bool

	top         int
	minus, plus image.Rectangle
}

func newControls(sim core.Sim) []control {
	provider, ok := sim.(core.ParameterControlsProvider)
	if !ok {
		return nil
	}
	defs := provider.ParameterControls()
	out := make([]control, len(defs))
	for i, def := range defs {
		out[i] = control{ParameterControl: def, settable: hasSetter(sim, def.Type)}
	}
	return out
}

func hasSetter(sim core.Sim, t core.ParamType) bool {
	var ok bool
	switch t {
	case core.ParamTypeInt:
		_, ok = sim.(core.IntParameterSetter)
	case core.ParamTypeFloat:
		_, ok = sim.(core.FloatParameterSetter)
	case core.ParamTypeBool:
		_, ok = sim.(core.BoolParameterSetter)
	}
	return ok
}

// refresh reads the current value from snap.
func (c *control) refresh(snap core.ParameterSnapshot) {
	c.known = false
	p, ok := snap.Lookup(c.Key)
	if !ok || p.Type != c.Type {
		return
	}
	var err error
	switch c.Type {
	case core.ParamTypeInt, core.ParamTypeFloat:
		c.value, err = strconv.ParseFloat(p.Value, 64)
	case core.ParamTypeBool:
		var b bool
		b, err = strconv.ParseBool(p.Value)
		c.value = 0
		if b {
			c.value = 1
		}
	default:
		return
	}
	c.known = err == nil
}

func (c *control) step() float64 {
	switch c.Type {
	case core.ParamTypeInt:
		return max(math.Round(c.Step), 1)
	case core.ParamTypeBool:
		return 1
	}
	if c.Step <= 0 {
		return defaultFloatStep
	}
	return c.Step
}

// target returns the value one step in direction dir, clamped to the
// control's bounds, and whether it differs from the current value.
func (c *control) target(dir int) (float64, bool) {
	if !c.known || !c.settable || dir == 0 {
		return c.value, false
	}
	lo, hi, hasMin, hasMax := c.Min, c.Max, c.HasMin, c.HasMax
	if c.Type == core.ParamTypeBool {
		lo, hi, hasMin, hasMax = 0, 1, true, true
	}
	v := c.value + float64(dir)*c.step()
	if hasMin && v < lo {
		v = lo
	}
	if hasMax && v > hi {
		v = hi
	}
	return v, math.Abs(v-c.value) > 1e-9
}

// adjust steps the control by dir and pushes the result to sim.
func (c *control) adjust(sim core.Sim, dir int) bool {
	v, changed := c.target(dir)
	if !changed {
		return false
	}
	var ok bool
	switch c.Type {
	case core.ParamTypeInt:
		ok = sim.(core.IntParameterSetter).SetIntParameter(c.Key, int(math.Round(v)))
	case core.ParamTypeFloat:
		ok = sim.(core.FloatParameterSetter).SetFloatParameter(c.Key, v)
	case core.ParamTypeBool:
		ok = sim.(core.BoolParameterSetter).SetBoolParameter(c.Key, v >= 0.5)
	}
	if ok {
		c.value = v
	}
	return ok
}

func (c *control) text() string {
	if !c.known {
		return "--"
	}
	switch c.Type {
	case core.ParamTypeInt:
		return strconv.Itoa(int(math.Round(c.value)))
	case core.ParamTypeBool:
		if c.value >= 0.5 {
			return "on"
		}
		return "off"
	}
	precision := 1
	switch s := c.step(); {
	case s < 0.001:
		precision = 4
	case s < 0.01:
		precision = 3
	case s < 0.1:
		precision = 2
	}
	return strconv.FormatFloat(c.value, 'f', precision, 64)
}

// layoutControls stacks the rows from top with their buttons right-aligned
// in a panel of the given width. It returns the y below the last row.
func layoutControls(ctrls []control, top, width int) int {
	for i := range ctrls {
		y := top + i*lineHeight
		by := y + (lineHeight-buttonSize)/2
		ctrls[i].top = y
		ctrls[i].plus = image.Rect(width-panelPadding-buttonSize, by, width-panelPadding, by+buttonSize)
		ctrls[i].minus = ctrls[i].plus.Sub(image.Pt(buttonSize+buttonGap, 0))
	}
	return top + len(ctrls)*lineHeight
}

// swatch is a palette cell that selects a brush.
type swatch struct {
	core.Brush
	rect image.Rectangle
}

// layoutPalette wraps the brushes into rows of square swatches.
func layoutPalette(brushes []core.Brush, top, width int) []swatch {
	cols := max((width-2*panelPadding+swatchGap)/(swatchSize+swatchGap), 1)
	out := make([]swatch, len(brushes))
	for i, b := range brushes {
		x := panelPadding + (i%cols)*(swatchSize+swatchGap)
		y := top + (i/cols)*(swatchSize+swatchGap)
		out[i] = swatch{Brush: b, rect: image.Rect(x, y, x+swatchSize, y+swatchSize)}
	}
	return out
}

func pickSwatch(swatches []swatch, x, y int) (core.Brush, bool) {
	p := image.Pt(x, y)
	for _, s := range swatches {
		if p.In(s.rect) {
			return s.Brush, true
		}
	}
	return core.Brush{}, false
}

func statsLine(st core.FrameStats) string {
	return fmt.Sprintf("frame %d  awake %d/%d  upd %d  %.2fms",
		st.Frame, st.ActiveRegions, st.Regions, st.Updates, float64(st.Duration.Microseconds())/1000)
}

// contrast picks black or white text for a swatch background.
func contrast(bg color.RGBA) color.Color {
	lum := 299*int(bg.R) + 587*int(bg.G) + 114*int(bg.B)
	if bg.A < 128 || lum < 128000 {
		return color.White
	}
	return color.Black
}
