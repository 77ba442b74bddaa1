package sand

import (
	"strconv"

	"mad-sand/internal/core"
)

// Parameters reports the current tunables grouped for the HUD.
func (w *World) Parameters() core.ParameterSnapshot {
	p := w.cfg.Params
	groups := []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				intParam("w", "Width", w.cfg.Width),
				intParam("h", "Height", w.cfg.Height),
				int64Param("seed", "Seed", w.cfg.Seed),
			},
		},
		{
			Name:    "Activity",
			Summary: strconv.Itoa(w.act.AwakeCount()) + "/" + strconv.Itoa(w.act.Count()) + " regions awake",
			Params: []core.Parameter{
				intParam("region_size", "Region size", p.RegionSize),
				intParam("sleep_frames", "Sleep frames", p.SleepFrames),
				boolParam("random_rows", "Random row direction", p.RandomRows),
			},
		},
		{
			Name: "Heat",
			Params: []core.Parameter{
				floatParam("ambient_temp", "Ambient temperature", p.AmbientTemp),
				floatParam("heat_chance", "Heat exchange chance", p.HeatChance),
				floatParam("heat_rate", "Heat exchange rate", p.HeatRate),
				floatParam("thermal_epsilon", "Thermal epsilon", p.ThermalEpsilon),
			},
		},
		{
			Name: "Wind",
			Params: []core.Parameter{
				floatParam("wind_x", "Wind X", p.WindX),
				floatParam("wind_y", "Wind Y", p.WindY),
				floatParam("wind_strength", "Wind strength", p.WindStrength),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

// ParameterControls lists the HUD-adjustable parameters.
func (w *World) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "region_size", Label: "Region size", Type: core.ParamTypeInt, Step: 4, Min: 4, Max: 128, HasMin: true, HasMax: true},
		{Key: "sleep_frames", Label: "Sleep frames", Type: core.ParamTypeInt, Step: 5, Min: 0, Max: 600, HasMin: true, HasMax: true},
		{Key: "heat_chance", Label: "Heat chance", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, Max: 1, HasMin: true, HasMax: true},
		{Key: "heat_rate", Label: "Heat rate", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, Max: 0.5, HasMin: true, HasMax: true},
		{Key: "wind_x", Label: "Wind X", Type: core.ParamTypeFloat, Step: 0.1, Min: -1, Max: 1, HasMin: true, HasMax: true},
		{Key: "wind_strength", Label: "Wind strength", Type: core.ParamTypeFloat, Step: 0.1, Min: 0, Max: 1, HasMin: true, HasMax: true},
		{Key: "random_rows", Label: "Random rows", Type: core.ParamTypeBool},
	}
}

// SetIntParameter updates an integer tunable. Changing the region size
// rebuilds the tracker with every region awake.
func (w *World) SetIntParameter(key string, value int) bool {
	switch key {
	case "region_size":
		if value < 1 {
			return false
		}
		w.cfg.Params.RegionSize = value
		w.act = core.NewActivity(w.grid.W, w.grid.H, value, w.cfg.Params.SleepFrames)
		w.log.Info("activity regions rebuilt", "region_size", value, "regions", w.act.Count())
	case "sleep_frames":
		if value < 0 {
			return false
		}
		w.cfg.Params.SleepFrames = value
		w.act.SetSleepFrames(value)
	default:
		return false
	}
	return true
}

// SetFloatParameter updates a floating point tunable, clamping to its range.
func (w *World) SetFloatParameter(key string, value float64) bool {
	p := &w.cfg.Params
	switch key {
	case "ambient_temp":
		p.AmbientTemp = value
	case "heat_chance":
		p.HeatChance = clamp(value, 0, 1)
	case "heat_rate":
		p.HeatRate = clamp(value, 0, 0.5)
	case "thermal_epsilon":
		if value < 0 {
			value = 0
		}
		p.ThermalEpsilon = value
	case "wind_x":
		p.WindX = clamp(value, -1, 1)
	case "wind_y":
		p.WindY = clamp(value, -1, 1)
	case "wind_strength":
		p.WindStrength = clamp(value, 0, 1)
	default:
		return false
	}
	return true
}

// SetBoolParameter toggles a switch.
func (w *World) SetBoolParameter(key string, value bool) bool {
	if key != "random_rows" {
		return false
	}
	w.cfg.Params.RandomRows = value
	return true
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}

func boolParam(key, label string, value bool) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeBool,
		Value: strconv.FormatBool(value),
	}
}
