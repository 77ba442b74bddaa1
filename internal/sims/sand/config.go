package sand

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Params holds the engine tunables.
type Params struct {
	// RegionSize is the side of an activity region in cells.
	RegionSize int `yaml:"region_size"`
	// SleepFrames is how many quiet frames a region stays awake. Zero keeps
	// every region awake.
	SleepFrames int `yaml:"sleep_frames"`

	AmbientTemp float64 `yaml:"ambient_temp"`
	// HeatChance is the per-neighbour probability of a heat exchange and
	// HeatRate the fraction of the difference moved by one exchange.
	HeatChance float64 `yaml:"heat_chance"`
	HeatRate   float64 `yaml:"heat_rate"`
	// ThermalEpsilon is the smallest temperature change that counts as
	// activity for the sleep tracker.
	ThermalEpsilon float64 `yaml:"thermal_epsilon"`

	WindX        float64 `yaml:"wind_x"`
	WindY        float64 `yaml:"wind_y"`
	WindStrength float64 `yaml:"wind_strength"`

	// RandomRows draws the horizontal sweep direction per row from the world
	// RNG instead of alternating it by row and frame parity.
	RandomRows bool `yaml:"random_rows"`
}

// Config controls the sand world dimensions and tunables.
type Config struct {
	Width  int   `yaml:"width"`
	Height int   `yaml:"height"`
	Seed   int64 `yaml:"seed"`

	Params Params `yaml:"params"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:  256,
		Height: 256,
		Seed:   1337,
		Params: Params{
			RegionSize:     16,
			SleepFrames:    30,
			AmbientTemp:    20,
			HeatChance:     0.25,
			HeatRate:       0.2,
			ThermalEpsilon: 0.01,
		},
	}
}

// Normalize replaces out-of-range values with defaults or clamps them.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.Width <= 0 {
		c.Width = def.Width
	}
	if c.Height <= 0 {
		c.Height = def.Height
	}
	p := &c.Params
	if p.RegionSize <= 0 {
		p.RegionSize = def.Params.RegionSize
	}
	if p.SleepFrames < 0 {
		p.SleepFrames = 0
	}
	p.HeatChance = clamp(p.HeatChance, 0, 1)
	p.HeatRate = clamp(p.HeatRate, 0, 0.5)
	if p.ThermalEpsilon < 0 {
		p.ThermalEpsilon = 0
	}
	p.WindX = clamp(p.WindX, -1, 1)
	p.WindY = clamp(p.WindY, -1, 1)
	p.WindStrength = clamp(p.WindStrength, 0, 1)
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["region_size"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Params.RegionSize = parsed
		}
	}
	if v, ok := cfg["sleep_frames"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Params.SleepFrames = parsed
		}
	}
	floats := map[string]*float64{
		"ambient_temp":    &c.Params.AmbientTemp,
		"heat_chance":     &c.Params.HeatChance,
		"heat_rate":       &c.Params.HeatRate,
		"thermal_epsilon": &c.Params.ThermalEpsilon,
		"wind_x":          &c.Params.WindX,
		"wind_y":          &c.Params.WindY,
		"wind_strength":   &c.Params.WindStrength,
	}
	for key, dst := range floats {
		if v, ok := cfg[key]; ok {
			if parsed, err := strconv.ParseFloat(v, 64); err == nil {
				*dst = parsed
			}
		}
	}
	if v, ok := cfg["random_rows"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.Params.RandomRows = parsed
		}
	}
	c.Normalize()
	return c
}

// Map renders the config with the FromMap keys, so FromMap(c.Map()) == c for
// a normalized config.
func (c Config) Map() map[string]string {
	p := c.Params
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return map[string]string{
		"w":               strconv.Itoa(c.Width),
		"h":               strconv.Itoa(c.Height),
		"seed":            strconv.FormatInt(c.Seed, 10),
		"region_size":     strconv.Itoa(p.RegionSize),
		"sleep_frames":    strconv.Itoa(p.SleepFrames),
		"ambient_temp":    f(p.AmbientTemp),
		"heat_chance":     f(p.HeatChance),
		"heat_rate":       f(p.HeatRate),
		"thermal_epsilon": f(p.ThermalEpsilon),
		"wind_x":          f(p.WindX),
		"wind_y":          f(p.WindY),
		"wind_strength":   f(p.WindStrength),
		"random_rows":     strconv.FormatBool(p.RandomRows),
	}
}

// LoadConfig reads a YAML config file layered over DefaultConfig. Unknown keys
// are rejected so typos surface instead of silently using defaults.
func LoadConfig(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// DecodeConfig parses YAML from r over DefaultConfig. An empty document
// yields the defaults.
func DecodeConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	cfg.Normalize()
	return cfg, nil
}

// Encode writes the config as YAML.
func (c Config) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
