// Package config loads job settings from TOML.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"strokeplot/internal/device"
	"strokeplot/internal/toolpath"
	"strokeplot/internal/trace"
	"strokeplot/pkg/geometry"
)

// Config is the full job configuration.
type Config struct {
	Plotter   PlotterConfig   `toml:"plotter"`
	Vectorize VectorizeConfig `toml:"vectorize"`
	Serial    SerialConfig    `toml:"serial"`
}

// PlotterConfig describes the device's addressable space.
type PlotterConfig struct {
	Units geometry.Extent `toml:"units"`
	Home  bool            `toml:"home"`
}

type VectorizeConfig struct {
	ContourMode trace.ContourMode         `toml:"contour_mode"`
	FirstPoint  toolpath.FirstPointPolicy `toml:"first_point"`
	ColorOrder  []trace.Color             `toml:"color_order"`
}

type SerialConfig struct {
	Settle      Duration `toml:"settle"`
	Timeout     Duration `toml:"timeout"`
	Terminator  string   `toml:"terminator"`
	MaxResponse int      `toml:"max_response"`
}

// Duration decodes TOML strings such as "2s" or "500ms".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file is given.
func Default() Config {
	dev := device.DefaultOptions()
	return Config{
		Plotter: PlotterConfig{
			Units: geometry.NewExtent(8000, 8000),
		},
		Vectorize: VectorizeConfig{
			ContourMode: trace.ContourTree,
			FirstPoint:  toolpath.SkipFirstPoint,
			ColorOrder:  trace.DefaultColorOrder(),
		},
		Serial: SerialConfig{
			Settle:      Duration{dev.Settle},
			Timeout:     Duration{dev.Timeout},
			Terminator:  dev.Terminator,
			MaxResponse: dev.MaxResponse,
		},
	}
}

// Load reads path over the defaults and validates the result.
// An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config parse failed (%s): unknown key %s", path, undecoded[0])
	}
	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	u := cfg.Plotter.Units
	if u.X.Min < 0 || u.Y.Min < 0 {
		return fmt.Errorf("plotter units must be non-negative")
	}
	if u.X.Span() <= 0 || u.Y.Span() <= 0 {
		return fmt.Errorf("plotter units need max > min on both axes")
	}
	if err := trace.ValidateOrder(cfg.Vectorize.ColorOrder); err != nil {
		return fmt.Errorf("color_order: %w", err)
	}
	if cfg.Serial.Timeout.Duration <= 0 {
		return fmt.Errorf("serial timeout must be positive")
	}
	if cfg.Serial.Settle.Duration < 0 {
		return fmt.Errorf("serial settle must not be negative")
	}
	term := cfg.Serial.Terminator
	if strings.TrimSpace(term) == "" || strings.ContainsAny(term, "\r\n") {
		return fmt.Errorf("serial terminator must be a non-empty single-line token")
	}
	return nil
}

// VectorizeOptions returns the tracing options.
func (c Config) VectorizeOptions() trace.VectorizeOptions {
	return trace.VectorizeOptions{
		Mode:  c.Vectorize.ContourMode,
		Order: append([]trace.Color(nil), c.Vectorize.ColorOrder...),
	}
}

// EncodeOptions returns the command encoding options.
func (c Config) EncodeOptions() toolpath.EncodeOptions {
	return toolpath.EncodeOptions{
		FirstPoint: c.Vectorize.FirstPoint,
		Home:       c.Plotter.Home,
	}
}

// DeviceOptions returns the serial session options.
func (c Config) DeviceOptions() device.Options {
	return device.Options{
		Settle:      c.Serial.Settle.Duration,
		Timeout:     c.Serial.Timeout.Duration,
		Terminator:  c.Serial.Terminator,
		MaxResponse: c.Serial.MaxResponse,
	}
}
