// Package config loads driver settings from defaults, an optional TOML file and
// EMBER_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/ember/noise"
	"github.com/lixenwraith/ember/parameter"
	"github.com/lixenwraith/ember/spark"
	"github.com/lixenwraith/ember/vmath"
)

// Noise field kinds
const (
	NoiseSimplex = "simplex"
	NoisePerlin  = "perlin"
)

// Terminal color settings, auto probes the environment
const (
	ColorAuto      = "auto"
	ColorTrueColor = "truecolor"
	Color256       = "256"
)

// Config is the full driver configuration
type Config struct {
	Spark   SparkConfig   `toml:"spark"`
	Display DisplayConfig `toml:"display"`
	Audio   AudioConfig   `toml:"audio"`
	Web     WebConfig     `toml:"web"`
	Log     LogConfig     `toml:"log"`
}

// SparkConfig seeds the engine options
type SparkConfig struct {
	Intensity    float64 `toml:"intensity"`
	WindStrength float64 `toml:"wind_strength"`
	AutoStart    bool    `toml:"auto_start"`
	Seed         uint64  `toml:"seed"`
	Noise        string  `toml:"noise"`
}

// DisplayConfig covers local drivers; zero width or height means fit the screen
type DisplayConfig struct {
	FPS    int     `toml:"fps"`
	Width  int     `toml:"width"`
	Height int     `toml:"height"`
	Scale  float64 `toml:"scale"`
	Color  string  `toml:"color"`
}

// AudioConfig toggles the ember sound effects
type AudioConfig struct {
	Enabled bool    `toml:"enabled"`
	Volume  float64 `toml:"volume"`
}

// WebConfig configures the streaming server
type WebConfig struct {
	Address   string `toml:"address"`
	FrameRate int    `toml:"frame_rate"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
}

// LogConfig routes the standard logger to a file
type LogConfig struct {
	Debug bool   `toml:"debug"`
	Dir   string `toml:"dir"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Spark: SparkConfig{
			Intensity:    parameter.IntensityDefault,
			WindStrength: parameter.WindStrengthDefault,
			AutoStart:    true,
			Noise:        NoiseSimplex,
		},
		Display: DisplayConfig{
			FPS:   60,
			Scale: 1,
			Color: ColorAuto,
		},
		Audio: AudioConfig{
			Enabled: false,
			Volume:  0.6,
		},
		Web: WebConfig{
			Address:   "127.0.0.1:8080",
			FrameRate: 30,
			Width:     640,
			Height:    360,
		},
		Log: LogConfig{
			Dir: "logs",
		},
	}
}

// Load builds a config from defaults, the TOML file at path and the environment
// An empty path skips the file; a named file that does not exist is an error
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode parses TOML text over the defaults without touching the environment
func Decode(text string) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(text, cfg)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		keys := make([]string, len(undec))
		for i, k := range undec {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides fields from EMBER_* variables read through lookup
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	float := func(key string, dst *float64) {
		if v, ok := lookup(key); ok && v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = f
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	boolean := func(key string, dst *bool) {
		if v, ok := lookup(key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = b
		}
	}

	float("EMBER_INTENSITY", &c.Spark.Intensity)
	float("EMBER_WIND_STRENGTH", &c.Spark.WindStrength)
	boolean("EMBER_AUTOSTART", &c.Spark.AutoStart)
	if v, ok := lookup("EMBER_SEED"); ok && v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("EMBER_SEED: %w", err))
		} else {
			c.Spark.Seed = seed
		}
	}
	str("EMBER_NOISE", &c.Spark.Noise)
	integer("EMBER_FPS", &c.Display.FPS)
	str("EMBER_COLOR", &c.Display.Color)
	boolean("EMBER_AUDIO", &c.Audio.Enabled)
	float("EMBER_VOLUME", &c.Audio.Volume)
	str("EMBER_ADDR", &c.Web.Address)
	boolean("EMBER_DEBUG", &c.Log.Debug)

	return errors.Join(errs...)
}

// Validate clamps numeric ranges and rejects settings no driver can honor
func (c *Config) Validate() error {
	c.Spark.Intensity = vmath.Clamp(c.Spark.Intensity, parameter.IntensityMin, parameter.IntensityMax)
	c.Spark.WindStrength = vmath.Clamp(c.Spark.WindStrength, parameter.WindStrengthMin, parameter.WindStrengthMax)
	c.Audio.Volume = vmath.Clamp(c.Audio.Volume, 0, 1)

	c.Spark.Noise = strings.ToLower(strings.TrimSpace(c.Spark.Noise))
	switch c.Spark.Noise {
	case "":
		c.Spark.Noise = NoiseSimplex
	case NoiseSimplex, NoisePerlin:
	default:
		return fmt.Errorf("unknown noise kind %q", c.Spark.Noise)
	}

	c.Display.Color = strings.ToLower(strings.TrimSpace(c.Display.Color))
	switch c.Display.Color {
	case "":
		c.Display.Color = ColorAuto
	case "true", "24bit":
		c.Display.Color = ColorTrueColor
	case ColorAuto, ColorTrueColor, Color256:
	default:
		return fmt.Errorf("unknown color mode %q", c.Display.Color)
	}

	if c.Display.FPS <= 0 {
		return fmt.Errorf("display fps must be positive, got %d", c.Display.FPS)
	}
	if c.Display.Width < 0 || c.Display.Height < 0 {
		return fmt.Errorf("display size must not be negative, got %dx%d", c.Display.Width, c.Display.Height)
	}
	if c.Display.Scale <= 0 {
		c.Display.Scale = 1
	}
	if c.Web.FrameRate <= 0 {
		return fmt.Errorf("web frame rate must be positive, got %d", c.Web.FrameRate)
	}
	if c.Web.Width <= 0 || c.Web.Height <= 0 {
		return fmt.Errorf("web frame size must be positive, got %dx%d", c.Web.Width, c.Web.Height)
	}
	if strings.TrimSpace(c.Web.Address) == "" {
		return errors.New("web address must not be empty")
	}
	if c.Log.Dir == "" {
		c.Log.Dir = "logs"
	}
	return nil
}

// EngineOptions converts the spark section into engine options
// Perlin noise is seeded from the engine seed so runs stay reproducible
func (c SparkConfig) EngineOptions() spark.Options {
	opts := spark.DefaultOptions()
	opts.Intensity = c.Intensity
	opts.WindStrength = c.WindStrength
	opts.AutoStart = c.AutoStart
	opts.Seed = c.Seed
	if c.Noise == NoisePerlin {
		seed := int64(c.Seed)
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		opts.Noise = noise.NewPerlin(seed)
	}
	return opts
}
