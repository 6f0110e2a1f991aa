// Package config loads engine settings from TOML and turns them into component options.
//
// Every key is optional; a missing key keeps its Default value. Unknown keys are rejected so a
// typo does not silently fall back to a default.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shading"
	"github.com/chewxy/math32"
	"github.com/pelletier/go-toml/v2"
)

// Config is the root of the configuration file.
type Config struct {
	Window   WindowConfig   `toml:"window"`
	Camera   CameraConfig   `toml:"camera"`
	Render   RenderConfig   `toml:"render"`
	Log      LogConfig      `toml:"log"`
	Profiler ProfilerConfig `toml:"profiler"`
}

// WindowConfig is the [window] table.
type WindowConfig struct {
	Title    string `toml:"title"`
	Width    int    `toml:"width"`
	Height   int    `toml:"height"`
	VSync    bool   `toml:"vsync"`
	CanvasID string `toml:"canvas_id"`
}

// CameraConfig is the [camera] table. Fov is in degrees; speeds are in radians per second.
type CameraConfig struct {
	Fov        float32 `toml:"fov"`
	Near       float32 `toml:"near"`
	Far        float32 `toml:"far"`
	Radius     float32 `toml:"radius"`
	OrbitSpeed float32 `toml:"orbit_speed"`
	AutoRotate float32 `toml:"auto_rotate"`
}

// RenderConfig is the [render] table. PureColor overrides the color of the pure color shading
// when set.
type RenderConfig struct {
	ClearColor [4]float32  `toml:"clear_color"`
	PureColor  *[4]float32 `toml:"pure_color"`
	Culling    bool        `toml:"culling"`
}

// LogConfig is the [log] table.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// ProfilerConfig is the [profiler] table.
type ProfilerConfig struct {
	Enabled    bool `toml:"enabled"`
	IntervalMS int  `toml:"interval_ms"`
}

var validLogFormats = []string{"text", "json"}

// Default returns the settings used for every key the file leaves out.
//
// Returns:
//   - Config: the default configuration
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:    "oxy-gl",
			Width:    1280,
			Height:   720,
			VSync:    true,
			CanvasID: "oxy-canvas",
		},
		Camera: CameraConfig{
			Fov:        45,
			Near:       0.1,
			Far:        100,
			Radius:     5,
			OrbitSpeed: 0.03,
		},
		Render: RenderConfig{
			ClearColor: [4]float32{0.1, 0.1, 0.12, 1},
			Culling:    true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Profiler: ProfilerConfig{
			IntervalMS: 1000,
		},
	}
}

// Load reads and parses a configuration file.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - Config: the configuration
//   - error: error if the file cannot be read, parsed or validated
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: failed to read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%w (in %s)", err, path)
	}
	return cfg, nil
}

// Parse decodes TOML on top of Default and validates the result.
//
// Parameters:
//   - data: the TOML document
//
// Returns:
//   - Config: the configuration
//   - error: a decode error, an unknown key, or an invalid value
func Parse(data []byte) (Config, error) {
	return Decode(bytes.NewReader(data))
}

// Decode is Parse for a stream.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("config: unknown keys:\n%s", strict.String())
		}
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return Config{}, fmt.Errorf("config: line %d column %d: %w", row, col, err)
		}
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
//
// Returns:
//   - error: all problems found, joined, or nil
func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Camera.Fov <= 0 || c.Camera.Fov >= 180 {
		errs = append(errs, fmt.Errorf("camera fov must be in (0, 180) degrees, got %g", c.Camera.Fov))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("camera clip range must satisfy 0 < near < far, got %g..%g", c.Camera.Near, c.Camera.Far))
	}
	if c.Camera.Radius <= 0 {
		errs = append(errs, fmt.Errorf("camera radius must be positive, got %g", c.Camera.Radius))
	}
	if err := checkColor("render clear_color", c.Render.ClearColor); err != nil {
		errs = append(errs, err)
	}
	if c.Render.PureColor != nil {
		if err := checkColor("render pure_color", *c.Render.PureColor); err != nil {
			errs = append(errs, err)
		}
	}
	if _, err := c.Log.level(); err != nil {
		errs = append(errs, err)
	}
	if !slices.Contains(validLogFormats, strings.ToLower(c.Log.Format)) {
		errs = append(errs, fmt.Errorf("log format must be one of %v, got %q", validLogFormats, c.Log.Format))
	}
	if c.Profiler.IntervalMS <= 0 {
		errs = append(errs, fmt.Errorf("profiler interval_ms must be positive, got %d", c.Profiler.IntervalMS))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("config: invalid values: %w", errors.Join(errs...))
}

func checkColor(name string, color [4]float32) error {
	for _, c := range color {
		if c < 0 || c > 1 || math32.IsNaN(c) {
			return fmt.Errorf("%s components must be in [0, 1], got %v", name, color)
		}
	}
	return nil
}

// CameraOptions returns the camera options of the [camera] table.
func (c Config) CameraOptions() []camera.CameraBuilderOption {
	return []camera.CameraBuilderOption{
		camera.WithFov(c.Camera.Fov * math32.Pi / 180),
		camera.WithNear(c.Camera.Near),
		camera.WithFar(c.Camera.Far),
		camera.WithAspect(float32(c.Window.Width) / float32(c.Window.Height)),
	}
}

// ControllerOptions returns the orbit controller options of the [camera] table.
func (c Config) ControllerOptions() []camera.CameraControllerOption {
	return []camera.CameraControllerOption{
		camera.WithRadius(c.Camera.Radius),
		camera.WithOrbitSpeed(c.Camera.OrbitSpeed),
		camera.WithAutoRotate(c.Camera.AutoRotate),
	}
}

// Registry builds the shading registry, applying [render] pure_color when set.
//
// Returns:
//   - shading.Registry: the registry
//   - error: error if a shading descriptor cannot be built
func (c Config) Registry() (shading.Registry, error) {
	var opts []shading.RegistryBuilderOption
	if c.Render.PureColor != nil {
		opts = append(opts, shading.WithKindOptions(shading.KindPureColor, shading.WithColor(*c.Render.PureColor)))
	}
	return shading.NewRegistry(opts...)
}

// RendererOptions returns the renderer options of the [render] table, including the registry.
//
// Parameters:
//   - logger: the logger the renderer reports to
//
// Returns:
//   - []renderer.RendererBuilderOption: the options
//   - error: error if the registry cannot be built
func (c Config) RendererOptions(logger *slog.Logger) ([]renderer.RendererBuilderOption, error) {
	registry, err := c.Registry()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return []renderer.RendererBuilderOption{
		renderer.WithRegistry(registry),
		renderer.WithClearColor(c.Render.ClearColor),
		renderer.WithLogger(logger),
	}, nil
}

// Title returns the window title, falling back to the default for an empty value.
func (c Config) Title() string {
	if c.Window.Title == "" {
		return Default().Window.Title
	}
	return c.Window.Title
}
