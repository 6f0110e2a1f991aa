package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shading"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[window]
title = "cube"
width = 800
height = 600

[camera]
fov = 60.0
radius = 3.5
auto_rotate = 0.25

[render]
clear_color = [0.0, 0.0, 0.0, 1.0]
pure_color = [1.0, 0.5, 0.0, 1.0]

[log]
level = "debug"
format = "json"

[profiler]
enabled = true
`

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "cube", cfg.Window.Title)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.True(t, cfg.Window.VSync, "keys left out keep their defaults")
	assert.Equal(t, float32(60), cfg.Camera.Fov)
	assert.Equal(t, float32(0.1), cfg.Camera.Near)
	assert.Equal(t, [4]float32{0, 0, 0, 1}, cfg.Render.ClearColor)
	require.NotNil(t, cfg.Render.PureColor)
	assert.Equal(t, [4]float32{1, 0.5, 0, 1}, *cfg.Render.PureColor)
	assert.True(t, cfg.Profiler.Enabled)
	assert.Equal(t, 1000, cfg.Profiler.IntervalMS)
}

func TestParseEmptyIsDefault(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, Default().Validate())
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("[window]\ntitel = \"typo\"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown keys")
	assert.Contains(t, err.Error(), "titel")
}

func TestParseRejectsMalformedTOML(t *testing.T) {
	_, err := Parse([]byte("[window\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }, "window size"},
		{"fov too wide", func(c *Config) { c.Camera.Fov = 180 }, "camera fov"},
		{"far before near", func(c *Config) { c.Camera.Far = 0.05 }, "clip range"},
		{"zero radius", func(c *Config) { c.Camera.Radius = 0 }, "camera radius"},
		{"clear color out of range", func(c *Config) { c.Render.ClearColor[0] = 2 }, "clear_color"},
		{"pure color nan", func(c *Config) { c.Render.PureColor = &[4]float32{math32.NaN(), 0, 0, 1} }, "pure_color"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log format"},
		{"zero interval", func(c *Config) { c.Profiler.IntervalMS = 0 }, "interval_ms"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oxy.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "cube", cfg.Title())

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestTitleFallsBackToDefault(t *testing.T) {
	cfg := Default()
	cfg.Window.Title = ""
	assert.Equal(t, Default().Window.Title, cfg.Title())
}

func TestCameraOptions(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	ctrl := camera.NewOrbitController(cfg.ControllerOptions()...)
	cam := camera.NewCamera(append(cfg.CameraOptions(), camera.WithController(ctrl))...)

	assert.InDelta(t, math32.Pi/3, cam.Fov(), 1e-6)
	assert.InDelta(t, 800.0/600.0, cam.Aspect(), 1e-6)
	assert.Equal(t, float32(3.5), ctrl.Radius())
	assert.Equal(t, float32(0.25), ctrl.AutoRotate())
}

func TestRegistryAppliesPureColor(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	registry, err := cfg.Registry()
	require.NoError(t, err)
	s, ok := registry.Shading(shading.KindPureColor)
	require.True(t, ok)
	assert.Contains(t, s.FragmentSource(), "#define PURE_COLOR vec4(1.0, 0.5, 0.0, 1.0)")

	opts, err := cfg.RendererOptions(nil)
	require.NoError(t, err)
	assert.Len(t, opts, 3)
}

func TestNewLogger(t *testing.T) {
	var out bytes.Buffer
	cfg := Default()
	cfg.Log.Level = "warn"
	logger := cfg.NewLogger(&out)

	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "msg=shown")

	out.Reset()
	cfg.Log.Format = "json"
	cfg.NewLogger(&out).Warn("json")
	assert.Contains(t, out.String(), `"msg":"json"`)
}
