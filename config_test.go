package orrery

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSceneConfig(t *testing.T) {
	cfg, err := DefaultSceneConfig()
	require.NoError(t, err)

	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 600, cfg.Window.Height)
	assert.Equal(t, 50.0, cfg.Simulation.TickRate)
	assert.Equal(t, 0.25, cfg.Simulation.MaxFrameTime)
	assert.Equal(t, 10000.0, cfg.Simulation.ScaleFactor)
	require.NotEmpty(t, cfg.Bodies)
	assert.Equal(t, "sun", cfg.Bodies[0].Name)
	assert.True(t, cfg.Bodies[0].Emissive)

	moon := cfg.Bodies[cfg.BodyIndex("moon")]
	require.NotNil(t, moon.Orbit)
	assert.Equal(t, "earth", moon.Orbit.Parent)
	assert.Equal(t, 16, moon.Stacks)
}

func TestParseConfig_AppliesBodyDefaults(t *testing.T) {
	cfg, err := ParseConfig(strings.NewReader(`
bodies:
  - name: rock
    radius: 10
`))
	require.NoError(t, err)
	require.Len(t, cfg.Bodies, 1)

	b := cfg.Bodies[0]
	assert.Equal(t, DefaultStacks, b.Stacks)
	assert.Equal(t, DefaultSectors, b.Sectors)
	assert.Equal(t, 1.0, b.DisplayScale)
	assert.Equal(t, [4]float32{1, 1, 1, 1}, b.Color)
	// Sections not in the file keep DefaultConfig values.
	assert.Equal(t, DefaultTickRate, cfg.Simulation.TickRate)
}

func TestParseConfig_Empty(t *testing.T) {
	cfg, err := ParseConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Window, cfg.Window)
	assert.Empty(t, cfg.Bodies)
}

func TestParseConfig_UnknownField(t *testing.T) {
	_, err := ParseConfig(strings.NewReader("window:\n  colour: red\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrResourceUnavailable))
}

func TestParseConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"zero tick rate":    "simulation: {tick_rate: 0}",
		"scale below one":   "simulation: {scale_factor: 0.5}",
		"bad clip planes":   "camera: {near: 10, far: 5}",
		"fov out of range":  "camera: {fov_degrees: 180}",
		"bad log level":     "log: {level: trace}",
		"zero radius":       "bodies: [{name: a, radius: 0}]",
		"too few stacks":    "bodies: [{name: a, radius: 1, stacks: 2}]",
		"too few sectors":   "bodies: [{name: a, radius: 1, sectors: 1}]",
		"negative mass":     "bodies: [{name: a, radius: 1, mass: -1}]",
		"duplicate name":    "bodies: [{name: a, radius: 1}, {name: a, radius: 2}]",
		"unknown parent":    "bodies: [{name: a, radius: 1, orbit: {parent: b, radius: 1, period: 1}}]",
		"self orbit":        "bodies: [{name: a, radius: 1, orbit: {parent: a, radius: 1, period: 1}}]",
		"zero period":       "bodies: [{name: a, radius: 1}, {name: b, radius: 1, orbit: {parent: a, radius: 1}}]",
		"bad wrap mode":     "bodies: [{name: a, radius: 1, sampler: {wrap_u: tile}}]",
		"bad filter mode":   "bodies: [{name: a, radius: 1, sampler: {min_filter: cubic}}]",
		"orbit cycle":       "bodies: [{name: a, radius: 1, orbit: {parent: b, radius: 1, period: 1}}, {name: b, radius: 1, orbit: {parent: a, radius: 1, period: 1}}]",
		"nameless body":     "bodies: [{radius: 1}]",
		"zero window width": "window: {width: 0}",
		"inf radius":        "bodies: [{name: a, radius: .inf}]",
		"inf display scale": "bodies: [{name: a, radius: 1, display_scale: .inf}]",
		"inf orbit radius":  "bodies: [{name: a, radius: 1}, {name: b, radius: 1, orbit: {parent: a, radius: .inf, period: 1}}]",
		"eye on target":     "camera: {position: [0, 0, 0], target: [0, 0, 0]}",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig(strings.NewReader(doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidArgument), "got %v", err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window: {title: test}\nbodies: [{name: a, radius: 3}]\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Window.Title)
	assert.Equal(t, 0, cfg.BodyIndex("a"))
	assert.Equal(t, -1, cfg.BodyIndex("b"))
}

func TestLoadConfig_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")
	_, err := LoadConfig(path)
	require.Error(t, err)

	var re *ResourceError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, ResourceConfig, re.Kind)
	assert.Equal(t, path, re.Name)
	assert.NotEmpty(t, re.Diagnostic)
}

func TestLoadConfig_BadYAMLNamesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window: [\n"), 0o644))

	_, err := LoadConfig(path)
	var re *ResourceError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, path, re.Name)
}
