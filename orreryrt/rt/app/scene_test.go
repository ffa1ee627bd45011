package app

import (
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gekko3d/orrery"
	"github.com/gekko3d/orrery/orreryrt/rt/assets"
	"github.com/gekko3d/orrery/orreryrt/rt/core"
	"github.com/gekko3d/orrery/orreryrt/rt/mesh"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func parse(t *testing.T, doc string) *orrery.Config {
	t.Helper()
	cfg, err := orrery.ParseConfig(strings.NewReader(doc))
	require.NoError(t, err)
	return cfg
}

func TestBuildScene_Default(t *testing.T) {
	cfg, err := orrery.DefaultSceneConfig()
	require.NoError(t, err)

	scene, err := BuildScene(cfg, assets.NewLibrary(), nil)
	require.NoError(t, err)

	require.Len(t, scene.Bodies, len(cfg.Bodies))
	assert.Equal(t, cfg.Simulation.TimeScale, scene.TimeScale)
	// sun 48x96, moon 16x32, the rest share 32x64.
	assert.Len(t, scene.Meshes(), 3)

	sun := scene.Body("sun")
	require.NotNil(t, sun)
	assert.True(t, sun.Renderable.Emissive)
	assert.InDelta(t, 69.634, sun.Renderable.Scale.Current.X(), 1e-3)

	earth := scene.Body("earth")
	require.NotNil(t, earth)
	assert.Same(t, sun, earth.Orbit.Parent)
	assert.InDelta(t, 1.496e8, earth.Position.Sub(sun.Position).Len(), 1)
	assert.InDelta(t, 2*math.Pi/86164, earth.SpinRate, 1e-12)
	assert.Same(t, scene.Body("mars").Renderable.Mesh, earth.Renderable.Mesh)
	assert.Equal(t, core.MustNarrow(earth.Position, cfg.Simulation.ScaleFactor), earth.Renderable.Position.Current)

	moon := scene.Body("moon")
	assert.InDelta(t, 4.5e6, moon.Position.Sub(earth.Position).Len(), 1)
}

func TestBuildScene_ParentAfterChildInFile(t *testing.T) {
	cfg := parse(t, `
bodies:
  - name: moon
    radius: 1
    orbit: {parent: planet, radius: 100, period: 10}
  - name: planet
    radius: 5
    orbit: {parent: star, radius: 10000, period: 100, phase: 90}
  - name: star
    radius: 50
`)
	scene, err := BuildScene(cfg, nil, nil)
	require.NoError(t, err)

	names := make([]string, 0, len(scene.Bodies))
	for _, b := range scene.Bodies {
		names = append(names, b.Name)
	}
	assert.Equal(t, []string{"star", "planet", "moon"}, names)

	planet := scene.Body("planet")
	assert.InDelta(t, math.Pi/2, planet.Orbit.Angle, 1e-12)
	assert.InDelta(t, -10000, planet.Position.Z(), 1e-9)
	assert.InDelta(t, 2*math.Pi/100, planet.Orbit.AngularSpeed, 1e-12)
}

func TestBuildScene_MissingTextureFallsBack(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "earth.png")
	cfg := parse(t, `
bodies:
  - name: earth
    radius: 6371
    texture: `+missing+`
`)
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	zc, logs := observer.New(level)

	scene, err := BuildScene(cfg, assets.NewLibrary(), orrery.NewLoggerFromCore(zc, level))
	require.NoError(t, err)

	assert.False(t, scene.Body("earth").Renderable.Textured())
	warnings := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "earth")
}

func TestBuildScene_MeshResolution(t *testing.T) {
	cfg := parse(t, `
bodies:
  - name: a
    radius: 1
    stacks: 5
    sectors: 7
`)
	scene, err := BuildScene(cfg, nil, nil)
	require.NoError(t, err)
	m := scene.Body("a").Renderable.Mesh
	assert.Equal(t, mesh.ExpectedVertexCount(5, 7), m.VertexCount())
	assert.Equal(t, mesh.ExpectedElementCount(5, 7), m.ElementCount())
}

func TestLightPosition(t *testing.T) {
	cfg := parse(t, `
simulation: {scale_factor: 1}
bodies:
  - name: rock
    radius: 1
    position: [5, 0, 0]
  - name: star
    radius: 1
    emissive: true
    position: [0, 7, 0]
`)
	scene, err := BuildScene(cfg, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec4{0, 7, 0, 1}, LightPosition(scene, 0.5))

	scene.Body("star").Renderable.Emissive = false
	assert.Equal(t, mgl32.Vec4{0, 0, 0, 1}, LightPosition(scene, 0.5))
}
