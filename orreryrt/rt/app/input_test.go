package app

import (
	"testing"

	"github.com/gekko3d/orrery"
	"github.com/gekko3d/orrery/orreryrt/rt/core"
	"github.com/gekko3d/orrery/orreryrt/rt/loop"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newControls(t *testing.T, timeScale float64) (*Controls, *orrery.DefaultLogger) {
	t.Helper()
	cam, err := core.NewCamera(1, 1, 0.1, 10, core.HighPVec3{}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}, 1)
	require.NoError(t, err)
	scene, err := core.NewScene(cam, 1)
	require.NoError(t, err)
	scene.TimeScale = timeScale

	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	zc, _ := observer.New(level)
	log := orrery.NewLoggerFromCore(zc, level)
	return NewControls(scene, log), log
}

func press(k loop.Key) loop.KeyEvent { return loop.KeyEvent{Key: k, Action: loop.Press} }

func TestControls_Pause(t *testing.T) {
	c, _ := newControls(t, 100)

	c.HandleKey(press(loop.KeySpace))
	assert.True(t, c.Paused())
	assert.Zero(t, c.Scene.TimeScale)

	c.HandleKey(press(loop.KeyEqual)) // adjusts the resume value
	assert.Zero(t, c.Scene.TimeScale)

	c.HandleKey(loop.KeyEvent{Key: loop.KeySpace, Action: loop.Repeat})
	assert.True(t, c.Paused(), "held space does not toggle")

	c.HandleKey(press(loop.KeySpace))
	assert.False(t, c.Paused())
	assert.Equal(t, 200.0, c.Scene.TimeScale)
}

func TestControls_TimeScaleBounds(t *testing.T) {
	c, _ := newControls(t, 2)

	c.HandleKey(press(loop.KeyMinus))
	assert.Equal(t, 1.0, c.Scene.TimeScale)
	c.HandleKey(press(loop.KeyMinus))
	assert.Equal(t, MinTimeScale, c.Scene.TimeScale)

	c.Scene.TimeScale = MaxTimeScale
	c.HandleKey(loop.KeyEvent{Key: loop.KeyEqual, Action: loop.Repeat})
	assert.Equal(t, MaxTimeScale, c.Scene.TimeScale)

	c.HandleKey(loop.KeyEvent{Key: loop.KeyMinus, Action: loop.Release})
	assert.Equal(t, MaxTimeScale, c.Scene.TimeScale)
}

func TestControls_F3TogglesDebug(t *testing.T) {
	c, log := newControls(t, 1)
	c.HandleKey(press(loop.KeyF3))
	assert.True(t, log.DebugEnabled())
	c.HandleKey(press(loop.KeyF3))
	assert.False(t, log.DebugEnabled())
}

func TestWithInput_ForwardsAndKeepsEvents(t *testing.T) {
	clock := loop.NewSampleClock(0.02, 0.02, 0.02)
	clock.Events[0] = []loop.KeyEvent{press(loop.KeySpace)}
	clock.Events[1] = []loop.KeyEvent{press(loop.KeyEscape)}

	var seen []loop.KeyEvent
	p := WithInput(clock, func(ev loop.KeyEvent) { seen = append(seen, ev) })

	d, err := loop.NewDriver(50)
	require.NoError(t, err)
	frames := 0
	err = d.Run(p, loop.SimulationFunc(func(float64) {}), loop.RendererFunc(func(float32) error {
		frames++
		return nil
	}))
	require.NoError(t, err)

	assert.Equal(t, 2, frames, "escape still reaches the driver")
	assert.Equal(t, []loop.KeyEvent{press(loop.KeySpace), press(loop.KeyEscape)}, seen)
	assert.Equal(t, 2, clock.Swaps)
}
