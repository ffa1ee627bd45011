package app

import (
	"github.com/gekko3d/orrery"
	"github.com/gekko3d/orrery/orreryrt/rt/core"
	"github.com/gekko3d/orrery/orreryrt/rt/loop"
)

// MinTimeScale and MaxTimeScale bound the =/- time controls.
const (
	MinTimeScale = 1.0
	MaxTimeScale = 1e9
)

// Controls maps keys to scene time controls: space pauses, = and - double and
// halve the time scale, F3 toggles debug logging. Escape is left to the loop.
type Controls struct {
	Scene *core.Scene
	Log   orrery.Logger

	paused      bool
	resumeScale float64
}

func NewControls(scene *core.Scene, log orrery.Logger) *Controls {
	return &Controls{Scene: scene, Log: orrery.LoggerOrNop(log)}
}

func (c *Controls) Paused() bool {
	return c.paused
}

func (c *Controls) HandleKey(ev loop.KeyEvent) {
	if ev.Action == loop.Release {
		return
	}
	switch ev.Key {
	case loop.KeySpace:
		if ev.Action != loop.Press {
			return
		}
		if c.paused {
			c.Scene.TimeScale = c.resumeScale
		} else {
			c.resumeScale = c.Scene.TimeScale
			c.Scene.TimeScale = 0
		}
		c.paused = !c.paused
		c.Log.Infof("paused=%v", c.paused)
	case loop.KeyEqual:
		c.scaleTime(2)
	case loop.KeyMinus:
		c.scaleTime(0.5)
	case loop.KeyF3:
		if ev.Action == loop.Press {
			c.Log.SetDebug(!c.Log.DebugEnabled())
		}
	}
}

func (c *Controls) scaleTime(k float64) {
	target := &c.Scene.TimeScale
	if c.paused {
		target = &c.resumeScale
	}
	v := *target * k
	if v < MinTimeScale {
		v = MinTimeScale
	}
	if v > MaxTimeScale {
		v = MaxTimeScale
	}
	*target = v
	c.Log.Infof("time scale %.0fx", v)
}

type inputTap struct {
	loop.Platform
	handle func(loop.KeyEvent)
}

// WithInput returns p with every polled event also passed to handle.
func WithInput(p loop.Platform, handle func(loop.KeyEvent)) loop.Platform {
	return &inputTap{Platform: p, handle: handle}
}

func (t *inputTap) PollEvents() []loop.KeyEvent {
	events := t.Platform.PollEvents()
	for _, ev := range events {
		t.handle(ev)
	}
	return events
}
