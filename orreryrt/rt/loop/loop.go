package loop

import (
	"math"

	"github.com/gekko3d/orrery"
)

const (
	DefaultTickRate = 50.0
	// DefaultMaxFrameTime bounds catch-up steps after a stall (debugger,
	// window drag).
	DefaultMaxFrameTime = 0.25
)

// Platform is the window/context collaborator the loop polls once per
// iteration.
type Platform interface {
	// Now is a monotonic clock in seconds.
	Now() float64
	ShouldClose() bool
	// PollEvents may return zero or many events.
	PollEvents() []KeyEvent
	SwapBuffers()
}

type Simulation interface {
	Step(dt float64)
}

type Renderer interface {
	Render(alpha float32) error
}

type SimulationFunc func(dt float64)

func (f SimulationFunc) Step(dt float64) { f(dt) }

type RendererFunc func(alpha float32) error

func (f RendererFunc) Render(alpha float32) error { return f(alpha) }

type Stats struct {
	Frames        uint64
	Steps         uint64
	LastSteps     int
	LastAlpha     float64
	LastFrameTime float64
}

// Driver runs a fixed timestep simulation under a variable rate renderer.
type Driver struct {
	tickRate     float64
	dt           float64
	maxFrameTime float64

	accumulator float64
	stopped     bool
	stats       Stats
}

func NewDriver(tickRate float64) (*Driver, error) {
	return NewDriverWithClamp(tickRate, DefaultMaxFrameTime)
}

func NewDriverWithClamp(tickRate, maxFrameTime float64) (*Driver, error) {
	if !(tickRate > 0) || math.IsInf(tickRate, 0) {
		return nil, orrery.InvalidArgumentf("tick rate %v must be > 0", tickRate)
	}
	if !(maxFrameTime > 0) {
		return nil, orrery.InvalidArgumentf("max frame time %v must be > 0", maxFrameTime)
	}
	return &Driver{
		tickRate:     tickRate,
		dt:           1 / tickRate,
		maxFrameTime: maxFrameTime,
	}, nil
}

func (d *Driver) TickRate() float64     { return d.tickRate }
func (d *Driver) StepSize() float64     { return d.dt }
func (d *Driver) MaxFrameTime() float64 { return d.maxFrameTime }
func (d *Driver) Accumulator() float64  { return d.accumulator }
func (d *Driver) Stats() Stats          { return d.stats }

// Stop ends Run before its next iteration. A step or render in progress
// always completes.
func (d *Driver) Stop()         { d.stopped = true }
func (d *Driver) Stopped() bool { return d.stopped }

// Advance feeds one frame of wall time. It runs every whole step now due and
// returns how many ran plus the interpolation alpha for rendering, which is
// in [0,1) by construction.
func (d *Driver) Advance(frameTime float64, sim Simulation) (steps int, alpha float64) {
	if frameTime < 0 || math.IsNaN(frameTime) {
		frameTime = 0
	}
	if frameTime > d.maxFrameTime {
		frameTime = d.maxFrameTime
	}

	d.accumulator += frameTime
	for d.accumulator >= d.dt {
		sim.Step(d.dt)
		d.accumulator -= d.dt
		steps++
	}
	alpha = d.accumulator / d.dt

	d.stats.Frames++
	d.stats.Steps += uint64(steps)
	d.stats.LastSteps = steps
	d.stats.LastAlpha = alpha
	d.stats.LastFrameTime = frameTime
	return steps, alpha
}

// Run loops until the platform reports close, an escape press arrives, Stop
// is called, or rendering fails. The render error is returned.
func (d *Driver) Run(p Platform, sim Simulation, r Renderer) error {
	prev := p.Now()
	for !d.stopped && !p.ShouldClose() {
		now := p.Now()
		frameTime := now - prev
		prev = now

		_, alpha := d.Advance(frameTime, sim)
		if err := r.Render(float32(alpha)); err != nil {
			return err
		}
		p.SwapBuffers()

		for _, ev := range p.PollEvents() {
			if ev.IsEscapePress() {
				d.Stop()
			}
		}
	}
	return nil
}
