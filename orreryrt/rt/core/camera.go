package core

import (
	"github.com/gekko3d/orrery"

	"github.com/go-gl/mathgl/mgl32"
)

type Camera struct {
	FovY   float32 // radians
	Aspect float32
	Near   float32
	Far    float32

	Eye    InterpolatedVec3
	Target mgl32.Vec3
	Up     mgl32.Vec3

	// Position is the simulation space eye; Eye is its narrowed projection.
	Position    HighPVec3
	scaleFactor float64
}

func NewCamera(fovY, aspect, near, far float32, position HighPVec3, target, up mgl32.Vec3, scaleFactor float64) (*Camera, error) {
	if !(fovY > 0 && fovY < mgl32.DegToRad(180)) {
		return nil, orrery.InvalidArgumentf("camera fov %v out of range", fovY)
	}
	if !(aspect > 0) {
		return nil, orrery.InvalidArgumentf("camera aspect %v must be > 0", aspect)
	}
	if !(near > 0) || !(far > near) {
		return nil, orrery.InvalidArgumentf("camera clip planes near=%v far=%v", near, far)
	}
	eye, err := Narrow(position, scaleFactor)
	if err != nil {
		return nil, err
	}

	return &Camera{
		FovY:        fovY,
		Aspect:      aspect,
		Near:        near,
		Far:         far,
		Eye:         NewInterpolatedVec3(eye),
		Target:      target,
		Up:          up,
		Position:    position,
		scaleFactor: scaleFactor,
	}, nil
}

// SetAspect follows a framebuffer resize. Zero sizes (minimised windows) are
// ignored.
func (c *Camera) SetAspect(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

// MoveTo sets the simulation position and advances Eye. Call at most once per
// simulation step.
func (c *Camera) MoveTo(position HighPVec3) {
	c.Position = position
	c.Eye.Advance(MustNarrow(position, c.scaleFactor))
}

func (c *Camera) View(alpha float32) mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye.Blend(alpha), c.Target, c.Up)
}

func (c *Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(c.FovY, c.Aspect, c.Near, c.Far)
}

func (c *Camera) ViewProjection(alpha float32) mgl32.Mat4 {
	return c.Projection().Mul4(c.View(alpha))
}
