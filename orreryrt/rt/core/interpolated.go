package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// InterpolatedVec3 keeps the value of a quantity at the last two simulation
// steps. Rendering blends between them, so it only ever spans one step.
// For rotations Previous may differ from the last Current by whole turns;
// see PhysicsBody.Commit.
type InterpolatedVec3 struct {
	Current  mgl32.Vec3
	Previous mgl32.Vec3
}

func NewInterpolatedVec3(v mgl32.Vec3) InterpolatedVec3 {
	return InterpolatedVec3{Current: v, Previous: v}
}

// Advance must be called at most once per simulation step.
func (s *InterpolatedVec3) Advance(next mgl32.Vec3) {
	s.Previous = s.Current
	s.Current = next
}

// Reset moves both samples, so the next render does not sweep across a jump.
func (s *InterpolatedVec3) Reset(v mgl32.Vec3) {
	s.Previous = v
	s.Current = v
}

// Blend returns Previous*(1-alpha) + Current*alpha. Alpha is not clamped;
// values outside [0,1] extrapolate along the same line.
func (s InterpolatedVec3) Blend(alpha float32) mgl32.Vec3 {
	inv := 1 - alpha
	return mgl32.Vec3{
		s.Previous[0]*inv + s.Current[0]*alpha,
		s.Previous[1]*inv + s.Current[1]*alpha,
		s.Previous[2]*inv + s.Current[2]*alpha,
	}
}

// delta is the change covered by the last Advance.
func (s InterpolatedVec3) delta() mgl32.Vec3 {
	return s.Current.Sub(s.Previous)
}
