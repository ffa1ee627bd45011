package core

import (
	"math"

	"github.com/gekko3d/orrery"

	"github.com/go-gl/mathgl/mgl32"
)

// Orbit is a kinematic circular orbit about a parent body. Angles are
// radians; AngularSpeed is radians per simulated second.
type Orbit struct {
	Parent       *PhysicsBody
	Radius       float64
	AngularSpeed float64
	Angle        float64
	Inclination  float64
}

// Offset is the position relative to the parent, in the XZ plane tilted about
// X by Inclination.
func (o *Orbit) Offset() HighPVec3 {
	x := o.Radius * math.Cos(o.Angle)
	flat := -o.Radius * math.Sin(o.Angle)
	return HighPVec3{x, flat * math.Sin(o.Inclination), flat * math.Cos(o.Inclination)}
}

// PhysicsBody is a simulated body. Position and Rotation are the source of
// truth; the renderable's interpolated position and rotation are written only
// by Commit, as their narrowed projection.
type PhysicsBody struct {
	Name       string
	Renderable *Renderable
	Position   HighPVec3
	Rotation   HighPVec3 // Euler radians, Y-X-Z
	// Mass is carried for a future gravity step; nothing reads it yet.
	Mass     float64
	SpinRate float64 // radians per simulated second about Y
	Orbit    *Orbit

	scaleFactor float64
}

func NewPhysicsBody(name string, r *Renderable, position, rotation HighPVec3, mass, scaleFactor float64) (*PhysicsBody, error) {
	if r == nil {
		return nil, orrery.InvalidArgumentf("body %q has no renderable", name)
	}
	if mass < 0 || math.IsNaN(mass) {
		return nil, orrery.InvalidArgumentf("body %q mass %v must be >= 0", name, mass)
	}
	if err := checkScaleFactor(scaleFactor); err != nil {
		return nil, err
	}

	b := &PhysicsBody{
		Name:        name,
		Renderable:  r,
		Position:    position,
		Rotation:    rotation,
		Mass:        mass,
		scaleFactor: scaleFactor,
	}
	b.Teleport(position, rotation)
	return b, nil
}

func (b *PhysicsBody) ScaleFactor() float64 {
	return b.scaleFactor
}

// Teleport replaces the state without interpolating from the old one.
func (b *PhysicsBody) Teleport(position, rotation HighPVec3) {
	b.Position = position
	b.Rotation = rotation
	b.Renderable.Position.Reset(MustNarrow(position, b.scaleFactor))
	b.Renderable.Rotation.Reset(MustNarrow(rotation, 1))
}

func (b *PhysicsBody) translate(delta HighPVec3) {
	b.Position = b.Position.Add(delta)
}

func (b *PhysicsBody) rotate(delta HighPVec3) {
	b.Rotation = b.Rotation.Add(delta)
}

// Integrate advances orbit and spin by dt simulated seconds. Parents must be
// integrated before their children within a step.
func (b *PhysicsBody) Integrate(dt float64) {
	if o := b.Orbit; o != nil {
		o.Angle = math.Mod(o.Angle+o.AngularSpeed*dt, 2*math.Pi)
		center := HighPVec3{}
		if o.Parent != nil {
			center = o.Parent.Position
		}
		b.Position = center.Add(o.Offset())
	}
	if b.SpinRate != 0 {
		b.Rotation[1] = math.Mod(b.Rotation[1]+b.SpinRate*dt, 2*math.Pi)
	}
}

// Commit pushes the narrowed state into the renderable. It advances every
// interpolated field exactly once and must run once per simulation step.
// Rotation samples are unwrapped first, so after a wrap Rotation.Previous is
// the old Current shifted by 2π (the same angle, not the same value).
func (b *PhysicsBody) Commit() {
	r := b.Renderable
	rot := MustNarrow(b.Rotation, 1)

	// Angles wrap in Integrate; shift the outgoing sample by a full turn so
	// the blend takes the short way round.
	cur := r.Rotation.Current
	for i := range rot {
		d := rot[i] - cur[i]
		if d > math.Pi {
			cur[i] += 2 * math.Pi
		} else if d < -math.Pi {
			cur[i] -= 2 * math.Pi
		}
	}
	r.Rotation.Current = cur

	r.Position.Advance(MustNarrow(b.Position, b.scaleFactor))
	r.Rotation.Advance(rot)
	r.Scale.Advance(r.Scale.Current)
}

// RenderPosition is the blended render space position.
func (b *PhysicsBody) RenderPosition(alpha float32) mgl32.Vec3 {
	return b.Renderable.Position.Blend(alpha)
}
