package core

import (
	"fmt"

	"github.com/gekko3d/orrery"
	"github.com/gekko3d/orrery/orreryrt/rt/mesh"
)

// Scene is the context handed to the simulation and render steps. It owns
// the camera and the bodies; bodies own their renderables.
type Scene struct {
	Camera      *Camera
	Bodies      []*PhysicsBody
	ScaleFactor float64
	// TimeScale converts a fixed step into simulated seconds.
	TimeScale float64

	SimTime float64
	Steps   uint64

	byName map[string]*PhysicsBody
}

func NewScene(camera *Camera, scaleFactor float64) (*Scene, error) {
	if camera == nil {
		return nil, orrery.InvalidArgumentf("scene needs a camera")
	}
	if err := checkScaleFactor(scaleFactor); err != nil {
		return nil, err
	}
	return &Scene{
		Camera:      camera,
		ScaleFactor: scaleFactor,
		TimeScale:   1,
		byName:      make(map[string]*PhysicsBody),
	}, nil
}

// AddBody appends b. An orbiting body's parent must already be in the scene,
// which keeps Bodies ordered parents first.
func (s *Scene) AddBody(b *PhysicsBody) error {
	if b == nil {
		return orrery.InvalidArgumentf("nil body")
	}
	if _, dup := s.byName[b.Name]; dup {
		return orrery.InvalidArgumentf("duplicate body %q", b.Name)
	}
	if b.Orbit != nil && b.Orbit.Parent != nil {
		if s.byName[b.Orbit.Parent.Name] != b.Orbit.Parent {
			return orrery.InvalidArgumentf("body %q added before its parent %q", b.Name, b.Orbit.Parent.Name)
		}
	}
	s.Bodies = append(s.Bodies, b)
	s.byName[b.Name] = b
	return nil
}

func (s *Scene) Body(name string) *PhysicsBody {
	return s.byName[name]
}

// Step runs one fixed simulation step of dt wall seconds.
func (s *Scene) Step(dt float64) {
	simDt := dt * s.TimeScale
	for _, b := range s.Bodies {
		b.Integrate(simDt)
	}
	for _, b := range s.Bodies {
		b.Commit()
	}
	s.Camera.MoveTo(s.Camera.Position)

	s.SimTime += simDt
	s.Steps++
}

func (s *Scene) Renderables() []*Renderable {
	out := make([]*Renderable, 0, len(s.Bodies))
	for _, b := range s.Bodies {
		out = append(out, b.Renderable)
	}
	return out
}

// Meshes lists each distinct mesh once, in first-use order.
func (s *Scene) Meshes() []*mesh.Mesh {
	seen := make(map[*mesh.Mesh]bool)
	var out []*mesh.Mesh
	for _, b := range s.Bodies {
		m := b.Renderable.Mesh
		if m == nil || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}

// Close drops the scene's references. GPU copies are released by their owner.
func (s *Scene) Close() {
	s.Bodies = nil
	s.byName = make(map[string]*PhysicsBody)
}

func (s *Scene) String() string {
	return fmt.Sprintf("scene(%d bodies, %d meshes, t=%.0fs)", len(s.Bodies), len(s.Meshes()), s.SimTime)
}
