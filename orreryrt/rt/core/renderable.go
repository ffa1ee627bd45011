package core

import (
	"github.com/gekko3d/orrery/orreryrt/rt/mesh"

	"github.com/go-gl/mathgl/mgl32"
)

// Renderable pairs geometry and an optional texture with an interpolated
// transform. The mesh may be shared by several renderables.
type Renderable struct {
	Mesh    *mesh.Mesh
	Texture AssetId // empty means untextured
	Color   mgl32.Vec4
	Pivot   mgl32.Vec3

	// Emissive bodies are drawn unlit and act as the scene light.
	Emissive bool

	Position InterpolatedVec3
	Rotation InterpolatedVec3
	Scale    InterpolatedVec3
}

func NewRenderable(m *mesh.Mesh) *Renderable {
	return &Renderable{
		Mesh:  m,
		Color: mgl32.Vec4{1, 1, 1, 1},
		Scale: NewInterpolatedVec3(mgl32.Vec3{1, 1, 1}),
	}
}

func (r *Renderable) Textured() bool {
	return r.Texture.Valid()
}

// TransformAt blends every interpolated component at alpha.
func (r *Renderable) TransformAt(alpha float32) Transform {
	return Transform{
		Position: r.Position.Blend(alpha),
		Pivot:    r.Pivot,
		Rotation: r.Rotation.Blend(alpha),
		Scale:    r.Scale.Blend(alpha),
	}
}

// ModelMatrix is rebuilt on every render call from the blended transform.
func (r *Renderable) ModelMatrix(alpha float32) mgl32.Mat4 {
	t := r.TransformAt(alpha)
	return t.Matrix()
}
