package mesh

import "fmt"

type DrawMode int

const (
	DrawModeTriangles DrawMode = iota
	DrawModeLines
	DrawModePoints
)

func (m DrawMode) String() string {
	switch m {
	case DrawModeTriangles:
		return "triangles"
	case DrawModeLines:
		return "lines"
	case DrawModePoints:
		return "points"
	default:
		return fmt.Sprintf("DrawMode(%d)", int(m))
	}
}

// Vertex tags describe the GPU vertex layout; the gpu package builds its
// buffer layout from them.
type Vertex struct {
	Position [3]float32 `orrery:"layout" location:"0" format:"float3"`
	Normal   [3]float32 `orrery:"layout" location:"1" format:"float3"`
	UV       [2]float32 `orrery:"layout" location:"2" format:"float2"`
}

// Mesh is CPU side geometry. It is immutable once built; changing it means
// building a new Mesh and re-uploading.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	DrawMode DrawMode
}

func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

func (m *Mesh) ElementCount() int {
	return len(m.Indices)
}

func (m *Mesh) String() string {
	return fmt.Sprintf("mesh(%s, %d vertices, %d elements)", m.DrawMode, m.VertexCount(), m.ElementCount())
}
