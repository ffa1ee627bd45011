package mesh

import (
	"math"

	"github.com/gekko3d/orrery"
)

const (
	MinStacks  = 3
	MinSectors = 2
)

// BuildSphere tessellates a UV sphere centred on the origin with Y as the
// polar axis. Stack 0 is the north pole; sector angles run 0..2π.
func BuildSphere(radius float32, stacks, sectors int) (*Mesh, error) {
	if math.IsNaN(float64(radius)) || radius <= 0 {
		return nil, orrery.InvalidArgumentf("sphere radius %v must be > 0", radius)
	}
	if stacks < MinStacks {
		return nil, orrery.InvalidArgumentf("sphere stacks %d must be >= %d", stacks, MinStacks)
	}
	if sectors < MinSectors {
		return nil, orrery.InvalidArgumentf("sphere sectors %d must be >= %d", sectors, MinSectors)
	}

	m := &Mesh{
		Vertices: make([]Vertex, 0, (stacks+1)*(sectors+1)),
		Indices:  make([]uint32, 0, ExpectedElementCount(stacks, sectors)),
		DrawMode: DrawModeTriangles,
	}

	r := float64(radius)
	stackStep := math.Pi / float64(stacks)
	sectorStep := 2 * math.Pi / float64(sectors)

	for i := 0; i <= stacks; i++ {
		stackAngle := math.Pi/2 - float64(i)*stackStep
		ring := r * math.Cos(stackAngle)
		y := r * math.Sin(stackAngle)

		for j := 0; j <= sectors; j++ {
			sectorAngle := float64(j) * sectorStep
			x := ring * math.Cos(sectorAngle)
			z := -ring * math.Sin(sectorAngle)

			m.Vertices = append(m.Vertices, Vertex{
				Position: [3]float32{float32(x), float32(y), float32(z)},
				Normal:   [3]float32{float32(x / r), float32(y / r), float32(z / r)},
				UV:       [2]float32{float32(j) / float32(sectors), float32(i) / float32(stacks)},
			})
		}
	}

	// Quads touching a pole collapse to one triangle: skip the first
	// triangle on the top stack and the second on the bottom stack.
	for i := 0; i < stacks; i++ {
		k1 := uint32(i * (sectors + 1))
		k2 := k1 + uint32(sectors) + 1

		for j := 0; j < sectors; j, k1, k2 = j+1, k1+1, k2+1 {
			if i != 0 {
				m.Indices = append(m.Indices, k1, k2, k1+1)
			}
			if i != stacks-1 {
				m.Indices = append(m.Indices, k1+1, k2, k2+1)
			}
		}
	}

	return m, nil
}

// ExpectedElementCount is the index count BuildSphere produces: each of the
// sectors columns holds stacks-2 full quads plus two pole triangles.
// The form stacks*((sectors-2)*6 + 2*3) only agrees when stacks == sectors.
func ExpectedElementCount(stacks, sectors int) int {
	return sectors * ((stacks-2)*6 + 2*3)
}

// ExpectedVertexCount includes the duplicated seam column and pole rows.
func ExpectedVertexCount(stacks, sectors int) int {
	return (stacks + 1) * (sectors + 1)
}
