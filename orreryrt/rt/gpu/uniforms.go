package gpu

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type UniformKind int

const (
	UniformMat4 UniformKind = iota
	UniformVec4
	UniformInt
)

func (k UniformKind) size() int {
	switch k {
	case UniformMat4:
		return 64
	case UniformVec4:
		return 16
	default:
		return 4
	}
}

func (k UniformKind) align() int {
	if k == UniformInt {
		return 4
	}
	return 16
}

type UniformField struct {
	Name   string
	Kind   UniformKind
	Offset int
}

// UniformLayout maps names to byte offsets in a WGSL uniform struct, using
// the uniform address space alignment rules for mat4, vec4 and i32.
type UniformLayout struct {
	Fields []UniformField
	Size   int
	index  map[string]int
}

func NewUniformLayout(fields ...UniformField) *UniformLayout {
	l := &UniformLayout{index: make(map[string]int, len(fields))}
	offset := 0
	for _, f := range fields {
		a := f.Kind.align()
		offset = (offset + a - 1) / a * a
		f.Offset = offset
		offset += f.Kind.size()
		l.index[f.Name] = len(l.Fields)
		l.Fields = append(l.Fields, f)
	}
	l.Size = (offset + 15) / 16 * 16
	return l
}

func (l *UniformLayout) Lookup(name string) (UniformField, bool) {
	i, ok := l.index[name]
	if !ok {
		return UniformField{}, false
	}
	return l.Fields[i], true
}

// BodyUniforms matches the Uniforms struct in body.wgsl.
var BodyUniforms = NewUniformLayout(
	UniformField{Name: "u_view_proj", Kind: UniformMat4},
	UniformField{Name: "u_model", Kind: UniformMat4},
	UniformField{Name: "u_color", Kind: UniformVec4},
	UniformField{Name: "u_light_pos", Kind: UniformVec4},
	UniformField{Name: "u_textured", Kind: UniformInt},
	UniformField{Name: "u_emissive", Kind: UniformInt},
)

// UniformBlock is CPU side storage for one uniform buffer. Setting a name the
// layout does not contain, or with the wrong kind, is a no-op.
type UniformBlock struct {
	layout *UniformLayout
	data   []byte
	dirty  bool
}

func NewUniformBlock(layout *UniformLayout) *UniformBlock {
	return &UniformBlock{
		layout: layout,
		data:   make([]byte, layout.Size),
		dirty:  true,
	}
}

func (b *UniformBlock) field(name string, kind UniformKind) (int, bool) {
	f, ok := b.layout.Lookup(name)
	if !ok || f.Kind != kind {
		return 0, false
	}
	return f.Offset, true
}

func (b *UniformBlock) putFloats(offset int, vals []float32) {
	for i, v := range vals {
		binary.LittleEndian.PutUint32(b.data[offset+i*4:], math.Float32bits(v))
	}
	b.dirty = true
}

// SetMat4 writes m column-major, matching WGSL mat4x4<f32>.
func (b *UniformBlock) SetMat4(name string, m mgl32.Mat4) {
	if off, ok := b.field(name, UniformMat4); ok {
		b.putFloats(off, m[:])
	}
}

func (b *UniformBlock) SetVec4(name string, v mgl32.Vec4) {
	if off, ok := b.field(name, UniformVec4); ok {
		b.putFloats(off, v[:])
	}
}

func (b *UniformBlock) SetInt(name string, v int32) {
	if off, ok := b.field(name, UniformInt); ok {
		binary.LittleEndian.PutUint32(b.data[off:], uint32(v))
		b.dirty = true
	}
}

func (b *UniformBlock) Bytes() []byte {
	return b.data
}

func (b *UniformBlock) Dirty() bool {
	return b.dirty
}

func (b *UniformBlock) MarkClean() {
	b.dirty = false
}
