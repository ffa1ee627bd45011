package gpu

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/gekko3d/orrery/orreryrt/rt/assets"
	"github.com/gekko3d/orrery/orreryrt/rt/mesh"

	"github.com/cogentcore/webgpu/wgpu"
)

func parseFormat(name string) (wgpu.VertexFormat, error) {
	switch name {
	case "float2":
		return wgpu.VertexFormatFloat32x2, nil
	case "float3":
		return wgpu.VertexFormatFloat32x3, nil
	case "float4":
		return wgpu.VertexFormatFloat32x4, nil
	default:
		return 0, fmt.Errorf("unsupported vertex layout format: %s", name)
	}
}

// vertexBufferLayout reads `orrery:"layout"` tagged fields of a vertex struct.
func vertexBufferLayout(vertexType any) (wgpu.VertexBufferLayout, error) {
	t := reflect.TypeOf(vertexType)
	if t.Kind() != reflect.Struct {
		return wgpu.VertexBufferLayout{}, fmt.Errorf("vertex must be a struct, got %s", t.Kind())
	}

	var attributes []wgpu.VertexAttribute
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Tag.Get("orrery") != "layout" {
			continue
		}
		format, err := parseFormat(field.Tag.Get("format"))
		if err != nil {
			return wgpu.VertexBufferLayout{}, err
		}
		location, err := strconv.Atoi(field.Tag.Get("location"))
		if err != nil {
			return wgpu.VertexBufferLayout{}, fmt.Errorf("field %s location: %w", field.Name, err)
		}
		attributes = append(attributes, wgpu.VertexAttribute{
			ShaderLocation: uint32(location),
			Offset:         uint64(field.Offset),
			Format:         format,
		})
	}

	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(t.Size()),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  attributes,
	}, nil
}

func topology(mode mesh.DrawMode) (wgpu.PrimitiveTopology, error) {
	switch mode {
	case mesh.DrawModeTriangles:
		return wgpu.PrimitiveTopologyTriangleList, nil
	case mesh.DrawModeLines:
		return wgpu.PrimitiveTopologyLineList, nil
	case mesh.DrawModePoints:
		return wgpu.PrimitiveTopologyPointList, nil
	default:
		return 0, fmt.Errorf("unsupported draw mode %v", mode)
	}
}

func wrapMode(mode assets.WrapMode) wgpu.AddressMode {
	switch mode {
	case assets.WrapMirror:
		return wgpu.AddressModeMirrorRepeat
	case assets.WrapClamp:
		return wgpu.AddressModeClampToEdge
	default:
		return wgpu.AddressModeRepeat
	}
}

func filterMode(mode assets.FilterMode) wgpu.FilterMode {
	if mode == assets.FilterNearest {
		return wgpu.FilterModeNearest
	}
	return wgpu.FilterModeLinear
}
