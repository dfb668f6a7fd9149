package wgpu

import (
	"encoding/binary"
	"fmt"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/mapsym/gfx"
)

// packUniforms serializes a uniform bundle into the layout the symbol
// shaders declare: members in ascending name order, scalars and vectors
// little endian, each member aligned to 16 bytes.
func packUniforms(u gfx.UniformValues) ([]byte, error) {
	if len(u) == 0 {
		return nil, nil
	}
	names := make([]string, 0, len(u))
	for name := range u {
		names = append(names, name)
	}
	slices.Sort(names)

	var out []byte
	for _, name := range names {
		member, err := packUniformValue(u[name])
		if err != nil {
			return nil, fmt.Errorf("uniform %q: %w", name, err)
		}
		out = align16(out)
		out = append(out, member...)
	}
	return align16(out), nil
}

func align16(b []byte) []byte {
	for len(b)%16 != 0 {
		b = append(b, 0)
	}
	return b
}

func packUniformValue(v any) ([]byte, error) {
	switch x := v.(type) {
	case mgl32.Mat4:
		out := make([]byte, 64)
		for i, f := range x {
			binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(f))
		}
		return out, nil
	case mgl32.Vec3:
		return packFloats(x[:]), nil
	case mgl32.Vec4:
		return packFloats(x[:]), nil
	case [2]float32:
		return packFloats(x[:]), nil
	case [3]float32:
		return packFloats(x[:]), nil
	case [4]float32:
		return packFloats(x[:]), nil
	case float32:
		return packFloats([]float32{x}), nil
	case float64:
		return packFloats([]float32{float32(x)}), nil
	case int:
		return packUint32(uint32(x)), nil
	case uint32:
		return packUint32(x), nil
	case bool:
		if x {
			return packUint32(1), nil
		}
		return packUint32(0), nil
	default:
		return nil, fmt.Errorf("unsupported uniform type %T", v)
	}
}

func packFloats(fs []float32) []byte {
	out := make([]byte, len(fs)*4)
	for i, f := range fs {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(f))
	}
	return out
}

func packUint32(v uint32) []byte {
	out := make([]byte, 4)
	binary.LittleEndian.PutUint32(out, v)
	return out
}
