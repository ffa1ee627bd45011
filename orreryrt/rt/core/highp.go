package core

import (
	"math"

	"github.com/gekko3d/orrery"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// DefaultScaleFactor relates high precision units to render units: one
// render unit is 10000 high precision units.
const DefaultScaleFactor = 10000.0

// HighPVec3 holds positions and Euler rotations in simulation space. float32
// cannot carry solar system distances alongside surface detail, so
// simulation state stays in float64 until Narrow.
type HighPVec3 mgl64.Vec3

func NewHighPVec3(x, y, z float64) HighPVec3 {
	return HighPVec3{x, y, z}
}

func (v HighPVec3) X() float64 { return v[0] }
func (v HighPVec3) Y() float64 { return v[1] }
func (v HighPVec3) Z() float64 { return v[2] }

func (v HighPVec3) Add(o HighPVec3) HighPVec3 {
	return HighPVec3(mgl64.Vec3(v).Add(mgl64.Vec3(o)))
}

func (v HighPVec3) Sub(o HighPVec3) HighPVec3 {
	return HighPVec3(mgl64.Vec3(v).Sub(mgl64.Vec3(o)))
}

func (v HighPVec3) Mul(k float64) HighPVec3 {
	return HighPVec3(mgl64.Vec3(v).Mul(k))
}

func (v HighPVec3) Len() float64 {
	return mgl64.Vec3(v).Len()
}

func AddHighP(a, b HighPVec3) HighPVec3 { return a.Add(b) }

func SubtractHighP(a, b HighPVec3) HighPVec3 { return a.Sub(b) }

func ScaleHighP(v HighPVec3, k float64) HighPVec3 { return v.Mul(k) }

// Narrow divides src by scaleFactor and drops to float32. Only narrowing is
// allowed: a factor below 1 would magnify the rounding error and is
// rejected with orrery.ErrInvalidArgument.
func Narrow(src HighPVec3, scaleFactor float64) (mgl32.Vec3, error) {
	if err := checkScaleFactor(scaleFactor); err != nil {
		return mgl32.Vec3{}, err
	}
	return mgl32.Vec3{
		float32(src[0] / scaleFactor),
		float32(src[1] / scaleFactor),
		float32(src[2] / scaleFactor),
	}, nil
}

// MustNarrow is Narrow for factors validated at construction time.
func MustNarrow(src HighPVec3, scaleFactor float64) mgl32.Vec3 {
	v, err := Narrow(src, scaleFactor)
	if err != nil {
		panic(err)
	}
	return v
}

func checkScaleFactor(scaleFactor float64) error {
	if math.IsNaN(scaleFactor) || scaleFactor < 1 {
		return orrery.InvalidArgumentf("scale factor %v must be >= 1", scaleFactor)
	}
	return nil
}

// widen lifts a render space vector back into simulation space.
func widen(v mgl32.Vec3, scaleFactor float64) HighPVec3 {
	return HighPVec3{
		float64(v[0]) * scaleFactor,
		float64(v[1]) * scaleFactor,
		float64(v[2]) * scaleFactor,
	}
}
