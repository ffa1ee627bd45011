package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// EulerToQuat composes rotation.y about Y, then rotation.x about X, then
// rotation.z about Z (radians). The order is fixed and can gimbal lock when
// rotation.x reaches ±π/2.
// TODO: accept a quaternion orientation on PhysicsBody so spins about a
// tilted axis stop going through Euler angles.
func EulerToQuat(rotation mgl32.Vec3) mgl32.Quat {
	qy := mgl32.QuatRotate(rotation.Y(), mgl32.Vec3{0, 1, 0})
	qx := mgl32.QuatRotate(rotation.X(), mgl32.Vec3{1, 0, 0})
	qz := mgl32.QuatRotate(rotation.Z(), mgl32.Vec3{0, 0, 1})
	return qy.Mul(qx).Mul(qz).Normalize()
}

// BuildModelMatrix returns T(position+pivot) * R * S * T(-pivot): rotation and
// scale happen about the pivot, then the result is placed at position.
func BuildModelMatrix(position, pivot, rotation, scale mgl32.Vec3) mgl32.Mat4 {
	placed := position.Add(pivot)
	translate := mgl32.Translate3D(placed.X(), placed.Y(), placed.Z())
	rotate := EulerToQuat(rotation).Mat4()
	scaling := mgl32.Scale3D(scale.X(), scale.Y(), scale.Z())
	unpivot := mgl32.Translate3D(-pivot.X(), -pivot.Y(), -pivot.Z())

	return translate.Mul4(rotate).Mul4(scaling).Mul4(unpivot)
}

type Transform struct {
	Position mgl32.Vec3
	Pivot    mgl32.Vec3
	Rotation mgl32.Vec3 // Euler, radians, Y-X-Z
	Scale    mgl32.Vec3
}

func NewTransform() *Transform {
	return &Transform{
		Scale: mgl32.Vec3{1, 1, 1},
	}
}

func (t *Transform) Matrix() mgl32.Mat4 {
	return BuildModelMatrix(t.Position, t.Pivot, t.Rotation, t.Scale)
}

func (t *Transform) worldToObject() mgl32.Mat4 {
	// inv(M) = T(pivot) * inv(S) * inv(R) * T(-(position+pivot))
	invScale := mgl32.Scale3D(1.0/t.Scale.X(), 1.0/t.Scale.Y(), 1.0/t.Scale.Z())
	invRotate := EulerToQuat(t.Rotation).Conjugate().Mat4()
	placed := t.Position.Add(t.Pivot)
	invTranslate := mgl32.Translate3D(-placed.X(), -placed.Y(), -placed.Z())
	repivot := mgl32.Translate3D(t.Pivot.X(), t.Pivot.Y(), t.Pivot.Z())

	return repivot.Mul4(invScale).Mul4(invRotate).Mul4(invTranslate)
}
