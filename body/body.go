package body

import "github.com/go-gl/mathgl/mgl64"

// Body carries the static physical properties of one rigid body. It is
// built once at system construction and never mutated while stepping.
type Body struct {
	Name    string
	Mass    float64
	Inertia mgl64.Vec3 // diagonal inertia tensor, body frame

	FrozenAll bool
	// Per-axis masks, 1 freezes the axis, 0 leaves it free.
	FrozenPos mgl64.Vec3
	FrozenRot mgl64.Vec3
}

// Movable reports whether forces can move the body at all.
func (b *Body) Movable() bool {
	return !b.FrozenAll && b.Mass > 0
}

// InvMass returns 1/mass, or 0 for immovable bodies.
func (b *Body) InvMass() float64 {
	if !b.Movable() {
		return 0
	}
	return 1.0 / b.Mass
}

// InvInertiaWorld returns the world-frame inverse inertia tensor
// R · I_local⁻¹ · Rᵀ for the given orientation, or the zero matrix for
// immovable bodies.
func (b *Body) InvInertiaWorld(rot mgl64.Quat) mgl64.Mat3 {
	if !b.Movable() {
		return mgl64.Mat3{}
	}
	inv := mgl64.Mat3{
		1.0 / b.Inertia.X(), 0, 0,
		0, 1.0 / b.Inertia.Y(), 0,
		0, 0, 1.0 / b.Inertia.Z(),
	}
	R := rot.Mat4().Mat3()
	return R.Mul3(inv).Mul3(R.Transpose())
}
