package body

import "github.com/go-gl/mathgl/mgl64"

// Integrate advances qp in place by one substep of length h: velocities
// first from gravity, the accumulated accelerations and the contact
// impulses, then poses from the updated velocities. Orientations follow
// the first-order quaternion derivative q' = q + (h/2)·(ω ⊗ q) and are
// renormalized every call to bound drift.
func Integrate(bodies []Body, qp QP, acc, imp Delta, gravity mgl64.Vec3, h float64) {
	for i := range bodies {
		b := &bodies[i]
		if !b.Movable() {
			continue
		}

		vel := qp.Vel[i].Add(gravity.Add(acc.Vel[i]).Mul(h)).Add(imp.Vel[i])
		ang := qp.Ang[i].Add(acc.Ang[i].Mul(h)).Add(imp.Ang[i])
		vel = maskAxes(vel, b.FrozenPos)
		ang = maskAxes(ang, b.FrozenRot)
		qp.Vel[i] = vel
		qp.Ang[i] = ang

		qp.Pos[i] = qp.Pos[i].Add(vel.Mul(h))

		omega := mgl64.Quat{W: 0, V: ang}
		qDot := omega.Mul(qp.Rot[i]).Scale(0.5)
		qp.Rot[i] = qp.Rot[i].Add(qDot.Scale(h)).Normalize()
	}
}

// maskAxes zeroes the components of v whose mask entry is set.
func maskAxes(v, mask mgl64.Vec3) mgl64.Vec3 {
	if mask == (mgl64.Vec3{}) {
		return v
	}
	for a := 0; a < 3; a++ {
		if mask[a] != 0 {
			v[a] = 0
		}
	}
	return v
}
