// Package constraint implements the spring joints that hold articulated
// bodies together: an anchor spring, alignment torques for the rotational
// freedoms a joint does not grant, soft angle limits and relative angular
// damping.
package constraint

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/MinRegret/brax/body"
)

// alignEps guards the normalization of the universal alignment axis.
const alignEps = 1e-9

// Joint connects a child body to a parent body at a pair of anchor
// points. The number of angle limit pairs decides the degrees of
// freedom: one hinges about Axis1, two gimbal about Axis1 and Axis2,
// three rotate freely inside their limits.
type Joint struct {
	Parent, Child int
	ParentOffset  mgl64.Vec3
	ChildOffset   mgl64.Vec3

	// Joint frame axes expressed in the parent body frame.
	Axis1, Axis2, Axis3 mgl64.Vec3

	Stiffness      float64
	SpringDamping  float64
	AngularDamping float64
	LimitStrength  float64

	// Limits holds one {min, max} pair in radians per degree of freedom.
	Limits [][2]float64
}

// AxesOf returns the three joint axes for a joint-frame rotation.
func AxesOf(rot mgl64.Quat) (mgl64.Vec3, mgl64.Vec3, mgl64.Vec3) {
	return rot.Rotate(mgl64.Vec3{1, 0, 0}),
		rot.Rotate(mgl64.Vec3{0, 1, 0}),
		rot.Rotate(mgl64.Vec3{0, 0, 1})
}

// DOF returns the number of degrees of freedom the joint grants.
func (j *Joint) DOF() int {
	return len(j.Limits)
}

// Apply accumulates the joint's spring, alignment, limit and damping
// accelerations for the current state onto acc.
func (j *Joint) Apply(bodies []body.Body, qp body.QP, acc *body.Delta) {
	parent := &bodies[j.Parent]
	child := &bodies[j.Child]

	// The anchor spring pulls the child anchor onto the parent anchor,
	// damped by the relative velocity of the two anchor points.
	anchorP := qp.WorldPoint(j.Parent, j.ParentOffset)
	anchorC := qp.WorldPoint(j.Child, j.ChildOffset)
	force := anchorP.Sub(anchorC).Mul(j.Stiffness)
	relVel := qp.VelocityAt(j.Parent, anchorP).Sub(qp.VelocityAt(j.Child, anchorC))
	force = force.Add(relVel.Mul(j.SpringDamping))
	acc.ApplyForce(child, qp, j.Child, force, anchorC)
	acc.ApplyForce(parent, qp, j.Parent, force.Mul(-1), anchorP)

	axes, angles := j.AxisAngles(qp)

	if torque, ok := j.alignTorque(qp, axes); ok {
		acc.ApplyTorque(child, qp, j.Child, torque)
		acc.ApplyTorque(parent, qp, j.Parent, torque.Mul(-1))
	}

	// Soft limits push straying angles back toward their range.
	for i, limit := range j.Limits {
		var violation float64
		switch {
		case angles[i] < limit[0]:
			violation = angles[i] - limit[0]
		case angles[i] > limit[1]:
			violation = angles[i] - limit[1]
		default:
			continue
		}
		torque := axes[i].Mul(-j.LimitStrength * violation)
		acc.ApplyTorque(child, qp, j.Child, torque)
		acc.ApplyTorque(parent, qp, j.Parent, torque.Mul(-1))
	}

	if j.AngularDamping > 0 {
		torque := qp.Ang[j.Parent].Sub(qp.Ang[j.Child]).Mul(j.AngularDamping)
		acc.ApplyTorque(child, qp, j.Child, torque)
		acc.ApplyTorque(parent, qp, j.Parent, torque.Mul(-1))
	}
}

// AxisAngles returns the world-frame axis and the signed angle of every
// degree of freedom at the given state.
func (j *Joint) AxisAngles(qp body.QP) ([]mgl64.Vec3, []float64) {
	rotP := qp.Rot[j.Parent]
	rotC := qp.Rot[j.Child]

	switch len(j.Limits) {
	case 1:
		axis := rotP.Rotate(j.Axis1)
		angle := SignedAngle(axis, rotP.Rotate(j.Axis2), rotC.Rotate(j.Axis2))
		return []mgl64.Vec3{axis}, []float64{angle}

	case 2:
		// The hinge axis lives on the parent, the second axis on the
		// child; each angle is measured about its own axis using the
		// other as reference. Exact for any universal pose.
		axis1 := rotP.Rotate(j.Axis1)
		axis2 := rotC.Rotate(j.Axis2)
		angle1 := SignedAngle(axis1, rotP.Rotate(j.Axis2), rotC.Rotate(j.Axis2))
		angle2 := SignedAngle(axis2, rotP.Rotate(j.Axis1), rotC.Rotate(j.Axis1))
		return []mgl64.Vec3{axis1, axis2}, []float64{angle1, angle2}

	default:
		// Spherical: decompose the relative rotation in the joint basis
		// as intrinsic rotations about Axis1, then the moved Axis2, then
		// the child's Axis3.
		relRot := rotP.Conjugate().Mul(rotC).Mat4().Mat3()
		basis := mgl64.Mat3{
			j.Axis1.X(), j.Axis1.Y(), j.Axis1.Z(),
			j.Axis2.X(), j.Axis2.Y(), j.Axis2.Z(),
			j.Axis3.X(), j.Axis3.Y(), j.Axis3.Z(),
		}
		local := basis.Transpose().Mul3(relRot).Mul3(basis)
		phi1, phi2, phi3 := eulerXYZ(local)

		axis1 := rotP.Rotate(j.Axis1)
		axis2 := rotP.Rotate(mgl64.QuatRotate(phi1, j.Axis1).Rotate(j.Axis2))
		axis3 := rotC.Rotate(j.Axis3)
		return []mgl64.Vec3{axis1, axis2, axis3}, []float64{phi1, phi2, phi3}
	}
}

// Angles returns the current joint angles, one per degree of freedom.
func (j *Joint) Angles(qp body.QP) []float64 {
	_, angles := j.AxisAngles(qp)
	return angles
}

// alignTorque pins the rotational freedoms the joint does not grant: a
// revolute joint drags the child's hinge axis onto the parent's, a
// universal joint keeps its two axes perpendicular, a spherical joint
// needs nothing.
func (j *Joint) alignTorque(qp body.QP, axes []mgl64.Vec3) (mgl64.Vec3, bool) {
	switch len(j.Limits) {
	case 1:
		axisC := qp.Rot[j.Child].Rotate(j.Axis1)
		return axisC.Cross(axes[0]).Mul(j.Stiffness), true
	case 2:
		cos := axes[0].Dot(axes[1])
		cross := axes[0].Cross(axes[1])
		norm := cross.Len()
		if norm < alignEps {
			return mgl64.Vec3{}, false
		}
		return cross.Mul(j.Stiffness * cos / norm), true
	}
	return mgl64.Vec3{}, false
}
