// Package actuator converts action vectors into joint drive torques.
package actuator

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/MinRegret/brax/body"
	"github.com/MinRegret/brax/constraint"
)

// Actuator drives one joint from a slice of the action vector holding
// one entry per joint degree of freedom.
type Actuator interface {
	// DOF returns how many action entries the actuator consumes.
	DOF() int
	// Apply accumulates the drive torque for act onto acc. act holds
	// exactly DOF entries.
	Apply(bodies []body.Body, qp body.QP, acc *body.Delta, act []float64)
}

// Angle servos each joint angle toward a target given in degrees. The
// target is clamped into the joint limits and the commanded torque is
// proportional to the remaining error, capped at Strength.
type Angle struct {
	Joint    *constraint.Joint
	Strength float64
}

func (a *Angle) DOF() int {
	return a.Joint.DOF()
}

func (a *Angle) Apply(bodies []body.Body, qp body.QP, acc *body.Delta, act []float64) {
	j := a.Joint
	axes, angles := j.AxisAngles(qp)

	for i, limit := range j.Limits {
		target := mgl64.Clamp(mgl64.DegToRad(act[i]), limit[0], limit[1])
		torque := mgl64.Clamp(j.Stiffness*(target-angles[i]), -a.Strength, a.Strength)
		applyPair(bodies, qp, acc, j, axes[i].Mul(torque))
	}
}

// Torque applies the action directly as a torque about each joint axis,
// capped at Strength. The drive cuts out while an angle sits outside its
// limits so it cannot wind the joint past them.
type Torque struct {
	Joint    *constraint.Joint
	Strength float64
}

func (t *Torque) DOF() int {
	return t.Joint.DOF()
}

func (t *Torque) Apply(bodies []body.Body, qp body.QP, acc *body.Delta, act []float64) {
	j := t.Joint
	axes, angles := j.AxisAngles(qp)

	for i, limit := range j.Limits {
		if angles[i] < limit[0] || angles[i] > limit[1] {
			continue
		}
		torque := mgl64.Clamp(act[i], -t.Strength, t.Strength)
		applyPair(bodies, qp, acc, j, axes[i].Mul(torque))
	}
}

// applyPair torques the child and counter-torques the parent.
func applyPair(bodies []body.Body, qp body.QP, acc *body.Delta, j *constraint.Joint, torque mgl64.Vec3) {
	acc.ApplyTorque(&bodies[j.Child], qp, j.Child, torque)
	acc.ApplyTorque(&bodies[j.Parent], qp, j.Parent, torque.Mul(-1))
}
