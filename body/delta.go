package body

import "github.com/go-gl/mathgl/mgl64"

// Delta accumulates velocity-space contributions per body. Force-level
// terms (gravity, springs, actuators) accumulate accelerations that the
// integrator scales by the substep dt; contact impulses accumulate
// velocity changes applied as-is. The same structure serves both, only
// the integration scaling differs.
type Delta struct {
	Vel []mgl64.Vec3
	Ang []mgl64.Vec3
}

// NewDelta returns a zeroed accumulator for n bodies.
func NewDelta(n int) Delta {
	return Delta{
		Vel: make([]mgl64.Vec3, n),
		Ang: make([]mgl64.Vec3, n),
	}
}

// ApplyForce accumulates the acceleration produced by a force applied at
// a world-space point on body i, including the torque from the lever arm
// about the center of mass. Immovable bodies are left untouched.
func (d *Delta) ApplyForce(b *Body, qp QP, i int, force, at mgl64.Vec3) {
	if !b.Movable() {
		return
	}
	d.Vel[i] = d.Vel[i].Add(force.Mul(b.InvMass()))
	torque := at.Sub(qp.Pos[i]).Cross(force)
	d.Ang[i] = d.Ang[i].Add(b.InvInertiaWorld(qp.Rot[i]).Mul3x1(torque))
}

// ApplyTorque accumulates the angular acceleration produced by a pure
// torque on body i.
func (d *Delta) ApplyTorque(b *Body, qp QP, i int, torque mgl64.Vec3) {
	if !b.Movable() {
		return
	}
	d.Ang[i] = d.Ang[i].Add(b.InvInertiaWorld(qp.Rot[i]).Mul3x1(torque))
}

// Add accumulates a raw velocity-space change on body i.
func (d *Delta) Add(i int, dv, dw mgl64.Vec3) {
	d.Vel[i] = d.Vel[i].Add(dv)
	d.Ang[i] = d.Ang[i].Add(dw)
}

// Scale multiplies every accumulated entry of body i by s.
func (d *Delta) Scale(i int, s float64) {
	d.Vel[i] = d.Vel[i].Mul(s)
	d.Ang[i] = d.Ang[i].Mul(s)
}
