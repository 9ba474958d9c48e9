// Package body holds the kinematic state of simulated bodies and the
// integration step that advances it.
package body

import "github.com/go-gl/mathgl/mgl64"

// QP is the full kinematic state of a scene: position, orientation,
// linear velocity and world-frame angular velocity per body, indexed by
// body insertion order. It is treated as a value: stepping code clones
// it and returns a new one, it never mutates the caller's slices.
type QP struct {
	Pos []mgl64.Vec3
	Rot []mgl64.Quat
	Vel []mgl64.Vec3
	Ang []mgl64.Vec3
}

// NewQP returns a zeroed state for n bodies with identity orientations.
func NewQP(n int) QP {
	qp := QP{
		Pos: make([]mgl64.Vec3, n),
		Rot: make([]mgl64.Quat, n),
		Vel: make([]mgl64.Vec3, n),
		Ang: make([]mgl64.Vec3, n),
	}
	for i := range qp.Rot {
		qp.Rot[i] = mgl64.QuatIdent()
	}
	return qp
}

// Count returns the number of bodies in the state.
func (qp QP) Count() int {
	return len(qp.Pos)
}

// Clone returns a deep copy sharing no slices with the receiver.
func (qp QP) Clone() QP {
	out := QP{
		Pos: make([]mgl64.Vec3, len(qp.Pos)),
		Rot: make([]mgl64.Quat, len(qp.Rot)),
		Vel: make([]mgl64.Vec3, len(qp.Vel)),
		Ang: make([]mgl64.Vec3, len(qp.Ang)),
	}
	copy(out.Pos, qp.Pos)
	copy(out.Rot, qp.Rot)
	copy(out.Vel, qp.Vel)
	copy(out.Ang, qp.Ang)
	return out
}

// WorldPoint maps a body-local offset to world space.
func (qp QP) WorldPoint(i int, offset mgl64.Vec3) mgl64.Vec3 {
	return qp.Pos[i].Add(qp.Rot[i].Rotate(offset))
}

// VelocityAt returns the velocity of a world-space point rigidly attached
// to body i.
func (qp QP) VelocityAt(i int, point mgl64.Vec3) mgl64.Vec3 {
	return qp.Vel[i].Add(qp.Ang[i].Cross(point.Sub(qp.Pos[i])))
}
