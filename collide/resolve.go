package collide

import (
	"github.com/MinRegret/brax/body"
)

const (
	// slipEps is the tangential speed below which friction is skipped.
	slipEps = 1e-6
	// massEps rejects contacts with no effective mass on either side.
	massEps = 1e-10
)

// Resolve converts one substep's contacts into velocity impulses.
// Impulses are computed independently per contact from the same entry
// state, then averaged per body by its active contact count so stacked
// corner contacts do not multiply the response. Immovable bodies receive
// nothing.
func Resolve(bodies []body.Body, qp body.QP, contacts []Contact, erp, elasticity, h float64) body.Delta {
	imp := body.NewDelta(qp.Count())
	counts := make([]int, qp.Count())

	for _, c := range contacts {
		bA := &bodies[c.A]
		bB := &bodies[c.B]

		invMassA := bA.InvMass()
		invMassB := bB.InvMass()
		invInertiaA := bA.InvInertiaWorld(qp.Rot[c.A])
		invInertiaB := bB.InvInertiaWorld(qp.Rot[c.B])

		rA := c.Pos.Sub(qp.Pos[c.A])
		rB := c.Pos.Sub(qp.Pos[c.B])

		rel := qp.VelocityAt(c.A, c.Pos).Sub(qp.VelocityAt(c.B, c.Pos))
		normalVel := rel.Dot(c.Normal)

		rAxN := rA.Cross(c.Normal)
		rBxN := rB.Cross(c.Normal)
		kNormal := invMassA + invMassB +
			invInertiaA.Mul3x1(rAxN).Dot(rAxN) +
			invInertiaB.Mul3x1(rBxN).Dot(rBxN)
		if kNormal < massEps {
			continue
		}

		// Baumgarte feedback folds the position error into the target
		// velocity instead of projecting positions. Contacts that would
		// pull rather than push are dropped entirely and do not dilute
		// the per-body average.
		bias := erp * c.Penetration / h
		lambda := (-(1+elasticity)*normalVel + bias) / kNormal
		if lambda <= 0 {
			continue
		}
		impulse := c.Normal.Mul(lambda)

		if bA.Movable() {
			imp.Add(c.A, impulse.Mul(invMassA), invInertiaA.Mul3x1(rA.Cross(impulse)))
			counts[c.A]++
		}
		if bB.Movable() {
			imp.Add(c.B, impulse.Mul(-invMassB), invInertiaB.Mul3x1(rB.Cross(impulse)).Mul(-1))
			counts[c.B]++
		}

		tangentVel := rel.Sub(c.Normal.Mul(normalVel))
		tangentSpeed := tangentVel.Len()
		if tangentSpeed < slipEps {
			continue
		}
		tangent := tangentVel.Mul(1 / tangentSpeed)

		rAxT := rA.Cross(tangent)
		rBxT := rB.Cross(tangent)
		kTangent := invMassA + invMassB +
			invInertiaA.Mul3x1(rAxT).Dot(rAxT) +
			invInertiaB.Mul3x1(rBxT).Dot(rBxT)
		if kTangent < massEps {
			continue
		}

		// Static friction cancels the slip outright while inside the
		// Coulomb cone; past it, kinetic friction caps at μ·λ.
		lambdaTangent := -tangentSpeed / kTangent
		if maxFriction := c.Friction * lambda; -lambdaTangent > maxFriction {
			lambdaTangent = -maxFriction
		}
		frictionImpulse := tangent.Mul(lambdaTangent)

		if bA.Movable() {
			imp.Add(c.A, frictionImpulse.Mul(invMassA), invInertiaA.Mul3x1(rA.Cross(frictionImpulse)))
		}
		if bB.Movable() {
			imp.Add(c.B, frictionImpulse.Mul(-invMassB), invInertiaB.Mul3x1(rB.Cross(frictionImpulse)).Mul(-1))
		}
	}

	for i, n := range counts {
		if n > 1 {
			imp.Scale(i, 1/float64(n))
		}
	}
	return imp
}
