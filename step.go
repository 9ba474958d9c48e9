package brax

import (
	"fmt"

	"github.com/MinRegret/brax/body"
	"github.com/MinRegret/brax/collide"
)

// Info carries diagnostics from one Step.
type Info struct {
	// Contacts found during the final substep.
	Contacts []collide.Contact
	// Penetration is the deepest overlap among those contacts, zero
	// when nothing touches.
	Penetration float64
	// Substeps executed.
	Substeps int
}

// Step advances qp by dt and returns the new state; qp itself is not
// modified. The action vector holds one entry per actuated degree of
// freedom in configuration order, degrees for angle drives and raw
// torque otherwise. All substeps share the same action. On error the
// input state is returned unchanged and no substep runs.
func (s *System) Step(qp body.QP, action []float64) (body.QP, Info, error) {
	if qp.Count() != len(s.bodies) {
		return qp, Info{}, fmt.Errorf("%w: state has %d bodies, system has %d", ErrStateSize, qp.Count(), len(s.bodies))
	}
	if len(action) != s.actionDOF {
		return qp, Info{}, fmt.Errorf("%w: got %d entries, system actuates %d degrees of freedom", ErrActionSize, len(action), s.actionDOF)
	}

	out := qp.Clone()
	h := s.dt / float64(s.substeps)
	info := Info{Substeps: s.substeps}

	for sub := 0; sub < s.substeps; sub++ {
		acc := body.NewDelta(len(s.bodies))
		for _, j := range s.joints {
			j.Apply(s.bodies, out, &acc)
		}
		off := 0
		for _, a := range s.actuators {
			n := a.DOF()
			a.Apply(s.bodies, out, &acc, action[off:off+n])
			off += n
		}

		var contacts []collide.Contact
		for _, p := range s.pairs {
			contacts = append(contacts, collide.Contacts(&s.colliders[p[0]], &s.colliders[p[1]], s.friction, out)...)
		}
		imp := collide.Resolve(s.bodies, out, contacts, s.erp, s.elasticity, h)

		body.Integrate(s.bodies, out, acc, imp, s.gravity, h)

		if sub == s.substeps-1 {
			info.Contacts = contacts
			info.Penetration = collide.MaxPenetration(contacts)
		}
	}
	return out, info, nil
}
