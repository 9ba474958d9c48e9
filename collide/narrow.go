package collide

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/MinRegret/brax/body"
)

// Contact is one narrow-phase hit, produced and consumed within a single
// substep. Normal points from body B toward body A; Penetration is
// positive when the shapes overlap.
type Contact struct {
	A, B        int
	Pos         mgl64.Vec3
	Normal      mgl64.Vec3
	Penetration float64
	Friction    float64
}

const (
	// proximityEps deduplicates contacts closer than this.
	proximityEps = 1e-6
	// degenerateEps guards normalizations of near-zero vectors.
	degenerateEps = 1e-9
)

// Contacts runs the narrow-phase query for one collider pair. Pairs with
// no analytic query (box-box, plane-plane) yield nothing.
func Contacts(a, b *Collider, friction float64, qp body.QP) []Contact {
	switch sa := a.Shape.(type) {
	case Box:
		if _, ok := b.Shape.(Plane); ok {
			return boxPlane(a, sa, b, friction, qp)
		}
	case Capsule:
		switch sb := b.Shape.(type) {
		case Plane:
			return capsulePlane(a, sa, b, friction, qp)
		case Capsule:
			return capsuleCapsule(a, sa, b, sb, friction, qp)
		}
	case Plane:
		// Planes always take the B side of a contact.
		switch b.Shape.(type) {
		case Box, Capsule:
			return Contacts(b, a, friction, qp)
		}
	}
	return nil
}

// boxPlane reports every box corner that sits below the plane surface.
func boxPlane(bc *Collider, box Box, pc *Collider, friction float64, qp body.QP) []Contact {
	boxPos, boxRot := bc.WorldPose(qp)
	planePos, planeRot := pc.WorldPose(qp)
	normal := planeRot.Rotate(mgl64.Vec3{0, 0, 1})

	var out []Contact
	for _, corner := range box.Corners() {
		world := boxPos.Add(boxRot.Rotate(corner))
		pen := -normal.Dot(world.Sub(planePos))
		if pen <= 0 {
			continue
		}
		out = append(out, Contact{
			A: bc.Body, B: pc.Body,
			Pos:         world,
			Normal:      normal,
			Penetration: pen,
			Friction:    friction,
		})
	}
	return mergeClose(out)
}

// capsulePlane tests the two cap spheres against the plane.
func capsulePlane(cc *Collider, cap Capsule, pc *Collider, friction float64, qp body.QP) []Contact {
	capPos, capRot := cc.WorldPose(qp)
	planePos, planeRot := pc.WorldPose(qp)
	normal := planeRot.Rotate(mgl64.Vec3{0, 0, 1})
	axis := capRot.Rotate(mgl64.Vec3{0, 0, 1})

	var out []Contact
	for _, side := range []float64{1, -1} {
		end := capPos.Add(axis.Mul(side * cap.HalfSegment()))
		lowest := end.Sub(normal.Mul(cap.Radius))
		pen := -normal.Dot(lowest.Sub(planePos))
		if pen <= 0 {
			continue
		}
		out = append(out, Contact{
			A: cc.Body, B: pc.Body,
			Pos:         lowest,
			Normal:      normal,
			Penetration: pen,
			Friction:    friction,
		})
	}
	return mergeClose(out)
}

// capsuleCapsule reports the single deepest contact between two capsules,
// found from the closest points of their axis segments.
func capsuleCapsule(ac *Collider, ca Capsule, bc *Collider, cb Capsule, friction float64, qp body.QP) []Contact {
	aPos, aRot := ac.WorldPose(qp)
	bPos, bRot := bc.WorldPose(qp)
	aAxis := aRot.Rotate(mgl64.Vec3{0, 0, 1})
	bAxis := bRot.Rotate(mgl64.Vec3{0, 0, 1})

	pa, pb := closestSegmentPoints(
		aPos.Sub(aAxis.Mul(ca.HalfSegment())), aPos.Add(aAxis.Mul(ca.HalfSegment())),
		bPos.Sub(bAxis.Mul(cb.HalfSegment())), bPos.Add(bAxis.Mul(cb.HalfSegment())),
	)

	delta := pa.Sub(pb)
	dist := delta.Len()
	pen := ca.Radius + cb.Radius - dist
	if pen <= 0 {
		return nil
	}

	normal := mgl64.Vec3{0, 0, 1}
	if dist > degenerateEps {
		normal = delta.Mul(1 / dist)
	}
	surfaceA := pa.Sub(normal.Mul(ca.Radius))
	surfaceB := pb.Add(normal.Mul(cb.Radius))
	return []Contact{{
		A: ac.Body, B: bc.Body,
		Pos:         surfaceA.Add(surfaceB).Mul(0.5),
		Normal:      normal,
		Penetration: pen,
		Friction:    friction,
	}}
}

// closestSegmentPoints returns the closest points of segments [p1,q1] and
// [p2,q2], with the parallel and degenerate cases guarded.
func closestSegmentPoints(p1, q1, p2, q2 mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	d1 := q1.Sub(p1)
	d2 := q2.Sub(p2)
	r := p1.Sub(p2)
	a := d1.Dot(d1)
	e := d2.Dot(d2)
	f := d2.Dot(r)

	var s, t float64
	switch {
	case a <= degenerateEps && e <= degenerateEps:
		// Both segments are points.
	case a <= degenerateEps:
		t = mgl64.Clamp(f/e, 0, 1)
	default:
		c := d1.Dot(r)
		if e <= degenerateEps {
			s = mgl64.Clamp(-c/a, 0, 1)
		} else {
			b := d1.Dot(d2)
			denom := a*e - b*b
			if denom > degenerateEps {
				s = mgl64.Clamp((b*f-c*e)/denom, 0, 1)
			}
			t = (b*s + f) / e
			if t < 0 {
				t = 0
				s = mgl64.Clamp(-c/a, 0, 1)
			} else if t > 1 {
				t = 1
				s = mgl64.Clamp((b-c)/a, 0, 1)
			}
		}
	}
	return p1.Add(d1.Mul(s)), p2.Add(d2.Mul(t))
}

// mergeClose drops contacts whose points coincide within proximityEps,
// keeping the deepest of each cluster.
func mergeClose(contacts []Contact) []Contact {
	if len(contacts) < 2 {
		return contacts
	}
	out := contacts[:0]
	for _, c := range contacts {
		replaced := false
		for i := range out {
			if c.Pos.Sub(out[i].Pos).Len() < proximityEps {
				if c.Penetration > out[i].Penetration {
					out[i] = c
				}
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, c)
		}
	}
	return out
}

// MaxPenetration returns the deepest penetration among contacts, or 0.
func MaxPenetration(contacts []Contact) float64 {
	depth := 0.0
	for _, c := range contacts {
		depth = math.Max(depth, c.Penetration)
	}
	return depth
}
