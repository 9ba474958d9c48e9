// Package collide provides the collider shapes, the pairwise narrow-phase
// queries that produce contacts, and the impulse resolver that turns
// contacts into velocity changes.
package collide

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/MinRegret/brax/body"
)

// Shape is a collision shape variant. Inertia returns the diagonal
// inertia tensor of the solid shape at the given mass, used to default a
// body's inertia when configuration omits it.
type Shape interface {
	Inertia(mass float64) mgl64.Vec3
}

// Plane is the infinite z=0 plane of its collider frame, solid below its
// +z normal. Planes only participate on frozen bodies.
type Plane struct{}

func (Plane) Inertia(mass float64) mgl64.Vec3 {
	return mgl64.Vec3{1, 1, 1}
}

// Box is an axis-aligned box in its collider frame, given by half
// extents.
type Box struct {
	HalfSize mgl64.Vec3
}

func (b Box) Inertia(mass float64) mgl64.Vec3 {
	x := b.HalfSize.X() * 2
	y := b.HalfSize.Y() * 2
	z := b.HalfSize.Z() * 2

	factor := mass / 12.0
	return mgl64.Vec3{
		factor * (y*y + z*z),
		factor * (x*x + z*z),
		factor * (x*x + y*y),
	}
}

// Corners returns the eight box corners in the collider frame.
func (b Box) Corners() [8]mgl64.Vec3 {
	h := b.HalfSize
	return [8]mgl64.Vec3{
		{-h.X(), -h.Y(), -h.Z()},
		{+h.X(), -h.Y(), -h.Z()},
		{-h.X(), +h.Y(), -h.Z()},
		{+h.X(), +h.Y(), -h.Z()},
		{-h.X(), -h.Y(), +h.Z()},
		{+h.X(), -h.Y(), +h.Z()},
		{-h.X(), +h.Y(), +h.Z()},
		{+h.X(), +h.Y(), +h.Z()},
	}
}

// Capsule is a sphere-capped cylinder along the z axis of its collider
// frame. Length is the total tip-to-tip extent, caps included, so the
// cap centers sit at ±(Length/2 − Radius).
type Capsule struct {
	Radius float64
	Length float64
}

// HalfSegment returns the distance from the capsule center to each cap
// center.
func (c Capsule) HalfSegment() float64 {
	half := c.Length/2 - c.Radius
	if half < 0 {
		return 0
	}
	return half
}

func (c Capsule) Inertia(mass float64) mgl64.Vec3 {
	r := c.Radius
	cyl := c.HalfSegment() * 2

	vCyl := math.Pi * r * r * cyl
	vCaps := 4.0 / 3.0 * math.Pi * r * r * r
	mCyl := mass * vCyl / (vCyl + vCaps)
	mCaps := mass - mCyl

	axial := 0.5*mCyl*r*r + 0.4*mCaps*r*r
	radial := mCyl*(cyl*cyl/12+r*r/4) +
		mCaps*(0.4*r*r+cyl*cyl/4+0.375*cyl*r)
	return mgl64.Vec3{radial, radial, axial}
}

// Collider attaches a shape to a body with a local offset and rotation.
type Collider struct {
	Body  int
	Shape Shape
	Pos   mgl64.Vec3
	Rot   mgl64.Quat
}

// WorldPose returns the collider's world position and orientation at the
// given state.
func (c *Collider) WorldPose(qp body.QP) (mgl64.Vec3, mgl64.Quat) {
	pos := qp.WorldPoint(c.Body, c.Pos)
	rot := qp.Rot[c.Body].Mul(c.Rot)
	return pos, rot
}
