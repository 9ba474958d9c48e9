package collide

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestBox_Inertia(t *testing.T) {
	// Unit cube of mass 12: the solid box formula gives (m/12)(1+1) = 2
	// about every axis.
	box := Box{HalfSize: mgl64.Vec3{0.5, 0.5, 0.5}}
	inertia := box.Inertia(12)

	want := mgl64.Vec3{2, 2, 2}
	if !inertia.ApproxEqual(want) {
		t.Errorf("unit cube inertia: expected %v, got %v", want, inertia)
	}
}

func TestBox_Inertia_Asymmetric(t *testing.T) {
	// Flat slab: the thin axes carry more inertia than the long one.
	box := Box{HalfSize: mgl64.Vec3{1, 0.5, 0.1}}
	inertia := box.Inertia(6)

	// Full extents 2, 1, 0.2 with m/12 = 0.5.
	want := mgl64.Vec3{0.5 * (1 + 0.04), 0.5 * (4 + 0.04), 0.5 * (4 + 1)}
	if !inertia.ApproxEqual(want) {
		t.Errorf("slab inertia: expected %v, got %v", want, inertia)
	}
}

func TestBox_Corners(t *testing.T) {
	box := Box{HalfSize: mgl64.Vec3{1, 2, 3}}
	corners := box.Corners()

	seen := make(map[mgl64.Vec3]bool)
	for _, c := range corners {
		if math.Abs(c.X()) != 1 || math.Abs(c.Y()) != 2 || math.Abs(c.Z()) != 3 {
			t.Errorf("corner %v is not on the box surface", c)
		}
		seen[c] = true
	}
	if len(seen) != 8 {
		t.Errorf("expected 8 distinct corners, got %d", len(seen))
	}
}

func TestCapsule_HalfSegment(t *testing.T) {
	// Length is tip to tip, so the segment between cap centers excludes
	// both radii.
	capsule := Capsule{Radius: 0.25, Length: 1.0}
	if got := capsule.HalfSegment(); got != 0.25 {
		t.Errorf("expected half segment 0.25, got %v", got)
	}

	// A capsule no longer than its diameter degenerates to a sphere.
	sphere := Capsule{Radius: 0.5, Length: 0.8}
	if got := sphere.HalfSegment(); got != 0 {
		t.Errorf("expected degenerate half segment 0, got %v", got)
	}
}

func TestCapsule_Inertia_SphereLimit(t *testing.T) {
	// With Length = 2·Radius the cylinder vanishes and the inertia must
	// match a solid sphere, (2/5)·m·r².
	capsule := Capsule{Radius: 0.5, Length: 1.0}
	inertia := capsule.Inertia(2)

	want := 0.4 * 2 * 0.25
	for axis := 0; axis < 3; axis++ {
		if math.Abs(inertia[axis]-want) > 1e-12 {
			t.Errorf("sphere-limit inertia axis %d: expected %v, got %v", axis, want, inertia[axis])
		}
	}
}

func TestCapsule_Inertia_AxialBelowRadial(t *testing.T) {
	capsule := Capsule{Radius: 0.25, Length: 1.0}
	inertia := capsule.Inertia(1)

	if inertia.Z() >= inertia.X() {
		t.Errorf("elongated capsule should have axial inertia below radial: %v", inertia)
	}
	if inertia.X() != inertia.Y() {
		t.Errorf("radial inertia should be symmetric: %v", inertia)
	}
}

func TestPlane_Inertia(t *testing.T) {
	inertia := Plane{}.Inertia(5)
	if inertia != (mgl64.Vec3{1, 1, 1}) {
		t.Errorf("plane inertia placeholder should be (1,1,1), got %v", inertia)
	}
}

func TestCollider_WorldPose(t *testing.T) {
	qp := stateAt(mgl64.Vec3{1, 0, 0})
	qp.Rot[0] = mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1})

	collider := &Collider{
		Body:  0,
		Shape: Box{HalfSize: mgl64.Vec3{0.5, 0.5, 0.5}},
		Pos:   mgl64.Vec3{1, 0, 0},
		Rot:   mgl64.QuatIdent(),
	}
	pos, rot := collider.WorldPose(qp)

	// The local +x offset swings onto +y after the 90 degree body yaw.
	if !pos.ApproxEqualThreshold(mgl64.Vec3{1, 1, 0}, 1e-12) {
		t.Errorf("expected world position {1 1 0}, got %v", pos)
	}
	if got := rot.Rotate(mgl64.Vec3{1, 0, 0}); !got.ApproxEqualThreshold(mgl64.Vec3{0, 1, 0}, 1e-12) {
		t.Errorf("world rotation should carry the body yaw, x maps to %v", got)
	}
}
