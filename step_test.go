package brax

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/MinRegret/brax/body"
)

// near fails the test when got is not within tol of want.
func near(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s = %v, want %v within %v", name, got, want, tol)
	}
}

func projectileConfig() *Config {
	return &Config{
		Dt:       1,
		Substeps: 1000,
		Gravity:  Vec3Config{Z: -9.8},
		Bodies:   []BodyConfig{{Name: "Ball", Mass: 1}},
	}
}

func TestStep_ProjectileMotion(t *testing.T) {
	sys, err := NewSystem(projectileConfig())
	if err != nil {
		t.Fatalf("NewSystem() error = %v", err)
	}
	qp := body.NewQP(1)
	qp.Vel[0] = mgl64.Vec3{1, 0, 0}

	qp, _, err = sys.Step(qp, nil)
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	// v = v0 + a*t and x = x0 + v0*t + a*t²/2
	near(t, "vel.z", qp.Vel[0].Z(), -9.8, 0.005)
	near(t, "pos.x", qp.Pos[0].X(), 1, 0.005)
	near(t, "pos.z", qp.Pos[0].Z(), -9.8/2, 0.005)
}

func TestStep_LeavesInputUntouched(t *testing.T) {
	sys, err := NewSystem(projectileConfig())
	if err != nil {
		t.Fatalf("NewSystem() error = %v", err)
	}
	qp := body.NewQP(1)
	qp.Pos[0] = mgl64.Vec3{1, 2, 3}
	qp.Vel[0] = mgl64.Vec3{4, 5, 6}
	qp.Ang[0] = mgl64.Vec3{7, 8, 9}

	if _, _, err := sys.Step(qp, nil); err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if qp.Pos[0] != (mgl64.Vec3{1, 2, 3}) || qp.Vel[0] != (mgl64.Vec3{4, 5, 6}) || qp.Ang[0] != (mgl64.Vec3{7, 8, 9}) {
		t.Errorf("input state changed: pos %v vel %v ang %v", qp.Pos[0], qp.Vel[0], qp.Ang[0])
	}
}

func TestStep_Deterministic(t *testing.T) {
	sys, err := NewSystem(projectileConfig())
	if err != nil {
		t.Fatalf("NewSystem() error = %v", err)
	}
	qp := body.NewQP(1)
	qp.Vel[0] = mgl64.Vec3{1, 0, 0}
	qp.Ang[0] = mgl64.Vec3{3, 4, 5}

	a, _, err := sys.Step(qp, nil)
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	b, _, err := sys.Step(qp, nil)
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if a.Pos[0] != b.Pos[0] || a.Rot[0] != b.Rot[0] || a.Vel[0] != b.Vel[0] || a.Ang[0] != b.Ang[0] {
		t.Errorf("two steps from the same state differ: %v vs %v", a, b)
	}
}

func TestStep_RotationStaysNormalized(t *testing.T) {
	sys, err := NewSystem(projectileConfig())
	if err != nil {
		t.Fatalf("NewSystem() error = %v", err)
	}
	qp := body.NewQP(1)
	qp.Ang[0] = mgl64.Vec3{3, 4, 5}

	for i := 0; i < 5; i++ {
		qp, _, err = sys.Step(qp, nil)
		if err != nil {
			t.Fatalf("Step() error = %v", err)
		}
	}
	if n := qp.Rot[0].Len(); math.Abs(n-1) > 1e-9 {
		t.Errorf("rotation norm = %v, want 1", n)
	}
}

func TestStep_ActionSizeError(t *testing.T) {
	sys, err := NewSystem(projectileConfig())
	if err != nil {
		t.Fatalf("NewSystem() error = %v", err)
	}
	_, _, err = sys.Step(body.NewQP(1), []float64{1})
	if !errors.Is(err, ErrActionSize) {
		t.Errorf("Step() error = %v, want ErrActionSize", err)
	}
}

func TestStep_StateSizeError(t *testing.T) {
	sys, err := NewSystem(projectileConfig())
	if err != nil {
		t.Fatalf("NewSystem() error = %v", err)
	}
	_, _, err = sys.Step(body.NewQP(2), nil)
	if !errors.Is(err, ErrStateSize) {
		t.Errorf("Step() error = %v, want ErrStateSize", err)
	}
}
