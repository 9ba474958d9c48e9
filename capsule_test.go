package brax

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/MinRegret/brax/body"
)

func capsuleConfig() *Config {
	capsule := func(name string, rotation Vec3Config) BodyConfig {
		return BodyConfig{
			Name:    name,
			Mass:    1,
			Inertia: &Vec3Config{X: 1, Y: 1, Z: 1},
			Colliders: []ColliderConfig{
				{Rotation: rotation, Capsule: &CapsuleConfig{Radius: 0.25, Length: 1.0}},
			},
		}
	}
	return &Config{
		Dt:           5,
		Substeps:     5000,
		Friction:     0.6,
		BaumgarteERP: 0.1,
		Gravity:      Vec3Config{Z: -9.8},
		Bodies: []BodyConfig{
			capsule("Capsule1", Vec3Config{}),
			capsule("Capsule2", Vec3Config{Y: 90}),
			capsule("Capsule3", Vec3Config{Y: 45}),
			capsule("Capsule4", Vec3Config{X: 45}),
			{
				Name:      "Ground",
				Frozen:    FrozenConfig{All: true},
				Colliders: []ColliderConfig{{Plane: &PlaneConfig{}}},
			},
		},
	}
}

func TestStep_CapsuleHitsGround(t *testing.T) {
	sys, err := NewSystem(capsuleConfig())
	if err != nil {
		t.Fatalf("NewSystem() error = %v", err)
	}
	qp := body.NewQP(5)
	qp.Pos[0] = mgl64.Vec3{0, 0, 1}
	qp.Pos[1] = mgl64.Vec3{1, 0, 1}
	qp.Pos[2] = mgl64.Vec3{3, 0, 1}
	qp.Pos[3] = mgl64.Vec3{5, 0, 1}

	qp, _, err = sys.Step(qp, nil)
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	near(t, "standing capsule pos.z", qp.Pos[0].Z(), 0.5, 0.005)
	near(t, "lying capsule pos.z", qp.Pos[1].Z(), 0.25, 0.005)
	near(t, "y-tilted capsule pos.z", qp.Pos[2].Z(), 0.25, 0.005)
	near(t, "x-tilted capsule pos.z", qp.Pos[3].Z(), 0.25, 0.005)
}

func TestStep_CapsuleBalancesOnCapsule(t *testing.T) {
	sys, err := NewSystem(capsuleConfig())
	if err != nil {
		t.Fatalf("NewSystem() error = %v", err)
	}
	qp := body.NewQP(5)
	qp.Pos[0] = mgl64.Vec3{0, 0, 1}
	qp.Pos[1] = mgl64.Vec3{0, 0, 2}
	qp.Pos[2] = mgl64.Vec3{3, 0, 1}
	qp.Pos[3] = mgl64.Vec3{5, 0, 1}

	qp, _, err = sys.Step(qp, nil)
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	near(t, "standing capsule pos.z", qp.Pos[0].Z(), 0.5, 0.005)
	// the sideways capsule comes to rest across the standing one's tip
	near(t, "stacked capsule pos.z", qp.Pos[1].Z(), 1.25, 0.005)
}
