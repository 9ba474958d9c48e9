// Package brax simulates articulated rigid bodies. A scene configuration
// compiles into a System whose Step advances an immutable state through a
// fixed-timestep spring and impulse integrator.
package brax

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/MinRegret/brax/actuator"
	"github.com/MinRegret/brax/body"
	"github.com/MinRegret/brax/collide"
	"github.com/MinRegret/brax/constraint"
)

// System is a compiled scene: bodies and joint and actuator programs
// resolved to indices, collider pairs enumerated up front. A System is
// immutable once built and safe for concurrent Steps.
type System struct {
	dt         float64
	substeps   int
	friction   float64
	elasticity float64
	erp        float64
	gravity    mgl64.Vec3

	bodies    []body.Body
	names     map[string]int
	colliders []collide.Collider
	pairs     [][2]int
	joints    []*constraint.Joint
	actuators []actuator.Actuator
	actionDOF int
}

// NewSystem validates a configuration and compiles it.
func NewSystem(cfg *Config) (*System, error) {
	if cfg.Dt <= 0 {
		return nil, fmt.Errorf("%w: dt must be positive, got %v", ErrConfig, cfg.Dt)
	}
	if cfg.Substeps < 0 {
		return nil, fmt.Errorf("%w: substeps must not be negative, got %d", ErrConfig, cfg.Substeps)
	}
	substeps := cfg.Substeps
	if substeps == 0 {
		substeps = 1
	}
	erp := cfg.BaumgarteERP
	if erp == 0 {
		erp = 0.1
	}

	s := &System{
		dt:         cfg.Dt,
		substeps:   substeps,
		friction:   cfg.Friction,
		elasticity: cfg.Elasticity,
		erp:        erp,
		gravity:    cfg.Gravity.Vec3(),
		names:      make(map[string]int, len(cfg.Bodies)),
	}

	for i := range cfg.Bodies {
		bc := &cfg.Bodies[i]
		if bc.Name == "" {
			return nil, fmt.Errorf("%w: body %d has no name", ErrConfig, i)
		}
		if _, ok := s.names[bc.Name]; ok {
			return nil, fmt.Errorf("%w: duplicate body name %q", ErrConfig, bc.Name)
		}
		s.names[bc.Name] = i

		b := body.Body{
			Name:      bc.Name,
			Mass:      bc.Mass,
			FrozenAll: bc.Frozen.All,
			FrozenPos: bc.Frozen.Position.Vec3(),
			FrozenRot: bc.Frozen.Rotation.Vec3(),
		}
		if allAxesFrozen(b.FrozenPos, b.FrozenRot) {
			b.FrozenAll = true
		}
		if !b.FrozenAll && b.Mass <= 0 {
			return nil, fmt.Errorf("%w: body %q needs positive mass unless frozen", ErrConfig, bc.Name)
		}

		var shapes []collide.Shape
		for ci := range bc.Colliders {
			shape, err := shapeOf(&bc.Colliders[ci])
			if err != nil {
				return nil, fmt.Errorf("%w: body %q collider %d: %v", ErrConfig, bc.Name, ci, err)
			}
			if _, plane := shape.(collide.Plane); plane && !b.FrozenAll {
				return nil, fmt.Errorf("%w: body %q: plane colliders require a frozen body", ErrConfig, bc.Name)
			}
			shapes = append(shapes, shape)
			s.colliders = append(s.colliders, collide.Collider{
				Body:  i,
				Shape: shape,
				Pos:   bc.Colliders[ci].Position.Vec3(),
				Rot:   body.RotationFrom(bc.Colliders[ci].Rotation.Vec3()),
			})
		}

		switch {
		case bc.Inertia != nil:
			b.Inertia = bc.Inertia.Vec3()
		case len(shapes) > 0:
			b.Inertia = shapes[0].Inertia(bc.Mass)
		default:
			b.Inertia = mgl64.Vec3{1, 1, 1}
		}
		if b.Movable() && (b.Inertia.X() <= 0 || b.Inertia.Y() <= 0 || b.Inertia.Z() <= 0) {
			return nil, fmt.Errorf("%w: body %q needs positive inertia", ErrConfig, bc.Name)
		}
		s.bodies = append(s.bodies, b)
	}

	linked := make(map[[2]int]bool, len(cfg.Joints))
	jointIndex := make(map[string]*constraint.Joint, len(cfg.Joints))
	for i := range cfg.Joints {
		jc := &cfg.Joints[i]
		if jc.Name == "" {
			return nil, fmt.Errorf("%w: joint %d has no name", ErrConfig, i)
		}
		if _, ok := jointIndex[jc.Name]; ok {
			return nil, fmt.Errorf("%w: duplicate joint name %q", ErrConfig, jc.Name)
		}
		parent, ok := s.names[jc.Parent]
		if !ok {
			return nil, fmt.Errorf("%w: joint %q references unknown body %q", ErrConfig, jc.Name, jc.Parent)
		}
		child, ok := s.names[jc.Child]
		if !ok {
			return nil, fmt.Errorf("%w: joint %q references unknown body %q", ErrConfig, jc.Name, jc.Child)
		}
		if parent == child {
			return nil, fmt.Errorf("%w: joint %q connects body %q to itself", ErrConfig, jc.Name, jc.Parent)
		}

		limits := jc.AngleLimits
		if len(limits) == 0 {
			limits = []AngleLimitConfig{{}}
		}
		if len(limits) > 3 {
			return nil, fmt.Errorf("%w: joint %q has %d angle limits, want at most 3", ErrConfig, jc.Name, len(limits))
		}
		radLimits := make([][2]float64, len(limits))
		for li, l := range limits {
			if l.Min > l.Max {
				return nil, fmt.Errorf("%w: joint %q limit %d has min %v above max %v", ErrConfig, jc.Name, li, l.Min, l.Max)
			}
			radLimits[li] = [2]float64{mgl64.DegToRad(l.Min), mgl64.DegToRad(l.Max)}
		}

		springDamping := jc.SpringDamping
		if springDamping == 0 {
			springDamping = 2 * math.Sqrt(jc.Stiffness)
		}
		limitStrength := jc.LimitStrength
		if limitStrength == 0 {
			limitStrength = jc.Stiffness
		}

		axis1, axis2, axis3 := constraint.AxesOf(body.RotationFrom(jc.Rotation.Vec3()))
		j := &constraint.Joint{
			Parent:         parent,
			Child:          child,
			ParentOffset:   jc.ParentOffset.Vec3(),
			ChildOffset:    jc.ChildOffset.Vec3(),
			Axis1:          axis1,
			Axis2:          axis2,
			Axis3:          axis3,
			Stiffness:      jc.Stiffness,
			SpringDamping:  springDamping,
			AngularDamping: jc.AngularDamping,
			LimitStrength:  limitStrength,
			Limits:         radLimits,
		}
		s.joints = append(s.joints, j)
		jointIndex[jc.Name] = j
		linked[pairKey(parent, child)] = true
	}

	for i := range cfg.Actuators {
		ac := &cfg.Actuators[i]
		j, ok := jointIndex[ac.Joint]
		if !ok {
			return nil, fmt.Errorf("%w: actuator %q references unknown joint %q", ErrConfig, ac.Name, ac.Joint)
		}
		switch {
		case ac.Angle != nil && ac.Torque != nil:
			return nil, fmt.Errorf("%w: actuator %q sets both angle and torque modes", ErrConfig, ac.Name)
		case ac.Angle != nil:
			if j.DOF() > 2 {
				return nil, fmt.Errorf("%w: actuator %q: angle drive supports at most 2 degrees of freedom, joint %q has %d", ErrConfig, ac.Name, ac.Joint, j.DOF())
			}
			s.actuators = append(s.actuators, &actuator.Angle{Joint: j, Strength: ac.Strength})
		case ac.Torque != nil:
			s.actuators = append(s.actuators, &actuator.Torque{Joint: j, Strength: ac.Strength})
		default:
			return nil, fmt.Errorf("%w: actuator %q needs an angle or torque mode", ErrConfig, ac.Name)
		}
		s.actionDOF += j.DOF()
	}

	// Colliders on distinct bodies collide unless both bodies are
	// immovable or a joint already ties the bodies together.
	for ai := 0; ai < len(s.colliders); ai++ {
		for bi := ai + 1; bi < len(s.colliders); bi++ {
			ba, bb := s.colliders[ai].Body, s.colliders[bi].Body
			if ba == bb {
				continue
			}
			if !s.bodies[ba].Movable() && !s.bodies[bb].Movable() {
				continue
			}
			if linked[pairKey(ba, bb)] {
				continue
			}
			s.pairs = append(s.pairs, [2]int{ai, bi})
		}
	}

	return s, nil
}

func shapeOf(cc *ColliderConfig) (collide.Shape, error) {
	set := 0
	if cc.Plane != nil {
		set++
	}
	if cc.Box != nil {
		set++
	}
	if cc.Capsule != nil {
		set++
	}
	if set != 1 {
		return nil, fmt.Errorf("needs exactly one shape, got %d", set)
	}
	switch {
	case cc.Plane != nil:
		return collide.Plane{}, nil
	case cc.Box != nil:
		return collide.Box{HalfSize: cc.Box.HalfSize.Vec3()}, nil
	default:
		return collide.Capsule{Radius: cc.Capsule.Radius, Length: cc.Capsule.Length}, nil
	}
}

func allAxesFrozen(pos, rot mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if pos[i] == 0 || rot[i] == 0 {
			return false
		}
	}
	return true
}

func pairKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

// DefaultQP returns the rest state: every body at the origin with
// identity rotation and no velocity, then each joint's child translated
// so both anchors of the joint coincide.
func (s *System) DefaultQP() body.QP {
	qp := body.NewQP(len(s.bodies))
	for _, j := range s.joints {
		qp.Pos[j.Child] = qp.Pos[j.Parent].Add(j.ParentOffset).Sub(j.ChildOffset)
	}
	return qp
}

// NumBodies returns how many bodies the system simulates.
func (s *System) NumBodies() int {
	return len(s.bodies)
}

// BodyName returns the configured name of body i.
func (s *System) BodyName(i int) string {
	return s.bodies[i].Name
}

// BodyIndex resolves a configured body name to its state index.
func (s *System) BodyIndex(name string) (int, bool) {
	i, ok := s.names[name]
	return i, ok
}

// ActionSize returns the action vector length Step expects, the sum of
// the actuated joints' degrees of freedom.
func (s *System) ActionSize() int {
	return s.actionDOF
}

// Dt returns the simulated duration of one Step.
func (s *System) Dt() float64 {
	return s.dt
}
