package brax

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

var (
	// ErrConfig reports an invalid scene configuration.
	ErrConfig = errors.New("brax: invalid scene config")
	// ErrActionSize reports an action vector whose length does not match
	// the system's actuated degrees of freedom.
	ErrActionSize = errors.New("brax: action length mismatch")
	// ErrStateSize reports a state whose body count does not match the
	// system's.
	ErrStateSize = errors.New("brax: state size mismatch")
)

// Config describes a scene: global integration parameters plus the
// bodies, joints and actuators in it. Distances are meters, angles in
// configuration are degrees, time is seconds.
type Config struct {
	// Dt is the duration one Step advances. Substeps divides it into
	// integration slices; zero means one substep.
	Dt       float64 `yaml:"dt"`
	Substeps int     `yaml:"substeps"`

	Friction   float64 `yaml:"friction"`
	Elasticity float64 `yaml:"elasticity"`
	// BaumgarteERP scales the positional error fed back into contact
	// impulses. Zero picks the 0.1 default.
	BaumgarteERP float64 `yaml:"baumgarte_erp"`

	Gravity Vec3Config `yaml:"gravity"`

	Bodies    []BodyConfig     `yaml:"bodies"`
	Joints    []JointConfig    `yaml:"joints"`
	Actuators []ActuatorConfig `yaml:"actuators"`
}

// Vec3Config is a vector in configuration files; omitted components are
// zero.
type Vec3Config struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Vec3 converts to the math type.
func (v Vec3Config) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// FrozenConfig pins a body in place, either entirely or per world axis.
// Mask components are 1 to freeze, 0 to leave free.
type FrozenConfig struct {
	All      bool       `yaml:"all"`
	Position Vec3Config `yaml:"position"`
	Rotation Vec3Config `yaml:"rotation"`
}

// BodyConfig describes one rigid body. Inertia left nil derives from the
// first collider shape, or the unit tensor without colliders.
type BodyConfig struct {
	Name      string           `yaml:"name"`
	Mass      float64          `yaml:"mass"`
	Inertia   *Vec3Config      `yaml:"inertia"`
	Frozen    FrozenConfig     `yaml:"frozen"`
	Colliders []ColliderConfig `yaml:"colliders"`
}

// ColliderConfig attaches exactly one shape to a body, offset and
// rotated (degrees) in the body frame.
type ColliderConfig struct {
	Position Vec3Config     `yaml:"position"`
	Rotation Vec3Config     `yaml:"rotation"`
	Plane    *PlaneConfig   `yaml:"plane"`
	Box      *BoxConfig     `yaml:"box"`
	Capsule  *CapsuleConfig `yaml:"capsule"`
}

// PlaneConfig is the infinite ground plane. Plane colliders require a
// frozen body.
type PlaneConfig struct{}

// BoxConfig is a box given by half extents.
type BoxConfig struct {
	HalfSize Vec3Config `yaml:"halfsize"`
}

// CapsuleConfig is a capsule along the collider z axis; Length counts
// tip to tip, caps included.
type CapsuleConfig struct {
	Radius float64 `yaml:"radius"`
	Length float64 `yaml:"length"`
}

// JointConfig connects a child body to a parent body. The number of
// angle limit pairs sets the degrees of freedom, up to three. An empty
// list defaults to one locked pair.
type JointConfig struct {
	Name         string     `yaml:"name"`
	Parent       string     `yaml:"parent"`
	Child        string     `yaml:"child"`
	ParentOffset Vec3Config `yaml:"parent_offset"`
	ChildOffset  Vec3Config `yaml:"child_offset"`
	// Rotation orients the joint frame in the parent body frame,
	// degrees.
	Rotation Vec3Config `yaml:"rotation"`

	Stiffness float64 `yaml:"stiffness"`
	// SpringDamping damps the anchor spring; zero picks 2·√stiffness.
	SpringDamping  float64 `yaml:"spring_damping"`
	AngularDamping float64 `yaml:"angular_damping"`
	// LimitStrength scales the limit restoring torque; zero picks the
	// joint stiffness.
	LimitStrength float64            `yaml:"limit_strength"`
	AngleLimits   []AngleLimitConfig `yaml:"angle_limits"`
}

// AngleLimitConfig bounds one degree of freedom, degrees.
type AngleLimitConfig struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// ActuatorConfig drives one joint. Exactly one of Angle or Torque picks
// the drive mode.
type ActuatorConfig struct {
	Name     string        `yaml:"name"`
	Joint    string        `yaml:"joint"`
	Strength float64       `yaml:"strength"`
	Angle    *AngleConfig  `yaml:"angle"`
	Torque   *TorqueConfig `yaml:"torque"`
}

// AngleConfig selects target-angle drive, actions in degrees.
type AngleConfig struct{}

// TorqueConfig selects raw torque drive.
type TorqueConfig struct{}

// ParseConfig decodes a scene configuration from YAML.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// LoadConfig reads a scene configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return ParseConfig(data)
}
