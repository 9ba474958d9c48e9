package body

import "github.com/go-gl/mathgl/mgl64"

// RotationFrom builds the orientation for extrinsic X·Y·Z Euler angles
// given in degrees, the convention used by collider and joint-frame
// rotations in scene configuration.
func RotationFrom(eulerDeg mgl64.Vec3) mgl64.Quat {
	rx := mgl64.QuatRotate(mgl64.DegToRad(eulerDeg.X()), mgl64.Vec3{1, 0, 0})
	ry := mgl64.QuatRotate(mgl64.DegToRad(eulerDeg.Y()), mgl64.Vec3{0, 1, 0})
	rz := mgl64.QuatRotate(mgl64.DegToRad(eulerDeg.Z()), mgl64.Vec3{0, 0, 1})
	return rz.Mul(ry).Mul(rx).Normalize()
}
