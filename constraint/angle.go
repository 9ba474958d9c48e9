package constraint

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// poleEps bounds how close the middle angle may come to ±90 degrees
// before the euler extraction switches to its degenerate form.
const poleEps = 1e-12

// SignedAngle measures the rotation about axis that carries refP onto
// refC, in (-π, π]. Both references must be perpendicular to the axis.
func SignedAngle(axis, refP, refC mgl64.Vec3) float64 {
	return math.Atan2(refP.Cross(refC).Dot(axis), refP.Dot(refC))
}

// eulerXYZ extracts intrinsic x-y-z angles from a rotation matrix.
func eulerXYZ(m mgl64.Mat3) (float64, float64, float64) {
	s := mgl64.Clamp(m.At(0, 2), -1, 1)
	if s >= 1-poleEps {
		return math.Atan2(m.At(1, 0), m.At(1, 1)), math.Pi / 2, 0
	}
	if s <= -1+poleEps {
		return math.Atan2(-m.At(1, 0), m.At(1, 1)), -math.Pi / 2, 0
	}
	phi1 := math.Atan2(-m.At(1, 2), m.At(2, 2))
	phi2 := math.Asin(s)
	phi3 := math.Atan2(-m.At(0, 1), m.At(0, 0))
	return phi1, phi2, phi3
}
