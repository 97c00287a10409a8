package die

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Face is the value shown on the upward face of a die.
type Face int

// Unresolved is reported while a die rests on an edge or a corner, or while
// it tumbles through an orientation that matches no face.
const Unresolved Face = 0

// Resolved reports whether f is one of the six face values.
func (f Face) Resolved() bool {
	return f >= 1 && f <= 6
}

// FaceOf resolves the face pointing up for orientation q. An orientation is
// accepted when its Euler angles lie within margin radians of one of the six
// canonical rotations:
//
//	attitude  bank    face
//	0         0       1
//	0         pi/2    3
//	0         -pi/2   4
//	0         +-pi    6
//	pi/2      any     5
//	-pi/2     any     2
//
// The table follows the pip layout of the die model: local +Y shows 1, -X
// shows 2, -Z shows 3, +Z shows 4, +X shows 5 and -Y shows 6.
func FaceOf(q mgl64.Quat, margin float64) Face {
	e := EulerYZX(q)
	near := func(a, b float64) bool {
		return math.Abs(a-b) < margin
	}

	switch {
	case near(e.Z, 0):
		switch {
		case near(e.X, 0):
			return 1
		case near(e.X, math.Pi/2):
			return 3
		case near(e.X, -math.Pi/2):
			return 4
		case near(math.Abs(e.X), math.Pi):
			return 6
		}
		return Unresolved
	case near(e.Z, math.Pi/2):
		return 5
	case near(e.Z, -math.Pi/2):
		return 2
	}
	return Unresolved
}

// CanonicalOrientation returns the rotation that rests f face up with no
// heading. It returns the identity for Unresolved.
func CanonicalOrientation(f Face) mgl64.Quat {
	switch f {
	case 2:
		return mgl64.QuatRotate(-math.Pi/2, mgl64.Vec3{0, 0, 1})
	case 3:
		return mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{1, 0, 0})
	case 4:
		return mgl64.QuatRotate(-math.Pi/2, mgl64.Vec3{1, 0, 0})
	case 5:
		return mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1})
	case 6:
		return mgl64.QuatRotate(math.Pi, mgl64.Vec3{1, 0, 0})
	}
	return mgl64.QuatIdent()
}
