package die

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// gimbalThreshold is the value of x*y + z*w above which the attitude is
// treated as exactly +-pi/2. It corresponds to roughly 0.02 rad from the pole,
// well inside the face tolerance.
const gimbalThreshold = 0.4999

// Euler holds an orientation as intrinsic Y-Z-X angles in radians: a heading
// about Y, then an attitude about Z, then a bank about X. The attitude lies in
// [-pi/2, pi/2]; heading and bank lie in (-pi, pi].
type Euler struct {
	X, Y, Z float64
}

// EulerYZX decomposes q so that q == Ry(e.Y) * Rz(e.Z) * Rx(e.X). The
// heading about the vertical axis never changes which face points up, which
// is what lets FaceOf ignore e.Y.
func EulerYZX(q mgl64.Quat) Euler {
	q = q.Normalize()
	x, y, z, w := q.V[0], q.V[1], q.V[2], q.W

	test := x*y + z*w
	switch {
	case test > gimbalThreshold:
		return Euler{Y: 2 * math.Atan2(x, w), Z: math.Pi / 2}
	case test < -gimbalThreshold:
		return Euler{Y: -2 * math.Atan2(x, w), Z: -math.Pi / 2}
	}

	sqx, sqy, sqz := x*x, y*y, z*z
	return Euler{
		X: math.Atan2(2*x*w-2*y*z, 1-2*sqx-2*sqz),
		Y: math.Atan2(2*y*w-2*x*z, 1-2*sqy-2*sqz),
		Z: math.Asin(mgl64.Clamp(2*test, -1, 1)),
	}
}
