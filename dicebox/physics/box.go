package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Box is a cube rigid body.
type Box struct {
	id int

	invMass    float64
	invInertia float64
	halfExtent float64

	pos    mgl64.Vec3
	vel    mgl64.Vec3
	rot    mgl64.Quat
	angVel mgl64.Vec3

	grounded bool
}

// newBox creates a cube of the given mass and edge length resting at pos.
func newBox(id int, mass, size float64, pos mgl64.Vec3) *Box {
	// Solid cube: I = m * s^2 / 6 about every axis through the centre.
	inertia := mass * size * size / 6
	return &Box{
		id:         id,
		invMass:    1 / mass,
		invInertia: 1 / inertia,
		halfExtent: size / 2,
		pos:        pos,
		rot:        mgl64.QuatIdent(),
	}
}

// ID ...
func (b *Box) ID() int {
	return b.id
}

// Position ...
func (b *Box) Position() mgl64.Vec3 {
	return b.pos
}

// Orientation ...
func (b *Box) Orientation() mgl64.Quat {
	return b.rot
}

// LinearVelocity ...
func (b *Box) LinearVelocity() mgl64.Vec3 {
	return b.vel
}

// AngularVelocity returns the angular velocity in world space.
func (b *Box) AngularVelocity() mgl64.Vec3 {
	return b.angVel
}

// Grounded reports whether the box touched the floor during the last step.
func (b *Box) Grounded() bool {
	return b.grounded
}

// HalfExtent ...
func (b *Box) HalfExtent() float64 {
	return b.halfExtent
}

// SetOrientation places the box in orientation q and stops it spinning.
func (b *Box) SetOrientation(q mgl64.Quat) {
	b.rot = q.Normalize()
	b.angVel = mgl64.Vec3{}
}

// ApplyImpulse changes both the linear and the angular momentum of the box.
// localPoint is relative to the centre of mass in the body frame.
func (b *Box) ApplyImpulse(impulse, localPoint mgl64.Vec3) {
	b.vel = b.vel.Add(impulse.Mul(b.invMass))
	r := b.rot.Rotate(localPoint)
	b.angVel = b.angVel.Add(r.Cross(impulse).Mul(b.invInertia))
}

// extent returns how far the box reaches from its centre along each world
// axis.
func (b *Box) extent() mgl64.Vec3 {
	var e mgl64.Vec3
	for _, axis := range localAxes {
		w := b.rot.Rotate(axis)
		e = e.Add(mgl64.Vec3{math.Abs(w[0]), math.Abs(w[1]), math.Abs(w[2])})
	}
	return e.Mul(b.halfExtent)
}

// upAxis returns, in world space, the face normal of the box pointing most
// nearly up.
func (b *Box) upAxis() mgl64.Vec3 {
	best, bestDot := mgl64.Vec3{}, -2.0
	for _, axis := range localAxes {
		w := b.rot.Rotate(axis)
		for _, n := range [2]mgl64.Vec3{w, w.Mul(-1)} {
			if d := n.Dot(up); d > bestDot {
				best, bestDot = n, d
			}
		}
	}
	return best
}

var (
	up        = mgl64.Vec3{0, 1, 0}
	localAxes = [3]mgl64.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
)
