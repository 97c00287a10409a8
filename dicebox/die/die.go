// Package die turns the state of a cube rigid body into a thrown, settling,
// readable die.
package die

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Body is the rigid body behind a die. The die only reads its state and pushes
// on it; integration is left to the physics engine.
type Body interface {
	Position() mgl64.Vec3
	Orientation() mgl64.Quat
	LinearVelocity() mgl64.Vec3
	AngularVelocity() mgl64.Vec3
	// ApplyImpulse applies impulse at localPoint, given in the body frame
	// relative to its centre of mass.
	ApplyImpulse(impulse, localPoint mgl64.Vec3)
}

// Rand is the source used to pick where a throw lands on the die.
// *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Config ...
type Config struct {
	// Mass and Size (edge length) of the cube body.
	Mass float64
	Size float64

	// ThrowStrength scales the vector from the die to ThrowTarget into the
	// throw impulse.
	ThrowStrength float64
	ThrowTarget   mgl64.Vec3

	// SettleLinear and SettleAngular are the speeds under which a die counts
	// as at rest. They are tuned against a 1/120 s step.
	SettleLinear  float64
	SettleAngular float64

	// Margin is the angular tolerance, in radians, of FaceOf.
	Margin float64
}

// DefaultConfig ...
func DefaultConfig() Config {
	return Config{
		Mass:          8,
		Size:          2,
		ThrowStrength: 12,
		ThrowTarget:   mgl64.Vec3{0, 5, 0},
		SettleLinear:  0.08,
		SettleAngular: 0.08,
		Margin:        0.05,
	}
}

// Die is a single cube die. It is not safe for concurrent use; all calls are
// expected from the goroutine that steps the physics.
type Die struct {
	body Body
	conf Config
	rng  Rand

	settled bool
	face    Face
}

// New wraps body into a die. rng decides where throws are applied.
func New(body Body, conf Config, rng Rand) *Die {
	return &Die{body: body, conf: conf, rng: rng}
}

// Throw launches the die toward the throw target. The impulse is applied off
// centre at a random point inside the cube so the die also spins. The die is
// unsettled and unresolved until a later Advance says otherwise.
func (d *Die) Throw() {
	d.settled = false
	d.face = Unresolved

	point := mgl64.Vec3{d.offset(), d.offset(), d.offset()}
	impulse := d.conf.ThrowTarget.Sub(d.body.Position()).Mul(d.conf.ThrowStrength)
	d.body.ApplyImpulse(impulse, point)
}

// offset ...
func (d *Die) offset() float64 {
	return (d.rng.Float64() - 0.5) * d.conf.Size
}

// Advance refreshes the settled flag and the face value from the body. It is
// called once per physics step, after the step. The face is recomputed even
// mid-tumble, so it is only meaningful once the die has settled.
func (d *Die) Advance(float64) {
	d.settled = d.body.AngularVelocity().Len() < d.conf.SettleAngular &&
		d.body.LinearVelocity().Len() < d.conf.SettleLinear
	d.face = FaceOf(d.body.Orientation(), d.conf.Margin)
}

// Settled ...
func (d *Die) Settled() bool {
	return d.settled
}

// Face returns the face computed by the last Advance.
func (d *Die) Face() Face {
	return d.face
}

// Body ...
func (d *Die) Body() Body {
	return d.body
}
