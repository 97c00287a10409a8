// Package physics is a small fixed-step simulation of cube bodies inside a
// closed box-shaped arena. Bodies collide with the floor, the ceiling and the
// four walls, not with each other.
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/lo"
)

const (
	// restSpeed is the impact speed below which a contact no longer bounces
	// and is not reported as a collision.
	restSpeed = 1.0
	// snapSpeed is the linear speed under which a grounded box starts
	// toppling onto its nearest face.
	snapSpeed = 2.0
	// snapGain converts the remaining tilt, in radians, into angular speed.
	snapGain = 6.0
	// snapBlend is how fast, per second, the angular velocity of a toppling
	// box is steered toward the snap target.
	snapBlend = 10.0
	// contactSpinDrag scales friction into the spin lost per second on the
	// floor.
	contactSpinDrag = 8.0
	// sleepSpeed is the angular speed below which a grounded box stops
	// rotating.
	sleepSpeed = 1e-3
)

// Surface ...
type Surface int

const (
	SurfaceFloor Surface = iota
	SurfaceCeiling
	SurfaceWall
)

// String ...
func (s Surface) String() string {
	switch s {
	case SurfaceFloor:
		return "floor"
	case SurfaceCeiling:
		return "ceiling"
	default:
		return "wall"
	}
}

// Collision describes a box hitting the arena.
type Collision struct {
	Box     *Box
	Surface Surface
	// Speed is the velocity component into the surface at impact.
	Speed float64
}

// World holds the bodies and steps them.
type World struct {
	conf        Config
	boxes       []*Box
	nextID      int
	accumulator float64

	onCollide []func(Collision)
}

// NewWorld ...
func NewWorld(conf Config) *World {
	return &World{conf: conf}
}

// Config ...
func (w *World) Config() Config {
	return w.conf
}

// AddBox adds a cube of the given mass and edge length at pos.
func (w *World) AddBox(mass, size float64, pos mgl64.Vec3) *Box {
	b := newBox(w.nextID, mass, size, pos)
	w.nextID++
	w.boxes = append(w.boxes, b)
	return b
}

// SpawnRow adds n cubes on a row along X centred on the origin, spacing
// apart, at the given height.
func (w *World) SpawnRow(n int, mass, size, spacing, height float64) []*Box {
	boxes := make([]*Box, 0, n)
	for i := 0; i < n; i++ {
		x := (float64(i) - float64(n-1)/2) * spacing
		boxes = append(boxes, w.AddBox(mass, size, mgl64.Vec3{x, height, 0}))
	}
	return boxes
}

// RemoveBox ...
func (w *World) RemoveBox(b *Box) {
	w.boxes = lo.Without(w.boxes, b)
}

// Boxes ...
func (w *World) Boxes() []*Box {
	return w.boxes
}

// OnCollide registers f to be called, from within Step, for every impact
// with the arena.
func (w *World) OnCollide(f func(Collision)) {
	w.onCollide = append(w.onCollide, f)
}

// Step advances the world by elapsed seconds in fixed steps, running at most
// MaxSubSteps of them. Time left over is carried to the next call, except
// for whatever exceeds the sub-step budget, which is dropped. Step returns
// the simulated time.
func (w *World) Step(elapsed float64) float64 {
	h := w.conf.FixedStep()
	w.accumulator += elapsed

	var n int
	for ; w.accumulator >= h && n < w.conf.MaxSubSteps; n++ {
		w.step(h)
		w.accumulator -= h
	}
	w.accumulator = math.Mod(w.accumulator, h)
	return float64(n) * h
}

// StepOnce runs exactly one fixed step and returns its length.
func (w *World) StepOnce() float64 {
	h := w.conf.FixedStep()
	w.step(h)
	return h
}

// step ...
func (w *World) step(h float64) {
	for _, b := range w.boxes {
		w.integrate(b, h)
		w.collide(b)
		if b.grounded {
			w.settle(b, h)
		}
	}
}

// integrate moves b ballistically.
func (w *World) integrate(b *Box, h float64) {
	b.vel[1] += w.conf.Gravity * h
	b.vel = b.vel.Mul(math.Pow(1-w.conf.LinearDamping, h))
	b.angVel = b.angVel.Mul(math.Pow(1-w.conf.AngularDamping, h))

	b.pos = b.pos.Add(b.vel.Mul(h))
	spin := mgl64.Quat{V: b.angVel}.Mul(b.rot).Scale(0.5 * h)
	b.rot = b.rot.Add(spin).Normalize()
}

// collide keeps b inside the arena.
func (w *World) collide(b *Box) {
	e := b.extent()
	b.grounded = false

	if limit := w.conf.Floor + e[1]; b.pos[1] < limit {
		w.contact(b, 1, limit, -1, SurfaceFloor)
		b.grounded = true
	}
	if limit := w.conf.Ceiling - e[1]; b.pos[1] > limit {
		w.contact(b, 1, limit, 1, SurfaceCeiling)
	}
	for _, axis := range [2]int{0, 2} {
		if limit := w.conf.HalfWidth - e[axis]; b.pos[axis] > limit {
			w.contact(b, axis, limit, 1, SurfaceWall)
		}
		if limit := -w.conf.HalfWidth + e[axis]; b.pos[axis] < limit {
			w.contact(b, axis, limit, -1, SurfaceWall)
		}
	}
}

// contact pushes b back to limit along axis and reflects the part of its
// velocity heading through the surface. dir is the outward direction of the
// surface along axis.
func (w *World) contact(b *Box, axis int, limit, dir float64, s Surface) {
	b.pos[axis] = limit

	speed := b.vel[axis] * dir
	if speed <= 0 {
		return
	}
	bounce := speed * w.conf.Restitution
	if bounce < restSpeed {
		bounce = 0
	}
	b.vel[axis] = -bounce * dir

	if speed < restSpeed {
		return
	}
	if s == SurfaceFloor {
		// Hard landings scrub off spin.
		b.angVel = b.angVel.Mul(1 - w.conf.Friction)
	}
	c := Collision{Box: b, Surface: s, Speed: speed}
	for _, f := range w.onCollide {
		f(c)
	}
}

// settle applies floor friction and topples a slow box onto the face nearest
// to the floor, so boxes come to rest flat.
func (w *World) settle(b *Box, h float64) {
	horizontal := mgl64.Vec3{b.vel[0], 0, b.vel[2]}
	if speed := horizontal.Len(); speed > 0 {
		loss := w.conf.Friction * math.Abs(w.conf.Gravity) * h
		scale := math.Max(0, speed-loss) / speed
		b.vel[0] *= scale
		b.vel[2] *= scale
	}
	b.angVel = b.angVel.Mul(math.Max(0, 1-contactSpinDrag*w.conf.Friction*h))

	if b.vel.Len() < snapSpeed {
		n := b.upAxis()
		var target mgl64.Vec3
		if axis := n.Cross(up); axis.Len() > 1e-9 {
			tilt := math.Acos(mgl64.Clamp(n.Dot(up), -1, 1))
			target = axis.Normalize().Mul(tilt * snapGain)
		}
		// Spin about the vertical does not tilt the box; leave it to the drag.
		target[1] = b.angVel[1]
		b.angVel = b.angVel.Add(target.Sub(b.angVel).Mul(math.Min(1, snapBlend*h)))
	}

	if b.angVel.Len() < sleepSpeed {
		b.angVel = mgl64.Vec3{}
	}
}
