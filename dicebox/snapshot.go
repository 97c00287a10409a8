package dicebox

import (
	"slices"

	"github.com/samber/lo"
	"github.com/smell-of-curry/dicebox/dicebox/die"
	"github.com/smell-of-curry/dicebox/dicebox/display"
	"github.com/smell-of-curry/dicebox/dicebox/roll"
)

// Snapshot is the state of the dice box after a tick. It is immutable once
// stored and safe to share between goroutines.
type Snapshot struct {
	State      string        `json:"state"`
	Finished   bool          `json:"finished"`
	Result     *roll.Result  `json:"result,omitempty"`
	Expression string        `json:"expression,omitempty"`
	Rethrows   int           `json:"rethrows"`
	Seed       int64         `json:"seed"`
	Dice       []DieState    `json:"dice"`
	History    []roll.Result `json:"history"`
}

// DieState is what a renderer needs to draw a single die.
type DieState struct {
	Position [3]float64 `json:"position"`
	// Orientation is the quaternion as w, x, y, z.
	Orientation [4]float64 `json:"orientation"`
	Settled     bool       `json:"settled"`
	Face        int        `json:"face"`
}

// snapshot builds a Snapshot of the current state. It must run on the tick
// goroutine.
func (d *DiceBox) snapshot() Snapshot {
	s := Snapshot{
		State:    d.session.State().String(),
		Finished: d.session.Finished(),
		Rethrows: d.session.Rethrows(),
		Seed:     d.seed,
		History:  slices.Clone(d.history),
		Dice: lo.Map(d.dice, func(x *die.Die, _ int) DieState {
			b := x.Body()
			q := b.Orientation()
			return DieState{
				Position:    b.Position(),
				Orientation: [4]float64{q.W, q.V[0], q.V[1], q.V[2]},
				Settled:     x.Settled(),
				Face:        int(x.Face()),
			}
		}),
	}
	if r, ok := d.session.Result(); ok {
		s.Result = &r
		s.Expression = display.Expression(d.tag, r.Values, r.Sum)
	}
	return s
}

// storeSnapshot publishes the current state to Snapshot callers.
func (d *DiceBox) storeSnapshot() {
	d.snap.Store(d.snapshot())
}
