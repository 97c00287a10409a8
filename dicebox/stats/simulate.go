// Package stats rolls dice headlessly, as fast as the physics allows, to look
// at the distribution of the results.
package stats

import (
	"errors"
	"fmt"
	"io"

	"github.com/samber/lo"
	"github.com/schollz/progressbar/v3"
	"github.com/smell-of-curry/dicebox/dicebox/die"
	"github.com/smell-of-curry/dicebox/dicebox/physics"
	"github.com/smell-of-curry/dicebox/dicebox/roll"
)

// ErrStalled is returned when the dice do not produce a result within the step
// budget of a single roll.
var ErrStalled = errors.New("dice did not come to rest")

// Config ...
type Config struct {
	Physics physics.Config
	Die     die.Config

	Count       int
	Spacing     float64
	SpawnHeight float64

	// Debounce is in seconds.
	Debounce float64
	// MaxSteps is the step budget of one roll.
	MaxSteps int
}

// Report sums up a simulation.
type Report struct {
	Rolls int
	// Faces counts how often each face came up, indexed by face value.
	Faces [7]int
	// Sums counts how often each total came up.
	Sums     map[int]int
	Rethrows int
	// Steps is the number of physics steps the rolls took together.
	Steps int
}

// Mean returns the average total of a roll.
func (r Report) Mean() float64 {
	if r.Rolls == 0 {
		return 0
	}
	total := lo.Sum(lo.MapToSlice(r.Sums, func(sum, n int) int { return sum * n }))
	return float64(total) / float64(r.Rolls)
}

// Simulate throws conf.Count dice n times in a fresh world and reports the
// results. Progress is drawn to out.
func Simulate(conf Config, n int, rng die.Rand, out io.Writer) (Report, error) {
	if n < 1 {
		return Report{}, fmt.Errorf("simulate: need at least one roll, got %d", n)
	}
	if conf.Count < 1 {
		return Report{}, fmt.Errorf("simulate: need at least one die, got %d", conf.Count)
	}

	w := physics.NewWorld(conf.Physics)
	boxes := w.SpawnRow(conf.Count, conf.Die.Mass, conf.Die.Size, conf.Spacing, conf.SpawnHeight)
	dice := lo.Map(boxes, func(b *physics.Box, _ int) *die.Die {
		return die.New(b, conf.Die, rng)
	})
	s := roll.NewSession(dice, conf.Debounce)

	var (
		last roll.Result
		done bool
	)
	s.OnResult(func(r roll.Result) {
		last, done = r, true
	})
	wait := func() (int, error) {
		done = false
		for steps := 1; steps <= conf.MaxSteps; steps++ {
			s.Tick(w.StepOnce())
			if done {
				return steps, nil
			}
		}
		return conf.MaxSteps, ErrStalled
	}

	// The dice are dropped into the box first. That landing is not a roll.
	if _, err := wait(); err != nil {
		return Report{}, fmt.Errorf("simulate: drop: %w", err)
	}
	spawnRethrows := s.Rethrows()

	bar := progressbar.NewOptions(n,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription("Rolling dice"),
	)
	report := Report{Sums: make(map[int]int)}
	for i := 0; i < n; i++ {
		if !s.ThrowAll() {
			return report, fmt.Errorf("simulate: roll %d: dice not at rest", i)
		}
		steps, err := wait()
		report.Steps += steps
		if err != nil {
			return report, fmt.Errorf("simulate: roll %d: %w", i, err)
		}

		report.Rolls++
		report.Sums[last.Sum]++
		for _, v := range last.Values {
			report.Faces[v]++
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	report.Rethrows = s.Rethrows() - spawnRethrows
	return report, nil
}
