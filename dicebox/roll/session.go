// Package roll coordinates a group of dice through a throw: it decides when
// they have come to rest long enough to be read and re-throws any die that
// landed on an edge.
package roll

import (
	"github.com/samber/lo"
	"github.com/smell-of-curry/dicebox/dicebox/die"
)

// DefaultDebounce is how long, in seconds, every die has to stay settled
// before the faces are read.
const DefaultDebounce = 0.5

// Die is the part of a die the session drives. *die.Die satisfies it.
type Die interface {
	Throw()
	Advance(dt float64)
	Settled() bool
	Face() die.Face
}

// Result is a published roll. Values follow the order of the dice in the
// session.
type Result struct {
	Values []int `json:"values"`
	Sum    int   `json:"sum"`
}

// Session drives a fixed collection of dice. It holds the dice without owning
// them and must not outlive whoever does. Like the dice, it is meant to be
// used from a single goroutine.
type Session struct {
	dice     []Die
	debounce float64

	state     State
	timer     float64
	finished  bool
	published bool
	result    Result
	rethrows  int

	onResult  []func(Result)
	onRethrow []func(index int)
}

// NewSession creates a session over dice. debounce is the time, in the same
// unit as the dt passed to Tick, the dice must stay settled before a result
// is read. The session starts out unfinished; the first Tick calls tell it
// whether the dice are already at rest.
func NewSession[D Die](dice []D, debounce float64) *Session {
	return &Session{
		dice:     lo.Map(dice, func(d D, _ int) Die { return d }),
		debounce: debounce,
		state:    StateIdle,
	}
}

// OnResult registers f to be called every time a roll is published.
func (s *Session) OnResult(f func(Result)) {
	s.onResult = append(s.onResult, f)
}

// OnRethrow registers f to be called with the index of every die that is
// thrown again because it could not be read.
func (s *Session) OnRethrow(f func(index int)) {
	s.onRethrow = append(s.onRethrow, f)
}

// ThrowAll throws every die. It only does so when the previous roll is
// finished and every die is at rest, and reports whether the throw happened.
// A refused request is dropped, never queued.
func (s *Session) ThrowAll() bool {
	if !s.finished || !s.allSettled() {
		return false
	}

	s.reset()
	for _, d := range s.dice {
		d.Throw()
	}
	return true
}

// Tick advances every die by dt and moves the session along. When the dice
// have stayed settled for longer than the debounce the faces are read: if all
// of them resolve the result is published once, otherwise the unresolved dice
// alone are thrown again.
func (s *Session) Tick(dt float64) {
	for _, d := range s.dice {
		d.Advance(dt)
	}

	if !s.allSettled() {
		s.reset()
		return
	}

	s.timer += dt
	s.finished = s.timer > s.debounce
	if !s.finished {
		s.state = StateSettling
		return
	}
	if s.published {
		return
	}

	s.state = StateCheck
	if s.rethrowUnresolved() {
		return
	}

	values := lo.Map(s.dice, func(d Die, _ int) int { return int(d.Face()) })
	s.result = Result{Values: values, Sum: lo.Sum(values)}
	s.published = true
	s.state = StateIdle

	for _, f := range s.onResult {
		f(s.result)
	}
}

// rethrowUnresolved throws every die whose face cannot be read and reports
// whether there was any.
func (s *Session) rethrowUnresolved() bool {
	var thrown bool
	for i, d := range s.dice {
		if d.Face().Resolved() {
			continue
		}
		if !thrown {
			s.reset()
			thrown = true
		}
		d.Throw()
		s.rethrows++
		for _, f := range s.onRethrow {
			f(i)
		}
	}
	return thrown
}

// reset puts the session back in flight.
func (s *Session) reset() {
	s.timer = 0
	s.finished = false
	s.published = false
	s.state = StateInFlight
}

// allSettled ...
func (s *Session) allSettled() bool {
	return lo.EveryBy(s.dice, func(d Die) bool { return d.Settled() })
}

// Finished reports whether the dice have been at rest for longer than the
// debounce. It is never true while a die is moving.
func (s *Session) Finished() bool {
	return s.finished
}

// Result returns the published roll. ok is false until the current roll has
// been published.
func (s *Session) Result() (r Result, ok bool) {
	if !s.finished || !s.published {
		return Result{}, false
	}
	return s.result, true
}

// State ...
func (s *Session) State() State {
	return s.state
}

// Timer returns how long the dice have been at rest.
func (s *Session) Timer() float64 {
	return s.timer
}

// Rethrows returns how many times a single die has been thrown again over the
// lifetime of the session.
func (s *Session) Rethrows() int {
	return s.rethrows
}

// Len ...
func (s *Session) Len() int {
	return len(s.dice)
}
