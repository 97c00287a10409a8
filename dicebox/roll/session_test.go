package roll

import (
	"math"
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/smell-of-curry/dicebox/dicebox/die"
)

const step = 1.0 / 120

// fakeDie is driven directly by the test.
type fakeDie struct {
	settled  bool
	face     die.Face
	throws   int
	advances int
}

func (d *fakeDie) Throw() {
	d.throws++
	d.settled = false
	d.face = die.Unresolved
}

func (d *fakeDie) Advance(float64) { d.advances++ }
func (d *fakeDie) Settled() bool   { return d.settled }
func (d *fakeDie) Face() die.Face  { return d.face }

func restingDice(faces ...die.Face) []*fakeDie {
	out := make([]*fakeDie, 0, len(faces))
	for _, f := range faces {
		out = append(out, &fakeDie{settled: true, face: f})
	}
	return out
}

// body is a rigid body whose state is set by the test.
type body struct {
	lin, ang mgl64.Vec3
	rot      mgl64.Quat
	impulses int
}

func (b *body) Position() mgl64.Vec3        { return mgl64.Vec3{0, -4, 0} }
func (b *body) Orientation() mgl64.Quat     { return b.rot }
func (b *body) LinearVelocity() mgl64.Vec3  { return b.lin }
func (b *body) AngularVelocity() mgl64.Vec3 { return b.ang }

func (b *body) ApplyImpulse(impulse, _ mgl64.Vec3) {
	b.impulses++
	b.lin = b.lin.Add(impulse)
}

type halfRand struct{}

func (halfRand) Float64() float64 { return 0.5 }

func tickFor(s *Session, seconds float64) {
	for n := int(math.Round(seconds / step)); n > 0; n-- {
		s.Tick(step)
	}
}

func TestSession_PublishesRestingDice(t *testing.T) {
	four := &body{rot: die.CanonicalOrientation(4)}
	five := &body{rot: die.CanonicalOrientation(5)}
	dice := []*die.Die{
		die.New(four, die.DefaultConfig(), halfRand{}),
		die.New(five, die.DefaultConfig(), halfRand{}),
	}
	s := NewSession(dice, DefaultDebounce)

	var published []Result
	s.OnResult(func(r Result) { published = append(published, r) })

	tickFor(s, 0.6)

	if !s.Finished() {
		t.Fatal("expected session to be finished")
	}
	r, ok := s.Result()
	if !ok {
		t.Fatal("expected a published result")
	}
	if !reflect.DeepEqual(r.Values, []int{4, 5}) || r.Sum != 9 {
		t.Errorf("expected [4 5] = 9, got %v = %d", r.Values, r.Sum)
	}

	tickFor(s, 1)
	if len(published) != 1 {
		t.Errorf("expected the result to be published once, got %d", len(published))
	}
	if s.State() != StateIdle {
		t.Errorf("expected idle, got %v", s.State())
	}
}

func TestSession_RethrowsUnresolvedDie(t *testing.T) {
	flat := &body{rot: die.CanonicalOrientation(1)}
	edge := &body{rot: mgl64.QuatRotate(1.2, mgl64.Vec3{1, 0, 0})}
	dice := []*die.Die{
		die.New(flat, die.DefaultConfig(), halfRand{}),
		die.New(edge, die.DefaultConfig(), halfRand{}),
	}
	s := NewSession(dice, DefaultDebounce)

	var published []Result
	var rethrown []int
	s.OnResult(func(r Result) { published = append(published, r) })
	s.OnRethrow(func(i int) { rethrown = append(rethrown, i) })

	tickFor(s, 0.6)

	if edge.impulses != 1 {
		t.Fatalf("expected the die on its edge to be thrown again, got %d impulses", edge.impulses)
	}
	if flat.impulses != 0 {
		t.Errorf("expected the resolved die to stay put, got %d impulses", flat.impulses)
	}
	if !reflect.DeepEqual(rethrown, []int{1}) {
		t.Errorf("expected rethrow of die 1, got %v", rethrown)
	}
	if s.Finished() {
		t.Error("expected session not to be finished while a die is re-thrown")
	}
	if _, ok := s.Result(); ok {
		t.Error("expected no result while a die is re-thrown")
	}

	// Still moving: nothing gets published however long we wait.
	tickFor(s, 1)
	if len(published) != 0 {
		t.Fatalf("expected nothing published, got %v", published)
	}
	if s.State() != StateInFlight {
		t.Errorf("expected in flight, got %v", s.State())
	}

	edge.lin = mgl64.Vec3{}
	edge.rot = die.CanonicalOrientation(2)
	tickFor(s, 0.6)

	if len(published) != 1 {
		t.Fatalf("expected one published result, got %d", len(published))
	}
	if r := published[0]; !reflect.DeepEqual(r.Values, []int{1, 2}) || r.Sum != 3 {
		t.Errorf("expected [1 2] = 3, got %v = %d", r.Values, r.Sum)
	}
	if s.Rethrows() != 1 {
		t.Errorf("expected 1 rethrow, got %d", s.Rethrows())
	}
}

func TestSession_ThrowAllIgnoredUntilFinished(t *testing.T) {
	dice := restingDice(1, 2)
	s := NewSession(dice, DefaultDebounce)

	if s.ThrowAll() {
		t.Error("expected throw to be refused before the first result")
	}
	tickFor(s, 0.25)
	if s.ThrowAll() {
		t.Error("expected throw to be refused while settling")
	}
	for i, d := range dice {
		if d.throws != 0 {
			t.Errorf("die %d: expected no throws, got %d", i, d.throws)
		}
	}
}

func TestSession_ThrowAllIgnoredInFlight(t *testing.T) {
	dice := restingDice(3, 6)
	s := NewSession(dice, DefaultDebounce)
	tickFor(s, 0.6)

	if !s.ThrowAll() {
		t.Fatal("expected throw to be accepted once finished")
	}
	if s.State() != StateInFlight || s.Finished() {
		t.Errorf("expected in flight and unfinished, got %v finished=%v", s.State(), s.Finished())
	}
	if _, ok := s.Result(); ok {
		t.Error("expected previous result to be withdrawn")
	}

	for i := 0; i < 5; i++ {
		if s.ThrowAll() {
			t.Fatal("expected repeated throw to be ignored")
		}
		s.Tick(step)
	}
	for i, d := range dice {
		if d.throws != 1 {
			t.Errorf("die %d: expected exactly one throw, got %d", i, d.throws)
		}
	}
}

func TestSession_TimerResetsOnMotion(t *testing.T) {
	dice := restingDice(2, 2)
	s := NewSession(dice, DefaultDebounce)

	for i := 0; i < 3; i++ {
		s.Tick(0.125)
	}
	if s.Timer() != 0.375 {
		t.Fatalf("expected timer 0.375, got %v", s.Timer())
	}
	if s.State() != StateSettling {
		t.Errorf("expected settling, got %v", s.State())
	}

	dice[1].settled = false
	s.Tick(0.125)
	if s.Timer() != 0 {
		t.Errorf("expected timer reset, got %v", s.Timer())
	}
	if s.State() != StateInFlight {
		t.Errorf("expected in flight, got %v", s.State())
	}
}

func TestSession_DebounceIsStrict(t *testing.T) {
	dice := restingDice(1)
	s := NewSession(dice, DefaultDebounce)

	for i := 0; i < 4; i++ {
		s.Tick(0.125)
	}
	if s.Finished() {
		t.Fatalf("expected not finished at exactly %v", s.Timer())
	}
	s.Tick(0.125)
	if !s.Finished() {
		t.Fatalf("expected finished at %v", s.Timer())
	}
}

func TestSession_InterruptionAtDebounceEdge(t *testing.T) {
	dice := restingDice(5)
	s := NewSession(dice, DefaultDebounce)

	for i := 0; i < 7; i++ {
		s.Tick(0.07)
	}
	dice[0].settled = false
	s.Tick(0.07)
	dice[0].settled = true

	for i := 0; i < 7; i++ {
		s.Tick(0.07)
		if s.Finished() {
			t.Fatalf("tick %d: expected progress to restart after the interruption", i)
		}
	}
	s.Tick(0.07)
	if !s.Finished() {
		t.Error("expected finished after an uninterrupted 0.56")
	}
}

func TestSession_NeverFinishedWhileMoving(t *testing.T) {
	dice := restingDice(1, 2, 3)
	s := NewSession(dice, DefaultDebounce)

	pattern := []bool{true, true, false, true, true, true, true, true, false, true}
	for i := 0; i < 400; i++ {
		dice[i%3].settled = pattern[i%len(pattern)]
		if dice[i%3].settled {
			dice[i%3].face = die.Face(i%3 + 1)
		}
		s.Tick(0.05)

		if s.Finished() {
			for j, d := range dice {
				if !d.Settled() {
					t.Fatalf("tick %d: finished while die %d is moving", i, j)
				}
			}
		}
	}
}

func TestSession_AdvancesEveryDie(t *testing.T) {
	dice := restingDice(1, 1, 1)
	s := NewSession(dice, DefaultDebounce)
	for i := 0; i < 10; i++ {
		s.Tick(step)
	}

	for i, d := range dice {
		if d.advances != 10 {
			t.Errorf("die %d: expected 10 advances, got %d", i, d.advances)
		}
	}
	if s.Len() != 3 {
		t.Errorf("expected 3 dice, got %d", s.Len())
	}
}

func TestState_String(t *testing.T) {
	tests := map[State]string{
		StateIdle:     "idle",
		StateInFlight: "in_flight",
		StateSettling: "settling",
		StateCheck:    "check",
		State(42):     "unknown",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}
