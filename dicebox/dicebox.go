// Package dicebox runs a box of dice: it steps the physics, drives the roll
// session and serves the state of the dice over HTTP.
package dicebox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/df-mc/atomic"
	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/smell-of-curry/dicebox/dicebox/die"
	"github.com/smell-of-curry/dicebox/dicebox/display"
	"github.com/smell-of-curry/dicebox/dicebox/internal"
	"github.com/smell-of-curry/dicebox/dicebox/physics"
	"github.com/smell-of-curry/dicebox/dicebox/random"
	"github.com/smell-of-curry/dicebox/dicebox/roll"
	"golang.org/x/text/language"
)

var (
	// ErrRollInProgress is returned when the dice are changed while they are
	// still rolling.
	ErrRollInProgress = errors.New("roll in progress")
	// ErrInvalidDiceCount is returned for a dice count outside of
	// [1, MaxCount].
	ErrInvalidDiceCount = errors.New("invalid dice count")
)

// DiceBox represents the running dice box.
// The world, the dice and the session belong to the tick goroutine; other
// goroutines reach them through Exec and read the state through Snapshot.
type DiceBox struct {
	log  *slog.Logger
	conf Config
	tag  language.Tag

	world   *physics.World
	boxes   []*physics.Box
	dice    []*die.Die
	session *roll.Session
	rng     *rand.Rand
	seed    int64
	thrown  bool
	history []roll.Result

	snap *atomic.Value[Snapshot]

	exec      chan func()
	c         chan struct{}
	closeOnce sync.Once

	router *gin.Engine
	srv    *http.Server
}

// New creates a new DiceBox with conf.Dice.Count dice dropped into the arena.
func New(log *slog.Logger, conf Config) (*DiceBox, error) {
	if err := validateCount(conf.Dice.Count, conf.Dice.MaxCount); err != nil {
		return nil, err
	}
	tag, err := language.Parse(conf.DiceBox.Language)
	if err != nil {
		return nil, fmt.Errorf("parse language %q: %w", conf.DiceBox.Language, err)
	}
	rng, seed, err := random.New(conf.DiceBox.Seed)
	if err != nil {
		return nil, err
	}

	box := &DiceBox{
		log:  log,
		conf: conf,
		tag:  tag,

		world: physics.NewWorld(conf.Physics),
		rng:   rng,
		seed:  seed,
		snap:  atomic.NewValue(Snapshot{}),

		exec: make(chan func()),
		c:    make(chan struct{}),
	}
	box.world.OnCollide(box.handleCollision)
	box.spawnDice(conf.Dice.Count)
	box.storeSnapshot()
	box.setupGin()

	log.Info("Dice box ready", "dice", conf.Dice.Count, "seed", seed)
	return box, nil
}

// Start begins ticking the dice and serves HTTP on the configured address.
// It blocks until the dice box is closed.
func (d *DiceBox) Start() error {
	go d.startTicking()

	d.log.Info("Listening for HTTP", "address", d.srv.Addr)
	if err := d.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		d.Close()
		return fmt.Errorf("serve http: %w", err)
	}
	return nil
}

// startTicking steps the dice at the physics step rate until the dice box is
// closed.
func (d *DiceBox) startTicking() {
	step := time.Duration(d.world.Config().FixedStep() * float64(time.Second))
	t := time.NewTicker(step)
	defer t.Stop()

	d.loop(t.C)
}

// loop runs work submitted through Exec and ticks the dice on every value
// received from ticks.
func (d *DiceBox) loop(ticks <-chan time.Time) {
	defer func() {
		if r := recover(); r != nil {
			sentry.CurrentHub().Recover(r)
			sentry.Flush(internal.SentryFlushTimeout)
			panic(r)
		}
	}()

	last := time.Now()
	for {
		select {
		case <-d.c:
			return
		case f := <-d.exec:
			f()
		case now := <-ticks:
			d.tick(now.Sub(last).Seconds())
			last = now
		}
	}
}

// tick runs one frame: the physics first, then the session over the time
// actually simulated.
func (d *DiceBox) tick(elapsed float64) {
	if dt := d.world.Step(elapsed); dt > 0 {
		d.session.Tick(dt)
	}
	d.storeSnapshot()
}

// Exec runs f on the tick goroutine. The returned channel is closed once f
// has run, or straight away without running f if the dice box is closed.
func (d *DiceBox) Exec(f func()) <-chan struct{} {
	done := make(chan struct{})
	select {
	case <-d.c:
		close(done)
		return done
	default:
	}
	select {
	case d.exec <- func() {
		defer close(done)
		f()
	}:
	case <-d.c:
		close(done)
	}
	return done
}

// RequestRoll throws every die if the previous roll has finished. It reports
// whether the dice were thrown; a refused request is dropped.
func (d *DiceBox) RequestRoll() bool {
	var thrown bool
	<-d.Exec(func() {
		thrown = d.session.ThrowAll()
		if thrown {
			d.thrown = true
			d.log.Debug("Dice thrown", "dice", len(d.dice))
		}
		d.storeSnapshot()
	})
	return thrown
}

// SetDiceCount replaces the dice with n new ones dropped into the arena. It
// fails with ErrRollInProgress until the current roll has finished.
func (d *DiceBox) SetDiceCount(n int) error {
	if err := validateCount(n, d.conf.Dice.MaxCount); err != nil {
		return err
	}

	var err error
	<-d.Exec(func() {
		if !d.session.Finished() {
			err = ErrRollInProgress
			return
		}
		d.spawnDice(n)
		d.storeSnapshot()
		d.log.Info("Dice count changed", "dice", n)
	})
	return err
}

// Snapshot returns the state of the dice box after the latest tick.
func (d *DiceBox) Snapshot() Snapshot {
	return d.snap.Load()
}

// Close stops ticking and shuts the HTTP server down. It is safe to call
// more than once.
func (d *DiceBox) Close() {
	d.closeOnce.Do(func() {
		d.log.Debug("Stopping Ticking...")
		close(d.c)

		d.log.Debug("Closing HTTP Server...")
		ctx, cancel := context.WithTimeout(context.Background(), internal.ShutdownTimeout)
		defer cancel()
		if err := d.srv.Shutdown(ctx); err != nil {
			d.log.Error("failed to shut down http server", "error", err)
		}
	})
}

// spawnDice removes the current dice from the world and drops n new ones on a
// row. The drop is not a roll and never makes it into the history.
func (d *DiceBox) spawnDice(n int) {
	for _, b := range d.boxes {
		d.world.RemoveBox(b)
	}

	dc := d.conf.Dice
	d.boxes = d.world.SpawnRow(n, dc.Mass, dc.Size, dc.Spacing, dc.SpawnHeight)
	conf := d.conf.DieConfig()
	d.dice = lo.Map(d.boxes, func(b *physics.Box, _ int) *die.Die {
		return die.New(b, conf, d.rng)
	})

	d.session = roll.NewSession(d.dice, d.conf.Session.Debounce.Seconds())
	d.session.OnResult(d.publish)
	d.session.OnRethrow(func(i int) {
		d.log.Debug("Die landed on an edge, rethrowing", "die", i)
	})
	d.thrown = false
}

// publish records a roll.
func (d *DiceBox) publish(r roll.Result) {
	if !d.thrown {
		return
	}
	d.history = append(d.history, r)
	if over := len(d.history) - internal.HistorySize; over > 0 {
		d.history = slices.Delete(d.history, 0, over)
	}
	d.log.Info("Dice rolled", "values", r.Values, "sum", r.Sum,
		"expression", display.Expression(d.tag, r.Values, r.Sum))
}

// handleCollision ...
func (d *DiceBox) handleCollision(c physics.Collision) {
	if c.Speed < internal.CollisionLogSpeed {
		return
	}
	d.log.Debug("Die hit the box", "box", c.Box.ID(), "surface", c.Surface, "speed", c.Speed)
}

// validateCount ...
func validateCount(n, limit int) error {
	if n < 1 || n > limit {
		return fmt.Errorf("%w: %d is not within [1, %d]", ErrInvalidDiceCount, n, limit)
	}
	return nil
}
