// Package decay drives the periodic intake decay of playing matches. One
// Driver owns one match; the Supervisor keeps a driver running for every
// active match in the store.
package decay

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/KirkDiggler/not-enough-mana/internal/engine/rules"
	"github.com/KirkDiggler/not-enough-mana/internal/entities"
	"github.com/KirkDiggler/not-enough-mana/internal/errors"
	"github.com/KirkDiggler/not-enough-mana/internal/pkg/clock"
	matchrepo "github.com/KirkDiggler/not-enough-mana/internal/repositories/match"
)

const (
	// DefaultInterval is the nominal time between ticks
	DefaultInterval = time.Second

	// DefaultMaxBackoff caps the wait after repeated store failures
	DefaultMaxBackoff = 15 * time.Second
)

// State is where a driver is in its tick loop
type State int

// Driver states
const (
	// StateIdle is a driver that is not running or whose match is not playing
	StateIdle State = iota
	// StateTicking is the nominal loop
	StateTicking
	// StateBackoff is entered on a store failure and left by ramping down
	StateBackoff
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateTicking:
		return "ticking"
	case StateBackoff:
		return "backoff"
	default:
		return "unknown"
	}
}

// Outcome is what one Step did
type Outcome int

// Step outcomes
const (
	// OutcomeSkipped means another tick was still in flight
	OutcomeSkipped Outcome = iota
	// OutcomeWaiting means the match exists but is not being played
	OutcomeWaiting
	// OutcomeUnchanged means nobody had intake to decay
	OutcomeUnchanged
	// OutcomeWritten means the decayed roster was committed
	OutcomeWritten
	// OutcomeConflict means another writer got there first; the next tick
	// catches up on the elapsed time
	OutcomeConflict
	// OutcomeGone means the match was deleted or finished and the driver
	// should stop
	OutcomeGone
	// OutcomeFailed means the store could not be read or written
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeWaiting:
		return "waiting"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeWritten:
		return "written"
	case OutcomeConflict:
		return "conflict"
	case OutcomeGone:
		return "gone"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Config configures a Driver
type Config struct {
	MatchID   string
	MatchRepo matchrepo.Repository

	// Clock defaults to the real clock
	Clock clock.Clock
	// Interval defaults to DefaultInterval
	Interval time.Duration
	// MaxBackoff defaults to DefaultMaxBackoff
	MaxBackoff time.Duration
}

// Validate validates the config
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.MatchID == "" {
		vb.RequiredField("MatchID")
	}
	if c.MatchRepo == nil {
		vb.RequiredField("MatchRepo")
	}
	if c.Interval < 0 {
		vb.Field("Interval", "must not be negative")
	}
	if c.MaxBackoff < 0 {
		vb.Field("MaxBackoff", "must not be negative")
	}
	return vb.Build()
}

// Driver decays one match's intake on a timer
type Driver struct {
	matchID    string
	repo       matchrepo.Repository
	clock      clock.Clock
	interval   time.Duration
	maxBackoff time.Duration

	inFlight atomic.Bool

	mu       sync.Mutex
	state    State
	wait     time.Duration
	backoff  *backoff.ExponentialBackOff
	lastTick time.Time
}

// NewDriver creates an idle driver
func NewDriver(cfg *Config) (*Driver, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	d := &Driver{
		matchID:    cfg.MatchID,
		repo:       cfg.MatchRepo,
		clock:      cfg.Clock,
		interval:   cfg.Interval,
		maxBackoff: cfg.MaxBackoff,
	}
	if d.clock == nil {
		d.clock = clock.New()
	}
	if d.interval == 0 {
		d.interval = DefaultInterval
	}
	if d.maxBackoff == 0 {
		d.maxBackoff = DefaultMaxBackoff
	}
	d.maxBackoff = max(d.maxBackoff, d.interval)
	d.wait = d.interval

	d.backoff = backoff.NewExponentialBackOff()
	d.backoff.InitialInterval = 2 * d.interval
	d.backoff.MaxInterval = d.maxBackoff
	d.backoff.Multiplier = 2
	d.backoff.RandomizationFactor = 0
	return d, nil
}

// MatchID returns the match this driver decays
func (d *Driver) MatchID() string {
	return d.matchID
}

// State returns the current state
func (d *Driver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Wait returns how long the driver will wait before its next tick
func (d *Driver) Wait() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.wait
}

// Step runs one tick: read the match, decay every positive intake by the
// clock time since the last tick, and write the result back if anything
// changed. A tick that overlaps one still in flight is skipped.
func (d *Driver) Step(ctx context.Context) (Outcome, error) {
	if !d.inFlight.CompareAndSwap(false, true) {
		slog.DebugContext(ctx, "decay tick still in flight, skipping", "match_id", d.matchID)
		return OutcomeSkipped, nil
	}
	defer d.inFlight.Store(false)

	now := d.clock.Now()

	got, err := d.repo.Get(ctx, matchrepo.GetInput{ID: d.matchID})
	if err != nil {
		if errors.IsNotFound(err) {
			return OutcomeGone, nil
		}
		return OutcomeFailed, errors.Wrap(err, "failed to read match for decay")
	}
	m := got.Match

	switch m.Status {
	case entities.MatchStatusFinished:
		return OutcomeGone, nil
	case entities.MatchStatusPlaying:
	default:
		d.markTick(now)
		return OutcomeWaiting, nil
	}

	settings := m.Settings.WithDefaults()
	decayed := rules.DecayTick(m.Players, d.elapsedSeconds(now), settings.ManaIntakeDecayRate, settings.DrunkThreshold)
	if !intakeChanged(m.Players, decayed) {
		d.markTick(now)
		return OutcomeUnchanged, nil
	}

	next := m.Clone()
	next.Players = decayed
	_, err = d.repo.Update(ctx, matchrepo.UpdateInput{Match: next, ExpectedVersion: m.Version})
	if err != nil {
		switch {
		case errors.IsAborted(err):
			return OutcomeConflict, nil
		case errors.IsNotFound(err):
			return OutcomeGone, nil
		default:
			return OutcomeFailed, errors.Wrap(err, "failed to write decayed match")
		}
	}

	d.markTick(now)
	return OutcomeWritten, nil
}

func (d *Driver) elapsedSeconds(now time.Time) float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.lastTick.IsZero() {
		return d.interval.Seconds()
	}
	return now.Sub(d.lastTick).Seconds()
}

func (d *Driver) markTick(now time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastTick = now
}

func intakeChanged(before, after []entities.Player) bool {
	if len(before) != len(after) {
		return true
	}
	for i := range before {
		if before[i].ManaIntake != after[i].ManaIntake || before[i].IsDrunk != after[i].IsDrunk {
			return true
		}
	}
	return false
}

// advance moves the state machine on after a step and returns the wait
// before the next one. Failures back off exponentially; the first success
// after that halves the wait each tick until it is nominal again.
func (d *Driver) advance(outcome Outcome) time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch outcome {
	case OutcomeSkipped:
		// keep whatever the in-flight tick decides
	case OutcomeFailed:
		if d.state != StateBackoff {
			d.state = StateBackoff
			d.backoff.Reset()
		}
		d.wait = min(d.backoff.NextBackOff(), d.maxBackoff)
	case OutcomeWaiting:
		d.state = StateIdle
		d.wait = d.interval
	default:
		if d.state == StateBackoff {
			d.wait /= 2
			if d.wait > d.interval {
				break
			}
		}
		d.state = StateTicking
		d.wait = d.interval
	}
	return d.wait
}

// Run ticks until ctx is cancelled or the match goes away
func (d *Driver) Run(ctx context.Context) error {
	d.mu.Lock()
	d.state = StateTicking
	d.wait = d.interval
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.state = StateIdle
		d.mu.Unlock()
	}()

	slog.InfoContext(ctx, "decay driver started", "match_id", d.matchID)
	timer := d.clock.NewTimer(d.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "decay driver stopped", "match_id", d.matchID)
			return nil
		case <-timer.C():
		}

		outcome, err := d.Step(ctx)
		if outcome == OutcomeGone {
			slog.InfoContext(ctx, "match is over, decay driver exiting", "match_id", d.matchID)
			return nil
		}

		before := d.State()
		wait := d.advance(outcome)
		if err != nil {
			slog.WarnContext(ctx, "decay tick failed",
				"match_id", d.matchID,
				"error", err,
				"retry_in", wait)
		}
		if after := d.State(); after != before {
			slog.DebugContext(ctx, "decay driver state changed",
				"match_id", d.matchID,
				"from", before.String(),
				"to", after.String())
		}

		timer.Reset(wait)
	}
}
