package decay

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/KirkDiggler/not-enough-mana/internal/errors"
	"github.com/KirkDiggler/not-enough-mana/internal/pkg/clock"
	matchrepo "github.com/KirkDiggler/not-enough-mana/internal/repositories/match"
)

// DefaultPollInterval is how often the supervisor rereads the active set
const DefaultPollInterval = 5 * time.Second

// SupervisorConfig configures a Supervisor
type SupervisorConfig struct {
	MatchRepo matchrepo.Repository

	// Clock defaults to the real clock
	Clock clock.Clock
	// PollInterval defaults to DefaultPollInterval
	PollInterval time.Duration
	// DriverInterval and MaxBackoff are passed to every driver
	DriverInterval time.Duration
	MaxBackoff     time.Duration
}

// Validate validates the config
func (c *SupervisorConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.MatchRepo == nil {
		vb.RequiredField("MatchRepo")
	}
	if c.PollInterval < 0 {
		vb.Field("PollInterval", "must not be negative")
	}
	return vb.Build()
}

type runningDriver struct {
	driver *Driver
	cancel context.CancelFunc
	done   chan struct{}
}

// Supervisor keeps one Driver running per active match
type Supervisor struct {
	repo           matchrepo.Repository
	clock          clock.Clock
	pollInterval   time.Duration
	driverInterval time.Duration
	maxBackoff     time.Duration

	mu      sync.Mutex
	drivers map[string]*runningDriver
	wg      sync.WaitGroup
}

// NewSupervisor creates a supervisor with no drivers
func NewSupervisor(cfg *SupervisorConfig) (*Supervisor, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	s := &Supervisor{
		repo:           cfg.MatchRepo,
		clock:          cfg.Clock,
		pollInterval:   cfg.PollInterval,
		driverInterval: cfg.DriverInterval,
		maxBackoff:     cfg.MaxBackoff,
		drivers:        make(map[string]*runningDriver),
	}
	if s.clock == nil {
		s.clock = clock.New()
	}
	if s.pollInterval == 0 {
		s.pollInterval = DefaultPollInterval
	}
	return s, nil
}

// Running returns the ids of matches that have a live driver
func (s *Supervisor) Running() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.drivers))
	for id := range s.drivers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Sync starts a driver for every active match without one and stops the
// drivers of matches that are no longer active. Drivers run under ctx.
func (s *Supervisor) Sync(ctx context.Context) error {
	out, err := s.repo.ListActive(ctx, matchrepo.ListActiveInput{})
	if err != nil {
		return errors.Wrap(err, "failed to list active matches")
	}

	active := make(map[string]bool, len(out.IDs))
	for _, id := range out.IDs {
		active[id] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, rd := range s.drivers {
		if !active[id] {
			rd.cancel()
			delete(s.drivers, id)
		}
	}

	for id := range active {
		if _, ok := s.drivers[id]; ok {
			continue
		}
		if err := s.startLocked(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *Supervisor) startLocked(ctx context.Context, matchID string) error {
	d, err := NewDriver(&Config{
		MatchID:    matchID,
		MatchRepo:  s.repo,
		Clock:      s.clock,
		Interval:   s.driverInterval,
		MaxBackoff: s.maxBackoff,
	})
	if err != nil {
		return errors.Wrapf(err, "failed to create decay driver for %s", matchID)
	}

	runCtx, cancel := context.WithCancel(ctx)
	rd := &runningDriver{driver: d, cancel: cancel, done: make(chan struct{})}
	s.drivers[matchID] = rd

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(rd.done)
		defer cancel()

		if err := d.Run(runCtx); err != nil {
			slog.ErrorContext(runCtx, "decay driver failed", "match_id", matchID, "error", err)
		}

		s.mu.Lock()
		if s.drivers[matchID] == rd {
			delete(s.drivers, matchID)
		}
		s.mu.Unlock()
	}()
	return nil
}

// Run syncs immediately and then every poll interval until ctx is cancelled,
// then stops every driver and waits for them.
func (s *Supervisor) Run(ctx context.Context) error {
	defer s.stopAll()

	timer := s.clock.NewTimer(s.pollInterval)
	defer timer.Stop()

	for {
		if err := s.Sync(ctx); err != nil {
			slog.WarnContext(ctx, "decay supervisor sync failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-timer.C():
			timer.Reset(s.pollInterval)
		}
	}
}

func (s *Supervisor) stopAll() {
	s.mu.Lock()
	for id, rd := range s.drivers {
		rd.cancel()
		delete(s.drivers, id)
	}
	s.mu.Unlock()
	s.wg.Wait()
}
