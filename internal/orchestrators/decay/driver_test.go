package decay_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/not-enough-mana/internal/entities"
	"github.com/KirkDiggler/not-enough-mana/internal/errors"
	"github.com/KirkDiggler/not-enough-mana/internal/orchestrators/decay"
	mockclock "github.com/KirkDiggler/not-enough-mana/internal/pkg/clock/mock"
	matchrepo "github.com/KirkDiggler/not-enough-mana/internal/repositories/match"
	matchmock "github.com/KirkDiggler/not-enough-mana/internal/repositories/match/mock"
	"github.com/KirkDiggler/not-enough-mana/internal/testutils/builders"
)

var t0 = time.Date(2024, 6, 11, 20, 0, 0, 0, time.UTC)

type DriverTestSuite struct {
	suite.Suite
	ctx   context.Context
	ctrl  *gomock.Controller
	clock *mockclock.MockClock
	repo  *matchrepo.InMemoryRepository
}

func TestDriverSuite(t *testing.T) {
	suite.Run(t, new(DriverTestSuite))
}

func (s *DriverTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.clock = mockclock.NewMockClock(s.ctrl)
	s.repo = matchrepo.NewInMemory(nil)
}

func (s *DriverTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *DriverTestSuite) newDriver(repo matchrepo.Repository) *decay.Driver {
	d, err := decay.NewDriver(&decay.Config{
		MatchID:   "m1",
		MatchRepo: repo,
		Clock:     s.clock,
	})
	s.Require().NoError(err)
	return d
}

func (s *DriverTestSuite) seed(rate float64, players ...entities.Player) *entities.Match {
	settings := entities.DefaultSettings()
	settings.ManaIntakeDecayRate = rate
	out, err := s.repo.Create(s.ctx, matchrepo.CreateInput{
		Match: builders.NewMatchBuilder("m1", "ABCDEF").
			WithPlayers(players...).
			WithSettings(settings).
			Playing(players[0].ID).
			Build(),
	})
	s.Require().NoError(err)
	return out.Match
}

func (s *DriverTestSuite) stored() *entities.Match {
	out, err := s.repo.Get(s.ctx, matchrepo.GetInput{ID: "m1"})
	s.Require().NoError(err)
	return out.Match
}

func (s *DriverTestSuite) TestNewDriver_Validation() {
	_, err := decay.NewDriver(&decay.Config{})
	s.Error(err)

	_, err = decay.NewDriver(nil)
	s.True(errors.IsInvalidArgument(err))
}

func (s *DriverTestSuite) TestStep_DecaysByElapsedTime() {
	s.seed(3, builders.NewPlayerBuilder("alice").WithIntake(10, false).Build())
	gomock.InOrder(
		s.clock.EXPECT().Now().Return(t0),
		s.clock.EXPECT().Now().Return(t0.Add(30*time.Second)),
	)
	d := s.newDriver(s.repo)

	// the first tick counts one nominal interval
	outcome, err := d.Step(s.ctx)
	s.Require().NoError(err)
	s.Equal(decay.OutcomeWritten, outcome)
	s.InDelta(9.95, s.stored().Players[0].ManaIntake, 1e-9)

	outcome, err = d.Step(s.ctx)
	s.Require().NoError(err)
	s.Equal(decay.OutcomeWritten, outcome)
	s.InDelta(8.45, s.stored().Players[0].ManaIntake, 1e-9)
	s.EqualValues(3, s.stored().Version)
}

func (s *DriverTestSuite) TestStep_SobersUp() {
	s.seed(3, builders.NewPlayerBuilder("alice").WithIntake(16.02, true).Build())
	s.clock.EXPECT().Now().Return(t0)
	d := s.newDriver(s.repo)

	_, err := d.Step(s.ctx)
	s.Require().NoError(err)

	alice := s.stored().Players[0]
	s.InDelta(15.97, alice.ManaIntake, 1e-9)
	s.False(alice.IsDrunk)
}

func (s *DriverTestSuite) TestStep_NothingToDecaySkipsWrite() {
	s.seed(1, builders.NewPlayerBuilder("alice").Build(), builders.NewPlayerBuilder("bob").Build())
	s.clock.EXPECT().Now().Return(t0)
	d := s.newDriver(s.repo)

	outcome, err := d.Step(s.ctx)
	s.Require().NoError(err)
	s.Equal(decay.OutcomeUnchanged, outcome)
	s.EqualValues(1, s.stored().Version)
}

func (s *DriverTestSuite) TestStep_WaitingMatch() {
	_, err := s.repo.Create(s.ctx, matchrepo.CreateInput{
		Match: builders.NewMatchBuilder("m1", "ABCDEF").
			WithPlayers(builders.NewPlayerBuilder("alice").WithIntake(5, false).Build()).
			Build(),
	})
	s.Require().NoError(err)
	s.clock.EXPECT().Now().Return(t0)

	outcome, err := s.newDriver(s.repo).Step(s.ctx)
	s.Require().NoError(err)
	s.Equal(decay.OutcomeWaiting, outcome)
	s.InDelta(5.0, s.stored().Players[0].ManaIntake, 1e-9)
}

func (s *DriverTestSuite) TestStep_GoneMatch() {
	s.clock.EXPECT().Now().Return(t0).AnyTimes()
	d := s.newDriver(s.repo)

	outcome, err := d.Step(s.ctx)
	s.Require().NoError(err)
	s.Equal(decay.OutcomeGone, outcome, "missing match")

	m := s.seed(1, builders.NewPlayerBuilder("alice").WithIntake(5, false).Build())
	m.Status = entities.MatchStatusFinished
	_, err = s.repo.Update(s.ctx, matchrepo.UpdateInput{Match: m, ExpectedVersion: m.Version})
	s.Require().NoError(err)

	outcome, err = d.Step(s.ctx)
	s.Require().NoError(err)
	s.Equal(decay.OutcomeGone, outcome, "finished match")
}

func (s *DriverTestSuite) TestStep_ConflictIsNotAFault() {
	repo := matchmock.NewMockRepository(s.ctrl)
	m := builders.NewMatchBuilder("m1", "ABCDEF").
		WithPlayers(builders.NewPlayerBuilder("alice").WithIntake(5, false).Build()).
		Playing("alice").
		Build()
	m.Version = 7

	s.clock.EXPECT().Now().Return(t0)
	repo.EXPECT().Get(gomock.Any(), matchrepo.GetInput{ID: "m1"}).Return(&matchrepo.GetOutput{Match: m}, nil)
	repo.EXPECT().
		Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input matchrepo.UpdateInput) (*matchrepo.UpdateOutput, error) {
			s.EqualValues(7, input.ExpectedVersion)
			return nil, errors.Aborted("match was changed by another player")
		})

	outcome, err := s.newDriver(repo).Step(s.ctx)
	s.NoError(err)
	s.Equal(decay.OutcomeConflict, outcome)
}

func (s *DriverTestSuite) TestStep_StoreFailure() {
	repo := matchmock.NewMockRepository(s.ctrl)
	s.clock.EXPECT().Now().Return(t0)
	repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, errors.Unavailable("redis is down"))

	outcome, err := s.newDriver(repo).Step(s.ctx)
	s.Error(err)
	s.Equal(decay.OutcomeFailed, outcome)
}

func (s *DriverTestSuite) TestStep_OverlappingTickIsSkipped() {
	repo := matchmock.NewMockRepository(s.ctrl)
	entered := make(chan struct{})
	release := make(chan struct{})

	s.clock.EXPECT().Now().Return(t0).AnyTimes()
	repo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, matchrepo.GetInput) (*matchrepo.GetOutput, error) {
			close(entered)
			<-release
			return nil, errors.NotFound("gone")
		})

	d := s.newDriver(repo)
	first := make(chan decay.Outcome, 1)
	go func() {
		outcome, _ := d.Step(s.ctx)
		first <- outcome
	}()

	<-entered
	outcome, err := d.Step(s.ctx)
	s.NoError(err)
	s.Equal(decay.OutcomeSkipped, outcome)

	close(release)
	s.Equal(decay.OutcomeGone, <-first)
}

func (s *DriverTestSuite) TestRun_BacksOffAndRampsDown() {
	repo := matchmock.NewMockRepository(s.ctrl)
	timer := mockclock.NewMockTimer(s.ctrl)
	ticks := make(chan time.Time)
	resets := make(chan time.Duration)

	idle := builders.NewMatchBuilder("m1", "ABCDEF").
		WithPlayers(builders.NewPlayerBuilder("alice").Build()).
		Playing("alice").
		Build()

	s.clock.EXPECT().Now().Return(t0).AnyTimes()
	s.clock.EXPECT().NewTimer(decay.DefaultInterval).Return(timer)
	timer.EXPECT().C().Return(ticks).AnyTimes()
	timer.EXPECT().Stop().Return(true).AnyTimes()
	timer.EXPECT().Reset(gomock.Any()).DoAndReturn(func(d time.Duration) bool {
		resets <- d
		return true
	}).AnyTimes()

	gomock.InOrder(
		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, errors.Unavailable("down")).Times(5),
		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(&matchrepo.GetOutput{Match: idle}, nil).AnyTimes(),
	)

	d := s.newDriver(repo)
	ctx, cancel := context.WithCancel(s.ctx)
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	expected := []struct {
		wait  time.Duration
		state decay.State
	}{
		{2 * time.Second, decay.StateBackoff},
		{4 * time.Second, decay.StateBackoff},
		{8 * time.Second, decay.StateBackoff},
		{15 * time.Second, decay.StateBackoff},
		{15 * time.Second, decay.StateBackoff},
		// recovered: halve until nominal
		{7500 * time.Millisecond, decay.StateBackoff},
		{3750 * time.Millisecond, decay.StateBackoff},
		{1875 * time.Millisecond, decay.StateBackoff},
		{time.Second, decay.StateTicking},
		{time.Second, decay.StateTicking},
	}
	for i, want := range expected {
		ticks <- t0
		s.Equal(want.wait, <-resets, "tick %d", i)
		s.Equal(want.state, d.State(), "tick %d", i)
	}

	cancel()
	s.NoError(<-done)
	s.Equal(decay.StateIdle, d.State())
}

func (s *DriverTestSuite) TestRun_ExitsWhenMatchIsGone() {
	timer := mockclock.NewMockTimer(s.ctrl)
	ticks := make(chan time.Time, 1)

	s.clock.EXPECT().Now().Return(t0).AnyTimes()
	s.clock.EXPECT().NewTimer(gomock.Any()).Return(timer)
	timer.EXPECT().C().Return(ticks).AnyTimes()
	timer.EXPECT().Stop().Return(true)

	ticks <- t0
	s.NoError(s.newDriver(s.repo).Run(s.ctx))
}
