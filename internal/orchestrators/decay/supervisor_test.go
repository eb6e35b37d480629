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
	"github.com/KirkDiggler/not-enough-mana/internal/pkg/clock"
	matchrepo "github.com/KirkDiggler/not-enough-mana/internal/repositories/match"
	matchmock "github.com/KirkDiggler/not-enough-mana/internal/repositories/match/mock"
	"github.com/KirkDiggler/not-enough-mana/internal/testutils/builders"
)

type SupervisorTestSuite struct {
	suite.Suite
	ctx  context.Context
	repo *matchrepo.InMemoryRepository
	sup  *decay.Supervisor
}

func TestSupervisorSuite(t *testing.T) {
	suite.Run(t, new(SupervisorTestSuite))
}

func (s *SupervisorTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = matchrepo.NewInMemory(nil)

	sup, err := decay.NewSupervisor(&decay.SupervisorConfig{
		MatchRepo: s.repo,
		Clock:     clock.New(),
		// long enough that no driver ticks during a test
		DriverInterval: time.Hour,
		MaxBackoff:     time.Hour,
	})
	s.Require().NoError(err)
	s.sup = sup
}

func (s *SupervisorTestSuite) seed(id string) *entities.Match {
	out, err := s.repo.Create(s.ctx, matchrepo.CreateInput{
		Match: builders.NewMatchBuilder(id, "CODE-"+id).
			WithPlayers(builders.NewPlayerBuilder("alice").AsLeader().Build()).
			Playing("alice").
			Build(),
	})
	s.Require().NoError(err)
	return out.Match
}

func (s *SupervisorTestSuite) TestNewSupervisor_Validation() {
	_, err := decay.NewSupervisor(&decay.SupervisorConfig{})
	s.Error(err)
}

func (s *SupervisorTestSuite) TestSync_StartsAndStopsDrivers() {
	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	s.seed("m1")
	m2 := s.seed("m2")

	s.Require().NoError(s.sup.Sync(ctx))
	s.Equal([]string{"m1", "m2"}, s.sup.Running())

	// syncing again does not start duplicates
	s.Require().NoError(s.sup.Sync(ctx))
	s.Equal([]string{"m1", "m2"}, s.sup.Running())

	m2.Status = entities.MatchStatusFinished
	_, err := s.repo.Update(s.ctx, matchrepo.UpdateInput{Match: m2, ExpectedVersion: m2.Version})
	s.Require().NoError(err)

	s.Require().NoError(s.sup.Sync(ctx))
	s.Equal([]string{"m1"}, s.sup.Running())
}

func (s *SupervisorTestSuite) TestRun_StopsDriversOnCancel() {
	s.seed("m1")
	ctx, cancel := context.WithCancel(s.ctx)
	done := make(chan error, 1)
	go func() { done <- s.sup.Run(ctx) }()

	s.Eventually(func() bool {
		return len(s.sup.Running()) == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	s.NoError(<-done)
	s.Empty(s.sup.Running())
}

func (s *SupervisorTestSuite) TestSync_ListFailure() {
	ctrl := gomock.NewController(s.T())
	repo := matchmock.NewMockRepository(ctrl)
	repo.EXPECT().ListActive(gomock.Any(), gomock.Any()).Return(nil, errors.Unavailable("redis is down"))

	sup, err := decay.NewSupervisor(&decay.SupervisorConfig{MatchRepo: repo})
	s.Require().NoError(err)

	err = sup.Sync(s.ctx)
	s.Error(err)
	s.Equal(errors.CodeUnavailable, errors.GetCode(err))
}
