package main

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	mockclock "github.com/KirkDiggler/not-enough-mana/internal/pkg/clock/mock"
	"github.com/KirkDiggler/not-enough-mana/internal/redis"
	"github.com/KirkDiggler/not-enough-mana/internal/testutils"
)

type WatchStoreTestSuite struct {
	suite.Suite
	ctx     context.Context
	ctrl    *gomock.Controller
	clock   *mockclock.MockClock
	timer   *mockclock.MockTimer
	client  redis.Client
	mr      *miniredis.Miniredis
	cleanup func()
	health  *health.Server
}

func TestWatchStoreSuite(t *testing.T) {
	suite.Run(t, new(WatchStoreTestSuite))
}

func (s *WatchStoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.clock = mockclock.NewMockClock(s.ctrl)
	s.timer = mockclock.NewMockTimer(s.ctrl)
	s.client, s.mr, s.cleanup = testutils.CreateTestRedisServer(s.T())
	s.health = health.NewServer()
}

func (s *WatchStoreTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *WatchStoreTestSuite) status() grpc_health_v1.HealthCheckResponse_ServingStatus {
	resp, err := s.health.Check(s.ctx, &grpc_health_v1.HealthCheckRequest{Service: decayServiceName})
	if err != nil {
		return grpc_health_v1.HealthCheckResponse_UNKNOWN
	}
	return resp.GetStatus()
}

func (s *WatchStoreTestSuite) TestFollowsStoreReachability() {
	ticks := make(chan time.Time)
	resets := make(chan time.Duration)

	s.clock.EXPECT().NewTimer(5 * time.Second).Return(s.timer)
	s.timer.EXPECT().C().Return(ticks).AnyTimes()
	s.timer.EXPECT().Stop().Return(true)
	s.timer.EXPECT().Reset(gomock.Any()).DoAndReturn(func(d time.Duration) bool {
		resets <- d
		return true
	}).AnyTimes()

	ctx, cancel := context.WithCancel(s.ctx)
	done := make(chan struct{})
	go func() {
		watchStore(ctx, s.client, s.health, s.clock, 5*time.Second)
		close(done)
	}()

	s.Eventually(func() bool {
		return s.status() == grpc_health_v1.HealthCheckResponse_SERVING
	}, time.Second, 10*time.Millisecond)

	s.mr.SetError("ERR store is down")
	ticks <- time.Now()
	s.Equal(5*time.Second, <-resets)
	s.Eventually(func() bool {
		return s.status() == grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}, time.Second, 10*time.Millisecond)

	s.mr.SetError("")
	ticks <- time.Now()
	s.Equal(5*time.Second, <-resets)
	s.Eventually(func() bool {
		return s.status() == grpc_health_v1.HealthCheckResponse_SERVING
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		s.Fail("watchStore did not stop with its context")
	}
}
