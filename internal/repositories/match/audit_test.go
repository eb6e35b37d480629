package match_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/not-enough-mana/internal/errors"
	"github.com/KirkDiggler/not-enough-mana/internal/pkg/clock"
	"github.com/KirkDiggler/not-enough-mana/internal/redis"
	"github.com/KirkDiggler/not-enough-mana/internal/repositories/match"
	"github.com/KirkDiggler/not-enough-mana/internal/testutils"
)

type AuditorTestSuite struct {
	suite.Suite
	ctx     context.Context
	client  redis.Client
	cleanup func()
	repo    match.Repository
	auditor *match.Auditor
}

func TestAuditorSuite(t *testing.T) {
	suite.Run(t, new(AuditorTestSuite))
}

func (s *AuditorTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.client, s.cleanup = testutils.CreateTestRedisClient(s.T())

	repo, err := match.NewRedis(&match.RedisConfig{Client: s.client, Clock: clock.New()})
	s.Require().NoError(err)
	s.repo = repo

	auditor, err := match.NewAuditor(&match.AuditorConfig{Client: s.client})
	s.Require().NoError(err)
	s.auditor = auditor
}

func (s *AuditorTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *AuditorTestSuite) TestNewAuditor_Validation() {
	_, err := match.NewAuditor(nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = match.NewAuditor(&match.AuditorConfig{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *AuditorTestSuite) TestScan_CleanStore() {
	_, err := s.repo.Create(s.ctx, match.CreateInput{Match: newMatch("m1", "GOOD1")})
	s.Require().NoError(err)

	report, err := s.auditor.Scan(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, report.Checked)
	s.True(report.Clean())
}

func (s *AuditorTestSuite) TestScanAndRepair() {
	_, err := s.repo.Create(s.ctx, match.CreateInput{Match: newMatch("m1", "GOOD1")})
	s.Require().NoError(err)

	s.Require().NoError(s.client.Set(s.ctx, "match:broken", "{not json", 0).Err())
	s.Require().NoError(s.client.Set(s.ctx, "match:code:BROKE", "broken", 0).Err())
	s.Require().NoError(s.client.Set(s.ctx, "match:code:GHOST", "gone", 0).Err())
	s.Require().NoError(s.client.SAdd(s.ctx, "match:active", "broken", "gone").Err())

	report, err := s.auditor.Scan(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, report.Checked)
	s.Equal([]string{"broken"}, report.Corrupt)
	s.Equal([]string{"BROKE", "GHOST"}, report.Orphaned)
	s.Equal([]string{"broken", "gone"}, report.Stale)

	s.Require().NoError(s.auditor.Repair(s.ctx, report))

	after, err := s.auditor.Scan(s.ctx)
	s.Require().NoError(err)
	s.True(after.Clean())
	s.Equal(1, after.Checked)

	// the healthy match is untouched
	got, err := s.repo.GetByCode(s.ctx, match.GetByCodeInput{Code: "GOOD1"})
	s.Require().NoError(err)
	s.Equal("m1", got.Match.ID)

	active, err := s.repo.ListActive(s.ctx, match.ListActiveInput{})
	s.Require().NoError(err)
	s.Equal([]string{"m1"}, active.IDs)
}

func (s *AuditorTestSuite) TestScan_MismatchedDocumentIsCorrupt() {
	created, err := s.repo.Create(s.ctx, match.CreateInput{Match: newMatch("m1", "GOOD1")})
	s.Require().NoError(err)

	raw, err := s.client.Get(s.ctx, "match:m1").Result()
	s.Require().NoError(err)
	s.Require().NoError(s.client.Set(s.ctx, "match:copy", raw, 0).Err())

	report, err := s.auditor.Scan(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"copy"}, report.Corrupt)
	s.Empty(report.Orphaned, "GOOD1 still points at %s", created.Match.ID)
}

func (s *AuditorTestSuite) TestRepair_NilReport() {
	s.True(errors.IsInvalidArgument(s.auditor.Repair(s.ctx, nil)))
}
