package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/not-enough-mana/internal/errors"
)

type ErrorsTestSuite struct {
	suite.Suite
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}

func (s *ErrorsTestSuite) TestNewError() {
	testCases := []struct {
		name     string
		code     errors.Code
		message  string
		expected string
	}{
		{
			name:     "not found error",
			code:     errors.CodeNotFound,
			message:  "match not found",
			expected: "NOT_FOUND: match not found",
		},
		{
			name:     "failed precondition error",
			code:     errors.CodeFailedPrecondition,
			message:  "not your turn",
			expected: "FAILED_PRECONDITION: not your turn",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := errors.New(tc.code, tc.message)
			s.Assert().Equal(tc.expected, err.Error())
			s.Assert().Equal(tc.code, err.Code)
			s.Assert().Equal(tc.message, err.Message)
		})
	}
}

func (s *ErrorsTestSuite) TestErrorWithMeta() {
	err := errors.NotFound("match not found").
		WithMeta("match_id", "m1").
		WithMeta("player_id", "p1")

	s.Assert().Equal("m1", err.Meta["match_id"])
	s.Assert().Equal("p1", err.Meta["player_id"])
}

func (s *ErrorsTestSuite) TestWrap() {
	baseErr := fmt.Errorf("connection refused")
	wrapped := errors.Wrap(baseErr, "failed to load match")

	s.Assert().Equal(errors.CodeInternal, wrapped.Code)
	s.Assert().Equal("failed to load match", wrapped.Message)
	s.Assert().Equal(baseErr, wrapped.Unwrap())
}

func (s *ErrorsTestSuite) TestWrapPreservesCode() {
	baseErr := errors.Aborted("version mismatch")
	wrapped := errors.Wrap(baseErr, "failed to save match")

	s.Assert().Equal(errors.CodeAborted, wrapped.Code)
	s.Assert().True(errors.IsAborted(wrapped))
	s.Assert().Equal(baseErr, wrapped.Unwrap())
}

func (s *ErrorsTestSuite) TestWrapWithCode() {
	baseErr := errors.NotFound("no challenge effects").WithMeta("card_id", "c1")
	wrapped := errors.WrapWithCode(baseErr, errors.CodeDataLoss, "broken card")

	s.Assert().Equal(errors.CodeDataLoss, wrapped.Code)
	s.Assert().Equal("c1", wrapped.Meta["card_id"])
	s.Assert().Equal(baseErr, wrapped.Unwrap())
}

func (s *ErrorsTestSuite) TestWrapNil() {
	s.Assert().Nil(errors.Wrap(nil, "should be nil"))
	s.Assert().Nil(errors.WrapWithCode(nil, errors.CodeNotFound, "should be nil"))
}

func (s *ErrorsTestSuite) TestConstructorFunctions() {
	testCases := []struct {
		name        string
		constructor func() *errors.Error
		code        errors.Code
	}{
		{"NotFound", func() *errors.Error { return errors.NotFound("test") }, errors.CodeNotFound},
		{"InvalidArgument", func() *errors.Error { return errors.InvalidArgument("test") }, errors.CodeInvalidArgument},
		{"AlreadyExists", func() *errors.Error { return errors.AlreadyExists("test") }, errors.CodeAlreadyExists},
		{"PermissionDenied", func() *errors.Error { return errors.PermissionDenied("test") }, errors.CodePermissionDenied},
		{"FailedPrecondition", func() *errors.Error { return errors.FailedPrecondition("test") }, errors.CodeFailedPrecondition},
		{"Aborted", func() *errors.Error { return errors.Aborted("test") }, errors.CodeAborted},
		{"Internal", func() *errors.Error { return errors.Internal("test") }, errors.CodeInternal},
		{"Unavailable", func() *errors.Error { return errors.Unavailable("test") }, errors.CodeUnavailable},
		{"DataLoss", func() *errors.Error { return errors.DataLoss("test") }, errors.CodeDataLoss},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := tc.constructor()
			s.Assert().Equal(tc.code, err.Code)
			s.Assert().Equal("test", err.Message)
		})
	}
}

func (s *ErrorsTestSuite) TestErrorIs() {
	err1 := errors.NotFound("test")
	err2 := errors.NotFound("other")
	err3 := errors.InvalidArgument("test")

	s.Assert().True(err1.Is(err2))
	s.Assert().False(err1.Is(err3))
	s.Assert().True(errors.Is(errors.Wrap(err1, "wrapped"), err2))
}

func (s *ErrorsTestSuite) TestGetCode() {
	err := errors.NotFound("test")
	wrapped := errors.Wrap(err, "wrapped")

	s.Assert().Equal(errors.CodeNotFound, errors.GetCode(err))
	s.Assert().Equal(errors.CodeNotFound, errors.GetCode(wrapped))
	s.Assert().Equal(errors.CodeInternal, errors.GetCode(fmt.Errorf("standard error")))
	s.Assert().Equal(errors.CodeOK, errors.GetCode(nil))
}

func (s *ErrorsTestSuite) TestGetMetaReturnsCopy() {
	err := errors.NotFound("test").WithMeta("key", "value")

	meta := errors.GetMeta(err)
	meta["key"] = "changed"

	s.Assert().Equal("value", err.Meta["key"])
	s.Assert().Nil(errors.GetMeta(fmt.Errorf("standard error")))
}

func (s *ErrorsTestSuite) TestGetMessage() {
	err := errors.NotFound("match not found")
	wrapped := errors.Wrap(err, "failed to join")

	s.Assert().Equal("match not found", errors.GetMessage(err))
	s.Assert().Equal("failed to join", errors.GetMessage(wrapped))
	s.Assert().Equal("standard error", errors.GetMessage(fmt.Errorf("standard error")))
}

func (s *ErrorsTestSuite) TestReason() {
	s.Run("rejected move surfaces innermost message", func() {
		err := errors.Wrap(errors.FailedPrecondition("not enough mana"), "failed to play card")
		s.Equal("not enough mana", errors.Reason(err))
	})

	s.Run("lost race asks to retry", func() {
		err := errors.Wrap(errors.Aborted("version mismatch"), "failed to save match")
		s.Contains(errors.Reason(err), "try again")
		s.NotContains(errors.Reason(err), "version")
	})

	s.Run("faults are hidden", func() {
		err := errors.Wrap(fmt.Errorf("dial tcp: refused"), "failed to load match")
		s.Equal("something went wrong, try again", errors.Reason(err))
	})

	s.Run("nil", func() {
		s.Empty(errors.Reason(nil))
	})
}
