package errors_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/not-enough-mana/internal/errors"
)

type ValidationTestSuite struct {
	suite.Suite
}

func TestValidationSuite(t *testing.T) {
	suite.Run(t, new(ValidationTestSuite))
}

func (s *ValidationTestSuite) TestValidationBuilder() {
	vb := errors.NewValidationBuilder()
	vb.Field("name", "is too long").
		Fieldf("maxMana", "must be at least %d", 1).
		RequiredField("leaderId")

	err := vb.Build()
	s.Require().NotNil(err)
	s.Assert().True(errors.IsInvalidArgument(err))
	s.Assert().Equal(
		"validation failed: leaderId: is required; maxMana: must be at least 1; name: is too long",
		errors.GetMessage(err),
	)
	s.Assert().NotNil(errors.GetMeta(err)["validation_errors"])
}

func (s *ValidationTestSuite) TestValidationBuilderNoErrors() {
	vb := errors.NewValidationBuilder()
	s.Assert().False(vb.HasErrors())
	s.Assert().Nil(vb.Build())
}

func (s *ValidationTestSuite) TestValidateRequired() {
	testCases := []struct {
		name      string
		value     string
		shouldErr bool
	}{
		{"valid value", "test", false},
		{"empty string", "", true},
		{"whitespace only", "   ", true},
		{"valid with spaces", "  test  ", false},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			vb := errors.NewValidationBuilder()
			errors.ValidateRequired("field", tc.value, vb)
			if tc.shouldErr {
				s.Assert().Error(vb.Build())
			} else {
				s.Assert().NoError(vb.Build())
			}
		})
	}
}

func (s *ValidationTestSuite) TestValidatePositive() {
	vb := errors.NewValidationBuilder()
	errors.ValidatePositive("maxMana", 0, vb)
	errors.ValidatePositive("drunkThreshold", 12.5, vb)
	errors.ValidatePositive("decayRate", -1.0, vb)

	err := vb.Build()
	s.Require().Error(err)
	s.Contains(err.Error(), "maxMana: must be positive")
	s.Contains(err.Error(), "decayRate: must be positive")
	s.NotContains(err.Error(), "drunkThreshold")
}

func (s *ValidationTestSuite) TestValidateMaxLength() {
	vb := errors.NewValidationBuilder()
	errors.ValidateMaxLength("name", "Gandalf the Unreasonably Thirsty", 10, vb)
	s.Require().Error(vb.Build())
	s.Contains(vb.Build().Error(), "must be no more than 10 characters")
}
