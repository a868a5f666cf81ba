package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type SecretSuite struct {
	suite.Suite
}

func TestSecretSuite(t *testing.T) {
	suite.Run(t, new(SecretSuite))
}

func (s *SecretSuite) TestCheckMatchingCredential() {
	c := NewSecretChecker("s3cret")
	require.NoError(s.T(), c.Check("s3cret"))
}

func (s *SecretSuite) TestCheckWrongCredential() {
	c := NewSecretChecker("s3cret")
	require.ErrorIs(s.T(), c.Check("wrong"), ErrUnauthorized)
	require.ErrorIs(s.T(), c.Check(""), ErrUnauthorized)
}

func (s *SecretSuite) TestCheckFailsClosedWhenUnconfigured() {
	c := NewSecretChecker("")
	// Even the "matching" empty credential must be rejected.
	require.ErrorIs(s.T(), c.Check(""), ErrUnauthorized)
	require.ErrorIs(s.T(), c.Check("anything"), ErrUnauthorized)
}

func (s *SecretSuite) TestConfigured() {
	require.True(s.T(), NewSecretChecker("x").Configured())
	require.False(s.T(), NewSecretChecker("").Configured())
}

func (s *SecretSuite) TestBearerToken() {
	require.Equal(s.T(), "tok", BearerToken("Bearer tok"))
	require.Empty(s.T(), BearerToken("bearer tok"))
	require.Empty(s.T(), BearerToken("Basic dXNlcg=="))
	require.Empty(s.T(), BearerToken(""))
}
