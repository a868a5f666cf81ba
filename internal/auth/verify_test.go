package auth

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type VerifierSuite struct {
	suite.Suite
	public   ed25519.PublicKey
	private  ed25519.PrivateKey
	verifier *Verifier
}

func TestVerifierSuite(t *testing.T) {
	suite.Run(t, new(VerifierSuite))
}

func (s *VerifierSuite) SetupSuite() {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(s.T(), err)
	s.public = pub
	s.private = priv

	v, err := NewVerifier(hex.EncodeToString(pub))
	require.NoError(s.T(), err)
	s.verifier = v
}

func (s *VerifierSuite) sign(timestamp string, body []byte) string {
	msg := append([]byte(timestamp), body...)
	return hex.EncodeToString(ed25519.Sign(s.private, msg))
}

func (s *VerifierSuite) TestNewVerifierRejectsNonHex() {
	_, err := NewVerifier("not-hex")
	require.Error(s.T(), err)
}

func (s *VerifierSuite) TestNewVerifierRejectsWrongLength() {
	_, err := NewVerifier("abcd")
	require.Error(s.T(), err)
	require.Contains(s.T(), err.Error(), "32 bytes")
}

func (s *VerifierSuite) TestVerifyValidSignature() {
	body := []byte(`{"type":1}`)
	ts := "1700000000"
	require.True(s.T(), s.verifier.Verify(s.sign(ts, body), ts, body))
}

func (s *VerifierSuite) TestVerifyRejectsTamperedBody() {
	body := []byte(`{"type":1}`)
	ts := "1700000000"
	sig := s.sign(ts, body)
	require.False(s.T(), s.verifier.Verify(sig, ts, []byte(`{"type":2}`)))
}

func (s *VerifierSuite) TestVerifyRejectsTamperedTimestamp() {
	body := []byte(`{"type":1}`)
	sig := s.sign("1700000000", body)
	require.False(s.T(), s.verifier.Verify(sig, "1700000001", body))
}

func (s *VerifierSuite) TestVerifyRejectsGarbageSignature() {
	require.False(s.T(), s.verifier.Verify("zzzz", "1700000000", []byte("x")))
	require.False(s.T(), s.verifier.Verify("abcd", "1700000000", []byte("x")))
}

func (s *VerifierSuite) TestVerifyRequestReturnsExactBody() {
	body := `{"type":1}`
	ts := "1700000000"
	req := httptest.NewRequest("POST", "/interactions", strings.NewReader(body))
	req.Header.Set(HeaderSignature, s.sign(ts, []byte(body)))
	req.Header.Set(HeaderTimestamp, ts)

	got, err := s.verifier.VerifyRequest(req)
	require.NoError(s.T(), err)
	require.Equal(s.T(), body, string(got))
}

func (s *VerifierSuite) TestVerifyRequestMissingHeaders() {
	req := httptest.NewRequest("POST", "/interactions", strings.NewReader("{}"))

	_, err := s.verifier.VerifyRequest(req)
	require.ErrorIs(s.T(), err, ErrUnauthorized)
}

func (s *VerifierSuite) TestVerifyRequestWrongKey() {
	_, otherPriv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(s.T(), err)

	body := `{"type":1}`
	ts := "1700000000"
	sig := hex.EncodeToString(ed25519.Sign(otherPriv, append([]byte(ts), body...)))

	req := httptest.NewRequest("POST", "/interactions", strings.NewReader(body))
	req.Header.Set(HeaderSignature, sig)
	req.Header.Set(HeaderTimestamp, ts)

	_, err = s.verifier.VerifyRequest(req)
	require.ErrorIs(s.T(), err, ErrUnauthorized)
}
