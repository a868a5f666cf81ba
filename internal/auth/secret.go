package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"strings"
)

// SecretChecker authenticates trusted internal callers by bearer credential.
type SecretChecker struct {
	secret string
}

// NewSecretChecker creates a checker for the configured shared secret. An
// empty secret is allowed here; Check fails closed in that case.
func NewSecretChecker(secret string) *SecretChecker {
	return &SecretChecker{secret: secret}
}

// Check validates a bearer credential. A missing configured secret is a
// configuration fault, not a client failure, and still yields the generic
// ErrUnauthorized. Comparison is constant-time regardless of input length:
// both sides are hashed before comparing so the timing does not depend on
// where the first mismatching byte sits.
func (c *SecretChecker) Check(credential string) error {
	if c.secret == "" {
		return ErrUnauthorized
	}

	want := sha256.Sum256([]byte(c.secret))
	got := sha256.Sum256([]byte(credential))
	if subtle.ConstantTimeCompare(want[:], got[:]) != 1 {
		return ErrUnauthorized
	}
	return nil
}

// Configured reports whether a secret has been set. Used by startup
// validation to log configuration faults once per process.
func (c *SecretChecker) Configured() bool {
	return c.secret != ""
}

// BearerToken extracts the credential from an Authorization header value.
// Returns "" when the header is absent or not a bearer scheme.
func BearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return header[len(prefix):]
}
