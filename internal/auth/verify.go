// Package auth verifies inbound requests before any handler runs: Ed25519
// signatures on the Discord interactions endpoint and a shared bearer secret
// on the internal submission webhook.
package auth

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Signature headers sent by Discord on every interactions request.
const (
	HeaderSignature = "X-Signature-Ed25519"
	HeaderTimestamp = "X-Signature-Timestamp"
)

// maxBodySize caps interaction payload reads. Discord interaction payloads
// are a few KB; anything near this limit is not a legitimate request.
const maxBodySize = 1 << 20

// ErrUnauthorized is returned for any verification failure. Callers must not
// surface more detail than this to the requester.
var ErrUnauthorized = errors.New("unauthorized")

// Verifier checks Discord request signatures against the application's
// public key.
type Verifier struct {
	publicKey ed25519.PublicKey
}

// NewVerifier parses a hex-encoded Ed25519 public key as shown in the
// Discord developer portal.
func NewVerifier(hexKey string) (*Verifier, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("decoding public key: %w", err)
	}
	if len(key) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("public key must be %d bytes, got %d", ed25519.PublicKeySize, len(key))
	}
	return &Verifier{publicKey: ed25519.PublicKey(key)}, nil
}

// Verify reports whether signature is a valid Ed25519 signature over
// timestamp||body. The body must be the exact bytes received on the wire;
// re-serialized JSON will not verify.
func (v *Verifier) Verify(signature, timestamp string, body []byte) bool {
	sig, err := hex.DecodeString(signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return false
	}

	msg := make([]byte, 0, len(timestamp)+len(body))
	msg = append(msg, timestamp...)
	msg = append(msg, body...)
	return ed25519.Verify(v.publicKey, msg, sig)
}

// VerifyRequest reads the request body and checks the signature headers
// against it. It returns the raw body on success so callers can parse the
// same bytes that were verified. Any failure yields ErrUnauthorized; the
// reason is deliberately not distinguished for the caller.
func (v *Verifier) VerifyRequest(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading request body: %w", err)
	}

	signature := r.Header.Get(HeaderSignature)
	timestamp := r.Header.Get(HeaderTimestamp)
	if signature == "" || timestamp == "" {
		return nil, ErrUnauthorized
	}

	if !v.Verify(signature, timestamp, body) {
		return nil, ErrUnauthorized
	}
	return body, nil
}
