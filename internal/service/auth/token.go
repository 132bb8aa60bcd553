package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// OneTimeTokenBytes is the entropy of verification and reset tokens.
const OneTimeTokenBytes = 32

// TokenIssuer creates single-use email tokens with a fixed lifetime.
type TokenIssuer struct {
	lifetime time.Duration
	now      func() time.Time
}

// NewTokenIssuer creates a TokenIssuer whose tokens expire after lifetime.
func NewTokenIssuer(lifetime time.Duration) *TokenIssuer {
	return &TokenIssuer{lifetime: lifetime, now: time.Now}
}

// WithClock returns a copy of the issuer that reads time from now.
func (i *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	return &TokenIssuer{lifetime: i.lifetime, now: now}
}

// Issue returns a fresh hex-encoded random token and its expiry.
func (i *TokenIssuer) Issue() (string, time.Time, error) {
	buf := make([]byte, OneTimeTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), i.now().UTC().Add(i.lifetime), nil
}
