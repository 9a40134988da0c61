package config

import (
	"errors"
	"fmt"
)

// devFallbackSecret is only reachable outside production. The name is the
// warning.
const devFallbackSecret = "dev-secret-please-set-at-least-thirty-two-chars"

const minSecretLen = 16

// ErrMissingSecret halts startup: a production process must never fall back
// to a guessable signing key.
var ErrMissingSecret = errors.New("config: AUTH_SECRET or FIELD_ENCRYPTION_KEY must be set in production")

// ResolveSecret returns the shared secret used by both the session-token
// codec and the PII field codec. AUTH_SECRET wins; FIELD_ENCRYPTION_KEY is
// the fallback. Reusing one secret for signing and encryption is a
// deliberate deployment trade-off — the field codec derives its actual key
// through a hash, so the two uses never consume identical key bytes.
// Deployments wanting independent secrets simply set both variables.
func (c *Config) ResolveSecret() ([]byte, error) {
	val := c.AuthSecret
	if val == "" {
		val = c.FieldEncryptionKey
	}
	if val == "" {
		if c.IsProduction() {
			return nil, ErrMissingSecret
		}
		return []byte(devFallbackSecret), nil
	}
	if len(val) < minSecretLen {
		return nil, fmt.Errorf("config: secret must be at least %d characters", minSecretLen)
	}
	return []byte(val), nil
}
