// Package fieldcrypt transparently encrypts individual PII fields at rest.
//
// Exactly two ticket fields pass through this codec (customer phone and
// customer email). Ciphertext is AES-256-GCM, carried as an opaque string:
// a fixed "enc:v1:" tag followed by base64(nonce||sealed). The tag is what
// LooksEncrypted keys on, so plaintext rows persisted before encryption
// was introduced are recognized and passed through untouched.
//
// The read path is deliberately tolerant: a value that fails to decrypt
// (foreign ciphertext, wrong key) is logged and returned as stored. A
// possibly-still-encrypted string is preferable to breaking every read.
package fieldcrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

const prefix = "enc:v1:"

// Codec encrypts and decrypts single field values.
type Codec struct {
	aead cipher.AEAD
	log  zerolog.Logger

	// onFailure, when set, is invoked once per tolerated decrypt failure.
	onFailure func()
}

// New derives an AES-256-GCM codec from the shared secret. The key is the
// SHA-256 of the secret, so the signing and encryption uses of a shared
// deployment secret never consume identical key bytes.
func New(secret []byte, log zerolog.Logger) (*Codec, error) {
	key := sha256.Sum256(secret)
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("fieldcrypt: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("fieldcrypt: %w", err)
	}
	return &Codec{aead: aead, log: log}, nil
}

// OnDecryptFailure registers a hook called whenever a decrypt attempt is
// tolerated (used to feed the metrics counter at wiring time).
func (c *Codec) OnDecryptFailure(fn func()) {
	c.onFailure = fn
}

// Encrypt seals a non-empty plaintext. Empty input is returned unchanged:
// the write hook only encrypts fields that were modified to a non-empty
// value.
func (c *Codec) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("fieldcrypt: nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return prefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Values that do not look encrypted (legacy
// plaintext rows, empty strings) pass through unchanged. A value that
// looks encrypted but fails to open is logged and returned as stored —
// decryption failure is never surfaced to the caller.
func (c *Codec) Decrypt(value string) string {
	if !LooksEncrypted(value) {
		return value
	}

	plaintext, err := c.open(value)
	if err != nil {
		c.log.Warn().Err(err).Msg("PII field decryption failed, returning value as stored")
		if c.onFailure != nil {
			c.onFailure()
		}
		return value
	}
	return plaintext
}

func (c *Codec) open(value string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, prefix))
	if err != nil {
		return "", fmt.Errorf("fieldcrypt: decode: %w", err)
	}
	if len(raw) < c.aead.NonceSize() {
		return "", fmt.Errorf("fieldcrypt: ciphertext shorter than nonce")
	}
	nonce, sealed := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("fieldcrypt: open: %w", err)
	}
	return string(plaintext), nil
}

// LooksEncrypted reports whether a stored value plausibly came out of
// Encrypt. The fixed tag gives zero false positives on plaintext phones
// and emails (which may legally contain '+').
func LooksEncrypted(value string) bool {
	return strings.HasPrefix(value, prefix)
}
