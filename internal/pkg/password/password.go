// Package password hashes and verifies user credentials.
//
// The stored credential population spans two generations: bcrypt hashes
// (current) and salted PBKDF2-SHA512 hex digests (legacy, created before
// the bcrypt migration). There was never a rehash-on-login migration, so
// Verify must accept both formats, inferring which one produced a stored
// hash from its shape rather than from a discriminator column.
package password

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

const (
	bcryptCost = 12

	// Legacy PBKDF2 parameters. Frozen: changing them would orphan every
	// credential created under the old scheme.
	legacyIterations = 100_000
	legacyKeyLen     = 64
	legacyHexLen     = legacyKeyLen * 2
)

// Hash derives a bcrypt hash for a new credential. The returned salt is
// always empty — bcrypt embeds its own salt in the hash string — and exists
// only so the storage shape stays {salt, hash} for both generations.
func Hash(password string) (salt, hash string, err error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", "", err
	}
	return "", string(h), nil
}

// Verify reports whether password matches the stored credential. The stored
// hash's shape selects the algorithm:
//
//   - "$2..." prefix       → bcrypt; the stored salt is ignored.
//   - salt + 128 hex chars → legacy PBKDF2-SHA512, compared in constant time.
//   - anything else        → false. Unrecognized shapes fail closed.
func Verify(password, salt, hash string) bool {
	if isBcrypt(hash) {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
	}
	if salt != "" && isLegacyHex(hash) {
		derived := pbkdf2.Key([]byte(password), []byte(salt), legacyIterations, legacyKeyLen, sha512.New)
		return subtle.ConstantTimeCompare([]byte(hex.EncodeToString(derived)), []byte(hash)) == 1
	}
	return false
}

// LegacyHash derives a PBKDF2-SHA512 hex digest with the given salt. Kept
// for migration tooling and tests; new credentials always use Hash.
func LegacyHash(password, salt string) string {
	derived := pbkdf2.Key([]byte(password), []byte(salt), legacyIterations, legacyKeyLen, sha512.New)
	return hex.EncodeToString(derived)
}

func isBcrypt(hash string) bool {
	return strings.HasPrefix(hash, "$2")
}

func isLegacyHex(hash string) bool {
	if len(hash) != legacyHexLen {
		return false
	}
	_, err := hex.DecodeString(hash)
	return err == nil
}
