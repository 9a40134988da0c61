// Package sessiontoken issues and verifies the compact signed-claims token
// used for stateless sessions.
//
// A token is three dot-separated base64url segments — header, body, MAC —
// where the MAC is an HMAC-SHA256 over the literal "<header>.<body>"
// concatenation. There is no issuer, audience, revocation list, or key
// rotation: a token is valid until its exp passes, and logout is purely a
// client-side action.
package sessiontoken

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"
)

// Claims is the decoded body of a verified token.
type Claims map[string]any

// Subject returns the "sub" claim, or "" when absent or not a string.
func (c Claims) Subject() string {
	sub, _ := c["sub"].(string)
	return sub
}

// Email returns the "email" claim, or "" when absent or not a string.
func (c Claims) Email() string {
	email, _ := c["email"].(string)
	return email
}

// Codec signs and verifies tokens with a single shared secret.
type Codec struct {
	secret []byte
}

// New returns a Codec keyed by the given secret.
func New(secret []byte) *Codec {
	return &Codec{secret: secret}
}

var encodedHeader = encodeSegment([]byte(`{"alg":"HS256","typ":"JWT"}`))

// Issue builds a signed token carrying the given claims plus a computed
// exp of now + ttl (epoch seconds). The caller's map is not mutated.
func (c *Codec) Issue(claims Claims, ttl time.Duration) (string, error) {
	body := make(map[string]any, len(claims)+1)
	for k, v := range claims {
		body[k] = v
	}
	body["exp"] = time.Now().Add(ttl).Unix()

	raw, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	head := encodedHeader
	bod := encodeSegment(raw)
	mac := c.sign(head + "." + bod)
	return head + "." + bod + "." + mac, nil
}

// Verify checks a token and returns its claims, or nil when the token is
// malformed, tampered with, or expired. It never returns an error: every
// failure mode collapses to nil so callers surface a uniform unauthorized
// response.
func (c *Codec) Verify(token string) Claims {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil
	}
	head, bod, mac := parts[0], parts[1], parts[2]

	expected := c.sign(head + "." + bod)
	if !hmac.Equal([]byte(mac), []byte(expected)) {
		return nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(bod)
	if err != nil {
		return nil
	}

	var claims Claims
	if err := json.Unmarshal(raw, &claims); err != nil {
		return nil
	}

	exp, ok := claims["exp"].(float64)
	if !ok || int64(exp) < time.Now().Unix() {
		return nil
	}
	return claims
}

func (c *Codec) sign(input string) string {
	h := hmac.New(sha256.New, c.secret)
	h.Write([]byte(input))
	return encodeSegment(h.Sum(nil))
}

func encodeSegment(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}
