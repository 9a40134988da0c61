package password

import (
	"strings"
	"testing"
)

func TestHashAndVerify_Modern(t *testing.T) {
	salt, hash, err := Hash("hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if salt != "" {
		t.Fatalf("expected empty salt for bcrypt, got %q", salt)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Fatalf("expected bcrypt prefix, got %q", hash)
	}
	if !Verify("hunter2", salt, hash) {
		t.Fatalf("correct password rejected")
	}
	if Verify("hunter3", salt, hash) {
		t.Fatalf("wrong password accepted")
	}
}

func TestVerify_Legacy(t *testing.T) {
	salt := "legacy-salt-value"
	hash := LegacyHash("hunter2", salt)

	if len(hash) != legacyHexLen {
		t.Fatalf("expected %d hex chars, got %d", legacyHexLen, len(hash))
	}
	if !Verify("hunter2", salt, hash) {
		t.Fatalf("legacy credential rejected")
	}
	if Verify("hunter3", salt, hash) {
		t.Fatalf("wrong password accepted on legacy path")
	}
}

func TestVerify_LegacyIgnoredWithoutSalt(t *testing.T) {
	hash := LegacyHash("hunter2", "some-salt")
	if Verify("hunter2", "", hash) {
		t.Fatalf("legacy hash without stored salt must fail closed")
	}
}

func TestVerify_UnrecognizedShapesFailClosed(t *testing.T) {
	cases := []struct {
		name string
		salt string
		hash string
	}{
		{"empty", "", ""},
		{"short hex", "salt", "abcdef"},
		{"right length, not hex", "salt", strings.Repeat("z", legacyHexLen)},
		{"plaintext leak", "salt", "hunter2"},
	}
	for _, tc := range cases {
		if Verify("hunter2", tc.salt, tc.hash) {
			t.Fatalf("%s: unrecognized shape accepted", tc.name)
		}
	}
}
