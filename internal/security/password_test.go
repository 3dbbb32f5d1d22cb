package security

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("takedown-2024")

	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if hash == "takedown-2024" {
		t.Fatalf("hash must not equal the plaintext")
	}

	if !strings.HasPrefix(hash, "$2") {
		t.Fatalf("expected bcrypt hash, got %q", hash)
	}

	if !VerifyPassword(hash, "takedown-2024") {
		t.Fatalf("correct password rejected")
	}

	if VerifyPassword(hash, "takedown-2025") {
		t.Fatalf("wrong password accepted")
	}
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	h1, err := HashPassword("same-password")

	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	h2, err := HashPassword("same-password")

	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if h1 == h2 {
		t.Fatalf("two hashes of the same password should differ")
	}

	if !VerifyPassword(h1, "same-password") || !VerifyPassword(h2, "same-password") {
		t.Fatalf("both salted hashes should verify")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{name: "empty", hash: ""},
		{name: "garbage", hash: "not-a-bcrypt-hash"},
		{name: "plaintext_stored", hash: "password123"},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			if VerifyPassword(tt.hash, "password123") {
				t.Fatalf("malformed hash %q must never verify", tt.hash)
			}
		})
	}
}
