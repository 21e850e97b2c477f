package auth

import (
	"testing"
)

func TestGenerateResetToken(t *testing.T) {
	token, err := GenerateResetToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 32 random bytes, hex-encoded
	if len(token) != 64 {
		t.Errorf("expected 64-character token, got %d", len(token))
	}
}

func TestGenerateResetToken_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := GenerateResetToken()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seen[token] {
			t.Fatal("generated duplicate reset token")
		}
		seen[token] = true
	}
}

func TestHashResetToken_Deterministic(t *testing.T) {
	token, err := GenerateResetToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	hash1 := HashResetToken(token)
	hash2 := HashResetToken(token)

	if hash1 != hash2 {
		t.Error("hashing the same token twice should produce the same hash")
	}
	if hash1 == token {
		t.Error("hash should not equal the plaintext token")
	}
	if len(hash1) != 64 {
		t.Errorf("expected 64-character sha256 hex digest, got %d", len(hash1))
	}
}

func TestHashResetToken_DifferentTokens(t *testing.T) {
	if HashResetToken("token-a") == HashResetToken("token-b") {
		t.Error("different tokens should produce different hashes")
	}
}
