package internal

import (
	"encoding/base64"
	"testing"
)

func TestNewSecret(t *testing.T) {
	a, err := NewSecret(32)
	if err != nil {
		t.Fatalf("NewSecret: %v", err)
	}
	b, err := NewSecret(32)
	if err != nil {
		t.Fatalf("NewSecret: %v", err)
	}
	if a == b {
		t.Fatal("expected distinct secrets")
	}

	raw, err := base64.RawURLEncoding.DecodeString(a)
	if err != nil {
		t.Fatalf("secret is not raw base64url: %v", err)
	}
	if len(raw) != 32 {
		t.Fatalf("expected 32 raw bytes, got %d", len(raw))
	}
}

func TestNewSecretRejectsSize(t *testing.T) {
	for _, size := range []int{0, 16, 31, 65} {
		if _, err := NewSecret(size); err == nil {
			t.Fatalf("expected error for size %d", size)
		}
	}
}
