package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"testing"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestSignMatchesHMACSHA256(t *testing.T) {
	sig, err := Sign(testSecret, "payload")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	mac := hmac.New(sha256.New, testSecret)
	mac.Write([]byte("payload"))
	if !hmac.Equal(sig, mac.Sum(nil)) {
		t.Fatal("signature does not match reference HMAC-SHA256")
	}
	if len(sig) != Size {
		t.Fatalf("expected %d byte signature, got %d", Size, len(sig))
	}
}

func TestVerify(t *testing.T) {
	sig, err := Sign(testSecret, "payload")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if !Verify(testSecret, "payload", sig) {
		t.Fatal("expected valid signature to verify")
	}
	if Verify(testSecret, "payload2", sig) {
		t.Fatal("expected signature over different message to fail")
	}
	if Verify([]byte("another-secret-another-secret-00"), "payload", sig) {
		t.Fatal("expected signature under different secret to fail")
	}

	flipped := append([]byte(nil), sig...)
	flipped[len(flipped)-1] ^= 0x01
	if err := Check(testSecret, "payload", flipped); !errors.Is(err, ErrSignatureMismatch) {
		t.Fatalf("expected ErrSignatureMismatch, got %v", err)
	}
}

func TestCheckRejectsWrongLengthBeforeCompare(t *testing.T) {
	sig, err := Sign(testSecret, "payload")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	for _, provided := range [][]byte{nil, {}, sig[:Size-1], append(append([]byte(nil), sig...), 0)} {
		if err := Check(testSecret, "payload", provided); !errors.Is(err, ErrSignatureLength) {
			t.Fatalf("expected ErrSignatureLength for len=%d, got %v", len(provided), err)
		}
	}
}

func TestEmptySecretFailsClosed(t *testing.T) {
	if _, err := Sign(nil, "payload"); !errors.Is(err, ErrMissingKey) {
		t.Fatalf("expected ErrMissingKey from Sign, got %v", err)
	}

	sig, _ := Sign(testSecret, "payload")
	if err := Check(nil, "payload", sig); !errors.Is(err, ErrMissingKey) {
		t.Fatalf("expected ErrMissingKey from Check, got %v", err)
	}
}

func TestSignatureEncodingIsCanonical(t *testing.T) {
	sig, err := Sign(testSecret, "payload")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	seg := EncodeSignature(sig)
	if len(seg) != 43 {
		t.Fatalf("expected 43 character segment, got %d", len(seg))
	}

	decoded, err := DecodeSignature(seg)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !hmac.Equal(decoded, sig) {
		t.Fatal("decode did not reverse encode")
	}

	// The last character of a 32-byte raw segment carries 4 unused bits; any
	// other character there must be rejected rather than silently accepted.
	last := seg[len(seg)-1]
	for _, c := range []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_") {
		if c == last {
			continue
		}
		mutated := seg[:len(seg)-1] + string(c)
		got, err := DecodeSignature(mutated)
		if err == nil && hmac.Equal(got, sig) {
			t.Fatalf("mutated segment %q decoded to the original signature", mutated)
		}
	}

	if _, err := DecodeSignature("not base64!"); !errors.Is(err, ErrSignatureEncoding) {
		t.Fatalf("expected ErrSignatureEncoding, got %v", err)
	}
}
