package crypto

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptEncoder_RoundTrip(t *testing.T) {
	enc := NewBcryptEncoder(bcrypt.MinCost)

	hash, err := enc.Encode("s3cret")
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if hash == "s3cret" || !strings.HasPrefix(hash, "$2a$") {
		t.Fatalf("unexpected hash: %q", hash)
	}
	if !enc.Matches(hash, "s3cret") {
		t.Fatal("Matches rejected the original password")
	}
	if enc.Matches(hash, "wrong") {
		t.Fatal("Matches accepted a wrong password")
	}
}

func TestNewBcryptEncoder_DefaultsCost(t *testing.T) {
	enc := NewBcryptEncoder(0)
	if enc.cost != bcrypt.DefaultCost {
		t.Fatalf("cost = %d, want %d", enc.cost, bcrypt.DefaultCost)
	}
}

func TestBcryptEncoder_MatchesRejectsBadHash(t *testing.T) {
	enc := NewBcryptEncoder(bcrypt.MinCost)
	if enc.Matches("not-a-bcrypt-hash", "anything") {
		t.Fatal("Matches accepted a malformed hash")
	}
}
