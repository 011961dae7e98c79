package security

import (
	"strings"
	"testing"

	"github.com/cafcollect/caf-backend/pkg/config"
)

func testParams() config.PasswordConfig {
	// deliberately cheap parameters so tests stay fast
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	}
}

func TestHashAndVerify(t *testing.T) {
	encoded, err := HashPassword("agent123", testParams())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash format: %q", encoded)
	}

	ok, err := VerifyPassword("agent123", encoded)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected matching password to verify")
	}

	ok, err = VerifyPassword("wrong", encoded)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected mismatching password to fail")
	}
}

func TestHashRejectsEmptyPassword(t *testing.T) {
	if _, err := HashPassword("", testParams()); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	if _, err := VerifyPassword("x", "not-a-hash"); err != ErrInvalidHash {
		t.Fatalf("expected ErrInvalidHash, got %v", err)
	}
}
