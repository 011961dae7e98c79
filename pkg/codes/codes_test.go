package codes

import (
	"context"
	"strings"
	"testing"
)

func TestGenerateFormat(t *testing.T) {
	code, err := Generate(context.Background(), PrefixRecouvrement, func(context.Context, string) (bool, error) {
		return false, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(code, "REC-") {
		t.Fatalf("expected REC- prefix, got %q", code)
	}
	if len(code) != len("REC-")+6 {
		t.Fatalf("unexpected code length: %q", code)
	}
	for _, r := range code[4:] {
		if !strings.ContainsRune(Alphabet, r) {
			t.Fatalf("character %q outside the alphabet", r)
		}
	}
}

func TestGenerateRetriesOnCollision(t *testing.T) {
	seen := map[string]bool{}
	calls := 0
	exists := func(_ context.Context, code string) (bool, error) {
		calls++
		// claim the first two candidates are taken
		if calls <= 2 {
			seen[code] = true
			return true, nil
		}
		return seen[code], nil
	}

	code, err := Generate(context.Background(), PrefixPDV, exists)
	if err != nil {
		t.Fatal(err)
	}
	if seen[code] {
		t.Fatalf("generated a code that was reported taken: %q", code)
	}
	if calls < 3 {
		t.Fatalf("expected at least 3 uniqueness checks, got %d", calls)
	}
}

func TestGenerateGivesUpWhenSpaceExhausted(t *testing.T) {
	_, err := Generate(context.Background(), PrefixPDV, func(context.Context, string) (bool, error) {
		return true, nil
	})
	if err == nil {
		t.Fatal("expected an error when every candidate collides")
	}
}
