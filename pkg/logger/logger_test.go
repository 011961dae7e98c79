package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestErrorIncludesContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf})

	ctx := context.Background()
	ctx = log.WithRequestID(ctx, "req-123")
	ctx = log.WithActorRole(ctx, "agent")

	log.Error(ctx, "boom", errors.New("boom"))

	if !bytes.Contains(buf.Bytes(), []byte("\"request_id\"")) {
		t.Fatalf("expected request_id to be preserved; entry=%s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("\"actor_role\"")) {
		t.Fatalf("expected actor_role to be preserved; entry=%s", buf.String())
	}
}

func TestParseLevelFallsBackToInfo(t *testing.T) {
	if lvl := ParseLevel("warn"); lvl.String() != "warn" {
		t.Fatalf("expected warn, got %v", lvl)
	}
	if lvl := ParseLevel("not-a-level"); lvl.String() != "info" {
		t.Fatalf("expected info fallback, got %v", lvl)
	}
}
