package auth

import (
	"testing"
	"time"
)

func TestStateStoreConsumeIsOneShot(t *testing.T) {
	store := newStateStore()
	store.put("state-1", time.Now().Add(time.Minute))

	if !store.consume("state-1") {
		t.Fatalf("expected first consume to succeed")
	}
	if store.consume("state-1") {
		t.Fatalf("expected second consume to fail")
	}
}

func TestStateStoreRejectsExpired(t *testing.T) {
	store := newStateStore()
	store.put("state-1", time.Now().Add(-time.Second))

	if store.consume("state-1") {
		t.Fatalf("expected expired state to be rejected")
	}
}

func TestAppendToken(t *testing.T) {
	got, err := appendToken("http://localhost:3000/login?next=/docs", "abc123")
	if err != nil {
		t.Fatalf("appendToken: %v", err)
	}
	if got != "http://localhost:3000/login?next=%2Fdocs&token=abc123" {
		t.Fatalf("unexpected url %s", got)
	}
}
