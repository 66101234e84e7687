package state

import (
	"testing"
	"time"
)

func TestStateLifecycle(t *testing.T) {
	m := NewMemoryManager()

	if m.GetState(1) != StateIdle {
		t.Fatal("expected idle for unknown user")
	}
	if m.InProgress(1) {
		t.Fatal("unknown user must not be in progress")
	}

	m.SetState(1, State("await_input"))
	if !m.InProgress(1) {
		t.Fatal("expected active state")
	}

	m.ClearState(1)
	if m.GetState(1) != StateIdle {
		t.Fatal("expected idle after clear")
	}
}

func TestStateTTLExpires(t *testing.T) {
	m := NewMemoryManager()

	m.SetStateTTL(1, State("await_input"), 5*time.Millisecond)
	if !m.InProgress(1) {
		t.Fatal("state must be active before the deadline")
	}

	time.Sleep(15 * time.Millisecond)
	if m.InProgress(1) {
		t.Fatal("state must expire after the deadline")
	}
	if m.GetState(1) != StateIdle {
		t.Fatal("expired state must read as idle")
	}
}

func TestStateTTLZeroNeverExpires(t *testing.T) {
	m := NewMemoryManager()

	m.SetStateTTL(1, State("await_input"), 0)
	time.Sleep(5 * time.Millisecond)
	if !m.InProgress(1) {
		t.Fatal("zero ttl must not expire")
	}
}

func TestTempData(t *testing.T) {
	m := NewMemoryManager()

	m.SetTemp(1, "target", int64(42))
	v, ok := m.GetTempInt64(1, "target")
	if !ok || v != 42 {
		t.Fatalf("got %d %v", v, ok)
	}

	m.ClearTemp(1, "target")
	if _, ok := m.GetTemp(1, "target"); ok {
		t.Fatal("temp value must be cleared")
	}

	m.SetTemp(1, "target", "not an int")
	if _, ok := m.GetTempInt64(1, "target"); ok {
		t.Fatal("type mismatch must not assert")
	}
}
