package breaker

import (
	"errors"
	"testing"
	"time"
)

func TestBreakerOpensAndRecovers(t *testing.T) {
	now := time.Unix(1000, 0)
	cb := New(2, time.Minute)
	cb.now = func() time.Time { return now }

	boom := errors.New("boom")
	for i := 0; i < 2; i++ {
		if err := cb.Execute(func() error { return boom }); !errors.Is(err, boom) {
			t.Fatalf("Expected boom, got %v", err)
		}
	}
	if cb.State() != StateOpen {
		t.Fatalf("Expected open state, got %v", cb.State())
	}

	called := false
	if err := cb.Execute(func() error { called = true; return nil }); !errors.Is(err, ErrOpen) {
		t.Fatalf("Expected ErrOpen, got %v", err)
	}
	if called {
		t.Fatal("fn must not run while open")
	}

	now = now.Add(2 * time.Minute)
	if err := cb.Execute(func() error { return nil }); err != nil {
		t.Fatalf("Expected trial call to succeed, got %v", err)
	}
	if cb.State() != StateClosed {
		t.Errorf("Expected closed after successful trial, got %v", cb.State())
	}
}

func TestHalfOpenFailureReopens(t *testing.T) {
	now := time.Unix(1000, 0)
	cb := New(1, time.Second)
	cb.now = func() time.Time { return now }

	_ = cb.Execute(func() error { return errors.New("down") })
	now = now.Add(2 * time.Second)
	_ = cb.Execute(func() error { return errors.New("still down") })

	if cb.State() != StateOpen {
		t.Errorf("Expected open after failed trial, got %v", cb.State())
	}
}
