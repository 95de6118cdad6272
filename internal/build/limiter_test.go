// # internal/build/limiter_test.go
package build

import (
	"context"
	"testing"
	"time"
)

func TestLimiterAllow(t *testing.T) {
	l := NewLimiter(1, 2)

	if !l.Allow() {
		t.Error("first build within burst should be allowed")
	}
	if !l.Allow() {
		t.Error("second build within burst should be allowed")
	}
	if l.Allow() {
		t.Error("third immediate build should exceed the burst")
	}
}

func TestLimiterDefaults(t *testing.T) {
	l := NewLimiter(0, 0)

	// A zero-valued config must still yield a working bucket with the
	// default burst.
	for i := 0; i < DefaultBurst; i++ {
		if !l.Allow() {
			t.Fatalf("build %d within default burst should be allowed", i+1)
		}
	}
	if l.Allow() {
		t.Error("build beyond default burst should be limited")
	}
}

func TestLimiterWait(t *testing.T) {
	l := NewLimiter(100, 1)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := l.Wait(ctx); err != nil {
		t.Fatalf("first wait should succeed immediately: %v", err)
	}
	if err := l.Wait(ctx); err != nil {
		t.Fatalf("second wait should succeed within the refill window: %v", err)
	}
}

func TestLimiterWaitCancelled(t *testing.T) {
	l := NewLimiter(0.001, 1)
	l.Allow()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx); err == nil {
		t.Error("wait should fail once the context deadline passes")
	}
}
