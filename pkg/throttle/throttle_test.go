package throttle

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type statusErr int

func (s statusErr) Error() string   { return fmt.Sprintf("http %d", int(s)) }
func (s statusErr) StatusCode() int { return int(s) }

func TestOverloaded(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("plain"), false},
		{statusErr(400), false},
		{statusErr(429), true},
		{statusErr(503), true},
		{fmt.Errorf("wrapped: %w", statusErr(500)), true},
	}
	for _, c := range cases {
		if got := Overloaded(c.err); got != c.want {
			t.Errorf("Overloaded(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}

func TestBackoffAndRecovery(t *testing.T) {
	l := New(2, 0.5, 4)
	now := time.Now()
	l.now = func() time.Time { return now }

	l.Observe(statusErr(429))
	if got := l.Limit(); got != 1 {
		t.Fatalf("expected rate halved to 1, got %v", got)
	}

	l.Observe(statusErr(502))
	l.Observe(statusErr(502))
	if got := l.Limit(); got != 0.5 {
		t.Fatalf("expected rate clamped at min, got %v", got)
	}

	// success right after a backoff does not raise the rate
	l.Observe(nil)
	if got := l.Limit(); got != 0.5 {
		t.Fatalf("rate raised during cooldown: %v", got)
	}

	now = now.Add(recovery + time.Second)
	l.Observe(nil)
	if got := l.Limit(); got != 1 {
		t.Fatalf("expected rate to recover to 1, got %v", got)
	}
}

func TestClientErrorsDoNotBackoff(t *testing.T) {
	l := New(2, 0.5, 4)
	l.Observe(statusErr(401))
	l.Observe(errors.New("decode"))
	if got := l.Limit(); got != 2 {
		t.Fatalf("rate changed on non-overload error: %v", got)
	}
}

func TestWaitHonoursContext(t *testing.T) {
	l := New(0.1, 0.1, 0.1)
	ctx := context.Background()
	if err := l.Wait(ctx); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	if err := l.Wait(ctx); err == nil {
		t.Fatal("expected wait to fail once the context expires")
	}
}
