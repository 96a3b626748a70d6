// Package throttle paces outbound calls to a remote API. The rate backs off
// when the remote side reports overload and creeps back up after a quiet
// period. It never retries on its own.
//
//	lim := throttle.New(2, 0.25, 4)
//	if err := lim.Wait(ctx); err != nil {
//	    return err
//	}
//	err := call()
//	lim.Observe(err)
package throttle

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// recovery is how long the limiter must go without overload before it
	// raises the rate again.
	recovery = 10 * time.Second

	backoffFactor = 0.5
)

// StatusError is implemented by errors that carry an HTTP status code.
type StatusError interface {
	error
	StatusCode() int
}

// Overloaded reports whether err means the remote asked us to slow down:
// a 429 or any 5xx response.
func Overloaded(err error) bool {
	var se StatusError
	if !errors.As(err, &se) {
		return false
	}
	code := se.StatusCode()
	return code == http.StatusTooManyRequests || (code >= 500 && code < 600)
}

// Limiter is safe for concurrent use.
type Limiter struct {
	mu          sync.Mutex
	lim         *rate.Limiter
	min, max    rate.Limit
	step        rate.Limit
	lastBackoff time.Time
	now         func() time.Time
}

// New returns a limiter starting at initial requests per second and bounded
// by [min, max].
func New(initial, min, max float64) *Limiter {
	if min <= 0 {
		min = 0.1
	}
	if max < min {
		max = min
	}
	if initial < min {
		initial = min
	}
	if initial > max {
		initial = max
	}
	return &Limiter{
		lim:  rate.NewLimiter(rate.Limit(initial), burstFor(rate.Limit(initial))),
		min:  rate.Limit(min),
		max:  rate.Limit(max),
		step: rate.Limit(min),
		now:  time.Now,
	}
}

func (l *Limiter) Wait(ctx context.Context) error {
	return l.lim.Wait(ctx)
}

// Observe adjusts the rate from the outcome of one call.
func (l *Limiter) Observe(err error) {
	switch {
	case err == nil:
		l.success()
	case Overloaded(err):
		l.backoff()
	}
}

func (l *Limiter) success() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.now().Sub(l.lastBackoff) > recovery {
		l.set(l.lim.Limit() + l.step)
	}
}

func (l *Limiter) backoff() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastBackoff = l.now()
	l.set(l.lim.Limit() * backoffFactor)
}

// Limit returns the current requests per second.
func (l *Limiter) Limit() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return float64(l.lim.Limit())
}

// set clamps and applies a new rate. Caller holds mu.
func (l *Limiter) set(r rate.Limit) {
	if r > l.max {
		r = l.max
	}
	if r < l.min {
		r = l.min
	}
	if r != l.lim.Limit() {
		l.lim.SetLimit(r)
		l.lim.SetBurst(burstFor(r))
	}
}

func burstFor(r rate.Limit) int {
	if r < 1 {
		return 1
	}
	return int(r)
}
