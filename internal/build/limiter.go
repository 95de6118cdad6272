// # internal/build/limiter.go
package build

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Defaults for change-driven rebuild pacing when the config leaves them
// unset. A small burst absorbs save-all storms from editors; the steady rate
// keeps a flapping watcher from pinning the build command.
const (
	DefaultRate  = 2
	DefaultBurst = 4
)

// Limiter is a token bucket pacing rebuild scheduling. Relevance checks are
// never limited, only the builds they trigger.
type Limiter struct {
	inner *rate.Limiter
}

// NewLimiter creates a rebuild limiter allowing perSecond sustained builds
// with the given burst. Non-positive values fall back to the defaults.
func NewLimiter(perSecond float64, burst int) *Limiter {
	if perSecond <= 0 {
		perSecond = DefaultRate
	}
	if burst <= 0 {
		burst = DefaultBurst
	}
	return &Limiter{
		inner: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// Allow reports whether a rebuild may be scheduled right now.
func (l *Limiter) Allow() bool {
	return l.inner.AllowN(time.Now(), 1)
}

// Wait blocks until the next rebuild slot opens or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.inner.Wait(ctx)
}
