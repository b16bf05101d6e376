package api

import (
	"sync"

	"golang.org/x/time/rate"
)

// actorLimiter rate-limits spend-triggering endpoints per actor, which also
// takes the edge off rapid double-clicks on the frontend's spend buttons.
type actorLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*rate.Limiter
	perMinute int
}

func newActorLimiter(perMinute int) *actorLimiter {
	return &actorLimiter{
		limiters:  make(map[string]*rate.Limiter),
		perMinute: perMinute,
	}
}

// allow reports whether the actor may proceed. A zero rate disables limiting.
func (l *actorLimiter) allow(actorID string) bool {
	if l.perMinute <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[actorID]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(float64(l.perMinute)/60.0), l.perMinute)
		l.limiters[actorID] = lim
	}
	return lim.Allow()
}
