package capture

import (
	"time"

	"github.com/benbjohnson/clock"
)

// Gate throttles captures to at most one per interval. It is owned by the
// loop goroutine and is not safe for concurrent use; a single admission per
// interval follows from the loop checking and advancing it in turn.
type Gate struct {
	interval time.Duration
	last     time.Time
	armed    bool // false until the first capture when starting immediately
}

// NewGate returns a Gate seeded at the clock's current time, so the first
// capture happens one interval after start. With firstImmediately the first
// eligible frame is captured right away instead.
func NewGate(clk clock.Clock, interval time.Duration, firstImmediately bool) *Gate {
	g := &Gate{interval: interval}
	if !firstImmediately {
		g.last = clk.Now()
		g.armed = true
	}
	return g
}

// Admit reports whether a capture at now is allowed. It does not change state.
func (g *Gate) Admit(now time.Time) bool {
	if !g.armed {
		return true
	}
	return now.Sub(g.last) >= g.interval
}

// Advance records a capture at now.
func (g *Gate) Advance(now time.Time) {
	g.last = now
	g.armed = true
}

// Last returns the time of the last capture, or the seed time.
func (g *Gate) Last() time.Time {
	return g.last
}

// Interval returns the minimum spacing between captures.
func (g *Gate) Interval() time.Duration {
	return g.interval
}
