package logic

import "time"

// Gate suppresses events arriving within a minimum interval of the last
// accepted one. The first event is always accepted.
type Gate struct {
	interval time.Duration
	last     time.Time
	seen     bool
}

// NewGate creates a debounce gate with the given minimum spacing.
func NewGate(interval time.Duration) *Gate {
	return &Gate{interval: interval}
}

// Allow reports whether an event at now is accepted, recording it if so.
// A rejected event leaves the gate unchanged.
func (g *Gate) Allow(now time.Time) bool {
	if g.seen && now.Sub(g.last) < g.interval {
		return false
	}
	g.last = now
	g.seen = true
	return true
}

// Interval returns the minimum spacing between accepted events.
func (g *Gate) Interval() time.Duration {
	return g.interval
}
