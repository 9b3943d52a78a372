package logic

import "time"

// Blinker toggles an Indicator periodically. hz is the number of toggles per
// second, so a 2 Hz blink completes one full on/off cycle every second.
type Blinker struct {
	target  Indicator
	period  time.Duration
	next    time.Time
	visible bool
	active  bool
}

// NewBlinker creates a stopped blinker.
func NewBlinker() *Blinker {
	return &Blinker{visible: true}
}

// Start begins toggling target at hz. visible is the phase the target is in
// now, so the first toggle moves to the opposite one. A running blink is
// replaced. hz <= 0 is coerced to 1.
func (b *Blinker) Start(target Indicator, hz float64, visible bool, now time.Time) {
	if b.active && b.target != nil && b.target != target {
		b.target.Set(false)
	}
	if hz <= 0 {
		hz = 1
	}
	b.target = target
	b.period = time.Duration(float64(time.Second) / hz)
	b.next = now.Add(b.period)
	b.visible = visible
	b.active = true
}

// Poll toggles the target if a period has elapsed and reports whether it did.
// A late poll toggles once and reschedules from now rather than catching up.
func (b *Blinker) Poll(now time.Time) bool {
	if !b.active || now.Before(b.next) {
		return false
	}
	b.visible = !b.visible
	if b.target != nil {
		b.target.Toggle()
	}
	b.next = now.Add(b.period)
	return true
}

// Stop ends blinking and forces the target off. Idempotent.
func (b *Blinker) Stop() {
	if b.target != nil {
		b.target.Set(false)
	}
	b.active = false
	b.visible = true
	b.target = nil
}

// Active reports whether the blinker is running.
func (b *Blinker) Active() bool {
	return b.active
}

// Visible reports the current phase: true in the "shown" half of the cycle.
func (b *Blinker) Visible() bool {
	return b.visible
}

// Period returns the toggle period.
func (b *Blinker) Period() time.Duration {
	return b.period
}
