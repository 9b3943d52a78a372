package logic

import (
	"sync"
	"time"
)

// ButtonConfig binds a physical button to a mode.
type ButtonConfig struct {
	Name      string
	Mode      Mode
	LongPress bool // holding the button resets the timer
}

// DispatcherConfig configures press classification.
type DispatcherConfig struct {
	Buttons []ButtonConfig

	Debounce     time.Duration
	LongPress    time.Duration
	DualCooldown time.Duration

	// RestartOnFinish restarts the interval on a press while Finished.
	// When false the press only resets.
	RestartOnFinish bool
}

// DefaultDispatcherConfig returns the two-button work/break layout.
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		Buttons: []ButtonConfig{
			{Name: "work", Mode: "work"},
			{Name: "break", Mode: "break"},
		},
		Debounce:        200 * time.Millisecond,
		LongPress:       time.Second,
		DualCooldown:    500 * time.Millisecond,
		RestartOnFinish: true,
	}
}

// buttonState tracks one button between samples.
type buttonState struct {
	cfg  ButtonConfig
	gate *Gate

	held      bool
	heldSince time.Time
	consumed  bool // a long or dual press fired during this hold

	// Rising edges are suppressed while suppressHeld is set and until
	// suppressUntil, so contact bounce on release does not count as a press.
	suppressHeld  bool
	suppressUntil time.Time
}

// Dispatcher turns raw button edges and level samples into timer commands.
// Dispatcher is safe for concurrent use.
type Dispatcher struct {
	mu sync.Mutex

	cfg     DispatcherConfig
	timer   *Timer
	buttons map[string]*buttonState
	order   []string

	cooldownUntil time.Time
	dualLatched   bool
}

// NewDispatcher creates a dispatcher issuing commands to timer.
func NewDispatcher(cfg DispatcherConfig, timer *Timer) *Dispatcher {
	d := &Dispatcher{
		cfg:     cfg,
		timer:   timer,
		buttons: make(map[string]*buttonState, len(cfg.Buttons)),
	}
	for _, b := range cfg.Buttons {
		d.buttons[b.Name] = &buttonState{cfg: b, gate: NewGate(cfg.Debounce)}
		d.order = append(d.order, b.Name)
	}
	return d
}

// Buttons returns the configured button names in configuration order.
func (d *Dispatcher) Buttons() []string {
	return append([]string(nil), d.order...)
}

// Press handles a rising edge from button at ts. Bounces, presses inside the
// dual-press cooldown and the release that follows a long press are dropped.
func (d *Dispatcher) Press(button string, ts time.Time) []Event {
	d.mu.Lock()
	defer d.mu.Unlock()

	b, ok := d.buttons[button]
	if !ok {
		return nil
	}
	if ts.Before(d.cooldownUntil) {
		return nil
	}
	if !b.gate.Allow(ts) {
		return nil
	}
	if b.suppressHeld || ts.Before(b.suppressUntil) {
		return nil
	}

	return d.timer.press(b.cfg.Mode, ts, d.cfg.RestartOnFinish)
}

// Sample handles the current button levels (true = pressed) at now.
// It detects dual presses and long presses. Buttons missing from levels are
// treated as released.
func (d *Dispatcher) Sample(levels map[string]bool, now time.Time) []Event {
	d.mu.Lock()
	defer d.mu.Unlock()

	pressed := 0
	for _, name := range d.order {
		b := d.buttons[name]
		down := levels[name]
		if down && !b.held {
			b.held = true
			b.heldSince = now
		}
		if !down && b.held {
			d.releaseLocked(b, now)
		}
		if down {
			pressed++
		}
	}

	if pressed < 2 {
		d.dualLatched = false
	}

	if now.Before(d.cooldownUntil) {
		return nil
	}

	if pressed >= 2 && len(d.order) >= 2 {
		if d.dualLatched {
			return nil
		}
		d.dualLatched = true
		d.cooldownUntil = now.Add(d.cfg.DualCooldown)
		for _, b := range d.buttons {
			if b.held {
				b.consumed = true
				b.suppressHeld = true
			}
		}
		return d.timer.Reset(now, ReasonDualPress)
	}

	var events []Event
	for _, name := range d.order {
		b := d.buttons[name]
		if !b.cfg.LongPress || !b.held || b.consumed {
			continue
		}
		if now.Sub(b.heldSince) >= d.cfg.LongPress {
			b.consumed = true
			b.suppressHeld = true
			events = append(events, d.timer.Reset(now, ReasonLongPress)...)
		}
	}
	return events
}

// Apply executes a remote command at cmd.Time.
func (d *Dispatcher) Apply(cmd Command) []Event {
	switch cmd.Type {
	case CommandPress:
		d.mu.Lock()
		b, ok := d.buttons[cmd.Button]
		d.mu.Unlock()
		if !ok {
			return nil
		}
		return d.timer.press(b.cfg.Mode, cmd.Time, d.cfg.RestartOnFinish)
	case CommandStart:
		return d.timer.Start(cmd.Mode, cmd.Time)
	case CommandPause:
		return d.timer.Pause(cmd.Time)
	case CommandResume:
		return d.timer.Resume(cmd.Time)
	case CommandReset:
		return d.timer.Reset(cmd.Time, ReasonCommand)
	}
	return nil
}

func (d *Dispatcher) releaseLocked(b *buttonState, now time.Time) {
	if b.suppressHeld {
		b.suppressHeld = false
		b.suppressUntil = now.Add(d.cfg.Debounce)
	}
	b.held = false
	b.heldSince = time.Time{}
	b.consumed = false
}
