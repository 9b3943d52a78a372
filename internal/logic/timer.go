package logic

import (
	"sync"
	"time"
)

// TimerConfig configures a Timer.
type TimerConfig struct {
	Modes []ModeConfig

	// PauseBlinkHz and FinishBlinkHz are indicator toggles per second.
	PauseBlinkHz  float64
	FinishBlinkHz float64

	// PauseIndicatorOff turns the mode's indicator off before the pause blink starts.
	PauseIndicatorOff bool

	// BlinkDisplay blanks and shows the display in step with the indicator
	// while Paused or Finished.
	BlinkDisplay bool

	// DisplayRefresh is the display update cadence while Running.
	DisplayRefresh time.Duration

	Alarm []Step
}

// DefaultTimerConfig returns the classic 25/5 minute work/break setup.
func DefaultTimerConfig() TimerConfig {
	return TimerConfig{
		Modes: []ModeConfig{
			{Name: "work", Duration: 25 * time.Minute},
			{Name: "break", Duration: 5 * time.Minute},
		},
		PauseBlinkHz:   2,
		FinishBlinkHz:  5,
		BlinkDisplay:   true,
		DisplayRefresh: time.Second,
		Alarm:          DefaultAlarm,
	}
}

// Outputs are the physical outputs a Timer drives. Any field may be nil.
type Outputs struct {
	Indicators map[Mode]Indicator
	Tone       Tone
	Display    Display
}

// Timer is the interval state machine. It tracks active time across pauses
// for one mode at a time; starting another mode discards the current one.
// Timer is safe for concurrent use.
type Timer struct {
	mu sync.Mutex

	cfg       TimerConfig
	durations map[Mode]time.Duration
	out       Outputs

	state     State
	mode      Mode
	elapsed   time.Duration
	startedAt time.Time

	blink      *Blinker
	seq        *Sequencer
	lastRender time.Time
}

// NewTimer creates a stopped timer. The first configured mode is active until
// another is started.
func NewTimer(cfg TimerConfig, out Outputs) *Timer {
	if cfg.DisplayRefresh <= 0 {
		cfg.DisplayRefresh = time.Second
	}
	t := &Timer{
		cfg:       cfg,
		durations: make(map[Mode]time.Duration, len(cfg.Modes)),
		out:       out,
		state:     StateStopped,
		blink:     NewBlinker(),
		seq:       NewSequencer(out.Tone),
	}
	for _, m := range cfg.Modes {
		t.durations[m.Name] = m.Duration
	}
	if len(cfg.Modes) > 0 {
		t.mode = cfg.Modes[0].Name
	}
	return t
}

// HasMode reports whether mode is configured.
func (t *Timer) HasMode(mode Mode) bool {
	_, ok := t.durations[mode]
	return ok
}

// State returns the current state.
func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Mode returns the active mode.
func (t *Timer) Mode() Mode {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mode
}

// Snapshot returns a point-in-time view of the timer.
func (t *Timer) Snapshot(now time.Time) TimerSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return TimerSnapshot{
		State:      t.state,
		Mode:       t.mode,
		Duration:   t.durations[t.mode],
		Elapsed:    t.totalElapsedLocked(now),
		Remaining:  t.remainingLocked(now),
		ToneActive: t.seq.Active(),
	}
}

// Start begins mode from zero. If the timer is not stopped it is reset first.
// Unknown modes are ignored.
func (t *Timer) Start(mode Mode, now time.Time) []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.startLocked(mode, now)
}

// Pause freezes the running interval. No-op unless Running.
func (t *Timer) Pause(now time.Time) []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pauseLocked(now)
}

// Resume continues a paused interval. No-op unless Paused.
func (t *Timer) Resume(now time.Time) []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.resumeLocked(now)
}

// Reset stops the timer from any state and turns every output off.
func (t *Timer) Reset(now time.Time, reason string) []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.resetLocked(now, reason)
}

// Tick is called on every poll. It advances the alarm, refreshes the display
// and finishes the interval once its duration is reached.
func (t *Timer) Tick(now time.Time) []Event {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.seq.Poll(now)

	if t.state != StateRunning {
		return nil
	}

	if t.totalElapsedLocked(now) >= t.durations[t.mode] {
		return t.finishLocked(now)
	}

	if now.Sub(t.lastRender) >= t.cfg.DisplayRefresh {
		t.renderLocked(now)
	}
	return nil
}

// Blink advances the pause/finish blink.
func (t *Timer) Blink(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.blink.Poll(now) || !t.cfg.BlinkDisplay || t.out.Display == nil {
		return
	}
	if t.blink.Visible() {
		t.renderLocked(now)
	} else {
		t.out.Display.Clear()
	}
}

// press applies one short press of the button bound to mode.
func (t *Timer) press(mode Mode, now time.Time, restartOnFinish bool) []Event {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.HasMode(mode) {
		return nil
	}

	if mode != t.mode || t.state == StateStopped {
		return t.startLocked(mode, now)
	}

	switch t.state {
	case StateRunning:
		return t.pauseLocked(now)
	case StatePaused:
		return t.resumeLocked(now)
	case StateFinished:
		if restartOnFinish {
			return t.startLocked(mode, now)
		}
		return t.resetLocked(now, ReasonButton)
	}
	return nil
}

func (t *Timer) startLocked(mode Mode, now time.Time) []Event {
	if !t.HasMode(mode) {
		return nil
	}

	var events []Event
	if t.state != StateStopped {
		reason := ReasonRestart
		if mode != t.mode {
			reason = ReasonModeSwitch
		}
		events = append(events, t.resetLocked(now, reason)...)
	}

	t.mode = mode
	t.state = StateRunning
	t.elapsed = 0
	t.startedAt = now
	t.setIndicator(mode, true)
	t.renderLocked(now)

	return append(events, t.eventLocked(EventStarted, now, ""))
}

func (t *Timer) pauseLocked(now time.Time) []Event {
	if t.state != StateRunning {
		return nil
	}

	t.elapsed += t.sinceStartLocked(now)
	t.state = StatePaused
	lit := !t.cfg.PauseIndicatorOff
	if !lit {
		t.setIndicator(t.mode, false)
	}
	t.blink.Start(t.out.Indicators[t.mode], t.cfg.PauseBlinkHz, lit, now)
	t.renderLocked(now)
	if !lit && t.cfg.BlinkDisplay && t.out.Display != nil {
		t.out.Display.Clear()
	}

	return []Event{t.eventLocked(EventPaused, now, "")}
}

func (t *Timer) resumeLocked(now time.Time) []Event {
	if t.state != StatePaused {
		return nil
	}

	t.blink.Stop()
	t.state = StateRunning
	t.startedAt = now
	t.setIndicator(t.mode, true)
	t.renderLocked(now)

	return []Event{t.eventLocked(EventResumed, now, "")}
}

func (t *Timer) finishLocked(now time.Time) []Event {
	t.elapsed = t.durations[t.mode]
	t.state = StateFinished
	t.blink.Start(t.out.Indicators[t.mode], t.cfg.FinishBlinkHz, true, now)
	t.seq.Start(t.cfg.Alarm, now)
	t.renderLocked(now)

	return []Event{t.eventLocked(EventFinished, now, "")}
}

func (t *Timer) resetLocked(now time.Time, reason string) []Event {
	// Blink first so no toggle lands after the outputs are cleared.
	t.blink.Stop()
	t.seq.Stop()
	for _, ind := range t.out.Indicators {
		if ind != nil {
			ind.Set(false)
		}
	}
	if t.out.Display != nil {
		t.out.Display.Clear()
	}

	if t.state == StateStopped {
		t.elapsed = 0
		return nil
	}

	t.state = StateStopped
	t.elapsed = 0
	t.startedAt = time.Time{}
	return []Event{t.eventLocked(EventReset, now, reason)}
}

func (t *Timer) totalElapsedLocked(now time.Time) time.Duration {
	if t.state == StateRunning {
		return t.elapsed + t.sinceStartLocked(now)
	}
	return t.elapsed
}

// sinceStartLocked is the running time since the last start or resume.
// Commands stamped before startedAt count as zero.
func (t *Timer) sinceStartLocked(now time.Time) time.Duration {
	if now.Before(t.startedAt) {
		return 0
	}
	return now.Sub(t.startedAt)
}

func (t *Timer) remainingLocked(now time.Time) time.Duration {
	if t.state == StateStopped {
		return t.durations[t.mode]
	}
	r := t.durations[t.mode] - t.totalElapsedLocked(now)
	if r < 0 {
		return 0
	}
	return r
}

func (t *Timer) renderLocked(now time.Time) {
	t.lastRender = now
	if t.out.Display == nil {
		return
	}
	m, s := SplitRemaining(t.remainingLocked(now))
	t.out.Display.RenderRemaining(m, s)
}

func (t *Timer) setIndicator(mode Mode, on bool) {
	if ind := t.out.Indicators[mode]; ind != nil {
		ind.Set(on)
	}
}

func (t *Timer) eventLocked(typ EventType, now time.Time, reason string) Event {
	return Event{
		Timestamp: now,
		Type:      typ,
		Mode:      t.mode,
		State:     t.state,
		Elapsed:   t.totalElapsedLocked(now),
		Remaining: t.remainingLocked(now),
		Reason:    reason,
	}
}
