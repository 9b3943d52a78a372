// Package logic contains the pure interval-timer logic: debounce, tone sequencing,
// blinking, the timer state machine and button dispatch.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// State represents the lifecycle state of the timer.
type State string

const (
	StateStopped  State = "STOPPED"
	StateRunning  State = "RUNNING"
	StatePaused   State = "PAUSED"
	StateFinished State = "FINISHED"
)

// Mode names an interval configuration, e.g. "work" or "break".
type Mode string

// ModeConfig is the configured length of a named interval.
type ModeConfig struct {
	Name     Mode
	Duration time.Duration
}

// EventType represents a timer transition event.
type EventType string

const (
	EventStarted  EventType = "STARTED"
	EventPaused   EventType = "PAUSED"
	EventResumed  EventType = "RESUMED"
	EventFinished EventType = "FINISHED"
	EventReset    EventType = "RESET"
)

// Reset reasons carried on RESET events.
const (
	ReasonButton     = "button"
	ReasonLongPress  = "long_press"
	ReasonDualPress  = "dual_press"
	ReasonModeSwitch = "mode_switch"
	ReasonRestart    = "restart"
	ReasonCommand    = "command"
)

// Event represents a state transition to be published.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Mode      Mode
	State     State // state after the transition
	Elapsed   time.Duration
	Remaining time.Duration
	Reason    string // RESET only
}

// EventCounts tracks the number of each event type since startup.
type EventCounts struct {
	Started  int
	Paused   int
	Resumed  int
	Finished int
	Reset    int
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    EventCounts
}

// Step is one tone of an alarm sequence: a frequency held for On,
// followed by Off of silence.
type Step struct {
	Frequency uint32 // Hz
	On        time.Duration
	Off       time.Duration
}

// Display renders the remaining time of the active interval.
type Display interface {
	RenderRemaining(minutes, seconds int)
	Clear()
}

// Tone drives a buzzer.
type Tone interface {
	SetFrequency(hz uint32)
	SetOutput(on bool)
}

// Indicator is a single on/off visual output such as an LED.
type Indicator interface {
	Set(on bool)
	Toggle()
}

// CommandType identifies a remote command.
type CommandType string

const (
	CommandPress  CommandType = "PRESS"
	CommandStart  CommandType = "START"
	CommandPause  CommandType = "PAUSE"
	CommandResume CommandType = "RESUME"
	CommandReset  CommandType = "RESET"
)

// Command is a request that did not originate from a mechanical button,
// e.g. from MQTT or HTTP.
type Command struct {
	Type   CommandType
	Button string // PRESS
	Mode   Mode   // START
	Time   time.Time
}

// TimerSnapshot is a point-in-time view of the timer.
type TimerSnapshot struct {
	State      State
	Mode       Mode
	Duration   time.Duration
	Elapsed    time.Duration
	Remaining  time.Duration
	ToneActive bool
}

// WholeSeconds rounds d up to whole seconds, the way the display counts down.
// Negative durations are clamped to zero.
func WholeSeconds(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	return int64((d + time.Second - 1) / time.Second)
}

// SplitRemaining returns WholeSeconds(d) as minutes and seconds.
func SplitRemaining(d time.Duration) (minutes, seconds int) {
	total := int(WholeSeconds(d))
	return total / 60, total % 60
}
