// Package mqtt provides MQTT publishing and remote commands with abstraction
// for testing.
package mqtt

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sweeney/pomodoro-timer/internal/logic"
)

// Topic is the MQTT topic for timer events.
const Topic = "pomodoro/timer/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "pomodoro/timer/system"

// TopicCommand is the MQTT topic remote commands are read from.
const TopicCommand = "pomodoro/timer/command"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a timer event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event logic.Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Timer TimerPayload `json:"timer"`
}

// TimerPayload contains the timer event details.
type TimerPayload struct {
	Timestamp        string `json:"timestamp"`
	Event            string `json:"event"`
	Mode             string `json:"mode"`
	State            string `json:"state"`
	ElapsedSeconds   int64  `json:"elapsed_seconds"`
	RemainingSeconds int64  `json:"remaining_seconds"`
	Reason           string `json:"reason,omitempty"`
}

// FormatPayload creates the JSON payload for a timer event.
// Remaining time is rounded up to whole seconds, as shown on the display.
func FormatPayload(event logic.Event) ([]byte, error) {
	payload := Payload{
		Timer: TimerPayload{
			Timestamp:        event.Timestamp.UTC().Format(time.RFC3339),
			Event:            string(event.Type),
			Mode:             string(event.Mode),
			State:            string(event.State),
			ElapsedSeconds:   int64(event.Elapsed / time.Second),
			RemainingSeconds: logic.WholeSeconds(event.Remaining),
			Reason:           event.Reason,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (LWT, RECONNECTED) that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}

// CommandPayload is a remote command read from TopicCommand, e.g.
// {"command":"PRESS","button":"work"} or {"command":"START","mode":"break"}.
type CommandPayload struct {
	Command string `json:"command"`
	Button  string `json:"button,omitempty"`
	Mode    string `json:"mode,omitempty"`
}

// ParseCommand decodes a remote command received at now.
func ParseCommand(data []byte, now time.Time) (logic.Command, error) {
	var p CommandPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return logic.Command{}, fmt.Errorf("decode command: %w", err)
	}

	cmd := logic.Command{
		Type:   logic.CommandType(strings.ToUpper(p.Command)),
		Button: p.Button,
		Mode:   logic.Mode(p.Mode),
		Time:   now,
	}

	switch cmd.Type {
	case logic.CommandPress:
		if cmd.Button == "" {
			return logic.Command{}, fmt.Errorf("command %s: button is required", cmd.Type)
		}
	case logic.CommandStart:
		if cmd.Mode == "" {
			return logic.Command{}, fmt.Errorf("command %s: mode is required", cmd.Type)
		}
	case logic.CommandPause, logic.CommandResume, logic.CommandReset:
	default:
		return logic.Command{}, fmt.Errorf("unknown command %q", p.Command)
	}
	return cmd, nil
}
