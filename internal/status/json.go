package status

import (
	"encoding/json"
	"fmt"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Timer         TimerJSON    `json:"timer"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"event_counts"`
	Network       *NetworkJSON `json:"network,omitempty"`
	Config        ConfigJSON   `json:"config"`
}

// TimerJSON is the JSON representation of the timer.
type TimerJSON struct {
	State            string `json:"state"`
	Mode             string `json:"mode"`
	DurationSeconds  int64  `json:"duration_seconds"`
	ElapsedSeconds   int64  `json:"elapsed_seconds"`
	RemainingSeconds int64  `json:"remaining_seconds"`
	Remaining        string `json:"remaining"`
	Alarm            bool   `json:"alarm"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	Started  int `json:"started"`
	Paused   int `json:"paused"`
	Resumed  int `json:"resumed"`
	Finished int `json:"finished"`
	Reset    int `json:"reset"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ModeJSON is one configured interval.
type ModeJSON struct {
	Name            string `json:"name"`
	DurationSeconds int64  `json:"duration_seconds"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs      int64      `json:"poll_ms"`
	BlinkMs     int64      `json:"blink_ms"`
	DebounceMs  int64      `json:"debounce_ms"`
	LongPressMs int64      `json:"long_press_ms"`
	HeartbeatMs int64      `json:"heartbeat_ms"`
	Broker      string     `json:"broker"`
	HTTPPort    string     `json:"http_port"`
	Modes       []ModeJSON `json:"modes"`
	Buttons     []string   `json:"buttons"`
}

func buildInner(snap Snapshot) StatusInner {
	m, s := snap.Remaining()
	inner := StatusInner{
		Timer: TimerJSON{
			State:            string(snap.Timer.State),
			Mode:             string(snap.Timer.Mode),
			DurationSeconds:  int64(snap.Timer.Duration / time.Second),
			ElapsedSeconds:   int64(snap.Timer.Elapsed / time.Second),
			RemainingSeconds: int64(m*60 + s),
			Remaining:        fmt.Sprintf("%02d:%02d", m, s),
			Alarm:            snap.Timer.ToneActive,
		},
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Started:  snap.Counts.Started,
			Paused:   snap.Counts.Paused,
			Resumed:  snap.Counts.Resumed,
			Finished: snap.Counts.Finished,
			Reset:    snap.Counts.Reset,
		},
		Config: ConfigJSON{
			PollMs:      snap.Config.PollMs,
			BlinkMs:     snap.Config.BlinkMs,
			DebounceMs:  snap.Config.DebounceMs,
			LongPressMs: snap.Config.LongPressMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Broker:      snap.Config.Broker,
			HTTPPort:    snap.Config.HTTPPort,
			Modes:       []ModeJSON{},
			Buttons:     append([]string{}, snap.Config.Buttons...),
		},
	}
	for _, mode := range snap.Config.Modes {
		inner.Config.Modes = append(inner.Config.Modes, ModeJSON{
			Name:            string(mode.Name),
			DurationSeconds: int64(mode.Duration / time.Second),
		})
	}
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
