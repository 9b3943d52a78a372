package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Timer.Modes) != 2 || cfg.Timer.Modes[0].Duration != 25*time.Minute {
		t.Errorf("expected default modes, got %+v", cfg.Timer.Modes)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BuzzerPin != 18 {
		t.Errorf("expected default buzzer pin, got %d", cfg.BuzzerPin)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timer.yaml")
	data := `
modes:
  - name: focus
    duration_seconds: 3000
    led_pin: 5
buttons:
  - name: main
    mode: focus
    pin: 6
    long_press: true
restart_on_finish: false
pause_led_off: true
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cfg.Timer.Modes) != 1 || cfg.Timer.Modes[0].Name != "focus" || cfg.Timer.Modes[0].Duration != 50*time.Minute {
		t.Errorf("unexpected modes %+v", cfg.Timer.Modes)
	}
	if len(cfg.Dispatcher.Buttons) != 1 || !cfg.Dispatcher.Buttons[0].LongPress {
		t.Errorf("unexpected buttons %+v", cfg.Dispatcher.Buttons)
	}
	if cfg.ButtonPins[0].Offset != 6 || cfg.LEDPins[0].Offset != 5 {
		t.Errorf("unexpected pins buttons=%v leds=%v", cfg.ButtonPins, cfg.LEDPins)
	}
	if cfg.Dispatcher.RestartOnFinish {
		t.Error("expected restart_on_finish false")
	}
	if !cfg.Timer.PauseIndicatorOff {
		t.Error("expected pause_led_off true")
	}
	// Untouched settings keep their defaults.
	if cfg.Dispatcher.Debounce != 200*time.Millisecond || cfg.Timer.PauseBlinkHz != 2 {
		t.Errorf("defaults lost: debounce=%v pause_hz=%v", cfg.Dispatcher.Debounce, cfg.Timer.PauseBlinkHz)
	}
}

func TestParseTimingAndAlarm(t *testing.T) {
	cfg, err := Parse([]byte(`
debounce_ms: 50
long_press_ms: 1500
dual_cooldown_ms: 750
pause_blink_hz: 1
finish_blink_hz: 8
blink_display: false
display_refresh_ms: 500
alarm:
  - {frequency: 440, on_ms: 100, off_ms: 50}
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Dispatcher.Debounce != 50*time.Millisecond ||
		cfg.Dispatcher.LongPress != 1500*time.Millisecond ||
		cfg.Dispatcher.DualCooldown != 750*time.Millisecond {
		t.Errorf("unexpected dispatcher timing %+v", cfg.Dispatcher)
	}
	if cfg.Timer.PauseBlinkHz != 1 || cfg.Timer.FinishBlinkHz != 8 || cfg.Timer.BlinkDisplay {
		t.Errorf("unexpected blink policy %+v", cfg.Timer)
	}
	if cfg.Timer.DisplayRefresh != 500*time.Millisecond {
		t.Errorf("expected 500ms refresh, got %v", cfg.Timer.DisplayRefresh)
	}
	if len(cfg.Timer.Alarm) != 1 || cfg.Timer.Alarm[0].Frequency != 440 || cfg.Timer.Alarm[0].Off != 50*time.Millisecond {
		t.Errorf("unexpected alarm %+v", cfg.Timer.Alarm)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad yaml", "modes: [", "parse config yaml"},
		{"zero duration", "modes:\n  - {name: work, duration_seconds: 0}\n", "duration must be positive"},
		{"duplicate mode", "modes:\n  - {name: a, duration_seconds: 1}\n  - {name: a, duration_seconds: 2}\nbuttons:\n  - {name: b, mode: a, pin: 5}\n", "duplicate mode"},
		{"unknown button mode", "buttons:\n  - {name: b, mode: nap, pin: 5}\n", "unknown mode"},
		{"missing pin", "buttons:\n  - {name: b, mode: work}\n", "pin is required"},
		{"duplicate button", "buttons:\n  - {name: b, mode: work, pin: 5}\n  - {name: b, mode: break, pin: 6}\n", "duplicate button"},
		{"pin clash", "buttons:\n  - {name: b, mode: work, pin: 18}\n", "already used by buzzer"},
		{"bad alarm", "alarm:\n  - {frequency: 0, on_ms: 10, off_ms: 10}\n", "alarm step 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestMarshalReadsBack(t *testing.T) {
	cfg := Default()
	cfg.Dispatcher.RestartOnFinish = false
	cfg.Timer.PauseIndicatorOff = true

	data, err := Marshal(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := Parse(data)
	if err != nil {
		t.Fatalf("parse marshalled config: %v\n%s", err, data)
	}
	if got.Dispatcher.RestartOnFinish || !got.Timer.PauseIndicatorOff {
		t.Errorf("policies lost:\n%s", data)
	}
	if len(got.LEDPins) != 2 || got.LEDPins[1].Offset != 23 {
		t.Errorf("led pins lost: %v", got.LEDPins)
	}
	if len(got.Timer.Alarm) != len(cfg.Timer.Alarm) {
		t.Errorf("alarm lost: %d steps", len(got.Timer.Alarm))
	}
}
