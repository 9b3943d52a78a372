// Package config loads the timer layout (modes, buttons, pins and feedback
// policy) from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sweeney/pomodoro-timer/internal/buzzer"
	"github.com/sweeney/pomodoro-timer/internal/gpio"
	"github.com/sweeney/pomodoro-timer/internal/logic"
	"gopkg.in/yaml.v3"
)

// Config is the effective configuration.
type Config struct {
	Timer      logic.TimerConfig
	Dispatcher logic.DispatcherConfig

	Chip       string
	ButtonPins []gpio.Pin // by button name
	LEDPins    []gpio.Pin // by mode name
	BuzzerPin  int
}

// Default returns the two-button work/break layout.
func Default() Config {
	return Config{
		Timer:      logic.DefaultTimerConfig(),
		Dispatcher: logic.DefaultDispatcherConfig(),
		Chip:       gpio.DefaultChip,
		ButtonPins: []gpio.Pin{
			{Name: "work", Offset: gpio.DefaultPinWorkButton},
			{Name: "break", Offset: gpio.DefaultPinBreakButton},
		},
		LEDPins: []gpio.Pin{
			{Name: "work", Offset: gpio.DefaultPinWorkLED},
			{Name: "break", Offset: gpio.DefaultPinBreakLED},
		},
		BuzzerPin: buzzer.DefaultPin,
	}
}

type yamlConfig struct {
	Chip      string       `yaml:"chip,omitempty"`
	BuzzerPin *int         `yaml:"buzzer_pin,omitempty"`
	Modes     []yamlMode   `yaml:"modes,omitempty"`
	Buttons   []yamlButton `yaml:"buttons,omitempty"`

	DebounceMs      int   `yaml:"debounce_ms,omitempty"`
	LongPressMs     int   `yaml:"long_press_ms,omitempty"`
	DualCooldownMs  int   `yaml:"dual_cooldown_ms,omitempty"`
	RestartOnFinish *bool `yaml:"restart_on_finish,omitempty"`

	PauseBlinkHz     float64    `yaml:"pause_blink_hz,omitempty"`
	FinishBlinkHz    float64    `yaml:"finish_blink_hz,omitempty"`
	PauseLEDOff      *bool      `yaml:"pause_led_off,omitempty"`
	BlinkDisplay     *bool      `yaml:"blink_display,omitempty"`
	DisplayRefreshMs int        `yaml:"display_refresh_ms,omitempty"`
	Alarm            []yamlStep `yaml:"alarm,omitempty"`
}

type yamlMode struct {
	Name            string `yaml:"name"`
	DurationSeconds int    `yaml:"duration_seconds"`
	LEDPin          *int   `yaml:"led_pin,omitempty"`
}

type yamlButton struct {
	Name      string `yaml:"name"`
	Mode      string `yaml:"mode"`
	Pin       *int   `yaml:"pin"`
	LongPress bool   `yaml:"long_press,omitempty"`
}

type yamlStep struct {
	Frequency uint32 `yaml:"frequency"`
	OnMs      int    `yaml:"on_ms"`
	OffMs     int    `yaml:"off_ms"`
}

// Load reads the configuration at path.
// If path is empty or the file does not exist, defaults are returned.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("read config file: %w", err)
	}
	return Parse(rawData)
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	var fileData yamlConfig
	if err := yaml.Unmarshal(data, &fileData); err != nil {
		return cfg, fmt.Errorf("parse config yaml: %w", err)
	}

	if err := applyYaml(&cfg, fileData); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Marshal encodes cfg as YAML in the format Parse reads.
func Marshal(cfg Config) ([]byte, error) {
	leds := make(map[string]int, len(cfg.LEDPins))
	for _, p := range cfg.LEDPins {
		leds[p.Name] = p.Offset
	}
	buttons := make(map[string]int, len(cfg.ButtonPins))
	for _, p := range cfg.ButtonPins {
		buttons[p.Name] = p.Offset
	}

	buzzerPin := cfg.BuzzerPin
	restart := cfg.Dispatcher.RestartOnFinish
	pauseOff := cfg.Timer.PauseIndicatorOff
	blinkDisplay := cfg.Timer.BlinkDisplay

	fileData := yamlConfig{
		Chip:             cfg.Chip,
		BuzzerPin:        &buzzerPin,
		DebounceMs:       int(cfg.Dispatcher.Debounce / time.Millisecond),
		LongPressMs:      int(cfg.Dispatcher.LongPress / time.Millisecond),
		DualCooldownMs:   int(cfg.Dispatcher.DualCooldown / time.Millisecond),
		RestartOnFinish:  &restart,
		PauseBlinkHz:     cfg.Timer.PauseBlinkHz,
		FinishBlinkHz:    cfg.Timer.FinishBlinkHz,
		PauseLEDOff:      &pauseOff,
		BlinkDisplay:     &blinkDisplay,
		DisplayRefreshMs: int(cfg.Timer.DisplayRefresh / time.Millisecond),
	}
	for _, m := range cfg.Timer.Modes {
		ym := yamlMode{Name: string(m.Name), DurationSeconds: int(m.Duration / time.Second)}
		if pin, ok := leds[string(m.Name)]; ok {
			ym.LEDPin = &pin
		}
		fileData.Modes = append(fileData.Modes, ym)
	}
	for _, b := range cfg.Dispatcher.Buttons {
		yb := yamlButton{Name: b.Name, Mode: string(b.Mode), LongPress: b.LongPress}
		if pin, ok := buttons[b.Name]; ok {
			yb.Pin = &pin
		}
		fileData.Buttons = append(fileData.Buttons, yb)
	}
	for _, s := range cfg.Timer.Alarm {
		fileData.Alarm = append(fileData.Alarm, yamlStep{
			Frequency: s.Frequency,
			OnMs:      int(s.On / time.Millisecond),
			OffMs:     int(s.Off / time.Millisecond),
		})
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return nil, fmt.Errorf("marshal config yaml: %w", err)
	}
	return serialized, nil
}

func applyYaml(cfg *Config, fileData yamlConfig) error {
	if fileData.Chip != "" {
		cfg.Chip = fileData.Chip
	}
	if fileData.BuzzerPin != nil {
		cfg.BuzzerPin = *fileData.BuzzerPin
	}

	if len(fileData.Modes) > 0 {
		cfg.Timer.Modes = nil
		cfg.LEDPins = nil
		for _, m := range fileData.Modes {
			cfg.Timer.Modes = append(cfg.Timer.Modes, logic.ModeConfig{
				Name:     logic.Mode(m.Name),
				Duration: time.Duration(m.DurationSeconds) * time.Second,
			})
			if m.LEDPin != nil {
				cfg.LEDPins = append(cfg.LEDPins, gpio.Pin{Name: m.Name, Offset: *m.LEDPin})
			}
		}
	}

	if len(fileData.Buttons) > 0 {
		cfg.Dispatcher.Buttons = nil
		cfg.ButtonPins = nil
		for _, b := range fileData.Buttons {
			if b.Pin == nil {
				return fmt.Errorf("button %q: pin is required", b.Name)
			}
			cfg.Dispatcher.Buttons = append(cfg.Dispatcher.Buttons, logic.ButtonConfig{
				Name:      b.Name,
				Mode:      logic.Mode(b.Mode),
				LongPress: b.LongPress,
			})
			cfg.ButtonPins = append(cfg.ButtonPins, gpio.Pin{Name: b.Name, Offset: *b.Pin})
		}
	}

	if fileData.DebounceMs > 0 {
		cfg.Dispatcher.Debounce = time.Duration(fileData.DebounceMs) * time.Millisecond
	}
	if fileData.LongPressMs > 0 {
		cfg.Dispatcher.LongPress = time.Duration(fileData.LongPressMs) * time.Millisecond
	}
	if fileData.DualCooldownMs > 0 {
		cfg.Dispatcher.DualCooldown = time.Duration(fileData.DualCooldownMs) * time.Millisecond
	}
	if fileData.RestartOnFinish != nil {
		cfg.Dispatcher.RestartOnFinish = *fileData.RestartOnFinish
	}

	if fileData.PauseBlinkHz > 0 {
		cfg.Timer.PauseBlinkHz = fileData.PauseBlinkHz
	}
	if fileData.FinishBlinkHz > 0 {
		cfg.Timer.FinishBlinkHz = fileData.FinishBlinkHz
	}
	if fileData.PauseLEDOff != nil {
		cfg.Timer.PauseIndicatorOff = *fileData.PauseLEDOff
	}
	if fileData.BlinkDisplay != nil {
		cfg.Timer.BlinkDisplay = *fileData.BlinkDisplay
	}
	if fileData.DisplayRefreshMs > 0 {
		cfg.Timer.DisplayRefresh = time.Duration(fileData.DisplayRefreshMs) * time.Millisecond
	}

	if len(fileData.Alarm) > 0 {
		cfg.Timer.Alarm = nil
		for _, s := range fileData.Alarm {
			cfg.Timer.Alarm = append(cfg.Timer.Alarm, logic.Step{
				Frequency: s.Frequency,
				On:        time.Duration(s.OnMs) * time.Millisecond,
				Off:       time.Duration(s.OffMs) * time.Millisecond,
			})
		}
	}
	return nil
}

// Validate checks modes, buttons, pins and the alarm.
func (c Config) Validate() error {
	if len(c.Timer.Modes) == 0 {
		return errors.New("config: at least one mode is required")
	}
	modes := make(map[logic.Mode]bool, len(c.Timer.Modes))
	for _, m := range c.Timer.Modes {
		if m.Name == "" {
			return errors.New("config: mode name is required")
		}
		if modes[m.Name] {
			return fmt.Errorf("config: duplicate mode %q", m.Name)
		}
		if m.Duration <= 0 {
			return fmt.Errorf("config: mode %q: duration must be positive", m.Name)
		}
		modes[m.Name] = true
	}

	if len(c.Dispatcher.Buttons) == 0 {
		return errors.New("config: at least one button is required")
	}
	buttons := make(map[string]bool, len(c.Dispatcher.Buttons))
	for _, b := range c.Dispatcher.Buttons {
		if b.Name == "" {
			return errors.New("config: button name is required")
		}
		if buttons[b.Name] {
			return fmt.Errorf("config: duplicate button %q", b.Name)
		}
		if !modes[b.Mode] {
			return fmt.Errorf("config: button %q: unknown mode %q", b.Name, b.Mode)
		}
		buttons[b.Name] = true
	}

	pins := map[int]string{c.BuzzerPin: "buzzer"}
	claim := func(kind string, p gpio.Pin) error {
		if p.Offset < 0 {
			return fmt.Errorf("config: %s %q: invalid pin %d", kind, p.Name, p.Offset)
		}
		if owner, ok := pins[p.Offset]; ok {
			return fmt.Errorf("config: %s %q: pin %d already used by %s", kind, p.Name, p.Offset, owner)
		}
		pins[p.Offset] = kind + " " + p.Name
		return nil
	}
	for _, p := range c.ButtonPins {
		if err := claim("button", p); err != nil {
			return err
		}
	}
	for _, p := range c.LEDPins {
		if !modes[logic.Mode(p.Name)] {
			return fmt.Errorf("config: led for unknown mode %q", p.Name)
		}
		if err := claim("led", p); err != nil {
			return err
		}
	}

	for i, s := range c.Timer.Alarm {
		if s.Frequency == 0 || s.On <= 0 || s.Off < 0 {
			return fmt.Errorf("config: alarm step %d: frequency and tone length must be positive", i)
		}
	}
	return nil
}
