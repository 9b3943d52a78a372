//go:build rp2040

package main

import "machine"

type pwmGroup interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	SetPeriod(period uint64) error
	Top() uint32
	Set(channel uint8, value uint32)
}

// pwmTone drives a passive buzzer with a square wave at half duty.
type pwmTone struct {
	pwm  pwmGroup
	ch   uint8
	freq uint32
	on   bool
}

func newPWMTone(pwm pwmGroup, pin machine.Pin) (*pwmTone, error) {
	if err := pwm.Configure(machine.PWMConfig{Period: 1e9 / 1000}); err != nil {
		return nil, err
	}
	ch, err := pwm.Channel(pin)
	if err != nil {
		return nil, err
	}
	pwm.Set(ch, 0)
	return &pwmTone{pwm: pwm, ch: ch}, nil
}

func (t *pwmTone) SetFrequency(hz uint32) {
	t.freq = hz
	if t.on {
		t.apply()
	}
}

func (t *pwmTone) SetOutput(on bool) {
	t.on = on
	t.apply()
}

func (t *pwmTone) apply() {
	if !t.on || t.freq == 0 {
		t.pwm.Set(t.ch, 0)
		return
	}
	if err := t.pwm.SetPeriod(1e9 / uint64(t.freq)); err != nil {
		println("tone: period:", err.Error())
		t.pwm.Set(t.ch, 0)
		return
	}
	t.pwm.Set(t.ch, t.pwm.Top()/2)
}

// pinLED is an active-high LED on a GPIO pin.
type pinLED struct {
	pin machine.Pin
}

func newPinLED(pin machine.Pin) *pinLED {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pin.Low()
	return &pinLED{pin: pin}
}

func (l *pinLED) Set(on bool) { l.pin.Set(on) }

func (l *pinLED) Toggle() { l.pin.Set(!l.pin.Get()) }
