//go:build linux

package buzzer

import (
	"github.com/pkg/errors"
	"github.com/stianeikeland/go-rpio/v4"
)

// Real is a PWMBuzzer on a Raspberry Pi hardware PWM pin.
type Real struct {
	*PWMBuzzer
	pin rpio.Pin
}

// NewReal maps the GPIO registers and configures pin for PWM.
func NewReal(pin int) (*Real, error) {
	if pin < 0 || pin > 255 {
		return nil, errors.Errorf("buzzer pin %d out of range", pin)
	}
	if err := rpio.Open(); err != nil {
		return nil, errors.Wrapf(err, "open gpio memory for buzzer pin %d", pin)
	}

	p := rpio.Pin(uint8(pin))
	p.Mode(rpio.Pwm)
	return &Real{PWMBuzzer: newPWMBuzzer(p), pin: p}, nil
}

// Close silences the buzzer, returns the pin to input and unmaps the registers.
func (r *Real) Close() error {
	r.SetOutput(false)
	r.pin.Input()
	if err := rpio.Close(); err != nil {
		return errors.Wrap(err, "close gpio memory")
	}
	return nil
}
