// Package buzzer drives a piezo buzzer from a hardware PWM channel.
package buzzer

import (
	"log"
	"sync"

	"github.com/pkg/errors"
)

// DefaultPin is PWM0 on a Raspberry Pi (BCM numbering).
const DefaultPin = 18

// cycleLen is the PWM range per tone period. The PWM clock runs at
// frequency*cycleLen so that a 50% duty cycle is cycleLen/2.
const cycleLen = 32

// Audible range the PWM clock divider can produce with cycleLen.
const (
	MinFrequency = 150
	MaxFrequency = 20000
)

// pwmPin is the subset of a PWM-capable pin used by the buzzer.
type pwmPin interface {
	Freq(freq int)
	DutyCycle(dutyLen, cycleLen uint32)
}

// PWMBuzzer plays square-wave tones on a PWM pin.
type PWMBuzzer struct {
	mu   sync.Mutex
	pin  pwmPin
	freq uint32
	on   bool
}

func newPWMBuzzer(pin pwmPin) *PWMBuzzer {
	pin.DutyCycle(0, cycleLen)
	return &PWMBuzzer{pin: pin}
}

// SetFrequency sets the tone frequency. It takes effect immediately if the
// buzzer is sounding.
func (b *PWMBuzzer) SetFrequency(hz uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.freq = hz
	if b.on {
		b.applyLocked()
	}
}

// SetOutput starts or silences the tone.
func (b *PWMBuzzer) SetOutput(on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.on = on
	if !on {
		b.pin.DutyCycle(0, cycleLen)
		return
	}
	b.applyLocked()
}

func (b *PWMBuzzer) applyLocked() {
	if err := checkFrequency(b.freq); err != nil {
		log.Printf("buzzer: %v", err)
		b.pin.DutyCycle(0, cycleLen)
		return
	}
	b.pin.Freq(int(b.freq) * cycleLen)
	b.pin.DutyCycle(cycleLen/2, cycleLen)
}

func checkFrequency(hz uint32) error {
	if hz < MinFrequency || hz > MaxFrequency {
		return errors.Errorf("frequency %d Hz out of range [%d, %d]", hz, MinFrequency, MaxFrequency)
	}
	return nil
}
