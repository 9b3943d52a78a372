//go:build rp2040

package main

import "machine"

var (
	WorkButton  = machine.GP14
	BreakButton = machine.GP15

	WorkLED  = machine.GP16
	BreakLED = machine.GP17

	// GP18 is PWM slice 1, channel A.
	Buzzer    = machine.GP18
	BuzzerPWM = machine.PWM1

	SDA = machine.GP4
	SCL = machine.GP5
)
