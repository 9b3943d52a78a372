// Package gpio provides button and LED access with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementations allow testing without hardware.
package gpio

import "time"

// Levels maps button names to their current level (true = pressed).
type Levels map[string]bool

// Reader reads button levels.
type Reader interface {
	// Read returns the level of every configured button.
	// Buttons are wired active high with pull-downs: raw 1 = pressed.
	Read() (Levels, error)

	// Close releases GPIO resources.
	Close() error
}

// Edge is a rising edge on a button, timestamped when it was received.
type Edge struct {
	Button string
	Time   time.Time
}

// EdgeSource delivers button edges.
type EdgeSource interface {
	Edges() <-chan Edge
}

// Pin binds a name to a BCM line offset.
type Pin struct {
	Name   string
	Offset int
}

// Default pin assignments (BCM numbering).
const (
	DefaultPinWorkButton  = 17
	DefaultPinBreakButton = 27
	DefaultPinWorkLED     = 22
	DefaultPinBreakLED    = 23
)

// DefaultChip is the GPIO chip on a Raspberry Pi.
const DefaultChip = "gpiochip0"

// EdgeBuffer is the capacity of the edge channel.
const EdgeBuffer = 16
