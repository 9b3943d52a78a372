//go:build !linux

package gpio

import (
	"errors"
	"time"
)

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// RealButtons is not available on non-Linux platforms.
type RealButtons struct{}

// NewRealButtons returns an error on non-Linux platforms.
func NewRealButtons(chipName string, pins []Pin, now func() time.Time) (*RealButtons, error) {
	return nil, errUnsupported
}

// Edges returns nil on non-Linux platforms.
func (b *RealButtons) Edges() <-chan Edge {
	return nil
}

// Dropped always returns 0.
func (b *RealButtons) Dropped() uint64 {
	return 0
}

// Read is not implemented on non-Linux platforms.
func (b *RealButtons) Read() (Levels, error) {
	return nil, errors.New("gpio: not supported")
}

// Close is not implemented on non-Linux platforms.
func (b *RealButtons) Close() error {
	return nil
}

// RealLED is not available on non-Linux platforms.
type RealLED struct{}

// Set does nothing.
func (l *RealLED) Set(on bool) {}

// Toggle does nothing.
func (l *RealLED) Toggle() {}

// RealLEDs is not available on non-Linux platforms.
type RealLEDs struct{}

// NewRealLEDs returns an error on non-Linux platforms.
func NewRealLEDs(chipName string, pins []Pin) (*RealLEDs, error) {
	return nil, errUnsupported
}

// LED returns nil.
func (r *RealLEDs) LED(name string) *RealLED {
	return nil
}

// Close is not implemented on non-Linux platforms.
func (r *RealLEDs) Close() error {
	return nil
}
