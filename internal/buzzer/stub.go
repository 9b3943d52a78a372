//go:build !linux

package buzzer

import "github.com/pkg/errors"

// Real is not available on non-Linux platforms.
type Real struct {
	*PWMBuzzer
}

// NewReal returns an error on non-Linux platforms.
func NewReal(pin int) (*Real, error) {
	return nil, errors.Errorf("buzzer: pin %d not supported on this platform (requires Linux)", pin)
}

// Close is not implemented on non-Linux platforms.
func (r *Real) Close() error {
	return nil
}
