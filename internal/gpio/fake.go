package gpio

import (
	"errors"
	"sync"
	"time"
)

// FakeReader is a test double that returns scripted button levels.
type FakeReader struct {
	// Samples contains scripted levels to return.
	// Each call to Read() consumes the next sample.
	Samples []Levels

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// NewFakeReader creates a FakeReader with the given samples.
func NewFakeReader(samples []Levels) *FakeReader {
	return &FakeReader{Samples: samples}
}

// Read returns a copy of the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeReader) Read() (Levels, error) {
	if f.ReadError != nil {
		return nil, f.ReadError
	}

	if len(f.Samples) == 0 {
		return nil, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	out := make(Levels, len(sample))
	for k, v := range sample {
		out[k] = v
	}
	return out, nil
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the reader to the beginning of samples.
func (f *FakeReader) Reset() {
	f.index = 0
	f.Closed = false
}

// FakeEdges is an EdgeSource fed by tests. The channel is unbuffered, so
// Push returns only once the consumer has taken the edge and edges stay
// ordered with respect to the consumer's other inputs.
type FakeEdges struct {
	ch chan Edge
}

// NewFakeEdges creates a FakeEdges.
func NewFakeEdges() *FakeEdges {
	return &FakeEdges{ch: make(chan Edge)}
}

// Edges returns the edge channel.
func (f *FakeEdges) Edges() <-chan Edge {
	return f.ch
}

// Push delivers a rising edge on button at ts. It blocks until received.
func (f *FakeEdges) Push(button string, ts time.Time) {
	f.ch <- Edge{Button: button, Time: ts}
}

// FakeLED records LED writes. It is safe for concurrent use.
type FakeLED struct {
	mu      sync.Mutex
	on      bool
	toggles int
}

// Set switches the LED.
func (f *FakeLED) Set(on bool) {
	f.mu.Lock()
	f.on = on
	f.mu.Unlock()
}

// Toggle inverts the LED.
func (f *FakeLED) Toggle() {
	f.mu.Lock()
	f.on = !f.on
	f.toggles++
	f.mu.Unlock()
}

// On reports whether the LED is lit.
func (f *FakeLED) On() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.on
}

// Toggles returns the number of Toggle calls.
func (f *FakeLED) Toggles() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.toggles
}
