package buzzer

import "sync"

// FakeTone records tones for test assertions. It is safe for concurrent use.
type FakeTone struct {
	mu       sync.Mutex
	freq     uint32
	on       bool
	played   []uint32
	overlaps int
}

// SetFrequency records the frequency for the next tone.
func (f *FakeTone) SetFrequency(hz uint32) {
	f.mu.Lock()
	f.freq = hz
	f.mu.Unlock()
}

// SetOutput records a tone start or stop.
func (f *FakeTone) SetOutput(on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if on {
		if f.on {
			f.overlaps++
		}
		f.played = append(f.played, f.freq)
	}
	f.on = on
}

// On reports whether a tone is sounding.
func (f *FakeTone) On() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.on
}

// Played returns the frequencies started so far, in order.
func (f *FakeTone) Played() []uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uint32(nil), f.played...)
}

// Overlaps returns how many tones started while another was sounding.
func (f *FakeTone) Overlaps() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.overlaps
}
