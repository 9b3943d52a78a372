package display

import (
	"fmt"
	"sync"
)

// FakeDisplay records frames for test assertions. It is safe for concurrent use.
type FakeDisplay struct {
	mu     sync.Mutex
	frames []string
	blank  bool
}

// RenderRemaining records an "MM:SS" frame.
func (f *FakeDisplay) RenderRemaining(minutes, seconds int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, fmt.Sprintf("%02d:%02d", minutes, seconds))
	f.blank = false
}

// Clear records a blank frame.
func (f *FakeDisplay) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, "")
	f.blank = true
}

// Frames returns every frame so far. Blank frames are "".
func (f *FakeDisplay) Frames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.frames...)
}

// Last returns the most recent frame, or "" if blank or never drawn.
func (f *FakeDisplay) Last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.blank || len(f.frames) == 0 {
		return ""
	}
	return f.frames[len(f.frames)-1]
}
