// Package display renders the countdown on a terminal or a small pixel panel.
package display

import (
	"fmt"
	"io"
	"log"
	"sync"
)

// blankFrame overwrites a rendered "MM:SS" frame.
const blankFrame = "\r     "

// Terminal writes MM:SS frames to a terminal, redrawing in place with a
// carriage return. Identical consecutive frames are written once.
type Terminal struct {
	mu   sync.Mutex
	w    io.Writer
	last string
}

// NewTerminal creates a Terminal writing to w.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w}
}

// RenderRemaining shows minutes:seconds.
func (t *Terminal) RenderRemaining(minutes, seconds int) {
	t.write(Format(minutes, seconds))
}

// Clear blanks the frame.
func (t *Terminal) Clear() {
	t.write(blankFrame)
}

func (t *Terminal) write(frame string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if frame == t.last {
		return
	}
	if _, err := io.WriteString(t.w, frame); err != nil {
		log.Printf("display: write: %v", err)
		return
	}
	t.last = frame
}

// Format returns the frame for minutes:seconds. Minutes above 99 are shown
// in full.
func Format(minutes, seconds int) string {
	return fmt.Sprintf("\r%02d:%02d", minutes, seconds)
}
