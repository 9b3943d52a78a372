package logic

import (
	"testing"
	"time"
)

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func at(d time.Duration) time.Time {
	return t0.Add(d)
}

// recIndicator records indicator writes.
type recIndicator struct {
	on      bool
	toggles int
	sets    int
}

func (r *recIndicator) Set(on bool) {
	r.on = on
	r.sets++
}

func (r *recIndicator) Toggle() {
	r.on = !r.on
	r.toggles++
}

// recTone records buzzer writes and flags overlapping tones.
type recTone struct {
	freq        uint32
	on          bool
	played      []uint32
	overlapping bool
}

func (r *recTone) SetFrequency(hz uint32) {
	r.freq = hz
}

func (r *recTone) SetOutput(on bool) {
	if on {
		if r.on {
			r.overlapping = true
		}
		r.played = append(r.played, r.freq)
	}
	r.on = on
}

// recDisplay records the last frame.
type recDisplay struct {
	minutes, seconds int
	blank            bool
	renders          int
	clears           int
}

func (r *recDisplay) RenderRemaining(minutes, seconds int) {
	r.minutes = minutes
	r.seconds = seconds
	r.blank = false
	r.renders++
}

func (r *recDisplay) Clear() {
	r.blank = true
	r.clears++
}

type testRig struct {
	timer   *Timer
	work    *recIndicator
	brk     *recIndicator
	tone    *recTone
	display *recDisplay
}

func newRig(t *testing.T, cfg TimerConfig) *testRig {
	t.Helper()
	r := &testRig{
		work:    &recIndicator{},
		brk:     &recIndicator{},
		tone:    &recTone{},
		display: &recDisplay{blank: true},
	}
	r.timer = NewTimer(cfg, Outputs{
		Indicators: map[Mode]Indicator{"work": r.work, "break": r.brk},
		Tone:       r.tone,
		Display:    r.display,
	})
	return r
}

func eventTypes(events []Event) []EventType {
	out := make([]EventType, len(events))
	for i, e := range events {
		out[i] = e.Type
	}
	return out
}

func assertEventTypes(t *testing.T, events []Event, want ...EventType) {
	t.Helper()
	got := eventTypes(events)
	if len(got) != len(want) {
		t.Fatalf("expected events %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}
