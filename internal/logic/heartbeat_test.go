package logic

import (
	"testing"
	"time"
)

func TestNewHeartbeat(t *testing.T) {
	h := NewHeartbeat(t0)
	if h == nil {
		t.Fatal("NewHeartbeat returned nil")
	}
	if !h.lastHeartbeat.Equal(t0) {
		t.Errorf("expected lastHeartbeat %v, got %v", t0, h.lastHeartbeat)
	}
	if h.Counts() != (EventCounts{}) {
		t.Errorf("expected zero counts, got %+v", h.Counts())
	}
}

func TestRecordCountsByType(t *testing.T) {
	h := NewHeartbeat(t0)

	r := newRig(t, sixMinuteConfig())
	h.Record(r.timer.Start("work", at(0)))
	h.Record(r.timer.Pause(at(time.Second)))
	h.Record(r.timer.Resume(at(2 * time.Second)))
	h.Record(r.timer.Tick(at(10 * time.Minute)))
	h.Record(r.timer.Start("break", at(11*time.Minute)))

	want := EventCounts{Started: 2, Paused: 1, Resumed: 1, Finished: 1, Reset: 1}
	if got := h.Counts(); got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestCheckHeartbeatDisabled(t *testing.T) {
	h := NewHeartbeat(t0)

	if hb := h.Check(at(15*time.Minute), 0); hb != nil {
		t.Error("should not return heartbeat when interval is 0 (disabled)")
	}
	if hb := h.Check(at(15*time.Minute), -time.Minute); hb != nil {
		t.Error("should not return heartbeat when interval is negative")
	}
}

func TestCheckHeartbeatInterval(t *testing.T) {
	h := NewHeartbeat(t0)
	interval := 15 * time.Minute

	if hb := h.Check(at(14*time.Minute), interval); hb != nil {
		t.Error("heartbeat before interval")
	}

	hb := h.Check(at(15*time.Minute), interval)
	if hb == nil {
		t.Fatal("expected heartbeat at interval")
	}
	if hb.Uptime != 15*time.Minute {
		t.Errorf("expected uptime 15m, got %v", hb.Uptime)
	}
	if !hb.Timestamp.Equal(at(15 * time.Minute)) {
		t.Errorf("unexpected timestamp %v", hb.Timestamp)
	}

	// Next heartbeat counts from the last one.
	if hb := h.Check(at(29*time.Minute), interval); hb != nil {
		t.Error("heartbeat too soon after previous")
	}
	hb = h.Check(at(30*time.Minute), interval)
	if hb == nil || hb.Uptime != 30*time.Minute {
		t.Errorf("expected second heartbeat with 30m uptime, got %+v", hb)
	}
}

func TestCheckHeartbeatCarriesCounts(t *testing.T) {
	h := NewHeartbeat(t0)
	h.Record([]Event{{Type: EventStarted}, {Type: EventPaused}})

	hb := h.Check(at(time.Minute), time.Minute)
	if hb == nil {
		t.Fatal("expected heartbeat")
	}
	if hb.Counts.Started != 1 || hb.Counts.Paused != 1 {
		t.Errorf("unexpected counts %+v", hb.Counts)
	}

	// The snapshot is a copy.
	h.Record([]Event{{Type: EventStarted}})
	if hb.Counts.Started != 1 {
		t.Error("heartbeat counts changed after Record")
	}
}
