package logic

import (
	"testing"
	"time"
)

func sixMinuteConfig() TimerConfig {
	cfg := DefaultTimerConfig()
	cfg.Modes = []ModeConfig{
		{Name: "work", Duration: 360 * time.Second},
		{Name: "break", Duration: 60 * time.Second},
	}
	return cfg
}

func TestNewTimerStopped(t *testing.T) {
	r := newRig(t, DefaultTimerConfig())

	snap := r.timer.Snapshot(t0)
	if snap.State != StateStopped {
		t.Errorf("expected STOPPED, got %s", snap.State)
	}
	if snap.Mode != "work" {
		t.Errorf("expected first configured mode, got %q", snap.Mode)
	}
	if snap.Elapsed != 0 {
		t.Errorf("expected zero elapsed, got %v", snap.Elapsed)
	}
	if snap.Remaining != 25*time.Minute {
		t.Errorf("expected full duration remaining, got %v", snap.Remaining)
	}
}

func TestStartTurnsIndicatorOnAndRenders(t *testing.T) {
	r := newRig(t, DefaultTimerConfig())

	events := r.timer.Start("work", t0)

	assertEventTypes(t, events, EventStarted)
	if events[0].State != StateRunning || events[0].Mode != "work" {
		t.Errorf("unexpected event: %+v", events[0])
	}
	if !r.work.on {
		t.Error("expected work LED on")
	}
	if r.brk.on {
		t.Error("expected break LED off")
	}
	if r.display.blank || r.display.minutes != 25 || r.display.seconds != 0 {
		t.Errorf("expected 25:00 on display, got %02d:%02d blank=%v", r.display.minutes, r.display.seconds, r.display.blank)
	}
}

func TestStartUnknownModeIgnored(t *testing.T) {
	r := newRig(t, DefaultTimerConfig())

	if events := r.timer.Start("lunch", t0); len(events) != 0 {
		t.Errorf("expected no events, got %v", eventTypes(events))
	}
	if r.timer.State() != StateStopped {
		t.Error("expected timer to remain stopped")
	}
}

func TestPauseResumeScenario(t *testing.T) {
	// duration=360s; start at 0, pause at 100, resume at 150 -> finish at 410.
	r := newRig(t, sixMinuteConfig())

	r.timer.Start("work", t0)
	r.timer.Pause(at(100 * time.Second))

	snap := r.timer.Snapshot(at(120 * time.Second))
	if snap.Elapsed != 100*time.Second {
		t.Errorf("expected elapsed frozen at 100s while paused, got %v", snap.Elapsed)
	}

	r.timer.Resume(at(150 * time.Second))

	if events := r.timer.Tick(at(409 * time.Second)); len(events) != 0 {
		t.Fatalf("expected no finish at 409s, got %v", eventTypes(events))
	}
	if r.timer.State() != StateRunning {
		t.Fatalf("expected RUNNING at 409s, got %s", r.timer.State())
	}

	events := r.timer.Tick(at(410 * time.Second))
	assertEventTypes(t, events, EventFinished)
	if r.timer.State() != StateFinished {
		t.Errorf("expected FINISHED at 410s, got %s", r.timer.State())
	}
	if events[0].Remaining != 0 {
		t.Errorf("expected zero remaining at finish, got %v", events[0].Remaining)
	}
}

func TestElapsedExcludesPausedIntervals(t *testing.T) {
	r := newRig(t, DefaultTimerConfig())

	type step struct {
		at  time.Duration
		cmd string
	}
	steps := []step{
		{0, "start"},
		{30 * time.Second, "pause"},
		{45 * time.Second, "resume"},
		{60 * time.Second, "pause"},
		{300 * time.Second, "resume"},
		{301 * time.Second, "pause"},
	}
	want := 30*time.Second + 15*time.Second + 1*time.Second

	var last time.Duration
	for _, s := range steps {
		switch s.cmd {
		case "start":
			r.timer.Start("work", at(s.at))
		case "pause":
			r.timer.Pause(at(s.at))
		case "resume":
			r.timer.Resume(at(s.at))
		}
		e := r.timer.Snapshot(at(s.at)).Elapsed
		if e < last {
			t.Errorf("elapsed decreased at %v: %v -> %v", s.at, last, e)
		}
		last = e
	}

	if got := r.timer.Snapshot(at(time.Hour)).Elapsed; got != want {
		t.Errorf("expected elapsed %v, got %v", want, got)
	}
}

func TestInvalidCommandsAreNoOps(t *testing.T) {
	r := newRig(t, DefaultTimerConfig())

	if events := r.timer.Pause(t0); len(events) != 0 {
		t.Error("pause from STOPPED should be a no-op")
	}
	if events := r.timer.Resume(t0); len(events) != 0 {
		t.Error("resume from STOPPED should be a no-op")
	}

	r.timer.Start("work", t0)
	if events := r.timer.Resume(at(time.Second)); len(events) != 0 {
		t.Error("resume from RUNNING should be a no-op")
	}

	r.timer.Pause(at(2 * time.Second))
	if events := r.timer.Pause(at(3 * time.Second)); len(events) != 0 {
		t.Error("pause from PAUSED should be a no-op")
	}
	if got := r.timer.Snapshot(at(4 * time.Second)).Elapsed; got != 2*time.Second {
		t.Errorf("expected elapsed 2s after duplicate pause, got %v", got)
	}
}

func TestPauseStartsSlowBlink(t *testing.T) {
	r := newRig(t, DefaultTimerConfig())
	r.timer.Start("work", t0)
	r.timer.Pause(at(10 * time.Second))

	r.timer.Blink(at(10*time.Second + 499*time.Millisecond))
	if r.work.toggles != 0 {
		t.Fatal("no toggle expected before half a second")
	}
	r.timer.Blink(at(10*time.Second + 500*time.Millisecond))
	if r.work.toggles != 1 {
		t.Errorf("expected 1 toggle at 2 Hz, got %d", r.work.toggles)
	}
	if !r.display.blank {
		t.Error("expected display blanked in step with the LED")
	}

	r.timer.Blink(at(11 * time.Second))
	if r.display.blank {
		t.Error("expected display shown again")
	}
	if r.display.minutes != 24 || r.display.seconds != 50 {
		t.Errorf("expected frozen 24:50, got %02d:%02d", r.display.minutes, r.display.seconds)
	}
}

func TestPauseIndicatorOffPolicy(t *testing.T) {
	for _, off := range []bool{false, true} {
		cfg := DefaultTimerConfig()
		cfg.PauseIndicatorOff = off
		r := newRig(t, cfg)

		r.timer.Start("work", t0)
		r.timer.Pause(at(time.Second))

		if r.work.on == off {
			t.Errorf("PauseIndicatorOff=%v: expected LED on=%v after pause, got %v", off, !off, r.work.on)
		}
	}
}

func TestPauseBlinkDisplayFollowsIndicator(t *testing.T) {
	for _, off := range []bool{false, true} {
		cfg := DefaultTimerConfig()
		cfg.PauseIndicatorOff = off
		r := newRig(t, cfg)

		r.timer.Start("work", t0)
		r.timer.Pause(at(time.Second))

		// 2 Hz: one toggle every 500ms.
		for i := 0; i <= 4; i++ {
			if i > 0 {
				r.timer.Blink(at(time.Second + time.Duration(i)*500*time.Millisecond))
			}
			if r.display.blank == r.work.on {
				t.Errorf("PauseIndicatorOff=%v step %d: led on=%v but display blank=%v",
					off, i, r.work.on, r.display.blank)
			}
		}
		if r.work.toggles != 4 {
			t.Errorf("PauseIndicatorOff=%v: expected 4 toggles, got %d", off, r.work.toggles)
		}
	}
}

func TestCommandStampedBeforeStart(t *testing.T) {
	r := newRig(t, sixMinuteConfig())

	r.timer.Start("work", at(time.Second))
	if snap := r.timer.Snapshot(at(500 * time.Millisecond)); snap.Elapsed != 0 || snap.Remaining != 360*time.Second {
		t.Errorf("running: expected elapsed 0 remaining 6m, got %v/%v", snap.Elapsed, snap.Remaining)
	}

	events := r.timer.Pause(at(500 * time.Millisecond))
	if len(events) != 1 || events[0].Elapsed != 0 {
		t.Fatalf("expected one pause event with zero elapsed, got %+v", events)
	}
	snap := r.timer.Snapshot(at(2 * time.Second))
	if snap.Elapsed != 0 || snap.Remaining != 360*time.Second {
		t.Errorf("paused: expected elapsed 0 remaining 6m, got %v/%v", snap.Elapsed, snap.Remaining)
	}
	if m, s := r.display.minutes, r.display.seconds; m != 6 || s != 0 {
		t.Errorf("expected display 06:00, got %02d:%02d", m, s)
	}
}

func TestPauseStampedBeforeResumeKeepsElapsed(t *testing.T) {
	r := newRig(t, sixMinuteConfig())

	r.timer.Start("work", t0)
	r.timer.Pause(at(10 * time.Second))
	r.timer.Resume(at(20 * time.Second))
	r.timer.Pause(at(15 * time.Second))

	if snap := r.timer.Snapshot(at(30 * time.Second)); snap.Elapsed != 10*time.Second {
		t.Errorf("expected elapsed to stay 10s, got %v", snap.Elapsed)
	}
}

func TestBlinkDisplayDisabled(t *testing.T) {
	cfg := DefaultTimerConfig()
	cfg.BlinkDisplay = false
	r := newRig(t, cfg)

	r.timer.Start("work", t0)
	r.timer.Pause(at(time.Second))
	r.timer.Blink(at(2 * time.Second))

	if r.display.blank {
		t.Error("display should stay steady when blinking is disabled")
	}
	if r.work.toggles != 1 {
		t.Errorf("LED should still blink, got %d toggles", r.work.toggles)
	}
}

func TestResumeStopsBlinking(t *testing.T) {
	r := newRig(t, DefaultTimerConfig())
	r.timer.Start("work", t0)
	r.timer.Pause(at(time.Second))
	r.timer.Blink(at(1500 * time.Millisecond))

	events := r.timer.Resume(at(2 * time.Second))

	assertEventTypes(t, events, EventResumed)
	if !r.work.on {
		t.Error("expected LED steady on after resume")
	}
	toggles := r.work.toggles
	r.timer.Blink(at(10 * time.Second))
	if r.work.toggles != toggles {
		t.Error("no toggles expected after resume")
	}
}

func TestFinishStartsFastBlinkAndAlarm(t *testing.T) {
	r := newRig(t, sixMinuteConfig())
	r.timer.Start("work", t0)

	r.timer.Tick(at(360 * time.Second))

	snap := r.timer.Snapshot(at(360 * time.Second))
	if !snap.ToneActive {
		t.Error("expected alarm playing")
	}
	if !r.tone.on || r.tone.freq != DefaultAlarm[0].Frequency {
		t.Errorf("expected first alarm tone, got %d Hz on=%v", r.tone.freq, r.tone.on)
	}
	if r.display.minutes != 0 || r.display.seconds != 0 {
		t.Errorf("expected 00:00, got %02d:%02d", r.display.minutes, r.display.seconds)
	}

	r.timer.Blink(at(360*time.Second + 200*time.Millisecond))
	if r.work.toggles != 1 {
		t.Errorf("expected 1 toggle after 200ms at 5 Hz, got %d", r.work.toggles)
	}

	// Ticks keep the alarm moving after the finish.
	now := at(360 * time.Second)
	for i := 0; i < 100; i++ {
		now = now.Add(85 * time.Millisecond)
		r.timer.Tick(now)
	}
	if r.timer.Snapshot(now).ToneActive {
		t.Error("expected alarm to end on its own")
	}
	if len(r.tone.played) != len(DefaultAlarm) {
		t.Errorf("expected %d alarm tones, got %d", len(DefaultAlarm), len(r.tone.played))
	}
}

func TestLateTickFinishesImmediately(t *testing.T) {
	r := newRig(t, sixMinuteConfig())
	r.timer.Start("work", t0)

	events := r.timer.Tick(at(2 * time.Hour))

	assertEventTypes(t, events, EventFinished)
	if got := r.timer.Snapshot(at(3 * time.Hour)).Remaining; got != 0 {
		t.Errorf("remaining must clamp at zero, got %v", got)
	}
	if got := r.timer.Snapshot(at(3 * time.Hour)).Elapsed; got != 360*time.Second {
		t.Errorf("elapsed should stop at duration, got %v", got)
	}
}

func TestDisplayRefreshCadence(t *testing.T) {
	r := newRig(t, DefaultTimerConfig())
	r.timer.Start("work", t0)
	renders := r.display.renders

	for ms := 85; ms < 1000; ms += 85 {
		r.timer.Tick(at(time.Duration(ms) * time.Millisecond))
	}
	if r.display.renders != renders {
		t.Errorf("expected no refresh within the first second, got %d", r.display.renders-renders)
	}

	r.timer.Tick(at(1020 * time.Millisecond))
	if r.display.renders != renders+1 {
		t.Errorf("expected one refresh after a second, got %d", r.display.renders-renders)
	}
	if r.display.minutes != 24 || r.display.seconds != 59 {
		t.Errorf("expected 24:59, got %02d:%02d", r.display.minutes, r.display.seconds)
	}
}

func TestResetFromEveryState(t *testing.T) {
	setups := map[State]func(r *testRig){
		StateStopped: func(r *testRig) {},
		StateRunning: func(r *testRig) {
			r.timer.Start("work", t0)
		},
		StatePaused: func(r *testRig) {
			r.timer.Start("work", t0)
			r.timer.Pause(at(10 * time.Second))
		},
		StateFinished: func(r *testRig) {
			r.timer.Start("work", t0)
			r.timer.Tick(at(360 * time.Second))
		},
	}

	for state, setup := range setups {
		t.Run(string(state), func(t *testing.T) {
			r := newRig(t, sixMinuteConfig())
			setup(r)
			if r.timer.State() != state {
				t.Fatalf("setup: expected %s, got %s", state, r.timer.State())
			}

			events := r.timer.Reset(at(400*time.Second), ReasonButton)

			if state == StateStopped {
				assertEventTypes(t, events)
			} else {
				assertEventTypes(t, events, EventReset)
				if events[0].Reason != ReasonButton {
					t.Errorf("expected reason %q, got %q", ReasonButton, events[0].Reason)
				}
			}

			snap := r.timer.Snapshot(at(500 * time.Second))
			if snap.State != StateStopped || snap.Elapsed != 0 {
				t.Errorf("expected STOPPED with zero elapsed, got %s %v", snap.State, snap.Elapsed)
			}
			if snap.ToneActive || r.tone.on {
				t.Error("expected buzzer silent")
			}
			if r.work.on || r.brk.on {
				t.Error("expected all LEDs off")
			}
			if !r.display.blank {
				t.Error("expected display cleared")
			}

			toggles := r.work.toggles
			r.timer.Blink(at(600 * time.Second))
			if r.work.toggles != toggles {
				t.Error("blink fired after reset")
			}
		})
	}
}

func TestStartOtherModeDiscardsProgress(t *testing.T) {
	r := newRig(t, DefaultTimerConfig())
	r.timer.Start("work", t0)

	events := r.timer.Start("break", at(10*time.Minute))

	assertEventTypes(t, events, EventReset, EventStarted)
	if events[0].Reason != ReasonModeSwitch {
		t.Errorf("expected reason %q, got %q", ReasonModeSwitch, events[0].Reason)
	}
	snap := r.timer.Snapshot(at(10 * time.Minute))
	if snap.Mode != "break" || snap.State != StateRunning || snap.Elapsed != 0 {
		t.Errorf("expected fresh break run, got %+v", snap)
	}
	if r.work.on || !r.brk.on {
		t.Errorf("expected only break LED on, got work=%v break=%v", r.work.on, r.brk.on)
	}

	// Going back to work starts from zero, not from 10 minutes.
	r.timer.Start("work", at(11*time.Minute))
	if got := r.timer.Snapshot(at(11 * time.Minute)).Remaining; got != 25*time.Minute {
		t.Errorf("expected work to restart at full length, got %v", got)
	}
}

func TestWholeSeconds(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want int64
	}{
		{0, 0},
		{-time.Second, 0},
		{time.Nanosecond, 1},
		{time.Second, 1},
		{time.Second + time.Millisecond, 2},
		{90 * time.Second, 90},
	}
	for _, tt := range tests {
		if got := WholeSeconds(tt.d); got != tt.want {
			t.Errorf("WholeSeconds(%v): expected %d, got %d", tt.d, tt.want, got)
		}
	}
}

func TestSplitRemaining(t *testing.T) {
	tests := []struct {
		d    time.Duration
		m, s int
	}{
		{25 * time.Minute, 25, 0},
		{25*time.Minute - 500*time.Millisecond, 25, 0},
		{25*time.Minute - time.Second, 24, 59},
		{61 * time.Second, 1, 1},
		{time.Millisecond, 0, 1},
		{0, 0, 0},
		{-5 * time.Second, 0, 0},
	}
	for _, tt := range tests {
		m, s := SplitRemaining(tt.d)
		if m != tt.m || s != tt.s {
			t.Errorf("SplitRemaining(%v): expected %02d:%02d, got %02d:%02d", tt.d, tt.m, tt.s, m, s)
		}
	}
}
