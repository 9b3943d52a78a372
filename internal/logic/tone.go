package logic

import "time"

// Stage is the current phase of a tone sequence.
type Stage int

const (
	StageIdle Stage = iota
	StageTone
	StageSilence
)

func (s Stage) String() string {
	switch s {
	case StageTone:
		return "tone"
	case StageSilence:
		return "silence"
	default:
		return "idle"
	}
}

// DefaultAlarm is the melody played when an interval finishes.
var DefaultAlarm = []Step{
	{Frequency: 792, On: 150 * time.Millisecond, Off: 150 * time.Millisecond},
	{Frequency: 745, On: 150 * time.Millisecond, Off: 150 * time.Millisecond},
	{Frequency: 633, On: 150 * time.Millisecond, Off: 150 * time.Millisecond},
	{Frequency: 444, On: 150 * time.Millisecond, Off: 150 * time.Millisecond},
	{Frequency: 414, On: 150 * time.Millisecond, Off: 150 * time.Millisecond},
	{Frequency: 664, On: 150 * time.Millisecond, Off: 150 * time.Millisecond},
	{Frequency: 837, On: 150 * time.Millisecond, Off: 150 * time.Millisecond},
	{Frequency: 1060, On: 150 * time.Millisecond, Off: 150 * time.Millisecond},
}

// Sequencer plays a list of tone steps on a Tone output without blocking.
// It is driven by Poll; each call advances at most one stage, so a coarse
// poll never skips or repeats a step.
type Sequencer struct {
	out      Tone
	steps    []Step
	cursor   int
	stage    Stage
	deadline time.Time
}

// NewSequencer creates an idle sequencer bound to out. out may be nil.
func NewSequencer(out Tone) *Sequencer {
	return &Sequencer{out: out}
}

// Start replaces any sequence in flight and begins the first step.
// An empty sequence leaves the sequencer idle and silent.
func (s *Sequencer) Start(steps []Step, now time.Time) {
	if s.stage != StageIdle {
		s.setOutput(false)
	}
	s.steps = append(s.steps[:0], steps...)
	s.cursor = 0
	if len(s.steps) == 0 {
		s.Stop()
		return
	}
	s.startTone(now)
}

// Poll advances the sequence if the current stage's deadline has passed.
func (s *Sequencer) Poll(now time.Time) {
	if s.stage == StageIdle || now.Before(s.deadline) {
		return
	}

	switch s.stage {
	case StageTone:
		s.setOutput(false)
		s.stage = StageSilence
		s.deadline = now.Add(s.steps[s.cursor].Off)
	case StageSilence:
		s.cursor++
		if s.cursor < len(s.steps) {
			s.startTone(now)
			return
		}
		s.Stop()
	}
}

// Stop silences the output and returns to idle. Safe to call when idle.
func (s *Sequencer) Stop() {
	s.setOutput(false)
	s.stage = StageIdle
	s.cursor = 0
	s.deadline = time.Time{}
}

// Active reports whether a sequence is playing.
func (s *Sequencer) Active() bool {
	return s.stage != StageIdle
}

// Stage returns the current stage.
func (s *Sequencer) Stage() Stage {
	return s.stage
}

// Cursor returns the index of the current step.
func (s *Sequencer) Cursor() int {
	return s.cursor
}

func (s *Sequencer) startTone(now time.Time) {
	step := s.steps[s.cursor]
	if s.out != nil {
		s.out.SetFrequency(step.Frequency)
	}
	s.setOutput(true)
	s.stage = StageTone
	s.deadline = now.Add(step.On)
}

func (s *Sequencer) setOutput(on bool) {
	if s.out != nil {
		s.out.SetOutput(on)
	}
}
