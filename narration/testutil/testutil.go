// Package testutil provides test doubles for the narration scheduler's
// external collaborators: a speech sink and a GPS source.
//
// Grounded on the Valhalla client's table-driven *_test.go convention
// (plain testing.T, t.Fatal, no mocking framework); a hand-rolled
// struct implementing the small SpeechSink interface plays the same
// role here that a canned HTTP response plays there.
package testutil

import (
	"github.com/mhathiyari/curve-call-sub001/geo"
	"github.com/mhathiyari/curve-call-sub001/narration"
)

// StubSpeechSink records every Speak/Interrupt call it receives instead
// of synthesizing audio.
type StubSpeechSink struct {
	Spoken      []narration.Event
	Interrupted []narration.Event
}

// Speak records e as spoken.
func (s *StubSpeechSink) Speak(e narration.Event) {
	s.Spoken = append(s.Spoken, e)
}

// Interrupt records e as interrupted.
func (s *StubSpeechSink) Interrupt(e narration.Event) {
	s.Interrupted = append(s.Interrupted, e)
}

// StubListener records every scheduler lifecycle callback it receives.
type StubListener struct {
	Narrated []narration.Event
	Interrupted []narration.Event
	PausedReasons []string
	ResumedCount int
}

func (l *StubListener) OnNarration(e narration.Event) { l.Narrated = append(l.Narrated, e) }
func (l *StubListener) OnInterrupt(e narration.Event) { l.Interrupted = append(l.Interrupted, e) }
func (l *StubListener) OnPaused(reason string)         { l.PausedReasons = append(l.PausedReasons, reason) }
func (l *StubListener) OnResumed()                     { l.ResumedCount++ }

// GPSFix is one replayed location sample.
type GPSFix struct {
	Point    geo.Point
	SpeedMS  float64
}

// ReplayGPSSource replays a canned sequence of fixes, the way a
// recorded drive would be fed back through the engine in a test or a
// demo.
type ReplayGPSSource struct {
	fixes []GPSFix
	pos   int
}

// NewReplayGPSSource constructs a source over a fixed sequence of fixes.
func NewReplayGPSSource(fixes []GPSFix) *ReplayGPSSource {
	return &ReplayGPSSource{fixes: fixes}
}

// Next returns the next fix and true, or a zero value and false once
// the sequence is exhausted.
func (r *ReplayGPSSource) Next() (GPSFix, bool) {
	if r.pos >= len(r.fixes) {
		return GPSFix{}, false
	}
	fix := r.fixes[r.pos]
	r.pos++
	return fix, true
}
