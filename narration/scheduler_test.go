package narration

import (
	"testing"

	core "github.com/mhathiyari/curve-call-sub001"
	"github.com/mhathiyari/curve-call-sub001/geo"
	"github.com/mhathiyari/curve-call-sub001/narration/testutil"
	"github.com/mhathiyari/curve-call-sub001/segment"
)

func curveAt(severity core.Severity, distFromStart, arcLen float64) segment.RouteSegment {
	return segment.CurveFromRaw(&segment.CurveSegment{
		Direction:          geo.DirectionLeft,
		Severity:           severity,
		MinRadiusM:         100,
		ArcLengthM:         arcLen,
		DistanceFromStartM: distFromStart,
		Confidence:         1.0,
		EndIndex:           1,
	})
}

func TestSchedulerDeliversEligibleCurveEvent(t *testing.T) {
	segs := []segment.RouteSegment{curveAt(core.SeverityHairpin, 100, 20)}
	sink := &testutil.StubSpeechSink{}
	listener := &testutil.StubListener{}

	sched := NewScheduler(segs, nil, nil, core.DefaultNarrationConfig(core.ModeCar))
	sched.SetSink(sink)
	sched.SetListener(listener)
	sched.Start()

	// Close enough that the trigger distance covers it.
	sched.OnLocationUpdate(0, 20, false)

	if len(sink.Spoken) != 1 {
		t.Fatalf("expected exactly one spoken event, got %d", len(sink.Spoken))
	}
}

func TestSchedulerNeverDeliversSameCurveTwice(t *testing.T) {
	segs := []segment.RouteSegment{curveAt(core.SeverityHairpin, 50, 20)}
	sink := &testutil.StubSpeechSink{}

	sched := NewScheduler(segs, nil, nil, core.DefaultNarrationConfig(core.ModeCar))
	sched.SetSink(sink)
	sched.Start()

	for progress := 0.0; progress < 60; progress += 10 {
		sched.OnLocationUpdate(progress, 20, false)
		sched.OnNarrationComplete()
	}

	if len(sink.Spoken) != 1 {
		t.Fatalf("expected a curve identity delivered at most once, got %d deliveries", len(sink.Spoken))
	}
}

func TestSchedulerPriorityPreemption(t *testing.T) {
	// A GENTLE event enqueues and starts speaking; a HAIRPIN event then
	// comes within its 200m trigger distance on the next fix and must
	// preempt it.
	segs := []segment.RouteSegment{
		curveAt(core.SeverityGentle, 50, 20),
		curveAt(core.SeverityHairpin, 250, 20),
	}
	sink := &testutil.StubSpeechSink{}

	sched := NewScheduler(segs, nil, nil, core.DefaultNarrationConfig(core.ModeCar))
	sched.SetSink(sink)
	sched.Start()

	sched.OnLocationUpdate(0, 20, false) // delivers GENTLE
	if len(sink.Spoken) != 1 || sink.Spoken[0].Priority != PriorityGentle {
		t.Fatalf("expected GENTLE spoken first, got %+v", sink.Spoken)
	}

	sched.OnLocationUpdate(60, 20, false) // HAIRPIN now 190m ahead, should preempt
	if len(sink.Interrupted) != 1 {
		t.Fatalf("expected the GENTLE utterance interrupted, got %d interruptions", len(sink.Interrupted))
	}
	if len(sink.Spoken) != 2 || sink.Spoken[1].Priority != PriorityHairpin {
		t.Fatalf("expected HAIRPIN spoken second, got %+v", sink.Spoken)
	}
}

func TestSchedulerOffRouteAndBackOnRoute(t *testing.T) {
	segs := []segment.RouteSegment{curveAt(core.SeverityHairpin, 50, 20)}
	sink := &testutil.StubSpeechSink{}

	sched := NewScheduler(segs, nil, nil, core.DefaultNarrationConfig(core.ModeCar))
	sched.SetSink(sink)
	sched.Start()

	sched.OnLocationUpdate(0, 20, true) // 120m off route
	if len(sink.Spoken) != 1 || sink.Spoken[0].Kind != core.NarrationKindOffRoute {
		t.Fatalf("expected OFF_ROUTE delivered once, got %+v", sink.Spoken)
	}

	sched.OnLocationUpdate(5, 20, true) // still off route; must not re-fire
	if len(sink.Spoken) != 1 {
		t.Fatalf("expected OFF_ROUTE to not repeat while still off route, got %d", len(sink.Spoken))
	}

	sched.OnNarrationComplete()
	sched.OnLocationUpdate(10, 20, false) // back on route within hysteresis
	if len(sink.Spoken) != 2 || sink.Spoken[1].Kind != core.NarrationKindBackOnRoute {
		t.Fatalf("expected BACK_ON_ROUTE delivered once, got %+v", sink.Spoken)
	}
}

func TestSchedulerPauseCancelsInFlightAndNotifiesListener(t *testing.T) {
	segs := []segment.RouteSegment{curveAt(core.SeverityHairpin, 50, 20)}
	sink := &testutil.StubSpeechSink{}
	listener := &testutil.StubListener{}

	sched := NewScheduler(segs, nil, nil, core.DefaultNarrationConfig(core.ModeCar))
	sched.SetSink(sink)
	sched.SetListener(listener)
	sched.Start()
	sched.OnLocationUpdate(0, 20, false)

	sched.Pause()
	if len(sink.Interrupted) != 1 {
		t.Fatalf("expected pause to interrupt the in-flight utterance")
	}
	if len(listener.PausedReasons) != 1 {
		t.Fatalf("expected OnPaused callback")
	}

	sched.Resume()
	if listener.ResumedCount != 1 {
		t.Fatalf("expected OnResumed callback")
	}
}

func TestSchedulerStateMachineTransitions(t *testing.T) {
	sched := NewScheduler(nil, nil, nil, core.DefaultNarrationConfig(core.ModeCar))
	if sched.state != StateIdle {
		t.Fatalf("expected initial state IDLE")
	}
	sched.Start()
	if sched.state != StatePlaying {
		t.Fatalf("expected PLAYING after Start")
	}
	sched.Pause()
	if sched.state != StatePaused {
		t.Fatalf("expected PAUSED after Pause")
	}
	sched.Stop()
	if sched.state != StateStopped {
		t.Fatalf("expected STOPPED after Stop")
	}
}

func TestSchedulerSparseWarningFiresOncePerRegion(t *testing.T) {
	regions := []segment.SparseRegion{{StartDistanceM: 100, EndDistanceM: 200}}
	sched := NewScheduler(nil, nil, regions, core.DefaultNarrationConfig(core.ModeCar))
	sink := &testutil.StubSpeechSink{}
	sched.SetSink(sink)
	sched.Start()

	sched.OnLocationUpdate(0, 20, false)
	sched.OnNarrationComplete()
	sched.OnLocationUpdate(50, 20, false)

	count := 0
	for _, e := range sink.Spoken {
		if e.Kind == core.NarrationKindSparseWarning {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected sparse warning delivered exactly once, got %d", count)
	}
}
