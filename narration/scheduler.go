package narration

import (
	"container/heap"
	"fmt"
	"sync/atomic"
	"time"

	core "github.com/mhathiyari/curve-call-sub001"
	"github.com/mhathiyari/curve-call-sub001/geo"
	"github.com/mhathiyari/curve-call-sub001/segment"
)

// State is the scheduler's per-session lifecycle state.
type State uint8

const (
	StateIdle State = iota
	StatePlaying
	StatePaused
	StateStopped
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "PLAYING"
	case StatePaused:
		return "PAUSED"
	case StateStopped:
		return "STOPPED"
	default:
		return "IDLE"
	}
}

const (
	cooldownDuration = 400 * time.Millisecond
	lookaheadWindowM = 1000.0
	passedSlackM     = 5.0
)

// Priority numbers from spec.md's fixed table; higher preempts lower.
const (
	PrioritySystemOrOffRoute = 10
	PrioritySparseWarning    = 8
	PriorityHairpin          = 7
	PrioritySharp            = 6
	PriorityFirm             = 5
	PriorityModerate         = 4
	PriorityGentle           = 3
	PriorityStraight         = 2
)

// Event is a narration event awaiting or having received delivery.
type Event struct {
	Text              string
	Priority          int
	TriggerDistanceM  float64
	CurveIdentity     string
	Kind              core.NarrationKind
	Delivered         bool

	seq int
}

// SpeechSink is the external speech synthesis collaborator.
type SpeechSink interface {
	Speak(e Event)
	Interrupt(e Event)
}

// Listener receives scheduler lifecycle callbacks.
type Listener interface {
	OnNarration(e Event)
	OnInterrupt(e Event)
	OnPaused(reason string)
	OnResumed()
}

// Snapshot is a read-only, point-in-time view of scheduler state for a
// UI running on another thread: published via an atomic handoff so the
// reader never observes a torn write.
type Snapshot struct {
	State          State
	CurrentText    string
	RouteProgressM float64
	UpcomingCount  int
}

type eventQueue []*Event

func (q eventQueue) Len() int { return len(q) }
func (q eventQueue) Less(i, j int) bool {
	if q[i].Priority != q[j].Priority {
		return q[i].Priority > q[j].Priority
	}
	return q[i].seq < q[j].seq
}
func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *eventQueue) Push(x interface{}) {
	*q = append(*q, x.(*Event))
}
func (q *eventQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

// Scheduler drives narration from a classified, immutable segment list
// and a stream of location updates. It is single-threaded-cooperative:
// every mutating method must be called from the same goroutine that
// delivers OnLocationUpdate, per the "single-threaded scheduler with
// message boundaries" design note. Only Snapshot is safe to call from
// another goroutine (a UI thread).
//
// Grounded directly on spec.md §4.14; no teacher analog exists for a
// preemptive priority-queue event scheduler, so the queue reaches for
// the standard library's container/heap rather than a third-party
// container type — the one place in this codebase that does, since the
// teacher never imports a container type across its ~11,000 lines and
// the rest of the pack offers nothing closer.
type Scheduler struct {
	segments      []segment.RouteSegment
	interpolated  []geo.Point
	sparseRegions []segment.SparseRegion
	cfg           core.NarrationConfig
	sink          SpeechSink
	listener      Listener

	state  State
	cursor int

	queue    eventQueue
	nextSeq  int
	enqueued map[string]bool
	delivered map[string]bool

	current       *Event
	cooldownUntil time.Time

	offRoute          bool
	offRouteAnnounced bool

	sparseAnnounced map[int]bool

	snapshot atomic.Value
}

// NewScheduler constructs a Scheduler over an analyzer Result's
// segments, interpolated polyline, and sparse regions.
func NewScheduler(segments []segment.RouteSegment, interpolated []geo.Point, sparseRegions []segment.SparseRegion, cfg core.NarrationConfig) *Scheduler {
	return &Scheduler{
		segments:        segments,
		interpolated:    interpolated,
		sparseRegions:   sparseRegions,
		cfg:             cfg,
		state:           StateIdle,
		enqueued:        make(map[string]bool),
		delivered:       make(map[string]bool),
		sparseAnnounced: make(map[int]bool),
	}
}

// SetListener registers the lifecycle callback receiver.
func (s *Scheduler) SetListener(l Listener) { s.listener = l }

// SetSink registers the speech synthesis collaborator.
func (s *Scheduler) SetSink(sink SpeechSink) { s.sink = sink }

// Start transitions IDLE -> PLAYING.
func (s *Scheduler) Start() {
	if s.state == StateStopped {
		return
	}
	s.state = StatePlaying
}

// Pause stops emissions and cancels any in-flight speech without
// discarding the queue.
func (s *Scheduler) Pause() {
	if s.state != StatePlaying {
		return
	}
	s.state = StatePaused
	s.cancelCurrent()
	if s.listener != nil {
		s.listener.OnPaused("pause")
	}
}

// Resume transitions PAUSED -> PLAYING.
func (s *Scheduler) Resume() {
	if s.state != StatePaused {
		return
	}
	s.state = StatePlaying
	if s.listener != nil {
		s.listener.OnResumed()
	}
}

// Stop ends the session; no further events are delivered.
func (s *Scheduler) Stop() {
	s.cancelCurrent()
	s.state = StateStopped
}

// UpdateConfig rebuilds the per-segment verbosity filter; cursor,
// queue, and delivered-identity state are retained.
func (s *Scheduler) UpdateConfig(cfg core.NarrationConfig) {
	s.cfg = cfg
}

// OnNarrationComplete is the speech sink's completion callback. It
// starts the 400ms cooldown before the scheduler's next dequeue.
func (s *Scheduler) OnNarrationComplete() {
	s.current = nil
	s.cooldownUntil = time.Now().Add(cooldownDuration)
}

// OnSinkFailure reports a speech sink error for the in-flight event; it
// is treated the same as a completion so the queue does not stall, and
// the offending event is discarded rather than retried.
func (s *Scheduler) OnSinkFailure() {
	s.OnNarrationComplete()
}

// OnLocationUpdate is the per-fix procedure of spec.md §4.14.
func (s *Scheduler) OnLocationUpdate(routeProgressM, speedMS float64, offRoute bool) {
	if s.state != StatePlaying && s.state != StatePaused {
		return
	}

	if s.handleOffRoute(offRoute) {
		s.publishSnapshot(routeProgressM)
		return
	}
	if s.state != StatePlaying {
		s.publishSnapshot(routeProgressM)
		return
	}

	s.advanceCursor(routeProgressM)
	s.enqueueEligible(routeProgressM, speedMS)

	if !s.preempt() {
		s.drain()
	}

	s.publishSnapshot(routeProgressM)
}

func (s *Scheduler) handleOffRoute(offRoute bool) bool {
	if offRoute && !s.offRoute {
		s.offRoute = true
	}
	if !offRoute && s.offRoute {
		s.offRoute = false
	}

	if s.offRoute {
		if !s.offRouteAnnounced {
			s.offRouteAnnounced = true
			s.cancelCurrent()
			s.queue = nil
			s.enqueued = make(map[string]bool)
			s.deliverImmediately(&Event{Text: "Off route", Priority: PrioritySystemOrOffRoute, Kind: core.NarrationKindOffRoute})
		}
		return true
	}

	if s.offRouteAnnounced {
		s.offRouteAnnounced = false
		s.deliverImmediately(&Event{Text: "Back on route", Priority: PrioritySystemOrOffRoute, Kind: core.NarrationKindBackOnRoute})
	}
	return false
}

func (s *Scheduler) deliverImmediately(ev *Event) {
	s.cancelCurrent()
	ev.Delivered = true
	s.current = ev
	if s.sink != nil {
		s.sink.Speak(*ev)
	}
	if s.listener != nil {
		s.listener.OnNarration(*ev)
	}
}

func (s *Scheduler) cancelCurrent() {
	if s.current != nil && s.sink != nil {
		s.sink.Interrupt(*s.current)
		if s.listener != nil {
			s.listener.OnInterrupt(*s.current)
		}
	}
	s.current = nil
}

func (s *Scheduler) advanceCursor(routeProgressM float64) {
	for s.cursor < len(s.segments) {
		seg := s.segments[s.cursor]
		if seg.DistanceFromStartM()+seg.LengthM() < routeProgressM-passedSlackM {
			s.cursor++
			continue
		}
		break
	}
}

func (s *Scheduler) enqueueEligible(routeProgressM, speedMS float64) {
	for i := s.cursor; i < len(s.segments); i++ {
		seg := s.segments[i]
		distanceAhead := seg.DistanceFromStartM() - routeProgressM
		if distanceAhead > lookaheadWindowM {
			break
		}

		identity := segmentIdentity(seg)
		if s.enqueued[identity] || s.delivered[identity] {
			continue
		}

		ev, ok := s.eventForSegment(seg)
		if !ok {
			continue
		}

		trigger := TriggerDistance(speedMS, advisoryOf(seg), s.cfg)
		ev.TriggerDistanceM = trigger
		if distanceAhead > trigger {
			continue
		}

		ev.CurveIdentity = identity
		ev.seq = s.nextSeq
		s.nextSeq++
		s.enqueued[identity] = true
		heap.Push(&s.queue, ev)
	}

	s.enqueueSparseWarnings(routeProgressM)
}

func (s *Scheduler) enqueueSparseWarnings(routeProgressM float64) {
	for i, r := range s.sparseRegions {
		if s.sparseAnnounced[i] {
			continue
		}
		distanceAhead := r.StartDistanceM - routeProgressM
		if distanceAhead > lookaheadWindowM || distanceAhead < -passedSlackM {
			continue
		}

		s.sparseAnnounced[i] = true
		ev := &Event{
			Text:     "Sparse data ahead, reduced confidence",
			Priority: PrioritySparseWarning,
			Kind:     core.NarrationKindSparseWarning,
			seq:      s.nextSeq,
		}
		s.nextSeq++
		heap.Push(&s.queue, ev)
	}
}

func (s *Scheduler) eventForSegment(seg segment.RouteSegment) (*Event, bool) {
	if seg.Kind == segment.KindStraight {
		if s.cfg.Verbosity < core.VerbosityDetailed || !s.cfg.NarrateStraights {
			return nil, false
		}
		return &Event{
			Text:     StraightPhrase(seg.Straight),
			Priority: PriorityStraight,
			Kind:     core.NarrationKindStraight,
		}, true
	}

	c := seg.Curve
	if s.cfg.Verbosity == core.VerbosityMinimal {
		if c.Severity == core.SeverityGentle {
			return nil, false
		}
		if c.Severity == core.SeverityModerate && c.CompoundType == core.CompoundNone {
			return nil, false
		}
	}

	return &Event{
		Text:     CurvePhrase(c, s.cfg),
		Priority: priorityForSeverity(c.Severity),
		Kind:     core.NarrationKindCurve,
	}, true
}

// preempt cancels the in-flight utterance and speaks the queue's top
// event if it outranks it, discarding the interrupted event rather
// than re-queueing it. Returns true if it delivered an event, so the
// caller's drain does not also fire this update.
func (s *Scheduler) preempt() bool {
	if s.current == nil || s.queue.Len() == 0 {
		return false
	}
	if s.queue[0].Priority <= s.current.Priority {
		return false
	}

	s.cancelCurrent()

	ev := heap.Pop(&s.queue).(*Event)
	ev.Delivered = true
	if ev.CurveIdentity != "" {
		s.delivered[ev.CurveIdentity] = true
	}
	s.current = ev
	if s.sink != nil {
		s.sink.Speak(*ev)
	}
	if s.listener != nil {
		s.listener.OnNarration(*ev)
	}
	return true
}

// drain pops and speaks at most one queued event (the highest-priority
// one), honoring the post-completion cooldown. A queued event is not
// re-checked against the current route progress before it is spoken.
func (s *Scheduler) drain() {
	if s.current != nil || s.queue.Len() == 0 {
		return
	}
	if time.Now().Before(s.cooldownUntil) {
		return
	}

	ev := heap.Pop(&s.queue).(*Event)
	ev.Delivered = true
	if ev.CurveIdentity != "" {
		s.delivered[ev.CurveIdentity] = true
	}

	s.current = ev
	if s.sink != nil {
		s.sink.Speak(*ev)
	}
	if s.listener != nil {
		s.listener.OnNarration(*ev)
	}
}

func (s *Scheduler) publishSnapshot(routeProgressM float64) {
	text := ""
	if s.current != nil {
		text = s.current.Text
	}
	s.snapshot.Store(Snapshot{
		State:          s.state,
		CurrentText:    text,
		RouteProgressM: routeProgressM,
		UpcomingCount:  s.queue.Len(),
	})
}

// Snapshot returns the last published scheduler state. Safe to call
// from any goroutine.
func (s *Scheduler) Snapshot() Snapshot {
	v := s.snapshot.Load()
	if v == nil {
		return Snapshot{}
	}
	return v.(Snapshot)
}

func priorityForSeverity(sev core.Severity) int {
	switch sev {
	case core.SeverityHairpin:
		return PriorityHairpin
	case core.SeveritySharp:
		return PrioritySharp
	case core.SeverityFirm:
		return PriorityFirm
	case core.SeverityModerate:
		return PriorityModerate
	default:
		return PriorityGentle
	}
}

func advisoryOf(seg segment.RouteSegment) *float64 {
	if seg.Kind != segment.KindCurve {
		return nil
	}
	return seg.Curve.AdvisorySpeedMS
}

func segmentIdentity(seg segment.RouteSegment) string {
	kind := "straight"
	if seg.Kind == segment.KindCurve {
		kind = "curve"
	}
	return fmt.Sprintf("%s:%d-%d", kind, seg.StartIndex(), seg.EndIndex())
}
