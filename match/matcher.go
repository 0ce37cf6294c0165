// Package match implements the online map matcher: snapping a stream
// of GPS fixes onto the interpolated route polyline and maintaining
// monotonic route progress with off-route hysteresis.
package match

import (
	"github.com/samber/lo"

	"github.com/mhathiyari/curve-call-sub001/geo"
)

const (
	windowK         = 200
	fallbackRadiusM = 500.0

	offRouteEnterM = 100.0
	offRouteExitM  = 50.0

	forwardJumpM = 250.0
)

// MatchResult is the outcome of snapping one GPS fix onto the route.
type MatchResult struct {
	SnappedPoint             geo.Point
	RouteProgressM           float64
	DistanceFromRouteM       float64
	NearestSegmentStartIndex int
	OffRoute                 bool
}

// Matcher holds the per-route state a sequence of Match calls needs:
// the interpolated polyline, its cumulative-distance array, the
// previously matched edge (to window the next search), and the
// off-route latch.
//
// Grounded on the teacher's search package's bounded, stateful search
// idiom (search outward from a known-good location before falling back
// to an exhaustive scan), generalized from "find a file under a URI
// prefix" to "find the nearest polyline edge to a GPS fix."
type Matcher struct {
	points     []geo.Point
	cumulative []float64

	lastIndex    int
	lastProgress float64
	offRoute     bool
}

// NewMatcher constructs a Matcher over an already-interpolated
// polyline, precomputing its cumulative along-path distance array.
func NewMatcher(interpolated []geo.Point) *Matcher {
	cum := make([]float64, len(interpolated))
	for i := 1; i < len(interpolated); i++ {
		cum[i] = cum[i-1] + geo.Haversine(interpolated[i-1], interpolated[i])
	}
	return &Matcher{points: interpolated, cumulative: cum}
}

// Match snaps fix onto the route, updates route progress and the
// off-route latch, and returns the result.
func (m *Matcher) Match(fix geo.Point) MatchResult {
	n := len(m.points)
	if n < 2 {
		return MatchResult{SnappedPoint: fix}
	}

	lowIdx := m.lastIndex - windowK
	if lowIdx < 0 {
		lowIdx = 0
	}
	hi := m.lastIndex + windowK
	if hi > n-2 {
		hi = n - 2
	}

	idx, proj, dist := m.bestEdge(fix, lowIdx, hi)
	if dist > fallbackRadiusM {
		idx, proj, dist = m.bestEdge(fix, 0, n-2)
	}

	edgeLen := m.cumulative[idx+1] - m.cumulative[idx]
	progress := m.cumulative[idx] + proj.T*edgeLen

	if jump := progress - m.lastProgress; jump > forwardJumpM {
		// Forward teleport: accept the new position outright and let
		// lastIndex below reset the search window around it.
	} else if progress < m.lastProgress {
		progress = m.lastProgress
	}

	m.lastIndex = idx
	m.lastProgress = progress

	switch {
	case dist > offRouteEnterM:
		m.offRoute = true
	case dist <= offRouteExitM:
		m.offRoute = false
	}

	return MatchResult{
		SnappedPoint:             proj.Snapped,
		RouteProgressM:           progress,
		DistanceFromRouteM:       dist,
		NearestSegmentStartIndex: idx,
		OffRoute:                 m.offRoute,
	}
}

// edgeCandidate is one scanned edge's projection result, carried
// through lo.MinBy so the comparison never re-projects.
type edgeCandidate struct {
	idx  int
	proj geo.ProjectResult
	dist float64
}

// bestEdge scans edges [lowIdx, hi] and returns the index, projection,
// and distance of the closest one to fix.
func (m *Matcher) bestEdge(fix geo.Point, lowIdx, hi int) (int, geo.ProjectResult, float64) {
	indices := lo.Range(hi - lowIdx + 1)
	candidates := lo.Map(indices, func(offset int, _ int) edgeCandidate {
		i := lowIdx + offset
		proj := geo.ProjectOntoSegment(fix, m.points[i], m.points[i+1])
		return edgeCandidate{idx: i, proj: proj, dist: proj.DistanceM}
	})

	best := lo.MinBy(candidates, func(a, b edgeCandidate) bool { return a.dist < b.dist })
	return best.idx, best.proj, best.dist
}
