package curvature

import (
	"sort"

	"github.com/mhathiyari/curve-call-sub001/geo"
)

// Point is the internal per-point curvature record: the point itself,
// its smoothed radius (used by every downstream stage), its raw
// (pre-repair, pre-smoothing) radius for diagnostics, and its signed
// turn direction.
type Point struct {
	Point           geo.Point
	RawRadiusM      float64
	SmoothedRadiusM float64
	Direction       geo.Direction
}

// Compute runs the full curvature pipeline over points: per-point
// Menger radius/direction, isolated-spike outlier repair, a 10,000 m
// radius cap, and a centered rolling mean of the given (odd) window
// size that automatically shrinks near the endpoints.
//
// Grounded on the teacher's decode/svp.go sound-velocity-profile
// handling (interior samples derived from neighbors, endpoints
// extrapolated) and qa.go's neighbor-consistency checks, generalized
// from "is this SVP sample consistent with its depth-bin neighbors" to
// "is this point's radius consistent with its polyline neighbors."
func Compute(points []geo.Point, smoothingWindow int) []Point {
	n := len(points)
	out := make([]Point, n)
	if n == 0 {
		return out
	}
	if n < 3 {
		for i := range points {
			out[i] = Point{Point: points[i], RawRadiusM: geo.CapRadiusM, SmoothedRadiusM: geo.CapRadiusM, Direction: geo.DirectionNone}
		}
		return out
	}

	raw := make([]float64, n)
	dirs := make([]geo.Direction, n)

	for i := 1; i < n-1; i++ {
		raw[i] = geo.MengerRadius(points[i-1], points[i], points[i+1])
		dirs[i] = geo.MengerDirection(points[i-1], points[i], points[i+1])
	}
	// endpoints inherit from the adjacent interior point
	raw[0], dirs[0] = raw[1], dirs[1]
	raw[n-1], dirs[n-1] = raw[n-2], dirs[n-2]

	repaired := repairOutliers(points, raw)

	capped := make([]float64, n)
	for i, r := range repaired {
		if r > geo.CapRadiusM {
			capped[i] = geo.CapRadiusM
		} else {
			capped[i] = r
		}
	}

	smoothed := rollingMean(capped, smoothingWindow)

	for i := range points {
		rawCapped := raw[i]
		if rawCapped > geo.CapRadiusM {
			rawCapped = geo.CapRadiusM
		}
		out[i] = Point{
			Point:           points[i],
			RawRadiusM:      rawCapped,
			SmoothedRadiusM: smoothed[i],
			Direction:       dirs[i],
		}
	}

	return out
}

// repairOutliers replaces a point's raw radius with the median of its
// four nearest neighbors' radii whenever it looks like an isolated GPS
// jitter spike rather than genuine hairpin entry: a single point with a
// much smaller radius than straight neighbors on both sides, or a
// point whose perpendicular offset from the chord through its
// neighbors is implausibly large. A single spike repaired this way
// leaves a genuine two-point hairpin entry untouched, since the
// neighbor-median test only fires when the immediate neighbors
// themselves still look like a straight.
func repairOutliers(points []geo.Point, radii []float64) []float64 {
	n := len(radii)
	out := make([]float64, n)
	copy(out, radii)

	for i := 2; i < n-2; i++ {
		median := medianOf4(radii[i-2], radii[i-1], radii[i+1], radii[i+2])

		isolatedRadiusSpike := radii[i] < 0.2*median && median > 100 &&
			radii[i-1] > 0.5*median && radii[i+1] > 0.5*median

		perp := geo.ProjectOntoSegment(points[i], points[i-1], points[i+1]).DistanceM
		positionSpike := perp > 15

		if isolatedRadiusSpike || positionSpike {
			out[i] = median
		}
	}

	return out
}

func medianOf4(a, b, c, d float64) float64 {
	vals := []float64{a, b, c, d}
	sort.Float64s(vals)
	return (vals[1] + vals[2]) / 2
}

// rollingMean computes a centered moving average with the given odd
// window size, shrinking the window near the endpoints instead of
// padding with zeros or wrapping.
func rollingMean(vals []float64, window int) []float64 {
	n := len(vals)
	out := make([]float64, n)
	half := window / 2

	for i := 0; i < n; i++ {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi > n-1 {
			hi = n - 1
		}

		var sum float64
		for j := lo; j <= hi; j++ {
			sum += vals[j]
		}
		out[i] = sum / float64(hi-lo+1)
	}

	return out
}
