package segment

import (
	"math"

	"github.com/samber/lo"

	"github.com/mhathiyari/curve-call-sub001/geo"
)

const sparseBearingChangeThresholdDeg = 10.0

// SparseRegion is a distance-from-start interval along the route where
// the original (pre-resample) polyline was both widely spaced and
// turning, so the interpolated/smoothed curvature in that interval is
// less trustworthy than elsewhere.
type SparseRegion struct {
	StartDistanceM float64
	EndDistanceM   float64
}

// DetectSparseRegions walks the original polyline's consecutive gaps
// and flags any gap exceeding thresholdM whose bracketing bearing
// change (the turn the route takes immediately before and after the
// gap) exceeds 10 degrees: a wide gap on a straight is unremarkable,
// but a wide gap through a turn means the geometry in between is
// guessed, not measured.
//
// Grounded on the teacher's qa.go beam-spacing consistency check
// (flag a ping whose footprint gap from its neighbor exceeds a
// distance threshold), generalized with an added directional-change
// condition since a route, unlike a sonar swath, has a heading.
func DetectSparseRegions(original []geo.Point, thresholdM float64) []SparseRegion {
	n := len(original)
	if n < 2 {
		return nil
	}

	cum := make([]float64, n)
	for i := 1; i < n; i++ {
		cum[i] = cum[i-1] + geo.Haversine(original[i-1], original[i])
	}

	var regions []SparseRegion
	for i := 0; i+1 < n; i++ {
		if cum[i+1]-cum[i] <= thresholdM {
			continue
		}
		if bracketingBearingChangeDeg(original, i) <= sparseBearingChangeThresholdDeg {
			continue
		}
		regions = append(regions, SparseRegion{StartDistanceM: cum[i], EndDistanceM: cum[i+1]})
	}

	return regions
}

// bracketingBearingChangeDeg returns the larger of the two bearing
// changes bracketing the gap between original[i] and original[i+1]:
// the turn at original[i] (incoming vs. outgoing bearing) and the turn
// at original[i+1]. Either side is skipped if it falls off the ends of
// the polyline.
func bracketingBearingChangeDeg(pts []geo.Point, i int) float64 {
	var maxChange float64

	if i-1 >= 0 {
		in := geo.InitialBearing(pts[i-1], pts[i])
		out := geo.InitialBearing(pts[i], pts[i+1])
		if d := math.Abs(geo.BearingDifference(in, out)); d > maxChange {
			maxChange = d
		}
	}
	if i+2 < len(pts) {
		in := geo.InitialBearing(pts[i], pts[i+1])
		out := geo.InitialBearing(pts[i+1], pts[i+2])
		if d := math.Abs(geo.BearingDifference(in, out)); d > maxChange {
			maxChange = d
		}
	}

	return maxChange
}

// ApplyConfidence folds sparse regions onto each curve's arc and lowers
// (never raises) its Confidence: >0.8 overlap fraction -> 0.3, any
// overlap -> 0.6, no overlap -> left unchanged.
func ApplyConfidence(segs []RouteSegment, regions []SparseRegion) {
	for _, s := range segs {
		if s.Kind != KindCurve {
			continue
		}
		c := s.Curve

		start := c.DistanceFromStartM
		end := start + c.ArcLengthM
		length := end - start
		if length <= 0 {
			continue
		}

		overlap := lo.SumBy(regions, func(r SparseRegion) float64 {
			return overlapLengthM(start, end, r.StartDistanceM, r.EndDistanceM)
		})
		fraction := overlap / length

		confidence := 1.0
		switch {
		case fraction > 0.8:
			confidence = 0.3
		case fraction > 0:
			confidence = 0.6
		}

		if confidence < c.Confidence {
			c.Confidence = confidence
		}
	}
}

func overlapLengthM(aStart, aEnd, bStart, bEnd float64) float64 {
	start := math.Max(aStart, bStart)
	end := math.Min(aEnd, bEnd)
	if end <= start {
		return 0
	}
	return end - start
}
