package segment

import (
	"github.com/mhathiyari/curve-call-sub001/curvature"
	"github.com/mhathiyari/curve-call-sub001/geo"
)

// Segment marks each point in_curve iff its smoothed radius is below
// curvatureThresholdM, run-length encodes the result into RawSegments,
// then merges away any straight run flanked by curves on both sides
// whose along-path length is below straightGapMergeM, fusing the two
// flanking curves into one. Contiguity and full-index-coverage are
// preserved by construction: every output RawSegment directly abuts
// the next.
//
// Grounded on the teacher's decode/record.go sequential record scan
// (walk a stream, group by a classifying predicate), generalized from
// "group bytes into records by a type tag" to "group points into runs
// by an in-curve predicate."
func Segment(points []curvature.Point, curvatureThresholdM, straightGapMergeM float64) []RawSegment {
	n := len(points)
	if n == 0 {
		return nil
	}

	raw := runLengthEncode(points, curvatureThresholdM)
	return mergeShortStraights(points, raw, straightGapMergeM)
}

func runLengthEncode(points []curvature.Point, thresholdM float64) []RawSegment {
	n := len(points)
	segs := make([]RawSegment, 0)

	start := 0
	curIsCurve := points[0].SmoothedRadiusM < thresholdM

	for i := 1; i < n; i++ {
		isCurve := points[i].SmoothedRadiusM < thresholdM
		if isCurve != curIsCurve {
			segs = append(segs, RawSegment{StartIndex: start, EndIndex: i - 1, IsCurve: curIsCurve})
			start = i
			curIsCurve = isCurve
		}
	}
	segs = append(segs, RawSegment{StartIndex: start, EndIndex: n - 1, IsCurve: curIsCurve})

	return segs
}

func mergeShortStraights(points []curvature.Point, segs []RawSegment, straightGapMergeM float64) []RawSegment {
	changed := true

	for changed {
		changed = false

		for i := 1; i < len(segs)-1; i++ {
			s := segs[i]
			if s.IsCurve {
				continue
			}
			if !segs[i-1].IsCurve || !segs[i+1].IsCurve {
				continue
			}

			length := arcLength(points, s.StartIndex, s.EndIndex)
			if length >= straightGapMergeM {
				continue
			}

			fused := RawSegment{StartIndex: segs[i-1].StartIndex, EndIndex: segs[i+1].EndIndex, IsCurve: true}
			merged := make([]RawSegment, 0, len(segs)-2)
			merged = append(merged, segs[:i-1]...)
			merged = append(merged, fused)
			merged = append(merged, segs[i+2:]...)
			segs = merged

			changed = true
			break
		}
	}

	return segs
}

// arcLength sums the haversine distance across points[start:end+1].
func arcLength(points []curvature.Point, start, end int) float64 {
	var sum float64
	for i := start + 1; i <= end; i++ {
		sum += geo.Haversine(points[i-1].Point, points[i].Point)
	}
	return sum
}
