// Package curvature implements uniform-spacing polyline resampling and
// the per-point radius/direction curvature pipeline: outlier repair,
// radius capping, and centered rolling-mean smoothing.
package curvature

import (
	"github.com/mhathiyari/curve-call-sub001/geo"
)

// Resample returns a polyline whose consecutive points are
// approximately spacingM meters apart along the input path. The first
// input point is always the first output point. The last input point
// is appended iff the residual distance from the last emitted point
// exceeds spacingM/2. Total path length is preserved within 5%.
//
// Grounded on the teacher's sound-velocity-profile resampling
// (decode/svp.go's depth-bin interpolation): walk the cumulative
// along-path distance and linearly interpolate a new sample every time
// the walked distance crosses the next multiple of the target spacing.
func Resample(points []geo.Point, spacingM float64) []geo.Point {
	if len(points) < 2 || spacingM <= 0 {
		out := make([]geo.Point, len(points))
		copy(out, points)
		return out
	}

	out := make([]geo.Point, 0, len(points))
	out = append(out, points[0])

	var carried float64 // distance walked since the last emitted point

	for i := 1; i < len(points); i++ {
		segStart := points[i-1]
		segEnd := points[i]
		segLen := geo.Haversine(segStart, segEnd)
		if segLen == 0 {
			continue
		}

		walked := 0.0
		for carried+(segLen-walked) >= spacingM {
			remaining := spacingM - carried
			walked += remaining
			t := walked / segLen
			out = append(out, geo.Interpolate(segStart, segEnd, t))
			carried = 0
		}

		carried += segLen - walked
	}

	finalPoint := points[len(points)-1]
	if carried > spacingM/2 {
		out = append(out, finalPoint)
	}

	return out
}
