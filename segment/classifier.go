package segment

import (
	"math"

	"github.com/samber/lo"

	core "github.com/mhathiyari/curve-call-sub001"
	"github.com/mhathiyari/curve-call-sub001/curvature"
	"github.com/mhathiyari/curve-call-sub001/geo"
)

// rightAngleMinDeg, rightAngleMaxDeg, and rightAngleMaxArcM bound the
// right-angle-turn classification: a near-90 degree turn over a short
// arc (a T-junction or square corner) rather than a swept curve.
const (
	rightAngleMinDeg = 85.0
	rightAngleMaxDeg = 95.0
	rightAngleMaxArcM = 50.0
	longArcMinM       = 200.0

	tighteningRatio = 0.8
	openingRatio    = 1.2
)

// Classify computes a CurveSegment from a curve RawSegment and the
// smoothed curvature points it spans.
//
// Grounded on the teacher's qa.go (which folds a ping sequence's beam
// counts down to a min/max/consistency verdict via lo.Min/lo.Max) and
// intensity.go (formula -> rounded, clamped display value), generalized
// to "fold a curve's point range down to direction/severity/modifier
// verdicts."
func Classify(points []curvature.Point, raw RawSegment, cfg core.AnalysisConfig) CurveSegment {
	sub := points[raw.StartIndex : raw.EndIndex+1]

	direction := majorityDirection(sub)
	minRadius := minSmoothedRadius(sub)
	severity := core.ClassifySeverity(minRadius, cfg.SeverityThresholds)
	arcLen := ArcLength(points, raw.StartIndex, raw.EndIndex)
	modifiers := classifyModifiers(sub, arcLen)
	totalAngle := totalAngleChangeDeg(sub)
	isRightAngle := totalAngle >= rightAngleMinDeg && totalAngle <= rightAngleMaxDeg && arcLen < rightAngleMaxArcM

	return CurveSegment{
		Direction:           direction,
		Severity:            severity,
		MinRadiusM:          minRadius,
		ArcLengthM:          arcLen,
		Modifiers:           modifiers,
		TotalAngleChangeDeg: totalAngle,
		IsRightAngle:        isRightAngle,
		Confidence:          1.0,
		StartIndex:          raw.StartIndex,
		EndIndex:            raw.EndIndex,
		StartPoint:          sub[0].Point,
		EndPoint:            sub[len(sub)-1].Point,
	}
}

// ArcLength sums the haversine distance across points[start:end+1].
// Exported for reuse by the analyzer when it measures straight
// segments.
func ArcLength(points []curvature.Point, start, end int) float64 {
	var sum float64
	for i := start + 1; i <= end; i++ {
		sum += geo.Haversine(points[i-1].Point, points[i].Point)
	}
	return sum
}

func majorityDirection(sub []curvature.Point) geo.Direction {
	var left, right int
	for _, p := range sub {
		switch p.Direction {
		case geo.DirectionLeft:
			left++
		case geo.DirectionRight:
			right++
		}
	}
	if left >= right {
		return geo.DirectionLeft
	}
	return geo.DirectionRight
}

func minSmoothedRadius(sub []curvature.Point) float64 {
	radii := lo.Map(sub, func(p curvature.Point, _ int) float64 { return p.SmoothedRadiusM })
	return lo.Min(radii)
}

func classifyModifiers(sub []curvature.Point, arcLenM float64) core.ModifierSet {
	var mods core.ModifierSet

	third := len(sub) / 3
	var tightening, opening bool

	if third >= 3 {
		firstThird := sub[:third]
		lastThird := sub[len(sub)-third:]

		avgFirst := meanCappedRadius(firstThird)
		avgLast := meanCappedRadius(lastThird)

		switch {
		case avgLast < tighteningRatio*avgFirst:
			tightening = true
		case avgLast > openingRatio*avgFirst:
			opening = true
		}
	}

	if tightening {
		mods = mods.With(core.ModifierTightening)
	}
	if opening {
		mods = mods.With(core.ModifierOpening)
	}

	long := arcLenM > longArcMinM
	if long {
		mods = mods.With(core.ModifierLong)
	}
	if long && !tightening && !opening {
		mods = mods.With(core.ModifierHolds)
	}

	return mods
}

func meanCappedRadius(pts []curvature.Point) float64 {
	radii := lo.Map(pts, func(p curvature.Point, _ int) float64 {
		if p.SmoothedRadiusM > geo.CapRadiusM {
			return geo.CapRadiusM
		}
		return p.SmoothedRadiusM
	})
	return lo.Sum(radii) / float64(len(radii))
}

func totalAngleChangeDeg(sub []curvature.Point) float64 {
	if len(sub) < 2 {
		return 0
	}

	entryBearing := geo.InitialBearing(sub[0].Point, sub[1].Point)
	exitBearing := geo.InitialBearing(sub[len(sub)-2].Point, sub[len(sub)-1].Point)

	return math.Abs(geo.BearingDifference(entryBearing, exitBearing))
}
