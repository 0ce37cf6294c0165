package segment

import (
	"github.com/gotidy/ptr"
	"github.com/samber/lo"

	core "github.com/mhathiyari/curve-call-sub001"
)

// switchbackGapMaxM is the switchback pass's own gap ceiling; it is
// fixed by the spec independent of AnalysisConfig.StraightGapMergeM.
const switchbackGapMaxM = 200.0

// DetectCompounds labels curves in segs with a CompoundType in a fixed,
// non-revisited pass order (S-bend/chicane, then switchbacks, then
// series, then tightening sequence), mutating the CurveSegment values
// reachable through segs in place.
//
// Grounded on the teacher's qa.go multi-pass ping-quality scoring
// (several independent checks run in sequence, each marking a subset of
// records and skipping anything already marked), generalized from
// "quality flags on sonar pings" to "compound labels on curves, claimed
// at most once."
func DetectCompounds(segs []RouteSegment, straightGapMergeM float64) {
	curves := curvesOf(segs)
	n := len(curves)
	if n == 0 {
		return
	}
	claimed := make([]bool, n)

	claimSBendChicane(curves, claimed, straightGapMergeM)
	claimSwitchbacks(curves, claimed)
	claimSeries(curves, claimed, straightGapMergeM)
	claimTighteningSequence(curves, claimed, straightGapMergeM)
}

func curvesOf(segs []RouteSegment) []*CurveSegment {
	return lo.FilterMap(segs, func(s RouteSegment, _ int) (*CurveSegment, bool) {
		return s.Curve, s.Kind == KindCurve
	})
}

func gapBetween(a, b *CurveSegment) float64 {
	gap := b.DistanceFromStartM - (a.DistanceFromStartM + a.ArcLengthM)
	if gap < 0 {
		return 0
	}
	return gap
}

func isSharpOrHairpin(s core.Severity) bool {
	return s == core.SeveritySharp || s == core.SeverityHairpin
}

func claim(c *CurveSegment, ct core.CompoundType, size, position int) {
	c.CompoundType = ct
	c.CompoundSize = ptr.Int(size)
	if position > 0 {
		c.PositionInCompound = ptr.Int(position)
	}
}

func claimSBendChicane(curves []*CurveSegment, claimed []bool, straightGapMergeM float64) {
	for i := 0; i+1 < len(curves); i++ {
		if claimed[i] || claimed[i+1] {
			continue
		}
		a, b := curves[i], curves[i+1]
		if a.Direction == b.Direction {
			continue
		}
		if gapBetween(a, b) >= straightGapMergeM {
			continue
		}

		ct := core.CompoundSBend
		if isSharpOrHairpin(a.Severity) && isSharpOrHairpin(b.Severity) {
			ct = core.CompoundChicane
		}

		claim(a, ct, 2, 0)
		claim(b, ct, 2, 0)
		claimed[i], claimed[i+1] = true, true
	}
}

func claimSwitchbacks(curves []*CurveSegment, claimed []bool) {
	n := len(curves)
	for i := 0; i < n; {
		if claimed[i] || !isSharpOrHairpin(curves[i].Severity) {
			i++
			continue
		}

		j := i
		for j+1 < n && !claimed[j+1] &&
			isSharpOrHairpin(curves[j+1].Severity) &&
			curves[j+1].Direction != curves[j].Direction &&
			gapBetween(curves[j], curves[j+1]) < switchbackGapMaxM {
			j++
		}

		runLen := j - i + 1
		if runLen >= 3 {
			for k := i; k <= j; k++ {
				claim(curves[k], core.CompoundSwitchbacks, runLen, k-i+1)
				claimed[k] = true
			}
		}
		i = j + 1
	}
}

func claimSeries(curves []*CurveSegment, claimed []bool, straightGapMergeM float64) {
	n := len(curves)
	for i := 0; i < n; {
		if claimed[i] {
			i++
			continue
		}

		j := i
		for j+1 < n && !claimed[j+1] && gapBetween(curves[j], curves[j+1]) < straightGapMergeM {
			j++
		}

		runLen := j - i + 1
		if runLen >= 3 {
			for k := i; k <= j; k++ {
				claim(curves[k], core.CompoundSeries, runLen, 0)
				claimed[k] = true
			}
		}
		i = j + 1
	}
}

func claimTighteningSequence(curves []*CurveSegment, claimed []bool, straightGapMergeM float64) {
	n := len(curves)
	for i := 0; i < n; {
		if claimed[i] {
			i++
			continue
		}

		j := i
		for j+1 < n && !claimed[j+1] &&
			curves[j+1].Direction == curves[i].Direction &&
			curves[j+1].MinRadiusM < curves[j].MinRadiusM &&
			gapBetween(curves[j], curves[j+1]) < straightGapMergeM {
			j++
		}

		runLen := j - i + 1
		if runLen >= 2 {
			for k := i; k <= j; k++ {
				claim(curves[k], core.CompoundTighteningSequence, runLen, 0)
				claimed[k] = true
			}
		}
		i = j + 1
	}
}
