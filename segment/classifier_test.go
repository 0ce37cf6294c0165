package segment

import (
	"math"
	"testing"

	core "github.com/mhathiyari/curve-call-sub001"
	"github.com/mhathiyari/curve-call-sub001/curvature"
	"github.com/mhathiyari/curve-call-sub001/geo"
)

func mkPoints(n int, stepM float64) []geo.Point {
	mPerDegLat := 111_320.0
	pts := make([]geo.Point, n)
	for i := 0; i < n; i++ {
		pts[i] = geo.Point{Lat: float64(i) * stepM / mPerDegLat, Lon: 0}
	}
	return pts
}

func curvaturePointsWithRadii(radii []float64, dir geo.Direction) []curvature.Point {
	pts := mkPoints(len(radii), 10)
	out := make([]curvature.Point, len(radii))
	for i, r := range radii {
		out[i] = curvature.Point{Point: pts[i], RawRadiusM: r, SmoothedRadiusM: r, Direction: dir}
	}
	return out
}

func TestClassifyMajorityDirectionLeftTieBreak(t *testing.T) {
	sub := []curvature.Point{
		{Direction: geo.DirectionLeft},
		{Direction: geo.DirectionRight},
	}
	if got := majorityDirection(sub); got != geo.DirectionLeft {
		t.Fatalf("expected LEFT on a tie, got %v", got)
	}
}

func TestClassifyMajorityDirectionClearWinner(t *testing.T) {
	sub := []curvature.Point{
		{Direction: geo.DirectionRight},
		{Direction: geo.DirectionRight},
		{Direction: geo.DirectionLeft},
	}
	if got := majorityDirection(sub); got != geo.DirectionRight {
		t.Fatalf("expected RIGHT, got %v", got)
	}
}

func TestClassifySeverityFromMinRadius(t *testing.T) {
	radii := make([]float64, 12)
	for i := range radii {
		radii[i] = 100
	}
	radii[6] = 12 // minimum, should drive severity

	points := curvaturePointsWithRadii(radii, geo.DirectionLeft)
	raw := RawSegment{StartIndex: 0, EndIndex: len(radii) - 1, IsCurve: true}

	cfg := core.DefaultAnalysisConfig()
	cs := Classify(points, raw, cfg)

	if cs.MinRadiusM != 12 {
		t.Fatalf("expected min radius 12, got %v", cs.MinRadiusM)
	}
	want := core.ClassifySeverity(12, cfg.SeverityThresholds)
	if cs.Severity != want {
		t.Fatalf("expected severity %v, got %v", want, cs.Severity)
	}
}

func TestClassifyTighteningModifier(t *testing.T) {
	radii := make([]float64, 9)
	for i := 0; i < 3; i++ {
		radii[i] = 100
	}
	for i := 3; i < 6; i++ {
		radii[i] = 60
	}
	for i := 6; i < 9; i++ {
		radii[i] = 30 // well under 0.8 * 100
	}

	points := curvaturePointsWithRadii(radii, geo.DirectionLeft)
	raw := RawSegment{StartIndex: 0, EndIndex: len(radii) - 1, IsCurve: true}

	cs := Classify(points, raw, core.DefaultAnalysisConfig())
	if !cs.Modifiers.Has(core.ModifierTightening) {
		t.Fatalf("expected TIGHTENING modifier, got %v", cs.Modifiers)
	}
	if cs.Modifiers.Has(core.ModifierOpening) {
		t.Fatalf("did not expect OPENING alongside TIGHTENING")
	}
}

func TestClassifyOpeningModifier(t *testing.T) {
	radii := make([]float64, 9)
	for i := 0; i < 3; i++ {
		radii[i] = 30
	}
	for i := 3; i < 6; i++ {
		radii[i] = 60
	}
	for i := 6; i < 9; i++ {
		radii[i] = 100 // well over 1.2 * 30
	}

	points := curvaturePointsWithRadii(radii, geo.DirectionLeft)
	raw := RawSegment{StartIndex: 0, EndIndex: len(radii) - 1, IsCurve: true}

	cs := Classify(points, raw, core.DefaultAnalysisConfig())
	if !cs.Modifiers.Has(core.ModifierOpening) {
		t.Fatalf("expected OPENING modifier, got %v", cs.Modifiers)
	}
}

func TestClassifyTooFewPointsForThirdsSkipsTighteningOpening(t *testing.T) {
	radii := []float64{100, 50, 20} // third = 1, below the >=3 threshold
	points := curvaturePointsWithRadii(radii, geo.DirectionLeft)
	raw := RawSegment{StartIndex: 0, EndIndex: len(radii) - 1, IsCurve: true}

	cs := Classify(points, raw, core.DefaultAnalysisConfig())
	if cs.Modifiers.Has(core.ModifierTightening) || cs.Modifiers.Has(core.ModifierOpening) {
		t.Fatalf("expected neither modifier with too few points per third, got %v", cs.Modifiers)
	}
}

func TestClassifyLongAndHoldsModifiers(t *testing.T) {
	// 30 points spaced 10m apart = 290m arc length, all equal radius so
	// neither tightening nor opening applies.
	radii := make([]float64, 30)
	for i := range radii {
		radii[i] = 80
	}
	points := curvaturePointsWithRadii(radii, geo.DirectionRight)
	raw := RawSegment{StartIndex: 0, EndIndex: len(radii) - 1, IsCurve: true}

	cs := Classify(points, raw, core.DefaultAnalysisConfig())
	if !cs.Modifiers.Has(core.ModifierLong) {
		t.Fatalf("expected LONG modifier for a 290m arc, got %v", cs.Modifiers)
	}
	if !cs.Modifiers.Has(core.ModifierHolds) {
		t.Fatalf("expected HOLDS alongside LONG with no tightening/opening, got %v", cs.Modifiers)
	}
}

func TestClassifyRightAngleFlag(t *testing.T) {
	// A sharp ~90 degree right turn (north, then east) over a very short span.
	pts := []geo.Point{
		{Lat: 0, Lon: 0},
		{Lat: 0.0001, Lon: 0},
		{Lat: 0.0001, Lon: 0.0001},
	}
	radii := []float64{15, 15, 15}
	cps := make([]curvature.Point, len(pts))
	for i := range pts {
		cps[i] = curvature.Point{Point: pts[i], RawRadiusM: radii[i], SmoothedRadiusM: radii[i], Direction: geo.DirectionLeft}
	}
	raw := RawSegment{StartIndex: 0, EndIndex: len(pts) - 1, IsCurve: true}

	cs := Classify(cps, raw, core.DefaultAnalysisConfig())
	if !cs.IsRightAngle {
		t.Fatalf("expected IsRightAngle true for a ~90 degree turn over a ~22m arc, got angle=%v arc=%v",
			cs.TotalAngleChangeDeg, cs.ArcLengthM)
	}
}

func TestArcLengthSumsHaversineDistances(t *testing.T) {
	radii := make([]float64, 5)
	for i := range radii {
		radii[i] = 50
	}
	points := curvaturePointsWithRadii(radii, geo.DirectionLeft)

	got := ArcLength(points, 0, len(points)-1)
	want := 40.0 // 4 segments * 10m
	if math.Abs(got-want) > 1 {
		t.Fatalf("expected arc length ~%v, got %v", want, got)
	}
}
