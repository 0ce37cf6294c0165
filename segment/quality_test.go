package segment

import (
	"math"
	"testing"

	core "github.com/mhathiyari/curve-call-sub001"
	"github.com/mhathiyari/curve-call-sub001/geo"
)

func TestDetectSparseRegionsFlagsWideTurningGap(t *testing.T) {
	// A route that turns sharply right at the sparse gap: wide spacing
	// plus a real direction change.
	pts := []geo.Point{
		{Lat: 0, Lon: 0},
		{Lat: 0.001, Lon: 0},
		{Lat: 0.003, Lon: 0.003}, // wide gap (~400m) with a turn
		{Lat: 0.003, Lon: 0.005},
	}
	regions := DetectSparseRegions(pts, 100)
	if len(regions) == 0 {
		t.Fatalf("expected a sparse region for a wide, turning gap")
	}
}

func TestDetectSparseRegionsIgnoresWideStraightGap(t *testing.T) {
	// Wide spacing, but the route is straight on both sides of the gap.
	pts := []geo.Point{
		{Lat: 0, Lon: 0},
		{Lat: 0.001, Lon: 0},
		{Lat: 0.01, Lon: 0}, // wide gap, no direction change
		{Lat: 0.011, Lon: 0},
	}
	regions := DetectSparseRegions(pts, 100)
	if len(regions) != 0 {
		t.Fatalf("expected no sparse region on a straight wide gap, got %v", regions)
	}
}

func TestDetectSparseRegionsIgnoresDenseTurningGap(t *testing.T) {
	pts := []geo.Point{
		{Lat: 0, Lon: 0},
		{Lat: 0.00001, Lon: 0},
		{Lat: 0.00002, Lon: 0.00002}, // small gap with a turn
		{Lat: 0.00002, Lon: 0.00004},
	}
	regions := DetectSparseRegions(pts, 100)
	if len(regions) != 0 {
		t.Fatalf("expected no sparse region for a dense gap, got %v", regions)
	}
}

func TestApplyConfidenceFullOverlapLowersToPoint3(t *testing.T) {
	segs := []RouteSegment{
		curveSeg(geo.DirectionLeft, core.SeverityModerate, 100, 0, 100),
	}
	segs[0].Curve.Confidence = 1.0
	regions := []SparseRegion{{StartDistanceM: -10, EndDistanceM: 200}}

	ApplyConfidence(segs, regions)

	if math.Abs(segs[0].Curve.Confidence-0.3) > 1e-9 {
		t.Fatalf("expected confidence 0.3 for full overlap, got %v", segs[0].Curve.Confidence)
	}
}

func TestApplyConfidencePartialOverlapLowersToPoint6(t *testing.T) {
	segs := []RouteSegment{
		curveSeg(geo.DirectionLeft, core.SeverityModerate, 100, 0, 100),
	}
	segs[0].Curve.Confidence = 1.0
	regions := []SparseRegion{{StartDistanceM: 90, EndDistanceM: 95}}

	ApplyConfidence(segs, regions)

	if math.Abs(segs[0].Curve.Confidence-0.6) > 1e-9 {
		t.Fatalf("expected confidence 0.6 for partial overlap, got %v", segs[0].Curve.Confidence)
	}
}

func TestApplyConfidenceNoOverlapLeavesUnchanged(t *testing.T) {
	segs := []RouteSegment{
		curveSeg(geo.DirectionLeft, core.SeverityModerate, 100, 0, 100),
	}
	segs[0].Curve.Confidence = 1.0
	regions := []SparseRegion{{StartDistanceM: 500, EndDistanceM: 600}}

	ApplyConfidence(segs, regions)

	if segs[0].Curve.Confidence != 1.0 {
		t.Fatalf("expected confidence unchanged at 1.0, got %v", segs[0].Curve.Confidence)
	}
}

func TestApplyConfidenceNeverRaises(t *testing.T) {
	segs := []RouteSegment{
		curveSeg(geo.DirectionLeft, core.SeverityModerate, 100, 0, 100),
	}
	segs[0].Curve.Confidence = 0.3 // already low from a prior pass
	// no overlap this time
	regions := []SparseRegion{{StartDistanceM: 500, EndDistanceM: 600}}

	ApplyConfidence(segs, regions)

	if segs[0].Curve.Confidence != 0.3 {
		t.Fatalf("expected confidence to never rise, got %v", segs[0].Curve.Confidence)
	}
}
