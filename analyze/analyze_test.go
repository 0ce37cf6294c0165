package analyze

import (
	"context"
	"math"
	"testing"

	core "github.com/mhathiyari/curve-call-sub001"
	"github.com/mhathiyari/curve-call-sub001/geo"
)

func straightRoute(n int, stepM float64) []geo.Point {
	mPerDeg := 111_320.0
	pts := make([]geo.Point, n)
	for i := 0; i < n; i++ {
		pts[i] = geo.Point{Lat: float64(i) * stepM / mPerDeg, Lon: 0}
	}
	return pts
}

func hairpinRoute() []geo.Point {
	const radius = 15.0
	const n = 40
	mPerDeg := 111_320.0
	pts := make([]geo.Point, n)
	for i := 0; i < n; i++ {
		angle := math.Pi * float64(i) / float64(n-1)
		pts[i] = geo.Point{
			Lat: (radius * math.Sin(angle)) / mPerDeg,
			Lon: (radius - radius*math.Cos(angle)) / mPerDeg,
		}
	}
	return pts
}

func TestAnalyzeRejectsTooFewPoints(t *testing.T) {
	_, err := Analyze([]geo.Point{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 1}}, core.DefaultAnalysisConfig())
	if err == nil {
		t.Fatalf("expected an error for a 2-point route")
	}
}

func TestAnalyzeRejectsInvalidPoint(t *testing.T) {
	pts := straightRoute(10, 20)
	pts[3].Lat = math.NaN()
	_, err := Analyze(pts, core.DefaultAnalysisConfig())
	if err == nil {
		t.Fatalf("expected an error for a NaN point")
	}
}

func TestAnalyzeRejectsInvalidConfig(t *testing.T) {
	cfg := core.DefaultAnalysisConfig()
	cfg.CurvatureThresholdM = -1
	_, err := Analyze(straightRoute(10, 20), cfg)
	if err == nil {
		t.Fatalf("expected an error for an invalid config")
	}
}

func TestAnalyzeStraightRouteYieldsOneStraightSegment(t *testing.T) {
	res, err := Analyze(straightRoute(60, 20), core.DefaultAnalysisConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Segments) != 1 {
		t.Fatalf("expected exactly one segment for a straight route, got %d", len(res.Segments))
	}
	if res.Segments[0].Kind != 1 { // KindStraight
		t.Fatalf("expected the single segment to be a straight")
	}
}

func TestAnalyzeHairpinRouteYieldsHairpinCurve(t *testing.T) {
	res, err := Analyze(hairpinRoute(), core.DefaultAnalysisConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	foundHairpin := false
	for _, s := range res.Segments {
		if s.Curve != nil && s.Curve.Severity == core.SeverityHairpin {
			foundHairpin = true
			if s.Curve.AdvisorySpeedMS == nil {
				t.Fatalf("expected advisory speed attached to a HAIRPIN curve")
			}
		}
	}
	if !foundHairpin {
		t.Fatalf("expected at least one HAIRPIN curve in the analyzed hairpin route")
	}
}

func TestAnalyzeSegmentsCoverFullIndexRange(t *testing.T) {
	res, err := Analyze(hairpinRoute(), core.DefaultAnalysisConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Segments[0].StartIndex() != 0 {
		t.Fatalf("expected first segment to start at index 0")
	}
	last := len(res.InterpolatedPoints) - 1
	if got := res.Segments[len(res.Segments)-1].EndIndex(); got != last {
		t.Fatalf("expected last segment to end at index %d, got %d", last, got)
	}
	for i := 1; i < len(res.Segments); i++ {
		if res.Segments[i-1].EndIndex()+1 != res.Segments[i].StartIndex() {
			t.Fatalf("index gap between segment %d and %d", i-1, i)
		}
	}
}

func TestAnalyzeDistanceFromStartMonotonic(t *testing.T) {
	res, err := Analyze(hairpinRoute(), core.DefaultAnalysisConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(res.Segments); i++ {
		if res.Segments[i].DistanceFromStartM() < res.Segments[i-1].DistanceFromStartM() {
			t.Fatalf("distance_from_start regressed at segment %d", i)
		}
	}
}

func TestAnalyzeBatchReturnsResultsInInputOrder(t *testing.T) {
	routes := [][]geo.Point{
		straightRoute(40, 20),
		hairpinRoute(),
		straightRoute(30, 15),
	}
	results := AnalyzeBatch(context.Background(), routes, core.DefaultAnalysisConfig())

	if len(results) != len(routes) {
		t.Fatalf("expected %d results, got %d", len(routes), len(results))
	}
	for i, r := range results {
		if r.Index != i {
			t.Fatalf("expected result %d to report index %d, got %d", i, i, r.Index)
		}
		if r.Err != nil {
			t.Fatalf("unexpected error for route %d: %v", i, r.Err)
		}
	}
}
