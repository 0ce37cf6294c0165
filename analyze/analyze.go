// Package analyze implements the offline orchestrator: the pure
// function that turns a raw route polyline into a classified,
// confidence-scored segment list, plus a batch entry point for
// analyzing many routes concurrently.
package analyze

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"github.com/alitto/pond"

	core "github.com/mhathiyari/curve-call-sub001"
	"github.com/mhathiyari/curve-call-sub001/curvature"
	"github.com/mhathiyari/curve-call-sub001/geo"
	"github.com/mhathiyari/curve-call-sub001/segment"
	"github.com/mhathiyari/curve-call-sub001/speed"
)

// Result is the analyzer's output: the classified route segments in
// order, the resampled/interpolated polyline they're indexed against,
// and the sparse regions found on the original polyline.
type Result struct {
	Segments           []segment.RouteSegment
	InterpolatedPoints []geo.Point
	SparseRegions      []segment.SparseRegion
}

// Analyze runs the full offline pipeline: validate, resample, compute
// curvature, segment, classify, score confidence against sparse
// regions, detect compounds, attach speed/lean, then assert invariants.
//
// Grounded on the teacher's cmd/main.go convert_gsf (validate inputs,
// run a fixed sequence of decode/derive stages, return a single
// aggregate result or an error), generalized from "one GSF file" to
// "one route."
func Analyze(points []geo.Point, cfg core.AnalysisConfig) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	if len(points) < 3 {
		return Result{}, fmt.Errorf("%w: need at least 3 points, got %d", core.ErrRouteTooShort, len(points))
	}
	for i, p := range points {
		if !validPoint(p) {
			return Result{}, fmt.Errorf("%w: point %d (%+v)", core.ErrInvalidPoint, i, p)
		}
	}

	interpolated := curvature.Resample(points, cfg.ResampleSpacingM)
	if len(interpolated) < 3 {
		return Result{}, fmt.Errorf("%w: fewer than 3 points remain after resampling", core.ErrRouteTooShort)
	}

	curvePoints := curvature.Compute(interpolated, cfg.SmoothingWindow)
	raw := segment.Segment(curvePoints, cfg.CurvatureThresholdM, cfg.StraightGapMergeM)

	segs := buildRouteSegments(curvePoints, raw, cfg)

	sparseRegions := segment.DetectSparseRegions(points, cfg.SparseNodeThresholdM)
	segment.ApplyConfidence(segs, sparseRegions)

	segment.DetectCompounds(segs, cfg.StraightGapMergeM)

	mode := core.ModeCar
	if cfg.IsMotorcycleMode {
		mode = core.ModeMotorcycle
	}
	speed.Attach(segs, cfg)

	AssertInvariants(segs, mode, len(interpolated))

	return Result{
		Segments:           segs,
		InterpolatedPoints: interpolated,
		SparseRegions:      sparseRegions,
	}, nil
}

func validPoint(p geo.Point) bool {
	return !math.IsNaN(p.Lat) && !math.IsNaN(p.Lon) &&
		p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

func buildRouteSegments(points []curvature.Point, raw []segment.RawSegment, cfg core.AnalysisConfig) []segment.RouteSegment {
	segs := make([]segment.RouteSegment, len(raw))
	var cumulative float64

	for i, r := range raw {
		if r.IsCurve {
			cs := segment.Classify(points, r, cfg)
			cs.DistanceFromStartM = cumulative
			segs[i] = segment.CurveFromRaw(&cs)
			cumulative += cs.ArcLengthM
			continue
		}

		length := segment.ArcLength(points, r.StartIndex, r.EndIndex)
		ss := &segment.StraightSegment{
			LengthM:            length,
			StartIndex:         r.StartIndex,
			EndIndex:           r.EndIndex,
			StartPoint:         points[r.StartIndex].Point,
			EndPoint:           points[r.EndIndex].Point,
			DistanceFromStartM: cumulative,
		}
		segs[i] = segment.StraightFromRaw(ss)
		cumulative += length
	}

	return segs
}

// AssertInvariants panics if segs violates any of the analyzer's
// structural invariants. These are internal programming-error
// assertions, not recoverable conditions: a caller should never see
// one fire against a Result returned from Analyze.
func AssertInvariants(segs []segment.RouteSegment, mode core.Mode, totalPoints int) {
	if len(segs) == 0 {
		return
	}

	if segs[0].StartIndex() != 0 {
		panic(fmt.Sprintf("segment list does not start at index 0, got %d", segs[0].StartIndex()))
	}
	if last := segs[len(segs)-1].EndIndex(); last != totalPoints-1 {
		panic(fmt.Sprintf("segment list does not cover through index %d, ends at %d", totalPoints-1, last))
	}

	for i, s := range segs {
		if s.EndIndex() < s.StartIndex() {
			panic(fmt.Sprintf("segment %d: end_index %d < start_index %d", i, s.EndIndex(), s.StartIndex()))
		}
		if i > 0 {
			prev := segs[i-1]
			if prev.EndIndex()+1 != s.StartIndex() {
				panic(fmt.Sprintf("segment %d: index gap, prev ends %d, this starts %d", i, prev.EndIndex(), s.StartIndex()))
			}
			if s.DistanceFromStartM() < prev.DistanceFromStartM() {
				panic(fmt.Sprintf("segment %d: distance_from_start regressed", i))
			}
		}

		if s.Kind != segment.KindCurve {
			continue
		}
		c := s.Curve

		requiresAdvisory := c.Severity == core.SeveritySharp || c.Severity == core.SeverityHairpin
		if mode == core.ModeMotorcycle {
			requiresAdvisory = requiresAdvisory || c.Severity == core.SeverityFirm
		}
		if requiresAdvisory && c.AdvisorySpeedMS == nil {
			panic(fmt.Sprintf("segment %d: severity %v requires an advisory speed", i, c.Severity))
		}

		if c.Confidence < 0 || c.Confidence > 1 {
			panic(fmt.Sprintf("segment %d: confidence %v out of [0,1]", i, c.Confidence))
		}

		if c.CompoundType != core.CompoundNone {
			if c.CompoundSize == nil || *c.CompoundSize < 2 {
				panic(fmt.Sprintf("segment %d: compound_type %v set without compound_size >= 2", i, c.CompoundType))
			}
			if c.CompoundType == core.CompoundSwitchbacks {
				if c.PositionInCompound == nil || *c.PositionInCompound < 1 || *c.PositionInCompound > *c.CompoundSize {
					panic(fmt.Sprintf("segment %d: switchback position out of [1, compound_size]", i))
				}
			}
		}
	}
}

// BatchResult pairs one route's Analyze outcome with its input index,
// since pool-submitted work completes out of order.
type BatchResult struct {
	Index  int
	Result Result
	Err    error
}

// AnalyzeBatch analyzes many routes concurrently over a fixed worker
// pool, returned in input order.
//
// Grounded on the teacher's cmd/main.go convert_gsf_list, which
// submits a list of files to a 2*NumCPU pond pool bound to a
// cancellable context; generalized from "one file per task" to "one
// route per task."
func AnalyzeBatch(ctx context.Context, routes [][]geo.Point, cfg core.AnalysisConfig) []BatchResult {
	n := runtime.NumCPU() * 2
	pool := pond.New(n, 0, pond.MinWorkers(n), pond.Context(ctx))
	defer pool.StopAndWait()

	results := make([]BatchResult, len(routes))
	for i, pts := range routes {
		i, pts := i, pts
		pool.Submit(func() {
			res, err := Analyze(pts, cfg)
			results[i] = BatchResult{Index: i, Result: res, Err: err}
		})
	}

	return results
}
