// Package segment implements the segmenter, classifier, compound
// detector, and data-quality checker: the stages that turn a smoothed
// curvature sequence into the classified, ordered RouteSegment list
// that the rest of the engine consumes.
package segment

import (
	"github.com/mhathiyari/curve-call-sub001/geo"
	core "github.com/mhathiyari/curve-call-sub001"
)

// RawSegment is an analyzer-internal run of points, before
// classification: either all "in curve" or all "straight."
type RawSegment struct {
	StartIndex int
	EndIndex   int
	IsCurve    bool
}

// CurveSegment is a classified curve. Several fields are optional,
// modeled as pointers the way the Valhalla client models optional
// request/response fields (*float64, *int), built via
// github.com/gotidy/ptr in constructors and tests.
type CurveSegment struct {
	Direction  geo.Direction
	Severity   core.Severity
	MinRadiusM float64
	ArcLengthM float64
	Modifiers  core.ModifierSet

	TotalAngleChangeDeg float64
	IsRightAngle        bool

	AdvisorySpeedMS *float64
	LeanAngleDeg    *float64
	LeanExtreme     bool

	CompoundType       core.CompoundType
	CompoundSize       *int
	PositionInCompound *int

	Confidence float64

	StartIndex int
	EndIndex   int
	StartPoint geo.Point
	EndPoint   geo.Point

	DistanceFromStartM float64
}

// StraightSegment is a run of points whose smoothed radius is at or
// above the curvature threshold.
type StraightSegment struct {
	LengthM    float64
	StartIndex int
	EndIndex   int
	StartPoint geo.Point
	EndPoint   geo.Point

	DistanceFromStartM float64
}

// Kind discriminates a RouteSegment's tagged union.
type Kind uint8

const (
	KindCurve Kind = iota
	KindStraight
)

// RouteSegment is the tagged union of CurveSegment / StraightSegment,
// ordered along the route, contiguous with no index gaps. Consumption
// sites switch on Kind exhaustively rather than relying on a type
// hierarchy, per the "sum-typed route segment" design note.
type RouteSegment struct {
	Kind     Kind
	Curve    *CurveSegment
	Straight *StraightSegment
}

// StartIndex returns the segment's first interpolated-polyline index.
func (s RouteSegment) StartIndex() int {
	if s.Kind == KindCurve {
		return s.Curve.StartIndex
	}
	return s.Straight.StartIndex
}

// EndIndex returns the segment's last interpolated-polyline index.
func (s RouteSegment) EndIndex() int {
	if s.Kind == KindCurve {
		return s.Curve.EndIndex
	}
	return s.Straight.EndIndex
}

// DistanceFromStartM returns the along-route distance to this
// segment's start.
func (s RouteSegment) DistanceFromStartM() float64 {
	if s.Kind == KindCurve {
		return s.Curve.DistanceFromStartM
	}
	return s.Straight.DistanceFromStartM
}

// LengthM returns the segment's along-path length.
func (s RouteSegment) LengthM() float64 {
	if s.Kind == KindCurve {
		return s.Curve.ArcLengthM
	}
	return s.Straight.LengthM
}

// CurveFromRaw builds a RouteSegment wrapping a curve.
func CurveFromRaw(c *CurveSegment) RouteSegment {
	return RouteSegment{Kind: KindCurve, Curve: c}
}

// StraightFromRaw builds a RouteSegment wrapping a straight.
func StraightFromRaw(s *StraightSegment) RouteSegment {
	return RouteSegment{Kind: KindStraight, Straight: s}
}
