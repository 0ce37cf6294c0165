package geo

import "math"

// CapRadiusM is the cap applied to any radius estimate once it is known
// to be very large (effectively straight); §9 of the spec calls this
// cap out explicitly so downstream smoothing never averages against
// +Inf.
const CapRadiusM = 10_000.0

// Direction is the turn sense of a curve.
type Direction uint8

const (
	// DirectionNone marks an undefined direction (collinear triple).
	DirectionNone Direction = iota
	DirectionLeft
	DirectionRight
)

func (d Direction) String() string {
	switch d {
	case DirectionLeft:
		return "LEFT"
	case DirectionRight:
		return "RIGHT"
	default:
		return "NONE"
	}
}

// MengerRadius returns the circumradius, in meters, of the triangle
// formed by three ordered points, using the local tangent plane around
// p2 as a flat-earth approximation. A degenerate (collinear or
// coincident) triple returns CapRadiusM, standing in for +Inf.
func MengerRadius(p1, p2, p3 Point) float64 {
	x1, y1 := tangentXY(p1, p2)
	x2, y2 := tangentXY(p2, p2)
	x3, y3 := tangentXY(p3, p2)

	a := math.Hypot(x2-x1, y2-y1)
	b := math.Hypot(x3-x2, y3-y2)
	c := math.Hypot(x1-x3, y1-y3)

	// twice the signed area of the triangle
	area2 := (x2-x1)*(y3-y1) - (x3-x1)*(y2-y1)
	if math.Abs(area2) < 1e-9 || a == 0 || b == 0 || c == 0 {
		return CapRadiusM
	}

	r := (a * b * c) / (2 * math.Abs(area2))
	if math.IsInf(r, 1) || math.IsNaN(r) {
		return CapRadiusM
	}
	// Note: large-but-finite radii are intentionally NOT capped here.
	// The curvature pipeline caps at CapRadiusM as its own explicit
	// step, after outlier repair has had a chance to inspect the raw
	// magnitude of near-straight radii.

	return r
}

// MengerDirection returns the turn sense from p1->p2->p3: the sign of
// the z-component of (p2-p1) x (p3-p2) in the local tangent plane.
// Positive -> LEFT, negative -> RIGHT, zero -> DirectionNone.
func MengerDirection(p1, p2, p3 Point) Direction {
	x1, y1 := tangentXY(p1, p2)
	x2, y2 := tangentXY(p2, p2)
	x3, y3 := tangentXY(p3, p2)

	cross := (x2-x1)*(y3-y2) - (y2-y1)*(x3-x2)

	switch {
	case cross > 0:
		return DirectionLeft
	case cross < 0:
		return DirectionRight
	default:
		return DirectionNone
	}
}

// tangentXY projects p into a local equirectangular tangent plane
// centered on the latitude of origin, in meters.
func tangentXY(p, origin Point) (x, y float64) {
	latRad := degToRad(origin.Lat)
	cosLat := math.Cos(latRad)

	x = degToRad(p.Lon) * meanEarthRadiusM * cosLat
	y = degToRad(p.Lat) * meanEarthRadiusM

	return x, y
}
