// Package speed implements the advisory speed and lean-angle model:
// a per-curve derived value computed from radius and a configured
// lateral-acceleration budget, gated by severity.
package speed

import (
	"math"

	"github.com/gotidy/ptr"

	core "github.com/mhathiyari/curve-call-sub001"
	"github.com/mhathiyari/curve-call-sub001/segment"
)

const (
	gravityMS2 = 9.81

	moderateKMHGateThreshold = 70.0

	leanCapDeg   = 45.0
	leanRoundDeg = 5.0
)

// Advisory computes v = sqrt(r * g * mu), the advisory speed in m/s,
// from a curve's minimum radius and the configured lateral-g budget.
func Advisory(minRadiusM, lateralG float64) float64 {
	return math.Sqrt(minRadiusM * gravityMS2 * lateralG)
}

// ShouldAttach reports whether an advisory speed belongs on a curve of
// the given severity: always for FIRM/SHARP/HAIRPIN, only below the
// 70 km/h band for MODERATE, never for GENTLE.
func ShouldAttach(severity core.Severity, advisoryKMH float64) bool {
	switch severity {
	case core.SeverityFirm, core.SeveritySharp, core.SeverityHairpin:
		return true
	case core.SeverityModerate:
		return advisoryKMH < moderateKMHGateThreshold
	default:
		return false
	}
}

// LeanAngleDeg computes the motorcycle lean angle from advisory speed
// and radius, rounded to the nearest 5 degrees and capped at 45; a true
// extreme return means the exact angle exceeded the cap, which the
// narration layer tags instead of speaking a number.
func LeanAngleDeg(advisoryMS, radiusM float64) (angleDeg float64, extreme bool) {
	raw := math.Atan((advisoryMS*advisoryMS)/(radiusM*gravityMS2)) * 180 / math.Pi
	if raw > leanCapDeg {
		return leanCapDeg, true
	}
	return math.Round(raw/leanRoundDeg) * leanRoundDeg, false
}

// MSToKMH converts meters per second to kilometers per hour.
func MSToKMH(ms float64) float64 { return ms * 3.6 }

// MSToMPH converts meters per second to miles per hour.
func MSToMPH(ms float64) float64 { return ms * 2.2369362920544 }

// FloorToNearest5 floors v to the nearest lower multiple of 5, the
// display rounding rule for a spoken advisory speed.
func FloorToNearest5(v float64) float64 {
	return math.Floor(v/5) * 5
}

// Attach computes and attaches advisory speed (and, in motorcycle mode,
// lean angle) to every curve in segs that clears the severity gate.
//
// Grounded on the teacher's intensity.go (decode a raw sample, apply a
// scale/offset formula, clamp the result into a display-ready value),
// generalized from "decode one intensity sample" to "derive one curve's
// advisory speed."
func Attach(segs []segment.RouteSegment, cfg core.AnalysisConfig) {
	for _, s := range segs {
		if s.Kind != segment.KindCurve {
			continue
		}
		c := s.Curve

		v := Advisory(c.MinRadiusM, cfg.LateralG)
		if !ShouldAttach(c.Severity, MSToKMH(v)) {
			continue
		}
		c.AdvisorySpeedMS = ptr.Float64(v)

		if cfg.IsMotorcycleMode {
			angle, extreme := LeanAngleDeg(v, c.MinRadiusM)
			c.LeanAngleDeg = ptr.Float64(angle)
			c.LeanExtreme = extreme
		}
	}
}
