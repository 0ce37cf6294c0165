// Package narration implements the phrase grammar, trigger-distance
// timing calculator, and the online scheduler that turns a GPS stream
// into a spoken narration stream.
package narration

import (
	"fmt"
	"math"
	"strings"

	core "github.com/mhathiyari/curve-call-sub001"
	"github.com/mhathiyari/curve-call-sub001/geo"
	"github.com/mhathiyari/curve-call-sub001/segment"
	"github.com/mhathiyari/curve-call-sub001/speed"
)

const lowConfidenceThreshold = 0.5

// CurvePhrase composes the spoken phrase for a classified curve in the
// fixed slot order: [PREFIX]? [DIRECTION-SEVERITY] [MODIFIERS]?
// [COMPOUND]? [ADVISORY]? [LEAN]?, with a low-confidence suffix always
// appended last.
//
// Grounded directly on spec.md's phrase grammar; there is no teacher
// analog for natural-language generation, so this composes with plain
// strings.Builder rather than reaching for a templating library the
// examples never import.
func CurvePhrase(c *segment.CurveSegment, cfg core.NarrationConfig) string {
	var b strings.Builder

	prefixed := cfg.Mode == core.ModeMotorcycle && c.Modifiers.Has(core.ModifierTightening)
	if prefixed {
		b.WriteString("Caution, ")
	}

	switch {
	case c.IsRightAngle:
		b.WriteString(directionWord(c.Direction) + " ninety degree turn")
	case c.Severity == core.SeverityGentle && cfg.Verbosity == core.VerbosityMinimal:
		// Dropped per the DIRECTION-SEVERITY rule. In practice the
		// scheduler never requests a phrase for a GENTLE curve at
		// MINIMAL, so this rarely combines with non-empty modifier or
		// compound text below.
	default:
		b.WriteString(severityWord(c.Severity) + " " + directionWord(c.Direction))
	}

	if cfg.Verbosity >= core.VerbosityStandard {
		switch {
		case c.Modifiers.Has(core.ModifierTightening):
			b.WriteString(", tightening")
		case c.Modifiers.Has(core.ModifierOpening):
			b.WriteString(", opening")
		}
		if cfg.Verbosity >= core.VerbosityDetailed && c.Modifiers.Has(core.ModifierHolds) {
			fmt.Fprintf(&b, " holds for %v meters", roundTo10(c.ArcLengthM))
		}
	}

	b.WriteString(compoundSuffix(c, cfg.Verbosity))

	if c.AdvisorySpeedMS != nil {
		fmt.Fprintf(&b, ", slow to %v %s", displaySpeed(*c.AdvisorySpeedMS, cfg.Units), unitsWord(cfg.Units))
	}

	if cfg.Mode == core.ModeMotorcycle && cfg.NarrateLeanAngle && c.AdvisorySpeedMS != nil && c.LeanAngleDeg != nil {
		if c.LeanExtreme {
			b.WriteString(", extreme lean")
		} else {
			fmt.Fprintf(&b, ", lean %v degrees", int(*c.LeanAngleDeg))
		}
	}

	if c.Confidence < lowConfidenceThreshold {
		b.WriteString(", low data quality")
	}

	return capitalize(b.String())
}

// StraightPhrase composes the spoken phrase for a straight run. The
// caller is responsible for the DETAILED + narrate_straights gate;
// this function only formats.
func StraightPhrase(s *segment.StraightSegment) string {
	return fmt.Sprintf("Straight, %v meters", roundTo10(s.LengthM))
}

func compoundSuffix(c *segment.CurveSegment, v core.Verbosity) string {
	switch c.CompoundType {
	case core.CompoundSBend:
		if v == core.VerbosityMinimal {
			return ""
		}
		return ", S-bend"
	case core.CompoundChicane:
		return ", chicane"
	case core.CompoundSeries:
		if v == core.VerbosityMinimal {
			return ""
		}
		return fmt.Sprintf(", series of %d curves", *c.CompoundSize)
	case core.CompoundSwitchbacks:
		return fmt.Sprintf(", switchback %d/%d", *c.PositionInCompound, *c.CompoundSize)
	case core.CompoundTighteningSequence:
		if v == core.VerbosityMinimal {
			return ""
		}
		return ", tightening sequence"
	default:
		return ""
	}
}

func directionWord(d geo.Direction) string {
	switch d {
	case geo.DirectionLeft:
		return "left"
	case geo.DirectionRight:
		return "right"
	default:
		return "ahead"
	}
}

func severityWord(sev core.Severity) string {
	switch sev {
	case core.SeverityGentle:
		return "gentle"
	case core.SeverityModerate:
		return "moderate"
	case core.SeverityFirm:
		return "firm"
	case core.SeveritySharp:
		return "sharp"
	default:
		return "hairpin"
	}
}

func unitsWord(u core.Units) string {
	if u == core.UnitsMPH {
		return "mph"
	}
	return "km/h"
}

func displaySpeed(advisoryMS float64, u core.Units) float64 {
	if u == core.UnitsMPH {
		return speed.FloorToNearest5(speed.MSToMPH(advisoryMS))
	}
	return speed.FloorToNearest5(speed.MSToKMH(advisoryMS))
}

func roundTo10(v float64) float64 {
	return math.Round(v/10) * 10
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
