// Package corider implements an offline route-curvature analysis and
// real-time narration engine for a co-driver application: given an
// ordered polyline it classifies curve/straight segments with severity
// and advisory data, and at runtime turns a stream of GPS fixes into
// speech-ready narration events timed from vehicle speed and a braking
// model.
//
// The cross-cutting sum types and configuration records used by every
// sub-package live here, per the "configuration as explicit records,
// no implicit globals" design note: callers build an AnalysisConfig or
// NarrationConfig and pass it in, nothing is read from a global.
package corider

// Severity is the ordered curve-severity tag. Its declaration order is
// its comparison order: GENTLE < MODERATE < FIRM < SHARP < HAIRPIN.
// Preemption in the narration scheduler relies on this ordering.
type Severity uint8

const (
	SeverityGentle Severity = iota
	SeverityModerate
	SeverityFirm
	SeveritySharp
	SeverityHairpin
)

func (s Severity) String() string {
	switch s {
	case SeverityGentle:
		return "GENTLE"
	case SeverityModerate:
		return "MODERATE"
	case SeverityFirm:
		return "FIRM"
	case SeveritySharp:
		return "SHARP"
	case SeverityHairpin:
		return "HAIRPIN"
	default:
		return "UNKNOWN"
	}
}

// ClassifySeverity maps a minimum curve radius to a Severity using the
// strict-greater-than thresholds from an AnalysisConfig.
func ClassifySeverity(minRadiusM float64, th SeverityThresholds) Severity {
	switch {
	case minRadiusM > th.GentleM:
		return SeverityGentle
	case minRadiusM > th.ModerateM:
		return SeverityModerate
	case minRadiusM > th.FirmM:
		return SeverityFirm
	case minRadiusM > th.SharpM:
		return SeveritySharp
	default:
		return SeverityHairpin
	}
}

// Modifier is one bit of a curve-modifier set. TIGHTENING and OPENING
// are mutually exclusive; HOLDS requires LONG and the absence of both.
type Modifier uint8

const (
	ModifierTightening Modifier = 1 << iota
	ModifierOpening
	ModifierHolds
	ModifierLong
)

// ModifierSet is a bitset of Modifier values.
type ModifierSet uint8

// Has reports whether m is present in the set.
func (s ModifierSet) Has(m Modifier) bool { return s&ModifierSet(m) != 0 }

// With returns a copy of s with m added.
func (s ModifierSet) With(m Modifier) ModifierSet { return s | ModifierSet(m) }

func (s ModifierSet) String() string {
	var out string
	add := func(name string) {
		if out != "" {
			out += "|"
		}
		out += name
	}
	if s.Has(ModifierTightening) {
		add("TIGHTENING")
	}
	if s.Has(ModifierOpening) {
		add("OPENING")
	}
	if s.Has(ModifierHolds) {
		add("HOLDS")
	}
	if s.Has(ModifierLong) {
		add("LONG")
	}
	if out == "" {
		return "NONE"
	}
	return out
}

// CompoundType names a pattern spanning two or more adjacent curves.
type CompoundType uint8

const (
	CompoundNone CompoundType = iota
	CompoundSBend
	CompoundChicane
	CompoundSeries
	CompoundTighteningSequence
	CompoundSwitchbacks
)

func (c CompoundType) String() string {
	switch c {
	case CompoundSBend:
		return "S_BEND"
	case CompoundChicane:
		return "CHICANE"
	case CompoundSeries:
		return "SERIES"
	case CompoundTighteningSequence:
		return "TIGHTENING_SEQUENCE"
	case CompoundSwitchbacks:
		return "SWITCHBACKS"
	default:
		return "NONE"
	}
}

// Mode distinguishes car and motorcycle narration/physics context.
type Mode uint8

const (
	ModeCar Mode = iota
	ModeMotorcycle
)

// Verbosity controls how much narration detail is spoken.
type Verbosity uint8

const (
	VerbosityMinimal Verbosity = 1 + iota
	VerbosityStandard
	VerbosityDetailed
)

// Units is the display unit for speed.
type Units uint8

const (
	UnitsMPH Units = iota
	UnitsKMH
)

// NarrationKind tags the purpose of a narration event.
type NarrationKind uint8

const (
	NarrationKindCurve NarrationKind = iota
	NarrationKindStraight
	NarrationKindSparseWarning
	NarrationKindOffRoute
	NarrationKindBackOnRoute
	NarrationKindSystem
)
