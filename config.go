package corider

import "fmt"

// SeverityThresholds are the strict-greater-than minimum-radius cutoffs
// (in meters) used by ClassifySeverity.
type SeverityThresholds struct {
	GentleM   float64
	ModerateM float64
	FirmM     float64
	SharpM    float64
}

// DefaultSeverityThresholds returns the thresholds from spec.md §3:
// gentle=200, moderate=100, firm=50, sharp=25.
func DefaultSeverityThresholds() SeverityThresholds {
	return SeverityThresholds{GentleM: 200, ModerateM: 100, FirmM: 50, SharpM: 25}
}

// AnalysisConfig holds every tunable the offline geometry pipeline
// needs. There are no implicit globals; every stage takes this struct
// explicitly.
type AnalysisConfig struct {
	// CurvatureThresholdM is the smoothed-radius cutoff below which a
	// point is considered "in a curve." Default 500.
	CurvatureThresholdM float64

	// StraightGapMergeM is the maximum along-path length of a straight
	// run, flanked by curves on both sides, that gets merged away.
	// Default 50. Also used as the S-bend/chicane/series/tightening-
	// sequence gap threshold in the compound detector.
	StraightGapMergeM float64

	// SeverityThresholds classifies min-radius into a Severity.
	SeverityThresholds SeverityThresholds

	// SparseNodeThresholdM is the original-polyline point-to-point
	// distance above which a gap is a candidate sparse region. Default 100.
	SparseNodeThresholdM float64

	// LateralG is the lateral-acceleration budget (as a fraction of g)
	// used by the speed advisor.
	LateralG float64

	// IsMotorcycleMode switches the speed/lean advisory bands and
	// enables lean-angle computation.
	IsMotorcycleMode bool

	// SmoothingWindow is the (odd) centered rolling-mean window size for
	// the curvature pipeline. Default 7.
	SmoothingWindow int

	// ResampleSpacingM is the uniform spacing used by the resampler.
	// Default 10.
	ResampleSpacingM float64
}

// DefaultAnalysisConfig returns the car-mode defaults from spec.md §3.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		CurvatureThresholdM:   500,
		StraightGapMergeM:     50,
		SeverityThresholds:    DefaultSeverityThresholds(),
		SparseNodeThresholdM:  100,
		LateralG:              0.35,
		IsMotorcycleMode:      false,
		SmoothingWindow:       7,
		ResampleSpacingM:      10,
	}
}

// Validate returns ErrInvalidConfig-wrapped detail if cfg has any
// non-positive threshold, an impossible severity ordering, or an even
// smoothing window.
func (cfg AnalysisConfig) Validate() error {
	if cfg.CurvatureThresholdM <= 0 {
		return fmt.Errorf("%w: curvature threshold must be positive, got %v", ErrInvalidConfig, cfg.CurvatureThresholdM)
	}
	if cfg.StraightGapMergeM <= 0 {
		return fmt.Errorf("%w: straight gap merge distance must be positive, got %v", ErrInvalidConfig, cfg.StraightGapMergeM)
	}
	if cfg.SparseNodeThresholdM <= 0 {
		return fmt.Errorf("%w: sparse node threshold must be positive, got %v", ErrInvalidConfig, cfg.SparseNodeThresholdM)
	}
	if cfg.LateralG <= 0 {
		return fmt.Errorf("%w: lateral g budget must be positive, got %v", ErrInvalidConfig, cfg.LateralG)
	}
	if cfg.SmoothingWindow <= 0 || cfg.SmoothingWindow%2 == 0 {
		return fmt.Errorf("%w: smoothing window must be a positive odd number, got %v", ErrInvalidConfig, cfg.SmoothingWindow)
	}
	if cfg.ResampleSpacingM <= 0 {
		return fmt.Errorf("%w: resample spacing must be positive, got %v", ErrInvalidConfig, cfg.ResampleSpacingM)
	}

	th := cfg.SeverityThresholds
	if !(th.GentleM > th.ModerateM && th.ModerateM > th.FirmM && th.FirmM > th.SharpM && th.SharpM > 0) {
		return fmt.Errorf("%w: severity thresholds must satisfy gentle > moderate > firm > sharp > 0, got %+v", ErrInvalidConfig, th)
	}

	return nil
}

// TimingProfile is the user-configurable lookahead window used by the
// trigger-distance calculator, 5-15 seconds per spec.md §4.13.
type TimingProfile struct {
	LookaheadSeconds float64
}

// DefaultTimingProfile returns a 10 second lookahead, the midpoint of
// the configurable 5-15s range.
func DefaultTimingProfile() TimingProfile {
	return TimingProfile{LookaheadSeconds: 10}
}

// carDecelerationMS2 and motorcycleDecelerationMS2 are the mode-default
// braking decelerations from spec.md §3.
const (
	carDecelerationMS2        = 4.0
	motorcycleDecelerationMS2 = 3.0
)

// NarrationConfig holds every tunable the online scheduler and phrase
// grammar need.
type NarrationConfig struct {
	Mode      Mode
	Verbosity Verbosity
	Units     Units

	TimingProfile TimingProfile

	NarrateStraights  bool
	NarrateLeanAngle  bool
	NarrateSurface    bool

	// MinAnnouncementDistanceM is the floor trigger distance. Default 100.
	MinAnnouncementDistanceM float64

	// DecelerationMS2 is the mode deceleration used by the braking-
	// distance term of the trigger-distance calculator. Validate rejects
	// a non-positive value; no default is substituted for zero.
	DecelerationMS2 float64
}

// DefaultNarrationConfig returns the defaults for mode: car and
// motorcycle differ in deceleration and in whether lean angle is narrated.
func DefaultNarrationConfig(mode Mode) NarrationConfig {
	decel := carDecelerationMS2
	if mode == ModeMotorcycle {
		decel = motorcycleDecelerationMS2
	}

	return NarrationConfig{
		Mode:                     mode,
		Verbosity:                VerbosityStandard,
		Units:                    UnitsKMH,
		TimingProfile:            DefaultTimingProfile(),
		NarrateStraights:         false,
		NarrateLeanAngle:         mode == ModeMotorcycle,
		NarrateSurface:           false,
		MinAnnouncementDistanceM: 100,
		DecelerationMS2:          decel,
	}
}

// Validate returns ErrInvalidConfig-wrapped detail for a lookahead
// outside [5, 15] seconds, or a non-positive deceleration or
// announcement distance.
func (cfg NarrationConfig) Validate() error {
	if cfg.TimingProfile.LookaheadSeconds < 5 || cfg.TimingProfile.LookaheadSeconds > 15 {
		return fmt.Errorf("%w: lookahead seconds must be within [5,15], got %v", ErrInvalidConfig, cfg.TimingProfile.LookaheadSeconds)
	}
	if cfg.MinAnnouncementDistanceM <= 0 {
		return fmt.Errorf("%w: min announcement distance must be positive, got %v", ErrInvalidConfig, cfg.MinAnnouncementDistanceM)
	}
	if cfg.DecelerationMS2 <= 0 {
		return fmt.Errorf("%w: deceleration must be positive, got %v", ErrInvalidConfig, cfg.DecelerationMS2)
	}
	return nil
}
