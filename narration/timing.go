package narration

import (
	"math"

	core "github.com/mhathiyari/curve-call-sub001"
)

// TriggerDistance computes the distance-to-segment at which a
// narration event becomes eligible, per spec.md §4.13: the greater of
// a lookahead-time floor and a 1.5x braking-distance margin when the
// vehicle is running faster than the curve's advisory speed.
func TriggerDistance(speedMS float64, advisoryMS *float64, cfg core.NarrationConfig) float64 {
	base := math.Max(speedMS*cfg.TimingProfile.LookaheadSeconds, cfg.MinAnnouncementDistanceM)

	if advisoryMS == nil || speedMS <= *advisoryMS {
		return base
	}

	braking := (speedMS*speedMS - (*advisoryMS)*(*advisoryMS)) / (2 * cfg.DecelerationMS2)
	return math.Max(base, 1.5*braking)
}
