package corider

import "errors"

// Input errors: caller bugs, surfaced at the call site. The analyzer
// produces no partial output when one of these fires.
var (
	ErrRouteTooShort = errors.New("route too short")
	ErrInvalidPoint  = errors.New("invalid point")
	ErrInvalidConfig = errors.New("invalid config")
)

// Runtime signals: reported by external collaborators (GPS source,
// speech sink) rather than returned from a call, per the "no
// exceptions for control flow" design note. The scheduler treats these
// as messages, not Go errors, but they are declared here so host code
// and tests can refer to them uniformly.
var (
	ErrGPSTimeout   = errors.New("gps timeout")
	ErrSinkFailure  = errors.New("speech sink failure")
)
