package domain

// ReachabilityStatus is the transient per-service probe state.
// It is never persisted; each probe instance moves checking -> active
// or checking -> inactive and stays there.
type ReachabilityStatus string

const (
	StatusChecking ReachabilityStatus = "checking"
	StatusActive   ReachabilityStatus = "active"
	StatusInactive ReachabilityStatus = "inactive"
)

// Settled reports whether the probe reached a terminal state.
func (s ReachabilityStatus) Settled() bool {
	return s == StatusActive || s == StatusInactive
}

// PingResult is the outcome of a reachability probe.
// ResponseTime is in milliseconds and optional (zero when the API does
// not report it).
type PingResult struct {
	Reachable    bool    `json:"reachable"`
	ResponseTime float64 `json:"response_time,omitempty"`
}
