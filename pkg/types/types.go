package types

// Sample is a single telemetry measurement for a region as it appears in
// the dataset file: one latency observation plus the uptime percentage the
// collector reported alongside it.
type Sample struct {
	Region    string  `json:"region"`
	LatencyMS float64 `json:"latency_ms"`
	UptimePct float64 `json:"uptime_pct"`
}

// Valid reports whether the sample can be admitted into a dataset. Region
// must be set, latency cannot be negative and uptime is a percentage on the
// 0-100 scale.
func (s Sample) Valid() bool {
	if s.Region == "" {
		return false
	}
	if s.LatencyMS < 0 {
		return false
	}
	return s.UptimePct >= 0 && s.UptimePct <= 100
}
