package api

import (
	"fmt"

	"github.com/regionpulse/regionpulse/server/internal/stats"
)

// DiagnosticHint is one human-readable insight about a region's latency
// profile. Dashboards display these as chips on the region card; Detail
// carries the full plain-English explanation shown on click.
type DiagnosticHint struct {
	// Key is a stable machine-readable identifier (used for dedup/ordering).
	Key string `json:"key"`
	// Level is "ok" | "info" | "warning" | "critical"
	Level string `json:"level"`
	// Title is a short label shown on the chip.
	Title string `json:"title"`
	// Detail is the full explanation shown on click/hover.
	Detail string `json:"detail"`
	// Value is an optional numeric value associated with this hint.
	Value *float64 `json:"value,omitempty"`
}

// computeDiagnostics derives diagnostic hints for one region from its
// aggregates, with breaches counted at thresholdMS.
func computeDiagnostics(m stats.Metrics, samples int, thresholdMS float64) []DiagnosticHint {
	var hints []DiagnosticHint

	// ── Breach ratio ─────────────────────────────────────────────────────────
	// Below 10% the breaches are treated as tail noise and no hint is shown.
	if pct := breachPct(m.Breaches, samples); pct >= 10 {
		v := pct
		var level string
		switch {
		case pct >= 50:
			level = "critical"
		case pct >= 25:
			level = "warning"
		default:
			level = "info"
		}
		detail := fmt.Sprintf(
			"%d of %d samples (%.1f%%) exceed the %.0f ms threshold. "+
				"A handful of breaches is usually tail noise; a large share means the "+
				"region is systematically slower than the budget allows. "+
				"Compare avg_latency against the threshold to tell the two apart.",
			m.Breaches, samples, pct, thresholdMS,
		)
		hints = append(hints, DiagnosticHint{
			Key:    "breach_ratio",
			Level:  level,
			Title:  fmt.Sprintf("%.0f%% over threshold", pct),
			Detail: detail,
			Value:  &v,
		})
	}

	// ── Tail skew ────────────────────────────────────────────────────────────
	if m.AvgLatency > 0 && m.P95Latency > 3*m.AvgLatency {
		v := m.P95Latency
		detail := fmt.Sprintf(
			"The 95th percentile (%.0f ms) is more than three times the average "+
				"(%.0f ms). Most requests are fine but a slow tail is dragging the "+
				"worst cases far out. Typical causes: cold caches, retries against a "+
				"struggling dependency, or a single slow availability zone behind the "+
				"regional endpoint.",
			m.P95Latency, m.AvgLatency,
		)
		hints = append(hints, DiagnosticHint{
			Key:    "tail_skew",
			Level:  "warning",
			Title:  "Long tail",
			Detail: detail,
			Value:  &v,
		})
	}

	// ── Uptime ───────────────────────────────────────────────────────────────
	if samples > 0 && m.AvgUptime < 99 {
		v := m.AvgUptime
		level := "warning"
		if m.AvgUptime < 95 {
			level = "critical"
		}
		detail := fmt.Sprintf(
			"Average reported uptime for this region is %.2f%%. "+
				"Below 99%% the region has been failing probes regularly, not just "+
				"during a single blip. Check the collector logs for failed probes and "+
				"the region's endpoint for restarts or network trouble.",
			m.AvgUptime,
		)
		hints = append(hints, DiagnosticHint{
			Key:    "weak_uptime",
			Level:  level,
			Title:  fmt.Sprintf("%.1f%% uptime", m.AvgUptime),
			Detail: detail,
			Value:  &v,
		})
	}

	// ── Sample size ──────────────────────────────────────────────────────────
	if samples > 0 && samples < 5 {
		v := float64(samples)
		hints = append(hints, DiagnosticHint{
			Key:   "few_samples",
			Level: "info",
			Title: "Few samples",
			Detail: fmt.Sprintf(
				"Only %d samples recorded for this region, so the percentile and "+
					"breach figures are unstable. They will settle once the collector "+
					"has probed a few more cycles.",
				samples,
			),
			Value: &v,
		})
	}

	// ── All clear ────────────────────────────────────────────────────────────
	if len(hints) == 0 {
		v := m.AvgLatency
		hints = append(hints, DiagnosticHint{
			Key:   "healthy",
			Level: "ok",
			Title: "All clear",
			Detail: fmt.Sprintf(
				"No significant breaches against the %.0f ms threshold, uptime is "+
					"solid and the latency tail is close to the average (%.0f ms). "+
					"Nothing to do here.",
				thresholdMS, m.AvgLatency,
			),
			Value: &v,
		})
	}

	return hints
}

func breachPct(breaches, samples int) float64 {
	if samples == 0 {
		return 0
	}
	return float64(breaches) / float64(samples) * 100
}
