package alerts

import (
	"strconv"
	"strings"

	"github.com/regionpulse/regionpulse/server/internal/stats"
)

// evalCondition evaluates a rule condition string against one region's
// aggregates.
//
// Supported expressions (field operator value):
//
//	avg_latency > 180
//	p95_latency > 250
//	avg_uptime < 95
//	breaches > 3
//	samples < 5
//
// Returns (fires bool, triggering value float64).
// Returns (false, 0) if the expression cannot be parsed or the field is unknown.
func evalCondition(cond string, m stats.Metrics, samples int) (bool, float64) {
	parts := strings.Fields(cond)
	if len(parts) != 3 {
		return false, 0
	}
	field, op, rhs := parts[0], parts[1], parts[2]

	threshold, err := strconv.ParseFloat(rhs, 64)
	if err != nil {
		return false, 0
	}

	v, ok := numericField(field, m, samples)
	if !ok {
		return false, 0
	}
	return compareFloat(v, op, threshold), v
}

// numericField maps a field name to its value in the region aggregates.
func numericField(field string, m stats.Metrics, samples int) (float64, bool) {
	switch field {
	case "avg_latency":
		return m.AvgLatency, true
	case "p95_latency":
		return m.P95Latency, true
	case "avg_uptime":
		return m.AvgUptime, true
	case "breaches":
		return float64(m.Breaches), true
	case "samples":
		return float64(samples), true
	default:
		return 0, false
	}
}

// compareFloat applies a comparison operator to two float64 values.
func compareFloat(v float64, op string, threshold float64) bool {
	switch op {
	case ">":
		return v > threshold
	case ">=":
		return v >= threshold
	case "<":
		return v < threshold
	case "<=":
		return v <= threshold
	case "==":
		return v == threshold
	default:
		return false
	}
}
