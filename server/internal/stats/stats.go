package stats

import (
	"fmt"
	"math"
	"sort"

	"github.com/regionpulse/regionpulse/pkg/types"
	"github.com/regionpulse/regionpulse/server/internal/dataset"
)

// Metrics is the aggregate view of one region's samples at a given breach
// threshold. Latency and uptime figures are rounded to two decimals.
type Metrics struct {
	AvgLatency float64 `json:"avg_latency"`
	P95Latency float64 `json:"p95_latency"`
	AvgUptime  float64 `json:"avg_uptime"`
	Breaches   int     `json:"breaches"`
}

// NotFoundError reports a requested region that does not exist in the
// dataset. Available lists the regions that do, sorted.
type NotFoundError struct {
	Region    string
	Available []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("region %q not found", e.Region)
}

// Compute aggregates each requested region at thresholdMS. Duplicate names
// collapse onto a single key and an empty request yields an empty map. The
// first region missing from the dataset aborts the whole computation with a
// *NotFoundError; partial results are never returned.
func Compute(ds *dataset.Dataset, regions []string, thresholdMS float64) (map[string]Metrics, error) {
	out := make(map[string]Metrics, len(regions))
	for _, region := range regions {
		if _, done := out[region]; done {
			continue
		}
		samples, ok := ds.Samples(region)
		if !ok {
			return nil, &NotFoundError{Region: region, Available: ds.Regions()}
		}
		out[region] = Summarize(samples, thresholdMS)
	}
	return out, nil
}

// Summarize aggregates one region's samples. A sample breaches when its
// latency strictly exceeds thresholdMS; a sample exactly at the threshold
// does not count. No samples yields the zero Metrics.
func Summarize(samples []types.Sample, thresholdMS float64) Metrics {
	if len(samples) == 0 {
		return Metrics{}
	}

	latencies := make([]float64, 0, len(samples))
	var latSum, upSum float64
	breaches := 0
	for _, s := range samples {
		latencies = append(latencies, s.LatencyMS)
		latSum += s.LatencyMS
		upSum += s.UptimePct
		if s.LatencyMS > thresholdMS {
			breaches++
		}
	}

	n := float64(len(samples))
	return Metrics{
		AvgLatency: round2(latSum / n),
		P95Latency: round2(Percentile(latencies, 95)),
		AvgUptime:  round2(upSum / n),
		Breaches:   breaches,
	}
}

// Percentile returns the p-th percentile (0-100) of values using linear
// interpolation between the closest order statistics, the same method
// numpy's default interpolation uses. The input is copied and sorted; an
// empty slice yields 0.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	pos := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	weight := pos - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
