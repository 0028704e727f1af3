package dataset

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/regionpulse/regionpulse/pkg/types"
)

// Dataset is one grouping of telemetry samples by region, built from the
// dataset file. It is read-only after construction; accessors return
// internal slices that callers must not modify.
type Dataset struct {
	byRegion map[string][]types.Sample
	flat     []types.Sample
	regions  []string
	skipped  int
	loadedAt time.Time
}

// Load reads a JSON array of samples from path and groups them by region.
// Records that fail to decode or fail types.Sample.Valid are skipped and
// logged; the count is available via Skipped. An unreadable file, a top
// level that is not a JSON array, or a truncated stream fails the whole
// load instead.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("dataset: read %s: %w", path, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, fmt.Errorf("dataset: %s: top-level value must be a JSON array", path)
	}

	var samples []types.Sample
	skipped := 0
	for index := 0; dec.More(); index++ {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("dataset: read %s: %w", path, err)
		}
		var s types.Sample
		if err := json.Unmarshal(raw, &s); err != nil {
			skipped++
			slog.Warn("dataset: skipping malformed record",
				"path", path, "index", index, "err", err)
			continue
		}
		if !s.Valid() {
			skipped++
			slog.Warn("dataset: skipping invalid record",
				"path", path, "index", index, "region", s.Region,
				"latency_ms", s.LatencyMS, "uptime_pct", s.UptimePct)
			continue
		}
		samples = append(samples, s)
	}
	// Consume the closing bracket so a stream cut off after a complete
	// element still fails the load.
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("dataset: read %s: %w", path, err)
	}

	ds := FromSamples(samples)
	ds.skipped = skipped
	return ds, nil
}

// FromSamples groups an in-memory batch of samples into a Dataset. Samples
// keep their original order, both per region and in the flat index used by
// SampleAt.
func FromSamples(samples []types.Sample) *Dataset {
	ds := &Dataset{
		byRegion: make(map[string][]types.Sample),
		flat:     samples,
		loadedAt: time.Now().UTC(),
	}
	for _, s := range samples {
		ds.byRegion[s.Region] = append(ds.byRegion[s.Region], s)
	}
	ds.regions = make([]string, 0, len(ds.byRegion))
	for region := range ds.byRegion {
		ds.regions = append(ds.regions, region)
	}
	sort.Strings(ds.regions)
	return ds
}

// Samples returns the samples recorded for region, in file order, and a
// boolean indicating whether the region exists in the dataset.
func (d *Dataset) Samples(region string) ([]types.Sample, bool) {
	s, ok := d.byRegion[region]
	return s, ok
}

// Regions lists the region names present in the dataset, sorted.
func (d *Dataset) Regions() []string { return d.regions }

// SampleAt returns the sample at flat index i, counting valid records in
// file order across all regions.
func (d *Dataset) SampleAt(i int) (types.Sample, bool) {
	if i < 0 || i >= len(d.flat) {
		return types.Sample{}, false
	}
	return d.flat[i], true
}

// Len is the number of valid samples across all regions.
func (d *Dataset) Len() int { return len(d.flat) }

// Skipped is the number of records the loader rejected.
func (d *Dataset) Skipped() int { return d.skipped }

// LoadedAt is the time the dataset was built.
func (d *Dataset) LoadedAt() time.Time { return d.loadedAt }
