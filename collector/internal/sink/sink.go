package sink

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/regionpulse/regionpulse/pkg/types"
)

// Append merges batch into the JSON dataset at path and writes the result
// back atomically (temp file in the same directory, then rename), so a
// server watching the file never observes a partial write.
//
// The existing file is decoded strictly: if it cannot be parsed as a sample
// array, Append returns an error instead of overwriting data it does not
// understand. Each region keeps at most maxPerRegion samples, oldest first
// to go; maxPerRegion <= 0 disables trimming.
func Append(path string, batch []types.Sample, maxPerRegion int) error {
	existing, err := readExisting(path)
	if err != nil {
		return err
	}

	merged := append(existing, batch...)
	merged = trim(merged, maxPerRegion)
	if merged == nil {
		merged = []types.Sample{}
	}

	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return fmt.Errorf("sink: encode dataset: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("sink: create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("sink: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("sink: close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("sink: replace dataset: %w", err)
	}
	return nil
}

// readExisting loads the current dataset file. A missing file is an empty
// dataset, not an error.
func readExisting(path string) ([]types.Sample, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sink: read dataset: %w", err)
	}

	var samples []types.Sample
	if err := json.Unmarshal(data, &samples); err != nil {
		return nil, fmt.Errorf("sink: dataset %s is not a sample array, refusing to overwrite: %w", path, err)
	}
	return samples, nil
}

// trim drops the oldest samples of any region holding more than max,
// preserving the relative order of what remains.
func trim(samples []types.Sample, max int) []types.Sample {
	if max <= 0 {
		return samples
	}

	counts := make(map[string]int)
	for _, s := range samples {
		counts[s.Region]++
	}

	drop := make(map[string]int)
	for region, n := range counts {
		if n > max {
			drop[region] = n - max
		}
	}
	if len(drop) == 0 {
		return samples
	}

	out := make([]types.Sample, 0, len(samples))
	for _, s := range samples {
		if drop[s.Region] > 0 {
			drop[s.Region]--
			continue
		}
		out = append(out, s)
	}
	return out
}
