package sink

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/regionpulse/regionpulse/pkg/types"
)

func datasetPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "telemetry.json")
}

func readBack(t *testing.T, path string) []types.Sample {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read dataset: %v", err)
	}
	var samples []types.Sample
	if err := json.Unmarshal(data, &samples); err != nil {
		t.Fatalf("decode dataset: %v (content: %s)", err, data)
	}
	return samples
}

func TestAppend_CreatesFile(t *testing.T) {
	path := datasetPath(t)
	batch := []types.Sample{
		{Region: "emea", LatencyMS: 100, UptimePct: 99},
		{Region: "apac", LatencyMS: 250, UptimePct: 98},
	}
	if err := Append(path, batch, 1000); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	got := readBack(t, path)
	if len(got) != 2 {
		t.Fatalf("samples: got %d, want 2", len(got))
	}
	if got[0].Region != "emea" || got[0].LatencyMS != 100 {
		t.Errorf("samples[0]: got %+v", got[0])
	}
}

func TestAppend_MergesWithExisting(t *testing.T) {
	path := datasetPath(t)
	first := []types.Sample{{Region: "emea", LatencyMS: 100, UptimePct: 99}}
	second := []types.Sample{{Region: "emea", LatencyMS: 200, UptimePct: 98}}

	if err := Append(path, first, 1000); err != nil {
		t.Fatalf("first Append() error = %v", err)
	}
	if err := Append(path, second, 1000); err != nil {
		t.Fatalf("second Append() error = %v", err)
	}

	got := readBack(t, path)
	if len(got) != 2 {
		t.Fatalf("samples: got %d, want 2", len(got))
	}
	// Existing samples stay in front of new ones.
	if got[0].LatencyMS != 100 || got[1].LatencyMS != 200 {
		t.Errorf("order: got latencies %v, %v", got[0].LatencyMS, got[1].LatencyMS)
	}
}

func TestAppend_TrimsOldestPerRegion(t *testing.T) {
	path := datasetPath(t)
	batch := []types.Sample{
		{Region: "emea", LatencyMS: 1, UptimePct: 99},
		{Region: "emea", LatencyMS: 2, UptimePct: 99},
		{Region: "apac", LatencyMS: 50, UptimePct: 98},
		{Region: "emea", LatencyMS: 3, UptimePct: 99},
	}
	if err := Append(path, batch, 2); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	got := readBack(t, path)
	if len(got) != 3 {
		t.Fatalf("samples: got %d, want 3 (emea trimmed to 2)", len(got))
	}
	// Oldest emea sample (latency 1) was dropped; apac untouched.
	if got[0].Region != "emea" || got[0].LatencyMS != 2 {
		t.Errorf("samples[0]: got %+v, want emea latency 2", got[0])
	}
	if got[1].Region != "apac" {
		t.Errorf("samples[1]: got %+v, want apac", got[1])
	}
	if got[2].LatencyMS != 3 {
		t.Errorf("samples[2]: got %+v, want emea latency 3", got[2])
	}
}

func TestAppend_ZeroMaxDisablesTrimming(t *testing.T) {
	path := datasetPath(t)
	batch := []types.Sample{
		{Region: "emea", LatencyMS: 1, UptimePct: 99},
		{Region: "emea", LatencyMS: 2, UptimePct: 99},
		{Region: "emea", LatencyMS: 3, UptimePct: 99},
	}
	if err := Append(path, batch, 0); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	got := readBack(t, path)
	if len(got) != 3 {
		t.Fatalf("samples: got %d, want all 3 kept", len(got))
	}
}

func TestAppend_RefusesCorruptFile(t *testing.T) {
	path := datasetPath(t)
	corrupt := `{"this is": "not a sample array"`
	if err := os.WriteFile(path, []byte(corrupt), 0o600); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	err := Append(path, []types.Sample{{Region: "emea", LatencyMS: 1, UptimePct: 99}}, 1000)
	if err == nil {
		t.Fatal("Append() should refuse to overwrite an unparseable dataset")
	}

	// The corrupt file must be left untouched for inspection.
	data, _ := os.ReadFile(path)
	if string(data) != corrupt {
		t.Errorf("corrupt file was modified: %s", data)
	}
}

func TestAppend_EmptyBatchWritesArray(t *testing.T) {
	path := datasetPath(t)
	if err := Append(path, nil, 1000); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read dataset: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(string(data)), "[") {
		t.Errorf("empty dataset should still be a JSON array, got: %s", data)
	}
}

func TestAppend_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "telemetry.json")
	if err := Append(path, []types.Sample{{Region: "emea", LatencyMS: 1, UptimePct: 99}}, 1000); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "telemetry.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory entries: got %v, want only telemetry.json", names)
	}
}
