package api

import (
	"github.com/regionpulse/regionpulse/pkg/types"
	"github.com/regionpulse/regionpulse/server/internal/stats"
)

// MessageResponse is the payload for GET /.
type MessageResponse struct {
	Msg string `json:"msg"`
}

// LatencyRequest is the body of POST /api/latency. Both fields are required;
// the pointer and the nil check on the slice distinguish an absent field
// from an empty one.
type LatencyRequest struct {
	Regions     []string `json:"regions"`
	ThresholdMS *float64 `json:"threshold_ms"`
}

// SampleRequest is the body of POST /api/latency/test.
type SampleRequest struct {
	ID *int `json:"id"`
}

// RecordResponse is the payload for POST /api/latency/test.
type RecordResponse struct {
	Records types.Sample `json:"records"`
}

// RegionInfo is one region entry in GET /api/regions.
type RegionInfo struct {
	Name    string `json:"name"`
	Samples int    `json:"samples"`
}

// RegionsResponse is the payload for GET /api/regions.
type RegionsResponse struct {
	Regions      []RegionInfo `json:"regions"`
	TotalSamples int          `json:"total_samples"`
}

// RegionDetailResponse is the payload for GET /api/regions/{name}.
type RegionDetailResponse struct {
	Name        string           `json:"name"`
	Samples     int              `json:"samples"`
	ThresholdMS float64          `json:"threshold_ms"`
	Metrics     stats.Metrics    `json:"metrics"`
	Diagnostics []DiagnosticHint `json:"diagnostics"`
}

// HealthResponse is the payload for GET /api/health.
type HealthResponse struct {
	Status         string `json:"status"`
	Regions        int    `json:"regions"`
	Samples        int    `json:"samples"`
	SkippedRecords int    `json:"skipped_records"`
	LoadedAt       string `json:"loaded_at"` // RFC3339
}

// errorResponse is a generic JSON error body. AvailableRegions is filled on
// unknown-region errors so callers can discover valid names.
type errorResponse struct {
	Error            string   `json:"error"`
	AvailableRegions []string `json:"available_regions,omitempty"`
}
