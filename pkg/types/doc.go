// Package types defines shared Go types used by both the collector and
// server. These are the canonical in-memory representations of region
// telemetry records, matching the JSON layout of the dataset file.
package types
