// Package stats computes per-region latency aggregates from a Dataset:
// mean latency, 95th-percentile latency (linear interpolation between order
// statistics), mean uptime and the breach count against a threshold. All
// functions are pure; results depend only on their arguments.
package stats
