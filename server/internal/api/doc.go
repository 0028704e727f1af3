// Package api implements the HTTP REST API for regionpulse-server.
//
// New(store, engine, threshold) returns an http.Handler that serves:
//
//	GET  /                  - liveness message
//	POST /api/latency       - per-region aggregates for {regions, threshold_ms}
//	POST /api/latency/test  - raw sample at a flat dataset index {id}
//	GET  /api/regions       - region inventory with sample counts
//	GET  /api/regions/{name}- one region at the default threshold + diagnostics
//	GET  /api/health        - dataset status (regions, samples, skipped, loaded_at)
//	GET  /api/alerts        - firing and recently resolved alerts
//
// All endpoints:
//   - Respond with Content-Type: application/json
//   - Return 405 for wrong methods and {"error": ...} bodies on failure
//   - Carry permissive CORS headers; OPTIONS preflights answer 204
//   - Read the active dataset from the store (swapped wholesale on reload)
//
// JSON types are defined in types.go. No external HTTP framework is used.
package api
