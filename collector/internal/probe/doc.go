// Package probe polls regional probe endpoints and extracts latency samples.
//
// Each Prober wraps one configured target and reads its Prometheus text
// exposition, expecting blackbox-exporter style metrics: probe_success tells
// whether the target was reachable, probe_duration_seconds carries the
// round-trip time that becomes the sample's latency_ms.
//
// Authentication (API key, bearer token, basic auth) is handled by the
// authRoundTripper; each Prober carries a pre-configured *http.Client built
// from its target's auth and TLS settings.
package probe
