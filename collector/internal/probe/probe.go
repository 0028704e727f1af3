package probe

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/regionpulse/regionpulse/collector/internal/config"
)

const defaultProbeTimeout = 10 * time.Second

// Metric names read from a blackbox-exporter style probe endpoint.
const (
	// 1 when the probe reached the target, 0 when it did not.
	probeSuccess = "probe_success"

	// Total probe duration in seconds.
	probeDuration = "probe_duration_seconds"
)

// Result is the outcome of probing one regional endpoint.
type Result struct {
	Region string

	// OK reports whether the target was reachable and returned a latency.
	// A false OK with a nil Err means the exporter answered but the target
	// itself was down.
	OK        bool
	LatencyMS float64

	// Err is non-nil when the probe endpoint could not be fetched or parsed.
	Err error
}

// Prober polls one regional probe endpoint and extracts latency from its
// metrics exposition.
type Prober struct {
	target config.Target
	client *http.Client
}

// New builds a Prober for the given target. The HTTP client is built once
// and reused across probe calls.
func New(tgt config.Target) *Prober {
	return &Prober{target: tgt, client: buildHTTPClient(tgt)}
}

// Region returns the region this prober reports samples under.
func (p *Prober) Region() string {
	return p.target.Region
}

// Probe fetches the target's metrics endpoint and derives the probe outcome.
// Fetch and parse failures surface in Result.Err rather than as a returned
// error, so one unreachable region never stops a collection cycle.
func (p *Prober) Probe(ctx context.Context) Result {
	res := Result{Region: p.target.Region}

	mfs, err := fetchMetrics(ctx, p.client, p.target.Endpoint)
	if err != nil {
		res.Err = fmt.Errorf("probe %q: %w", p.target.Region, err)
		slog.Warn("probe: fetch failed", "region", p.target.Region, "err", err)
		return res
	}

	if sumFamily(mfs[probeSuccess]) < 1 {
		// Exporter answered but reports the target down.
		return res
	}

	dur, ok := mfs[probeDuration]
	if !ok {
		res.Err = fmt.Errorf("probe %q: %s missing from exposition", p.target.Region, probeDuration)
		return res
	}

	res.OK = true
	res.LatencyMS = sumFamily(dur) * 1000
	return res
}

// authRoundTripper injects authentication headers into every outgoing request.
type authRoundTripper struct {
	base http.RoundTripper
	tgt  config.Target
}

func (t *authRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	switch t.tgt.Auth.Mode {
	case "apikey":
		req = req.Clone(req.Context())
		req.Header.Set(t.tgt.Auth.EffectiveHeader(), t.tgt.Auth.Key())
	case "bearer":
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+t.tgt.Auth.Token())
	case "basic":
		req = req.Clone(req.Context())
		req.SetBasicAuth(t.tgt.Auth.Username, t.tgt.Auth.Password())
	}
	return t.base.RoundTrip(req)
}

// buildHTTPClient constructs an http.Client for the target's auth and TLS settings.
func buildHTTPClient(tgt config.Target) *http.Client {
	tlsCfg := &tls.Config{
		InsecureSkipVerify: tgt.TLS.InsecureSkipVerify, //nolint:gosec // user-configured
	}
	transport := &authRoundTripper{
		base: &http.Transport{TLSClientConfig: tlsCfg},
		tgt:  tgt,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   defaultProbeTimeout,
	}
}

// fetchMetrics performs an HTTP GET to url and returns parsed metric families.
func fetchMetrics(ctx context.Context, client *http.Client, url string) (map[string]*dto.MetricFamily, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", string(expfmt.NewFormat(expfmt.TypeTextPlain)))

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return parseMetrics(resp.Body)
}

// parseMetrics decodes a Prometheus text exposition from r into metric families.
// A partial result with a non-fatal parse warning is still returned successfully.
func parseMetrics(r io.Reader) (map[string]*dto.MetricFamily, error) {
	var parser expfmt.TextParser
	mfs, err := parser.TextToMetricFamilies(r)
	if err != nil && len(mfs) == 0 {
		return nil, fmt.Errorf("parse prometheus text: %w", err)
	}
	return mfs, nil
}

// sumFamily adds up all counter, gauge, or untyped values in a MetricFamily.
// Returns 0 if mf is nil (metric not present in the exposition).
func sumFamily(mf *dto.MetricFamily) float64 {
	if mf == nil {
		return 0
	}
	var total float64
	for _, m := range mf.GetMetric() {
		switch {
		case m.Counter != nil:
			total += m.Counter.GetValue()
		case m.Gauge != nil:
			total += m.Gauge.GetValue()
		case m.Untyped != nil:
			total += m.Untyped.GetValue()
		}
	}
	return total
}
