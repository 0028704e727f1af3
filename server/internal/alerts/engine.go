package alerts

import (
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/regionpulse/regionpulse/server/internal/config"
	"github.com/regionpulse/regionpulse/server/internal/dataset"
	"github.com/regionpulse/regionpulse/server/internal/stats"
)

const (
	maxHistoryLen     = 200
	recentWindowHours = 1
)

// Alert represents a single alert event produced by the rule engine.
type Alert struct {
	ID         string     `json:"id"`
	RuleName   string     `json:"rule_name"`
	Region     string     `json:"region"`
	Severity   string     `json:"severity"`
	Message    string     `json:"message"`
	Value      float64    `json:"value"`
	FiredAt    time.Time  `json:"fired_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	State      string     `json:"state"` // "firing" | "resolved"
}

// Engine evaluates alert rules against every region's aggregates each time a
// dataset is installed, and delivers webhook notifications when rules fire
// or resolve.
//
// Engine is safe for concurrent use.
type Engine struct {
	rules       []config.AlertRule
	webhooks    []config.WebhookConfig
	thresholdMS float64

	mu       sync.Mutex
	active   map[string]*Alert    // key: "ruleName:region"
	lastFire map[string]time.Time // last fire time per key (for cooldown)
	history  []*Alert             // recently resolved alerts
	client   *http.Client
	now      func() time.Time // injectable for deterministic tests
}

// New creates an Engine from the server alert configuration. Breach counts
// feeding the rules are computed at thresholdMS. An Engine with empty rules
// is valid; Evaluate becomes a no-op.
func New(cfg config.AlertsConfig, thresholdMS float64) *Engine {
	return &Engine{
		rules:       cfg.Rules,
		webhooks:    cfg.Webhooks,
		thresholdMS: thresholdMS,
		active:      make(map[string]*Alert),
		lastFire:    make(map[string]time.Time),
		client:      &http.Client{Timeout: 10 * time.Second},
		now:         time.Now,
	}
}

// Evaluate tests all configured rules against every region in ds.
// Alerts that fire are stored and webhook delivery is triggered
// asynchronously. Alerts whose condition is now false, or whose region is
// gone from the dataset, are resolved.
func (e *Engine) Evaluate(ds *dataset.Dataset) {
	if len(e.rules) == 0 {
		return
	}

	now := e.now()
	for _, region := range ds.Regions() {
		samples, _ := ds.Samples(region)
		m := stats.Summarize(samples, e.thresholdMS)
		for _, rule := range e.rules {
			e.evalRule(rule, region, m, len(samples), now)
		}
	}
	e.resolveVanished(ds, now)
}

func (e *Engine) evalRule(rule config.AlertRule, region string, m stats.Metrics, samples int, now time.Time) {
	key := rule.Name + ":" + region
	fires, value := evalCondition(rule.Condition, m, samples)

	e.mu.Lock()
	if fires {
		cooldown := rule.Cooldown
		if cooldown <= 0 {
			cooldown = config.DefaultCooldown
		}
		if now.Sub(e.lastFire[key]) <= cooldown {
			e.mu.Unlock()
			return
		}
		sev := rule.Severity
		if sev == "" {
			sev = "warning"
		}
		a := &Alert{
			ID:       fmt.Sprintf("%s:%s:%d", rule.Name, region, now.UnixNano()),
			RuleName: rule.Name,
			Region:   region,
			Severity: sev,
			Value:    value,
			Message: fmt.Sprintf("[%s] %s fired on %s: %s (value %.2f)",
				sev, rule.Name, region, rule.Condition, value),
			FiredAt: now,
			State:   "firing",
		}
		e.active[key] = a
		e.lastFire[key] = now
		alertCopy := *a
		e.mu.Unlock()

		slog.Warn("alert fired",
			"rule", rule.Name,
			"region", region,
			"value", value,
			"severity", sev,
		)
		go e.deliver(&alertCopy)
		return
	}

	cp := e.resolveLocked(key, now)
	e.mu.Unlock()
	if cp != nil {
		slog.Info("alert resolved", "rule", rule.Name, "region", region)
		go e.deliver(cp)
	}
}

// resolveLocked marks the active alert for key as resolved, moves it to the
// history and returns a copy for delivery, or nil if nothing was firing.
// The caller must hold e.mu.
func (e *Engine) resolveLocked(key string, now time.Time) *Alert {
	a, ok := e.active[key]
	if !ok || a.State != "firing" {
		return nil
	}
	resolved := now
	a.State = "resolved"
	a.ResolvedAt = &resolved
	delete(e.active, key)

	e.history = append(e.history, a)
	if len(e.history) > maxHistoryLen {
		e.history = e.history[len(e.history)-maxHistoryLen:]
	}
	cp := *a
	return &cp
}

// resolveVanished resolves firing alerts whose region no longer exists in
// ds, so a trimmed dataset does not leave alerts stuck in the firing state.
func (e *Engine) resolveVanished(ds *dataset.Dataset, now time.Time) {
	present := make(map[string]bool)
	for _, region := range ds.Regions() {
		present[region] = true
	}

	e.mu.Lock()
	var gone []string
	for key, a := range e.active {
		if !present[a.Region] {
			gone = append(gone, key)
		}
	}
	var resolved []*Alert
	for _, key := range gone {
		if cp := e.resolveLocked(key, now); cp != nil {
			resolved = append(resolved, cp)
		}
	}
	e.mu.Unlock()

	for _, cp := range resolved {
		slog.Info("alert resolved",
			"rule", cp.RuleName, "region", cp.Region, "reason", "region removed from dataset")
		go e.deliver(cp)
	}
}

// Active returns copies of all currently firing alerts plus any alerts
// resolved within the past hour, sorted newest first.
func (e *Engine) Active() []*Alert {
	e.mu.Lock()
	defer e.mu.Unlock()

	cutoff := e.now().Add(-recentWindowHours * time.Hour)
	out := make([]*Alert, 0, len(e.active))

	for _, a := range e.active {
		cp := *a
		out = append(out, &cp)
	}
	for _, a := range e.history {
		if a.ResolvedAt != nil && a.ResolvedAt.After(cutoff) {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FiredAt.After(out[j].FiredAt) })
	return out
}
