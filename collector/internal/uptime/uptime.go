package uptime

import "sync"

// Tracker derives a rolling uptime percentage per region from probe outcomes.
//
// All methods are safe for concurrent use.
type Tracker struct {
	window  int
	mu      sync.Mutex
	history map[string][]bool // recent outcomes per region, newest last
}

// NewTracker returns a Tracker keeping the last window outcomes per region.
func NewTracker(window int) *Tracker {
	return &Tracker{window: window, history: make(map[string][]bool)}
}

// Record appends one probe outcome for region, evicting the oldest outcome
// once the window is full.
func (t *Tracker) Record(region string, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	h := t.history[region]
	if len(h) >= t.window {
		h = h[1:]
	}
	t.history[region] = append(h, ok)
}

// Pct returns the uptime percentage over the recorded window for region.
func (t *Tracker) Pct(region string) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	h := t.history[region]
	if len(h) == 0 {
		return 100 // assume up before first observation
	}
	var ok int
	for _, s := range h {
		if s {
			ok++
		}
	}
	return float64(ok) / float64(len(h)) * 100
}
