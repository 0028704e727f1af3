package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/regionpulse/regionpulse/server/internal/alerts"
	"github.com/regionpulse/regionpulse/server/internal/dataset"
	"github.com/regionpulse/regionpulse/server/internal/stats"
)

const indexMessage = "regionpulse API is up"

// Handler is the HTTP handler for the whole REST surface. It reads the
// active dataset from the store and returns JSON responses.
type Handler struct {
	store       *dataset.Store
	engine      *alerts.Engine
	thresholdMS float64 // applied where a request carries no threshold
	mux         *http.ServeMux
}

// New creates a Handler wired to the given dataset store and alert engine,
// registers all routes and wraps them in the permissive CORS middleware.
// engine may be nil when alerting is not configured.
func New(st *dataset.Store, engine *alerts.Engine, defaultThresholdMS float64) http.Handler {
	h := &Handler{
		store:       st,
		engine:      engine,
		thresholdMS: defaultThresholdMS,
		mux:         http.NewServeMux(),
	}

	h.mux.HandleFunc("/", h.index)
	h.mux.HandleFunc("/api/latency", h.latency)
	h.mux.HandleFunc("/api/latency/test", h.latencyTest)
	h.mux.HandleFunc("/api/regions", h.listRegions)
	h.mux.HandleFunc("/api/regions/", h.getRegion) // subtree, extracts {name}
	h.mux.HandleFunc("/api/health", h.health)
	h.mux.HandleFunc("/api/alerts", h.alerts)

	return allowCORS(h)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// index serves GET / with a liveness message. Every unmatched path also
// lands here and gets a 404.
func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		jsonErr(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, MessageResponse{Msg: indexMessage})
}

// latency serves POST /api/latency, the core endpoint: per-region aggregates
// for the requested regions at the requested breach threshold.
func (h *Handler) latency(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req LatencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonErr(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if req.Regions == nil {
		jsonErr(w, http.StatusBadRequest, "regions is required")
		return
	}
	if req.ThresholdMS == nil {
		jsonErr(w, http.StatusBadRequest, "threshold_ms is required")
		return
	}

	result, err := stats.Compute(h.store.Current(), req.Regions, *req.ThresholdMS)
	if err != nil {
		var nf *stats.NotFoundError
		if errors.As(err, &nf) {
			jsonResp(w, http.StatusBadRequest, errorResponse{
				Error:            nf.Error(),
				AvailableRegions: nf.Available,
			})
			return
		}
		jsonErr(w, http.StatusInternalServerError, "aggregation failed")
		return
	}
	jsonResp(w, http.StatusOK, result)
}

// latencyTest serves POST /api/latency/test: the raw sample at a flat
// dataset index. Kept as a debug aid for verifying what the loader admitted.
func (h *Handler) latencyTest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req SampleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonErr(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if req.ID == nil {
		jsonErr(w, http.StatusBadRequest, "id is required")
		return
	}

	s, ok := h.store.Current().SampleAt(*req.ID)
	if !ok {
		jsonErr(w, http.StatusNotFound, "sample index out of range")
		return
	}
	jsonResp(w, http.StatusOK, RecordResponse{Records: s})
}

// listRegions serves GET /api/regions, the region inventory.
func (h *Handler) listRegions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ds := h.store.Current()
	out := RegionsResponse{
		Regions:      make([]RegionInfo, 0, len(ds.Regions())),
		TotalSamples: ds.Len(),
	}
	for _, name := range ds.Regions() {
		samples, _ := ds.Samples(name)
		out.Regions = append(out.Regions, RegionInfo{Name: name, Samples: len(samples)})
	}
	jsonResp(w, http.StatusOK, out)
}

// getRegion serves GET /api/regions/{name}: one region's aggregates at the
// configured default threshold, plus diagnostic hints.
func (h *Handler) getRegion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/api/regions/")
	if name == "" {
		// Redirect bare /api/regions/ to the list handler.
		h.listRegions(w, r)
		return
	}

	ds := h.store.Current()
	samples, ok := ds.Samples(name)
	if !ok {
		nf := &stats.NotFoundError{Region: name, Available: ds.Regions()}
		jsonResp(w, http.StatusNotFound, errorResponse{
			Error:            nf.Error(),
			AvailableRegions: nf.Available,
		})
		return
	}

	m := stats.Summarize(samples, h.thresholdMS)
	jsonResp(w, http.StatusOK, RegionDetailResponse{
		Name:        name,
		Samples:     len(samples),
		ThresholdMS: h.thresholdMS,
		Metrics:     m,
		Diagnostics: computeDiagnostics(m, len(samples), h.thresholdMS),
	})
}

// health serves GET /api/health: status of the loaded dataset.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ds := h.store.Current()
	jsonResp(w, http.StatusOK, HealthResponse{
		Status:         "ok",
		Regions:        len(ds.Regions()),
		Samples:        ds.Len(),
		SkippedRecords: ds.Skipped(),
		LoadedAt:       ds.LoadedAt().UTC().Format(time.RFC3339),
	})
}

// alerts serves GET /api/alerts: firing plus recently resolved alerts.
func (h *Handler) alerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.engine == nil {
		jsonResp(w, http.StatusOK, []struct{}{})
		return
	}
	jsonResp(w, http.StatusOK, h.engine.Active())
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
