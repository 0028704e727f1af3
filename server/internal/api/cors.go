package api

import "net/http"

// allowCORS wraps next with permissive cross-origin headers so browser
// dashboards on any origin can call the API directly. Stricter policies
// belong at the reverse proxy. Preflight OPTIONS requests are answered here
// and never reach the routes.
func allowCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
