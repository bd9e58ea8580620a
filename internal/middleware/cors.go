package middleware

import (
	"net/http"
	"strings"
)

// CORS allows browser access from a single frontend origin. Any method and
// header is accepted; credentials are never allowed. A frontendURL of "*"
// allows every origin.
func CORS(frontendURL string) func(http.Handler) http.Handler {
	allowed := strings.TrimRight(frontendURL, "/")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			w.Header().Add("Vary", "Origin")

			ok := origin != "" && allowed != "" && (allowed == "*" || origin == allowed)
			if ok {
				if allowed == "*" {
					w.Header().Set("Access-Control-Allow-Origin", "*")
				} else {
					w.Header().Set("Access-Control-Allow-Origin", origin)
				}
			}

			// Preflight requests are always answered here; the headers above
			// decide whether the browser lets the real request through.
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				if ok {
					w.Header().Set("Access-Control-Allow-Methods", echoOrWildcard(r.Header.Get("Access-Control-Request-Method")))
					w.Header().Set("Access-Control-Allow-Headers", echoOrWildcard(r.Header.Get("Access-Control-Request-Headers")))
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func echoOrWildcard(v string) string {
	if v == "" {
		return "*"
	}
	return v
}
