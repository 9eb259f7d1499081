package middleware

import (
	"log/slog"
	"net/http"
	"strings"
)

// hstsValue is sent when HSTS is enabled: one year, subdomains included.
const hstsValue = "max-age=31536000; includeSubDomains"

// SecurityHeaders sets the gateway's fixed response hardening headers.
func SecurityHeaders(hsts bool) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "same-origin")
			if hsts {
				h.Set("Strict-Transport-Security", hstsValue)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SuspiciousAgents logs requests whose User-Agent contains one of agents,
// compared case-insensitively. The request is still served.
func SuspiciousAgents(agents []string) Middleware {
	lowered := make([]string, 0, len(agents))
	for _, a := range agents {
		if a = strings.ToLower(strings.TrimSpace(a)); a != "" {
			lowered = append(lowered, a)
		}
	}

	return func(next http.Handler) http.Handler {
		if len(lowered) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ua := r.UserAgent()
			if match := matchAgent(strings.ToLower(ua), lowered); match != "" {
				slog.WarnContext(r.Context(), "suspicious user agent",
					"user_agent", ua,
					"match", match,
					"method", r.Method,
					"path", r.URL.Path,
				)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func matchAgent(ua string, agents []string) string {
	if ua == "" {
		return ""
	}
	for _, a := range agents {
		if strings.Contains(ua, a) {
			return a
		}
	}
	return ""
}
