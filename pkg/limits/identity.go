package limits

import (
	"net"
	"net/http"
	"strings"
)

// ClientIdentity returns the best available origin key for r. When
// trustProxy is set, X-Forwarded-For (first entry) and X-Real-IP are
// consulted before the connection's remote address. The result is empty
// when no signal is available; limiters map that to UnknownIdentity.
func ClientIdentity(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
		if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
			return ip
		}
	}

	if r.RemoteAddr == "" {
		return ""
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
