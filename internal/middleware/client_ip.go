package middleware

import (
	"net"
	"net/http"
	"strings"
)

// ipHeaders is the prioritized header scan for the original client address.
// Cloudflare's header wins when present, then the first forwarded-for entry,
// then the reverse proxy's real-IP header, then the direct connection.
var ipHeaders = []string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

// ClientIP derives the client address from a request. The first candidate
// that parses as a syntactically valid IP wins; when none does, the empty
// string is returned and the caller omits the address.
func ClientIP(r *http.Request) string {
	for _, header := range ipHeaders {
		value := r.Header.Get(header)
		if value == "" {
			continue
		}
		// Forwarded-for chains hold the original client first
		if idx := strings.Index(value, ","); idx >= 0 {
			value = value[:idx]
		}
		value = strings.TrimSpace(value)
		if net.ParseIP(value) != nil {
			return value
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if net.ParseIP(host) != nil {
		return host
	}
	return ""
}
