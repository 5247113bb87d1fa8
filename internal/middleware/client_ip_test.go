package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIPHeaderPriority(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:54321"
	r.Header.Set("CF-Connecting-IP", "198.51.100.7")
	r.Header.Set("X-Forwarded-For", "203.0.113.5")
	r.Header.Set("X-Real-IP", "192.0.2.9")

	assert.Equal(t, "198.51.100.7", ClientIP(r))
}

func TestClientIPForwardedForChain(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:54321"
	r.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1, 172.16.0.2")

	assert.Equal(t, "203.0.113.5", ClientIP(r))
}

func TestClientIPRealIPFallback(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:54321"
	r.Header.Set("X-Real-IP", "192.0.2.9")

	assert.Equal(t, "192.0.2.9", ClientIP(r))
}

func TestClientIPInvalidHeaderFallsThrough(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:54321"
	r.Header.Set("CF-Connecting-IP", "not-an-ip")
	r.Header.Set("X-Forwarded-For", "203.0.113.5")

	assert.Equal(t, "203.0.113.5", ClientIP(r))
}

func TestClientIPRemoteAddrFallback(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:54321"

	assert.Equal(t, "10.0.0.1", ClientIP(r))
}

func TestClientIPIPv6(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "[2001:db8::1]:443"

	assert.Equal(t, "2001:db8::1", ClientIP(r))

	r.Header.Set("X-Forwarded-For", "2001:db8::2")
	assert.Equal(t, "2001:db8::2", ClientIP(r))
}

func TestClientIPNothingValid(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "garbage"
	r.Header.Set("X-Forwarded-For", "unknown")

	assert.Equal(t, "", ClientIP(r))
}
