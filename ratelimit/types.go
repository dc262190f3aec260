package ratelimit

import (
	"context"
	"net"
	"net/http"
)

// Limiter decides whether the call identified by key must be rejected.
type Limiter interface {
	Limit(ctx context.Context, key string) (bool, error)
}

// KeyFunc derives the limiting key of an HTTP request.
type KeyFunc func(r *http.Request) string

// KeyByClientIP limits each caller address separately.
func KeyByClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// KeyByHeader limits by the value of header, falling back to the client IP.
func KeyByHeader(header string) KeyFunc {
	return func(r *http.Request) string {
		if val := r.Header.Get(header); val != "" {
			return val
		}
		return KeyByClientIP(r)
	}
}
