package ratelimit

import (
	"context"
	"encoding/json"
	"net/http"

	"consolebridge/dispatch"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// RejectMessage is the message of a rejected call.
const RejectMessage = "rate limit exceeded"

// Middleware rejects HTTP requests over the limit with 429. A failing
// limiter lets the request through.
func Middleware(l Limiter, key KeyFunc, logger *zap.Logger) mux.MiddlewareFunc {
	if key == nil {
		key = KeyByClientIP
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			limited, err := l.Limit(r.Context(), k)
			if err != nil {
				logger.Warn("rate limiter unavailable", zap.String("key", k), zap.Error(err))
			}
			if limited {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write(dispatch.FailureBody(RejectMessage))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

var _ dispatch.Handler = (*MethodLimiter)(nil)

// MethodLimiter limits calls per module.bridge.method before they reach
// the wrapped handler. It serves both the HTTP server and the desktop host.
type MethodLimiter struct {
	Limiter Limiter
	Next    dispatch.Handler
	// Addresses restricts limiting to these module.bridge.method, empty
	// means every method
	Addresses []string
}

func (m *MethodLimiter) Dispatch(ctx context.Context, module, bridge, method string,
	args []json.RawMessage) (json.RawMessage, error) {
	address := module + "." + bridge + "." + method
	if m.applies(address) {
		limited, err := m.Limiter.Limit(ctx, address)
		if err == nil && limited {
			return nil, &dispatch.Error{Status: http.StatusTooManyRequests, Message: RejectMessage}
		}
	}
	return m.Next.Dispatch(ctx, module, bridge, method, args)
}

func (m *MethodLimiter) applies(address string) bool {
	if len(m.Addresses) == 0 {
		return true
	}
	for _, a := range m.Addresses {
		if a == address {
			return true
		}
	}
	return false
}
