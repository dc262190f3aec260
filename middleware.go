package consolebridge

import (
	"context"
	"time"

	"consolebridge/message"

	"go.uber.org/zap"
)

type Middleware func(next Proxy) Proxy

// Chain folds middlewares into one, the first one is the outermost.
func Chain(middlewares ...Middleware) Middleware {
	return func(next Proxy) Proxy {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}

// LoggingMiddleware writes one debug trace per call. Failures are left to
// the caller, nothing is logged above debug.
func LoggingMiddleware(logger *zap.Logger) Middleware {
	return func(next Proxy) Proxy {
		return ProxyFunc(func(ctx context.Context, req *message.Request) (*message.Response, error) {
			start := time.Now()
			resp, err := next.Invoke(ctx, req)
			fields := []zap.Field{
				zap.String("address", req.Address()),
				zap.Int("args", len(req.Args)),
				zap.Duration("duration", time.Since(start)),
			}
			if resp != nil {
				fields = append(fields, zap.Int("status", resp.StatusCode))
			}
			if err != nil {
				fields = append(fields, zap.NamedError("transport_error", err))
			}
			logger.Debug("rpc call", fields...)
			return resp, err
		})
	}
}
