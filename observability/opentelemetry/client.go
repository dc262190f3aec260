package opentelemetry

import (
	"context"
	"strconv"

	"consolebridge"
	"consolebridge/message"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "consolebridge/observability/opentelemetry"

// ClientMiddlewareBuilder opens a client span per call and carries the
// trace context in the request meta.
type ClientMiddlewareBuilder struct {
	// Tracer defaults to the global provider's tracer
	Tracer trace.Tracer
	// Propagator defaults to the global one
	Propagator propagation.TextMapPropagator
}

func (b *ClientMiddlewareBuilder) Build() consolebridge.Middleware {
	tracer := b.Tracer
	if tracer == nil {
		tracer = otel.Tracer(instrumentationName)
	}
	propagator := b.Propagator
	if propagator == nil {
		propagator = otel.GetTextMapPropagator()
	}
	return func(next consolebridge.Proxy) consolebridge.Proxy {
		return consolebridge.ProxyFunc(func(ctx context.Context, req *message.Request) (resp *message.Response, err error) {
			ctx, span := tracer.Start(ctx, req.Address(),
				trace.WithSpanKind(trace.SpanKindClient),
				trace.WithAttributes(
					attribute.String("rpc.system", "consolebridge"),
					attribute.String("rpc.service", req.Module+"."+req.Bridge),
					attribute.String("rpc.method", req.Method),
				))
			defer func() {
				switch {
				case err != nil:
					span.RecordError(err)
					span.SetStatus(codes.Error, "client failed")
				case !resp.Success():
					span.SetAttributes(attribute.Int("rpc.status_code", resp.StatusCode))
					span.SetStatus(codes.Error, "status "+strconv.Itoa(resp.StatusCode))
				default:
					span.SetAttributes(attribute.Int("rpc.status_code", resp.StatusCode))
					span.SetStatus(codes.Ok, "OK")
				}
				span.End()
			}()
			if req.Meta == nil {
				req.Meta = make(map[string]string, 2)
			}
			propagator.Inject(ctx, propagation.MapCarrier(req.Meta))
			return next.Invoke(ctx, req)
		})
	}
}
