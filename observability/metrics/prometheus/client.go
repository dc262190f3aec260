package prometheus

import (
	"context"
	"errors"
	"strconv"
	"time"

	"consolebridge"
	"consolebridge/message"

	"github.com/prometheus/client_golang/prometheus"
)

// ClientMiddlewareBuilder records call latency and failures per
// module.bridge.method on the calling side.
type ClientMiddlewareBuilder struct {
	Namespace string
	Subsystem string
	Name      string
	Help      string
	// Registerer defaults to prometheus.DefaultRegisterer
	Registerer prometheus.Registerer
}

func (b *ClientMiddlewareBuilder) Build() consolebridge.Middleware {
	reg := b.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	labels := []string{"module", "bridge", "method"}
	summaryVec := prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Namespace:   b.Namespace,
		Subsystem:   b.Subsystem,
		Name:        b.Name + "_response",
		Help:        b.Help,
		ConstLabels: map[string]string{"kind": "client"},
		Objectives: map[float64]float64{
			0.5:   0.01,
			0.75:  0.01,
			0.9:   0.01,
			0.99:  0.001,
			0.999: 0.0001,
		},
	}, append(labels, "status"))
	errCntVec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   b.Namespace,
		Subsystem:   b.Subsystem,
		Name:        b.Name + "_error_cnt",
		Help:        b.Help,
		ConstLabels: map[string]string{"kind": "client"},
	}, labels)
	activeVec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   b.Namespace,
		Subsystem:   b.Subsystem,
		Name:        b.Name + "_active_req_cnt",
		Help:        b.Help,
		ConstLabels: map[string]string{"kind": "client"},
	}, labels)
	reg.MustRegister(summaryVec, errCntVec, activeVec)

	return func(next consolebridge.Proxy) consolebridge.Proxy {
		return consolebridge.ProxyFunc(func(ctx context.Context, req *message.Request) (*message.Response, error) {
			active := activeVec.WithLabelValues(req.Module, req.Bridge, req.Method)
			active.Inc()
			start := time.Now()
			resp, err := next.Invoke(ctx, req)
			active.Dec()

			status := "transport_error"
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				status = "canceled"
			}
			if err == nil {
				status = strconv.Itoa(resp.StatusCode)
			}
			if err != nil || !resp.Success() {
				errCntVec.WithLabelValues(req.Module, req.Bridge, req.Method).Inc()
			}
			summaryVec.WithLabelValues(req.Module, req.Bridge, req.Method, status).
				Observe(float64(time.Since(start).Milliseconds()))
			return resp, err
		})
	}
}
