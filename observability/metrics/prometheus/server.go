package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"consolebridge/observability"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServerMiddlewareBuilder records request latency on the rpc server.
type ServerMiddlewareBuilder struct {
	Namespace string
	Subsystem string
	Name      string
	Help      string

	// only used as a label, one process serves a single port
	Port string
	// Registerer defaults to prometheus.DefaultRegisterer
	Registerer prometheus.Registerer
}

func (b *ServerMiddlewareBuilder) Build() mux.MiddlewareFunc {
	reg := b.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	address := observability.GetOutboundIP()
	if b.Port != "" {
		address = address + ":" + b.Port
	}
	constLabels := map[string]string{
		"address": address,
		"kind":    "server",
	}
	summaryVec := prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Namespace:   b.Namespace,
		Subsystem:   b.Subsystem,
		Name:        b.Name + "_response",
		Help:        b.Help,
		ConstLabels: constLabels,
		Objectives: map[float64]float64{
			0.5:  0.01,
			0.9:  0.01,
			0.99: 0.001,
		},
	}, []string{"path", "status"})
	activeGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   b.Namespace,
		Subsystem:   b.Subsystem,
		Name:        b.Name + "_active_req_cnt",
		Help:        b.Help,
		ConstLabels: constLabels,
	})
	reg.MustRegister(summaryVec, activeGauge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			activeGauge.Inc()
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			activeGauge.Dec()
			summaryVec.WithLabelValues(r.URL.Path, strconv.Itoa(rec.status)).
				Observe(float64(time.Since(start).Milliseconds()))
		})
	}
}

// Handler exposes g, prometheus.DefaultGatherer when nil.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
