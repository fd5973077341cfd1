// Package metrics exposes server counters in the Prometheus format on a
// separate HTTP listener. All collectors live in a private registry.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrijs2005/tripvault/internal/logging"
)

// Metrics is safe to use through a nil pointer; every recording method is
// then a no-op.
type Metrics struct {
	registry *prometheus.Registry

	requests         *prometheus.CounterVec
	latency          *prometheus.HistogramVec
	rateLimited      *prometheus.CounterVec
	documentsCreated prometheus.Counter
	documentsDeleted prometheus.Counter
	orphanedBlobs    prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tripvault_grpc_requests_total",
			Help: "gRPC requests by method and status code.",
		}, []string{"method", "code"}),
		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tripvault_grpc_request_duration_seconds",
			Help:    "gRPC request latency.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		}, []string{"method"}),
		rateLimited: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tripvault_rate_limited_total",
			Help: "Calls rejected by the per-caller rate limiter.",
		}, []string{"method"}),
		documentsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "tripvault_documents_created_total",
			Help: "Vault documents registered.",
		}),
		documentsDeleted: f.NewCounter(prometheus.CounterOpts{
			Name: "tripvault_documents_deleted_total",
			Help: "Vault documents deleted.",
		}),
		orphanedBlobs: f.NewCounter(prometheus.CounterOpts{
			Name: "tripvault_orphaned_blobs_total",
			Help: "Blobs left behind because their delete failed after the record was removed.",
		}),
	}
}

func (m *Metrics) ObserveRequest(method, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, code).Inc()
	m.latency.WithLabelValues(method).Observe(d.Seconds())
}

func (m *Metrics) RateLimited(method string) {
	if m == nil {
		return
	}
	m.rateLimited.WithLabelValues(method).Inc()
}

func (m *Metrics) DocumentCreated() {
	if m == nil {
		return
	}
	m.documentsCreated.Inc()
}

func (m *Metrics) DocumentDeleted() {
	if m == nil {
		return
	}
	m.documentsDeleted.Inc()
}

func (m *Metrics) OrphanedBlob() {
	if m == nil {
		return
	}
	m.orphanedBlobs.Inc()
}

// Handler serves the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve listens on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string, logger logging.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info(ctx, "Starting metrics server", "address", lis.Addr().String())
	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
