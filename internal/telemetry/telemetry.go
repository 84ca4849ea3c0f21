// Package telemetry holds the Prometheus metrics and the OpenTelemetry
// tracer shared by the query and layer packages.
package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Hit test results used as the "result" label.
const (
	ResultHit   = "hit"
	ResultMiss  = "miss"
	ResultPanic = "panic"
)

var (
	// FeatureTests counts narrow-phase feature tests by layer type and result.
	FeatureTests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mapstyle_feature_tests_total",
		Help: "Narrow-phase feature intersection tests by layer type and result",
	}, []string{"layer_type", "result"})

	// DegeneratePoints counts feature points skipped because their
	// projection had w <= 0.
	DegeneratePoints = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mapstyle_degenerate_points_total",
		Help: "Feature points at or behind the camera plane skipped during hit testing",
	}, []string{"layer_type"})

	// BroadPhaseRejected counts candidates dropped by the bounding box test.
	BroadPhaseRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mapstyle_broad_phase_rejected_total",
		Help: "Candidates rejected by the broad-phase bounding box test",
	}, []string{"layer_type"})

	// QueryDuration observes the wall time of a whole hit-test request.
	QueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mapstyle_query_duration_seconds",
		Help:    "Hit-test request duration",
		Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
	}, []string{"layer_type"})

	// Resolutions counts cascade resolutions by whether the snapshot came
	// from the converged-snapshot cache.
	Resolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mapstyle_cascade_resolutions_total",
		Help: "Paint cascade resolutions by source (cached, built)",
	}, []string{"source"})
)

var (
	tracerOnce sync.Once
	tracer     trace.Tracer
)

// Tracer returns the OTel tracer, initializing it lazily so that a process
// which never configures OTel gets the global no-op provider.
func Tracer() trace.Tracer {
	tracerOnce.Do(func() {
		tracer = otel.Tracer("github.com/gogpu/mapstyle")
	})
	return tracer
}
