// Package metrics instruments the CLI driver with Prometheus counters and
// histograms, following the textfile-collector pattern: a private registry
// is flushed to a *.metrics.prom file at the end of each phase rather than
// scraped over HTTP, since this process never listens on a socket.
package metrics

import (
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"

	"github.com/samirrijal/transitcat/internal/core/domain"
)

// Metrics holds every counter/histogram registered for one CLI invocation.
type Metrics struct {
	registry *prometheus.Registry

	StopsIngested     prometheus.Counter
	RoutesIngested    prometheus.Counter
	DistancesIngested prometheus.Counter

	PreprocessDuration  prometheus.Histogram
	SerializeDuration   prometheus.Histogram
	DeserializeDuration prometheus.Histogram
}

// New registers a fresh set of metrics on a private registry, independent
// of the default global registerer.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		StopsIngested: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "transitcat",
			Subsystem: "catalogue",
			Name:      "stops_ingested_total",
			Help:      "Total stops loaded into the catalogue.",
		}),
		RoutesIngested: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "transitcat",
			Subsystem: "catalogue",
			Name:      "routes_ingested_total",
			Help:      "Total routes loaded into the catalogue.",
		}),
		DistancesIngested: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "transitcat",
			Subsystem: "catalogue",
			Name:      "distances_ingested_total",
			Help:      "Total stop-to-stop distances loaded into the catalogue.",
		}),

		PreprocessDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "transitcat",
			Subsystem: "router",
			Name:      "preprocess_duration_seconds",
			Help:      "Duration of all-pairs shortest-time preprocessing.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		}),
		SerializeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "transitcat",
			Subsystem: "codec",
			Name:      "serialize_duration_seconds",
			Help:      "Duration of writing the persisted catalogue blob.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		DeserializeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "transitcat",
			Subsystem: "codec",
			Name:      "deserialize_duration_seconds",
			Help:      "Duration of reading the persisted catalogue blob.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
	}
}

// Flush writes every registered metric in Prometheus text exposition format
// to path, truncating it if it already exists.
func (m *Metrics) Flush(path string) error {
	families, err := m.registry.Gather()
	if err != nil {
		return domain.IOError("gathering metrics", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return domain.IOError("opening metrics snapshot", err)
	}
	defer f.Close()

	enc := expfmt.NewEncoder(f, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return domain.IOError("encoding metrics snapshot", err)
		}
	}
	return nil
}
