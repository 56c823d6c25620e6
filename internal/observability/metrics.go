package observability

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	ProductsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalogsync_products_total",
			Help: "Products run through the pipeline, by outcome",
		},
		[]string{"outcome"},
	)

	ExtractionFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalogsync_extraction_failures_total",
			Help: "Failed extractions, by failure kind",
		},
		[]string{"kind"},
	)

	HistoryRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalogsync_history_records_total",
			Help: "Price and stock history writes, inserted or skipped",
		},
		[]string{"kind", "outcome"},
	)

	FetchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalogsync_fetch_seconds",
			Help:    "Time spent fetching product pages",
			Buckets: prometheus.DefBuckets,
		},
	)
)

var registerOnce sync.Once

// Register adds the collectors to the default registry once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(ProductsProcessed, ExtractionFailures, HistoryRecords, FetchDuration)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	Register()
	return promhttp.Handler()
}

// Start exposes /metrics on its own port in the background.
func Start(port string, logger zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	go func() {
		if err := http.ListenAndServe(":"+port, mux); err != nil {
			logger.Error().Err(err).Str("port", port).Msg("metrics server stopped")
		}
	}()
}
