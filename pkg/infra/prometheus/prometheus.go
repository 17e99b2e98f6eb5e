package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

var (
	VerdictsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "safeharbor_verdicts_total",
			Help: "Verdicts produced, by category, safety and analysis source",
		},
		[]string{"category", "safe", "source"},
	)

	ClassifierFallbacksTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "safeharbor_classifier_fallbacks_total",
			Help: "Deterministic fallback verdicts, by failure class",
		},
		[]string{"reason"},
	)

	StorageFallbacksTotal = promauto.With(registerer).NewCounter(
		prometheus.CounterOpts{
			Name: "safeharbor_storage_fallbacks_total",
			Help: "Writes re-routed from the remote store to the local fallback",
		},
	)

	EventsStoredTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "safeharbor_events_stored_total",
			Help: "Events appended, by collection and serving backend",
		},
		[]string{"collection", "storage"},
	)
)

// Handler serves the private registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
