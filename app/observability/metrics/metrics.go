package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the pipeline's metric instruments.
type AppMetrics struct {
	TripRequestsTotal        metric.Int64Counter
	TripGenerationSeconds    metric.Float64Histogram
	EnrichmentLookupsTotal   metric.Int64Counter
	EnrichmentMissesTotal    metric.Int64Counter
	PersistDurationSeconds   metric.Float64Histogram
	GenerationFailuresTotal  metric.Int64Counter
	PersistenceFailuresTotal metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metric instruments once, using the
// meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("ai-travel-planner")
		var err error
		m := &AppMetrics{}

		m.TripRequestsTotal, err = meter.Int64Counter(
			"trip_requests_total",
			metric.WithDescription("Total number of trip generation requests"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create trip_requests_total: %v", err)
		}

		m.TripGenerationSeconds, err = meter.Float64Histogram(
			"trip_generation_seconds",
			metric.WithDescription("Duration of the full trip generation pipeline"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create trip_generation_seconds: %v", err)
		}

		m.EnrichmentLookupsTotal, err = meter.Int64Counter(
			"enrichment_lookups_total",
			metric.WithDescription("Total number of per-entity place lookups"),
			metric.WithUnit("{lookup}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create enrichment_lookups_total: %v", err)
		}

		m.EnrichmentMissesTotal, err = meter.Int64Counter(
			"enrichment_misses_total",
			metric.WithDescription("Place lookups that found no image for an entity"),
			metric.WithUnit("{lookup}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create enrichment_misses_total: %v", err)
		}

		m.PersistDurationSeconds, err = meter.Float64Histogram(
			"trip_persist_seconds",
			metric.WithDescription("Duration of the nested trip insert"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create trip_persist_seconds: %v", err)
		}

		m.GenerationFailuresTotal, err = meter.Int64Counter(
			"trip_generation_failures_total",
			metric.WithDescription("Trip requests aborted by the generation stage"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create trip_generation_failures_total: %v", err)
		}

		m.PersistenceFailuresTotal, err = meter.Int64Counter(
			"trip_persistence_failures_total",
			metric.WithDescription("Trip requests aborted by the persistence stage"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create trip_persistence_failures_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the initialized metrics instance, or nil before InitAppMetrics.
func Get() *AppMetrics {
	return appMetrics
}
