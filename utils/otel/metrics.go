package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the metric instruments for search-adapter. Nil until
// InitMetrics runs; callers must nil-check.
var Metrics *SearchAdapterMetrics

// SearchAdapterMetrics contains all metric instruments.
type SearchAdapterMetrics struct {
	SearchesTotal  metric.Int64Counter
	UpsertedTotal  metric.Int64Counter
	DeletedTotal   metric.Int64Counter
	ErrorsTotal    metric.Int64Counter
	SearchDuration metric.Float64Histogram
}

// InitMetrics initializes all metric instruments.
func InitMetrics() error {
	meter := otel.Meter("search-adapter")

	searchesTotal, err := meter.Int64Counter("search_adapter_searches_total",
		metric.WithDescription("Total number of search requests executed"),
	)
	if err != nil {
		return err
	}

	upsertedTotal, err := meter.Int64Counter("search_adapter_upserted_total",
		metric.WithDescription("Total number of documents upserted into the index"),
	)
	if err != nil {
		return err
	}

	deletedTotal, err := meter.Int64Counter("search_adapter_deleted_total",
		metric.WithDescription("Total number of documents deleted from the index"),
	)
	if err != nil {
		return err
	}

	errorsTotal, err := meter.Int64Counter("search_adapter_errors_total",
		metric.WithDescription("Total number of errors"),
	)
	if err != nil {
		return err
	}

	searchDuration, err := meter.Float64Histogram("search_adapter_search_duration_seconds",
		metric.WithDescription("Search request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	Metrics = &SearchAdapterMetrics{
		SearchesTotal:  searchesTotal,
		UpsertedTotal:  upsertedTotal,
		DeletedTotal:   deletedTotal,
		ErrorsTotal:    errorsTotal,
		SearchDuration: searchDuration,
	}

	return nil
}
