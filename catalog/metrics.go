package catalog

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const sourceFailed Source = "failed"

// Metrics records one data point per load attempt. A nil *Metrics records
// nothing.
type Metrics struct {
	loads        metric.Int64Counter
	loadDuration metric.Float64Histogram
	events       metric.Int64Gauge
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	loads, err := meter.Int64Counter("seatmap.catalog.loads",
		metric.WithDescription("Events document loads by the source that ended up being served"),
	)
	if err != nil {
		return nil, fmt.Errorf("create loads counter: %w", err)
	}

	loadDuration, err := meter.Float64Histogram("seatmap.catalog.load.duration",
		metric.WithDescription("Time spent loading the events document"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create load duration histogram: %w", err)
	}

	events, err := meter.Int64Gauge("seatmap.catalog.events",
		metric.WithDescription("Events currently served"),
	)
	if err != nil {
		return nil, fmt.Errorf("create events gauge: %w", err)
	}

	return &Metrics{loads: loads, loadDuration: loadDuration, events: events}, nil
}

func (m *Metrics) recordLoad(ctx context.Context, result LoadResult, elapsed time.Duration) {
	if m == nil {
		return
	}

	source := result.Source
	if source == "" {
		source = sourceFailed
	}
	attrs := metric.WithAttributes(attribute.String("source", string(source)))

	m.loads.Add(ctx, 1, attrs)
	m.loadDuration.Record(ctx, elapsed.Seconds(), attrs)

	if source != sourceFailed {
		m.events.Record(ctx, int64(len(result.Events)))
	}
}
