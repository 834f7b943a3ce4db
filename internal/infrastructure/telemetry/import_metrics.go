package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Import outcomes
const (
	OutcomeExisting  = "existing"
	OutcomeConfirmed = "confirmed"
	OutcomeMismatch  = "mismatch"
	OutcomeFailed    = "failed"
)

// AttrOutcome labels import metrics by outcome
var AttrOutcome = attribute.Key("outcome")

// ImportMetrics records eBay order import metrics.
type ImportMetrics struct {
	imported *Counter
	duration *Histogram
}

// NewImportMetrics registers the import instruments on meter.
func NewImportMetrics(meter metric.Meter) (*ImportMetrics, error) {
	if meter == nil {
		return nil, errors.New("NewImportMetrics: meter cannot be nil")
	}
	imported, err := NewCounter(meter, "erp_ebay_orders_imported_total", "eBay order import calls by outcome", "{order}")
	if err != nil {
		return nil, err
	}
	duration, err := NewHistogram(meter, "erp_ebay_order_import_duration_seconds", "eBay order import duration", "s", ImportDurationBuckets...)
	if err != nil {
		return nil, err
	}
	return &ImportMetrics{imported: imported, duration: duration}, nil
}

// RecordImport counts one import call and its duration.
func (m *ImportMetrics) RecordImport(ctx context.Context, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.imported.Inc(ctx, AttrOutcome.String(outcome))
	m.duration.RecordDuration(ctx, d, AttrOutcome.String(outcome))
}
