package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestRegistry(t *testing.T) (*Registry, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	r, err := NewRegistryWithMeter(provider.Meter("test"))
	require.NoError(t, err)
	return r, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumOf(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "%s is not an int64 sum", m.Name)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestRecordExtraction(t *testing.T) {
	r, reader := newTestRegistry(t)
	ctx := context.Background()

	r.RecordExtraction(ctx, 2*time.Millisecond, "api", map[string]int{"Local": 2, "Tollfree": 1}, 1, false)
	r.RecordExtraction(ctx, time.Millisecond, "cli", map[string]int{"ShortCode": 1}, 0, true)

	got := collect(t, reader)
	assert.Equal(t, int64(2), sumOf(t, got["nanp.extract.texts_total"]))
	assert.Equal(t, int64(4), sumOf(t, got["nanp.extract.numbers_total"]))
	assert.Equal(t, int64(1), sumOf(t, got["nanp.extract.windows_rejected_total"]))
	assert.Equal(t, int64(1), sumOf(t, got["nanp.extract.short_code_fallbacks_total"]))
	assert.Contains(t, got, "nanp.extract.duration")
}

func TestRecordCrossCheckRun_UpdatesGauges(t *testing.T) {
	r, reader := newTestRegistry(t)
	ctx := context.Background()

	r.RecordDiscrepancy(ctx, "nanpa-geographic", "all", "missing_from_table")
	r.RecordSourceError(ctx, "cna")
	r.RecordCrossCheckRun(ctx, 3*time.Second, 5, 1)

	got := collect(t, reader)
	assert.Equal(t, int64(1), sumOf(t, got["nanp.crosscheck.runs_total"]))
	assert.Equal(t, int64(1), sumOf(t, got["nanp.crosscheck.discrepancies_total"]))
	assert.Equal(t, int64(1), sumOf(t, got["nanp.crosscheck.source_errors_total"]))

	gauge, ok := got["nanp.crosscheck.last_run_discrepancies"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, int64(5), gauge.DataPoints[0].Value)
}

func TestRecordParse(t *testing.T) {
	r, reader := newTestRegistry(t)
	r.RecordParse(context.Background(), time.Microsecond, "Local", true)
	r.RecordParse(context.Background(), time.Microsecond, "Invalid", false)

	got := collect(t, reader)
	assert.Equal(t, int64(2), sumOf(t, got["nanp.parse.total"]))
}
