package xflog

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/omeyang/xflog/pkg/observability/xlevel"
)

// 指标名称
const (
	instrumentationName = "github.com/omeyang/xflog"

	MetricRecordsRouted    = "xflog.records.routed"
	MetricRecordsDiscarded = "xflog.records.discarded"
	MetricRecordsErrors    = "xflog.records.errors"
	MetricSinksActive      = "xflog.sinks.active"
)

// metrics 路由与 sink 生命周期指标
type metrics struct {
	routed    metric.Int64Counter
	discarded metric.Int64Counter
	errors    metric.Int64Counter
	sinks     metric.Int64UpDownCounter
}

// newMetrics 创建指标；provider 为 nil 时使用全局 MeterProvider
//
// 设计决策: 指标创建失败时退化为 noop，日志功能不受影响。
func newMetrics(provider metric.MeterProvider) *metrics {
	if provider == nil {
		provider = otel.GetMeterProvider()
	}
	m, err := buildMetrics(provider.Meter(instrumentationName))
	if err != nil {
		m, _ = buildMetrics(noop.NewMeterProvider().Meter(instrumentationName)) //nolint:errcheck // noop 不会失败
	}
	return m
}

func buildMetrics(meter metric.Meter) (*metrics, error) {
	routed, err := meter.Int64Counter(MetricRecordsRouted,
		metric.WithDescription("records forwarded to the sink engine"),
		metric.WithUnit("{record}"))
	if err != nil {
		return nil, err
	}
	discarded, err := meter.Int64Counter(MetricRecordsDiscarded,
		metric.WithDescription("records below the effective level"),
		metric.WithUnit("{record}"))
	if err != nil {
		return nil, err
	}
	errs, err := meter.Int64Counter(MetricRecordsErrors,
		metric.WithDescription("sink write failures"),
		metric.WithUnit("{error}"))
	if err != nil {
		return nil, err
	}
	sinks, err := meter.Int64UpDownCounter(MetricSinksActive,
		metric.WithDescription("sinks registered with the engine"),
		metric.WithUnit("{sink}"))
	if err != nil {
		return nil, err
	}
	return &metrics{routed: routed, discarded: discarded, errors: errs, sinks: sinks}, nil
}

func levelAttr(level xlevel.Level) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("level", level.String()))
}

func (m *metrics) recordRouted(ctx context.Context, level xlevel.Level) {
	m.routed.Add(ctx, 1, levelAttr(level))
}

func (m *metrics) recordDiscarded(ctx context.Context, level xlevel.Level) {
	m.discarded.Add(ctx, 1, levelAttr(level))
}

func (m *metrics) recordError(ctx context.Context) {
	m.errors.Add(ctx, 1)
}

func (m *metrics) sinksChanged(delta int) {
	if delta != 0 {
		m.sinks.Add(context.Background(), int64(delta))
	}
}
