package xflog

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// 追踪字段名
const (
	KeyTraceID = "trace_id"
	KeySpanID  = "span_id"
)

// appendTraceAttrs 从 ctx 的 span 上下文提取 trace_id/span_id
//
// Best-effort：ctx 为 nil 或没有有效 span 时不追加任何字段。
func appendTraceAttrs(attrs []slog.Attr, ctx context.Context) []slog.Attr {
	if ctx == nil {
		return attrs
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return attrs
	}
	return append(attrs,
		slog.String(KeyTraceID, sc.TraceID().String()),
		slog.String(KeySpanID, sc.SpanID().String()),
	)
}
