package xflog

import (
	"context"
	"log/slog"
	"runtime"
	"slices"

	"github.com/omeyang/xflog/pkg/observability/xlevel"
)

// Logger 命名 logger，把调用转成 [Record] 交给 Registry 路由
//
// Logger 是值语义的轻量句柄，可安全地在 goroutine 间共享。
// 通常由 [Manager.GetLogger] 获取；With 返回携带绑定属性的新 Logger。
type Logger struct {
	name     string
	registry *Registry
	attrs    []slog.Attr
}

func newLogger(name string, r *Registry) *Logger {
	if name == "" {
		name = DefaultName
	}
	return &Logger{name: name, registry: r}
}

// Name 返回 logger 名称
func (l *Logger) Name() string { return l.name }

// With 返回绑定了附加属性的新 Logger，原 Logger 不受影响
func (l *Logger) With(attrs ...slog.Attr) *Logger {
	if len(attrs) == 0 {
		return l
	}
	bound := make([]slog.Attr, 0, len(l.attrs)+len(attrs))
	bound = append(bound, l.attrs...)
	bound = append(bound, attrs...)
	return &Logger{name: l.name, registry: l.registry, attrs: bound}
}

// Log 以指定级别记录日志
func (l *Logger) Log(ctx context.Context, level xlevel.Level, msg string, attrs ...slog.Attr) {
	l.logWithSkip(ctx, level, msg, attrs, 0)
}

// logWithSkip 构造记录并路由
//
// 基础 skip=3: Callers(0) → logWithSkip(1) → 直接调用方(2) → 业务代码(3)。
// 糖方法经 log 转发时 extraSkip 为 1。
func (l *Logger) logWithSkip(ctx context.Context, level xlevel.Level, msg string, attrs []slog.Attr, extraSkip int) {
	var pcs [1]uintptr
	runtime.Callers(3+extraSkip, pcs[:])

	// 调用方的 attrs 切片不被记录持有
	extra := slices.Concat(l.attrs, attrs)
	l.registry.Route(ctx, newRecord(l.name, level, msg, extra, pcs[0]))
}

//go:noinline
func (l *Logger) log(ctx context.Context, level xlevel.Level, msg string, attrs []slog.Attr) {
	l.logWithSkip(ctx, level, msg, attrs, 1)
}

// =============================================================================
// 级别方法
// =============================================================================

func (l *Logger) Trace(msg string, attrs ...slog.Attr) {
	l.log(context.Background(), xlevel.Trace, msg, attrs)
}

func (l *Logger) Debug(msg string, attrs ...slog.Attr) {
	l.log(context.Background(), xlevel.Debug, msg, attrs)
}

func (l *Logger) Info(msg string, attrs ...slog.Attr) {
	l.log(context.Background(), xlevel.Info, msg, attrs)
}

// Success 以 SUCCESS 级别记录；SUCCESS 不在过滤顺序表中，任何阈值下都会输出
func (l *Logger) Success(msg string, attrs ...slog.Attr) {
	l.log(context.Background(), xlevel.Success, msg, attrs)
}

func (l *Logger) Warning(msg string, attrs ...slog.Attr) {
	l.log(context.Background(), xlevel.Warning, msg, attrs)
}

func (l *Logger) Error(msg string, attrs ...slog.Attr) {
	l.log(context.Background(), xlevel.Error, msg, attrs)
}

func (l *Logger) Critical(msg string, attrs ...slog.Attr) {
	l.log(context.Background(), xlevel.Critical, msg, attrs)
}

// =============================================================================
// 带 ctx 的级别方法：ctx 中的 xsink.WithTags 标签和 span 上下文会附加到记录
// =============================================================================

func (l *Logger) TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, xlevel.Trace, msg, attrs)
}

func (l *Logger) DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, xlevel.Debug, msg, attrs)
}

func (l *Logger) InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, xlevel.Info, msg, attrs)
}

func (l *Logger) SuccessContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, xlevel.Success, msg, attrs)
}

func (l *Logger) WarningContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, xlevel.Warning, msg, attrs)
}

func (l *Logger) ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, xlevel.Error, msg, attrs)
}

func (l *Logger) CriticalContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, xlevel.Critical, msg, attrs)
}
