package xflog

import (
	"context"
	"log/slog"
	"slices"

	"github.com/omeyang/xflog/pkg/observability/xlevel"
)

// Handler 把 log/slog 的记录转交给 Registry 路由的 slog.Handler
//
// 使已有的 slog 调用代码（或第三方库）共享同一套 sink 与级别覆盖。
// 级别判断与 [Logger] 一致；WithGroup 以 "group.key" 形式展开属性。
type Handler struct {
	name     string
	registry *Registry
	attrs    []slog.Attr
	groups   []string
}

// Handler 返回与该 Logger 同名、携带其绑定属性的 slog.Handler
func (l *Logger) Handler() *Handler {
	return &Handler{name: l.name, registry: l.registry, attrs: slices.Clone(l.attrs)}
}

// Slog 返回以 [Logger.Handler] 为后端的 *slog.Logger
func (l *Logger) Slog() *slog.Logger {
	return slog.New(l.Handler())
}

var _ slog.Handler = (*Handler)(nil)

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return xlevel.ShouldLog(xlevel.FromSlog(level), h.registry.EffectiveLevel(h.name))
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	attrs := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	attrs = append(attrs, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, h.qualify(a))
		return true
	})

	rec := newRecord(h.name, xlevel.FromSlog(r.Level), r.Message, attrs, r.PC)
	if !r.Time.IsZero() {
		rec.time = r.Time
	}
	h.registry.Route(ctx, rec)
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := h.clone()
	for _, a := range attrs {
		h2.attrs = append(h2.attrs, h.qualify(a))
	}
	return h2
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := h.clone()
	h2.groups = append(h2.groups, name)
	return h2
}

func (h *Handler) clone() *Handler {
	return &Handler{
		name:     h.name,
		registry: h.registry,
		attrs:    slices.Clip(h.attrs),
		groups:   slices.Clip(h.groups),
	}
}

// qualify 为属性键加上当前分组前缀
func (h *Handler) qualify(a slog.Attr) slog.Attr {
	for i := len(h.groups) - 1; i >= 0; i-- {
		a.Key = h.groups[i] + "." + a.Key
	}
	return a
}
