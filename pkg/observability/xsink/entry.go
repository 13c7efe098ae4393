package xsink

import (
	"context"
	"log/slog"
	"slices"
	"time"
)

// Entry 一次写入请求
//
// Name 是记录所属的逻辑名称（logger 名），作为路由元数据供 [Filter] 匹配，
// 不拼接进 Message。
type Entry struct {
	Time    time.Time
	Level   slog.Level
	Name    string
	Message string
	Attrs   []slog.Attr

	// PC 调用点程序计数器，0 表示未知。源码位置与回溯都从这里开始。
	PC uintptr

	tags []slog.Attr
}

// Tags 返回写入时 ctx 上附带的上下文标签
func (e Entry) Tags() []slog.Attr {
	return slices.Clone(e.tags)
}

// Tag 按 key 查找上下文标签，后附加的同名标签优先
func (e Entry) Tag(key string) (slog.Value, bool) {
	for i := len(e.tags) - 1; i >= 0; i-- {
		if e.tags[i].Key == key {
			return e.tags[i].Value, true
		}
	}
	return slog.Value{}, false
}

// Filter 决定一条记录是否进入某个 sink
type Filter func(Entry) bool

// NameIs 返回只接受指定逻辑名称的过滤器
func NameIs(name string) Filter {
	return func(e Entry) bool { return e.Name == name }
}

type tagsKey struct{}

// WithTags 返回携带上下文标签的 ctx，标签只作用于使用该 ctx 的写入
//
// 多次调用会累加，父 ctx 的标签不受影响。
func WithTags(ctx context.Context, attrs ...slog.Attr) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(attrs) == 0 {
		return ctx
	}
	prev := TagsFrom(ctx)
	merged := make([]slog.Attr, 0, len(prev)+len(attrs))
	merged = append(merged, prev...)
	merged = append(merged, attrs...)
	return context.WithValue(ctx, tagsKey{}, merged)
}

// TagsFrom 返回 ctx 上的上下文标签，ctx 为 nil 时返回 nil
func TagsFrom(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	tags, _ := ctx.Value(tagsKey{}).([]slog.Attr)
	return tags
}
