package xsink

import (
	"bytes"
	"context"
	"log/slog"
	"sync"

	"github.com/omeyang/xflog/pkg/observability/xlevel"
)

// JSON 行中的固定字段名
const (
	KeyName  = "name"
	KeyStack = "stack"
)

// jsonFormatter 借用 slog.JSONHandler 输出单行 JSON
//
// handler 写入私有缓冲区，mu 保证一次只格式化一条记录。
type jsonFormatter struct {
	mu      sync.Mutex
	buf     bytes.Buffer
	handler slog.Handler
}

func newJSONFormatter() *jsonFormatter {
	f := &jsonFormatter{}
	f.handler = slog.NewJSONHandler(&f.buf, &slog.HandlerOptions{
		AddSource: true,
		// 级别交由 sink 过滤，handler 本身全部放行
		Level:       slog.Level(-1 << 10),
		ReplaceAttr: replaceLevelName,
	})
	return f
}

// replaceLevelName 将顶层 level 字段输出为 TRACE/SUCCESS/CRITICAL 等名称
func replaceLevelName(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.LevelKey {
		if lv, ok := a.Value.Any().(slog.Level); ok {
			return slog.String(slog.LevelKey, xlevel.Name(lv))
		}
	}
	return a
}

// format 返回以换行结尾的 JSON 行
func (f *jsonFormatter) format(e Entry, stack string) ([]byte, error) {
	r := slog.NewRecord(e.Time, e.Level, e.Message, e.PC)
	r.AddAttrs(slog.String(KeyName, e.Name))
	r.AddAttrs(e.Attrs...)
	r.AddAttrs(e.tags...)
	if stack != "" {
		r.AddAttrs(slog.String(KeyStack, stack))
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.buf.Reset()
	if err := f.handler.Handle(context.Background(), r); err != nil {
		return nil, err
	}
	return bytes.Clone(f.buf.Bytes()), nil
}
