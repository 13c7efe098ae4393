package xflog

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xflog/pkg/observability/xlevel"
	"github.com/omeyang/xflog/pkg/observability/xsink"
)

func newTestManager(t *testing.T, cfg Config) (*Manager, *syncBuffer) {
	t.Helper()
	r, buf := newTestRegistry(t)
	m := NewManager(r)
	require.NoError(t, m.Configure(cfg))
	return m, buf
}

func TestLogger_LevelMethods(t *testing.T) {
	m, buf := newTestManager(t, consoleConfig(WithLevel(xlevel.Trace)))
	l := m.GetLogger("app")
	ctx := context.Background()

	l.Trace("t")
	l.Debug("d")
	l.Info("i")
	l.Success("s")
	l.Warning("w")
	l.Error("e")
	l.Critical("c")
	l.TraceContext(ctx, "tc")
	l.DebugContext(ctx, "dc")
	l.InfoContext(ctx, "ic")
	l.SuccessContext(ctx, "sc")
	l.WarningContext(ctx, "wc")
	l.ErrorContext(ctx, "ec")
	l.CriticalContext(ctx, "cc")
	l.Log(ctx, xlevel.Level(3), "custom")

	assert.Equal(t, []string{
		"TRACE|app|t",
		"DEBUG|app|d",
		"INFO|app|i",
		"SUCCESS|app|s",
		"WARNING|app|w",
		"ERROR|app|e",
		"CRITICAL|app|c",
		"TRACE|app|tc",
		"DEBUG|app|dc",
		"INFO|app|ic",
		"SUCCESS|app|sc",
		"WARNING|app|wc",
		"ERROR|app|ec",
		"CRITICAL|app|cc",
		"INFO+3|app|custom",
	}, buf.Lines())
}

func TestLogger_With(t *testing.T) {
	m, buf := newTestManager(t, consoleConfig())
	base := m.GetLogger("app")
	child := base.With(slog.String("svc", "api"))

	assert.Same(t, base, base.With())
	assert.Equal(t, "app", child.Name())

	attrs := []slog.Attr{slog.Int("n", 1)}
	child.Info("child", attrs...)
	attrs[0] = slog.Int("n", 2)
	base.Info("base")

	assert.Equal(t, []string{
		"INFO|app|child svc=api n=1",
		"INFO|app|base",
	}, buf.Lines())
}

func TestLogger_ContextTags(t *testing.T) {
	m, buf := newTestManager(t, consoleConfig())
	ctx := xsink.WithTags(context.Background(), slog.String("req", "42"))

	m.GetLogger("app").InfoContext(ctx, "tagged")
	assert.Equal(t, []string{"INFO|app|tagged req=42"}, buf.Lines())
}

func TestLogger_CallerLocation(t *testing.T) {
	const pattern = "{file}:{line}|{function}|{message}"
	m, buf := newTestManager(t, NewConfig(WithConsolePattern(pattern)))
	l := m.GetLogger("app")

	_, _, base, _ := runtime.Caller(0)
	l.Info("sugar")
	l.Log(context.Background(), xlevel.Info, "log")
	loggerFrom(m, "app").Warning("via helper")

	assert.Equal(t, []string{
		fmt.Sprintf("logger_test.go:%d|xflog.TestLogger_CallerLocation|sugar", base+1),
		fmt.Sprintf("logger_test.go:%d|xflog.TestLogger_CallerLocation|log", base+2),
		fmt.Sprintf("logger_test.go:%d|xflog.TestLogger_CallerLocation|via helper", base+3),
	}, buf.Lines())
}

// loggerFrom 经由函数返回的 Logger，调用点仍是业务代码
func loggerFrom(m *Manager, name string) *Logger {
	return m.GetLogger(name)
}

func TestLogger_DefaultName(t *testing.T) {
	l := newLogger("", NewRegistry())
	assert.Equal(t, DefaultName, l.Name())
}

func TestNewRecord(t *testing.T) {
	attrs := []slog.Attr{slog.String("k", "v")}
	r := NewRecord("", xlevel.Warning, "msg", attrs...)
	attrs[0] = slog.String("k", "changed")

	assert.Equal(t, DefaultName, r.Name())
	assert.Equal(t, xlevel.Warning, r.Level())
	assert.Equal(t, "msg", r.Message())
	assert.False(t, r.Time().IsZero())
	assert.Zero(t, r.PC())

	extra := r.Extra()
	require.Len(t, extra, 1)
	assert.Equal(t, "v", extra[0].Value.String())

	extra[0] = slog.String("k", "mutated")
	assert.Equal(t, "v", r.Extra()[0].Value.String())
}
