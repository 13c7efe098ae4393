package xflog

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/omeyang/xflog/pkg/observability/xlevel"
)

func TestHandler_RoutesThroughRegistry(t *testing.T) {
	m, buf := newTestManager(t, consoleConfig())
	m.SetLevel("app.db", xlevel.Error)

	web := m.GetLogger("app.web").With(slog.String("svc", "web")).Slog()
	db := m.GetLogger("app.db").Slog()

	web.Info("served", "status", 200)
	web.Debug("hidden")
	db.Warn("dropped by override")
	db.Error("kept")

	assert.Equal(t, []string{
		"INFO|app.web|served svc=web status=200",
		"ERROR|app.db|kept",
	}, buf.Lines())
}

func TestHandler_Enabled(t *testing.T) {
	m, _ := newTestManager(t, consoleConfig())
	m.SetLevel("quiet", xlevel.Critical)
	h := m.GetLogger("quiet").Handler()
	ctx := context.Background()

	assert.False(t, h.Enabled(ctx, slog.LevelError))
	assert.True(t, h.Enabled(ctx, xlevel.Critical.Slog()))
	assert.True(t, h.Enabled(ctx, xlevel.Success.Slog()), "SUCCESS fails open")
}

func TestHandler_GroupsAndAttrs(t *testing.T) {
	m, buf := newTestManager(t, consoleConfig())
	l := m.GetLogger("app").Slog().
		With("a", 1).
		WithGroup("req").
		With("id", "r1").
		WithGroup("db")

	l.Info("q", "ms", 3)
	assert.Equal(t, []string{"INFO|app|q a=1 req.id=r1 req.db.ms=3"}, buf.Lines())
}

func TestHandler_CallerLocation(t *testing.T) {
	m, buf := newTestManager(t, NewConfig(WithConsolePattern("{file}:{line}|{message}")))
	l := m.GetLogger("app").Slog()

	_, _, base, _ := runtime.Caller(0)
	l.Info("here")

	assert.Equal(t, []string{fmt.Sprintf("handler_test.go:%d|here", base+1)}, buf.Lines())
}
