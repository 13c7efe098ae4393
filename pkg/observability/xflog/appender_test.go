package xflog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xflog/pkg/observability/xlevel"
	"github.com/omeyang/xflog/pkg/observability/xsink"
)

func newEngine(t *testing.T) *xsink.Engine {
	t.Helper()
	e := xsink.New()
	t.Cleanup(func() { _ = e.RemoveAll() })
	return e
}

func TestConsoleAppender_Emit(t *testing.T) {
	engine := newEngine(t)
	buf := &syncBuffer{}
	a := NewConsoleAppender(engine, buf, xlevel.Info, simplePattern, false)

	assert.Equal(t, KindConsole, a.Kind())
	assert.Equal(t, "stdout", a.Destination())
	assert.Equal(t, "console(stdout, INFO)", a.String())

	require.ErrorIs(t, a.Emit(NewRecord("app", xlevel.Info, "early")), ErrNoSink)

	require.NoError(t, a.AddSink(nil))
	require.ErrorIs(t, a.AddSink(nil), ErrSinkAdded)

	require.NoError(t, a.Emit(NewRecord("app", xlevel.Warning, "hello")))
	require.NoError(t, a.Emit(NewRecord("app", xlevel.Debug, "below threshold")))

	assert.Equal(t, []string{"WARNING|app|[app] hello"}, buf.Lines())
}

func TestConsoleAppender_EmptyPatternUsesConsoleLayout(t *testing.T) {
	buf := &syncBuffer{}
	a := NewConsoleAppender(newEngine(t), buf, xlevel.Info, "", false)
	require.NoError(t, a.AddSink(nil))
	require.NoError(t, a.Emit(NewRecord("app", xlevel.Info, "hello")))

	lines := buf.Lines()
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], " | INFO     | app | [app] hello")
	assert.NotContains(t, lines[0], " - ", "file layout must not leak into console")
}

func TestConsoleAppender_NilWriter(t *testing.T) {
	a := NewConsoleAppender(newEngine(t), nil, xlevel.Info, simplePattern, false)
	require.ErrorIs(t, a.AddSink(nil), ErrInvalidConfig)
}

func TestConsoleAppender_Filter(t *testing.T) {
	engine := newEngine(t)
	buf := &syncBuffer{}
	a := NewConsoleAppender(engine, buf, xlevel.Info, simplePattern, false)
	require.NoError(t, a.AddSink(xsink.NameIs("worker")))

	require.NoError(t, a.Emit(NewRecord("api", xlevel.Info, "skipped")))
	require.NoError(t, a.Emit(NewRecord("worker", xlevel.Info, "kept")))

	assert.Equal(t, []string{"INFO|worker|[worker] kept"}, buf.Lines())
}

func TestFileAppender_Emit(t *testing.T) {
	dir := t.TempDir()
	engine := xsink.New()
	path := filepath.Join(dir, "sub", "app.log")

	a, err := NewFileAppender(engine, path, xlevel.Info, fileConfig(dir, WithEnqueue(true)), nil)
	require.NoError(t, err)
	assert.Equal(t, KindFile, a.Kind())
	assert.Equal(t, path, a.Destination())

	// 父目录在创建时即存在
	_, err = os.Stat(filepath.Dir(path))
	require.NoError(t, err)

	require.NoError(t, a.AddSink(nil))
	require.NoError(t, a.Emit(NewRecord("job", xlevel.Error, "failed")))
	require.NoError(t, engine.RemoveAll())

	assert.Equal(t, "ERROR|job|[job] failed\n", readFile(t, path))
}

func TestJSONAppender_Emit(t *testing.T) {
	dir := t.TempDir()
	engine := newEngine(t)
	path := JSONPath(filepath.Join(dir, "service.log"))

	a, err := NewJSONAppender(engine, path, xlevel.Info, fileConfig(dir), nil)
	require.NoError(t, err)
	assert.Equal(t, KindJSON, a.Kind())

	require.NoError(t, a.AddSink(nil))
	require.NoError(t, a.Emit(NewRecord("job", xlevel.Info, "ok")))

	assert.Contains(t, readFile(t, path), `"msg":"[job] ok"`)
}

func TestFileAppender_Errors(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	tests := []struct {
		name string
		path string
		cfg  Config
		want error
	}{
		{"traversal", "logs/../../etc/app.log", fileConfig(dir), ErrInvalidConfig},
		{"empty", "", fileConfig(dir), ErrInvalidConfig},
		{"parent is a file", filepath.Join(blocker, "app.log"), fileConfig(dir), ErrCreateDir},
		{"bad rotation", filepath.Join(dir, "app.log"), fileConfig(dir, WithRotation("never")), ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFileAppender(newEngine(t), tt.path, xlevel.Info, tt.cfg, nil)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRotatorOptions(t *testing.T) {
	opts, err := rotatorOptions(fileConfig("logs", WithRotation("00:00"), WithRetention("3 files")), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, opts)

	_, err = rotatorOptions(fileConfig("logs", WithRetention("-1 files")), nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
