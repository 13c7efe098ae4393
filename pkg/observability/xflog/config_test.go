package xflog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xflog/pkg/observability/xlevel"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, xlevel.Info, cfg.Level)
	assert.True(t, cfg.Console)
	assert.False(t, cfg.File)
	assert.False(t, cfg.JSON)
	assert.Equal(t, "logs", cfg.Dirname)
	assert.Equal(t, "service.log", cfg.Filename)
	assert.Equal(t, "5 MB", cfg.Rotation)
	assert.Equal(t, "180 days", cfg.Retention)
	assert.Equal(t, xlevel.UTF8, cfg.Encoding)
	assert.True(t, cfg.Colorize)
	assert.True(t, cfg.Enqueue)
	assert.True(t, cfg.Backtrace)
	assert.False(t, cfg.Compression)
	assert.Empty(t, cfg.Overrides)
	require.NoError(t, cfg.Validate())
}

func TestNewConfig_Options(t *testing.T) {
	cfg := NewConfig(
		WithLevel(xlevel.Debug),
		WithConsole(false),
		WithFile(true),
		WithJSON(true),
		WithDir("/var/log/app"),
		WithFilename("app.log"),
		WithRotation("1 day"),
		WithRetention("10 files"),
		WithEncoding("gbk"),
		WithPattern("{message}"),
		WithConsolePattern("{level} {message}"),
		WithColorize(false),
		WithCompression(true),
		WithEnqueue(false),
		WithBacktrace(false),
		WithOverride("app.db", xlevel.Error),
		nil,
	)

	assert.Equal(t, xlevel.Debug, cfg.Level)
	assert.False(t, cfg.Console)
	assert.True(t, cfg.File)
	assert.True(t, cfg.JSON)
	assert.Equal(t, "/var/log/app", cfg.Dirname)
	assert.Equal(t, "app.log", cfg.Filename)
	assert.Equal(t, "1 day", cfg.Rotation)
	assert.Equal(t, "10 files", cfg.Retention)
	assert.Equal(t, xlevel.Encoding("gbk"), cfg.Encoding)
	assert.Equal(t, "{message}", cfg.Pattern)
	assert.Equal(t, "{level} {message}", cfg.ConsolePattern)
	assert.False(t, cfg.Colorize)
	assert.True(t, cfg.Compression)
	assert.False(t, cfg.Enqueue)
	assert.False(t, cfg.Backtrace)
	assert.Equal(t, map[string]xlevel.Level{"app.db": xlevel.Error}, cfg.Overrides)
	require.NoError(t, cfg.Validate())
}

func TestConfig_Clone(t *testing.T) {
	cfg := NewConfig(WithOverride("a", xlevel.Debug))
	clone := cfg.Clone()
	clone.Overrides["b"] = xlevel.Error

	assert.NotContains(t, cfg.Overrides, "b")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"default", DefaultConfig(), true},
		{"file defaults", NewConfig(WithFile(true)), true},
		{"file errors ignored when file disabled", NewConfig(WithRotation("bogus")), true},
		{"empty dirname", NewConfig(WithFile(true), WithDir(" ")), false},
		{"filename with separator", NewConfig(WithFile(true), WithFilename("a/b.log")), false},
		{"bad rotation", NewConfig(WithFile(true), WithRotation("every blue moon")), false},
		{"bad retention", NewConfig(WithFile(true), WithRetention("forever")), false},
		{"bad encoding", NewConfig(WithFile(true), WithEncoding("no-such-charset")), false},
		{"bad pattern", NewConfig(WithFile(true), WithPattern("{message")), false},
		{"bad console pattern", NewConfig(WithConsolePattern("{nope}")), false},
		{"bad console pattern ignored without console", NewConfig(WithConsole(false), WithConsolePattern("{nope}")), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

// =============================================================================
// 路径派生
// =============================================================================

func TestJSONPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"logs/service.log", "logs/service-json.log"},
		{"logs/app", "logs/app.json"},
		{"logs/app.txt", "logs/app.txt.json"},
		{"service.log", "service-json.log"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, filepath.FromSlash(tt.want), JSONPath(filepath.FromSlash(tt.in)))
		})
	}
}

func TestDedicatedPath(t *testing.T) {
	p, err := DedicatedPath("logs", "app.db")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("logs", "app.db.log"), p)

	p, err = DedicatedPath("logs", "../etc/passwd")
	require.NoError(t, err)
	assert.Equal(t, "logs", filepath.Dir(p))
}

func TestConfig_Layout(t *testing.T) {
	cfg := NewConfig(WithFile(true), WithJSON(true), WithDir("logs"))
	l, err := cfg.Layout("", DefaultName, "worker")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("logs", "service.log"), l.File)
	assert.Equal(t, filepath.Join("logs", "service-json.log"), l.JSON)
	assert.Equal(t, map[string]string{"worker": filepath.Join("logs", "worker.log")}, l.Dedicated)

	l, err = DefaultConfig().Layout("worker")
	require.NoError(t, err)
	assert.Equal(t, Layout{}, l)
}
