package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xflog/pkg/config/xconf"
)

// runApp 以给定参数运行 CLI，返回标准输出与错误输出
func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := createApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	err := app.Run(context.Background(), append([]string{"xflogctl"}, args...))
	return out.String(), errOut.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "xflog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func isUsage(err error) bool {
	var u *usageError
	return errors.As(err, &u)
}

// =============================================================================
// emit
// =============================================================================

func TestEmit_DefaultConfig(t *testing.T) {
	out, _, err := runApp(t, "emit", "--name", "app.db", "--level", "warning", "--attr", "ms=120", "slow", "query")
	require.NoError(t, err)
	assert.Contains(t, out, "| WARNING  | app.db | slow query ms=120")
}

func TestEmit_BelowLevel(t *testing.T) {
	out, _, err := runApp(t, "emit", "--level", "debug", "hidden")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestEmit_FileConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `
logging:
  console: false
  file: true
  dirname: `+dir+`
  pattern: "{level}|{name}|{message}{extra}"
  overrides:
    app.db: error
`)
	out, _, err := runApp(t, "--config", path, "emit", "--name", "app.web", "--attr", "k=v", "hello")
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(filepath.Join(dir, "service.log"))
	require.NoError(t, err)
	assert.Equal(t, "INFO|app.web|hello k=v\n", string(data))

	data, err = os.ReadFile(filepath.Join(dir, "app.web.log"))
	require.NoError(t, err)
	assert.Equal(t, "INFO|app.web|hello k=v\n", string(data))

	// 覆盖规则生效
	_, _, err = runApp(t, "--config", path, "emit", "--name", "app.db", "ignored")
	require.NoError(t, err)
	data, err = os.ReadFile(filepath.Join(dir, "service.log"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "ignored")
}

func TestEmit_Errors(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		usage bool
		is    error
	}{
		{"no message", []string{"emit"}, true, nil},
		{"bad level", []string{"emit", "--level", "loud", "x"}, true, nil},
		{"bad attr", []string{"emit", "--attr", "novalue", "x"}, true, nil},
		{"missing config", []string{"--config", "/nonexistent/xflog.yaml", "emit", "x"}, false, xconf.ErrLoadFailed},
		{"unsupported config", []string{"--config", "xflog.toml", "emit", "x"}, false, xconf.ErrUnsupportedFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runApp(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.usage, isUsage(err))
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

// =============================================================================
// paths / level
// =============================================================================

func TestPaths(t *testing.T) {
	path := writeConfig(t, "logging:\n  file: true\n  json: true\n  dirname: logs\n")
	out, _, err := runApp(t, "--config", path, "paths", "worker", "api", "default")
	require.NoError(t, err)

	assert.Equal(t, strings.Join([]string{
		"file\t" + filepath.Join("logs", "service.log"),
		"json\t" + filepath.Join("logs", "service-json.log"),
		"api\t" + filepath.Join("logs", "api.log"),
		"worker\t" + filepath.Join("logs", "worker.log"),
	}, "\n")+"\n", out)
}

func TestPaths_FileDisabled(t *testing.T) {
	out, _, err := runApp(t, "paths")
	require.NoError(t, err)
	assert.Equal(t, "file output disabled\n", out)
}

func TestLevel(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: warning
  overrides:
    app: error
    app.db: debug
`)
	out, _, err := runApp(t, "--config", path, "level", "app.db.pool", "app.web", "other")
	require.NoError(t, err)
	assert.Equal(t, "app.db.pool\tDEBUG\napp.web\tERROR\nother\tWARNING\n", out)

	_, _, err = runApp(t, "level")
	assert.True(t, isUsage(err))
}

func TestLevel_CustomKey(t *testing.T) {
	path := writeConfig(t, "log:\n  level: trace\n")
	out, _, err := runApp(t, "--config", path, "--key", "log", "level", "x")
	require.NoError(t, err)
	assert.Equal(t, "x\tTRACE\n", out)
}

// =============================================================================
// watch
// =============================================================================

func TestWatch_Heartbeats(t *testing.T) {
	path := writeConfig(t, "logging:\n  console_pattern: \"{level}|{name}|{message}{extra}\"\n")
	out, _, err := runApp(t, "--config", path, "watch", "--interval", "10ms", "--count", "2", "--name", "hb")
	require.NoError(t, err)
	assert.Equal(t, "INFO|hb|heartbeat beat=1\nINFO|hb|heartbeat beat=2\n", out)
}

func TestWatch_CanceledContext(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: info\n")
	app := createApp()
	var out bytes.Buffer
	app.Writer = &out
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, app.Run(ctx, []string{"xflogctl", "--config", path, "watch", "--interval", "1h"}))
	assert.Empty(t, out.String())
}

func TestWatch_UsageErrors(t *testing.T) {
	_, _, err := runApp(t, "watch")
	assert.True(t, isUsage(err))

	path := writeConfig(t, "logging: {}\n")
	_, _, err = runApp(t, "--config", path, "watch", "--interval", "0s")
	assert.True(t, isUsage(err))

	_, _, err = runApp(t, "--config", path, "watch", "--count=-1")
	assert.True(t, isUsage(err))
}

// =============================================================================
// 退出码
// =============================================================================

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, 2, exitCode(usagef("bad")))
	assert.Equal(t, 1, exitCode(errors.New("boom")))
}
