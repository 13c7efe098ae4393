package xconf

import (
	"bytes"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xflog/pkg/observability/xflog"
	"github.com/omeyang/xflog/pkg/observability/xlevel"
)

// waitFor 轮询直到 cond 成立或超时
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 3*time.Second, 10*time.Millisecond)
}

// replaceFile 以写临时文件再 rename 的方式原子替换内容
func replaceFile(t *testing.T, path, content string) {
	t.Helper()
	tmp := path + ".tmp"
	require.NoError(t, os.WriteFile(tmp, []byte(content), 0o600))
	require.NoError(t, os.Rename(tmp, path))
}

func TestWatch_Reload(t *testing.T) {
	path := writeConfig(t, "app.yaml", "value: 1\n")
	cfg, err := New(path)
	require.NoError(t, err)

	var mu sync.Mutex
	var calls int
	var lastErr error
	w, err := Watch(cfg, func(_ Config, err error) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		lastErr = err
	}, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	w.StartAsync()
	w.StartAsync()
	defer func() { _ = w.Stop() }()

	replaceFile(t, path, "value: 2\n")
	waitFor(t, func() bool { return cfg.Client().Int("value") == 2 })

	mu.Lock()
	assert.GreaterOrEqual(t, calls, 1)
	assert.NoError(t, lastErr)
	mu.Unlock()
}

func TestWatch_IgnoresOtherFiles(t *testing.T) {
	path := writeConfig(t, "app.yaml", "value: 1\n")
	cfg, err := New(path)
	require.NoError(t, err)

	called := make(chan struct{}, 1)
	w, err := Watch(cfg, func(Config, error) {
		select {
		case called <- struct{}{}:
		default:
		}
	}, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	w.StartAsync()
	defer func() { _ = w.Stop() }()

	require.NoError(t, os.WriteFile(path+".bak", []byte("x"), 0o600))
	select {
	case <-called:
		t.Fatal("callback fired for unrelated file")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatch_Errors(t *testing.T) {
	fromBytes, err := NewFromBytes([]byte("a: 1"), FormatYAML)
	require.NoError(t, err)
	_, err = Watch(fromBytes, nil)
	assert.ErrorIs(t, err, ErrReloadBytes)

	_, err = Watch(fakeConfig{}, nil)
	assert.ErrorIs(t, err, ErrUnsupportedConfig)
}

type fakeConfig struct{ Config }

func TestWatch_StopIdempotent(t *testing.T) {
	cfg, err := New(writeConfig(t, "app.yaml", "a: 1\n"))
	require.NoError(t, err)
	w, err := Watch(cfg, nil)
	require.NoError(t, err)

	// 未启动也能停止并释放 fsnotify 资源
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
	w.StartAsync()
}

func TestApplyLogging(t *testing.T) {
	path := writeConfig(t, "log.yaml", "logging:\n  level: info\n  console_pattern: \"{level}|{name}|{message}\"\n")
	cfg, err := New(path)
	require.NoError(t, err)

	var out bytes.Buffer
	var outMu sync.Mutex
	m := xflog.NewManager(xflog.NewRegistry(xflog.WithStdout(writerFunc(func(p []byte) (int, error) {
		outMu.Lock()
		defer outMu.Unlock()
		return out.Write(p)
	}))))
	defer func() { _ = m.Close() }()

	initial, err := cfg.Logging(DefaultLoggingKey)
	require.NoError(t, err)
	require.NoError(t, m.Configure(initial))

	var errMu sync.Mutex
	var errs []error
	onError := func(err error) {
		errMu.Lock()
		errs = append(errs, err)
		errMu.Unlock()
	}
	w, err := Watch(cfg, ApplyLogging(DefaultLoggingKey, m.Configure, onError), WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	w.StartAsync()
	defer func() { _ = w.Stop() }()

	replaceFile(t, path, "logging:\n  level: error\n  console_pattern: \"{level}|{name}|{message}\"\n")
	waitFor(t, func() bool { return m.Registry().Level() == xlevel.Error })

	m.GetLogger("app").Warning("dropped")
	m.GetLogger("app").Error("kept")
	outMu.Lock()
	assert.Equal(t, "ERROR|app|kept\n", out.String())
	outMu.Unlock()

	// 非法配置不影响当前日志配置
	replaceFile(t, path, "logging:\n  level: loud\n")
	waitFor(t, func() bool {
		errMu.Lock()
		defer errMu.Unlock()
		return len(errs) > 0
	})
	assert.Equal(t, xlevel.Error, m.Registry().Level())
	errMu.Lock()
	assert.ErrorIs(t, errs[0], ErrUnmarshalFailed)
	errMu.Unlock()
}

func TestApplyLogging_ReloadError(t *testing.T) {
	var got error
	cb := ApplyLogging(DefaultLoggingKey, func(xflog.Config) error {
		t.Fatal("configure must not run on reload error")
		return nil
	}, func(err error) { got = err })

	reloadErr := errors.New("reload failed")
	cb(nil, reloadErr)
	assert.ErrorIs(t, got, reloadErr)
}

type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }
