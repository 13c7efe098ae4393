package xconf

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/omeyang/xflog/pkg/observability/xflog"
)

// DefaultDebounce 默认防抖时间
const DefaultDebounce = 100 * time.Millisecond

// WatchCallback 重载回调，err 非 nil 表示重载或监视失败，此时 cfg 仍是旧配置
type WatchCallback func(cfg Config, err error)

// Watcher 配置文件监视器，文件变更后重载并回调
type Watcher struct {
	cfg      *koanfConfig
	watcher  *fsnotify.Watcher
	callback WatchCallback
	debounce time.Duration
	ctx      context.Context
	cancel   context.CancelFunc

	mu      sync.Mutex
	running bool
	timer   *time.Timer
}

// WatchOption 监视器选项
type WatchOption func(*watchOptions)

type watchOptions struct {
	debounce time.Duration
}

// WithDebounce 设置防抖时间，窗口内的多次变更只触发一次重载；非正值被忽略
func WithDebounce(d time.Duration) WatchOption {
	return func(o *watchOptions) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// Watch 创建监视器，需调用 Start/StartAsync 开始、Stop 结束
//
// 监视文件所在目录而非文件本身：编辑器保存时可能先删除再创建，
// 或写临时文件后 rename，直接监视文件会丢失事件。
func Watch(cfg Config, callback WatchCallback, opts ...WatchOption) (*Watcher, error) {
	kc, ok := cfg.(*koanfConfig)
	if !ok {
		return nil, ErrUnsupportedConfig
	}
	if kc.isBytes {
		return nil, ErrReloadBytes
	}

	options := watchOptions{debounce: DefaultDebounce}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("xconf: create watcher: %w", err)
	}
	dir := filepath.Dir(kc.path)
	if err := fsWatcher.Add(dir); err != nil {
		return nil, errors.Join(fmt.Errorf("xconf: watch directory %s: %w", dir, err), fsWatcher.Close())
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		cfg:      kc,
		watcher:  fsWatcher,
		callback: callback,
		debounce: options.debounce,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Start 在当前 goroutine 运行监视循环，直到 Stop
func (w *Watcher) Start() {
	if !w.markRunning() {
		return
	}
	w.run()
}

// StartAsync 在后台 goroutine 运行监视循环
func (w *Watcher) StartAsync() {
	if !w.markRunning() {
		return
	}
	go w.run()
}

// markRunning 先置位再启动循环，避免与 Stop 竞争
func (w *Watcher) markRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running || w.ctx.Err() != nil {
		return false
	}
	w.running = true
	return true
}

// Stop 停止监视；可重复调用，回调中调用不会死锁
//
// 返回后不会再触发新的重载，已在执行的回调不受影响。
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.ctx.Err() != nil {
		w.mu.Unlock()
		return nil
	}
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.cancel()
	w.running = false
	w.mu.Unlock()
	return w.watcher.Close()
}

func (w *Watcher) run() {
	filename := filepath.Base(w.cfg.path)
	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event, filename)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.notify(fmt.Errorf("xconf: watch: %w", err))
		}
	}
}

// handleEvent 目标文件的 Write/Create/Rename 事件触发防抖重载
func (w *Watcher) handleEvent(event fsnotify.Event, filename string) {
	if filepath.Base(event.Name) != filename {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ctx.Err() != nil {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if w.ctx.Err() != nil {
			return
		}
		w.notify(w.cfg.Reload())
	})
}

func (w *Watcher) notify(err error) {
	if w.callback != nil {
		w.callback(w.cfg, err)
	}
}

// ApplyLogging 返回把 key 下的日志配置交给 configure 的回调
//
// 重载失败、解析失败、configure 失败都交给 onError，旧的日志配置保持不变。
// 典型用法是 configure 传 [xflog.Manager.Configure]。
func ApplyLogging(key string, configure func(xflog.Config) error, onError func(error)) WatchCallback {
	return func(c Config, err error) {
		if err == nil {
			var cfg xflog.Config
			if cfg, err = c.Logging(key); err == nil {
				err = configure(cfg)
			}
		}
		if err != nil && onError != nil {
			onError(err)
		}
	}
}
