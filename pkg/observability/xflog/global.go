package xflog

import (
	"sync"
	"sync/atomic"

	"github.com/omeyang/xflog/pkg/observability/xlevel"
)

// =============================================================================
// 进程级默认 Manager
//
// 定位：脚手架/小工具等简单场景。
// 服务端推荐依赖注入（显式持有 Manager 或 Registry）。
// =============================================================================

var (
	globalManager atomic.Pointer[Manager]
	globalMu      sync.Mutex
	globalOnce    sync.Once
)

// defaultManager 惰性创建默认 Manager
//
// 在持锁状态下执行 once.Do，ResetDefault 重置 globalOnce 时不会与 Do 并发。
func defaultManager() *Manager {
	globalMu.Lock()
	defer globalMu.Unlock()

	globalOnce.Do(func() {
		globalManager.Store(NewManager(NewRegistry()))
	})
	return globalManager.Load()
}

// Default 返回进程级默认 Manager
func Default() *Manager {
	if m := globalManager.Load(); m != nil {
		return m
	}
	return defaultManager()
}

// SetDefault 替换进程级默认 Manager，nil 被忽略
//
// 旧 Manager 的 sink 不会被关闭，由调用方负责。
func SetDefault(m *Manager) {
	if m == nil {
		return
	}
	globalManager.Store(m)
}

// ResetDefault 关闭并丢弃默认 Manager，下次使用时重新创建（用于测试）
func ResetDefault() error {
	globalMu.Lock()
	defer globalMu.Unlock()
	old := globalManager.Swap(nil)
	globalOnce = sync.Once{}
	if old == nil {
		return nil
	}
	return old.Reset()
}

// GetLogger 从默认 Manager 获取 Logger
func GetLogger(name string) *Logger {
	return Default().GetLogger(name)
}

// Configure 配置默认 Manager
func Configure(cfg Config) error {
	return Default().Configure(cfg)
}

// Reset 重置默认 Manager 的 Registry 与 Logger 缓存
func Reset() error {
	return Default().Reset()
}

// SetLevel 在默认 Manager 上设置前缀级别覆盖
func SetLevel(prefix string, level xlevel.Level) {
	Default().SetLevel(prefix, level)
}
