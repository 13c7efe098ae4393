package xflog

import (
	"errors"
	"sync"

	"github.com/omeyang/xflog/pkg/observability/xlevel"
)

// Manager 按名称缓存 Logger，并在首次使用时确保 Registry 已有默认配置
type Manager struct {
	mu         sync.Mutex
	configured bool
	loggers    map[string]*Logger
	registry   *Registry
}

// NewManager 创建 Manager，r 为 nil 时使用新的 [NewRegistry]
func NewManager(r *Registry) *Manager {
	if r == nil {
		r = NewRegistry()
	}
	return &Manager{
		loggers:  make(map[string]*Logger),
		registry: r,
	}
}

// Registry 返回底层 Registry
func (m *Manager) Registry() *Registry { return m.registry }

// GetLogger 返回名称对应的 Logger，name 为空时使用 [DefaultName]
//
// 首次调用时若 Registry 未配置，以 [DefaultConfig] 配置，且并发首调只配置一次。
// 同名多次调用返回同一实例。非默认名称首次创建时追加专属文件
// （仅当前配置启用 File 时）。配置或专属文件失败不会阻止返回 Logger，
// 错误交给 Registry 的 OnError 回调。
func (m *Manager) GetLogger(name string) *Logger {
	if name == "" {
		name = DefaultName
	}

	l, err := m.getLogger(name)
	// 回调在锁外执行，回调内可以再次 GetLogger
	m.registry.handleError(err)
	return l
}

func (m *Manager) getLogger(name string) (*Logger, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	if !m.configured {
		if err := m.registry.EnsureDefault(); err != nil {
			errs = append(errs, err)
		} else {
			m.configured = true
		}
	}

	if l, ok := m.loggers[name]; ok {
		return l, errors.Join(errs...)
	}
	l := newLogger(name, m.registry)
	m.loggers[name] = l
	if name != DefaultName {
		if err := m.registry.AddFileSink(name); err != nil {
			errs = append(errs, err)
		}
	}
	return l, errors.Join(errs...)
}

// Configure 配置 Registry，并为已缓存的命名 Logger 重新挂上专属文件
func (m *Manager) Configure(cfg Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.registry.Configure(cfg); err != nil {
		// 失败时 Registry 回到未配置状态；配置校验失败时保持原状
		m.configured = m.registry.Configured()
		return err
	}
	m.configured = true
	return m.reattachLocked()
}

func (m *Manager) reattachLocked() error {
	var errs []error
	for name := range m.loggers {
		if name == DefaultName {
			continue
		}
		if err := m.registry.AddFileSink(name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Reset 重置 Registry 并清空 Logger 缓存
//
// 已发放的 Logger 仍可使用，但不会再触发默认配置；Registry 未配置时其记录无 sink 接收。
func (m *Manager) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configured = false
	clear(m.loggers)
	return m.registry.Reset()
}

// SetLevel 设置名称前缀的级别覆盖
func (m *Manager) SetLevel(prefix string, level xlevel.Level) {
	m.registry.SetLevel(prefix, level)
}

// Close 关闭全部 sink，排空异步写队列
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configured = false
	return m.registry.Close()
}
