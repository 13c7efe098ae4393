package xflog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/mattn/go-isatty"
	"go.opentelemetry.io/otel/metric"

	"github.com/omeyang/xflog/pkg/observability/xlevel"
	"github.com/omeyang/xflog/pkg/observability/xsink"
	"github.com/omeyang/xflog/pkg/util/xfile"
)

// Registry 持有 sink 生命周期、全局级别、前缀级别覆盖和当前配置，并负责路由记录
//
// 所有状态由一把读写锁保护。持锁路径只调用 ...Locked 辅助函数，不重复加锁。
type Registry struct {
	mu          sync.RWMutex
	configured  bool
	appenders   []Appender
	globalLevel xlevel.Level
	overrides   map[string]xlevel.Level
	active      *Config
	dedicated   map[string]struct{}

	engine     *xsink.Engine
	stdout     io.Writer
	forceColor bool
	metrics    *metrics
	onError    func(error)

	// inErrorHandler 防止 onError 回调内再次触发错误时递归
	inErrorHandler atomic.Bool
}

// Option Registry 配置选项
type Option func(*registryOptions)

type registryOptions struct {
	stdout        io.Writer
	forceColor    bool
	meterProvider metric.MeterProvider
	onError       func(error)
}

// WithStdout 设置控制台输出目标，默认 os.Stdout
func WithStdout(w io.Writer) Option {
	return func(o *registryOptions) {
		if w != nil {
			o.stdout = w
		}
	}
}

// WithForceColor 控制台输出不是终端时也着色（仍受 Config.Colorize 约束）
func WithForceColor(force bool) Option {
	return func(o *registryOptions) {
		o.forceColor = force
	}
}

// WithMeterProvider 设置指标 MeterProvider，默认使用 otel 全局 provider
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(o *registryOptions) {
		if provider != nil {
			o.meterProvider = provider
		}
	}
}

// WithOnError 设置内部错误回调
//
// sink 写失败、轮转失败、惰性默认配置失败都不会传播给日志调用方，
// 而是计入 xflog.records.errors 并通过此回调通知。回调 panic 被隔离。
//
// 回调可能在写队列 goroutine 中执行，而此时 Configure/Reset 正持锁等待队列
// 排空，因此回调内不得同步调用 Registry 的 Configure、Reset、Close 与
// AddFileSink。Manager.GetLogger 在释放自身锁后才上报错误，回调内可以调用。
func WithOnError(fn func(error)) Option {
	return func(o *registryOptions) {
		o.onError = fn
	}
}

// NewRegistry 创建未配置的 Registry
func NewRegistry(opts ...Option) *Registry {
	o := registryOptions{stdout: os.Stdout}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	r := &Registry{
		globalLevel: xlevel.Info,
		overrides:   make(map[string]xlevel.Level),
		dedicated:   make(map[string]struct{}),
		stdout:      o.stdout,
		forceColor:  o.forceColor,
		metrics:     newMetrics(o.meterProvider),
		onError:     o.onError,
	}
	r.engine = xsink.New(xsink.WithOnError(r.handleError))
	return r
}

// =============================================================================
// 配置状态机
// =============================================================================

// Configure 按配置重建全部 sink
//
// 先移除引擎中所有已注册的 sink，再按配置注册 Console/File/JSON。
// 配置中的 Overrides 合并进已有覆盖规则。
// 移除旧 sink 失败时不再构建新 sink；移除失败或构建失败都会让 Registry
// 回到未配置状态（级别与覆盖规则不变），错误返回给调用方。
func (r *Registry) Configure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.configureLocked(cfg.Clone())
}

func (r *Registry) configureLocked(cfg Config) error {
	if err := r.removeAllLocked(); err != nil {
		r.configured = false
		r.active = nil
		return err
	}

	r.globalLevel = cfg.Level
	maps.Copy(r.overrides, cfg.Overrides)

	if err := r.buildLocked(cfg); err != nil {
		rollbackErr := r.removeAllLocked()
		r.configured = false
		r.active = nil
		return errors.Join(err, rollbackErr)
	}

	r.active = &cfg
	r.configured = true
	return nil
}

// buildLocked 按配置创建并注册 Appender
func (r *Registry) buildLocked(cfg Config) error {
	if cfg.Console {
		console := NewConsoleAppender(r.engine, r.stdout, r.globalLevel, cfg.ConsolePattern, r.colorize(cfg))
		if err := r.attachLocked(console, nil); err != nil {
			return err
		}
	}
	if !cfg.File {
		return nil
	}

	if err := xfile.EnsureDir(cfg.Dirname); err != nil {
		return fmt.Errorf("%w: %w", ErrCreateDir, err)
	}
	path, err := cfg.FilePath()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	file, err := NewFileAppender(r.engine, path, r.globalLevel, cfg, r.handleError)
	if err != nil {
		return err
	}
	if err := r.attachLocked(file, nil); err != nil {
		return err
	}

	if cfg.JSON {
		js, err := NewJSONAppender(r.engine, JSONPath(path), r.globalLevel, cfg, r.handleError)
		if err != nil {
			return err
		}
		if err := r.attachLocked(js, nil); err != nil {
			return err
		}
	}
	return nil
}

// attachLocked 注册 Appender 的 sink 并加入列表
func (r *Registry) attachLocked(a Appender, filter xsink.Filter) error {
	if err := a.AddSink(filter); err != nil {
		return err
	}
	r.appenders = append(r.appenders, a)
	r.metrics.sinksChanged(1)
	return nil
}

// removeAllLocked 移除引擎中全部 sink 并清空 Appender 列表
func (r *Registry) removeAllLocked() error {
	r.metrics.sinksChanged(-len(r.appenders))
	r.appenders = nil
	clear(r.dedicated)
	return r.engine.RemoveAll()
}

// colorize 控制台是否着色：配置允许且输出为终端（或强制着色）
func (r *Registry) colorize(cfg Config) bool {
	if !cfg.Colorize {
		return false
	}
	return r.forceColor || isTerminal(r.stdout)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// EnsureDefault 未配置时以 [DefaultConfig] 配置，已配置时不做任何事
func (r *Registry) EnsureDefault() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.configured {
		return nil
	}
	return r.configureLocked(DefaultConfig())
}

// AddFileSink 为命名 logger 追加专属文件 dirname/{name}.log
//
// 只在当前配置启用了 File 时生效；专属文件只接收该名称的记录。
// 同一名称在配置不变期间重复调用不会重复注册。
func (r *Registry) AddFileSink(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addFileSinkLocked(name)
}

func (r *Registry) addFileSinkLocked(name string) error {
	if r.active == nil || !r.active.File {
		return nil
	}
	if _, ok := r.dedicated[name]; ok {
		return nil
	}
	path, err := DedicatedPath(r.active.Dirname, name)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	file, err := NewFileAppender(r.engine, path, r.globalLevel, *r.active, r.handleError)
	if err != nil {
		return err
	}
	if err := r.attachLocked(file, xsink.NameIs(name)); err != nil {
		return err
	}
	r.dedicated[name] = struct{}{}
	return nil
}

// Reset 移除全部 sink，回到初始状态（全局级别 INFO、无覆盖规则、未配置）
//
// 移除错误会返回，但状态仍会被重置。
func (r *Registry) Reset() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	err := r.removeAllLocked()
	r.configured = false
	r.active = nil
	r.globalLevel = xlevel.Info
	clear(r.overrides)
	return err
}

// Close 移除并关闭全部 sink，排空异步写队列；之后仍可重新 Configure
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	err := r.removeAllLocked()
	r.configured = false
	r.active = nil
	return err
}

// SetLevel 设置名称前缀的级别覆盖，立即作用于后续路由
func (r *Registry) SetLevel(prefix string, level xlevel.Level) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides[prefix] = level
}

// =============================================================================
// 路由
// =============================================================================

// Route 按有效级别过滤后把记录交给引擎
//
// 低于有效级别的记录静默丢弃。名称作为路由元数据（xsink.Entry.Name）传递，
// 专属文件的过滤器据此匹配。ctx 中的 span 上下文会注入 trace_id/span_id。
// 写入错误不返回给调用方，见 [WithOnError]。
func (r *Registry) Route(ctx context.Context, rec Record) {
	if ctx == nil {
		ctx = context.Background()
	}

	r.mu.RLock()
	effective := r.effectiveLevelLocked(rec.name)
	r.mu.RUnlock()

	if !xlevel.ShouldLog(rec.level, effective) {
		r.metrics.recordDiscarded(ctx, rec.level)
		return
	}

	e := rec.entry()
	e.Attrs = appendTraceAttrs(slices.Clip(e.Attrs), ctx)
	if err := r.engine.Write(ctx, e); err != nil {
		r.handleError(err)
	}
	r.metrics.recordRouted(ctx, rec.level)
}

// effectiveLevelLocked 最长匹配前缀的覆盖级别，无匹配时为全局级别
//
// 前缀匹配是纯字符串前缀比较，不区分路径段。空前缀不参与匹配，全局级别
// 只能通过 Configure 修改。
func (r *Registry) effectiveLevelLocked(name string) xlevel.Level {
	best, level := 0, r.globalLevel
	for prefix, lv := range r.overrides {
		if len(prefix) > best && len(name) >= len(prefix) && name[:len(prefix)] == prefix {
			best, level = len(prefix), lv
		}
	}
	return level
}

// handleError 计数并通过回调上报内部错误
func (r *Registry) handleError(err error) {
	if err == nil {
		return
	}
	r.metrics.recordError(context.Background())
	if r.onError == nil || !r.inErrorHandler.CompareAndSwap(false, true) {
		return
	}
	defer r.inErrorHandler.Store(false)
	defer func() { recover() }() //nolint:errcheck // 回调 panic 不扩散到业务调用链
	r.onError(err)
}

// =============================================================================
// 查询
// =============================================================================

// EffectiveLevel 返回名称当前生效的级别
func (r *Registry) EffectiveLevel(name string) xlevel.Level {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.effectiveLevelLocked(name)
}

// Level 返回全局级别
func (r *Registry) Level() xlevel.Level {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.globalLevel
}

// Overrides 返回覆盖规则副本
func (r *Registry) Overrides() map[string]xlevel.Level {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.overrides)
}

// Appenders 返回当前 Appender 列表副本（注册顺序）
func (r *Registry) Appenders() []Appender {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.appenders)
}

// ActiveConfig 返回当前配置，未配置时 ok 为 false
func (r *Registry) ActiveConfig() (Config, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.active == nil {
		return Config{}, false
	}
	return r.active.Clone(), true
}

// Configured 报告是否已配置
func (r *Registry) Configured() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.configured
}
