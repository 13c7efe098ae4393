package xrotate

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/omeyang/xflog/pkg/util/xfile"
)

// Lumberjack 默认配置值
const (
	// DefaultMaxSizeMB 默认单个日志文件最大大小（MB）
	DefaultMaxSizeMB = 500

	// DefaultMaxBackups 默认保留的备份文件数量
	DefaultMaxBackups = 7

	// DefaultMaxAgeDays 默认保留备份的天数
	DefaultMaxAgeDays = 30

	// maxSizeMB 单个日志文件大小上限（10 GB）
	maxSizeMB = 10240

	// maxBackups 备份文件数量上限
	maxBackups = 1024

	// maxAgeDays 备份保留天数上限（约 10 年）
	maxAgeDays = 3650
)

// lumberjackConfig 轮转器配置
type lumberjackConfig struct {
	// MaxSizeMB 超过此大小时触发轮转，必须 > 0
	MaxSizeMB int

	// MaxBackups 保留的备份数量，0 表示不限制（仍受 MaxAgeDays 约束）
	MaxBackups int

	// MaxAgeDays 保留备份的天数，0 表示不按天数清理（仍受 MaxBackups 约束）
	MaxAgeDays int

	// Compress 备份是否 gzip 压缩
	Compress bool

	// LocalTime 备份文件名与定时表达式是否使用本地时间，false 时为 UTC
	LocalTime bool

	// Schedule cron 表达式，非空时按时间定期轮转
	Schedule string

	// SweepAge 每次轮转后按精确时长清理备份，0 表示不额外清理
	SweepAge time.Duration

	// OnError 内部错误回调（定时轮转失败、清理失败），nil 表示静默忽略
	//
	// 回调不得向同一 Rotator 写入，否则可能递归。
	OnError func(error)
}

// Option 轮转器配置选项函数
type Option func(*lumberjackConfig)

// WithMaxSize 设置单个日志文件最大大小（MB）
func WithMaxSize(mb int) Option {
	return func(c *lumberjackConfig) {
		c.MaxSizeMB = mb
	}
}

// WithMaxBackups 设置保留的备份文件数量
func WithMaxBackups(n int) Option {
	return func(c *lumberjackConfig) {
		c.MaxBackups = n
	}
}

// WithMaxAge 设置保留备份的天数
func WithMaxAge(days int) Option {
	return func(c *lumberjackConfig) {
		c.MaxAgeDays = days
	}
}

// WithCompress 设置是否压缩备份文件
func WithCompress(compress bool) Option {
	return func(c *lumberjackConfig) {
		c.Compress = compress
	}
}

// WithLocalTime 设置是否使用本地时间
func WithLocalTime(local bool) Option {
	return func(c *lumberjackConfig) {
		c.LocalTime = local
	}
}

// WithSchedule 设置定时轮转的 cron 表达式（见 [ParseRotation]）
func WithSchedule(spec string) Option {
	return func(c *lumberjackConfig) {
		c.Schedule = spec
	}
}

// WithSweepAge 设置轮转后按精确时长清理备份
func WithSweepAge(d time.Duration) Option {
	return func(c *lumberjackConfig) {
		c.SweepAge = d
	}
}

// WithOnError 设置内部错误回调
//
// 设计决策: 不通过日志库上报内部错误，Rotator 本身就是日志输出目标，
// 写失败再打日志会形成递归。
func WithOnError(fn func(error)) Option {
	return func(c *lumberjackConfig) {
		c.OnError = fn
	}
}

// lumberjackRotator 基于 lumberjack 的 Rotator 实现
//
// lumberjack 负责按大小轮转、备份数量/天数清理与压缩；
// 定时轮转由 robfig/cron 调度 Rotate 完成。
type lumberjackRotator struct {
	logger    *lumberjack.Logger
	path      string
	sweepAge  time.Duration
	localTime bool
	onError   func(error)
	scheduler *cron.Cron // nil 表示未启用定时轮转

	closed atomic.Bool
}

// NewLumberjack 创建基于 lumberjack 的日志轮转器
//
// 会规范化文件路径并创建不存在的父目录（权限 0750）。
// 配置了 Schedule 时启动后台调度 goroutine，Close 时停止。
func NewLumberjack(filename string, opts ...Option) (Rotator, error) {
	if filename == "" {
		return nil, ErrEmptyFilename
	}

	cfg := lumberjackConfig{
		MaxSizeMB:  DefaultMaxSizeMB,
		MaxBackups: DefaultMaxBackups,
		MaxAgeDays: DefaultMaxAgeDays,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	safePath, err := xfile.SanitizePath(filename)
	if err != nil {
		return nil, err
	}
	if err := xfile.EnsureParent(safePath); err != nil {
		return nil, err
	}

	r := &lumberjackRotator{
		logger: &lumberjack.Logger{
			Filename:   safePath,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
			LocalTime:  cfg.LocalTime,
		},
		path:      safePath,
		sweepAge:  cfg.SweepAge,
		localTime: cfg.LocalTime,
		onError:   cfg.OnError,
	}

	if cfg.Schedule != "" {
		if err := r.startSchedule(cfg.Schedule); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// validateConfig 验证配置
func validateConfig(cfg *lumberjackConfig) error {
	if cfg.MaxSizeMB <= 0 || cfg.MaxSizeMB > maxSizeMB {
		return fmt.Errorf("%w: got %d, want 1~%d", ErrInvalidMaxSize, cfg.MaxSizeMB, maxSizeMB)
	}
	if cfg.MaxBackups < 0 || cfg.MaxBackups > maxBackups {
		return fmt.Errorf("%w: got %d, want 0~%d", ErrInvalidMaxBackups, cfg.MaxBackups, maxBackups)
	}
	if cfg.MaxAgeDays < 0 || cfg.MaxAgeDays > maxAgeDays {
		return fmt.Errorf("%w: got %d, want 0~%d", ErrInvalidMaxAge, cfg.MaxAgeDays, maxAgeDays)
	}
	if cfg.MaxBackups == 0 && cfg.MaxAgeDays == 0 {
		return fmt.Errorf("%w: MaxBackups and MaxAgeDays cannot both be 0", ErrNoCleanupPolicy)
	}
	return nil
}

// startSchedule 启动定时轮转
func (r *lumberjackRotator) startSchedule(spec string) error {
	loc := time.UTC
	if r.localTime {
		loc = time.Local
	}
	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(spec, r.scheduledRotate); err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidSchedule, spec, err)
	}
	c.Start()
	r.scheduler = c
	return nil
}

// scheduledRotate 定时任务入口，关闭后的触发被忽略
func (r *lumberjackRotator) scheduledRotate() {
	if err := r.Rotate(); err != nil && !errors.Is(err, ErrClosed) {
		r.reportError(err)
	}
}

// Write 实现 io.Writer 接口
func (r *lumberjackRotator) Write(p []byte) (int, error) {
	if r.closed.Load() {
		return 0, ErrClosed
	}
	n, err := r.logger.Write(p)
	if err != nil && r.closed.Load() {
		// Write 与 Close 之间的 TOCTOU 窗口：统一返回 ErrClosed
		return n, ErrClosed
	}
	return n, err
}

// Rotate 手动触发轮转，成功后按 SweepAge 清理过期备份
func (r *lumberjackRotator) Rotate() error {
	if r.closed.Load() {
		return ErrClosed
	}
	if err := r.logger.Rotate(); err != nil {
		if r.closed.Load() {
			return ErrClosed
		}
		return err
	}
	if r.sweepAge > 0 {
		if _, err := Sweep(r.path, r.sweepAge, time.Now(), r.localTime); err != nil {
			r.reportError(err)
		}
	}
	return nil
}

// Close 实现 io.Closer 接口
//
// 先停止调度并等待进行中的定时轮转结束，再关闭文件。
// 重复调用返回 [ErrClosed]。
func (r *lumberjackRotator) Close() error {
	if r.closed.Swap(true) {
		return ErrClosed
	}
	if r.scheduler != nil {
		<-r.scheduler.Stop().Done()
	}
	return r.logger.Close()
}

// Filename 返回日志文件路径
func (r *lumberjackRotator) Filename() string {
	return r.path
}

// reportError 通过回调上报内部错误，回调 panic 被隔离
func (r *lumberjackRotator) reportError(err error) {
	if err != nil && r.onError != nil {
		defer func() { recover() }() //nolint:errcheck // recover 返回值无需检查
		r.onError(err)
	}
}
