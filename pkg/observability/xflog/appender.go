package xflog

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/omeyang/xflog/pkg/observability/xlevel"
	"github.com/omeyang/xflog/pkg/observability/xrotate"
	"github.com/omeyang/xflog/pkg/observability/xsink"
	"github.com/omeyang/xflog/pkg/util/xfile"
)

// Kind Appender 类型
type Kind string

// Appender 类型
const (
	KindConsole Kind = "console"
	KindFile    Kind = "file"
	KindJSON    Kind = "json"
)

// Appender 对一个引擎 sink 的封装：负责注册自身，并可直接向自身 sink 写入
type Appender interface {
	// Kind 返回类型
	Kind() Kind

	// Destination 返回输出目标描述（"stdout" 或文件路径）
	Destination() string

	// Level 返回 sink 的输出阈值
	Level() xlevel.Level

	// AddSink 向引擎注册 sink，filter 为 nil 时接受全部记录；每个 Appender 只能注册一次
	AddSink(filter xsink.Filter) error

	// Emit 以 "[{name}] {message}" 格式直接写入自身 sink
	Emit(r Record) error
}

// emitTo 以 "[{name}] {message}" 格式把记录写入指定 sink，各 Appender 共用
func emitTo(engine *xsink.Engine, id xsink.ID, r Record) error {
	e := r.entry()
	e.Message = fmt.Sprintf("[%s] %s", r.name, r.message)
	return engine.WriteTo(context.Background(), id, e)
}

// appender 各 Appender 的公共部分
type appender struct {
	kind   Kind
	dest   string
	level  xlevel.Level
	engine *xsink.Engine

	// build 生成注册参数；文件类 Appender 在这里打开轮转器
	build func() (xsink.Spec, error)

	mu    sync.Mutex
	id    xsink.ID
	added bool
}

func (a *appender) Kind() Kind          { return a.kind }
func (a *appender) Destination() string { return a.dest }
func (a *appender) Level() xlevel.Level { return a.level }

func (a *appender) AddSink(filter xsink.Filter) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.added {
		return fmt.Errorf("%w: %s %s", ErrSinkAdded, a.kind, a.dest)
	}

	spec, err := a.build()
	if err != nil {
		return err
	}
	spec.Filter = filter
	id, err := a.engine.Register(spec)
	if err != nil {
		if spec.Closer != nil {
			_ = spec.Closer.Close() //nolint:errcheck // 注册失败已返回错误
		}
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	a.id, a.added = id, true
	return nil
}

func (a *appender) Emit(r Record) error {
	a.mu.Lock()
	id, added := a.id, a.added
	a.mu.Unlock()
	if !added {
		return fmt.Errorf("%w: %s %s", ErrNoSink, a.kind, a.dest)
	}
	return emitTo(a.engine, id, r)
}

// String 实现 fmt.Stringer，便于诊断输出
func (a *appender) String() string {
	return fmt.Sprintf("%s(%s, %s)", a.kind, a.dest, a.level)
}

// =============================================================================
// Console
// =============================================================================

// ConsoleAppender 标准输出，彩色模板，不轮转
type ConsoleAppender struct {
	*appender
}

// NewConsoleAppender 创建控制台 Appender，w 为 nil 时不可注册
//
// pattern 为空时使用 [DefaultConsolePattern]。
func NewConsoleAppender(engine *xsink.Engine, w io.Writer, level xlevel.Level, pattern string, colorize bool) *ConsoleAppender {
	if pattern == "" {
		pattern = DefaultConsolePattern
	}
	return &ConsoleAppender{appender: &appender{
		kind:   KindConsole,
		dest:   "stdout",
		level:  level,
		engine: engine,
		build: func() (xsink.Spec, error) {
			return xsink.Spec{
				Writer:   w,
				Level:    level.Slog(),
				Pattern:  pattern,
				Colorize: colorize,
			}, nil
		},
	}}
}

// =============================================================================
// File / JSON
// =============================================================================

// FileAppender 轮转文件，文本模板，可异步写入
type FileAppender struct {
	*appender
}

// JSONAppender 轮转文件，每条记录一行 JSON
type JSONAppender struct {
	*appender
}

// NewFileAppender 创建文件 Appender
//
// 父目录不存在时立即创建，失败返回 [ErrCreateDir]。
// 轮转器在 AddSink 时打开，onError 接收轮转器的内部错误。
func NewFileAppender(engine *xsink.Engine, path string, level xlevel.Level, cfg Config, onError func(error)) (*FileAppender, error) {
	a, err := newFileBased(KindFile, engine, path, level, cfg, onError)
	if err != nil {
		return nil, err
	}
	return &FileAppender{appender: a}, nil
}

// NewJSONAppender 创建 JSON 文件 Appender，path 通常由 [JSONPath] 派生
func NewJSONAppender(engine *xsink.Engine, path string, level xlevel.Level, cfg Config, onError func(error)) (*JSONAppender, error) {
	a, err := newFileBased(KindJSON, engine, path, level, cfg, onError)
	if err != nil {
		return nil, err
	}
	return &JSONAppender{appender: a}, nil
}

func newFileBased(kind Kind, engine *xsink.Engine, path string, level xlevel.Level, cfg Config, onError func(error)) (*appender, error) {
	safe, err := xfile.SanitizePath(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := xfile.EnsureParent(safe); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateDir, err)
	}

	opts, err := rotatorOptions(cfg, onError)
	if err != nil {
		return nil, err
	}

	return &appender{
		kind:   kind,
		dest:   safe,
		level:  level,
		engine: engine,
		build: func() (xsink.Spec, error) {
			rotator, err := xrotate.NewLumberjack(safe, opts...)
			if err != nil {
				return xsink.Spec{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
			}
			return xsink.Spec{
				Writer:    rotator,
				Closer:    rotator,
				Level:     level.Slog(),
				Pattern:   cfg.Pattern,
				Serialize: kind == KindJSON,
				Enqueue:   cfg.Enqueue,
				Backtrace: cfg.Backtrace,
				Encoding:  cfg.Encoding,
			}, nil
		},
	}, nil
}

// rotatorOptions 将配置中的轮转、保留策略转换为轮转器选项
func rotatorOptions(cfg Config, onError func(error)) ([]xrotate.Option, error) {
	rotation, err := xrotate.ParseRotation(cfg.Rotation)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	retention, err := xrotate.ParseRetention(cfg.Retention)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	opts := rotation.Options()
	opts = append(opts, retention.Options()...)
	opts = append(opts,
		xrotate.WithCompress(cfg.Compression),
		xrotate.WithLocalTime(true),
		xrotate.WithOnError(onError),
	)
	return opts, nil
}
