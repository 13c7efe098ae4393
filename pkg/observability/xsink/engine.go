package xsink

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/omeyang/xflog/pkg/util/xpool"
)

// Engine 日志写入引擎：管理一组 sink，把每条记录分发给接受它的 sink
//
// 所有方法并发安全。Engine 自身不打日志，内部错误通过 OnError 回调上报。
type Engine struct {
	mu      sync.RWMutex
	sinks   []*sink // 注册顺序
	nextID  ID
	onError func(error)
}

// Option 引擎配置选项
type Option func(*Engine)

// WithOnError 设置内部错误回调（异步写失败、写队列 panic）
//
// 回调可能在写队列 goroutine 中执行，不得同步写回同一 Engine。
func WithOnError(fn func(error)) Option {
	return func(e *Engine) {
		e.onError = fn
	}
}

// New 创建空引擎
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Register 注册一个 sink，返回用于移除的句柄
//
// Spec 校验失败时不会留下任何注册状态。
func (e *Engine) Register(spec Spec) (ID, error) {
	s, err := e.build(spec)
	if err != nil {
		return 0, err
	}

	e.mu.Lock()
	e.nextID++
	s.id = e.nextID
	e.sinks = append(e.sinks, s)
	e.mu.Unlock()
	return s.id, nil
}

func (e *Engine) build(spec Spec) (*sink, error) {
	if spec.Writer == nil {
		return nil, ErrNilWriter
	}
	if spec.QueueSize < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidQueueSize, spec.QueueSize)
	}

	s := &sink{
		level:     spec.Level,
		filter:    spec.Filter,
		backtrace: spec.Backtrace,
		colorize:  spec.Colorize,
		w:         spec.Writer,
		closer:    spec.Closer,
		onError:   e.reportError,
	}

	if spec.Serialize {
		s.json = newJSONFormatter()
	} else {
		p := spec.Pattern
		if p == "" {
			p = DefaultPattern
		}
		compiled, err := compilePattern(p)
		if err != nil {
			return nil, err
		}
		s.pattern = compiled
	}

	if !spec.Encoding.IsUTF8() {
		enc, err := spec.Encoding.Resolve()
		if err != nil {
			return nil, err
		}
		s.enc = enc
	}

	if spec.Enqueue {
		size := spec.QueueSize
		if size == 0 {
			size = DefaultQueueSize
		}
		q, err := xpool.New(1, size, s.writeQueued,
			xpool.WithName(fmt.Sprintf("xsink-%p", s)),
			xpool.WithPanicHandler(func(name string, r any) {
				e.reportError(fmt.Errorf("xsink: %s: write panic: %v", name, r))
			}),
		)
		if err != nil {
			return nil, err
		}
		s.queue = q
	}
	return s, nil
}

// Remove 移除并关闭指定 sink，异步 sink 会先排空队列
func (e *Engine) Remove(id ID) error {
	e.mu.Lock()
	idx := slices.IndexFunc(e.sinks, func(s *sink) bool { return s.id == id })
	if idx < 0 {
		e.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrUnknownSink, id)
	}
	s := e.sinks[idx]
	e.sinks = slices.Delete(e.sinks, idx, idx+1)
	e.mu.Unlock()

	return s.close()
}

// RemoveAll 移除并关闭全部 sink
//
// 各 sink 并发关闭；即使部分关闭失败，全部 sink 仍会从引擎中移除，
// 所有错误合并后返回。
func (e *Engine) RemoveAll() error {
	e.mu.Lock()
	sinks := e.sinks
	e.sinks = nil
	e.mu.Unlock()

	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	for _, s := range sinks {
		g.Go(func() error {
			if err := s.close(); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("sink %d: %w", s.id, err))
				mu.Unlock()
				return err
			}
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // 错误已在 errs 中完整收集
	return errors.Join(errs...)
}

// Len 返回当前注册的 sink 数量
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.sinks)
}

// Write 将记录分发给所有接受它的 sink
//
// ctx 上的 [WithTags] 标签附加到记录。Time 为零值时取当前时间。
// 返回同步路径上的错误（格式化失败、同步写失败）；异步写失败走 OnError。
func (e *Engine) Write(ctx context.Context, entry Entry) error {
	e.mu.RLock()
	sinks := slices.Clone(e.sinks)
	e.mu.RUnlock()
	return dispatch(ctx, entry, sinks)
}

// WriteTo 只写入指定 sink，仍受该 sink 的级别与过滤器约束
func (e *Engine) WriteTo(ctx context.Context, id ID, entry Entry) error {
	e.mu.RLock()
	idx := slices.IndexFunc(e.sinks, func(s *sink) bool { return s.id == id })
	var target *sink
	if idx >= 0 {
		target = e.sinks[idx]
	}
	e.mu.RUnlock()

	if target == nil {
		return fmt.Errorf("%w: %d", ErrUnknownSink, id)
	}
	return dispatch(ctx, entry, []*sink{target})
}

func dispatch(ctx context.Context, entry Entry, sinks []*sink) error {
	if len(sinks) == 0 {
		return nil
	}
	if entry.Time.IsZero() {
		entry.Time = time.Now()
	}
	entry.tags = TagsFrom(ctx)

	var (
		errs     []error
		stack    string
		captured bool
	)
	for _, s := range sinks {
		if s.closed.Load() || !s.accepts(entry) {
			continue
		}
		var st string
		if s.wantsStack(entry) {
			if !captured {
				stack = captureStack(entry.PC)
				captured = true
			}
			st = stack
		}
		line, err := s.format(entry, st)
		if err == nil {
			err = s.deliver(line)
		}
		// 与 Remove 并发时 sink 可能刚被关闭，这类写入静默丢弃
		if err != nil && !errors.Is(err, xpool.ErrPoolStopped) {
			errs = append(errs, fmt.Errorf("sink %d: %w", s.id, err))
		}
	}
	return errors.Join(errs...)
}

// reportError 通过回调上报内部错误，回调 panic 被隔离
func (e *Engine) reportError(err error) {
	if err == nil || e.onError == nil {
		return
	}
	defer func() { recover() }() //nolint:errcheck // recover 返回值无需检查
	e.onError(err)
}
