package xpool

import (
	"context"
	"fmt"
	"io"
	"sync"
)

const (
	maxWorkers   = 1 << 16
	maxQueueSize = 1 << 24
)

// Pool 泛型 worker pool，异步执行任务，支持优雅关闭和 panic 恢复。
type Pool[T any] struct {
	name      string
	workers   int
	queueSize int
	handler   func(T)
	onPanic   func(name string, recovered any)

	// mu 读锁由提交方持有，写锁由关闭方持有，保证关闭 queue 时没有并发发送
	mu     sync.RWMutex
	closed bool
	queue  chan T
	wg     sync.WaitGroup
	done   chan struct{}
}

var _ io.Closer = (*Pool[int])(nil)

// New 创建并启动 worker pool。
//
// workers 取值 [1, 65536]，queueSize 取值 [1, 16777216]，handler 不能为 nil。
func New[T any](workers, queueSize int, handler func(T), opts ...Option) (*Pool[T], error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if workers < 1 || workers > maxWorkers {
		return nil, fmt.Errorf("%w: got %d, want 1~%d", ErrInvalidWorkers, workers, maxWorkers)
	}
	if queueSize < 1 || queueSize > maxQueueSize {
		return nil, fmt.Errorf("%w: got %d, want 1~%d", ErrInvalidQueueSize, queueSize, maxQueueSize)
	}

	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	p := &Pool[T]{
		name:      o.name,
		workers:   workers,
		queueSize: queueSize,
		handler:   handler,
		onPanic:   o.onPanic,
		queue:     make(chan T, queueSize),
		done:      make(chan struct{}),
	}
	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	go func() {
		p.wg.Wait()
		close(p.done)
	}()
	return p, nil
}

// worker 从 queue 读取直到 channel 关闭，关闭前入队的任务都会被处理。
func (p *Pool[T]) worker() {
	defer p.wg.Done()
	for task := range p.queue {
		p.run(task)
	}
}

func (p *Pool[T]) run(task T) {
	defer func() {
		if r := recover(); r != nil && p.onPanic != nil {
			func() {
				defer func() { recover() }() //nolint:errcheck // 回调自身 panic 不再传播
				p.onPanic(p.name, r)
			}()
		}
	}()
	p.handler(task)
}

// Submit 非阻塞提交任务，队列满返回 [ErrQueueFull]，已关闭返回 [ErrPoolStopped]。
func (p *Pool[T]) Submit(task T) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolStopped
	}
	select {
	case p.queue <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// SubmitWait 阻塞提交任务，直到入队、ctx 结束或 pool 关闭。
//
// 等待期间持有读锁，Close 会等到阻塞的提交完成后再关闭队列。
func (p *Pool[T]) SubmitWait(ctx context.Context, task T) error {
	if ctx == nil {
		return ErrNilContext
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolStopped
	}
	select {
	case p.queue <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close 停止接收任务并等待队列中的任务全部处理完成。
func (p *Pool[T]) Close() error {
	return p.Shutdown(context.Background())
}

// Shutdown 停止接收任务并等待 worker 退出，ctx 结束时提前返回 ctx 错误。
//
// 提前返回后 worker 仍会在后台处理剩余任务，可通过 [Pool.Done] 等待。
// 不可在 handler 内调用，否则会死锁。
func (p *Pool[T]) Shutdown(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done 返回所有 worker 退出后关闭的 channel。
func (p *Pool[T]) Done() <-chan struct{} {
	return p.done
}

// Pending 返回队列中等待处理的任务数。
func (p *Pool[T]) Pending() int {
	return len(p.queue)
}

// Workers 返回 worker 数量。
func (p *Pool[T]) Workers() int {
	return p.workers
}

// QueueSize 返回队列大小。
func (p *Pool[T]) QueueSize() int {
	return p.queueSize
}
