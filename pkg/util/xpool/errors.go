package xpool

import "errors"

// 构造参数错误
var (
	ErrNilHandler       = errors.New("xpool: nil task handler")
	ErrInvalidWorkers   = errors.New("xpool: workers must be positive")
	ErrInvalidQueueSize = errors.New("xpool: queue size must be positive")
)

// 提交错误
var (
	// ErrPoolStopped Close/Shutdown 之后的提交
	ErrPoolStopped = errors.New("xpool: pool is stopped")

	// ErrQueueFull 仅由非阻塞的 Submit 返回，SubmitWait 会等待空位
	ErrQueueFull = errors.New("xpool: queue is full")

	// ErrNilContext SubmitWait/Shutdown 传入 nil ctx
	ErrNilContext = errors.New("xpool: nil context")
)
