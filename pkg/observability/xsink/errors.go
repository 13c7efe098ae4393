package xsink

import "errors"

var (
	// ErrNilWriter Spec 未指定输出目标
	ErrNilWriter = errors.New("xsink: writer is required")

	// ErrInvalidPattern 格式模板无法解析
	ErrInvalidPattern = errors.New("xsink: invalid pattern")

	// ErrUnknownSink 指定 ID 的 sink 不存在（从未注册或已移除）
	ErrUnknownSink = errors.New("xsink: unknown sink")

	// ErrInvalidQueueSize 队列大小为负数
	ErrInvalidQueueSize = errors.New("xsink: invalid queue size")
)
