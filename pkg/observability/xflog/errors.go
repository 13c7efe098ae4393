package xflog

import "errors"

var (
	// ErrInvalidConfig 配置无法生效（轮转/保留策略、编码、模板、路径格式错误等）
	ErrInvalidConfig = errors.New("xflog: invalid config")

	// ErrCreateDir 日志目录无法创建
	ErrCreateDir = errors.New("xflog: create log directory failed")

	// ErrSinkAdded Appender 已注册过 sink
	ErrSinkAdded = errors.New("xflog: sink already added")

	// ErrNoSink Appender 尚未注册 sink
	ErrNoSink = errors.New("xflog: sink not added")
)
