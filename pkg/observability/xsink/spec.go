package xsink

import (
	"io"
	"log/slog"

	"github.com/omeyang/xflog/pkg/observability/xlevel"
)

// DefaultQueueSize 异步写队列默认容量
const DefaultQueueSize = 1024

// DefaultPattern 未指定模板时使用的文本格式
const DefaultPattern = "{time:YYYY-MM-DD HH:mm:ss.SSS} | {level: <8} | {name}:{function}:{line} - {message}{extra}"

// ID sink 注册句柄
type ID uint64

// Spec sink 注册参数
type Spec struct {
	// Writer 输出目标，必填
	Writer io.Writer

	// Closer 移除 sink 时调用，nil 表示不关闭（如标准输出）
	Closer io.Closer

	// Level 最低输出级别（数值比较）
	Level slog.Level

	// Pattern 文本格式模板，空值使用 DefaultPattern；Serialize 时忽略
	Pattern string

	// Colorize 渲染模板中的颜色标记，false 时标记被剥离
	Colorize bool

	// Serialize 每条记录输出一行 JSON
	Serialize bool

	// Enqueue 通过单 worker 队列异步写入，调用方不等待 I/O
	Enqueue bool

	// QueueSize 异步队列容量，0 使用 DefaultQueueSize；队列满时写入方阻塞
	QueueSize int

	// Backtrace ERROR 及以上级别附带调用栈
	Backtrace bool

	// Filter 为 nil 时接受全部记录
	Filter Filter

	// Encoding 输出编码，空值为 UTF-8
	Encoding xlevel.Encoding
}
