package xrotate

import "io"

// 编译时断言：Rotator 接口是 io.WriteCloser 的超集
var _ io.WriteCloser = (Rotator)(nil)

// Rotator 日志轮转器接口
//
// 可直接作为 sink 的写入目标。所有实现都必须是并发安全的：
//   - Close 后调用 Write 或 Rotate 返回 [ErrClosed]
//   - 重复 Close 返回 [ErrClosed]
//   - Rotate 可以在任意时刻调用
type Rotator interface {
	// Write 写入日志数据，达到大小阈值时自动轮转
	Write(p []byte) (n int, err error)

	// Close 停止定时轮转并关闭当前文件
	Close() error

	// Rotate 手动触发轮转：关闭当前文件、重命名为备份、创建新文件
	Rotate() error

	// Filename 返回当前日志文件路径
	Filename() string
}
