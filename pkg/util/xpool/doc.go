// Package xpool 提供通用的 worker pool 实现。
//
// Pool 是一个轻量级的泛型 worker pool，用于异步执行任务：
//   - 可配置的 worker 数量（[1, 65536]）和队列大小（[1, 16777216]）
//   - Submit 非阻塞，队列满时返回 ErrQueueFull
//   - SubmitWait 阻塞直到入队，适用于不允许丢弃的场景（如日志写队列）
//   - 优雅关闭：Close 等待队列中的任务处理完成，Shutdown(ctx) 支持超时
//   - panic 恢复：单个任务失败不影响 pool，可通过 WithPanicHandler 接收通知
//
// # 注意事项
//
//   - New 创建后自动启动 worker，无需手动 Start
//   - Close/Shutdown 不可在 handler 内调用，否则会死锁
//   - panic 的任务不会被重试
//   - 单 worker 时任务按提交顺序执行
package xpool
