// Package xsink 日志写入引擎。
//
// Engine 管理一组 sink（标准输出、轮转文件等 io.Writer），把每条 [Entry]
// 分发给级别阈值与过滤器都接受它的 sink。每个 sink 可以：
//   - 按文本模板格式化（{time:HH:mm:ss}、{level: <8}、{name}、{message}、{extra}、
//     {file}、{line}、{function}，以及 <green>、<level> 等颜色标记）
//   - 或序列化为单行 JSON（Serialize）
//   - 通过单 worker 队列异步写入（Enqueue），队列满时写入方阻塞
//   - 在 ERROR 及以上级别附带调用栈（Backtrace）
//   - 按指定编码输出（Encoding，如 gbk、utf-16）
//
// 逻辑名称（logger 名）放在 Entry.Name，ctx 上的 [WithTags] 标签随写入附加，
// 二者都不拼接进消息正文，[Filter] 可据此把记录路由到专属文件。
//
// # 错误处理
//
// Register/Remove/RemoveAll 直接返回错误；Write 返回同步路径上的错误。
// 异步写失败无法返回给调用方，通过 [WithOnError] 回调上报。
package xsink
