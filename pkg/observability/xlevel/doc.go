// Package xlevel 定义日志级别与文本编码词汇。
//
// # 级别
//
// TRACE(-8)、DEBUG(-4)、INFO(0)、SUCCESS(2)、WARNING(4)、ERROR(8)、CRITICAL(12)。
// 数值与 slog.Level 兼容，sink 阈值按数值比较。
//
// # 过滤
//
// [ShouldLog] 使用固定顺序表 TRACE < DEBUG < INFO < WARNING < ERROR < CRITICAL。
// SUCCESS 不在表中：作为消息级别或阈值出现时 ShouldLog 总是返回 true。
// 非标准数值级别同样按"总是输出"处理（fail-open）。
//
// # 编码
//
// [Encoding] 是编码名称，[Encoding.Resolve] 基于 golang.org/x/text 返回实现，
// 支持 utf-8、utf-16、gbk、gb18030、latin-1 及 WHATWG 定义的其他名称。
package xlevel
