// Package observability 提供日志相关的子包。
//
// 子包列表（由底向上）：
//   - xlevel: 级别与编码词汇，级别过滤顺序表
//   - xrotate: 日志文件轮转（大小/定时）与保留清理
//   - xsink: 写入引擎，模板/JSON 格式化、着色、异步队列、回溯
//   - xflog: 命名 logger、前缀级别覆盖、Console/File/JSON 输出与路由
//
// 设计原则：
//   - 写入失败不扩散到业务调用链，通过回调与指标上报
//   - 自动从 context 中提取追踪信息注入日志
//   - 指标遵循 OpenTelemetry 接口，provider 可注入
package observability
