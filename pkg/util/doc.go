// Package util 提供通用工具相关的子包。
//
// 子包列表：
//   - xfile: 日志路径净化、文件名派生、目录创建
//   - xpool: 泛型 Worker Pool，可配置 worker/队列大小、阻塞提交、优雅关闭
//
// 设计原则：
//   - 安全处理路径遍历
//   - 跨平台兼容
package util
