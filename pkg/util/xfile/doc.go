// Package xfile 提供日志文件路径的构建与目录准备工具。
//
// # 路径
//
//   - [SanitizePath]: 规范化并拒绝空字节、目录路径与 ".." 路径段
//   - [JoinFile]: 将单一文件名拼接到日志目录下，拒绝绝对路径和带分隔符的名称
//   - [SafeName]: 将 logger 名称等逻辑名转换为安全文件名
//   - [InsertSuffix]: 在扩展名前插入后缀（派生 JSON sink 路径）
//
// # 目录
//
// [EnsureDir] 与 [EnsureParent] 使用 0750 权限创建目录，已存在时不报错。
//
// 所有错误均可用 [errors.Is] 与包级错误变量比较。
package xfile
