// Package xrotate 提供日志文件轮转与保留。
//
// Rotator 接口定义了轮转器的核心行为（Write/Close/Rotate），所有实现并发安全。
//
// # 当前实现
//
//   - [NewLumberjack]: 基于 lumberjack v2 的按大小轮转，可叠加 robfig/cron 定时轮转
//
// # 策略字符串
//
// [ParseRotation] 把 "5 MB"、"1 day"、"00:00"、"monday at 12:00" 等写法转换为
// 大小阈值或 cron 表达式；[ParseRetention] 把 "180 days"、"10 files" 转换为
// 保留时长或备份数量。两者的 Options 方法产出 [NewLumberjack] 的选项。
//
// # 保留
//
// lumberjack 以天为粒度清理备份；不足一天的保留时长由 [Sweep] 在每次轮转后
// 按精确时长清理。
package xrotate
