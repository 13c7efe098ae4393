package xlevel

import (
	"fmt"
	"log/slog"
	"strings"
)

// Level 日志级别，底层与 slog.Level 兼容
//
// 数值用于 sink 阈值比较（引擎语义）；注册表过滤使用 [ShouldLog] 的固定顺序表。
type Level slog.Level

// 日志级别常量
//
// SUCCESS 介于 INFO 与 WARNING 之间，但不在过滤顺序表中（见 [ShouldLog]）。
// CRITICAL 对应 slog 之外的自定义级别 12。
const (
	Trace    = Level(-8)
	Debug    = Level(slog.LevelDebug)
	Info     = Level(slog.LevelInfo)
	Success  = Level(2)
	Warning  = Level(slog.LevelWarn)
	Error    = Level(slog.LevelError)
	Critical = Level(12)
)

// order 过滤用的规范顺序表（不含 SUCCESS）
var order = [...]Level{Trace, Debug, Info, Warning, Error, Critical}

// names 级别名称表
var names = map[Level]string{
	Trace:    "TRACE",
	Debug:    "DEBUG",
	Info:     "INFO",
	Success:  "SUCCESS",
	Warning:  "WARNING",
	Error:    "ERROR",
	Critical: "CRITICAL",
}

// All 返回全部已知级别（按数值升序）
func All() []Level {
	return []Level{Trace, Debug, Info, Success, Warning, Error, Critical}
}

// index 返回级别在顺序表中的位置，不存在时返回 -1
func index(l Level) int {
	for i, v := range order {
		if v == l {
			return i
		}
	}
	return -1
}

// ShouldLog 判断 msg 级别的记录在 threshold 阈值下是否应输出
//
// 两者均在顺序表中时按位置比较；任一不在表中（如 SUCCESS 或非标准级别）
// 时一律返回 true：未识别的级别永不被抑制。
func ShouldLog(msg, threshold Level) bool {
	mi, ti := index(msg), index(threshold)
	if mi < 0 || ti < 0 {
		return true
	}
	return mi >= ti
}

// Known 报告级别是否为已命名级别
func (l Level) Known() bool {
	_, ok := names[l]
	return ok
}

// Ordered 报告级别是否参与顺序过滤
func (l Level) Ordered() bool {
	return index(l) >= 0
}

// String 返回级别名称
//
// 非标准级别委托给 slog.Level.String()（如 "INFO+1"）。
func (l Level) String() string {
	if name, ok := names[l]; ok {
		return name
	}
	return slog.Level(l).String()
}

// Slog 返回对应的 slog.Level
func (l Level) Slog() slog.Level {
	return slog.Level(l)
}

// MarshalText 实现 encoding.TextMarshaler 接口
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler 接口
//
// 支持配置文件直接反序列化级别。
func (l *Level) UnmarshalText(data []byte) error {
	parsed, err := ParseLevel(string(data))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLevel 解析字符串为日志级别
//
// 大小写不敏感，自动 TrimSpace。支持别名：warn → WARNING，fatal → CRITICAL。
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return Trace, nil
	case "debug":
		return Debug, nil
	case "info":
		return Info, nil
	case "success":
		return Success, nil
	case "warn", "warning":
		return Warning, nil
	case "error":
		return Error, nil
	case "critical", "fatal":
		return Critical, nil
	default:
		return Info, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
	}
}

// FromSlog 将 slog.Level 转换为 Level
func FromSlog(l slog.Level) Level {
	return Level(l)
}

// Name 返回 slog.Level 的日志名称（供 slog handler 的 ReplaceAttr 使用）
func Name(l slog.Level) string {
	return Level(l).String()
}
