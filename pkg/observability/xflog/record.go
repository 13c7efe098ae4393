package xflog

import (
	"log/slog"
	"slices"
	"time"

	"github.com/omeyang/xflog/pkg/observability/xlevel"
	"github.com/omeyang/xflog/pkg/observability/xsink"
)

// DefaultName 未指定名称时使用的 logger 名
const DefaultName = "default"

// Record 一次日志调用，构造后不可变
type Record struct {
	name    string
	level   xlevel.Level
	message string
	extra   []slog.Attr
	time    time.Time
	pc      uintptr
}

// NewRecord 创建记录，name 为空时使用 [DefaultName]
func NewRecord(name string, level xlevel.Level, message string, extra ...slog.Attr) Record {
	return newRecord(name, level, message, slices.Clone(extra), 0)
}

func newRecord(name string, level xlevel.Level, message string, extra []slog.Attr, pc uintptr) Record {
	if name == "" {
		name = DefaultName
	}
	return Record{
		name:    name,
		level:   level,
		message: message,
		extra:   extra,
		time:    time.Now(),
		pc:      pc,
	}
}

func (r Record) Name() string        { return r.name }
func (r Record) Level() xlevel.Level { return r.level }
func (r Record) Message() string     { return r.message }
func (r Record) Time() time.Time     { return r.time }

// PC 调用点程序计数器，0 表示未知
func (r Record) PC() uintptr { return r.pc }

// Extra 返回附加属性的副本
func (r Record) Extra() []slog.Attr { return slices.Clone(r.extra) }

// entry 转换为引擎写入请求，名称作为路由元数据而非消息正文
func (r Record) entry() xsink.Entry {
	return xsink.Entry{
		Time:    r.time,
		Level:   r.level.Slog(),
		Name:    r.name,
		Message: r.message,
		Attrs:   r.extra,
		PC:      r.pc,
	}
}
