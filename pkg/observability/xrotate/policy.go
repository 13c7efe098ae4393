package xrotate

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/robfig/cron/v3"
)

const (
	day   = 24 * time.Hour
	week  = 7 * day
	month = 30 * day
	year  = 365 * day
)

// spanPattern 匹配 "<数值> <单位>" 形式的时间跨度，如 "1 day"、"12 hours"、"1.5h"
var spanPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*([a-z]+)$`)

// clockPattern 匹配 "HH:MM" 形式的每日时刻
var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

var spanUnits = map[string]time.Duration{
	"s": time.Second, "sec": time.Second, "secs": time.Second, "second": time.Second, "seconds": time.Second,
	"min": time.Minute, "mins": time.Minute, "minute": time.Minute, "minutes": time.Minute,
	"h": time.Hour, "hr": time.Hour, "hrs": time.Hour, "hour": time.Hour, "hours": time.Hour,
	"d": day, "day": day, "days": day,
	"w": week, "week": week, "weeks": week,
	"mo": month, "month": month, "months": month,
	"y": year, "year": year, "years": year,
}

var namedSchedules = map[string]string{
	"hourly":   "@hourly",
	"daily":    "@daily",
	"midnight": "@midnight",
	"weekly":   "@weekly",
	"monthly":  "@monthly",
	"yearly":   "@yearly",
}

var weekdays = map[string]int{
	"sunday": 0, "monday": 1, "tuesday": 2, "wednesday": 3,
	"thursday": 4, "friday": 5, "saturday": 6,
}

// parseSpan 解析时间跨度，单位不可识别时返回 false
func parseSpan(s string) (time.Duration, bool) {
	m := spanPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	unit, ok := spanUnits[m[2]]
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	// 超出 time.Duration 表示范围的跨度视为无效
	d := n * float64(unit)
	if d >= math.MaxInt64 {
		return 0, false
	}
	return time.Duration(d), true
}

// parseClock 将 "HH:MM" 解析为 (hour, minute)
func parseClock(s string) (int, int, bool) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}
	h, _ := strconv.Atoi(m[1])
	mi, _ := strconv.Atoi(m[2])
	if h > 23 || mi > 59 {
		return 0, 0, false
	}
	return h, mi, true
}

// =============================================================================
// 轮转策略
// =============================================================================

// Rotation 轮转策略：按大小、按时间，或两者都不指定（使用默认大小）
type Rotation struct {
	// MaxSizeMB 大小阈值（MB），0 表示使用 DefaultMaxSizeMB
	MaxSizeMB int

	// Schedule cron 表达式（标准 5 段或 @descriptor），空表示不按时间轮转
	Schedule string
}

// ParseRotation 解析轮转策略字符串
//
// 支持的写法：
//   - 大小："5 MB"、"500 KiB"、"1GB"（go-humanize 语法，向上取整到 MB）
//   - 间隔："1 day"、"12 hours"、"1 week"、"30 min"
//   - 命名："hourly"、"daily"、"weekly"、"monthly"
//   - 每日时刻："00:00"、"12:30"
//   - 星期："monday"、"monday at 12:00"
//   - 原始 cron："cron:0 */6 * * *"
//
// 空字符串返回零值（按默认大小轮转）。
func ParseRotation(s string) (Rotation, error) {
	raw := strings.TrimSpace(s)
	norm := strings.ToLower(raw)
	if norm == "" {
		return Rotation{}, nil
	}

	if spec, ok := strings.CutPrefix(raw, "cron:"); ok {
		return scheduled(strings.TrimSpace(spec))
	}
	if spec, ok := namedSchedules[norm]; ok {
		return Rotation{Schedule: spec}, nil
	}
	if d, ok := parseSpan(norm); ok {
		if d < time.Minute {
			return Rotation{}, fmt.Errorf("%w: %q is shorter than one minute", ErrInvalidRotation, s)
		}
		return Rotation{Schedule: "@every " + d.String()}, nil
	}
	if h, m, ok := parseClock(norm); ok {
		return Rotation{Schedule: fmt.Sprintf("%d %d * * *", m, h)}, nil
	}
	if r, ok := parseWeekday(norm); ok {
		return r, nil
	}

	bytes, err := humanize.ParseBytes(norm)
	if err != nil || bytes == 0 {
		return Rotation{}, fmt.Errorf("%w: %q", ErrInvalidRotation, s)
	}
	mb := int(math.Ceil(float64(bytes) / (1024 * 1024)))
	return Rotation{MaxSizeMB: mb}, nil
}

// parseWeekday 解析 "monday" 或 "monday at 12:00"
func parseWeekday(s string) (Rotation, bool) {
	name, at, _ := strings.Cut(s, " at ")
	wd, ok := weekdays[strings.TrimSpace(name)]
	if !ok {
		return Rotation{}, false
	}
	h, m := 0, 0
	if at != "" {
		if h, m, ok = parseClock(strings.TrimSpace(at)); !ok {
			return Rotation{}, false
		}
	}
	return Rotation{Schedule: fmt.Sprintf("%d %d * * %d", m, h, wd)}, true
}

func scheduled(spec string) (Rotation, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return Rotation{}, fmt.Errorf("%w: %q: %w", ErrInvalidSchedule, spec, err)
	}
	return Rotation{Schedule: spec}, nil
}

// Options 返回对应的轮转器选项
func (r Rotation) Options() []Option {
	var opts []Option
	if r.MaxSizeMB > 0 {
		opts = append(opts, WithMaxSize(r.MaxSizeMB))
	}
	if r.Schedule != "" {
		opts = append(opts, WithSchedule(r.Schedule))
	}
	return opts
}

// =============================================================================
// 保留策略
// =============================================================================

// Retention 保留策略：按时长或按备份数量
type Retention struct {
	// MaxAge 备份最长保留时长，0 表示不按时长清理
	MaxAge time.Duration

	// MaxBackups 备份最大数量，0 表示不按数量清理
	MaxBackups int
}

// ParseRetention 解析保留策略字符串
//
// 支持 "180 days"、"2 weeks"、"12 hours"（按时长），"10"、"10 files"（按数量）。
// 空字符串返回零值（使用轮转器默认值）。
func ParseRetention(s string) (Retention, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	if norm == "" {
		return Retention{}, nil
	}
	if d, ok := parseSpan(norm); ok {
		return Retention{MaxAge: d}, nil
	}

	count := strings.TrimSpace(strings.TrimSuffix(strings.TrimSuffix(norm, "files"), "file"))
	n, err := strconv.Atoi(count)
	if err != nil || n <= 0 {
		return Retention{}, fmt.Errorf("%w: %q", ErrInvalidRetention, s)
	}
	return Retention{MaxBackups: n}, nil
}

// Options 返回对应的轮转器选项
//
// 按时长保留时：lumberjack 的 MaxAge 以天为单位向上取整，不足一天的部分由
// Sweep 按精确时长清理；备份数量不再限制。
func (r Retention) Options() []Option {
	switch {
	case r.MaxAge > 0:
		days := int(math.Ceil(float64(r.MaxAge) / float64(day)))
		return []Option{WithMaxAge(days), WithMaxBackups(0), WithSweepAge(r.MaxAge)}
	case r.MaxBackups > 0:
		return []Option{WithMaxBackups(r.MaxBackups), WithMaxAge(0)}
	default:
		return nil
	}
}
