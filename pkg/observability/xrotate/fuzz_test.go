package xrotate

import (
	"errors"
	"strings"
	"testing"

	"github.com/robfig/cron/v3"
)

// =============================================================================
// 模糊测试（Fuzz）
//
// 运行方式：go test -fuzz=FuzzXxx -fuzztime=30s
// =============================================================================

// FuzzParseRotation 模糊测试轮转策略解析
//
// 测试目标：
//   - 任意输入不会 panic
//   - 错误总是 ErrInvalidRotation 或 ErrInvalidSchedule
//   - 大小与定时二选一，定时表达式可被 cron 解析
func FuzzParseRotation(f *testing.F) {
	f.Add("")
	f.Add("5 MB")
	f.Add("500 KiB")
	f.Add("1GB")
	f.Add("1 day")
	f.Add("1.5h")
	f.Add("30 min")
	f.Add("daily")
	f.Add("00:00")
	f.Add("23:59")
	f.Add("24:00")
	f.Add("monday at 12:00")
	f.Add("cron:0 */6 * * *")
	f.Add("cron:")
	f.Add("99999999999 years")
	f.Add("0 MB")
	f.Add("-5 MB")
	f.Add("日志")
	f.Add(strings.Repeat("9", 400) + " days")

	f.Fuzz(func(t *testing.T, input string) {
		r, err := ParseRotation(input)
		if err != nil {
			if !errors.Is(err, ErrInvalidRotation) && !errors.Is(err, ErrInvalidSchedule) {
				t.Errorf("ParseRotation(%q) 返回未包装的错误: %v", input, err)
			}
			return
		}

		if r.MaxSizeMB < 0 {
			t.Errorf("ParseRotation(%q) MaxSizeMB = %d", input, r.MaxSizeMB)
		}
		if r.MaxSizeMB > 0 && r.Schedule != "" {
			t.Errorf("ParseRotation(%q) 同时设置了大小与定时: %+v", input, r)
		}
		if r.Schedule != "" {
			if _, err := cron.ParseStandard(r.Schedule); err != nil {
				t.Errorf("ParseRotation(%q) 产生无效定时 %q: %v", input, r.Schedule, err)
			}
		}
		_ = r.Options()
	})
}

// FuzzParseRetention 模糊测试保留策略解析
//
// 测试目标：
//   - 任意输入不会 panic
//   - 成功时时长与数量非负且二选一
func FuzzParseRetention(f *testing.F) {
	f.Add("")
	f.Add("180 days")
	f.Add("2 weeks")
	f.Add("12 hours")
	f.Add("10")
	f.Add("3 files")
	f.Add("1 file")
	f.Add("0")
	f.Add("-1")
	f.Add("files")
	f.Add("99999999999 years")
	f.Add("1e9 days")

	f.Fuzz(func(t *testing.T, input string) {
		r, err := ParseRetention(input)
		if err != nil {
			if !errors.Is(err, ErrInvalidRetention) {
				t.Errorf("ParseRetention(%q) 返回未包装的错误: %v", input, err)
			}
			return
		}

		if r.MaxAge < 0 || r.MaxBackups < 0 {
			t.Errorf("ParseRetention(%q) 出现负值: %+v", input, r)
		}
		if r.MaxAge > 0 && r.MaxBackups > 0 {
			t.Errorf("ParseRetention(%q) 同时设置了时长与数量: %+v", input, r)
		}
		_ = r.Options()
	})
}
