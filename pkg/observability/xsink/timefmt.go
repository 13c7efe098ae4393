package xsink

import "strings"

// DefaultTimeFormat {time} 未指定格式时使用的时间格式
const DefaultTimeFormat = "YYYY-MM-DD HH:mm:ss.SSS"

// timeTokens 模板时间记号到 Go 时间布局的映射，按长度降序匹配
var timeTokens = []struct{ token, layout string }{
	{"YYYY", "2006"},
	{"SSSSSS", "000000"},
	{"MMMM", "January"},
	{"dddd", "Monday"},
	{"MMM", "Jan"},
	{"ddd", "Mon"},
	{"SSS", "000"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"HH", "15"},
	{"hh", "03"},
	{"mm", "04"},
	{"ss", "05"},
	{"ZZ", "-0700"},
	{"zz", "MST"},
	{"M", "1"},
	{"D", "2"},
	{"H", "15"},
	{"h", "3"},
	{"m", "4"},
	{"s", "5"},
	{"A", "PM"},
	{"Z", "-07:00"},
}

// timeLayout 将 "YYYY-MM-DD HH:mm:ss.SSS" 风格的格式转换为 Go 时间布局
//
// 方括号内的文本原样输出，如 "YYYY[年]"。
func timeLayout(format string) string {
	if format == "" {
		format = DefaultTimeFormat
	}
	var b strings.Builder
	for i := 0; i < len(format); {
		if format[i] == '[' {
			if end := strings.IndexByte(format[i:], ']'); end > 0 {
				b.WriteString(format[i+1 : i+end])
				i += end + 1
				continue
			}
		}
		matched := false
		for _, t := range timeTokens {
			if strings.HasPrefix(format[i:], t.token) {
				b.WriteString(t.layout)
				i += len(t.token)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(format[i])
			i++
		}
	}
	return b.String()
}
