package xsink

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/omeyang/xflog/pkg/observability/xlevel"
)

type segKind uint8

const (
	segText segKind = iota
	segField
	segOpen
	segClose
)

// segment 模板编译后的片段
type segment struct {
	kind   segKind
	text   string // 字面文本、字段名或标记名
	layout string // {time} 的 Go 时间布局
	pad    padding
	attrs  []color.Attribute
}

// padding 字段对齐规则：[fill]align width，align 为 < > ^
type padding struct {
	fill  rune
	align byte
	width int
}

// fields 模板支持的字段
var fields = map[string]bool{
	"time": true, "level": true, "name": true, "message": true, "extra": true,
	"file": true, "path": true, "line": true, "function": true, "process": true,
}

// pattern 编译后的文本模板
type pattern struct {
	segs      []segment
	needFrame bool
}

// compilePattern 解析形如 "<green>{time:HH:mm:ss}</green> | {level: <8} | {message}" 的模板
//
// 字段写在 {} 内，{{ 与 }} 转义花括号；颜色标记写在 <> 内，</> 关闭最近打开的标记。
// 不认识的 <...> 视为普通文本。
func compilePattern(p string) (*pattern, error) {
	out := &pattern{}
	var lit strings.Builder
	var open []string

	flush := func() {
		if lit.Len() > 0 {
			out.segs = append(out.segs, segment{kind: segText, text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(p); {
		switch {
		case strings.HasPrefix(p[i:], "{{"):
			lit.WriteByte('{')
			i += 2
		case strings.HasPrefix(p[i:], "}}"):
			lit.WriteByte('}')
			i += 2
		case p[i] == '{':
			end := strings.IndexByte(p[i:], '}')
			if end < 0 {
				return nil, fmt.Errorf("%w: unclosed field at offset %d", ErrInvalidPattern, i)
			}
			seg, err := parseField(p[i+1 : i+end])
			if err != nil {
				return nil, err
			}
			flush()
			out.segs = append(out.segs, seg)
			switch seg.text {
			case "file", "path", "line", "function":
				out.needFrame = true
			}
			i += end + 1
		case p[i] == '<':
			end := strings.IndexByte(p[i:], '>')
			if end < 0 {
				lit.WriteByte('<')
				i++
				continue
			}
			tag := p[i+1 : i+end]
			if name, ok := strings.CutPrefix(tag, "/"); ok {
				if len(open) == 0 {
					return nil, fmt.Errorf("%w: unexpected closing tag %q", ErrInvalidPattern, "<"+tag+">")
				}
				if top := open[len(open)-1]; name != "" && name != top {
					return nil, fmt.Errorf("%w: closing tag %q does not match %q", ErrInvalidPattern, "<"+tag+">", "<"+top+">")
				}
				open = open[:len(open)-1]
				flush()
				out.segs = append(out.segs, segment{kind: segClose})
				i += end + 1
				continue
			}
			attrs, known := colorTags[tag]
			if !known && tag != levelTag {
				lit.WriteByte('<')
				i++
				continue
			}
			open = append(open, tag)
			flush()
			out.segs = append(out.segs, segment{kind: segOpen, text: tag, attrs: attrs})
			i += end + 1
		default:
			lit.WriteByte(p[i])
			i++
		}
	}
	if len(open) > 0 {
		return nil, fmt.Errorf("%w: unclosed tag %q", ErrInvalidPattern, "<"+open[len(open)-1]+">")
	}
	flush()
	return out, nil
}

// parseField 解析 {name[:spec]}
func parseField(inner string) (segment, error) {
	name, spec, _ := strings.Cut(inner, ":")
	name = strings.TrimSpace(name)
	if !fields[name] {
		return segment{}, fmt.Errorf("%w: unknown field %q", ErrInvalidPattern, name)
	}
	seg := segment{kind: segField, text: name}
	if name == "time" {
		seg.layout = timeLayout(spec)
		return seg, nil
	}
	if spec != "" {
		pad, err := parsePadding(spec)
		if err != nil {
			return segment{}, err
		}
		seg.pad = pad
	}
	return seg, nil
}

// maxPadWidth 对齐宽度上限
const maxPadWidth = 256

// parsePadding 解析 " <8"、">5"、"^10" 形式的对齐规则
func parsePadding(spec string) (padding, error) {
	pad := padding{fill: ' ', align: '<'}
	rest := spec
	if r, size := utf8.DecodeRuneInString(rest); size > 0 && len(rest) > size && strings.ContainsRune("<>^", rune(rest[size])) {
		pad.fill = r
		rest = rest[size:]
	}
	if rest != "" && strings.ContainsRune("<>^", rune(rest[0])) {
		pad.align = rest[0]
		rest = rest[1:]
	}
	width, err := strconv.Atoi(rest)
	if err != nil || width < 0 || width > maxPadWidth {
		return padding{}, fmt.Errorf("%w: bad format spec %q", ErrInvalidPattern, spec)
	}
	pad.width = width
	return pad, nil
}

func (p padding) apply(s string) string {
	n := utf8.RuneCountInString(s)
	if p.width <= n {
		return s
	}
	gap := p.width - n
	fill := string(p.fill)
	switch p.align {
	case '>':
		return strings.Repeat(fill, gap) + s
	case '^':
		left := gap / 2
		return strings.Repeat(fill, left) + s + strings.Repeat(fill, gap-left)
	default:
		return s + strings.Repeat(fill, gap)
	}
}

// render 按模板渲染一条记录，不含结尾换行
func (p *pattern) render(e Entry, colorize bool) string {
	var frame runtime.Frame
	if p.needFrame && e.PC != 0 {
		frame, _ = runtime.CallersFrames([]uintptr{e.PC}).Next()
	}

	var b strings.Builder
	var stack [][]color.Attribute
	for _, seg := range p.segs {
		var text string
		switch seg.kind {
		case segOpen:
			attrs := seg.attrs
			if seg.text == levelTag {
				attrs = levelColors[e.Level]
			}
			stack = append(stack, attrs)
			continue
		case segClose:
			stack = stack[:len(stack)-1]
			continue
		case segText:
			text = seg.text
		case segField:
			text = seg.pad.apply(fieldValue(seg, e, frame))
		}
		if colorize && len(stack) > 0 {
			var attrs []color.Attribute
			for _, a := range stack {
				attrs = append(attrs, a...)
			}
			text = paint(text, attrs)
		}
		b.WriteString(text)
	}
	return b.String()
}

func fieldValue(seg segment, e Entry, frame runtime.Frame) string {
	switch seg.text {
	case "time":
		return e.Time.Format(seg.layout)
	case "level":
		return xlevel.Name(e.Level)
	case "name":
		return e.Name
	case "message":
		return e.Message
	case "extra":
		return renderExtra(e)
	case "file":
		if frame.File == "" {
			return ""
		}
		return filepath.Base(frame.File)
	case "path":
		return frame.File
	case "line":
		if frame.Line == 0 {
			return ""
		}
		return strconv.Itoa(frame.Line)
	case "function":
		return shortFunction(frame.Function)
	case "process":
		return strconv.Itoa(os.Getpid())
	}
	return ""
}

// renderExtra 每个属性渲染为 " key=value"，无属性时为空
func renderExtra(e Entry) string {
	if len(e.Attrs) == 0 && len(e.tags) == 0 {
		return ""
	}
	var b strings.Builder
	for _, attrs := range [][]slog.Attr{e.Attrs, e.tags} {
		for _, a := range attrs {
			if a.Key == "" {
				continue
			}
			b.WriteByte(' ')
			b.WriteString(a.Key)
			b.WriteByte('=')
			b.WriteString(a.Value.Resolve().String())
		}
	}
	return b.String()
}

// shortFunction 去掉包路径前缀，"github.com/a/b.(*T).Run" → "b.(*T).Run"
func shortFunction(fn string) string {
	if i := strings.LastIndexByte(fn, '/'); i >= 0 {
		return fn[i+1:]
	}
	return fn
}

// ValidatePattern 检查文本模板能否解析
func ValidatePattern(p string) error {
	_, err := compilePattern(p)
	return err
}
