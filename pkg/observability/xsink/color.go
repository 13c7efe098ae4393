package xsink

import (
	"log/slog"

	"github.com/fatih/color"

	"github.com/omeyang/xflog/pkg/observability/xlevel"
)

// colorTags 模板中可用的颜色标记，如 <green>...</green>
var colorTags = map[string][]color.Attribute{
	"black":     {color.FgBlack},
	"red":       {color.FgRed},
	"green":     {color.FgGreen},
	"yellow":    {color.FgYellow},
	"blue":      {color.FgBlue},
	"magenta":   {color.FgMagenta},
	"cyan":      {color.FgCyan},
	"white":     {color.FgWhite},
	"bold":      {color.Bold},
	"b":         {color.Bold},
	"dim":       {color.Faint},
	"d":         {color.Faint},
	"italic":    {color.Italic},
	"i":         {color.Italic},
	"underline": {color.Underline},
	"u":         {color.Underline},
}

// levelTag 按记录级别着色的特殊标记
const levelTag = "level"

// levelColors <level> 标记对应的颜色表，表外级别不着色
var levelColors = map[slog.Level][]color.Attribute{
	xlevel.Trace.Slog():    {color.FgCyan, color.Bold},
	xlevel.Debug.Slog():    {color.FgBlue, color.Bold},
	xlevel.Info.Slog():     {color.Bold},
	xlevel.Success.Slog():  {color.FgGreen, color.Bold},
	xlevel.Warning.Slog():  {color.FgYellow, color.Bold},
	xlevel.Error.Slog():    {color.FgRed, color.Bold},
	xlevel.Critical.Slog(): {color.FgHiWhite, color.BgRed, color.Bold},
}

// paint 用给定属性包裹文本；属性为空时原样返回
//
// 强制启用颜色：是否着色由 Spec.Colorize 决定，不受 color.NoColor 全局开关影响。
func paint(text string, attrs []color.Attribute) string {
	if len(attrs) == 0 || text == "" {
		return text
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(text)
}
