package xsink

import (
	"runtime"
	"strconv"
	"strings"
)

// maxStackDepth 回溯最多保留的栈帧数
const maxStackDepth = 64

// captureStack 从调用点 pc 开始捕获当前 goroutine 的调用栈
//
// pc 取自写入方的 runtime.Callers，按所在函数在当前栈中定位起点；
// 找不到（pc 为 0 或跨 goroutine）时从 captureStack 的调用方开始。
func captureStack(pc uintptr) string {
	pcs := make([]uintptr, maxStackDepth+16)
	n := runtime.Callers(2, pcs)
	pcs = pcs[:n]

	start := 0
	if entry := funcEntry(pc); entry != 0 {
		for i, p := range pcs {
			if funcEntry(p) == entry {
				start = i
				break
			}
		}
	}
	pcs = pcs[start:]
	if len(pcs) > maxStackDepth {
		pcs = pcs[:maxStackDepth]
	}

	var b strings.Builder
	b.WriteString("stack:")
	frames := runtime.CallersFrames(pcs)
	for {
		f, more := frames.Next()
		if f.Function != "" {
			b.WriteString("\n  ")
			b.WriteString(f.Function)
			b.WriteString("\n    ")
			b.WriteString(f.File)
			b.WriteByte(':')
			b.WriteString(strconv.Itoa(f.Line))
		}
		if !more {
			break
		}
	}
	return b.String()
}

// funcEntry 返回返回地址 pc 所在函数的入口地址，未知时为 0
func funcEntry(pc uintptr) uintptr {
	if pc == 0 {
		return 0
	}
	fn := runtime.FuncForPC(pc - 1)
	if fn == nil {
		return 0
	}
	return fn.Entry()
}
