package xrotate

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain 在所有测试完成后检测 goroutine 泄漏。
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// 设计决策: lumberjack 的 millRun goroutine 由 sync.Once 启动，Close 不关闭
		// millCh，goroutine 会在 Logger 生命周期结束后驻留。上游已知限制。
		goleak.IgnoreTopFunction("gopkg.in/natefinch/lumberjack%2ev2.(*Logger).millRun"),
	)
}
