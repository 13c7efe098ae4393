package xconf

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain 检测监视器 goroutine 泄漏
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
