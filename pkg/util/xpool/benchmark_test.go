package xpool

import (
	"context"
	"sync/atomic"
	"testing"
)

// =============================================================================
// 性能测试
// =============================================================================

func BenchmarkSubmit(b *testing.B) {
	pool, err := New(4, 10000, func(_ int) {})
	if err != nil {
		b.Fatal(err)
	}
	defer pool.Close()

	b.ReportAllocs()
	b.ResetTimer()
	var rejected int64
	for b.Loop() {
		if err := pool.Submit(0); err != nil {
			rejected++
		}
	}
	if rejected > 0 {
		b.ReportMetric(float64(rejected)/float64(b.N)*100, "reject-%")
	}
}

// BenchmarkSubmitWait 单 worker 队列，与 sink 异步写的形态一致
func BenchmarkSubmitWait(b *testing.B) {
	var processed atomic.Int64
	pool, err := New(1, 1024, func(_ []byte) { processed.Add(1) })
	if err != nil {
		b.Fatal(err)
	}
	defer pool.Close()

	ctx := context.Background()
	line := []byte("2026-01-02 03:04:05.000 | INFO     | app - hello\n")
	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		if err := pool.SubmitWait(ctx, line); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSubmitWait_Parallel(b *testing.B) {
	pool, err := New(1, 1024, func(_ int) {})
	if err != nil {
		b.Fatal(err)
	}
	defer pool.Close()

	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if err := pool.SubmitWait(ctx, 0); err != nil {
				b.Error(err)
				return
			}
		}
	})
}

// BenchmarkLifecycle 测量 New→SubmitWait(N)→Close 完整生命周期开销
func BenchmarkLifecycle(b *testing.B) {
	ctx := context.Background()
	b.ReportAllocs()
	for b.Loop() {
		pool, err := New(1, 64, func(_ int) {})
		if err != nil {
			b.Fatal(err)
		}
		for i := range 64 {
			_ = pool.SubmitWait(ctx, i)
		}
		_ = pool.Close()
	}
}
