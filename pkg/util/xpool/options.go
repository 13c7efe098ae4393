package xpool

// Option 定义 Pool 可选配置函数类型。
type Option func(*options)

type options struct {
	name    string
	onPanic func(name string, recovered any)
}

func defaultOptions() options {
	return options{}
}

// WithName 设置 pool 名称，panic 回调中用于区分来源。
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithPanicHandler 设置任务 panic 回调，nil 表示静默恢复。
//
// 设计决策: pool 不自行打日志。它常被用作日志引擎的写队列，
// 在这里再写日志会回到同一个队列。
func WithPanicHandler(fn func(name string, recovered any)) Option {
	return func(o *options) {
		o.onPanic = fn
	}
}
