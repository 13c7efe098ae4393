package xsink

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/text/encoding"

	"github.com/omeyang/xflog/pkg/util/xpool"
)

// sink 一个已注册的输出目标
type sink struct {
	id        ID
	level     slog.Level
	filter    Filter
	backtrace bool
	colorize  bool
	pattern   *pattern       // 文本模式
	json      *jsonFormatter // Serialize 模式
	enc       encoding.Encoding

	mu     sync.Mutex // 串行化同步写入
	w      io.Writer
	closer io.Closer
	queue  *xpool.Pool[[]byte] // nil 表示同步写入
	closed atomic.Bool

	onError func(error)
}

// accepts 报告记录是否通过级别阈值与过滤器
func (s *sink) accepts(e Entry) bool {
	if e.Level < s.level {
		return false
	}
	return s.filter == nil || s.filter(e)
}

// wantsStack 报告该记录是否需要附带回溯
func (s *sink) wantsStack(e Entry) bool {
	return s.backtrace && e.Level >= slog.LevelError
}

// format 将记录渲染为完整的一行（含换行），并转换为目标编码
func (s *sink) format(e Entry, stack string) ([]byte, error) {
	var line []byte
	if s.json != nil {
		b, err := s.json.format(e, stack)
		if err != nil {
			return nil, err
		}
		line = b
	} else {
		text := s.pattern.render(e, s.colorize)
		if stack != "" {
			text += "\n" + stack
		}
		line = []byte(text + "\n")
	}
	if s.enc == nil {
		return line, nil
	}
	// 编码器有状态，每次写入新建；无法表示的字符替换而非报错
	return encoding.ReplaceUnsupported(s.enc.NewEncoder()).Bytes(line)
}

// deliver 同步写入或交给写队列
//
// 队列满时阻塞等待，不丢弃记录。
func (s *sink) deliver(line []byte) error {
	if s.queue != nil {
		return s.queue.SubmitWait(context.Background(), line)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.w.Write(line)
	return err
}

// writeQueued 写队列 worker 的处理函数，错误只能通过回调上报
func (s *sink) writeQueued(line []byte) {
	if _, err := s.w.Write(line); err != nil && s.onError != nil {
		s.onError(err)
	}
}

// close 排空写队列后关闭底层输出
func (s *sink) close() error {
	if s.closed.Swap(true) {
		return nil
	}
	var errs []error
	if s.queue != nil {
		errs = append(errs, s.queue.Close())
	}
	if s.closer != nil {
		errs = append(errs, s.closer.Close())
	}
	return errors.Join(errs...)
}
