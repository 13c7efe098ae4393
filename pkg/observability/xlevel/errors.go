package xlevel

import "errors"

var (
	// ErrUnknownLevel 无法识别的级别名称
	ErrUnknownLevel = errors.New("xlevel: unknown level")

	// ErrUnknownEncoding 无法识别的文本编码
	ErrUnknownEncoding = errors.New("xlevel: unknown encoding")
)
