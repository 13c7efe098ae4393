package xconf

import "errors"

var (
	// ErrEmptyPath 配置文件路径为空
	ErrEmptyPath = errors.New("xconf: empty config path")

	// ErrUnsupportedFormat 不支持的配置格式
	ErrUnsupportedFormat = errors.New("xconf: unsupported config format")

	// ErrLoadFailed 配置文件读取失败
	ErrLoadFailed = errors.New("xconf: failed to load config")

	// ErrParseFailed 配置内容解析失败
	ErrParseFailed = errors.New("xconf: failed to parse config")

	// ErrUnmarshalFailed 反序列化失败
	ErrUnmarshalFailed = errors.New("xconf: failed to unmarshal config")

	// ErrReloadBytes 从字节数据创建的配置不能重载或监视
	ErrReloadBytes = errors.New("xconf: config created from bytes cannot be reloaded")

	// ErrUnsupportedConfig 不是本包创建的 Config 实现
	ErrUnsupportedConfig = errors.New("xconf: unsupported config implementation")
)
