package xconf

import (
	"github.com/knadh/koanf/v2"

	"github.com/omeyang/xflog/pkg/observability/xflog"
)

// Format 配置文件格式
type Format string

// 支持的配置格式
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// DefaultLoggingKey 日志配置在文件中的默认位置
const DefaultLoggingKey = "logging"

// Config 已加载的配置
type Config interface {
	// Client 返回底层 koanf 实例的当前快照
	Client() *koanf.Koanf

	// Unmarshal 将 path 下的配置反序列化到 target，path 为空时反序列化整个配置
	Unmarshal(path string, target any) error

	// Logging 解析 key 下的日志配置（key 为空时为整个配置）
	//
	// 未出现的字段取 [xflog.DefaultConfig] 的值；结果经过 Validate 校验。
	Logging(key string) (xflog.Config, error)

	// Reload 重新读取配置文件；从字节数据创建的 Config 返回 [ErrReloadBytes]
	Reload() error

	// Path 返回配置文件路径，从字节数据创建时为空
	Path() string

	// Format 返回配置格式
	Format() Format
}
