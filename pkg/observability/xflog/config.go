package xflog

import (
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/omeyang/xflog/pkg/observability/xlevel"
	"github.com/omeyang/xflog/pkg/observability/xrotate"
	"github.com/omeyang/xflog/pkg/observability/xsink"
)

// 默认值
const (
	DefaultDirname   = "logs"
	DefaultFilename  = "service.log"
	DefaultRotation  = "5 MB"
	DefaultRetention = "180 days"

	// DefaultPattern 文件输出的默认文本模板
	DefaultPattern = xsink.DefaultPattern

	// DefaultConsolePattern 控制台输出的默认模板
	DefaultConsolePattern = "<green>{time:YYYY-MM-DD HH:mm:ss}</green> | <level>{level: <8}</level> | <cyan>{name}</cyan> | <level>{message}</level>{extra}"
)

// Config 日志配置，值类型
//
// 零值不可直接使用，请通过 [DefaultConfig] 或 [NewConfig] 构造。
// JSON 只在 File 启用时生效：JSON 文件与主日志文件同目录、由主文件路径派生。
type Config struct {
	// Level 全局级别，同时作为各 sink 的输出阈值
	Level xlevel.Level `koanf:"level" json:"level"`

	// Console 输出到标准输出
	Console bool `koanf:"console" json:"console"`

	// File 输出到 Dirname/Filename
	File bool `koanf:"file" json:"file"`

	// JSON 额外输出一份 JSON 行日志
	JSON bool `koanf:"json" json:"json"`

	Dirname  string `koanf:"dirname" json:"dirname"`
	Filename string `koanf:"filename" json:"filename"`

	// Rotation 轮转策略，如 "5 MB"、"1 day"、"00:00"、"monday at 12:00"
	Rotation string `koanf:"rotation" json:"rotation"`

	// Retention 保留策略，如 "180 days"、"10 files"
	Retention string `koanf:"retention" json:"retention"`

	// Encoding 文件编码
	Encoding xlevel.Encoding `koanf:"encoding" json:"encoding"`

	// Pattern 文件文本模板
	Pattern string `koanf:"pattern" json:"pattern"`

	// ConsolePattern 控制台文本模板
	ConsolePattern string `koanf:"console_pattern" json:"console_pattern"`

	// Colorize 控制台着色（仅在输出为终端时生效）
	Colorize bool `koanf:"colorize" json:"colorize"`

	// Compression 轮转后的备份 gzip 压缩
	Compression bool `koanf:"compression" json:"compression"`

	// Enqueue 文件异步写入
	Enqueue bool `koanf:"enqueue" json:"enqueue"`

	// Backtrace 文件日志在 ERROR 及以上级别附带调用栈
	Backtrace bool `koanf:"backtrace" json:"backtrace"`

	// Overrides 名称前缀 → 级别，Configure 时合并进已有覆盖规则
	Overrides map[string]xlevel.Level `koanf:"overrides" json:"overrides"`
}

// DefaultConfig 返回默认配置：INFO 级别，仅控制台输出
func DefaultConfig() Config {
	return Config{
		Level:          xlevel.Info,
		Console:        true,
		Dirname:        DefaultDirname,
		Filename:       DefaultFilename,
		Rotation:       DefaultRotation,
		Retention:      DefaultRetention,
		Encoding:       xlevel.UTF8,
		Pattern:        DefaultPattern,
		ConsolePattern: DefaultConsolePattern,
		Colorize:       true,
		Enqueue:        true,
		Backtrace:      true,
	}
}

// ConfigOption 配置选项函数
type ConfigOption func(*Config)

// NewConfig 在默认配置上应用选项
func NewConfig(opts ...ConfigOption) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithLevel 设置全局级别
func WithLevel(level xlevel.Level) ConfigOption {
	return func(c *Config) { c.Level = level }
}

// WithConsole 启用或关闭控制台输出
func WithConsole(enable bool) ConfigOption {
	return func(c *Config) { c.Console = enable }
}

// WithFile 启用或关闭文件输出
func WithFile(enable bool) ConfigOption {
	return func(c *Config) { c.File = enable }
}

// WithJSON 启用或关闭 JSON 文件输出
func WithJSON(enable bool) ConfigOption {
	return func(c *Config) { c.JSON = enable }
}

// WithDir 设置日志目录
func WithDir(dirname string) ConfigOption {
	return func(c *Config) { c.Dirname = dirname }
}

// WithFilename 设置主日志文件名
func WithFilename(filename string) ConfigOption {
	return func(c *Config) { c.Filename = filename }
}

// WithRotation 设置轮转策略
func WithRotation(rotation string) ConfigOption {
	return func(c *Config) { c.Rotation = rotation }
}

// WithRetention 设置保留策略
func WithRetention(retention string) ConfigOption {
	return func(c *Config) { c.Retention = retention }
}

// WithEncoding 设置文件编码
func WithEncoding(enc xlevel.Encoding) ConfigOption {
	return func(c *Config) { c.Encoding = enc }
}

// WithPattern 设置文件模板
func WithPattern(pattern string) ConfigOption {
	return func(c *Config) { c.Pattern = pattern }
}

// WithConsolePattern 设置控制台模板
func WithConsolePattern(pattern string) ConfigOption {
	return func(c *Config) { c.ConsolePattern = pattern }
}

// WithColorize 设置控制台着色
func WithColorize(enable bool) ConfigOption {
	return func(c *Config) { c.Colorize = enable }
}

// WithCompression 设置备份压缩
func WithCompression(enable bool) ConfigOption {
	return func(c *Config) { c.Compression = enable }
}

// WithEnqueue 设置文件异步写入
func WithEnqueue(enable bool) ConfigOption {
	return func(c *Config) { c.Enqueue = enable }
}

// WithBacktrace 设置错误回溯
func WithBacktrace(enable bool) ConfigOption {
	return func(c *Config) { c.Backtrace = enable }
}

// WithOverride 添加一条名称前缀级别覆盖
func WithOverride(prefix string, level xlevel.Level) ConfigOption {
	return func(c *Config) {
		if c.Overrides == nil {
			c.Overrides = make(map[string]xlevel.Level)
		}
		c.Overrides[prefix] = level
	}
}

// Clone 返回深拷贝
func (c Config) Clone() Config {
	c.Overrides = maps.Clone(c.Overrides)
	return c
}

// Validate 检查配置能否生效，所有问题合并返回，均包装 [ErrInvalidConfig]
//
// 只做格式校验，不创建目录。
func (c Config) Validate() error {
	var errs []error
	if c.File {
		if strings.TrimSpace(c.Dirname) == "" {
			errs = append(errs, errors.New("dirname is required when file output is enabled"))
		}
		if _, err := c.FilePath(); err != nil {
			errs = append(errs, err)
		}
		if _, err := xrotate.ParseRotation(c.Rotation); err != nil {
			errs = append(errs, err)
		}
		if _, err := xrotate.ParseRetention(c.Retention); err != nil {
			errs = append(errs, err)
		}
		if _, err := c.Encoding.Resolve(); err != nil {
			errs = append(errs, err)
		}
		if err := xsink.ValidatePattern(c.Pattern); err != nil {
			errs = append(errs, fmt.Errorf("pattern: %w", err))
		}
	}
	if c.Console {
		if err := xsink.ValidatePattern(c.ConsolePattern); err != nil {
			errs = append(errs, fmt.Errorf("console pattern: %w", err))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}
