package xconf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/omeyang/xflog/pkg/observability/xflog"
)

// koanfConfig Config 的 koanf 实现
//
// 当前实例通过 atomic.Pointer 发布，Reload 在 mu 下串行执行。
type koanfConfig struct {
	k       atomic.Pointer[koanf.Koanf]
	path    string
	format  Format
	opts    *Options
	mu      sync.Mutex
	isBytes bool
}

// New 从文件创建配置，按扩展名识别格式（.yaml/.yml/.json）
func New(path string, opts ...Option) (Config, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	format, err := detectFormat(path)
	if err != nil {
		return nil, err
	}

	options := applyOptions(opts)
	k, err := readFile(path, format, options)
	if err != nil {
		return nil, err
	}
	c := &koanfConfig{path: path, format: format, opts: options}
	c.k.Store(k)
	return c, nil
}

// NewFromBytes 从字节数据创建配置，空数据得到空配置
func NewFromBytes(data []byte, format Format, opts ...Option) (Config, error) {
	if !isValidFormat(format) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	options := applyOptions(opts)
	k := koanf.New(options.Delim)
	if len(data) > 0 {
		if err := loadData(k, data, format); err != nil {
			return nil, err
		}
	}
	c := &koanfConfig{format: format, opts: options, isBytes: true}
	c.k.Store(k)
	return c, nil
}

func (c *koanfConfig) Client() *koanf.Koanf {
	return c.k.Load()
}

func (c *koanfConfig) Unmarshal(path string, target any) error {
	if err := c.k.Load().UnmarshalWithConf(path, target, koanf.UnmarshalConf{Tag: c.opts.Tag}); err != nil {
		return fmt.Errorf("%w: %w", ErrUnmarshalFailed, err)
	}
	return nil
}

func (c *koanfConfig) Logging(key string) (xflog.Config, error) {
	return decodeLogging(c.k.Load(), key, c.opts)
}

// Reload 重新读取文件，解析失败时保留旧配置
func (c *koanfConfig) Reload() error {
	if c.isBytes {
		return ErrReloadBytes
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	k, err := readFile(c.path, c.format, c.opts)
	if err != nil {
		return err
	}
	c.k.Store(k)
	return nil
}

func (c *koanfConfig) Path() string   { return c.path }
func (c *koanfConfig) Format() Format { return c.format }

// =============================================================================
// 内部辅助函数
// =============================================================================

func readFile(path string, format Format, opts *Options) (*koanf.Koanf, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	k := koanf.New(opts.Delim)
	if err := loadData(k, data, format); err != nil {
		return nil, err
	}
	return k, nil
}

func detectFormat(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown extension %q", ErrUnsupportedFormat, ext)
	}
}

func isValidFormat(format Format) bool {
	return format == FormatYAML || format == FormatJSON
}

func loadData(k *koanf.Koanf, data []byte, format Format) error {
	var parser koanf.Parser
	switch format {
	case FormatYAML:
		parser = yaml.Parser()
	case FormatJSON:
		parser = json.Parser()
	default:
		return ErrUnsupportedFormat
	}
	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	return nil
}
