package xconf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/knadh/koanf/v2"

	"github.com/omeyang/xflog/pkg/observability/xflog"
	"github.com/omeyang/xflog/pkg/observability/xlevel"
)

// overridesKey 日志配置中前缀级别覆盖的字段名
const overridesKey = "overrides"

// decodeLogging 在默认日志配置上叠加 key 下的内容
//
// overrides 单独解析：前缀本身常含 "."（如 "app.db"），与键路径分隔符冲突。
// 扁平写法 "app.db: ERROR" 与嵌套写法 "app: {db: ERROR}" 得到同一个前缀。
func decodeLogging(k *koanf.Koanf, key string, opts *Options) (xflog.Config, error) {
	var sub *koanf.Koanf
	if key == "" {
		sub = k.Copy()
	} else {
		sub = k.Cut(key)
	}
	overrides := sub.Cut(overridesKey)
	sub.Delete(overridesKey)

	cfg := xflog.DefaultConfig()
	if err := sub.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: opts.Tag}); err != nil {
		return xflog.Config{}, fmt.Errorf("%w: %s: %w", ErrUnmarshalFailed, key, err)
	}

	var errs []error
	for path, raw := range overrides.All() {
		level, err := xlevel.ParseLevel(fmt.Sprint(raw))
		if err != nil {
			errs = append(errs, fmt.Errorf("override %q: %w", path, err))
			continue
		}
		if cfg.Overrides == nil {
			cfg.Overrides = make(map[string]xlevel.Level)
		}
		cfg.Overrides[strings.ReplaceAll(path, opts.Delim, ".")] = level
	}
	if len(errs) > 0 {
		return xflog.Config{}, fmt.Errorf("%w: %w", ErrUnmarshalFailed, errors.Join(errs...))
	}

	if err := cfg.Validate(); err != nil {
		return xflog.Config{}, err
	}
	return cfg, nil
}
