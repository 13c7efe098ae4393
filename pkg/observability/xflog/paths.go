package xflog

import (
	"path/filepath"

	"github.com/omeyang/xflog/pkg/util/xfile"
)

// logExt 识别为日志文件的扩展名
const logExt = ".log"

// JSONPath 由主日志路径派生 JSON 日志路径
//
// "logs/service.log" → "logs/service-json.log"；不以 .log 结尾时追加 ".json"。
func JSONPath(path string) string {
	return xfile.InsertSuffix(path, "-json", logExt, ".json")
}

// DedicatedPath 返回命名 logger 专属文件路径 dirname/{name}.log
//
// 名称中的路径分隔符等字符会被替换，专属文件始终位于 dirname 下。
func DedicatedPath(dirname, name string) (string, error) {
	return xfile.JoinFile(dirname, xfile.SafeName(name)+logExt)
}

// FilePath 返回主日志文件路径 Dirname/Filename
func (c Config) FilePath() (string, error) {
	return xfile.JoinFile(c.Dirname, c.Filename)
}

// JSONFilePath 返回 JSON 日志文件路径
func (c Config) JSONFilePath() (string, error) {
	p, err := c.FilePath()
	if err != nil {
		return "", err
	}
	return JSONPath(p), nil
}

// Layout 配置产生的文件布局
type Layout struct {
	File      string            `json:"file,omitempty"`
	JSON      string            `json:"json,omitempty"`
	Dedicated map[string]string `json:"dedicated,omitempty"`
}

// Layout 返回配置在给定命名 logger 下产生的全部文件路径
//
// File 未启用时返回空布局。
func (c Config) Layout(names ...string) (Layout, error) {
	var l Layout
	if !c.File {
		return l, nil
	}
	p, err := c.FilePath()
	if err != nil {
		return l, err
	}
	l.File = filepath.Clean(p)
	if c.JSON {
		l.JSON = JSONPath(l.File)
	}
	for _, name := range names {
		if name == "" || name == DefaultName {
			continue
		}
		dp, err := DedicatedPath(c.Dirname, name)
		if err != nil {
			return l, err
		}
		if l.Dedicated == nil {
			l.Dedicated = make(map[string]string, len(names))
		}
		l.Dedicated[name] = dp
	}
	return l, nil
}
