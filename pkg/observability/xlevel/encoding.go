package xlevel

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// Encoding 文件输出的文本编码名称
type Encoding string

// 常用编码
const (
	UTF8    Encoding = "utf-8"
	UTF16   Encoding = "utf-16"
	GBK     Encoding = "gbk"
	GB18030 Encoding = "gb18030"
	Latin1  Encoding = "latin-1"
)

// aliases 常见写法到 WHATWG 名称的映射
var aliases = map[string]string{
	"utf8":    "utf-8",
	"latin-1": "iso-8859-1",
	"latin1":  "iso-8859-1",
	"utf16":   "utf-16le",
	"utf-16":  "utf-16le",
}

// String 返回编码名称
func (e Encoding) String() string {
	return string(e)
}

// normalized 返回规范化的编码名称，空值视为 UTF-8
func (e Encoding) normalized() string {
	name := strings.ToLower(strings.TrimSpace(string(e)))
	if name == "" {
		return string(UTF8)
	}
	if alias, ok := aliases[name]; ok {
		return alias
	}
	return name
}

// IsUTF8 报告编码是否为 UTF-8（无需转码）
func (e Encoding) IsUTF8() bool {
	return e.normalized() == string(UTF8)
}

// Resolve 返回 x/text 的编码实现
//
// UTF-8 返回 unicode.UTF8（透传）；其余名称通过 htmlindex 解析。
func (e Encoding) Resolve() (encoding.Encoding, error) {
	name := e.normalized()
	if name == string(UTF8) {
		return unicode.UTF8, nil
	}
	if name == "utf-16le" {
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, string(e))
	}
	return enc, nil
}

// MarshalText 实现 encoding.TextMarshaler 接口
func (e Encoding) MarshalText() ([]byte, error) {
	return []byte(e), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler 接口，解析时即校验编码可用
func (e *Encoding) UnmarshalText(data []byte) error {
	candidate := Encoding(strings.TrimSpace(string(data)))
	if _, err := candidate.Resolve(); err != nil {
		return err
	}
	*e = candidate
	return nil
}
