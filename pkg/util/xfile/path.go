package xfile

import (
	"fmt"
	"path/filepath"
	"strings"
)

// hasDotDotSegment 检测 ".." 是否作为独立路径段出现
//
// "/" 与 "\" 都视为分隔符；"app..2024.log" 这类文件名不会被误判。
func hasDotDotSegment(path string) bool {
	for _, seg := range strings.FieldsFunc(path, isSeparator) {
		if seg == ".." {
			return true
		}
	}
	return false
}

func isSeparator(r rune) bool {
	return r == '/' || r == '\\'
}

// SanitizePath 规范化日志文件路径并做格式校验
//
// 拒绝：空路径、空字节、以分隔符结尾的目录路径、包含 ".." 路径段的路径。
// 接受绝对路径；本函数只做格式净化，不做目录隔离。
func SanitizePath(filename string) (string, error) {
	if filename == "" {
		return "", ErrEmptyPath
	}
	if strings.ContainsRune(filename, 0) {
		return "", ErrNullByte
	}
	// 必须在 Clean 之前检查，Clean 会去掉尾部分隔符
	if strings.HasSuffix(filename, "/") || strings.HasSuffix(filename, "\\") {
		return "", fmt.Errorf("%w: %q is a directory", ErrInvalidPath, filename)
	}

	cleaned := filepath.Clean(filename)
	if hasDotDotSegment(cleaned) {
		return "", fmt.Errorf("%w: %q", ErrPathTraversal, filename)
	}
	return cleaned, nil
}

// JoinFile 将文件名拼接到日志目录下
//
// name 必须是单一的相对文件名：不能为空、不能是绝对路径、不能包含分隔符或 ".."。
// dir 为空时视为当前目录。
func JoinFile(dir, name string) (string, error) {
	if name == "" {
		return "", ErrEmptyPath
	}
	if strings.ContainsRune(dir, 0) || strings.ContainsRune(name, 0) {
		return "", ErrNullByte
	}
	if filepath.IsAbs(name) || strings.ContainsFunc(name, isSeparator) {
		return "", fmt.Errorf("%w: %q must be a bare file name", ErrInvalidPath, name)
	}
	if name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrPathTraversal, name)
	}
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, name), nil
}

// SafeName 将任意逻辑名称转换为可用作文件名的形式
//
// 分隔符、空字节与冒号替换为 "_"；结果为空或仅由点组成时返回 "_"。
func SafeName(name string) string {
	mapped := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if strings.Trim(mapped, ".") == "" {
		return "_"
	}
	return mapped
}

// InsertSuffix 在扩展名 ext 之前插入 suffix
//
// path 不以 ext 结尾时返回 path + fallbackExt。
//
//	InsertSuffix("logs/app.log", "-json", ".log", ".json") // "logs/app-json.log"
//	InsertSuffix("logs/app.txt", "-json", ".log", ".json") // "logs/app.txt.json"
func InsertSuffix(path, suffix, ext, fallbackExt string) string {
	if ext != "" && strings.HasSuffix(path, ext) {
		return strings.TrimSuffix(path, ext) + suffix + ext
	}
	return path + fallbackExt
}
