package xfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultDirPerm 日志目录默认权限（所有者 rwx，组 r-x，其他无）
const DefaultDirPerm = 0o750

// EnsureDir 确保目录存在，使用 [DefaultDirPerm]
//
// 目录已存在时不修改其权限。路径存在但不是目录时返回错误。
func EnsureDir(dir string) error {
	return EnsureDirWithPerm(dir, DefaultDirPerm)
}

// EnsureDirWithPerm 确保目录存在，使用指定权限
func EnsureDirWithPerm(dir string, perm os.FileMode) error {
	if dir == "" {
		return ErrEmptyPath
	}
	if strings.ContainsRune(dir, 0) {
		return ErrNullByte
	}
	if perm&0o100 == 0 {
		return fmt.Errorf("%w: %04o lacks owner execute bit", ErrInvalidPerm, perm)
	}
	return os.MkdirAll(dir, perm)
}

// EnsureParent 确保文件的父目录存在
//
// 父目录为 "." 时直接返回。
func EnsureParent(filename string) error {
	if filename == "" {
		return ErrEmptyPath
	}
	dir := filepath.Dir(filename)
	if dir == "." {
		return nil
	}
	return EnsureDir(dir)
}
