package xfile

import "errors"

var (
	// ErrEmptyPath 必需的路径参数为空
	ErrEmptyPath = errors.New("xfile: path is required")

	// ErrInvalidPath 路径格式无效（目录路径、绝对路径出现在需要相对名称处等）
	ErrInvalidPath = errors.New("xfile: invalid path")

	// ErrPathTraversal 路径包含 ".." 路径段
	ErrPathTraversal = errors.New("xfile: path traversal detected")

	// ErrNullByte 路径包含空字节，内核会在此处截断路径
	ErrNullByte = errors.New("xfile: path contains null byte")

	// ErrInvalidPerm 目录权限缺少所有者执行位，目录将无法遍历
	ErrInvalidPerm = errors.New("xfile: invalid directory permission")
)
