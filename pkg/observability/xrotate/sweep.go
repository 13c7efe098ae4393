package xrotate

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// backupTimeFormat lumberjack 备份文件名中的时间格式
const backupTimeFormat = "2006-01-02T15-04-05.000"

// Sweep 删除 filename 对应的、早于 now-maxAge 的轮转备份
//
// 备份按 lumberjack 命名规则识别：<stem>-<time><ext>[.gz]，时间从文件名解析，
// 因此同目录下的其他日志（如 service-json.log）不会被误删。
// 返回被删除的文件路径；单个文件删除失败不会中断清理，错误汇总返回。
func Sweep(filename string, maxAge time.Duration, now time.Time, localTime bool) ([]string, error) {
	if maxAge <= 0 {
		return nil, nil
	}
	dir := filepath.Dir(filename)
	base := filepath.Base(filename)
	ext := filepath.Ext(base)
	prefix := strings.TrimSuffix(base, ext) + "-"

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	loc := time.UTC
	if localTime {
		loc = time.Local
	}
	cutoff := now.Add(-maxAge)

	var removed []string
	var errs []error
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ts, ok := backupTime(entry.Name(), prefix, ext, loc)
		if !ok || !ts.Before(cutoff) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
			continue
		}
		removed = append(removed, path)
	}
	return removed, errors.Join(errs...)
}

// backupTime 从备份文件名中解析轮转时间
func backupTime(name, prefix, ext string, loc *time.Location) (time.Time, bool) {
	name = strings.TrimSuffix(name, ".gz")
	if len(name) < len(prefix)+len(ext) || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ext) {
		return time.Time{}, false
	}
	stamp := name[len(prefix) : len(name)-len(ext)]
	ts, err := time.ParseInLocation(backupTimeFormat, stamp, loc)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}
