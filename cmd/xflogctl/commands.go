package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xflog/pkg/config/xconf"
	"github.com/omeyang/xflog/pkg/observability/xflog"
	"github.com/omeyang/xflog/pkg/observability/xlevel"
)

// usageError 参数错误，退出码 2
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

func createCommands() []*cli.Command {
	return []*cli.Command{
		createEmitCommand(),
		createPathsCommand(),
		createLevelCommand(),
		createWatchCommand(),
	}
}

// =============================================================================
// 配置加载
// =============================================================================

// loadLogging 读取 --config 指向的日志配置，未指定时返回默认配置
func loadLogging(cmd *cli.Command) (xflog.Config, xconf.Config, error) {
	path := cmd.String("config")
	if path == "" {
		return xflog.DefaultConfig(), nil, nil
	}
	src, err := xconf.New(path)
	if err != nil {
		return xflog.Config{}, nil, err
	}
	cfg, err := src.Logging(cmd.String("key"))
	if err != nil {
		return xflog.Config{}, nil, err
	}
	return cfg, src, nil
}

// newManager 创建输出到命令 Writer 的 Manager，内部错误写到 ErrWriter
func newManager(cmd *cli.Command) *xflog.Manager {
	root := cmd.Root()
	errw := root.ErrWriter
	return xflog.NewManager(xflog.NewRegistry(
		xflog.WithStdout(root.Writer),
		xflog.WithOnError(func(err error) {
			fmt.Fprintf(errw, "xflog: %v\n", err)
		}),
	))
}

// parseAttrs 把 k=v 形式的参数转为属性
func parseAttrs(raw []string) ([]slog.Attr, error) {
	attrs := make([]slog.Attr, 0, len(raw))
	for _, kv := range raw {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return nil, usagef("invalid attr %q, want key=value", kv)
		}
		attrs = append(attrs, slog.String(k, v))
	}
	return attrs, nil
}

// =============================================================================
// emit
// =============================================================================

func createEmitCommand() *cli.Command {
	return &cli.Command{
		Name:      "emit",
		Aliases:   []string{"e"},
		Usage:     "按配置初始化日志并输出一条记录",
		ArgsUsage: "<message>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "logger 名称",
				Value:   xflog.DefaultName,
			},
			&cli.StringFlag{
				Name:    "level",
				Aliases: []string{"l"},
				Usage:   "级别 (trace/debug/info/success/warning/error/critical)",
				Value:   "info",
			},
			&cli.StringSliceFlag{
				Name:    "attr",
				Aliases: []string{"a"},
				Usage:   "附加属性 key=value，可重复",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cmdEmit(ctx, cmd)
		},
	}
}

func cmdEmit(ctx context.Context, cmd *cli.Command) (err error) {
	msg := strings.Join(cmd.Args().Slice(), " ")
	if msg == "" {
		return usagef("emit requires a message")
	}
	level, err := xlevel.ParseLevel(cmd.String("level"))
	if err != nil {
		return usagef("%v", err)
	}
	attrs, err := parseAttrs(cmd.StringSlice("attr"))
	if err != nil {
		return err
	}
	cfg, _, err := loadLogging(cmd)
	if err != nil {
		return err
	}

	m := newManager(cmd)
	if err := m.Configure(cfg); err != nil {
		return err
	}
	// Close 排空异步队列，文件内容在返回前落盘
	defer func() {
		if closeErr := m.Close(); err == nil {
			err = closeErr
		}
	}()

	m.GetLogger(cmd.String("name")).Log(ctx, level, msg, attrs...)
	return nil
}

// =============================================================================
// paths
// =============================================================================

func createPathsCommand() *cli.Command {
	return &cli.Command{
		Name:      "paths",
		Aliases:   []string{"p"},
		Usage:     "打印配置产生的日志文件布局",
		ArgsUsage: "[name...]",
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg, _, err := loadLogging(cmd)
			if err != nil {
				return err
			}
			return printLayout(cmd.Root().Writer, cfg, cmd.Args().Slice())
		},
	}
}

func printLayout(w io.Writer, cfg xflog.Config, names []string) error {
	layout, err := cfg.Layout(names...)
	if err != nil {
		return err
	}
	if layout.File == "" {
		fmt.Fprintln(w, "file output disabled")
		return nil
	}
	fmt.Fprintf(w, "file\t%s\n", layout.File)
	if layout.JSON != "" {
		fmt.Fprintf(w, "json\t%s\n", layout.JSON)
	}
	for _, name := range slices.Sorted(maps.Keys(layout.Dedicated)) {
		fmt.Fprintf(w, "%s\t%s\n", name, layout.Dedicated[name])
	}
	return nil
}

// =============================================================================
// level
// =============================================================================

func createLevelCommand() *cli.Command {
	return &cli.Command{
		Name:      "level",
		Aliases:   []string{"l"},
		Usage:     "打印名称的有效级别",
		ArgsUsage: "<name...>",
		Action: func(_ context.Context, cmd *cli.Command) error {
			names := cmd.Args().Slice()
			if len(names) == 0 {
				return usagef("level requires at least one name")
			}
			cfg, _, err := loadLogging(cmd)
			if err != nil {
				return err
			}
			return printLevels(cmd.Root().Writer, cfg, names)
		},
	}
}

// printLevels 用不挂 sink 的 Registry 计算有效级别
func printLevels(w io.Writer, cfg xflog.Config, names []string) error {
	cfg.Console, cfg.File = false, false
	r := xflog.NewRegistry()
	if err := r.Configure(cfg); err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%s\n", name, r.EffectiveLevel(name))
	}
	return r.Close()
}

// =============================================================================
// watch
// =============================================================================

func createWatchCommand() *cli.Command {
	return &cli.Command{
		Name:    "watch",
		Aliases: []string{"w"},
		Usage:   "监视配置文件，热更新日志配置并周期输出心跳",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "心跳使用的 logger 名称",
				Value:   "xflogctl",
			},
			&cli.DurationFlag{
				Name:    "interval",
				Aliases: []string{"i"},
				Usage:   "心跳间隔",
				Value:   defaultInterval,
			},
			&cli.IntFlag{
				Name:  "count",
				Usage: "输出指定次数心跳后退出，0 表示直到中断",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cmdWatch(ctx, cmd)
		},
	}
}

func cmdWatch(ctx context.Context, cmd *cli.Command) (err error) {
	if cmd.String("config") == "" {
		return usagef("watch requires --config")
	}
	interval := cmd.Duration("interval")
	if interval <= 0 {
		return usagef("interval must be positive")
	}
	count := cmd.Int("count")
	if count < 0 {
		return usagef("count must not be negative")
	}

	cfg, src, err := loadLogging(cmd)
	if err != nil {
		return err
	}
	m := newManager(cmd)
	if err := m.Configure(cfg); err != nil {
		return err
	}
	defer func() {
		if closeErr := m.Close(); err == nil {
			err = closeErr
		}
	}()

	logger := m.GetLogger(cmd.String("name"))
	w, err := xconf.Watch(src, xconf.ApplyLogging(cmd.String("key"), m.Configure, func(err error) {
		logger.Error("reload logging config failed", slog.Any("error", err))
	}))
	if err != nil {
		return err
	}
	defer func() {
		if stopErr := w.Stop(); err == nil {
			err = stopErr
		}
	}()
	w.StartAsync()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for beat := 1; count == 0 || beat <= count; beat++ {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			logger.Info("heartbeat", slog.Int("beat", beat))
		}
	}
	return nil
}

// =============================================================================
// 信号
// =============================================================================

// setupSignalHandler 第一次信号取消 ctx，第二次强制退出（130 = 128 + SIGINT）
func setupSignalHandler(cancel context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()

		<-sigCh
		signal.Stop(sigCh)
		os.Exit(130)
	}()
}
