// xflogctl 是 xflog 日志配置的命令行工具。
//
// 用法:
//
//	xflogctl [全局选项] <命令> [命令参数]
//
// 全局选项:
//
//	-c, --config   配置文件路径（.yaml/.yml/.json），缺省时使用默认日志配置
//	-k, --key      日志配置在文件中的位置 (默认: logging)
//
// 命令:
//
//	emit <message>      按配置初始化日志并输出一条记录
//	paths [name...]     打印配置产生的日志文件布局
//	level <name...>     打印名称的有效级别
//	watch               监视配置文件，热更新日志配置并周期输出心跳
//
// 退出码:
//
//	0: 成功
//	1: 执行失败（配置无法加载、日志目录无法创建等）
//	2: 参数错误
//
// 示例:
//
//	xflogctl -c app.yaml emit --name app.db --level warning "slow query" --attr ms=120
//	xflogctl -c app.yaml paths worker api
//	xflogctl -c app.yaml level app.db app.web
//	xflogctl -c app.yaml watch --interval 5s
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xflog/pkg/config/xconf"
)

// 版本信息（可通过 -ldflags 注入）
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// defaultInterval watch 心跳间隔
const defaultInterval = 10 * time.Second

func main() {
	os.Exit(run())
}

func createApp() *cli.Command {
	return &cli.Command{
		Name:    "xflogctl",
		Usage:   "xflog 日志配置命令行工具",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "配置文件路径（.yaml/.yml/.json）",
			},
			&cli.StringFlag{
				Name:    "key",
				Aliases: []string{"k"},
				Usage:   "日志配置在文件中的位置，空字符串表示整个文件",
				Value:   xconf.DefaultLoggingKey,
			},
		},
		Commands:       createCommands(),
		DefaultCommand: "help",
		// 退出码由 run 统一映射，不让 urfave/cli 直接 os.Exit
		ExitErrHandler: func(_ context.Context, cmd *cli.Command, err error) {
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(cmd.Root().ErrWriter, err)
			}
		},
	}
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	setupSignalHandler(cancel)

	return exitCode(createApp().Run(ctx, os.Args))
}

// exitCode 将命令错误映射为退出码，并输出错误信息
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var usageErr *usageError
	if errors.As(err, &usageErr) {
		fmt.Fprintf(os.Stderr, "参数错误: %v\n", usageErr)
		return 2
	}
	if _, ok := err.(cli.ExitCoder); ok {
		return 2
	}
	fmt.Fprintf(os.Stderr, "错误: %v\n", err)
	return 1
}
