// Package xflog 提供命名 logger、分级过滤与多 sink 输出的日志门面。
//
// # 组成
//
//   - [Record]: 一次日志调用（名称、级别、消息、附加属性、时间、调用点），构造后不可变
//   - [Config]: 运行时配置，值类型，[DefaultConfig] 为仅控制台的 INFO 配置
//   - [Appender]: 对一个引擎 sink 的封装，有 Console/File/JSON 三种
//   - [Registry]: 持有 sink 生命周期、全局级别与前缀覆盖，负责路由
//   - [Logger] / [Manager]: 按名称缓存的 logger 及其工厂
//
// # 过滤
//
// 名称的有效级别是最长匹配前缀的覆盖级别，无匹配时为全局级别；空前缀不参与匹配。
// 前缀是纯字符串前缀，"app" 同时匹配 "app.db" 和 "apple"。
// 级别顺序 TRACE < DEBUG < INFO < WARNING < ERROR < CRITICAL；
// SUCCESS 不在顺序表中，过滤时总是放行。
//
// # 文件布局
//
//	dirname/filename               主日志（File）
//	dirname/<stem>-json.log        JSON 日志（File+JSON）
//	dirname/<name>.log             命名 logger 专属文件（File，非 default 名称）
//
// # 用法
//
//	m := xflog.NewManager(nil)
//	if err := m.Configure(xflog.NewConfig(xflog.WithFile(true), xflog.WithDir("logs"))); err != nil {
//		return err
//	}
//	defer m.Close()
//	m.GetLogger("app.db").Info("connected", slog.String("addr", addr))
//
// 包级函数 [GetLogger]、[Configure]、[Reset]、[SetLevel] 作用于进程级默认
// Manager（[Default]），适用于小工具；服务端推荐显式持有 Manager。
//
// # 错误
//
// 配置错误从 Configure/AddFileSink 返回；写入错误不返回给日志调用方，
// 计入 xflog.records.errors 指标并交给 [WithOnError] 回调。
package xflog
