// Package xconf 从 YAML/JSON 文件加载配置，基于 koanf 实现。
//
// # 定位
//
// xconf 是最小化的配置加载器：负责文件或字节数据的加载、反序列化和热重载，
// 并把其中的日志段解析为 [xflog.Config]。
//
//   - 工厂函数：[New]、[NewFromBytes]
//   - Client() 暴露底层 koanf 实例
//   - Logging(key) 在 [xflog.DefaultConfig] 上叠加文件内容并校验
//
// # 日志配置示例
//
//	logging:
//	  level: debug
//	  file: true
//	  dirname: /var/log/app
//	  rotation: "00:00"
//	  retention: 7 days
//	  overrides:
//	    app.db: error
//	    app:
//	      web: warning
//
// overrides 的前缀可以写成带点的扁平键，也可以写成嵌套结构，二者等价。
//
// # 并发安全
//
// Reload 串行执行，解析成功后原子替换 koanf 实例，失败时保留旧配置。
// Client() 返回的是快照，Reload 后旧指针仍可用但数据过期。
//
// # 配置监视
//
// [Watch] 基于 fsnotify 监视配置文件所在目录，内置防抖，支持编辑器的
// 原子写入（写临时文件后 rename）。[ApplyLogging] 把重载结果接到
// [xflog.Manager.Configure] 上实现日志配置热更新。
package xconf
