package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var global *zap.Logger = zap.NewNop()

// Init 按服务器模式构建全局zap日志器。
// debug模式下使用便于阅读的开发配置，其余使用JSON生产配置。
func Init(mode string) (*zap.Logger, error) {
	var cfg zap.Config
	if mode == "debug" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	global = l
	return l, nil
}

// L 返回全局日志器。Init之前返回no-op日志器，测试中可以直接使用。
func L() *zap.Logger {
	return global
}

// Sync 刷新缓冲的日志条目，进程退出前调用。
func Sync() {
	_ = global.Sync()
}
