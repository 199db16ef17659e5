package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger 按配置创建日志记录器
// 参数: cfg 日志配置
// 返回值: *zap.Logger 日志记录器, error 错误信息
func NewLogger(cfg LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch strings.ToLower(cfg.Format) {
	case "json":
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	default:
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	var sink zapcore.WriteSyncer
	switch strings.ToLower(cfg.Output) {
	case "file":
		rotate, err := rotateWriter(cfg)
		if err != nil {
			return nil, err
		}
		sink = rotate
	case "both":
		rotate, err := rotateWriter(cfg)
		if err != nil {
			return nil, err
		}
		sink = zapcore.NewMultiWriteSyncer(zapcore.Lock(os.Stderr), rotate)
	default:
		sink = zapcore.Lock(os.Stderr)
	}

	return zap.New(zapcore.NewCore(encoder, sink, level)), nil
}

// rotateWriter 创建带轮转的文件输出
func rotateWriter(cfg LogConfig) (zapcore.WriteSyncer, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
		LocalTime:  true,
	}), nil
}
