package logger

import (
	"os"

	"exam_bank_backend/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var Log *zap.Logger

// InitLogger builds the global logger: JSON records to a rotated file plus a
// console stream. Debug mode lowers the level and switches the console to
// the development encoder so validation traces stay readable.
func InitLogger(cfg *config.Config) {
	debug := cfg.Server.Mode == "debug"

	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	fileEncoder := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	consoleEncoder := fileEncoder
	consoleEncoder.EncodeLevel = zapcore.CapitalLevelEncoder
	consoleEncoder.EncodeTime = zapcore.ISO8601TimeEncoder

	fileSink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   "logs/exam_bank.log",
		MaxSize:    50,
		MaxBackups: 10,
		MaxAge:     14,
		Compress:   true,
	})

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoder), fileSink, level),
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoder), zapcore.AddSync(os.Stdout), level),
	)

	opts := []zap.Option{zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel)}
	if debug {
		opts = append(opts, zap.Development())
	}

	Log = zap.New(core, opts...)
}
