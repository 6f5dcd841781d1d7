// Package logger builds the application's zap logger.  Entries are written
// as JSON to a rotating file and mirrored to stdout, using the console
// encoder outside production.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New returns a logger teeing to logFilePath and stdout.  An empty path
// disables the file core.
func New(logFilePath string, isProd bool) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.MessageKey = "message"
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	jsonEncoder := zapcore.NewJSONEncoder(encoderConfig)

	consoleEncoder := jsonEncoder
	consoleLevel := zapcore.InfoLevel
	if !isProd {
		consoleEncoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		consoleLevel = zapcore.DebugLevel
	}
	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stdout), consoleLevel),
	}

	if logFilePath != "" {
		rotator := &lumberjack.Logger{
			Filename:   logFilePath,
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(jsonEncoder, zapcore.AddSync(rotator), zapcore.InfoLevel))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller())
}

// Module returns a child logger tagged with the component name.
func Module(l *zap.Logger, name string) *zap.Logger {
	return l.With(zap.String("module", name))
}
