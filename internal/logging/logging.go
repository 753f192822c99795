// Package logging builds the zap loggers used by sidequest.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileName is the default log file inside the state directory.
const FileName = "sidequest.log"

// Options configures a logger.
type Options struct {
	// Path is the log file. Empty disables file logging.
	Path string

	// Console mirrors log lines to Console in a human-readable format.
	Console io.Writer

	// Level defaults to info.
	Level zapcore.Level
}

// New returns a logger writing JSON lines to a rotated file and,
// optionally, readable lines to a console writer. With neither sink
// configured it returns a no-op logger.
func New(opts Options) (*zap.Logger, error) {
	var cores []zapcore.Core

	if opts.Path != "" {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
			return nil, err
		}
		writer := zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.Path,
			MaxSize:    10, // MB
			MaxBackups: 7,
			MaxAge:     28, // days
			Compress:   true,
		})

		encoderCfg := zap.NewProductionEncoderConfig()
		encoderCfg.TimeKey = "ts"
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), writer, opts.Level))
	}

	if opts.Console != nil {
		encoderCfg := zap.NewDevelopmentEncoderConfig()
		encoderCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(opts.Console), opts.Level))
	}

	if len(cores) == 0 {
		return zap.NewNop(), nil
	}
	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}
