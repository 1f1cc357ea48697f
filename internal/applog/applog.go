// Package applog builds the ambient *zap.Logger used for everything
// outside the per-parse/per-import diag.Sink (§7): CLI argument echo,
// file I/O around a parse/import call, timing. The parser and importer
// packages never import zap directly; they only see diag.Sink.
package applog

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggingConfig controls the console and optional file destinations of
// the built logger. Zero value logs "normal" to the console and
// nowhere else.
type LoggingConfig struct {
	ConsoleLevel string `yaml:"console_level"` // "", "normal", "debug"
	FileLevel    string `yaml:"file_level"`     // "", "normal", "debug"
	FileDest     string `yaml:"file_destination"`
}

// Build constructs a *zap.Logger from conf: a low-priority console core
// (info/debug below error) and a high-priority one (error and above),
// teed with an optional file core, matching the donor logger's
// split-by-priority shape but without its report/panic-capture
// machinery, which this repo has no use for.
func Build(conf LoggingConfig) (*zap.Logger, error) {
	highPriority := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool { return lvl >= zapcore.ErrorLevel })

	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	if enableColorOutput(os.Stdout) {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.TimeKey = zapcore.OmitKey
	} else {
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	consoleEncoder := zapcore.NewConsoleEncoder(ec)

	var lowCore, highCore zapcore.Core
	switch conf.ConsoleLevel {
	case "debug":
		lowCore = zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stdout), zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return zapcore.DebugLevel <= lvl && lvl < zapcore.ErrorLevel
		}))
		highCore = zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stderr), highPriority)
	case "normal", "":
		lowCore = zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stdout), zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return zapcore.InfoLevel <= lvl && lvl < zapcore.ErrorLevel
		}))
		highCore = zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stderr), highPriority)
	default:
		lowCore = zapcore.NewNopCore()
		highCore = zapcore.NewNopCore()
	}

	fileCore := zapcore.NewNopCore()
	if conf.FileLevel != "" && conf.FileDest != "" {
		f, err := os.OpenFile(conf.FileDest, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log destination %q: %w", conf.FileDest, err)
		}
		level := zap.InfoLevel
		if conf.FileLevel == "debug" {
			level = zap.DebugLevel
		}
		fileCore = zapcore.NewCore(zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()), zapcore.Lock(f), level)
	}

	return zap.New(zapcore.NewTee(lowCore, highCore, fileCore), zap.AddCaller()).Named("kicadtool"), nil
}

// enableColorOutput reports whether stream looks like an interactive
// terminal, without pulling in a terminal-detection dependency the
// donor's gio-era go.mod supplied only for its windowed UI.
func enableColorOutput(stream *os.File) bool {
	fi, err := stream.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
