package rawpipe

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the writeLog(priority, fmt, args...) hook from §6, backed by
// zap instead of the teacher's bare fmt.Printf-based x3f.Logger. The
// priority strings line up with zap's level names so callers that only
// know about "INFO"/"WARN"/"DEBUG" (the vocabulary spec.md uses) don't
// need to import zap themselves.
type Logger struct {
	sugar *zap.SugaredLogger
}

// NewLogger builds a console-and-optional-rotating-file logger. logPath
// == "" disables the file sink; when set, logs rotate through
// lumberjack the way ausocean/av wires zap + lumberjack together.
func NewLogger(logPath string, debug bool) (*Logger, error) {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.Lock(zapcore.AddSync(os.Stdout)),
		level,
	)
	cores := []zapcore.Core{consoleCore}

	if logPath != "" {
		rotator := &lumberjack.Logger{
			Filename:   logPath,
			MaxSize:    64, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
		}
		fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(rotator), level)
		cores = append(cores, fileCore)
	}

	core := zapcore.NewTee(cores...)
	return &Logger{sugar: zap.New(core).Sugar()}, nil
}

// Logf implements the Logf hook type used by ScaleOptions.Log.
func (l *Logger) Logf(priority, format string, args ...interface{}) {
	switch priority {
	case "DEBUG":
		l.sugar.Debugf(format, args...)
	case "WARN":
		l.sugar.Warnf(format, args...)
	case "ERROR":
		l.sugar.Errorf(format, args...)
	default:
		l.sugar.Infof(format, args...)
	}
}

// Sync flushes any buffered log entries; call before process exit.
func (l *Logger) Sync() error { return l.sugar.Sync() }
