package x3f

import (
	"fmt"
	"time"

	"github.com/sigmaraw/x3fpipe/rawpipe"
)

// Logger is the pipeline's step-timing progress log: [step] ... → result
// (elapsed), plus the structured INFO/WARN/DEBUG lines rawpipe's core
// algorithms emit during black/white estimation. It wraps a
// rawpipe.Logger (zap + optional rotating file sink) so every line,
// console-formatted or not, goes through the same sink and level
// filtering; the terse "[name] ... → result" console lines are kept as a
// thin formatting layer on top, since that progress-bar-like texture is
// what the pipeline's interactive CLI use depends on.
type Logger struct {
	stepName   string
	stepStart  time.Time
	totalStart time.Time
	sink       *rawpipe.Logger
}

// NewLogger creates a progress logger. logPath == "" disables file
// rotation; the console sink is always attached.
func NewLogger(logPath string, debug bool) (*Logger, error) {
	sink, err := rawpipe.NewLogger(logPath, debug)
	if err != nil {
		return nil, err
	}
	return &Logger{totalStart: time.Now(), sink: sink}, nil
}

// Step begins a named processing step; the console line is completed by
// the matching Done call.
func (l *Logger) Step(name string, params ...interface{}) {
	l.stepStart = time.Now()
	l.stepName = name
	if len(params) > 0 {
		fmt.Printf("[%s] %v ... ", name, params[0])
	} else {
		fmt.Printf("[%s] ", name)
	}
}

// Done completes the current step and logs its elapsed time.
func (l *Logger) Done(result string) {
	elapsed := time.Since(l.stepStart)
	if elapsed > 100*time.Millisecond {
		fmt.Printf("→ %s (%.2fs)\n", result, elapsed.Seconds())
	} else {
		fmt.Printf("→ %s\n", result)
	}
	if l.sink != nil {
		l.sink.Logf("DEBUG", "%s -> %s (%s)", l.stepName, result, elapsed)
	}
}

// Total prints and logs the overall pipeline wall-clock time.
func (l *Logger) Total() {
	total := time.Since(l.totalStart)
	fmt.Printf("\n✓ 总耗时: %.2fs\n", total.Seconds())
	if l.sink != nil {
		l.sink.Logf("INFO", "pipeline total %.2fs", total.Seconds())
	}
}

// Info prints and logs an informational line.
func (l *Logger) Info(format string, args ...interface{}) {
	fmt.Printf("  • "+format+"\n", args...)
	if l.sink != nil {
		l.sink.Logf("INFO", format, args...)
	}
}

// Warn prints and logs a warning line.
func (l *Logger) Warn(format string, args ...interface{}) {
	fmt.Printf("  ⚠ "+format+"\n", args...)
	if l.sink != nil {
		l.sink.Logf("WARN", format, args...)
	}
}

// Logf implements rawpipe.Logf, letting this Logger be passed directly as
// ScaleOptions.Log.
func (l *Logger) Logf(priority, format string, args ...interface{}) {
	if l.sink != nil {
		l.sink.Logf(priority, format, args...)
	}
}

// Sync flushes the underlying zap core; call before process exit.
func (l *Logger) Sync() error {
	if l.sink == nil {
		return nil
	}
	return l.sink.Sync()
}
