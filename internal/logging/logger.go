// Package logging provides categorized file-based diagnostic logging for chatbox.
// The terminal belongs to the chat UI, so every entry goes to a log file.
// Until Initialize is called all loggers are silent no-ops.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot   Category = "boot"   // Startup, config resolution
	CategoryAPI    Category = "api"    // Chat service calls
	CategoryUI     Category = "ui"     // TUI update loop
	CategoryConfig Category = "config" // Config load/save
)

// Options controls where and how entries are written.
type Options struct {
	// Path is the log file. Parent directories are created.
	Path string
	// Level is one of debug, info, warn, error. Defaults to info.
	Level string
	// JSON selects the JSON encoder instead of the console one.
	JSON bool
	// Categories disables individual categories when mapped to false.
	// Missing categories are enabled.
	Categories map[string]bool
}

// Logger wraps a zap logger bound to one category
type Logger struct {
	category Category
	z        *zap.Logger
}

var (
	mu         sync.RWMutex
	root       = zap.NewNop()
	categories map[string]bool
	loggers    = make(map[Category]*Logger)
	file       *os.File
)

// Initialize opens the log file and installs the root logger.
// Calling it again replaces the previous setup.
func Initialize(opts Options) error {
	if opts.Path == "" {
		return fmt.Errorf("log path required")
	}

	level, err := ParseLevel(opts.Level)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if opts.JSON {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(f), level)
	install(core, opts.Categories, f)

	Boot("logging initialized: path=%s level=%s", opts.Path, level)
	return nil
}

// InitializeWithCore installs a caller-supplied core. Used by tests to
// observe entries.
func InitializeWithCore(core zapcore.Core, cats map[string]bool) {
	install(core, cats, nil)
}

func install(core zapcore.Core, cats map[string]bool, f *os.File) {
	mu.Lock()
	defer mu.Unlock()

	if file != nil {
		_ = file.Close()
	}
	root = zap.New(core)
	categories = cats
	loggers = make(map[Category]*Logger)
	file = f
}

// ParseLevel maps a config level string onto a zap level.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

// IsCategoryEnabled returns whether a specific category is enabled
func IsCategoryEnabled(category Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	return categoryEnabled(category)
}

func categoryEnabled(category Category) bool {
	if categories == nil {
		return true
	}
	enabled, exists := categories[string(category)]
	return !exists || enabled
}

// Get returns (or creates) a logger for the given category.
// Disabled categories get a no-op logger.
func Get(category Category) *Logger {
	mu.RLock()
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()

	if l, ok := loggers[category]; ok {
		return l
	}

	z := zap.NewNop()
	if categoryEnabled(category) {
		z = root.With(zap.String("cat", string(category)))
	}
	l := &Logger{category: category, z: z}
	loggers[category] = l
	return l
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.z.Sugar().Debugf(format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.z.Sugar().Infof(format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.z.Sugar().Warnf(format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.z.Sugar().Errorf(format, args...)
}

// WithRequestID returns a logger that tags every entry with a correlation ID.
func WithRequestID(category Category, requestID string) *Logger {
	l := Get(category)
	return &Logger{category: category, z: l.z.With(zap.String("req", requestID))}
}

// CloseAll flushes and closes the log file (call at shutdown).
func CloseAll() {
	mu.Lock()
	defer mu.Unlock()

	_ = root.Sync()
	if file != nil {
		_ = file.Close()
		file = nil
	}
	root = zap.NewNop()
	loggers = make(map[Category]*Logger)
}

// =============================================================================
// CONVENIENCE FUNCTIONS
// =============================================================================

// Boot logs to the boot category
func Boot(format string, args ...interface{}) {
	Get(CategoryBoot).Info(format, args...)
}

// BootDebug logs debug to the boot category
func BootDebug(format string, args ...interface{}) {
	Get(CategoryBoot).Debug(format, args...)
}

func BootError(format string, args ...interface{}) {
	Get(CategoryBoot).Error(format, args...)
}

// API logs to the api category
func API(format string, args ...interface{}) {
	Get(CategoryAPI).Info(format, args...)
}

func APIDebug(format string, args ...interface{}) {
	Get(CategoryAPI).Debug(format, args...)
}

func APIWarn(format string, args ...interface{}) {
	Get(CategoryAPI).Warn(format, args...)
}

// UI logs to the ui category
func UI(format string, args ...interface{}) {
	Get(CategoryUI).Info(format, args...)
}

func UIDebug(format string, args ...interface{}) {
	Get(CategoryUI).Debug(format, args...)
}

func ConfigDebug(format string, args ...interface{}) {
	Get(CategoryConfig).Debug(format, args...)
}

func ConfigWarn(format string, args ...interface{}) {
	Get(CategoryConfig).Warn(format, args...)
}

// =============================================================================
// TIMING HELPERS
// =============================================================================

// Timer helps measure operation duration
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation
func StartTimer(category Category, operation string) *Timer {
	return &Timer{
		category: category,
		op:       operation,
		start:    time.Now(),
	}
}

// Stop ends the timer and logs the duration
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	return elapsed
}

// StopWithThreshold logs warning if duration exceeds threshold
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		Get(t.category).Warn("%s took %v (threshold: %v)", t.op, elapsed, threshold)
	} else {
		Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	}
	return elapsed
}
