// Package logging provides config-driven categorized file-based logging for shieldkit.
// Logs are written to <home>/logs/ with separate files per category and day.
// Logging is controlled by logging.debug_mode in config.yaml - when false, no logs are written.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"shieldkit/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot    Category = "boot"    // Startup, config resolution
	CategoryQuiz    Category = "quiz"    // Quiz progression and datasets
	CategoryTracker Category = "tracker" // Record/reminder lifecycle
	CategoryStore   Category = "store"   // Key-value persistence
	CategoryHealth  Category = "health"  // Country health lookups
	CategoryGeo     Category = "geo"     // Position and geocoding
	CategoryPlaces  Category = "places"  // Clinic search
)

// Logger wraps a zap sugared logger bound to one category and file.
// A Logger with a nil sugar is a no-op.
type Logger struct {
	category Category
	sugar    *zap.SugaredLogger
	file     *os.File
}

var (
	loggers   = make(map[Category]*Logger)
	loggersMu sync.RWMutex
	logsDir   string
	cfg       config.LoggingConfig
	cfgMu     sync.RWMutex
)

// Initialize sets up the logging directory from the logging config.
// Should be called once at startup with the data directory.
func Initialize(home string, lc config.LoggingConfig) error {
	if home == "" {
		return fmt.Errorf("home directory required")
	}

	CloseAll()

	cfgMu.Lock()
	cfg = lc
	logsDir = filepath.Join(home, "logs")
	cfgMu.Unlock()

	if !lc.DebugMode {
		return nil
	}

	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	if err := InitAudit(); err != nil {
		return err
	}

	boot := Get(CategoryBoot)
	boot.Info("logging initialized")
	boot.Info("logs directory: %s", logsDir)
	boot.Info("log level: %s", lc.Level)
	return nil
}

// IsDebugMode returns whether debug logging is enabled
func IsDebugMode() bool {
	cfgMu.RLock()
	defer cfgMu.RUnlock()
	return cfg.DebugMode
}

// IsCategoryEnabled returns whether a specific category is enabled
func IsCategoryEnabled(category Category) bool {
	cfgMu.RLock()
	defer cfgMu.RUnlock()
	return cfg.IsCategoryEnabled(string(category))
}

func zapLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func encoder(format string) zapcore.Encoder {
	ec := zap.NewProductionEncoderConfig()
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	if format == "console" || format == "text" {
		return zapcore.NewConsoleEncoder(ec)
	}
	return zapcore.NewJSONEncoder(ec)
}

// Get returns (or creates) a logger for the given category.
// Returns a no-op logger if debug mode is disabled or category is disabled.
func Get(category Category) *Logger {
	if !IsCategoryEnabled(category) {
		return &Logger{category: category}
	}

	loggersMu.RLock()
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()

	if l, ok := loggers[category]; ok {
		return l
	}

	cfgMu.RLock()
	dir, lc := logsDir, cfg
	cfgMu.RUnlock()
	if dir == "" {
		return &Logger{category: category}
	}

	filename := fmt.Sprintf("%s_%s.log", time.Now().Format("2006-01-02"), category)
	file, err := os.OpenFile(filepath.Join(dir, filename), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[logging] Warning: could not open log file %s: %v\n", filename, err)
		return &Logger{category: category}
	}

	core := zapcore.NewCore(encoder(lc.Format), zapcore.AddSync(file), zapLevel(lc.Level))
	l := &Logger{
		category: category,
		file:     file,
		sugar:    zap.New(core).Named(string(category)).Sugar(),
	}
	loggers[category] = l
	return l
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.sugar == nil {
		return
	}
	l.sugar.Debugf(format, args...)
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	if l.sugar == nil {
		return
	}
	l.sugar.Infof(format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.sugar == nil {
		return
	}
	l.sugar.Warnf(format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	if l.sugar == nil {
		return
	}
	l.sugar.Errorf(format, args...)
}

// With returns a logger carrying structured key-value context.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	if l.sugar == nil {
		return l
	}
	return &Logger{category: l.category, sugar: l.sugar.With(keysAndValues...)}
}

// CloseAll flushes and closes all open log files (call at shutdown)
func CloseAll() {
	CloseAudit()

	loggersMu.Lock()
	defer loggersMu.Unlock()

	for _, l := range loggers {
		if l.sugar != nil {
			_ = l.sugar.Sync()
		}
		if l.file != nil {
			l.file.Close()
		}
	}
	loggers = make(map[Category]*Logger)
}

// =============================================================================
// CONVENIENCE FUNCTIONS - Quick logging without getting a logger first
// These are no-ops if the category is disabled
// =============================================================================

func Boot(format string, args ...interface{})      { Get(CategoryBoot).Info(format, args...) }
func BootWarn(format string, args ...interface{})  { Get(CategoryBoot).Warn(format, args...) }
func Quiz(format string, args ...interface{})      { Get(CategoryQuiz).Info(format, args...) }
func QuizDebug(format string, args ...interface{}) { Get(CategoryQuiz).Debug(format, args...) }
func QuizWarn(format string, args ...interface{})  { Get(CategoryQuiz).Warn(format, args...) }

func Tracker(format string, args ...interface{})      { Get(CategoryTracker).Info(format, args...) }
func TrackerDebug(format string, args ...interface{}) { Get(CategoryTracker).Debug(format, args...) }
func TrackerError(format string, args ...interface{}) { Get(CategoryTracker).Error(format, args...) }

func Store(format string, args ...interface{})      { Get(CategoryStore).Info(format, args...) }
func StoreDebug(format string, args ...interface{}) { Get(CategoryStore).Debug(format, args...) }
func StoreWarn(format string, args ...interface{})  { Get(CategoryStore).Warn(format, args...) }
func StoreError(format string, args ...interface{}) { Get(CategoryStore).Error(format, args...) }

func Health(format string, args ...interface{})      { Get(CategoryHealth).Info(format, args...) }
func HealthDebug(format string, args ...interface{}) { Get(CategoryHealth).Debug(format, args...) }
func HealthWarn(format string, args ...interface{})  { Get(CategoryHealth).Warn(format, args...) }

func Geo(format string, args ...interface{})      { Get(CategoryGeo).Info(format, args...) }
func GeoDebug(format string, args ...interface{}) { Get(CategoryGeo).Debug(format, args...) }
func GeoWarn(format string, args ...interface{})  { Get(CategoryGeo).Warn(format, args...) }

func Places(format string, args ...interface{})      { Get(CategoryPlaces).Info(format, args...) }
func PlacesDebug(format string, args ...interface{}) { Get(CategoryPlaces).Debug(format, args...) }
func PlacesWarn(format string, args ...interface{})  { Get(CategoryPlaces).Warn(format, args...) }
func PlacesError(format string, args ...interface{}) { Get(CategoryPlaces).Error(format, args...) }

// Timer measures an operation and logs its duration at debug level on Stop.
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer starts timing an operation.
func StartTimer(category Category, operation string) *Timer {
	return &Timer{
		category: category,
		op:       operation,
		start:    time.Now(),
	}
}

// Stop logs and returns the elapsed time.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	return elapsed
}
