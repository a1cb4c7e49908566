// Package logging provides categorized file-based logging for voxfolio.
// Logs are written to the state directory with one file per category. When
// debug mode is off, every call is a silent no-op.
package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Category represents a log category/system.
type Category string

const (
	CategoryBoot      Category = "boot"      // Startup and wiring
	CategoryDispatch  Category = "dispatch"  // Command routing decisions
	CategoryIntent    Category = "intent"    // Classification outcomes
	CategorySession   Category = "session"   // Session persistence
	CategoryLoop      Category = "loop"      // Walkthrough scheduling
	CategoryVoice     Category = "voice"     // Voice transport and events
	CategoryCompiler  Category = "compiler"  // Compiler service calls
	CategoryNarration Category = "narration" // Narration service calls
	CategoryContent   Category = "content"   // Content pack loading
)

// Log levels.
const (
	LevelDebug = 0
	LevelInfo  = 1
	LevelWarn  = 2
	LevelError = 3
)

// Logger wraps a standard logger with category and file output.
type Logger struct {
	category Category
	logger   *log.Logger
	file     *os.File
}

var (
	loggers   = make(map[Category]*Logger)
	loggersMu sync.RWMutex
	logsDir   string
	debugMode bool
	logLevel  = LevelInfo
	configMu  sync.RWMutex
)

// Configure sets up the logging directory and mode. Called once at startup;
// until then (and whenever debug is false) all logging is disabled.
func Configure(stateDir string, debug bool, level string) error {
	configMu.Lock()
	debugMode = debug
	switch level {
	case "debug":
		logLevel = LevelDebug
	case "warn", "warning":
		logLevel = LevelWarn
	case "error":
		logLevel = LevelError
	default:
		logLevel = LevelInfo
	}
	logsDir = filepath.Join(stateDir, "logs")
	configMu.Unlock()

	if !debug {
		return nil
	}
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}
	Boot("=== voxfolio logging initialized (dir=%s level=%s) ===", logsDir, level)
	return nil
}

// IsDebugMode reports whether debug logging is enabled.
func IsDebugMode() bool {
	configMu.RLock()
	defer configMu.RUnlock()
	return debugMode
}

// Get returns (or creates) a logger for the given category. Returns a no-op
// logger when debug mode is disabled.
func Get(category Category) *Logger {
	if !IsDebugMode() || logsDir == "" {
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

	date := time.Now().Format("2006-01-02")
	logPath := filepath.Join(logsDir, fmt.Sprintf("%s_%s.log", date, category))
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[logging] Warning: could not open log file %s: %v\n", logPath, err)
		return &Logger{category: category}
	}

	l := &Logger{
		category: category,
		file:     file,
		logger:   log.New(file, "", log.Ldate|log.Ltime|log.Lmicroseconds),
	}
	loggers[category] = l
	return l
}

// CloseAll flushes and closes every open log file.
func CloseAll() {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	for cat, l := range loggers {
		if l.file != nil {
			_ = l.file.Close()
		}
		delete(loggers, cat)
	}
}

// Debug logs a debug message (only if level <= debug).
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelDebug {
		return
	}
	l.logger.Printf("[DEBUG] %s", fmt.Sprintf(format, args...))
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelInfo {
		return
	}
	l.logger.Printf("[INFO] %s", fmt.Sprintf(format, args...))
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelWarn {
		return
	}
	l.logger.Printf("[WARN] %s", fmt.Sprintf(format, args...))
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	if l.logger == nil {
		return
	}
	l.logger.Printf("[ERROR] %s", fmt.Sprintf(format, args...))
}

// Category convenience functions.

func Boot(format string, args ...interface{})      { Get(CategoryBoot).Info(format, args...) }
func Dispatch(format string, args ...interface{})  { Get(CategoryDispatch).Info(format, args...) }
func Intent(format string, args ...interface{})    { Get(CategoryIntent).Info(format, args...) }
func Session(format string, args ...interface{})   { Get(CategorySession).Info(format, args...) }
func Loop(format string, args ...interface{})      { Get(CategoryLoop).Info(format, args...) }
func Voice(format string, args ...interface{})     { Get(CategoryVoice).Info(format, args...) }
func Compiler(format string, args ...interface{})  { Get(CategoryCompiler).Info(format, args...) }
func Narration(format string, args ...interface{}) { Get(CategoryNarration).Info(format, args...) }
func Content(format string, args ...interface{})   { Get(CategoryContent).Info(format, args...) }

func DispatchDebug(format string, args ...interface{}) { Get(CategoryDispatch).Debug(format, args...) }
func VoiceDebug(format string, args ...interface{})    { Get(CategoryVoice).Debug(format, args...) }
func LoopDebug(format string, args ...interface{})     { Get(CategoryLoop).Debug(format, args...) }

func DispatchWarn(format string, args ...interface{})  { Get(CategoryDispatch).Warn(format, args...) }
func SessionWarn(format string, args ...interface{})   { Get(CategorySession).Warn(format, args...) }
func VoiceWarn(format string, args ...interface{})     { Get(CategoryVoice).Warn(format, args...) }
func CompilerWarn(format string, args ...interface{})  { Get(CategoryCompiler).Warn(format, args...) }
func NarrationWarn(format string, args ...interface{}) { Get(CategoryNarration).Warn(format, args...) }
func ContentWarn(format string, args ...interface{})   { Get(CategoryContent).Warn(format, args...) }
func VoiceError(format string, args ...interface{})    { Get(CategoryVoice).Error(format, args...) }
