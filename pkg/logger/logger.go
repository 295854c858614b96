package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/SIMPLYBOYS/smart_waste/internal/errors"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

var logLevelNames = map[LogLevel]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
	FATAL: "FATAL",
}

type Logger struct {
	level      LogLevel
	logger     *log.Logger
	fileLogger *log.Logger
	file       *os.File
	exit       func(int)
	mu         sync.Mutex
}

var (
	defaultLogger *Logger
	once          sync.Once
)

func init() {
	once.Do(func() {
		defaultLogger = NewLogger(INFO, os.Stdout)
	})
}

// NewLogger creates a new Logger instance
func NewLogger(level LogLevel, output io.Writer) *Logger {
	return &Logger{
		level:  level,
		logger: log.New(output, "", log.Ldate|log.Ltime),
		exit:   os.Exit,
	}
}

// ParseLevel maps a level name such as "debug" or "WARN" to a LogLevel.
func ParseLevel(name string) (LogLevel, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for level, n := range logLevelNames {
		if n == upper {
			return level, nil
		}
	}
	return INFO, fmt.Errorf("unknown log level %q", name)
}

// SetLevel sets the logging level
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetOutput redirects console output.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.SetOutput(w)
}

// EnableFileLogging enables logging to a file
func (l *Logger) EnableFileLogging(directory string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(directory, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	logFile := filepath.Join(directory, fmt.Sprintf("smartwaste_%s.log", time.Now().Format("2006-01-02")))
	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	if l.file != nil {
		l.file.Close()
	}
	l.file = file
	l.fileLogger = log.New(file, "", log.Ldate|log.Ltime)
	return nil
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	l.fileLogger = nil
	return err
}

func (l *Logger) log(level LogLevel, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	_, file, line, _ := runtime.Caller(3)
	msg := fmt.Sprintf(format, v...)
	logMsg := fmt.Sprintf("[%s] [%s:%d] %s", logLevelNames[level], filepath.Base(file), line, msg)

	l.logger.Println(logMsg)
	if l.fileLogger != nil {
		l.fileLogger.Println(logMsg)
	}

	if level == FATAL {
		l.exit(1)
	}
}

// Debug logs a debug message
func (l *Logger) Debug(format string, v ...interface{}) {
	l.logAt(DEBUG, format, v...)
}

// Info logs an info message
func (l *Logger) Info(format string, v ...interface{}) {
	l.logAt(INFO, format, v...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, v ...interface{}) {
	l.logAt(WARN, format, v...)
}

// Error logs an error message
func (l *Logger) Error(format string, v ...interface{}) {
	l.logAt(ERROR, format, v...)
}

// Fatal logs a fatal message and exits the program
func (l *Logger) Fatal(format string, v ...interface{}) {
	l.logAt(FATAL, format, v...)
}

// logAt keeps the call depth identical for method and package-level entry
// points so the reported caller is the user's code.
func (l *Logger) logAt(level LogLevel, format string, v ...interface{}) {
	l.log(level, format, v...)
}

// LogError logs err with a message chosen by its kind.
func (l *Logger) LogError(err error) {
	level, format, args := describeError(err)
	l.logAt(level, format, args...)
}

func describeError(err error) (LogLevel, string, []interface{}) {
	switch e := err.(type) {
	case *errors.DatabaseError:
		return ERROR, "Database error during %s: %v", []interface{}{e.Operation, e.Err}
	case *errors.PaymentError:
		return ERROR, "Payment error for %s: %v", []interface{}{e.PaymentID, e.Err}
	case *errors.WebSocketError:
		return WARN, "WebSocket error during %s: %v", []interface{}{e.Operation, e.Err}
	case *errors.APIError:
		return ERROR, "API error (status %d): %s - %v", []interface{}{e.StatusCode, e.Message, e.Err}
	default:
		return ERROR, "Unexpected error: %v", []interface{}{err}
	}
}

// Global functions that use the default logger

// Default returns the process-wide logger.
func Default() *Logger {
	return defaultLogger
}

// SetLevel sets the logging level for the default logger
func SetLevel(level LogLevel) {
	defaultLogger.SetLevel(level)
}

// SetOutput redirects console output of the default logger.
func SetOutput(w io.Writer) {
	defaultLogger.SetOutput(w)
}

// EnableFileLogging enables file logging for the default logger
func EnableFileLogging(directory string) error {
	return defaultLogger.EnableFileLogging(directory)
}

// Debug logs a debug message using the default logger
func Debug(format string, v ...interface{}) {
	defaultLogger.logAt(DEBUG, format, v...)
}

// Info logs an info message using the default logger
func Info(format string, v ...interface{}) {
	defaultLogger.logAt(INFO, format, v...)
}

// Warn logs a warning message using the default logger
func Warn(format string, v ...interface{}) {
	defaultLogger.logAt(WARN, format, v...)
}

// Error logs an error message using the default logger
func Error(format string, v ...interface{}) {
	defaultLogger.logAt(ERROR, format, v...)
}

// Fatal logs a fatal message and exits the program using the default logger
func Fatal(format string, v ...interface{}) {
	defaultLogger.logAt(FATAL, format, v...)
}

// LogError logs err with the default logger.
func LogError(err error) {
	level, format, args := describeError(err)
	defaultLogger.logAt(level, format, args...)
}
