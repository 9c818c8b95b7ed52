package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Level is the severity of a log line
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// consolePrefix decorates console lines; the log file always gets the level tag
var consolePrefix = map[Level]string{
	LevelDebug: "[DEBUG] ",
	LevelInfo:  "",
	LevelWarn:  "⚠️  ",
	LevelError: "❌ ",
}

// Logger writes every line to the log file and a filtered view to the console
type Logger struct {
	mu       sync.Mutex
	console  *log.Logger
	file     *log.Logger
	logFile  *os.File
	verbose  bool
	minLevel Level
}

var globalLogger *Logger

// Init installs the global logger.
// Console output shows INFO and above (DEBUG too when verbose); the file at
// logFilePath receives everything.
func Init(console io.Writer, logFilePath string, verbose bool) error {
	if err := os.MkdirAll(filepath.Dir(logFilePath), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	minLevel := LevelInfo
	if verbose {
		minLevel = LevelDebug
	}

	globalLogger = &Logger{
		console:  log.New(console, "", 0),
		file:     log.New(logFile, "", log.LstdFlags),
		logFile:  logFile,
		verbose:  verbose,
		minLevel: minLevel,
	}
	return nil
}

// Close flushes and closes the log file
func Close() {
	if globalLogger == nil || globalLogger.logFile == nil {
		return
	}
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	globalLogger.logFile.Close()
	globalLogger.logFile = nil
}

// Debug is file only unless verbose. Without Init it is dropped.
func Debug(format string, args ...any) {
	if globalLogger == nil {
		return
	}
	globalLogger.write(LevelDebug, format, args...)
}

func Info(format string, args ...any) {
	emit(LevelInfo, format, args...)
}

func Warn(format string, args ...any) {
	emit(LevelWarn, format, args...)
}

func Error(format string, args ...any) {
	emit(LevelError, format, args...)
}

// emit falls back to stdout before Init so early CLI errors stay visible
func emit(level Level, format string, args ...any) {
	if globalLogger == nil {
		prefix := ""
		if level >= LevelWarn {
			prefix = level.String() + ": "
		}
		fmt.Printf(prefix+format+"\n", args...)
		return
	}
	globalLogger.write(level, format, args...)
}

func (l *Logger) write(level Level, format string, args ...any) {
	message := fmt.Sprintf(format, args...)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logFile != nil {
		l.file.Printf("[%s] %s", level, message)
	}
	if level < l.minLevel {
		return
	}
	l.console.Printf("%s%s", consolePrefix[level], message)
}

// InfoClean prints to the console only, for progress and banner lines
func InfoClean(format string, args ...any) {
	if globalLogger == nil {
		fmt.Printf(format+"\n", args...)
		return
	}
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	globalLogger.console.Printf(format, args...)
}

// LogSheetError records a sheet that could not be read. Details go to the
// log file; the console only sees a debug summary.
func LogSheetError(path, sheet string, err error) {
	if globalLogger == nil {
		return
	}

	globalLogger.mu.Lock()
	if globalLogger.logFile != nil {
		globalLogger.file.Printf("[SHEET_ERROR] File: %s, Sheet: %s, Error: %v", path, sheet, err)
	}
	globalLogger.mu.Unlock()

	Debug("Skipping sheet %q in %s: %v", sheet, path, err)
}

// GetLogFilePath returns the active log file, or "" before Init
func GetLogFilePath() string {
	if globalLogger != nil && globalLogger.logFile != nil {
		return globalLogger.logFile.Name()
	}
	return ""
}

func IsVerbose() bool {
	return globalLogger != nil && globalLogger.verbose
}
