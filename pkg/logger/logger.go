package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogLevel represents the severity level of log messages.
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

var levelNames = map[LogLevel]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
	FATAL: "FATAL",
}

func (l LogLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// ParseLogLevel converts a string log level to its LogLevel constant. Unknown values map to INFO.
func ParseLogLevel(level string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	case "FATAL":
		return FATAL
	default:
		return INFO
	}
}

// Options configures the log file and its rotation.
type Options struct {
	File       string
	Level      LogLevel
	MaxSize    int // MB
	MaxBackups int
	MaxAge     int // days
	Compress   bool
	// Quiet disables the stdout copy.
	Quiet bool
}

// Logger writes leveled lines to stdout and a rotating file.
type Logger struct {
	loggers map[LogLevel]*log.Logger
	level   LogLevel
	mu      sync.RWMutex
	closer  io.Closer
}

var (
	instance *Logger
	once     sync.Once
)

// Init initializes the global logger with the given options. Later calls are no-ops.
func Init(opts Options) {
	once.Do(func() {
		instance = New(opts)
	})
}

// New creates a logger that writes to opts.File (rotated by lumberjack) and stdout.
func New(opts Options) *Logger {
	if opts.MaxSize <= 0 {
		opts.MaxSize = 10
	}

	var writers []io.Writer
	if !opts.Quiet {
		writers = append(writers, os.Stdout)
	}

	var closer io.Closer
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			log.Fatalf("cannot create log directory: %v", err)
		}
		rotating := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSize,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAge,
			Compress:   opts.Compress,
		}
		writers = append(writers, rotating)
		closer = rotating
	}

	l := NewWithWriter(io.MultiWriter(writers...), opts.Level)
	l.closer = closer
	return l
}

// NewWithWriter creates a logger writing to w only.
func NewWithWriter(w io.Writer, level LogLevel) *Logger {
	flags := log.LstdFlags | log.Lshortfile
	l := &Logger{level: level, loggers: make(map[LogLevel]*log.Logger, len(levelNames))}
	for lvl, name := range levelNames {
		l.loggers[lvl] = log.New(w, "["+name+"] ", flags)
	}
	return l
}

// SetLevel changes the minimum log level.
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// GetLevel returns the current minimum log level.
func (l *Logger) GetLevel() LogLevel {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

// Close flushes and closes the rotating file, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

func (l *Logger) enabled(level LogLevel) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return level >= l.level
}

// output writes msg at level; depth counts frames above output for the file:line prefix.
func (l *Logger) output(level LogLevel, depth int, msg string) {
	if !l.enabled(level) {
		return
	}
	l.loggers[level].Output(depth+1, msg)
	if level == FATAL {
		os.Exit(1)
	}
}

func (l *Logger) Debugf(format string, v ...interface{}) { l.output(DEBUG, 2, fmt.Sprintf(format, v...)) }
func (l *Logger) Infof(format string, v ...interface{})  { l.output(INFO, 2, fmt.Sprintf(format, v...)) }
func (l *Logger) Warnf(format string, v ...interface{})  { l.output(WARN, 2, fmt.Sprintf(format, v...)) }
func (l *Logger) Errorf(format string, v ...interface{}) { l.output(ERROR, 2, fmt.Sprintf(format, v...)) }
func (l *Logger) Fatalf(format string, v ...interface{}) { l.output(FATAL, 2, fmt.Sprintf(format, v...)) }

// Global convenience functions

func Debug(v ...interface{}) { logGlobal(DEBUG, fmt.Sprint(v...)) }
func Info(v ...interface{})  { logGlobal(INFO, fmt.Sprint(v...)) }
func Warn(v ...interface{})  { logGlobal(WARN, fmt.Sprint(v...)) }
func Error(v ...interface{}) { logGlobal(ERROR, fmt.Sprint(v...)) }
func Fatal(v ...interface{}) { logGlobal(FATAL, fmt.Sprint(v...)) }

func Debugf(format string, v ...interface{}) { logGlobal(DEBUG, fmt.Sprintf(format, v...)) }
func Infof(format string, v ...interface{})  { logGlobal(INFO, fmt.Sprintf(format, v...)) }
func Warnf(format string, v ...interface{})  { logGlobal(WARN, fmt.Sprintf(format, v...)) }
func Errorf(format string, v ...interface{}) { logGlobal(ERROR, fmt.Sprintf(format, v...)) }
func Fatalf(format string, v ...interface{}) { logGlobal(FATAL, fmt.Sprintf(format, v...)) }

// logGlobal drops messages until Init has run, except FATAL which still exits.
func logGlobal(level LogLevel, msg string) {
	if instance == nil {
		if level == FATAL {
			log.Fatal(msg)
		}
		return
	}
	instance.output(level, 3, msg)
}

// SetLevel changes the minimum log level of the global logger.
func SetLevel(level LogLevel) {
	if instance != nil {
		instance.SetLevel(level)
	}
}

// GetLevel returns the minimum log level of the global logger.
func GetLevel() LogLevel {
	if instance != nil {
		return instance.GetLevel()
	}
	return INFO
}

// Default returns the global logger, or nil before Init.
func Default() *Logger {
	return instance
}

// Close closes the global logger's file.
func Close() error {
	if instance == nil {
		return nil
	}
	return instance.Close()
}
