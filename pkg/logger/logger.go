// Package logger provides a leveled printf-style logger that writes to stdout
// and, optionally, to a size-rotated log file.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Level is the minimal severity that is written.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

// ParseLevel converts a config value into a Level. Unknown values map to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger writes formatted lines prefixed with the level name.
type Logger struct {
	level  Level
	std    *log.Logger
	closer io.Closer
}

// New creates a logger. An empty file writes to stdout only.
func New(file string, level string) (*Logger, error) {
	var (
		out    io.Writer = os.Stdout
		closer io.Closer
	)

	if file != "" {
		rotating := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     30,
			Compress:   true,
		}
		// Проверяем, что файл можно открыть, до старта сервиса
		if _, err := rotating.Write(nil); err != nil {
			return nil, fmt.Errorf("logger: open %s: %w", file, err)
		}
		out = io.MultiWriter(os.Stdout, rotating)
		closer = rotating
	}

	return &Logger{
		level:  ParseLevel(level),
		std:    log.New(out, "", log.LstdFlags|log.Lmicroseconds),
		closer: closer,
	}, nil
}

// NewWithWriter creates a logger over an arbitrary writer.
func NewWithWriter(w io.Writer, level string) *Logger {
	return &Logger{
		level: ParseLevel(level),
		std:   log.New(w, "", 0),
	}
}

// Close flushes and closes the log file, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

func (l *Logger) Debug(format string, v ...interface{}) {
	l.write(LevelDebug, format, v...)
}

func (l *Logger) Info(format string, v ...interface{}) {
	l.write(LevelInfo, format, v...)
}

func (l *Logger) Warn(format string, v ...interface{}) {
	l.write(LevelWarn, format, v...)
}

func (l *Logger) Error(format string, v ...interface{}) {
	l.write(LevelError, format, v...)
}

// Fatal logs the message and terminates the process.
func (l *Logger) Fatal(format string, v ...interface{}) {
	l.std.Output(2, "[FATAL] "+fmt.Sprintf(format, v...))
	_ = l.Close()
	os.Exit(1)
}

func (l *Logger) write(level Level, format string, v ...interface{}) {
	if level < l.level {
		return
	}
	_ = l.std.Output(3, "["+levelNames[level]+"] "+fmt.Sprintf(format, v...))
}
