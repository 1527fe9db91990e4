package logger

import (
	"fmt"
	"log"
	"os"
	"strings"
)

type LogLevel int

const (
	LogDebug LogLevel = iota
	LogInfo
	LogError
)

var logLevelPrefix = map[LogLevel]string{
	LogDebug: "DEBUG",
	LogInfo:  "INFO",
	LogError: "ERROR",
}

// ILogger is the logger used by the analysis stages.
type ILogger interface {
	Printf(level LogLevel, format string, a ...interface{})
	Debugf(format string, a ...interface{})
	Infof(format string, a ...interface{})
	Errorf(format string, a ...interface{})
}

// ParseLevel maps DEBUG/INFO/ERROR (any case) to a level, defaulting to info.
func ParseLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LogDebug
	case "ERROR":
		return LogError
	default:
		return LogInfo
	}
}

// StdOutLogger writes prefixed lines through the standard log package.
type StdOutLogger struct {
	logLevel LogLevel
	out      *log.Logger
}

func NewStdOutLogger(level LogLevel) *StdOutLogger {
	return &StdOutLogger{logLevel: level, out: log.New(os.Stdout, "", log.LstdFlags)}
}

func (l *StdOutLogger) Printf(level LogLevel, format string, a ...interface{}) {
	l.out.Println(logLevelPrefix[level] + ": " + fmt.Sprintf(format, a...))
}

func (l *StdOutLogger) Debugf(format string, a ...interface{}) {
	if l.logLevel <= LogDebug {
		l.Printf(LogDebug, format, a...)
	}
}

func (l *StdOutLogger) Infof(format string, a ...interface{}) {
	if l.logLevel <= LogInfo {
		l.Printf(LogInfo, format, a...)
	}
}

func (l *StdOutLogger) Errorf(format string, a ...interface{}) {
	l.Printf(LogError, format, a...)
}

// NullLogger discards everything. Used in tests.
type NullLogger struct{}

func (l *NullLogger) Printf(level LogLevel, format string, a ...interface{}) {}
func (l *NullLogger) Debugf(format string, a ...interface{})                 {}
func (l *NullLogger) Infof(format string, a ...interface{})                  {}
func (l *NullLogger) Errorf(format string, a ...interface{})                 {}
