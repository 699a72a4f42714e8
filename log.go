package ch2

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/hhkbp2/go-strftime"
)

type LogLevelType uint8

const (
	LevelVerbose LogLevelType = 50
	LevelDebug   LogLevelType = 40
	LevelInfo    LogLevelType = 30
	LevelWarn    LogLevelType = 20
	LevelError   LogLevelType = 10
	LevelQuiet   LogLevelType = 0
)

var (
	nameToLevels = map[string]LogLevelType{
		"verbose": LevelVerbose,
		"debug":   LevelDebug,
		"info":    LevelInfo,
		"warn":    LevelWarn,
		"error":   LevelError,
		"quiet":   LevelQuiet,
	}
	levelTags = map[LogLevelType]string{
		LevelVerbose: "VERBOSE",
		LevelDebug:   "DEBUG",
		LevelInfo:    "INFO",
		LevelWarn:    "WARN",
		LevelError:   "ERROR",
	}
)

var (
	logLevel LogLevelType = LevelInfo
	logLock  sync.Mutex
	LogDest  io.Writer = os.Stderr
)

// SetLogLevel sets the level by name, one of verbose, debug, info, warn,
// error and quiet.
func SetLogLevel(name string) error {
	level, ok := nameToLevels[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("unknown log level: %s", name)
	}
	logLock.Lock()
	logLevel = level
	logLock.Unlock()
	return nil
}

func Flogf(w io.Writer, level LogLevelType, format string, args ...interface{}) {
	logLock.Lock()
	defer logLock.Unlock()
	if level <= logLevel {
		fmt.Fprintf(w, "%s %-5s ", strftime.Format("%Y-%m-%d %H:%M:%S", time.Now()), levelTags[level])
		fmt.Fprintf(w, format, args...)
		fmt.Fprintln(w, "")
	}
}

func Logf(level LogLevelType, format string, args ...interface{}) {
	Flogf(LogDest, level, format, args...)
}

func Errorf(format string, args ...interface{}) {
	Logf(LevelError, format, args...)
}

func Warnf(format string, args ...interface{}) {
	Logf(LevelWarn, format, args...)
}

func Infof(format string, args ...interface{}) {
	Logf(LevelInfo, format, args...)
}

func Debugf(format string, args ...interface{}) {
	Logf(LevelDebug, format, args...)
}

func Verbosef(format string, args ...interface{}) {
	Logf(LevelVerbose, format, args...)
}

func Printf(format string, args ...interface{}) {
	fmt.Fprintf(OutputDest, format, args...)
}

func Println(format string, args ...interface{}) {
	fmt.Fprintf(OutputDest, format, args...)
	fmt.Fprintln(OutputDest, "")
}

func EPrintf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	fmt.Fprintln(os.Stderr, "")
}
