// Package logging is the levelled logger shared by the report tools. Each
// line carries the tool name and the level:
//
//	2026/10/18 21:40:01.123456 fecreport [WARN] summary.csv row 3: ...
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// LogLevel represents severity.
type LogLevel int32

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelTags = [...]string{LevelDebug: "DEBUG", LevelInfo: "INFO", LevelWarn: "WARN", LevelError: "ERROR"}

func (l LogLevel) String() string {
	if l < LevelDebug || l > LevelError {
		return fmt.Sprintf("LogLevel(%d)", int32(l))
	}
	return levelTags[l]
}

// ParseLevel accepts debug, info, warn (or warning) and error, in any case.
func ParseLevel(s string) (LogLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	}
	return LevelInfo, false
}

var (
	currentLevel = int32(LevelInfo)

	mu         sync.Mutex
	tool       string
	baseLogger = log.New(os.Stderr, "", log.Ldate|log.Ltime|log.Lmicroseconds)
)

// SetLogLevel sets the global level. An unknown name leaves the level as it
// was and returns false.
func SetLogLevel(s string) bool {
	l, ok := ParseLevel(s)
	if !ok {
		return false
	}
	atomic.StoreInt32(&currentLevel, int32(l))
	return true
}

// GetLogLevel returns the current global log level.
func GetLogLevel() LogLevel { return LogLevel(atomic.LoadInt32(&currentLevel)) }

// SetTool names the executable in every following line. Empty drops the name.
func SetTool(name string) {
	mu.Lock()
	tool = strings.TrimSpace(name)
	mu.Unlock()
}

// SetOutput redirects log output; tests use it to capture lines.
func SetOutput(w io.Writer) {
	mu.Lock()
	baseLogger.SetOutput(w)
	mu.Unlock()
}

func enabled(l LogLevel) bool { return GetLogLevel() <= l }

func logf(l LogLevel, format string, args ...interface{}) {
	if !enabled(l) {
		return
	}
	// Without args the message is printed as is: file and scenario names may
	// hold a literal %.
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	mu.Lock()
	defer mu.Unlock()
	if tool != "" {
		baseLogger.Printf("%s [%s] %s", tool, l, msg)
		return
	}
	baseLogger.Printf("[%s] %s", l, msg)
}

func Debugf(format string, a ...interface{}) { logf(LevelDebug, format, a...) }
func Infof(format string, a ...interface{})  { logf(LevelInfo, format, a...) }
func Warnf(format string, a ...interface{})  { logf(LevelWarn, format, a...) }
func Errorf(format string, a ...interface{}) { logf(LevelError, format, a...) }

// WarnEach logs up to limit items at WARN, one per line, then a single line
// counting the rest. It suits per-cell data problems where a broken export
// can produce thousands of identical complaints. limit <= 0 logs them all.
func WarnEach[T fmt.Stringer](items []T, limit int, what string) {
	if len(items) == 0 || !enabled(LevelWarn) {
		return
	}
	n := len(items)
	if limit <= 0 || limit > n {
		limit = n
	}
	for _, it := range items[:limit] {
		logf(LevelWarn, it.String())
	}
	if rest := n - limit; rest > 0 {
		logf(LevelWarn, "... %d more %s not shown", rest, what)
	}
}

// TimeTrack logs the time spent since start at debug level.
//
//	defer logging.TimeTrack(time.Now(), "render catalog")
func TimeTrack(start time.Time, label string) {
	Debugf("%s took %s", label, time.Since(start).Round(time.Millisecond))
}
