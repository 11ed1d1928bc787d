// Package logging formats GridWatcher's console log line
// ("[timestamp] [LEVEL] message") on top of the standard log package, the
// way the rest of this codebase family leans on the standard logger rather
// than a structured-logging dependency.
package logging

import (
	"log"
	"sync"
	"time"
)

func init() {
	// The "[timestamp] [LEVEL] " prefix below replaces the standard
	// logger's own date/time prefix, so turn it off.
	log.SetFlags(0)
}

// Level mirrors the original C++ Logger's four severities.
type Level int

const (
	Info Level = iota
	Warn
	Error
	Critical
)

func (l Level) String() string {
	switch l {
	case Info:
		return "INFO"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	case Critical:
		return "CRIT"
	default:
		return "UNKNOWN"
	}
}

var mu sync.Mutex

// Logf writes one line at the given level. All writers share mu so that
// concurrent loggers from the sniffer, analyzer, and executor never
// interleave a single line.
func Logf(level Level, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	ts := time.Now().Format("2006-01-02 15:04:05.000")
	log.Printf("["+ts+"] ["+level.String()+"] "+format, args...)
}

func Infof(format string, args ...any)     { Logf(Info, format, args...) }
func Warnf(format string, args ...any)     { Logf(Warn, format, args...) }
func Errorf(format string, args ...any)    { Logf(Error, format, args...) }
func Criticalf(format string, args ...any) { Logf(Critical, format, args...) }
