package logger

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// Logger is the structured logging interface used across the service.
// Fields are alternating key/value pairs.
type Logger interface {
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Fatal(msg string, fields ...interface{})
}

// StdLogger implements Logger on the standard library log package
type StdLogger struct {
	out   *log.Logger
	err   *log.Logger
	debug bool
}

// New creates a logger. Debug lines are suppressed unless enabled.
func New(debug bool) Logger {
	return &StdLogger{
		out:   log.New(os.Stdout, "", log.Ldate|log.Ltime),
		err:   log.New(os.Stderr, "", log.Ldate|log.Ltime),
		debug: debug,
	}
}

func (l *StdLogger) Info(msg string, fields ...interface{}) {
	l.out.Printf("INFO %s%s", msg, formatFields(fields))
}

func (l *StdLogger) Warn(msg string, fields ...interface{}) {
	l.out.Printf("WARN %s%s", msg, formatFields(fields))
}

func (l *StdLogger) Error(msg string, fields ...interface{}) {
	l.err.Printf("ERROR %s%s", msg, formatFields(fields))
}

func (l *StdLogger) Debug(msg string, fields ...interface{}) {
	if !l.debug {
		return
	}
	l.out.Printf("DEBUG %s%s", msg, formatFields(fields))
}

func (l *StdLogger) Fatal(msg string, fields ...interface{}) {
	l.err.Fatalf("FATAL %s%s", msg, formatFields(fields))
}

// formatFields renders alternating key/value pairs as " k=v k=v". A
// trailing odd value is rendered under the key "extra".
func formatFields(fields []interface{}) string {
	if len(fields) == 0 {
		return ""
	}

	var b strings.Builder
	for i := 0; i < len(fields); i += 2 {
		if i+1 < len(fields) {
			fmt.Fprintf(&b, " %v=%v", fields[i], fields[i+1])
		} else {
			fmt.Fprintf(&b, " extra=%v", fields[i])
		}
	}
	return b.String()
}

// Nop discards everything. Useful in tests.
type Nop struct{}

func (Nop) Info(string, ...interface{})  {}
func (Nop) Warn(string, ...interface{})  {}
func (Nop) Error(string, ...interface{}) {}
func (Nop) Debug(string, ...interface{}) {}
func (Nop) Fatal(string, ...interface{}) {}
