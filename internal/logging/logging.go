// Package logging provides component loggers that write a structured record
// through logrus and, when asked, a human-readable line to the terminal.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	mu     sync.RWMutex
	base   = newBase()
	pretty io.Writer = os.Stdout
)

func newBase() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.WarnLevel)
	return l
}

// Logger returns the shared logrus logger
func Logger() *logrus.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// SetLogger replaces the shared logrus logger
func SetLogger(l *logrus.Logger) {
	mu.Lock()
	defer mu.Unlock()
	base = l
}

// SetPrettyOutput redirects human-readable output, mostly for tests
func SetPrettyOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	pretty = w
}

// ParseLevel parses a level name, falling back to warn
func ParseLevel(s string) logrus.Level {
	lvl, err := logrus.ParseLevel(s)
	if err != nil {
		return logrus.WarnLevel
	}
	return lvl
}

// UnifiedLogger is a named logger for one component
type UnifiedLogger struct {
	component string
}

// NewUnifiedLogger creates a logger tagged with component
func NewUnifiedLogger(component string) *UnifiedLogger {
	return &UnifiedLogger{component: component}
}

// Entry is a log record under construction
type Entry struct {
	logger     *UnifiedLogger
	level      logrus.Level
	success    bool
	msg        string
	fields     logrus.Fields
	pretty     string
	prettyOnly bool
}

func (u *UnifiedLogger) entry(level logrus.Level, msg string) *Entry {
	return &Entry{logger: u, level: level, msg: msg, fields: logrus.Fields{}}
}

// Debug starts a debug record
func (u *UnifiedLogger) Debug(msg string) *Entry { return u.entry(logrus.DebugLevel, msg) }

// Info starts an info record
func (u *UnifiedLogger) Info(msg string) *Entry { return u.entry(logrus.InfoLevel, msg) }

// Warn starts a warning record
func (u *UnifiedLogger) Warn(msg string) *Entry { return u.entry(logrus.WarnLevel, msg) }

// Error starts an error record
func (u *UnifiedLogger) Error(msg string) *Entry { return u.entry(logrus.ErrorLevel, msg) }

// Success starts an info record marking a completed action
func (u *UnifiedLogger) Success(msg string) *Entry {
	e := u.entry(logrus.InfoLevel, msg)
	e.success = true
	return e
}

// Field attaches a structured field
func (e *Entry) Field(key string, value any) *Entry {
	e.fields[key] = value
	return e
}

// Err attaches an error
func (e *Entry) Err(err error) *Entry {
	e.fields[logrus.ErrorKey] = err
	return e
}

// Pretty sets the terminal text
func (e *Entry) Pretty(s string) *Entry {
	e.pretty = s
	return e
}

// PrettyOnly keeps the structured record at debug level so only the pretty
// text is visible at default verbosity.
func (e *Entry) PrettyOnly() *Entry {
	e.prettyOnly = true
	return e
}

// Emit writes the record
func (e *Entry) Emit() {
	e.Log(context.Background())
}

// Log writes the record with ctx attached
func (e *Entry) Log(ctx context.Context) {
	mu.RLock()
	l, w := base, pretty
	mu.RUnlock()

	fields := logrus.Fields{"component": e.logger.component}
	for k, v := range e.fields {
		fields[k] = v
	}
	if e.success {
		fields["success"] = true
	}

	level := e.level
	if e.prettyOnly && e.pretty != "" {
		level = logrus.DebugLevel
	}
	l.WithContext(ctx).WithFields(fields).Log(level, e.msg)

	if e.pretty != "" {
		text := e.pretty
		if !strings.HasSuffix(text, "\n") {
			text += "\n"
		}
		fmt.Fprint(w, text)
	}
}
