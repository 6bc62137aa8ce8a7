package testutil

import (
	"sync"

	"github.com/uwazilabs/haki-analytics/internal/infrastructure/monitoring/logging"
)

// LogEntry is one captured log call.
type LogEntry struct {
	Level   string
	Message string
	Fields  []logging.Field
}

// CaptureLogger records every log call for later assertion.  Safe for
// concurrent use; With and Named share the parent's entry list.
type CaptureLogger struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewCaptureLogger constructs an empty capture logger.
func NewCaptureLogger() *CaptureLogger { return &CaptureLogger{} }

func (l *CaptureLogger) record(level, msg string, fields []logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, LogEntry{Level: level, Message: msg, Fields: fields})
}

func (l *CaptureLogger) Debug(msg string, fields ...logging.Field) { l.record("debug", msg, fields) }
func (l *CaptureLogger) Info(msg string, fields ...logging.Field)  { l.record("info", msg, fields) }
func (l *CaptureLogger) Warn(msg string, fields ...logging.Field)  { l.record("warn", msg, fields) }
func (l *CaptureLogger) Error(msg string, fields ...logging.Field) { l.record("error", msg, fields) }
func (l *CaptureLogger) Fatal(msg string, fields ...logging.Field) { l.record("fatal", msg, fields) }

func (l *CaptureLogger) With(_ ...logging.Field) logging.Logger { return l }
func (l *CaptureLogger) Named(_ string) logging.Logger          { return l }

// Entries returns a copy of everything logged so far.
func (l *CaptureLogger) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]LogEntry(nil), l.entries...)
}

// MessagesAt returns the messages logged at the given level.
func (l *CaptureLogger) MessagesAt(level string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, e := range l.entries {
		if e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}

var _ logging.Logger = (*CaptureLogger)(nil)
