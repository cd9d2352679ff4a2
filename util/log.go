package util

import (
	"io"
	"log"
	"time"
)

// TimestampFormat is the layout of the timestamp that prefixes every log line.
const TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

// Logger writes one timestamped line per call, e.g.
//
//	[2024-05-01T10:00:00.000Z] found 3 image files
//
// A nil *Logger discards everything.
type Logger struct {
	out *log.Logger
	now func() time.Time
}

// NewLogger returns a Logger writing to w.
func NewLogger(w io.Writer) *Logger {
	return &Logger{out: log.New(w, "", 0), now: time.Now}
}

// Printf formats a message and writes it with a UTC timestamp prefix.
func (l *Logger) Printf(format string, args ...any) {
	if l == nil {
		return
	}
	ts := l.now().UTC().Format(TimestampFormat)
	l.out.Printf("["+ts+"] "+format, args...)
}
