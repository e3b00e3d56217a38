// Package testlog provides a recording logx.Logger for tests.
package testlog

import (
	"sync"

	"virtual-vr-console/internal/logx"
)

// Entry is a log entry
type Entry struct {
	Level  string
	Msg    string
	Fields []logx.Field
}

// Field returns the value of the named field and whether it was present.
func (e Entry) Field(key string) (any, bool) {
	for _, f := range e.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Recorder records log entries
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// New returns a new recorder
func New() *Recorder { return &Recorder{} }

// Logger returns a bound logger
func (r *Recorder) Logger() logx.Logger {
	return bound{r: r}
}

// Entries returns a copy of the log entries
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Find returns the first entry with the given level and message.
func (r *Recorder) Find(level, msg string) (Entry, bool) {
	for _, e := range r.Entries() {
		if e.Level == level && e.Msg == msg {
			return e, true
		}
	}
	return Entry{}, false
}

func (r *Recorder) add(level, msg string, fields []logx.Field) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := append([]logx.Field(nil), fields...)
	r.entries = append(r.entries, Entry{Level: level, Msg: msg, Fields: cp})
}

type bound struct {
	r    *Recorder
	base []logx.Field
}

func (b bound) Debug(msg string, f ...logx.Field) { b.r.add("debug", msg, join(b.base, f)) }
func (b bound) Info(msg string, f ...logx.Field)  { b.r.add("info", msg, join(b.base, f)) }
func (b bound) Warn(msg string, f ...logx.Field)  { b.r.add("warn", msg, join(b.base, f)) }
func (b bound) Error(msg string, f ...logx.Field) { b.r.add("error", msg, join(b.base, f)) }

func (b bound) With(f ...logx.Field) logx.Logger {
	return bound{r: b.r, base: join(b.base, f)}
}

func (b bound) Sync() error { return nil }

func join(base, extra []logx.Field) []logx.Field {
	out := make([]logx.Field, 0, len(base)+len(extra))
	out = append(out, base...)
	return append(out, extra...)
}

var _ logx.Logger = bound{}
