// Package progress carries the human-readable run log of a sorting run.
//
// Every line is tagged with a Category so callers can colour, filter or count
// them. The wording of a line is not stable; its category and its position in
// the sequence are.
package progress

import (
	"fmt"
	"sync"
)

// Category tags a progress entry.
type Category string

const (
	Info    Category = "info"
	Match   Category = "match"
	Missing Category = "missing"
	Extra   Category = "extra"
	Warning Category = "warning"
	Fatal   Category = "fatal"
)

// Categories lists every category in display order.
var Categories = []Category{Info, Match, Missing, Extra, Warning, Fatal}

// Entry is one log line.
type Entry struct {
	Category Category
	Message  string
}

// String renders the entry as "category: message".
func (e Entry) String() string {
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

// Sink receives progress entries. Implementations must accept concurrent
// Emit calls.
type Sink interface {
	Emit(Entry)
}

// SinkFunc adapts a plain callback to a Sink. The callback is serialized.
func SinkFunc(fn func(Entry)) Sink {
	return &funcSink{fn: fn}
}

type funcSink struct {
	mu sync.Mutex
	fn func(Entry)
}

func (s *funcSink) Emit(e Entry) {
	if s.fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fn(e)
}

// Discard drops every entry.
var Discard Sink = discard{}

type discard struct{}

func (discard) Emit(Entry) {}

// Multi fans every entry out to all sinks in order.
func Multi(sinks ...Sink) Sink {
	var out multi
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

type multi []Sink

func (m multi) Emit(e Entry) {
	for _, s := range m {
		s.Emit(e)
	}
}

// Logf formats and emits one entry. A nil sink is ignored.
func Logf(s Sink, c Category, format string, args ...any) {
	if s == nil {
		return
	}
	s.Emit(Entry{Category: c, Message: fmt.Sprintf(format, args...)})
}
