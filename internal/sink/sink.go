// Package sink provides the line-oriented output capability shared by the
// calculator, notify and book packages.
//
// Components never print directly. They emit whole lines into a Sink, which
// lets the driver route output to stdout or the structured log, and lets tests
// capture exactly what a component produced.
package sink

import (
	"io"
	"sync"

	logx "patternkit/pkg/logx"
)

// Sink consumes one line of text per call. Implementations must not fail;
// delivery problems are the sink's own concern.
type Sink interface {
	Emit(line string)
}

// Func adapts a plain function to Sink.
type Func func(line string)

func (f Func) Emit(line string) {
	if f != nil {
		f(line)
	}
}

// Discard drops every line.
var Discard Sink = Func(func(string) {})

// OrDiscard returns s, or Discard when s is nil.
func OrDiscard(s Sink) Sink {
	if s == nil {
		return Discard
	}
	return s
}

type writerSink struct {
	mu sync.Mutex
	w  io.Writer
}

// Writer writes each line followed by a newline. Write errors are dropped.
func Writer(w io.Writer) Sink {
	if w == nil {
		return Discard
	}
	return &writerSink{w: w}
}

func (s *writerSink) Emit(line string) {
	s.mu.Lock()
	_, _ = io.WriteString(s.w, line+"\n")
	s.mu.Unlock()
}

// Log emits each line as an info record. The line is the record message.
func Log(log logx.Logger) Sink {
	if log.IsZero() {
		return Discard
	}
	return Func(func(line string) { log.Info(line) })
}

// Fanout delivers each line to every non-nil sink in order.
func Fanout(sinks ...Sink) Sink {
	out := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	switch len(out) {
	case 0:
		return Discard
	case 1:
		return out[0]
	}
	return Func(func(line string) {
		for _, s := range out {
			s.Emit(line)
		}
	})
}

// Recorder keeps every emitted line in memory.
//
// It is safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	lines []string
}

func (r *Recorder) Emit(line string) {
	r.mu.Lock()
	r.lines = append(r.lines, line)
	r.mu.Unlock()
}

// Lines returns a copy of the recorded lines.
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	out := append([]string(nil), r.lines...)
	r.mu.Unlock()
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.lines = nil
	r.mu.Unlock()
}
