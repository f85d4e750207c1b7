// Package diag carries build diagnostics from the template stage to the
// host. Nothing in the stage returns errors to its caller; every failure is
// reported to a Sink and processing continues.
package diag

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

type Kind string

const (
	KindTemplateParse    Kind = "TemplateParseError"
	KindTemplateNotFound Kind = "TemplateNotFound"
	KindTemplateRender   Kind = "TemplateRenderError"
	KindPostprocess      Kind = "PostprocessError"
	KindIngest           Kind = "IngestError"
	KindFrontMatter      Kind = "FrontMatterError"
	KindMarkdown         Kind = "MarkdownError"
)

// Diagnostic describes one recoverable failure. Path is the document or
// template source involved; Template is the requested template name when
// one applies.
type Diagnostic struct {
	Kind     Kind
	Path     string
	Template string
	Err      error
}

func (d Diagnostic) Error() string {
	var b strings.Builder
	b.WriteString(string(d.Kind))
	if d.Path != "" {
		b.WriteString(": ")
		b.WriteString(d.Path)
	}
	if d.Template != "" {
		fmt.Fprintf(&b, ": template %q", d.Template)
	}
	if d.Err != nil {
		b.WriteString(": ")
		b.WriteString(d.Err.Error())
	}
	return b.String()
}

func (d Diagnostic) Unwrap() error {
	return d.Err
}

// Sink receives debug progress messages and diagnostics.
type Sink interface {
	Debug(msg string, args ...any)
	Report(d Diagnostic)
}

// LogSink writes to a slog.Logger: progress at debug level, diagnostics at
// error level.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Debug(msg string, args ...any) {
	s.logger.Debug(msg, args...)
}

func (s *LogSink) Report(d Diagnostic) {
	attrs := []any{"kind", string(d.Kind)}
	if d.Path != "" {
		attrs = append(attrs, "path", d.Path)
	}
	if d.Template != "" {
		attrs = append(attrs, "template", d.Template)
	}
	if d.Err != nil {
		attrs = append(attrs, "error", d.Err)
	}
	s.logger.Error("template stage diagnostic", attrs...)
}

// Discard drops everything.
var Discard Sink = discard{}

type discard struct{}

func (discard) Debug(string, ...any) {}
func (discard) Report(Diagnostic)    {}

// Recorder keeps every diagnostic it receives and optionally forwards to
// another sink. It is safe for concurrent use.
type Recorder struct {
	mu          sync.Mutex
	diagnostics []Diagnostic
	next        Sink
}

func NewRecorder(next Sink) *Recorder {
	if next == nil {
		next = Discard
	}
	return &Recorder{next: next}
}

func (r *Recorder) Debug(msg string, args ...any) {
	r.next.Debug(msg, args...)
}

func (r *Recorder) Report(d Diagnostic) {
	r.mu.Lock()
	r.diagnostics = append(r.diagnostics, d)
	r.mu.Unlock()
	r.next.Report(d)
}

func (r *Recorder) Diagnostics() []Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Diagnostic(nil), r.diagnostics...)
}

// Count returns how many diagnostics of kind were recorded.
func (r *Recorder) Count(kind Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, d := range r.diagnostics {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

func (r *Recorder) HasDiagnostics() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.diagnostics) > 0
}

// Err returns nil when nothing was recorded, otherwise a *MultiError.
func (r *Recorder) Err() error {
	diags := r.Diagnostics()
	if len(diags) == 0 {
		return nil
	}
	return &MultiError{Diagnostics: diags}
}
