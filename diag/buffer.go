package diag

import (
	"fmt"
	"strings"
)

type entry struct {
	msg  string
	args []any
	diag *Diagnostic
}

// Buffer holds the output of a single unit of work until Flush. Workers
// rendering documents in parallel each own a Buffer so that messages reach
// the shared sink in a deterministic order. A Buffer is not safe for
// concurrent use.
type Buffer struct {
	entries []entry
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

func (b *Buffer) Debug(msg string, args ...any) {
	b.entries = append(b.entries, entry{msg: msg, args: args})
}

func (b *Buffer) Report(d Diagnostic) {
	b.entries = append(b.entries, entry{diag: &d})
}

func (b *Buffer) Len() int {
	return len(b.entries)
}

// Flush replays buffered entries to sink in arrival order and empties the
// buffer.
func (b *Buffer) Flush(sink Sink) {
	for _, e := range b.entries {
		if e.diag != nil {
			sink.Report(*e.diag)
			continue
		}
		sink.Debug(e.msg, e.args...)
	}
	b.entries = b.entries[:0]
}

// MultiError aggregates the diagnostics of a build.
type MultiError struct {
	Diagnostics []Diagnostic
}

func (m *MultiError) Error() string {
	switch len(m.Diagnostics) {
	case 0:
		return "no diagnostics"
	case 1:
		return m.Diagnostics[0].Error()
	}

	msgs := make([]string, 0, len(m.Diagnostics))
	for _, d := range m.Diagnostics {
		msgs = append(msgs, d.Error())
	}
	return fmt.Sprintf("%d diagnostics:\n%s", len(m.Diagnostics), strings.Join(msgs, "\n"))
}

func (m *MultiError) Unwrap() []error {
	errs := make([]error, len(m.Diagnostics))
	for i, d := range m.Diagnostics {
		errs[i] = d
	}
	return errs
}
