package weavetest

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/cpcf/weave/document"
)

// Doc builds a document with metadata converted by document.FromMap. It
// panics on unsupported metadata values.
func Doc(p, content string, meta map[string]any) *document.Document {
	d := document.New(p, []byte(content))
	if meta != nil {
		m, err := document.FromMap(meta)
		if err != nil {
			panic(fmt.Sprintf("weavetest.Doc(%q): %v", p, err))
		}
		d.Metadata = m
	}
	return d
}

// Texts maps each document's path to its text.
func Texts(docs []*document.Document) map[string]string {
	out := make(map[string]string, len(docs))
	for _, d := range docs {
		out[d.Path] = d.Text()
	}
	return out
}

// LogBuffer captures slog output at debug level as text.
type LogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func NewLogBuffer() (*slog.Logger, *LogBuffer) {
	lb := &LogBuffer{}
	return slog.New(slog.NewTextHandler(lb, &slog.HandlerOptions{Level: slog.LevelDebug})), lb
}

func (lb *LogBuffer) Write(p []byte) (int, error) {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.buf.Write(p)
}

func (lb *LogBuffer) String() string {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.buf.String()
}

func (lb *LogBuffer) Contains(s string) bool {
	return strings.Contains(lb.String(), s)
}
