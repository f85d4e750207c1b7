package layout

import (
	"sort"

	"github.com/cpcf/weave/diag"
	"github.com/cpcf/weave/document"
	"github.com/cpcf/weave/engine"
)

// Index maps template names to compiled templates. It is built once per
// build and only read afterwards.
type Index struct {
	templates map[string]engine.Template
	sources   map[string]string
}

func newIndex() *Index {
	return &Index{
		templates: make(map[string]engine.Template),
		sources:   make(map[string]string),
	}
}

func (ix *Index) Lookup(name string) (engine.Template, bool) {
	t, ok := ix.templates[name]
	return t, ok
}

// Source returns the path of the document name was compiled from.
func (ix *Index) Source(name string) (string, bool) {
	p, ok := ix.sources[name]
	return p, ok
}

func (ix *Index) Names() []string {
	names := make([]string, 0, len(ix.templates))
	for name := range ix.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (ix *Index) Len() int {
	return len(ix.templates)
}

// BuildIndex compiles every input directly inside dir and registers it under
// its base name without extension. Sources that fail to compile are
// reported as TemplateParseError and skipped. When two sources share a
// name, the later one in input order wins.
func BuildIndex(inputs []*document.Document, dir string, compilers *engine.Registry, sink diag.Sink) *Index {
	ix := newIndex()

	for _, doc := range templateSources(inputs, dir) {
		name := doc.Name()

		tmpl, err := compilers.Compile(doc.Path, name, doc.Text())
		if err != nil {
			sink.Report(diag.Diagnostic{Kind: diag.KindTemplateParse, Path: doc.Path, Err: err})
			continue
		}

		if prev, ok := ix.sources[name]; ok {
			sink.Debug("template shadowed", "template", name, "previous", prev, "path", doc.Path)
		}
		ix.templates[name] = tmpl
		ix.sources[name] = doc.Path
		sink.Debug("indexed template", "template", name, "path", doc.Path)
	}

	return ix
}
