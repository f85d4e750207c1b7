package layout

import (
	"path"
	"strings"

	"github.com/cpcf/weave/diag"
	"github.com/cpcf/weave/document"
	"github.com/cpcf/weave/engine"
	"github.com/cpcf/weave/postprocess"
)

// Renderer applies the per-document template and then the layout to each
// eligible output document, replacing its content in place.
type Renderer struct {
	index          *Index
	sink           diag.Sink
	extensions     map[string]struct{}
	workers        int
	postprocessors *postprocess.Chain
}

type RendererOption func(*Renderer)

// WithExtensions replaces the set of HTML-like output extensions.
func WithExtensions(exts ...string) RendererOption {
	return func(r *Renderer) {
		r.extensions = make(map[string]struct{}, len(exts))
		for _, ext := range exts {
			r.extensions[strings.ToLower(ext)] = struct{}{}
		}
	}
}

// WithWorkers renders up to n documents concurrently.
func WithWorkers(n int) RendererOption {
	return func(r *Renderer) {
		r.workers = n
	}
}

// WithChain runs chain on every document that was rendered.
func WithChain(chain *postprocess.Chain) RendererOption {
	return func(r *Renderer) {
		r.postprocessors = chain
	}
}

func NewRenderer(index *Index, sink diag.Sink, opts ...RendererOption) *Renderer {
	if sink == nil {
		sink = diag.Discard
	}
	r := &Renderer{
		index:   index,
		sink:    sink,
		workers: 1,
	}
	WithExtensions(DefaultExtensions...)(r)

	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Eligible reports whether doc has an HTML-like extension.
func (r *Renderer) Eligible(doc *document.Document) bool {
	_, ok := r.extensions[strings.ToLower(doc.Ext())]
	return ok
}

// Render processes every eligible document. It never fails; problems are
// reported to the sink and the affected step leaves the text unchanged.
func (r *Renderer) Render(outputs []*document.Document) {
	var eligible []*document.Document
	for _, doc := range outputs {
		if r.Eligible(doc) {
			eligible = append(eligible, doc)
		}
	}

	if r.workers > 1 && len(eligible) > 1 {
		r.renderParallel(eligible)
		return
	}
	for _, doc := range eligible {
		r.renderDocument(doc, r.sink)
	}
}

// renderDocument runs the template pass, then the layout pass. It touches
// only doc and reports to sink.
func (r *Renderer) renderDocument(doc *document.Document, sink diag.Sink) {
	rendered := false

	if name, ok := templateName(doc); ok {
		if tmpl, resolved, found := r.resolve(name); found {
			if r.apply(doc, tmpl.Render, resolved, sink) {
				rendered = true
				sink.Debug("rendered template", "path", doc.Path, "template", resolved)
			}
		} else {
			sink.Report(diag.Diagnostic{Kind: diag.KindTemplateNotFound, Path: doc.Path, Template: name})
		}
	}

	if layout, ok := r.index.Lookup(LayoutName); ok {
		if r.apply(doc, layout.Render, LayoutName, sink) {
			rendered = true
			sink.Debug("rendered layout", "path", doc.Path, "template", LayoutName)
		}
	}

	if rendered && r.postprocessors.HasProcessors() {
		processed, err := r.postprocessors.Process(doc.Path, doc.Content)
		if err != nil {
			sink.Report(diag.Diagnostic{Kind: diag.KindPostprocess, Path: doc.Path, Err: err})
			return
		}
		doc.Content = processed
	}
}

func (r *Renderer) apply(doc *document.Document, render func(map[string]any) (string, error), name string, sink diag.Sink) bool {
	out, err := render(NewContext(doc))
	if err != nil {
		sink.Report(diag.Diagnostic{Kind: diag.KindTemplateRender, Path: doc.Path, Template: name, Err: err})
		return false
	}
	doc.SetText(out)
	return true
}

// resolve looks name up as given and, failing that, by its base name
// without extension so that "post.liquid" and "templates/post.liquid" both
// find "post".
func (r *Renderer) resolve(name string) (engine.Template, string, bool) {
	if t, ok := r.index.Lookup(name); ok {
		return t, name, true
	}
	if ext := path.Ext(name); ext != "" {
		stripped := strings.TrimSuffix(path.Base(name), ext)
		if t, ok := r.index.Lookup(stripped); ok {
			return t, stripped, true
		}
	}
	return nil, "", false
}

// templateName returns the document's template metadata when it holds a
// non-empty string.
func templateName(doc *document.Document) (string, bool) {
	name, ok := doc.Metadata.String(TemplateKey)
	if !ok {
		return "", false
	}
	name = strings.TrimSpace(name)
	return name, name != ""
}
