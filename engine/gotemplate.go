package engine

import (
	"strings"
	"text/template"

	"github.com/cpcf/weave/render"
)

// GoTemplate compiles text/template sources with the render helper
// functions. Output is not HTML-escaped: content is already markup.
//
// Unlike Liquid and pongo2, text/template prints "<no value>" for metadata a
// document does not define, e.g. {{ .title }} without a title. Guard such
// fields with default ({{ .title | default "" }}) or use WithStrictKeys to
// turn them into render errors.
type GoTemplate struct {
	funcs  template.FuncMap
	strict bool
}

type GoTemplateOption func(*GoTemplate)

// WithFuncs adds or overrides template functions.
func WithFuncs(funcs template.FuncMap) GoTemplateOption {
	return func(g *GoTemplate) {
		for name, fn := range funcs {
			g.funcs[name] = fn
		}
	}
}

// WithStrictKeys fails rendering when a template reads a missing key.
func WithStrictKeys() GoTemplateOption {
	return func(g *GoTemplate) {
		g.strict = true
	}
}

func NewGoTemplate(opts ...GoTemplateOption) *GoTemplate {
	g := &GoTemplate{funcs: render.FuncMap()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *GoTemplate) Compile(name, source string) (Template, error) {
	tmpl := template.New(name).Funcs(g.funcs)
	if g.strict {
		tmpl = tmpl.Option("missingkey=error")
	}
	tmpl, err := tmpl.Parse(source)
	if err != nil {
		return nil, err
	}
	return &goTemplate{tmpl: tmpl}, nil
}

type goTemplate struct {
	tmpl *template.Template
}

func (t *goTemplate) Name() string {
	return t.tmpl.Name()
}

func (t *goTemplate) Render(data map[string]any) (string, error) {
	var buf strings.Builder
	if err := t.tmpl.Execute(&buf, data); err != nil {
		return "", &RenderError{Template: t.Name(), Err: err}
	}
	return buf.String(), nil
}
