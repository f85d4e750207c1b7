package engine

import (
	"github.com/osteele/liquid"

	"github.com/cpcf/weave/render"
)

// Liquid compiles Liquid templates.
type Liquid struct {
	engine *liquid.Engine
}

type LiquidOption func(*liquid.Engine)

// WithFilter registers a Liquid filter on the underlying engine.
func WithFilter(name string, fn any) LiquidOption {
	return func(e *liquid.Engine) {
		e.RegisterFilter(name, fn)
	}
}

func NewLiquid(opts ...LiquidOption) *Liquid {
	e := liquid.NewEngine()
	e.RegisterFilter("slugify", render.Slugify)
	for _, opt := range opts {
		opt(e)
	}
	return &Liquid{engine: e}
}

func (l *Liquid) Compile(name, source string) (Template, error) {
	tmpl, err := l.engine.ParseString(source)
	if err != nil {
		return nil, err
	}
	return &liquidTemplate{name: name, tmpl: tmpl}, nil
}

type liquidTemplate struct {
	name string
	tmpl *liquid.Template
}

func (t *liquidTemplate) Name() string {
	return t.name
}

func (t *liquidTemplate) Render(data map[string]any) (string, error) {
	out, err := t.tmpl.RenderString(data)
	if err != nil {
		return "", &RenderError{Template: t.name, Err: err}
	}
	return out, nil
}
