package engine

import (
	"regexp"

	"github.com/flosch/pongo2/v6"
)

// pongo2 rejects contexts whose keys are not identifiers.
var pongoIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Pongo compiles Django/Jinja style templates with pongo2. The content key
// is passed as a safe value so that already rendered markup is not escaped.
type Pongo struct {
	set *pongo2.TemplateSet
}

func NewPongo() *Pongo {
	return &Pongo{
		set: pongo2.NewSet("weave", pongo2.MustNewLocalFileSystemLoader("")),
	}
}

func (p *Pongo) Compile(name, source string) (Template, error) {
	tmpl, err := p.set.FromString(source)
	if err != nil {
		return nil, err
	}
	return &pongoTemplate{name: name, tmpl: tmpl}, nil
}

type pongoTemplate struct {
	name string
	tmpl *pongo2.Template
}

func (t *pongoTemplate) Name() string {
	return t.name
}

func (t *pongoTemplate) Render(data map[string]any) (string, error) {
	ctx := make(pongo2.Context, len(data))
	for k, v := range data {
		if !pongoIdentifier.MatchString(k) {
			continue
		}
		ctx[k] = v
	}
	if content, ok := data["content"].(string); ok {
		ctx["content"] = pongo2.AsSafeValue(content)
	}

	out, err := t.tmpl.Execute(ctx)
	if err != nil {
		return "", &RenderError{Template: t.name, Err: err}
	}
	return out, nil
}
