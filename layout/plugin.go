// Package layout renders generated documents through named templates and a
// global layout.
//
// Templates are input documents in a single logical directory. Each is
// compiled once per build and indexed by its base name without extension.
// For every output document with an HTML-like extension the stage then:
//
//  1. renders the document through the template named by its "template"
//     metadata, if any;
//  2. renders the result through the template named "layout", if present.
//
// Both passes see the document metadata plus "content", the current text.
// Failures are reported to the project's diagnostic sink and never abort
// the build.
package layout

import (
	"io/fs"
	"os"

	"github.com/cpcf/weave/diag"
	"github.com/cpcf/weave/engine"
	"github.com/cpcf/weave/postprocess"
	"github.com/cpcf/weave/site"
)

// Plugin is the site stage wiring BuildIndex and Renderer together.
type Plugin struct {
	cfg            Config
	fsys           fs.FS
	compilers      *engine.Registry
	postprocessors *postprocess.Chain
}

type Option func(*Plugin)

// WithFS reads filesystem templates from TemplateDirectory inside fsys
// instead of the operating system's filesystem.
func WithFS(fsys fs.FS) Option {
	return func(p *Plugin) {
		p.fsys = fsys
	}
}

func WithCompilers(r *engine.Registry) Option {
	return func(p *Plugin) {
		p.compilers = r
	}
}

func WithPostProcessors(chain *postprocess.Chain) Option {
	return func(p *Plugin) {
		p.postprocessors = chain
	}
}

func New(cfg Config, opts ...Option) *Plugin {
	cfg.ApplyDefaults()
	p := &Plugin{cfg: cfg}
	for _, opt := range opts {
		opt(p)
	}
	if p.compilers == nil {
		p.compilers = engine.DefaultRegistry()
	}
	return p
}

// Use registers the stage on project with templates from dir.
func Use(project *site.Project, dir string, loadFromFilesystem bool, opts ...Option) *site.Project {
	cfg := Config{TemplateDirectory: dir, LoadFromFilesystem: loadFromFilesystem}
	return project.Use(New(cfg, opts...))
}

func (p *Plugin) Config() Config {
	return p.cfg
}

// Execute materialises filesystem templates when configured, builds the
// index and renders the project's outputs.
func (p *Plugin) Execute(project *site.Project) {
	sink := project.Sink()

	if p.cfg.LoadFromFilesystem {
		p.materialize(project, sink)
	}

	index := BuildIndex(project.Inputs.All(), p.cfg.LogicalDirectory(), p.compilers, sink)
	sink.Debug("built template index", "directory", p.cfg.LogicalDirectory(), "templates", index.Len())

	NewRenderer(index, sink,
		WithExtensions(p.cfg.Extensions...),
		WithWorkers(p.cfg.Workers),
		WithChain(p.postprocessors),
	).Render(project.Outputs.All())
}

func (p *Plugin) materialize(project *site.Project, sink diag.Sink) {
	fsys, root := p.fsys, p.cfg.TemplateDirectory
	if fsys == nil {
		fsys, root = os.DirFS(p.cfg.TemplateDirectory), "."
	}

	if err := project.AddInput(fsys, root, DefaultTemplateDirectory); err != nil {
		sink.Report(diag.Diagnostic{Kind: diag.KindIngest, Path: p.cfg.TemplateDirectory, Err: err})
		return
	}
	sink.Debug("loaded templates from filesystem", "source", p.cfg.TemplateDirectory, "directory", DefaultTemplateDirectory)
}
