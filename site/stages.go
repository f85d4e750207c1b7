package site

import (
	"path"
	"strings"

	"github.com/cpcf/weave/diag"
	"github.com/cpcf/weave/document"
	"github.com/cpcf/weave/processors"
)

// DefaultFrontMatterExtensions are the inputs FrontMatter reads by default.
// Data files such as YAML, where a leading "---" is a document marker, are
// left alone.
var DefaultFrontMatterExtensions = []string{".md", ".markdown", ".html", ".htm"}

type frontMatterStage struct {
	extensions map[string]struct{}
	exclude    []string
}

type FrontMatterOption func(*frontMatterStage)

// WithFrontMatterExtensions replaces the extensions FrontMatter reads.
func WithFrontMatterExtensions(exts ...string) FrontMatterOption {
	return func(s *frontMatterStage) {
		s.extensions = make(map[string]struct{}, len(exts))
		for _, ext := range exts {
			s.extensions[strings.ToLower(ext)] = struct{}{}
		}
	}
}

// WithFrontMatterExclude skips inputs under any of dirs.
func WithFrontMatterExclude(dirs ...string) FrontMatterOption {
	return func(s *frontMatterStage) {
		for _, d := range dirs {
			s.exclude = append(s.exclude, document.CleanPath(d))
		}
	}
}

// FrontMatter moves a leading YAML block of each page input into its
// metadata. Keys from the block overwrite existing metadata.
func FrontMatter(opts ...FrontMatterOption) Stage {
	s := &frontMatterStage{}
	WithFrontMatterExtensions(DefaultFrontMatterExtensions...)(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *frontMatterStage) Execute(p *Project) {
	for _, doc := range p.Inputs.All() {
		if _, ok := s.extensions[strings.ToLower(doc.Ext())]; !ok || underAny(doc.Path, s.exclude) {
			continue
		}

		meta, body, err := document.SplitFrontMatter(doc.Content)
		if err != nil {
			p.Sink().Report(diag.Diagnostic{Kind: diag.KindFrontMatter, Path: doc.Path, Err: err})
			continue
		}
		if meta == nil {
			continue
		}
		doc.Metadata.Merge(meta)
		doc.Content = body
		p.Sink().Debug("parsed front matter", "path", doc.Path, "keys", len(meta))
	}
}

type markdownStage struct {
	converter *processors.Markdown
	exclude   []string
}

type MarkdownOption func(*markdownStage)

// WithConverter replaces the default goldmark converter.
func WithConverter(m *processors.Markdown) MarkdownOption {
	return func(s *markdownStage) {
		s.converter = m
	}
}

// WithExclude skips inputs under any of dirs.
func WithExclude(dirs ...string) MarkdownOption {
	return func(s *markdownStage) {
		for _, d := range dirs {
			s.exclude = append(s.exclude, document.CleanPath(d))
		}
	}
}

// Markdown turns each Markdown input into an HTML output document at the
// same logical path with an .html extension. Metadata is copied.
func Markdown(opts ...MarkdownOption) Stage {
	s := &markdownStage{}
	for _, opt := range opts {
		opt(s)
	}
	if s.converter == nil {
		s.converter = processors.NewMarkdown(processors.WithUnsafeHTML())
	}
	return s
}

func (s *markdownStage) Execute(p *Project) {
	for _, doc := range p.Inputs.All() {
		if !processors.IsMarkdown(doc.Path) || underAny(doc.Path, s.exclude) {
			continue
		}

		html, err := s.converter.Convert(doc.Content)
		if err != nil {
			p.Sink().Report(diag.Diagnostic{Kind: diag.KindMarkdown, Path: doc.Path, Err: err})
			continue
		}

		out := &document.Document{
			Path:     strings.TrimSuffix(doc.Path, path.Ext(doc.Path)) + ".html",
			Content:  html,
			Metadata: doc.Metadata.Clone(),
		}
		p.Outputs.Add(out)
		p.Sink().Debug("converted markdown", "input", doc.Path, "output", out.Path)
	}
}

func underAny(p string, dirs []string) bool {
	for _, dir := range dirs {
		if p == dir || strings.HasPrefix(p, dir+"/") {
			return true
		}
	}
	return false
}
