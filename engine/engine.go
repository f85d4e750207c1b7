// Package engine is the seam between the layout stage and template
// languages. A Compiler turns template source into a Template or fails with
// a *ParseError; a Template renders a context into a string. The stage never
// looks inside either.
package engine

import (
	"path"
	"sort"
	"strings"
	"sync"
)

// Template is a compiled template. Implementations must be safe for
// concurrent Render calls.
type Template interface {
	Name() string
	Render(data map[string]any) (string, error)
}

// Compiler compiles template source. name is the index name the result will
// be registered under.
type Compiler interface {
	Compile(name, source string) (Template, error)
}

// CompilerFunc adapts a function to the Compiler interface.
type CompilerFunc func(name, source string) (Template, error)

func (f CompilerFunc) Compile(name, source string) (Template, error) {
	return f(name, source)
}

// Registry selects a Compiler by template file extension, falling back to a
// default for unknown extensions.
type Registry struct {
	mu       sync.RWMutex
	byExt    map[string]Compiler
	fallback Compiler
}

func NewRegistry(fallback Compiler) *Registry {
	return &Registry{
		byExt:    make(map[string]Compiler),
		fallback: fallback,
	}
}

// DefaultRegistry maps .liquid to Liquid, .tmpl and .gotmpl to GoTemplate,
// and .pongo, .django and .j2 to Pongo. Liquid is the fallback.
func DefaultRegistry() *Registry {
	liquid := NewLiquid()
	r := NewRegistry(liquid)
	r.Register(".liquid", liquid)

	gotmpl := NewGoTemplate()
	r.Register(".tmpl", gotmpl)
	r.Register(".gotmpl", gotmpl)

	pongo := NewPongo()
	r.Register(".pongo", pongo)
	r.Register(".django", pongo)
	r.Register(".j2", pongo)

	return r
}

func (r *Registry) Register(ext string, c Compiler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byExt[normalizeExt(ext)] = c
}

// For returns the compiler for the extension of p.
func (r *Registry) For(p string) Compiler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c, ok := r.byExt[normalizeExt(path.Ext(p))]; ok {
		return c
	}
	return r.fallback
}

// Compile compiles the source found at p. Failures, including a missing
// compiler, are returned as *ParseError.
func (r *Registry) Compile(p, name, source string) (Template, error) {
	c := r.For(p)
	if c == nil {
		return nil, &ParseError{Path: p, Err: ErrNoCompiler}
	}
	tmpl, err := c.Compile(name, source)
	if err != nil {
		return nil, &ParseError{Path: p, Err: err}
	}
	return tmpl, nil
}

// Extensions lists the registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
