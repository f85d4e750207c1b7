package processors

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Markdown converts Markdown files to HTML with GitHub flavoured extensions.
type Markdown struct {
	md goldmark.Markdown
}

type MarkdownOption func(*markdownConfig)

type markdownConfig struct {
	unsafe bool
}

// WithUnsafeHTML keeps raw HTML embedded in the Markdown source.
func WithUnsafeHTML() MarkdownOption {
	return func(c *markdownConfig) {
		c.unsafe = true
	}
}

func NewMarkdown(opts ...MarkdownOption) *Markdown {
	var cfg markdownConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var rendererOpts []goldmark.Option
	if cfg.unsafe {
		rendererOpts = append(rendererOpts, goldmark.WithRendererOptions(html.WithUnsafe()))
	}

	return &Markdown{
		md: goldmark.New(append(rendererOpts,
			goldmark.WithExtensions(extension.GFM),
		)...),
	}
}

// IsMarkdown reports whether filePath has a Markdown extension.
func IsMarkdown(filePath string) bool {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// Convert renders Markdown source to HTML.
func (m *Markdown) Convert(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := m.md.Convert(source, &buf); err != nil {
		return nil, fmt.Errorf("failed to convert markdown: %w", err)
	}
	return buf.Bytes(), nil
}

func (m *Markdown) ProcessContent(filePath string, content []byte) ([]byte, error) {
	if !IsMarkdown(filePath) {
		return content, nil
	}
	return m.Convert(content)
}
