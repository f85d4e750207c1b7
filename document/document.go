// Package document models the content flowing through a build: named byte
// payloads with key-value metadata, kept in ordered collections.
package document

import (
	"path"
	"strings"
)

// Document is a single input or output file. Path is a slash-separated
// logical path such as "templates/layout.liquid".
type Document struct {
	Path     string
	Content  []byte
	Metadata Metadata
}

func New(p string, content []byte) *Document {
	return &Document{
		Path:     CleanPath(p),
		Content:  content,
		Metadata: make(Metadata),
	}
}

// CleanPath normalises a logical path to slash form without a leading "./".
func CleanPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = path.Clean(p)
	return strings.TrimPrefix(p, "/")
}

func (d *Document) Dir() string {
	return path.Dir(d.Path)
}

func (d *Document) Base() string {
	return path.Base(d.Path)
}

func (d *Document) Ext() string {
	return path.Ext(d.Path)
}

// Name is the base name with its extension removed.
func (d *Document) Name() string {
	base := d.Base()
	return strings.TrimSuffix(base, path.Ext(base))
}

func (d *Document) Text() string {
	return string(d.Content)
}

func (d *Document) SetText(s string) {
	d.Content = []byte(s)
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	return &Document{
		Path:     d.Path,
		Content:  append([]byte(nil), d.Content...),
		Metadata: d.Metadata.Clone(),
	}
}
