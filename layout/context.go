package layout

import "github.com/cpcf/weave/document"

// NewContext builds the render context for doc: its metadata as plain
// values plus ContentKey holding the current text, which overrides any
// metadata entry of the same name.
func NewContext(doc *document.Document) map[string]any {
	ctx := doc.Metadata.Native()
	ctx[ContentKey] = doc.Text()
	return ctx
}
