package layout

import (
	"github.com/cpcf/weave/document"
)

// templateSources returns the inputs directly inside dir, in input order.
// Documents in nested directories are not templates.
func templateSources(inputs []*document.Document, dir string) []*document.Document {
	dir = document.CleanPath(dir)
	var sources []*document.Document
	for _, doc := range inputs {
		if doc.Dir() == dir {
			sources = append(sources, doc)
		}
	}
	return sources
}
