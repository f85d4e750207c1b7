// Package processors provides post-processors for rendered documents.
package processors

import (
	"path/filepath"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer strips markup not allowed by a bluemonday policy from HTML
// documents. Other files are returned unchanged.
//
// The default UGC policy removes document-level elements such as <html> and
// <head>, so a Sanitizer suits fragment outputs rather than pages already
// wrapped in a layout.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer uses policy, or bluemonday.UGCPolicy when policy is nil.
func NewSanitizer(policy *bluemonday.Policy) *Sanitizer {
	if policy == nil {
		policy = bluemonday.UGCPolicy()
	}
	return &Sanitizer{policy: policy}
}

// PagePolicy extends the UGC policy with the document-level elements a
// layout emits, so whole pages keep their structure while scripts, event
// handlers and unsafe URLs are still removed.
func PagePolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("html", "head", "body", "title", "main", "header", "footer", "nav", "section", "article")
	p.AllowElementsContent("title")
	p.AllowAttrs("class").Globally()
	p.AllowAttrs("lang").OnElements("html")
	return p
}

func (s *Sanitizer) ProcessContent(filePath string, content []byte) ([]byte, error) {
	if !isHTML(filePath) {
		return content, nil
	}
	return s.policy.SanitizeBytes(content), nil
}

func isHTML(filePath string) bool {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".html", ".htm":
		return true
	}
	return false
}
