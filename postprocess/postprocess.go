// Package postprocess runs transformations over a document's text once the
// template and layout passes are done.
//
// Example usage:
//
//	chain := postprocess.NewChain()
//	chain.Add(processors.NewSanitizer(nil))
//	plugin := layout.New(cfg, layout.WithPostProcessors(chain))
package postprocess

import (
	"fmt"
	"path"
	"strings"
)

// Processor transforms the content of the document at filePath.
// Implementations return content unchanged when the path does not concern
// them, and must be safe for concurrent use.
type Processor interface {
	ProcessContent(filePath string, content []byte) ([]byte, error)
}

// ProcessorFunc adapts a function to the Processor interface.
type ProcessorFunc func(filePath string, content []byte) ([]byte, error)

func (f ProcessorFunc) ProcessContent(filePath string, content []byte) ([]byte, error) {
	return f(filePath, content)
}

// ForExtensions restricts p to paths whose extension is one of exts
// (case-insensitive). Other paths pass through untouched.
func ForExtensions(p Processor, exts ...string) Processor {
	allowed := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		allowed[strings.ToLower(ext)] = struct{}{}
	}
	return ProcessorFunc(func(filePath string, content []byte) ([]byte, error) {
		if _, ok := allowed[strings.ToLower(path.Ext(filePath))]; !ok {
			return content, nil
		}
		return p.ProcessContent(filePath, content)
	})
}

// Chain applies processors in the order they were added.
type Chain struct {
	processors []Processor
}

func NewChain(processors ...Processor) *Chain {
	return &Chain{
		processors: append(make([]Processor, 0, len(processors)), processors...),
	}
}

func (c *Chain) Add(processor Processor) {
	c.processors = append(c.processors, processor)
}

func (c *Chain) AddFunc(fn func(filePath string, content []byte) ([]byte, error)) {
	c.processors = append(c.processors, ProcessorFunc(fn))
}

// Process runs every processor on content. The first failure stops the
// chain and is returned with the processor's position.
func (c *Chain) Process(filePath string, content []byte) ([]byte, error) {
	result := content
	for i, processor := range c.processors {
		processed, err := processor.ProcessContent(filePath, result)
		if err != nil {
			return nil, fmt.Errorf("processor %d failed for %s: %w", i, filePath, err)
		}
		result = processed
	}
	return result, nil
}

func (c *Chain) HasProcessors() bool {
	return c != nil && len(c.processors) > 0
}

func (c *Chain) Len() int {
	if c == nil {
		return 0
	}
	return len(c.processors)
}
