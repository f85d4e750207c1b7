package engine

import (
	"errors"
	"fmt"
)

var ErrNoCompiler = errors.New("no compiler registered for template")

// ParseError reports template source that failed to compile.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: parse failed: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// RenderError reports a compiled template that failed during execution.
type RenderError struct {
	Template string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("template %q: render failed: %v", e.Template, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
