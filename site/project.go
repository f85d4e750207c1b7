// Package site is a minimal static-site pipeline host. A Project holds the
// input and output document collections and runs stages over them in
// order.
package site

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/cpcf/weave/diag"
	"github.com/cpcf/weave/document"
	"github.com/cpcf/weave/write"
)

// FailureMode controls whether Build turns recorded diagnostics into an
// error. Stages themselves never fail.
type FailureMode int

const (
	BestEffort FailureMode = iota
	FailAtEnd
)

// Stage is one step of a build.
type Stage interface {
	Execute(p *Project)
}

type StageFunc func(p *Project)

func (f StageFunc) Execute(p *Project) {
	f(p)
}

type Project struct {
	Inputs  *document.Collection
	Outputs *document.Collection

	buildID  string
	logger   *slog.Logger
	sink     diag.Sink
	recorder *diag.Recorder
	failMode FailureMode
	stages   []Stage
}

type Option func(*Project)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Project) {
		p.logger = logger
	}
}

// WithSink forwards diagnostics to sink instead of the project logger.
func WithSink(sink diag.Sink) Option {
	return func(p *Project) {
		p.sink = sink
	}
}

func WithFailureMode(mode FailureMode) Option {
	return func(p *Project) {
		p.failMode = mode
	}
}

func WithBuildID(id string) Option {
	return func(p *Project) {
		p.buildID = id
	}
}

func New(opts ...Option) *Project {
	p := &Project{
		Inputs:   document.NewCollection(),
		Outputs:  document.NewCollection(),
		buildID:  uuid.NewString(),
		logger:   slog.Default(),
		failMode: BestEffort,
	}

	for _, opt := range opts {
		opt(p)
	}

	p.logger = p.logger.With("build", p.buildID)
	if p.sink == nil {
		p.sink = diag.NewLogSink(p.logger)
	}
	p.recorder = diag.NewRecorder(p.sink)

	return p
}

func (p *Project) BuildID() string {
	return p.buildID
}

func (p *Project) Logger() *slog.Logger {
	return p.logger
}

// Sink is where stages report progress and diagnostics. Everything reported
// is also kept for Diagnostics.
func (p *Project) Sink() diag.Sink {
	return p.recorder
}

func (p *Project) Diagnostics() []diag.Diagnostic {
	return p.recorder.Diagnostics()
}

func (p *Project) Use(stages ...Stage) *Project {
	p.stages = append(p.stages, stages...)
	return p
}

// Build runs every stage once, in registration order.
func (p *Project) Build() error {
	for i, stage := range p.stages {
		p.logger.Debug("running stage", "index", i, "stage", fmt.Sprintf("%T", stage))
		stage.Execute(p)
	}

	diags := p.recorder.Diagnostics()
	p.logger.Info("build finished",
		"inputs", p.Inputs.Len(),
		"outputs", p.Outputs.Len(),
		"diagnostics", len(diags),
	)

	if p.failMode == FailAtEnd {
		return p.recorder.Err()
	}
	return nil
}

// AddInput ingests every regular file under root in fsys as an input
// document under the logical directory dest, in lexical path order.
// A document already present at the same logical path is replaced.
func (p *Project) AddInput(fsys fs.FS, root, dest string) error {
	root = path.Clean(filepath.ToSlash(root))
	added := 0

	err := fs.WalkDir(fsys, root, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return err
		}

		rel := name
		if root != "." {
			rel = strings.TrimPrefix(name, root+"/")
		}
		p.Inputs.Add(document.New(path.Join(dest, rel), content))
		added++
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to add input from %s: %w", root, err)
	}

	p.logger.Debug("added input", "source", root, "destination", dest, "files", added)
	return nil
}

// Write stores every output document under root using w.
func (p *Project) Write(root string, w write.Writer, options write.Options) error {
	for _, doc := range p.Outputs.All() {
		target := filepath.Join(root, filepath.FromSlash(doc.Path))
		if err := w.Write(target, doc.Content, options); err != nil {
			return fmt.Errorf("failed to write %s: %w", doc.Path, err)
		}
		p.logger.Debug("wrote output", "path", target)
	}
	return nil
}
