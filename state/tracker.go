package state

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cpcf/weave/write"
)

// CleanupMode decides what Commit does with orphaned outputs.
type CleanupMode int

const (
	// CleanupReport only logs orphans.
	CleanupReport CleanupMode = iota
	// CleanupDelete removes orphans from the output root.
	CleanupDelete
)

func (m CleanupMode) String() string {
	switch m {
	case CleanupReport:
		return "report"
	case CleanupDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// CleanupSummary describes what Commit found and did.
type CleanupSummary struct {
	Mode     CleanupMode
	Written  int
	Orphans  []string
	Deleted  []string
	Failures map[string]error
}

// Tracker is a write.Writer that records every path it is asked to write
// under root. Commit compares the record with the previous build's manifest
// and handles outputs that disappeared.
type Tracker struct {
	next    write.Writer
	root    string
	mode    CleanupMode
	logger  *slog.Logger
	buildID string

	mu      sync.Mutex
	current *Manifest
}

type TrackerOption func(*Tracker)

func WithCleanupMode(mode CleanupMode) TrackerOption {
	return func(t *Tracker) {
		t.mode = mode
	}
}

func WithLogger(logger *slog.Logger) TrackerOption {
	return func(t *Tracker) {
		t.logger = logger
	}
}

func WithBuildID(id string) TrackerOption {
	return func(t *Tracker) {
		t.buildID = id
	}
}

func NewTracker(next write.Writer, root string, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		next:   next,
		root:   root,
		mode:   CleanupReport,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.current = NewManifest(t.buildID)
	return t
}

// ErrOutsideRoot is returned for paths that resolve outside the output
// root, whether passed to Write or read back from a manifest.
var ErrOutsideRoot = errors.New("path is outside output root")

// relativeTo returns target relative to root, failing when it escapes root.
func relativeTo(root, target string) (string, error) {
	rel, err := filepath.Rel(root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: %w %s", target, ErrOutsideRoot, root)
	}
	return rel, nil
}

// orphanPath maps a manifest entry back to a file under root. Entries are
// slash-separated and relative; anything else is rejected.
func orphanPath(root, rel string) (string, error) {
	if rel == "" || filepath.IsAbs(rel) || strings.HasPrefix(rel, "/") || filepath.VolumeName(rel) != "" {
		return "", fmt.Errorf("%q: %w %s", rel, ErrOutsideRoot, root)
	}
	target := filepath.Join(root, filepath.FromSlash(rel))
	if _, err := relativeTo(root, target); err != nil {
		return "", err
	}
	if filepath.Clean(target) == filepath.Clean(root) {
		return "", fmt.Errorf("%q: %w %s", rel, ErrOutsideRoot, root)
	}
	return target, nil
}

func (t *Tracker) Write(path string, content []byte, options write.Options) error {
	rel, err := relativeTo(t.root, path)
	if err != nil {
		return err
	}

	if err := t.next.Write(path, content, options); err != nil {
		return err
	}

	t.mu.Lock()
	t.current.Record(filepath.ToSlash(rel), content)
	t.mu.Unlock()
	return nil
}

// Manifest returns a copy of the manifest of the writes seen so far.
func (t *Tracker) Manifest() *Manifest {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current.Clone()
}

// Commit loads the previous manifest, handles orphans according to the
// cleanup mode and saves the current manifest.
func (t *Tracker) Commit() (*CleanupSummary, error) {
	previous, err := LoadManifest(t.root)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	summary := &CleanupSummary{
		Mode:     t.mode,
		Written:  len(t.current.Entries),
		Orphans:  t.current.Orphans(previous),
		Failures: make(map[string]error),
	}

	for _, rel := range summary.Orphans {
		target, err := orphanPath(t.root, rel)
		if err != nil {
			summary.Failures[rel] = err
			t.logger.Warn("skipping manifest entry outside output root", "path", rel)
			continue
		}
		if t.mode != CleanupDelete {
			t.logger.Info("orphaned output", "path", rel)
			continue
		}
		if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
			summary.Failures[rel] = err
			t.logger.Warn("failed to remove orphaned output", "path", rel, "error", err)
			continue
		}
		summary.Deleted = append(summary.Deleted, rel)
		t.logger.Debug("removed orphaned output", "path", rel)
	}

	if err := t.current.Save(t.root); err != nil {
		return summary, err
	}

	t.logger.Info("output manifest saved",
		"written", summary.Written,
		"orphans", len(summary.Orphans),
		"deleted", len(summary.Deleted),
		"mode", t.mode.String(),
	)
	return summary, nil
}
