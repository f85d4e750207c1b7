// Package state records which files a build wrote so that outputs dropped
// by a later build can be found and removed.
package state

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// ManifestName is the file, relative to the output root, a Manifest is
// stored in.
const ManifestName = ".weave.manifest.json"

const manifestVersion = "1"

type ManifestEntry struct {
	Path string `json:"path"`
	Hash string `json:"hash"`
	Size int64  `json:"size"`
}

type Manifest struct {
	Version   string                   `json:"version"`
	BuildID   string                   `json:"build_id"`
	Generated time.Time                `json:"generated"`
	Entries   map[string]ManifestEntry `json:"entries"`
}

func NewManifest(buildID string) *Manifest {
	return &Manifest{
		Version:   manifestVersion,
		BuildID:   buildID,
		Generated: time.Now().UTC(),
		Entries:   make(map[string]ManifestEntry),
	}
}

// LoadManifest reads the manifest stored under root. A missing file yields
// an empty manifest.
func LoadManifest(root string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(root, ManifestName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewManifest(""), nil
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	if m.Version != manifestVersion {
		return nil, fmt.Errorf("unsupported manifest version %q", m.Version)
	}
	if m.Entries == nil {
		m.Entries = make(map[string]ManifestEntry)
	}
	return &m, nil
}

// Save writes the manifest under root, replacing any previous one.
func (m *Manifest) Save(root string) error {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}

	target := filepath.Join(root, ManifestName)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to move manifest: %w", err)
	}
	return nil
}

// Record adds or replaces the entry for rel, a slash-separated path
// relative to the output root.
func (m *Manifest) Record(rel string, content []byte) {
	sum := sha256.Sum256(content)
	m.Entries[rel] = ManifestEntry{
		Path: rel,
		Hash: hex.EncodeToString(sum[:]),
		Size: int64(len(content)),
	}
}

// Paths returns every recorded path in lexical order.
func (m *Manifest) Paths() []string {
	paths := make([]string, 0, len(m.Entries))
	for p := range m.Entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Orphans lists paths recorded in previous that m no longer contains.
func (m *Manifest) Orphans(previous *Manifest) []string {
	var orphans []string
	for _, p := range previous.Paths() {
		if _, ok := m.Entries[p]; !ok {
			orphans = append(orphans, p)
		}
	}
	return orphans
}

// Clone returns a copy that shares no entries map with m.
func (m *Manifest) Clone() *Manifest {
	out := *m
	out.Entries = make(map[string]ManifestEntry, len(m.Entries))
	for k, v := range m.Entries {
		out.Entries[k] = v
	}
	return &out
}
