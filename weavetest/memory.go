// Package weavetest provides fixtures for testing the layout stage: an
// in-memory fs.FS, document builders and a log capture.
package weavetest

import (
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryFS is a writable in-memory fs.FS. Parent directories are created
// implicitly. It is safe for concurrent use.
type MemoryFS struct {
	mu    sync.RWMutex
	files map[string]*memoryFile
}

type memoryFile struct {
	name    string
	content []byte
	mode    fs.FileMode
	modTime time.Time
}

func NewMemoryFS() *MemoryFS {
	return &MemoryFS{files: make(map[string]*memoryFile)}
}

// MapFS builds a MemoryFS from path -> content pairs.
func MapFS(files map[string]string) *MemoryFS {
	m := NewMemoryFS()
	for name, content := range files {
		m.WriteFile(name, []byte(content))
	}
	return m
}

func (m *MemoryFS) WriteFile(name string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	name = cleanName(name)
	m.files[name] = &memoryFile{
		name:    name,
		content: append([]byte(nil), data...),
		mode:    0o644,
		modTime: time.Now(),
	}
	m.ensureDir(path.Dir(name))
}

func (m *MemoryFS) ensureDir(dir string) {
	if dir == "." {
		return
	}
	if _, exists := m.files[dir]; exists {
		return
	}
	m.files[dir] = &memoryFile{
		name:    dir,
		mode:    0o755 | fs.ModeDir,
		modTime: time.Now(),
	}
	m.ensureDir(path.Dir(dir))
}

func (m *MemoryFS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if name == "." {
		return &memoryHandle{file: &memoryFile{name: ".", mode: 0o755 | fs.ModeDir}, fsys: m}, nil
	}
	file, ok := m.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return &memoryHandle{file: file, fsys: m}, nil
}

// ReadDir lists the entries of dir sorted by name.
func (m *MemoryFS) ReadDir(dir string) ([]fs.DirEntry, error) {
	if !fs.ValidPath(dir) {
		return nil, &fs.PathError{Op: "readdir", Path: dir, Err: fs.ErrInvalid}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if dir != "." {
		f, ok := m.files[dir]
		if !ok {
			return nil, &fs.PathError{Op: "readdir", Path: dir, Err: fs.ErrNotExist}
		}
		if !f.IsDir() {
			return nil, &fs.PathError{Op: "readdir", Path: dir, Err: fs.ErrInvalid}
		}
	}

	var entries []fs.DirEntry
	for name, file := range m.files {
		if path.Dir(name) == dir {
			entries = append(entries, fs.FileInfoToDirEntry(file))
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})
	return entries, nil
}

func cleanName(name string) string {
	return strings.TrimPrefix(path.Clean("/"+name), "/")
}

type memoryHandle struct {
	file    *memoryFile
	fsys    *MemoryFS
	offset  int
	entries []fs.DirEntry
	listed  bool
}

func (h *memoryHandle) Read(b []byte) (int, error) {
	if h.file.IsDir() {
		return 0, &fs.PathError{Op: "read", Path: h.file.name, Err: fs.ErrInvalid}
	}
	if h.offset >= len(h.file.content) {
		return 0, io.EOF
	}
	n := copy(b, h.file.content[h.offset:])
	h.offset += n
	return n, nil
}

func (h *memoryHandle) Stat() (fs.FileInfo, error) {
	return h.file, nil
}

func (h *memoryHandle) Close() error {
	return nil
}

func (h *memoryHandle) ReadDir(n int) ([]fs.DirEntry, error) {
	if !h.file.IsDir() {
		return nil, &fs.PathError{Op: "readdir", Path: h.file.name, Err: fs.ErrInvalid}
	}
	if !h.listed {
		entries, err := h.fsys.ReadDir(h.file.name)
		if err != nil {
			return nil, err
		}
		h.entries, h.listed = entries, true
	}

	if n <= 0 {
		rest := h.entries
		h.entries = nil
		return rest, nil
	}
	if len(h.entries) == 0 {
		return nil, io.EOF
	}
	if n > len(h.entries) {
		n = len(h.entries)
	}
	page := h.entries[:n]
	h.entries = h.entries[n:]
	return page, nil
}

func (f *memoryFile) Name() string       { return path.Base(f.name) }
func (f *memoryFile) Size() int64        { return int64(len(f.content)) }
func (f *memoryFile) Mode() fs.FileMode  { return f.mode }
func (f *memoryFile) ModTime() time.Time { return f.modTime }
func (f *memoryFile) IsDir() bool        { return f.mode.IsDir() }
func (f *memoryFile) Sys() any           { return nil }
