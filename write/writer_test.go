package write

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileWriterCreatesDirs(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "blog", "post", "index.html")

	if err := NewFileWriter().Write(path, []byte("<p>x</p>"), DefaultOptions()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "<p>x</p>" {
		t.Errorf("content = %q", got)
	}

	leftovers, _ := filepath.Glob(filepath.Join(root, "blog", "post", "*.tmp"))
	if len(leftovers) != 0 {
		t.Errorf("temporary files left behind: %v", leftovers)
	}
}

func TestFileWriterSkipsUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.html")
	w := NewFileWriter()

	if err := w.Write(path, []byte("same"), DefaultOptions()); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatal(err)
	}

	if err := w.Write(path, []byte("same"), DefaultOptions()); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(old) {
		t.Error("unchanged file was rewritten")
	}
}

func TestFileWriterNoOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.html")
	w := NewFileWriter()
	if err := w.Write(path, []byte("a"), Options{}); err != nil {
		t.Fatal(err)
	}
	if err := w.Write(path, []byte("b"), Options{}); err == nil {
		t.Error("expected error when overwrite is false")
	}
}

func TestDryRunWriter(t *testing.T) {
	d := NewDryRunWriter()
	_ = d.Write("out/a.html", []byte("a"), DefaultOptions())
	_ = d.Write("out/b.html", []byte("b"), DefaultOptions())

	changes := d.Changes()
	if len(changes) != 2 || changes[1].Path != "out/b.html" || string(changes[1].Content) != "b" {
		t.Errorf("changes = %+v", changes)
	}
}
