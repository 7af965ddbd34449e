package fsops

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAtomicWrite_CreatesFileAndParents(t *testing.T) {
	fs := NewRealFS()
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deep", "file.yml")

	if err := fs.AtomicWrite(path, []byte("hello"), 0644); err != nil {
		t.Fatalf("AtomicWrite returned error: %v", err)
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile returned error: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("content = %q, want %q", data, "hello")
	}
}

func TestAtomicWrite_OverwritesExisting(t *testing.T) {
	fs := NewRealFS()
	dir := t.TempDir()
	path := filepath.Join(dir, "file.yml")

	if err := fs.AtomicWrite(path, []byte("first"), 0644); err != nil {
		t.Fatalf("first AtomicWrite returned error: %v", err)
	}
	if err := fs.AtomicWrite(path, []byte("second"), 0644); err != nil {
		t.Fatalf("second AtomicWrite returned error: %v", err)
	}

	data, _ := fs.ReadFile(path)
	if string(data) != "second" {
		t.Errorf("content = %q, want %q", data, "second")
	}
}

func TestAtomicWrite_LeavesNoTempFiles(t *testing.T) {
	fs := NewRealFS()
	dir := t.TempDir()

	if err := fs.AtomicWrite(filepath.Join(dir, "a.yml"), []byte("x"), 0644); err != nil {
		t.Fatalf("AtomicWrite returned error: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir returned error: %v", err)
	}
	if len(entries) != 1 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("expected exactly one file, got %v", names)
	}
}

func TestExists(t *testing.T) {
	fs := NewRealFS()
	dir := t.TempDir()
	path := filepath.Join(dir, "present")

	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	exists, err := fs.Exists(path)
	if err != nil {
		t.Fatalf("Exists returned error: %v", err)
	}
	if !exists {
		t.Error("Exists = false for existing file")
	}

	exists, err = fs.Exists(filepath.Join(dir, "absent"))
	if err != nil {
		t.Fatalf("Exists returned error: %v", err)
	}
	if exists {
		t.Error("Exists = true for missing file")
	}
}

func TestGlob(t *testing.T) {
	fs := NewRealFS()
	dir := t.TempDir()

	for _, name := range []string{"pkg-a", "pkg-b"} {
		if err := os.MkdirAll(filepath.Join(dir, "packages", name), 0755); err != nil {
			t.Fatalf("failed to create directory: %v", err)
		}
	}

	matches, err := fs.Glob(filepath.Join(dir, "packages", "*"))
	if err != nil {
		t.Fatalf("Glob returned error: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("Glob matched %d paths, want 2: %v", len(matches), matches)
	}
}

func TestValidateRelPath(t *testing.T) {
	fs := NewRealFS()

	tests := []struct {
		path    string
		wantErr bool
	}{
		{"packages/pkg-a/index.js", false},
		{"file.txt", false},
		{"", true},
		{".", true},
		{"/etc/passwd", true},
		{"../outside", true},
		{"a/../../outside", true},
	}

	for _, tt := range tests {
		err := fs.ValidateRelPath(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateRelPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
	}
}
